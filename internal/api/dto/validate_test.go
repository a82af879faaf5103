package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

func TestValidate_Signup(t *testing.T) {
	assert.NoError(t, Validate(&SignupRequest{Username: "alice", Email: "a@x.io", Password: "pw"}))
	assert.NoError(t, Validate(&SignupRequest{Username: "alice", Email: "a@x.io", Password: "pw", Role: "admin"}))

	err := Validate(&SignupRequest{Username: "", Email: "not-an-email", Password: "pw", Role: "root"})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	assert.Contains(t, domainErr.Details, "username")
	assert.Contains(t, domainErr.Details, "email")
	assert.Contains(t, domainErr.Details, "role")
	assert.NotContains(t, domainErr.Details, "password")
}

func TestValidate_UsesFormNames(t *testing.T) {
	err := Validate(&BlogCreateForm{Description: "d"})
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "The field 'title' is required.", domainErr.Details["title"])
}

func TestValidate_ProfileURLs(t *testing.T) {
	bad := "nope"
	good := "https://twitter.com/alice"
	assert.Error(t, Validate(&ProfileUpdateRequest{TwitterURL: &bad}))
	assert.NoError(t, Validate(&ProfileUpdateRequest{TwitterURL: &good}))
	assert.NoError(t, Validate(&ProfileUpdateRequest{}))
}
