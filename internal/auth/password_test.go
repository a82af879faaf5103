package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "password123"},
		{name: "special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "unicode", password: "пароль-密码"},
		{name: "empty password", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := hasher.Hash(tt.password)
			require.NoError(t, err)
			second, err := hasher.Hash(tt.password)
			require.NoError(t, err)

			assert.NotEqual(t, first, second, "hashes must be salted")
			assert.NotEqual(t, tt.password, first)
			assert.True(t, hasher.Verify(tt.password, first))
			assert.True(t, hasher.Verify(tt.password, second))
		})
	}
}

func TestPasswordHasher_RejectsMismatch(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct_password")
	require.NoError(t, err)
	emptyHash, err := hasher.Hash("")
	require.NoError(t, err)

	assert.False(t, hasher.Verify("wrong_password", hash))
	assert.False(t, hasher.Verify("", hash))
	assert.False(t, hasher.Verify("x", emptyHash))
	assert.False(t, hasher.Verify("correct_password", "not-a-bcrypt-hash"))
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 11, NewPasswordHasher(11).cost)
}

func TestPasswordHasher_RejectsOverlongPasswords(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)

	for name, pw := range map[string]string{
		"ascii":     strings.Repeat("a", MaxPasswordBytes+1),
		"multibyte": strings.Repeat("п", 72),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := hasher.Hash(pw)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "got %v", err)
		})
	}
}
