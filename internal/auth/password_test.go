package auth_test

import (
	"testing"

	"github.com/kanban-dev/kanban/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters keep the suite fast; the algorithm is the same
var testParams = auth.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestPasswordHasher_Verify(t *testing.T) {
	hasher := auth.NewPasswordHasher(testParams)

	passwords := []string{"hunter22", "correct horse battery staple", "пароль-ünïcode", " "}

	for _, password := range passwords {
		hash, salt, err := hasher.Hash(password)
		require.NoError(t, err)
		assert.NotEqual(t, password, hash)

		ok, err := hasher.Verify(password, hash, salt)
		require.NoError(t, err)
		assert.True(t, ok, "original password must verify")

		ok, err = hasher.Verify(password+"x", hash, salt)
		require.NoError(t, err)
		assert.False(t, ok, "a different password must not verify")
	}
}

func TestPasswordHasher_FreshSaltPerHash(t *testing.T) {
	hasher := auth.NewPasswordHasher(testParams)

	hash1, salt1, err := hasher.Hash("same-password")
	require.NoError(t, err)
	hash2, salt2, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}

func TestPasswordHasher_WrongSalt(t *testing.T) {
	hasher := auth.NewPasswordHasher(testParams)

	hash, _, err := hasher.Hash("secret-password")
	require.NoError(t, err)
	_, otherSalt, err := hasher.Hash("secret-password")
	require.NoError(t, err)

	ok, err := hasher.Verify("secret-password", hash, otherSalt)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_Errors(t *testing.T) {
	hasher := auth.NewPasswordHasher(testParams)

	_, _, err := hasher.Hash("")
	assert.ErrorIs(t, err, auth.ErrEmptyPassword)

	_, err = hasher.Verify("pw", "!!not-base64!!", "c2FsdA")
	assert.Error(t, err)

	_, err = hasher.Verify("pw", "c2FsdA", "!!not-base64!!")
	assert.Error(t, err)
}
