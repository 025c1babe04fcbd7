package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, Verify("correct horse battery staple", hash))
	assert.False(t, Verify("wrong password", hash))
}

func TestHashTokenIsDeterministic(t *testing.T) {
	a := HashToken("token-123")
	b := HashToken("token-123")
	c := HashToken("token-456")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64) // hex-encoded sha256
}

func TestGenerateResetCode(t *testing.T) {
	code, err := GenerateResetCode()
	require.NoError(t, err)
	assert.Len(t, code, ResetCodeLength)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword("short"))
	assert.True(t, ValidatePassword("longenough"))
}
