package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("64f000000000000000000001", "client@example.com", "CLIENT", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", claims.UserID)
	assert.Equal(t, "client@example.com", claims.Email)
	assert.Equal(t, "CLIENT", claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("64f000000000000000000001", "client@example.com", "CLIENT", time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "another-secret")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "s3cret-pass"))
	assert.Error(t, CheckPassword(hash, "wrong-pass"))
}

func TestSanitizeObjectName(t *testing.T) {
	assert.Equal(t, "cafe-creme", SanitizeObjectName("Café Crème"))
	assert.Equal(t, "a-b", SanitizeObjectName("  a//b  "))
	assert.Equal(t, "already-clean", SanitizeObjectName("already-clean"))
}

func TestParseBoolQuery(t *testing.T) {
	v, err := ParseBoolQuery("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseBoolQuery("true")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, *v)

	v, err = ParseBoolQuery("false")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, *v)

	_, err = ParseBoolQuery("banana")
	assert.Error(t, err)
}

func TestStringsToObjectIDs(t *testing.T) {
	ids, err := StringsToObjectIDs([]string{"64f000000000000000000001", "64f000000000000000000002"})
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	_, err = StringsToObjectIDs([]string{"not-an-id"})
	assert.Error(t, err)
}
