package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/config"
)

func testConfig(ttl time.Duration) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "Bookstore Backend"},
		Session: config.SessionConfig{Secret: "0123456789abcdef0123456789abcdef", TTL: ttl},
	}
}

func TestCodec_SignAndParse(t *testing.T) {
	codec := NewCodec(testConfig(time.Hour))

	signed, err := codec.Sign("session-1")
	require.NoError(t, err)

	id, err := codec.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)
}

func TestCodec_RejectsForeignSecret(t *testing.T) {
	signed, err := NewCodec(testConfig(time.Hour)).Sign("session-1")
	require.NoError(t, err)

	other := testConfig(time.Hour)
	other.Session.Secret = "ffffffffffffffffffffffffffffffff"

	_, err = NewCodec(other).Parse(signed)
	assert.Error(t, err)
}

func TestCodec_RejectsExpired(t *testing.T) {
	codec := NewCodec(testConfig(-time.Minute))

	signed, err := codec.Sign("session-1")
	require.NoError(t, err)

	_, err = codec.Parse(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestCodec_RejectsGarbage(t *testing.T) {
	_, err := NewCodec(testConfig(time.Hour)).Parse("not-a-token")
	assert.Error(t, err)
}

func TestCodec_RejectsMissingSessionID(t *testing.T) {
	codec := NewCodec(testConfig(time.Hour))

	signed, err := codec.Sign("")
	require.NoError(t, err)

	_, err = codec.Parse(signed)
	assert.ErrorContains(t, err, "session id")
}
