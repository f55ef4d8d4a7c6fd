package session

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	c, err := NewCodec([]byte("test-session-secret"), false)
	require.NoError(t, err)
	return c
}

func TestNewCodec_MissingSecret(t *testing.T) {
	_, err := NewCodec(nil, false)
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	userID := uuid.New()

	token, err := codec.Encode(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, userID, codec.Decode(token))
}

func TestCodec_Decode_Invalid(t *testing.T) {
	codec := newTestCodec(t)

	assert.Equal(t, uuid.Nil, codec.Decode(""))
	assert.Equal(t, uuid.Nil, codec.Decode("garbage"))
	assert.Equal(t, uuid.Nil, codec.Decode("a.b.c"))
}

func TestCodec_Decode_TamperedToken(t *testing.T) {
	codec := newTestCodec(t)
	token, err := codec.Encode(uuid.New())
	require.NoError(t, err)

	// Flip one bit at every position. Positions whose trailing base64
	// bits are unused by the decoder (the last char of a segment) are
	// skipped; a flip there does not change the decoded bytes.
	for i := 0; i < len(token); i++ {
		if i == len(token)-1 || token[i] == '.' || (i+1 < len(token) && token[i+1] == '.') {
			continue
		}
		mutated := []byte(token)
		mutated[i] ^= 0x01
		assert.Equal(t, uuid.Nil, codec.Decode(string(mutated)), "position %d", i)
	}
}

func TestCodec_Decode_WrongSecret(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec([]byte("another-secret"), false)
	require.NoError(t, err)

	token, err := other.Encode(uuid.New())
	require.NoError(t, err)

	assert.Equal(t, uuid.Nil, codec.Decode(token))
}

func TestCodec_Decode_Expired(t *testing.T) {
	codec := newTestCodec(t)

	claims := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-session-secret"))
	require.NoError(t, err)

	assert.Equal(t, uuid.Nil, codec.Decode(token))
}

func TestCodec_Cookies(t *testing.T) {
	codec := newTestCodec(t)

	cookie := codec.NewCookie("token-value")
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(MaxAge.Seconds()), cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	secure, err := NewCodec([]byte("s"), true)
	require.NoError(t, err)
	assert.True(t, secure.NewCookie("v").Secure)

	cleared := codec.ClearCookie()
	assert.Equal(t, CookieName, cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}
