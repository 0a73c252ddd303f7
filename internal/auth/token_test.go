package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return []byte("0123456789abcdef0123456789abcdef")
}

func TestCodec_IssueAndVerify(t *testing.T) {
	codec, err := NewCodec(testKey())
	require.NoError(t, err)

	userID := uuid.New()
	token, err := codec.Issue(userID, PurposeAuth)
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, PurposeAuth, claims.Purpose)
}

func TestCodec_RandomizedEncoding(t *testing.T) {
	codec, err := NewCodec(testKey())
	require.NoError(t, err)

	userID := uuid.New()
	first, err := codec.Issue(userID, PurposeAuth)
	require.NoError(t, err)
	second, err := codec.Issue(userID, PurposeAuth)
	require.NoError(t, err)

	// Same claims, different token strings; both must verify
	assert.NotEqual(t, first, second)

	for _, token := range []string{first, second} {
		claims, err := codec.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
	}
}

func TestCodec_WrongKey(t *testing.T) {
	codec, err := NewCodec(testKey())
	require.NoError(t, err)
	other, err := NewCodec([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)

	token, err := codec.Issue(uuid.New(), PurposeAuth)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_TamperedToken(t *testing.T) {
	codec, err := NewCodec(testKey())
	require.NoError(t, err)

	token, err := codec.Issue(uuid.New(), PurposeAuth)
	require.NoError(t, err)

	// Flip one payload byte: the signature no longer covers the bytes
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	_, err = codec.Verify(string(tampered))
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Truncation fails too
	_, err = codec.Verify(token[:len(token)-10])
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.Verify("v4.local.garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewCodec_KeyLength(t *testing.T) {
	_, err := NewCodec([]byte("too-short"))
	assert.Error(t, err)
}
