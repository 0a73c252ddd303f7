package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// PurposeAuth tags tokens issued for session authentication. Other
// purposes (e.g. password reset) would get their own tag.
const PurposeAuth = "auth"

// TokenClaims represents the claims carried by a session token
type TokenClaims struct {
	UserID  string `json:"user_id"` // UUID stored as string in token
	Purpose string `json:"purpose"`
}

// Codec signs and verifies session tokens.
// Uses PASETO v4.local (symmetric encryption with XChaCha20-Poly1305):
// any mutation of the payload after signing fails verification. The nonce
// is randomized, so encoding the same claims twice yields different
// token strings; both verify.
type Codec struct {
	symmetricKey paseto.V4SymmetricKey
}

func NewCodec(symmetricKey []byte) (*Codec, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &Codec{symmetricKey: key}, nil
}

// Issue generates a new token encoding the user id and purpose.
// Tokens carry no expiration claim; revocation happens through the
// session registry only.
func (c *Codec) Issue(userID uuid.UUID, purpose string) (string, error) {
	token := paseto.NewToken()
	token.SetIssuedAt(time.Now())
	token.SetString("user_id", userID.String())
	token.SetString("purpose", purpose)

	return token.V4Encrypt(c.symmetricKey, nil), nil
}

// Verify validates a token and returns its claims. Any tamper, truncation
// or wrong-key failure comes back as ErrInvalidToken.
func (c *Codec) Verify(tokenStr string) (*TokenClaims, error) {
	// No expiry claim is issued, so the parser must not require one
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(c.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := token.GetString("user_id")
	if err != nil {
		return nil, ErrInvalidToken
	}

	purpose, err := token.GetString("purpose")
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		UserID:  userID,
		Purpose: purpose,
	}, nil
}
