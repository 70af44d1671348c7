package mail

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a join token fails signature or claim
// validation (expired, malformed, wrong signing method).
var ErrInvalidToken = errors.New("invalid invitation token")

// InviteClaims binds a join token to one room and one invited address.
type InviteClaims struct {
	RoomID int64  `json:"room_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// InviteSigner issues and verifies HMAC-signed join tokens for room
// invitation links.
type InviteSigner struct {
	Secret []byte
	TTL    time.Duration
}

// NewInviteSigner builds a signer from the shared secret and token TTL.
func NewInviteSigner(secret string, ttl time.Duration) *InviteSigner {
	return &InviteSigner{Secret: []byte(secret), TTL: ttl}
}

// Sign issues a token that lets the holder of email join roomID until the
// TTL elapses.
func (s *InviteSigner) Sign(roomID int64, email string) (string, error) {
	now := time.Now().UTC()
	claims := InviteClaims{
		RoomID: roomID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "team-chat",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Verify checks signature and expiry and returns the embedded claims.
// Every failure mode collapses to ErrInvalidToken with the parser detail
// wrapped for logging.
func (s *InviteSigner) Verify(token string) (*InviteClaims, error) {
	var claims InviteClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
