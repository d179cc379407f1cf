package security

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mailagent/server/internal/domain"
	"github.com/mailagent/server/internal/ports"
)

type accessClaims struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// JWTSigner issues HS256 access tokens keyed from the server secret.
type JWTSigner struct {
	secret []byte
	issuer string
}

func NewJWTSigner(secret string, issuer string) (*JWTSigner, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt signer: secret is empty")
	}
	return &JWTSigner{secret: []byte(secret), issuer: issuer}, nil
}

func (s *JWTSigner) Sign(claims ports.AuthClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email:    claims.Email,
		Username: claims.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseAndValidate collapses all failure modes into ErrTokenInvalid so a
// caller cannot distinguish an expired token from a forged one.
func (s *JWTSigner) ParseAndValidate(token string) (ports.AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &accessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return ports.AuthClaims{}, domain.ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*accessClaims)
	if !ok {
		return ports.AuthClaims{}, domain.ErrTokenInvalid
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ports.AuthClaims{}, domain.ErrTokenInvalid
	}
	out := ports.AuthClaims{
		UserID:   userID,
		Email:    claims.Email,
		Username: claims.Username,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

var _ ports.TokenSigner = (*JWTSigner)(nil)
