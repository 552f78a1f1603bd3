package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/accountd/account-service/internal/core/domain"
)

// Claims is the verified payload of an access token.
type Claims struct {
	UserID string
	Roles  []string
}

// TokenService issues and validates HS256-signed access tokens. The secret
// is process-wide, loaded once at startup. A zero TTL issues tokens without
// an expiry claim, matching the service's documented no-expiry behavior.
//
// There is deliberately no decode-without-verify operation: VerifyAndDecode
// is the only way to get at a token's claims, so an unverified user id can
// never leak into a lookup.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token binding the user id and roles.
func (s *TokenService) Issue(userID string, roles []string) (string, error) {
	claims := jwt.MapClaims{
		"_id":   userID,
		"roles": roles,
	}
	if s.ttl > 0 {
		claims["exp"] = time.Now().Add(s.ttl).Unix()
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyAndDecode checks the signature and structure of token and, only on
// success, returns its claims. Any failure reports domain.ErrInvalidToken;
// the claims of an invalid token are never exposed.
func (s *TokenService) VerifyAndDecode(token string) (*Claims, error) {
	raw := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	userID, _ := raw["_id"].(string)
	if userID == "" {
		return nil, domain.ErrInvalidToken
	}

	var roles []string
	if rs, ok := raw["roles"].([]interface{}); ok {
		for _, r := range rs {
			if role, ok := r.(string); ok {
				roles = append(roles, role)
			}
		}
	}

	return &Claims{UserID: userID, Roles: roles}, nil
}
