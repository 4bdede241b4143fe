package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned for any credential that does not resolve to a
// valid user identity. Callers must not distinguish failure causes to the
// client.
var ErrUnauthorized = errors.New("unauthorized")

// User is the resolved caller identity.
type User struct {
	ID string
}

// Verifier resolves a bearer credential to a user identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier returns a Verifier that validates HS256-signed tokens and
// reads the user id from the "sub" claim.
func NewJWTVerifier(secret string) Verifier {
	return &jwtVerifier{secret: []byte(secret)}
}

func (v *jwtVerifier) Verify(_ context.Context, tokenString string) (*User, error) {
	if tokenString == "" {
		return nil, ErrUnauthorized
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrUnauthorized
	}

	return &User{ID: sub}, nil
}
