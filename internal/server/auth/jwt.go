// Package auth implements the stateless session-token codec. Tokens are
// HS256-signed JWTs carrying the user's id, email, and admin flag.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/bookworm/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the claim set embedded in every access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Admin  bool   `json:"userIsAdmin"`
}

// signingMethod is the only accepted algorithm. Verification pins it via
// jwt.WithValidMethods, so a token claiming any other "alg" fails outright.
var signingMethod = jwt.SigningMethodHS256

// GenerateToken signs an access token for the given identity, valid for
// validityDuration from now.
func GenerateToken(userID int64, email string, admin bool, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(signingMethod, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
		Email:  email,
		Admin:  admin,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseClaims verifies tokenString against secretKey and returns its claims.
// Expired tokens yield common.ErrTokenExpired; any other verification
// failure (bad signature, malformed token, foreign algorithm) yields
// common.ErrInvalidToken.
func ParseClaims(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{signingMethod.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
