package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountsetup/internal/common"
	"github.com/dmitrijs2005/accountsetup/internal/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "accountsetup"

// TokenIssuer mints and checks session tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (userID string, err error)
}

// DeriveTokenKey turns the install key into the session signing key.
func DeriveTokenKey(installKey []byte) []byte {
	return cryptox.DeriveKey(installKey, []byte("accountsetup/session/v1"))
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// JWTIssuer issues HS256 tokens whose subject is the user id. Each token
// carries a random 256-bit jti, so two sessions never share a token.
type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewJWTIssuer(secret []byte) *JWTIssuer {
	return &JWTIssuer{secret: secret, now: time.Now}
}

func (j *JWTIssuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("issue token: empty user id")
	}

	jti, err := common.MakeRandHexString(32)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   tokenIssuer,
			Subject:  userID,
			ID:       jti,
			IssuedAt: jwt.NewNumericDate(j.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the subject of a token signed by this issuer, or an error
// wrapping ErrSessionInvalid.
func (j *JWTIssuer) Verify(tokenStr string) (string, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	if !token.Valid || claims.Subject == "" || claims.ID == "" {
		return "", ErrSessionInvalid
	}
	return claims.Subject, nil
}
