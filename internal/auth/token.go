package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const (
	purposeAccess = "access"
	purposeReset  = "reset"
)

// Claims is the identity carried by a validated token
type Claims struct {
	UserID string
	Email  string
	Name   string
}

// TokenIssuer signs and validates HS256 tokens
type TokenIssuer struct {
	secret   []byte
	tokenTTL time.Duration
	resetTTL time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates an issuer for the given secret and lifetimes
func NewTokenIssuer(secret string, tokenTTL, resetTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

// Issue signs an access token for cred
func (t *TokenIssuer) Issue(cred domain.Credential) (string, time.Time, error) {
	return t.sign(cred, purposeAccess, t.tokenTTL)
}

// IssueReset signs a password reset token for cred
func (t *TokenIssuer) IssueReset(cred domain.Credential) (string, time.Time, error) {
	return t.sign(cred, purposeReset, t.resetTTL)
}

// Validate accepts access tokens only
func (t *TokenIssuer) Validate(tokenStr string) (*Claims, error) {
	return t.parse(tokenStr, purposeAccess)
}

// ValidateReset accepts reset tokens only
func (t *TokenIssuer) ValidateReset(tokenStr string) (*Claims, error) {
	return t.parse(tokenStr, purposeReset)
}

func (t *TokenIssuer) sign(cred domain.Credential, purpose string, ttl time.Duration) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(ttl)
	claims := jwt.MapClaims{
		"user_id": cred.UserID,
		"email":   cred.Email,
		"name":    cred.DisplayName,
		"purpose": purpose,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (t *TokenIssuer) parse(tokenStr, purpose string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if p, _ := mapClaims["purpose"].(string); p != purpose {
		return nil, ErrInvalidToken
	}

	userID, _ := mapClaims["user_id"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	email, _ := mapClaims["email"].(string)
	name, _ := mapClaims["name"].(string)
	return &Claims{UserID: userID, Email: email, Name: name}, nil
}
