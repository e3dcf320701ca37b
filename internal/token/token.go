package token

import (
	"fmt"
	"time"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

const (
	purposePending = "pending-email"
	purposeSession = "session"
)

// Issuer mints and parses the signed tokens that cross request
// boundaries: the pending-email carrier between registration and
// verification, and the login session cookie. Tokens carry identity
// pointers only, never secrets.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

type claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// IssuePending carries an unverified email across the
// registration->verification redirect. Expiry matches the OTP window so
// a stale carrier cannot outlive every code it could redeem.
func (i *Issuer) IssuePending(email string, ttl time.Duration) (string, error) {
	return i.issue(purposePending, model.NormalizeEmail(email), ttl)
}

func (i *Issuer) ParsePending(tokenString string) (string, error) {
	return i.parse(purposePending, tokenString)
}

func (i *Issuer) IssueSession(identityID model.IdentityID, ttl time.Duration) (string, error) {
	return i.issue(purposeSession, string(identityID), ttl)
}

func (i *Issuer) ParseSession(tokenString string) (model.IdentityID, error) {
	subject, err := i.parse(purposeSession, tokenString)
	if err != nil {
		return "", err
	}
	return model.IdentityID(subject), nil
}

func (i *Issuer) issue(purpose string, subject string, ttl time.Duration) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", purpose, err)
	}
	return signed, nil
}

func (i *Issuer) parse(purpose string, tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return "", fmt.Errorf("parsing %s token: %w", purpose, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Purpose != purpose || c.Subject == "" {
		return "", fmt.Errorf("invalid %s token", purpose)
	}
	return c.Subject, nil
}
