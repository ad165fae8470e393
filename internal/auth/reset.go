package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/byteserenity/blog/internal/apperror"
)

// resetTokenTTL is the maximum age of a reset token. A token verified more
// than an hour after issuance fails with apperror.ErrTokenExpired.
const resetTokenTTL = 3600 * time.Second

// resetSalt scopes reset tokens so a token minted for some other purpose
// under the same secret can never pass Verify. Carried as the JWT audience.
const resetSalt = "email-confirm-salt"

// ResetTokenService issues and verifies the signed, stateless capsules used
// to prove email ownership during a password reset.
//
// A token encodes {email, issued-at} and an HMAC-SHA256 signature over both.
// Nothing is stored server-side: verification is a pure function of the
// token, the secret, and the clock. A token stays valid for its full hour
// even after a successful reset - single use is not enforced.
type ResetTokenService struct {
	secret []byte
}

// NewResetTokenService creates a ResetTokenService with the given signing
// secret. The secret should be at least 32 bytes of random data in
// production, e.g. SECRET_KEY=$(openssl rand -hex 32).
func NewResetTokenService(secret string) (*ResetTokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: reset token secret must be at least 16 characters")
	}
	return &ResetTokenService{secret: []byte(secret)}, nil
}

// resetClaims is the token payload. The email rides in the standard "sub"
// claim; "aud" carries the salt tag and "iat"/"exp" bound the age window.
type resetClaims struct {
	jwt.RegisteredClaims
}

// Issue creates a signed reset token binding the given email address.
// The token is URL-safe (base64url segments) and expires after exactly
// one hour.
func (s *ResetTokenService) Issue(email string) (string, error) {
	return s.issueWithTTL(email, resetTokenTTL)
}

// issueWithTTL mints a token with a custom lifetime. A negative ttl produces
// an already-expired token; the tests use that to exercise the Expired path
// without sleeping.
func (s *ResetTokenService) issueWithTTL(email string, ttl time.Duration) (string, error) {
	if email == "" {
		return "", errors.New("auth: email must not be empty")
	}

	now := time.Now()
	c := resetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Audience:  jwt.ClaimStrings{resetSalt},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing reset token: %w", err)
	}

	return signed, nil
}

// Verify checks a reset token and returns the email it binds.
//
// Failure modes:
//   - apperror.ErrTokenExpired - signature valid, age beyond the window
//   - apperror.ErrTokenInvalid - tampered, truncated, wrong salt, wrong
//     algorithm, or otherwise garbage
//
// Restricting the accepted algorithms to HS256 closes the algorithm
// confusion hole ("alg":"none" and friends).
func (s *ResetTokenService) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&resetClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithAudience(resetSalt),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperror.TokenExpired()
		}
		return "", apperror.TokenInvalid()
	}

	c, ok := token.Claims.(*resetClaims)
	if !ok || !token.Valid || c.Subject == "" {
		return "", apperror.TokenInvalid()
	}

	return c.Subject, nil
}
