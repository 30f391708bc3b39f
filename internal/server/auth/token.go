// Package auth implements the credential primitives of the portal: the
// remember-me token codec and the bcrypt hashing helpers.
package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dkoval/companyportal/internal/common"
	"github.com/dkoval/companyportal/internal/randx"
)

// rememberSecretBytes is the entropy of a remember-me secret. The hex wire
// form is twice this length.
const rememberSecretBytes = 32

// IssuedToken is a freshly generated remember-me token. CookieValue is the
// literal wire value sent to the client; only a hash of Secret is persisted.
type IssuedToken struct {
	CookieValue string
	Secret      string
	ExpiresAt   time.Time
}

// IssueRememberToken generates a new remember-me secret for userID with the
// given validity. The cookie value pairs the owner with the secret as
// "<userID>:<secret>".
func IssueRememberToken(userID int64, validity time.Duration) (*IssuedToken, error) {
	secret, err := randx.MakeRandHexString(rememberSecretBytes)
	if err != nil {
		return nil, fmt.Errorf("error generating remember token: %w", err)
	}

	return &IssuedToken{
		CookieValue: fmt.Sprintf("%d:%s", userID, secret),
		Secret:      secret,
		ExpiresAt:   time.Now().Add(validity),
	}, nil
}

// ParseRememberCookie splits a remember-me cookie value into the owning user
// id and the secret. The value is attacker-controlled: any shape other than
// "<positive integer>:<non-empty secret>" yields common.ErrorTokenInvalid.
func ParseRememberCookie(value string) (int64, string, error) {
	id, secret, found := strings.Cut(value, ":")
	if !found || secret == "" {
		return 0, "", common.ErrorTokenInvalid
	}

	userID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", common.ErrorTokenInvalid
	}

	return userID, secret, nil
}
