package token

import (
	"strconv"

	"github.com/userhub/auth-service/users"
)

// AccessClaims is the identity a token carries: the principal id and role.
// Embedded in both token types, never persisted.
type AccessClaims struct {
	Subject int64
	Role    users.Role
}

// RefreshClaims extends AccessClaims with the id of the session row backing
// the refresh token. SessionID equals the token's jti.
type RefreshClaims struct {
	AccessClaims
	SessionID string
}

// sub is always the decimal form of the numeric principal id
func subjectString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseSubject(sub string) (int64, error) {
	return strconv.ParseInt(sub, 10, 64)
}
