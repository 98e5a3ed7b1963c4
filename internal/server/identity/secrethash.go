package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"github.com/dmarquez/usermirror/internal/common"
)

// DeriveSecretHash computes the SECRET_HASH value Cognito expects from
// confidential clients: base64(HMAC-SHA256(clientSecret, username+clientID)).
// The concatenation order and the key source are fixed by the provider and
// must not change.
//
// An empty secret is a configuration error, not something to default around:
// the provider would reject every derived value anyway.
func DeriveSecretHash(username, clientID string, clientSecret []byte) (string, error) {
	if len(clientSecret) == 0 {
		return "", common.ErrMissingClientSecret
	}

	mac := hmac.New(sha256.New, clientSecret)
	mac.Write([]byte(username + clientID))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
