// Package signing produces replay-resistant integrity headers for mutating
// API requests. The server recomputes the digest and rejects requests whose
// timestamp is more than five minutes stale or whose signature does not
// match.
//
// Signature: HMAC-SHA256 over "timestamp:method:path:body".
package signing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/vetsoap/vetsoap-go/internal/common"
)

// KeySource supplies the HMAC key for a request. Returning an empty string
// means no key material is available right now.
//
// By default the millisecond timestamp itself keys the digest, which makes
// the signature tamper-evidence rather than true message authentication; a
// deployment with a provisioned shared secret can swap in its own source.
type KeySource func(ctx context.Context) (string, error)

// Signer computes signing headers for outbound requests.
type Signer struct {
	keySource KeySource
	now       func() time.Time
}

func New() *Signer {
	return &Signer{now: time.Now}
}

// NewWithKeySource returns a Signer that keys the HMAC with values from ks
// instead of the request timestamp.
func NewWithKeySource(ks KeySource) *Signer {
	return &Signer{keySource: ks, now: time.Now}
}

// Headers returns the timestamp and signature headers for a request, or an
// empty map for GET requests (exempt for performance) and whenever keying
// material is unavailable. Signing never fails a request: degraded requests
// simply carry no integrity headers.
func (s *Signer) Headers(ctx context.Context, method, path string, body []byte) map[string]string {
	if method == http.MethodGet {
		return map[string]string{}
	}

	timestamp := strconv.FormatInt(s.now().UnixMilli(), 10)

	key := timestamp
	if s.keySource != nil {
		k, err := s.keySource(ctx)
		if err != nil || k == "" {
			return map[string]string{}
		}
		key = k
	}

	payload := timestamp + ":" + method + ":" + path + ":" + string(body)

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(payload))

	return map[string]string{
		common.TimestampHeaderName: timestamp,
		common.SignatureHeaderName: hex.EncodeToString(mac.Sum(nil)),
	}
}
