// Package urlguard validates outbound URLs before any network I/O happens.
//
// Native certificate pinning is not available to this client, so the trust
// boundary is a domain allowlist instead: every request must target HTTPS
// and a host derived from the configured API or identity-provider base URLs.
// Presigned object-storage URLs are validated by a separate, looser
// predicate since their hosts are not known ahead of time.
package urlguard

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/vetsoap/vetsoap-go/internal/common"
)

// Policy selects whether the guard enforces its checks. Development builds
// deliberately relax the boundary so local insecure hosts can be targeted;
// this is an explicit construction-time decision, never an env probe.
type Policy int

const (
	PolicyEnforce Policy = iota
	PolicyPermissive
)

// storageSuffixes are object-storage hosts allowed for presigned transfers.
var storageSuffixes = []string{
	".r2.cloudflarestorage.com",
	".r2.dev",
	".s3.amazonaws.com",
}

// signatureParams mark a URL as presigned.
var signatureParams = []string{"X-Amz-Signature", "sig", "token"}

// Guard rejects outbound requests that leave the trust boundary.
type Guard struct {
	policy      Policy
	apiBaseURL  string
	authBaseURL string

	once    sync.Once
	trusted []string
}

func New(policy Policy, apiBaseURL, authBaseURL string) *Guard {
	return &Guard{policy: policy, apiBaseURL: apiBaseURL, authBaseURL: authBaseURL}
}

// initTrustedDomains derives the allowlist from the configured base URLs.
// Runs once; repeated calls are no-ops.
func (g *Guard) initTrustedDomains() {
	g.once.Do(func() {
		for _, base := range []string{g.apiBaseURL, g.authBaseURL} {
			if base == "" {
				continue
			}
			if u, err := url.Parse(base); err == nil && u.Hostname() != "" {
				g.trusted = append(g.trusted, u.Hostname())
			}
		}
	})
}

// ValidateRequestURL checks that raw targets HTTPS and a trusted domain.
// Recognized object-storage hosts pass as well, since presigned transfers
// reuse the same transport. Returns a security-policy error before any
// network I/O occurs.
func (g *Guard) ValidateRequestURL(raw string) error {
	if g.policy == PolicyPermissive {
		return nil
	}

	g.initTrustedDomains()

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return common.ErrInvalidURL
	}

	if parsed.Scheme != "https" {
		return common.ErrInsecureURL
	}

	if hasStorageSuffix(parsed.Hostname()) {
		return nil
	}

	host := parsed.Hostname()
	for _, domain := range g.trusted {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", common.ErrUntrustedURL, host)
}

// ValidateUploadURL checks a presigned upload target. The host is not
// required to be on the allowlist, but the URL must be HTTPS and either
// carry a recognizable signature query parameter or point at a known
// storage provider.
func (g *Guard) ValidateUploadURL(raw string) error {
	if g.policy == PolicyPermissive {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return common.ErrInvalidURL
	}

	if parsed.Scheme != "https" {
		return common.ErrInsecureURL
	}

	q := parsed.Query()
	for _, p := range signatureParams {
		if q.Has(p) {
			return nil
		}
	}

	// Some presigned formats embed the signature elsewhere; accept known
	// storage hosts without a visible signature parameter.
	if hasStorageSuffix(parsed.Hostname()) {
		return nil
	}

	return fmt.Errorf("%w: not a presigned upload url", common.ErrUntrustedURL)
}

func hasStorageSuffix(host string) bool {
	for _, suffix := range storageSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}
