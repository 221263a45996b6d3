// Package domain extracts the registered domain of a URL: the public
// suffix of its host plus exactly one additional label. Registered domains
// partition the index by site, so extraction fails closed; no default is
// ever substituted.
package domain

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/mesh-intelligence/webindex/pkg/types"
)

// Domain is a registered domain, e.g. "thema.ai" or "local.nhs.uk".
type Domain struct {
	name string
}

// String returns the registered domain.
func (d Domain) String() string { return d.name }

// Extractor resolves hosts against the static public-suffix table. Build
// one per batch or worker and reuse it: results are memoized per host, and
// the memo is not safe for concurrent use.
type Extractor struct {
	memo map[string]Domain
}

// NewExtractor returns an extractor ready for a batch of calls.
func NewExtractor() *Extractor {
	return &Extractor{memo: make(map[string]Domain)}
}

// Domain returns the registered domain of the URL's host.
// Fails with ErrNoHost when the URL carries no host, and with
// ErrNoRegisteredDomain for IP literals or hosts below no registrable
// suffix.
func (e *Extractor) Domain(u *url.URL) (Domain, error) {
	if u == nil || u.Hostname() == "" {
		return Domain{}, fmt.Errorf("url %q: %w", u, types.ErrNoHost)
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))

	if d, ok := e.memo[host]; ok {
		return d, nil
	}

	// The suffix table knows nothing about IP literals; reject them before
	// the lookup so "192.168.1.1" cannot masquerade as a domain.
	if _, err := netip.ParseAddr(host); err == nil {
		return Domain{}, fmt.Errorf("ip host %q: %w", host, types.ErrNoRegisteredDomain)
	}

	suffix, icann := publicsuffix.PublicSuffix(host)
	if !icann && !strings.Contains(suffix, ".") {
		// Single-label suffix absent from the table: "localhost", bare
		// machine names, made-up TLDs.
		return Domain{}, fmt.Errorf("host %q: %w", host, types.ErrNoRegisteredDomain)
	}

	name, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return Domain{}, fmt.Errorf("host %q: %w", host, types.ErrNoRegisteredDomain)
	}

	d := Domain{name: name}
	e.memo[host] = d
	return d, nil
}
