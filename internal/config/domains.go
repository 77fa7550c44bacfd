package config

import (
	"net/url"
	"strings"
)

// DomainRegistry is an immutable set of trusted link domains. A host is
// trusted when it equals a registered domain or is a subdomain of one.
type DomainRegistry struct {
	domains []string
}

// NewDomainRegistry normalizes and copies domains. Blank entries are skipped.
func NewDomainRegistry(domains []string) *DomainRegistry {
	r := &DomainRegistry{}
	seen := make(map[string]bool, len(domains))
	for _, d := range domains {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
		d = strings.TrimSuffix(d, ".")
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		r.domains = append(r.domains, d)
	}
	return r
}

// Domains returns a copy of the registered domains.
func (r *DomainRegistry) Domains() []string {
	return append([]string(nil), r.domains...)
}

// Allows reports whether rawURL is an http(s) URL on a trusted domain.
func (r *DomainRegistry) Allows(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return false
	}
	for _, d := range r.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
