package ratelimit

import (
	"strings"
)

// exempt routes are never limited.
var exempt = map[string]bool{
	"GET /health":  true,
	"GET /metrics": true,
}

// MatchEndpoint returns the config for a request, or nil if none applies.
// An exact path match wins over a prefix match. Exempt routes get an
// unlimited config.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if exempt[method+" "+path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method || !strings.HasSuffix(c.Path, "/") || !strings.HasPrefix(path, c.Path) {
			continue
		}
		if best == nil || len(c.Path) > len(best.Path) {
			best = c
		}
	}
	return best
}
