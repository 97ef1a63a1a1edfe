package ratelimit

import (
	"strings"
)

// unlimited is returned for routes that are never rate limited
var unlimited = EndpointConfig{Pattern: "/health", Method: "GET"}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Exact patterns win over wildcard patterns, which win over prefixes.
// Returns nil if no configuration applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && (method == "GET" || method == "HEAD") {
		u := unlimited
		return &u
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && c.Pattern == path {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.Contains(c.Pattern, "*") && matchSegments(c.Pattern, path) {
			return c
		}
	}

	// Longest prefix wins
	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method || !strings.HasSuffix(c.Pattern, "/") || !strings.HasPrefix(path, c.Pattern) {
			continue
		}
		if best == nil || len(c.Pattern) > len(best.Pattern) {
			best = c
		}
	}
	return best
}

// matchSegments compares pattern and path segment by segment; "*" matches any non-empty segment.
func matchSegments(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if ps[i] == "*" {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
