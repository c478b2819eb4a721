package gateway

import "strings"

// PublicRoutes is the explicit allowlist of paths reachable without a
// token. An entry ending in "*" matches by prefix, anything else must
// match exactly.
type PublicRoutes struct {
	exact    map[string]struct{}
	prefixes []string
}

func NewPublicRoutes(patterns []string) PublicRoutes {
	p := PublicRoutes{exact: make(map[string]struct{})}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			p.prefixes = append(p.prefixes, prefix)
			continue
		}
		p.exact[pattern] = struct{}{}
	}
	return p
}

func (p PublicRoutes) Match(path string) bool {
	if _, ok := p.exact[path]; ok {
		return true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
