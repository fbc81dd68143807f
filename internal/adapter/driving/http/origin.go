package http

import (
	"net/http"
	"net/url"
	"strings"
)

// originPolicy decides which browser origins may open the signaling
// socket. Requests without an Origin header (native clients) always pass.
type originPolicy struct {
	any     bool
	allowed map[string]struct{}
}

func newOriginPolicy(origins []string) originPolicy {
	p := originPolicy{allowed: make(map[string]struct{})}
	if len(origins) == 0 {
		p.any = true
	}
	for _, o := range origins {
		if o == "*" {
			p.any = true
			continue
		}
		if n, ok := normalizeOrigin(o); ok {
			p.allowed[n] = struct{}{}
		}
	}
	return p
}

func (p originPolicy) check(r *http.Request) bool {
	header := r.Header.Get("Origin")
	if header == "" || p.any {
		return true
	}
	n, ok := normalizeOrigin(header)
	if !ok {
		return false
	}
	_, ok = p.allowed[n]
	return ok
}

// normalizeOrigin lowercases scheme and host and drops default ports.
func normalizeOrigin(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host += ":" + port
	}
	return scheme + "://" + host, true
}
