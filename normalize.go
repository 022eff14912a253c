package main

import (
	"net"
	"net/url"
	"strings"
)

// normalizeHost reduces a raw command line argument to a bare hostname.
// URLs lose their scheme, credentials, port and path; bare arguments lose
// everything after the first slash plus a trailing port suffix. Hostname
// syntax is not validated here, a bogus name simply fails to resolve.
func normalizeHost(raw string) string {
	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}

	host := raw
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}

	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}

	return strings.Trim(host, "[]")
}
