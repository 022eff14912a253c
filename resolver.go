package main

import (
	"context"
	"fmt"
	"net"
	"sort"
	"time"

	"ipwatch/config"

	log "github.com/sirupsen/logrus"
)

// delay between failed lookup attempts
const retryDelay = 300 * time.Millisecond

type Resolver interface {
	// LookupIPAddr resolves a host to its IP addresses.
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// ResolutionError is returned when every lookup attempt for a host failed.
// It wraps the error of the last attempt; earlier errors are discarded.
type ResolutionError struct {
	Host     string
	Attempts int
	Err      error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %s failed after %d attempts: %v", e.Host, e.Attempts, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

func setupResolver(cfg *config.Config) Resolver {
	if cfg.DNS.Nameserver == "" {
		return net.DefaultResolver
	}

	ns := cfg.DNS.Nameserver
	if _, _, err := net.SplitHostPort(ns); err != nil {
		ns = net.JoinHostPort(ns, "53")
	}

	return newDNSResolver(ns)
}

// resolveAll looks up all addresses (IPv4 and IPv6) for host, retrying
// failed attempts after a fixed delay. A lookup returning no addresses
// without an error still counts as success and yields an empty list.
func resolveAll(ctx context.Context, r Resolver, host string, timeout time.Duration, retries int) ([]string, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		ips, err := lookup(ctx, r, host, timeout)
		if err != nil {
			log.Debugf("lookup for %s failed (attempt %d/%d): %v", host, attempt+1, retries+1, err)
			lastErr = err
			continue
		}

		return uniqueSorted(ips), nil
	}

	return nil, &ResolutionError{Host: host, Attempts: retries + 1, Err: lastErr}
}

func lookup(ctx context.Context, r Resolver, host string, timeout time.Duration) ([]string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	addrs, err := r.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}

	ips := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		ips = append(ips, addr.IP.String())
	}

	return ips, nil
}

func uniqueSorted(ips []string) []string {
	set := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		set[ip] = struct{}{}
	}

	result := make([]string, 0, len(set))
	for ip := range set {
		result = append(result, ip)
	}
	sort.Strings(result)

	return result
}
