package main

import (
	"context"
	"fmt"
	"net"

	"github.com/miekg/dns"
)

// dnsResolver queries a single nameserver directly instead of going through
// the system resolver.
type dnsResolver struct {
	server string
	client *dns.Client
}

func newDNSResolver(server string) *dnsResolver {
	return &dnsResolver{
		server: server,
		client: new(dns.Client),
	}
}

// LookupIPAddr asks for A and AAAA records separately. As long as one of the
// two queries succeeds the lookup is treated as successful; a NOERROR answer
// without records yields an empty result.
func (r *dnsResolver) LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error) {
	v4, err4 := r.query(ctx, host, dns.TypeA)
	v6, err6 := r.query(ctx, host, dns.TypeAAAA)
	if err4 != nil && err6 != nil {
		return nil, err4
	}

	return append(v4, v6...), nil
}

func (r *dnsResolver) query(ctx context.Context, host string, qtype uint16) ([]net.IPAddr, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), qtype)

	resp, _, err := r.client.ExchangeContext(ctx, m, r.server)
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", r.server, err)
	}

	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("query for %s returned %s", host, dns.RcodeToString[resp.Rcode])
	}

	var addrs []net.IPAddr
	for _, ans := range resp.Answer {
		switch rr := ans.(type) {
		case *dns.A:
			addrs = append(addrs, net.IPAddr{IP: rr.A})
		case *dns.AAAA:
			addrs = append(addrs, net.IPAddr{IP: rr.AAAA})
		}
	}

	return addrs, nil
}
