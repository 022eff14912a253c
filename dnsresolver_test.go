package main

import (
	"context"
	"net"
	"sort"
	"testing"
	"time"

	"github.com/miekg/dns"
)

func startTestDNS(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("could not listen: %v", err)
	}

	srv := &dns.Server{PacketConn: pc, Handler: handler}
	go srv.ActivateAndServe()
	t.Cleanup(func() { srv.Shutdown() })

	return pc.LocalAddr().String()
}

func answerFor(req *dns.Msg, records ...string) *dns.Msg {
	m := new(dns.Msg)
	m.SetReply(req)
	for _, record := range records {
		rr, err := dns.NewRR(req.Question[0].Name + " " + record)
		if err != nil {
			panic(err)
		}
		m.Answer = append(m.Answer, rr)
	}
	return m
}

func Test_dnsResolver_LookupIPAddr(t *testing.T) {
	addr := startTestDNS(t, func(w dns.ResponseWriter, req *dns.Msg) {
		switch req.Question[0].Qtype {
		case dns.TypeA:
			w.WriteMsg(answerFor(req, "60 IN A 192.0.2.1", "60 IN A 192.0.2.2"))
		case dns.TypeAAAA:
			w.WriteMsg(answerFor(req, "60 IN AAAA 2001:db8::1"))
		default:
			w.WriteMsg(answerFor(req))
		}
	})

	r := newDNSResolver(addr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := r.LookupIPAddr(ctx, "test.example.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	ips := make([]string, 0, len(got))
	for _, a := range got {
		ips = append(ips, a.IP.String())
	}
	sort.Strings(ips)

	want := []string{"192.0.2.1", "192.0.2.2", "2001:db8::1"}
	if len(ips) != len(want) {
		t.Fatalf("expected %v, got %v", want, ips)
	}
	for i := range want {
		if ips[i] != want[i] {
			t.Errorf("expected %v, got %v", want, ips)
			break
		}
	}
}

func Test_dnsResolver_noRecordsIsSuccess(t *testing.T) {
	addr := startTestDNS(t, func(w dns.ResponseWriter, req *dns.Msg) {
		w.WriteMsg(answerFor(req))
	})

	r := newDNSResolver(addr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := r.LookupIPAddr(ctx, "empty.example.com")
	if err != nil {
		t.Fatalf("expected empty success, got error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no addresses, got %v", got)
	}
}

func Test_dnsResolver_nxdomain(t *testing.T) {
	addr := startTestDNS(t, func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(req, dns.RcodeNameError)
		w.WriteMsg(m)
	})

	r := newDNSResolver(addr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.LookupIPAddr(ctx, "missing.example.com"); err == nil {
		t.Error("expected an error for NXDOMAIN")
	}
}

func Test_dnsResolver_partialFailure(t *testing.T) {
	addr := startTestDNS(t, func(w dns.ResponseWriter, req *dns.Msg) {
		if req.Question[0].Qtype == dns.TypeAAAA {
			m := new(dns.Msg)
			m.SetRcode(req, dns.RcodeServerFailure)
			w.WriteMsg(m)
			return
		}
		w.WriteMsg(answerFor(req, "60 IN A 192.0.2.1"))
	})

	r := newDNSResolver(addr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := r.LookupIPAddr(ctx, "v4only.example.com")
	if err != nil {
		t.Fatalf("one working record type must be enough: %v", err)
	}
	if len(got) != 1 || got[0].IP.String() != "192.0.2.1" {
		t.Errorf("expected the A record only, got %v", got)
	}
}
