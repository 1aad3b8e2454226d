package lookup

import (
	"context"
	"net"
	"strings"
	"time"
)

// RawRecords holds the outcome of the three DNS probes for one domain.
// An empty field means "no such record" — absence is the normal outcome
// for most record types on most domains, never an error.
type RawRecords struct {
	IP        string
	CNAME     string
	NSRecords []string
}

// LookupFunc is the resolver seam; tests swap in a fake.
type LookupFunc func(ctx context.Context, domain string) RawRecords

// resolver enforces a strict dial timeout. A batch walks thousands of
// destination domains; one slow upstream DNS server must not stall it.
var resolver = &net.Resolver{
	PreferGo: true,
	Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
		d := net.Dialer{
			Timeout: 3 * time.Second,
		}
		return d.DialContext(ctx, network, address)
	},
}

// LookupRaw performs the A, CNAME and NS queries for a domain. Each
// probe fails independently: a timeout or NXDOMAIN on one record type
// leaves that field empty and the others untouched. Nothing propagates.
func LookupRaw(ctx context.Context, domain string) RawRecords {
	var rec RawRecords

	if addrs, err := resolver.LookupHost(ctx, domain); err == nil && len(addrs) > 0 {
		rec.IP = addrs[0]
	}

	if cname, err := resolver.LookupCNAME(ctx, domain); err == nil {
		target := strings.TrimSuffix(cname, ".")
		// LookupCNAME echoes the query name back when the domain has no
		// CNAME chain; that is not a real alias.
		if !strings.EqualFold(target, domain) {
			rec.CNAME = target
		}
	}

	if nss, err := resolver.LookupNS(ctx, domain); err == nil {
		for _, ns := range nss {
			rec.NSRecords = append(rec.NSRecords, strings.TrimSuffix(ns.Host, "."))
		}
	}

	return rec
}
