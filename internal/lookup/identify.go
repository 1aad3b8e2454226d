package lookup

import (
	"context"
	"strings"

	"adscope/internal/dnscache"
	"adscope/internal/models"
)

// Signal names the DNS check that produced a verdict, strongest first.
type Signal string

const (
	SignalIP    Signal = "ip"
	SignalCNAME Signal = "cname"
	SignalNS    Signal = "ns"
)

// Rule maps a substring seen in a DNS record to a platform verdict.
// Rules are evaluated in fixed signal precedence (IP, then CNAME, then
// NS) and, within a signal, in table order. New competitor platforms are
// added here, not in code.
type Rule struct {
	Signal     Signal
	Pattern    string
	Platform   string
	Confidence models.Confidence
}

// DefaultRules covers the competitor platforms observed in production.
// NS delegation is the weakest signal — registrar defaults leak through
// it — so NS rules never grade above medium.
var DefaultRules = []Rule{
	{Signal: SignalCNAME, Pattern: "myshopify", Platform: "shopify", Confidence: models.ConfidenceHigh},
	{Signal: SignalCNAME, Pattern: "shopify", Platform: "shopify", Confidence: models.ConfidenceHigh},
	{Signal: SignalCNAME, Pattern: "youcan", Platform: "youcan", Confidence: models.ConfidenceHigh},
	{Signal: SignalNS, Pattern: "youcan.shop", Platform: "youcan", Confidence: models.ConfidenceMedium},
	{Signal: SignalNS, Pattern: "shopify", Platform: "shopify", Confidence: models.ConfidenceMedium},
	{Signal: SignalNS, Pattern: "cloudflare", Platform: "cloudflare", Confidence: models.ConfidenceMedium},
}

// IdentifierConfig wires an Identifier. Cache is required so that tests
// and workers control the cache lifecycle explicitly; Lookup defaults to
// the real resolver.
type IdentifierConfig struct {
	// HomeIP is the home platform's canonical A-record address.
	HomeIP string
	// HomeCNAMEPatterns are substrings that prove a CNAME points at the
	// home platform's edge.
	HomeCNAMEPatterns []string
	// Rules identify competitor platforms; nil means DefaultRules.
	Rules []Rule
	// Cache holds resolution results across calls.
	Cache *dnscache.Cache
	// Lookup performs the raw DNS queries; nil means LookupRaw.
	Lookup LookupFunc
}

// Identifier decides which platform a domain belongs to and how
// confidently, consulting the cache before the network.
type Identifier struct {
	homeIP       string
	homePatterns []string
	rules        []Rule
	cache        *dnscache.Cache
	lookup       LookupFunc
}

func NewIdentifier(cfg IdentifierConfig) *Identifier {
	id := &Identifier{
		homeIP:       cfg.HomeIP,
		homePatterns: cfg.HomeCNAMEPatterns,
		rules:        cfg.Rules,
		cache:        cfg.Cache,
		lookup:       cfg.Lookup,
	}
	if id.rules == nil {
		id.rules = DefaultRules
	}
	if id.cache == nil {
		id.cache = dnscache.New(dnscache.DefaultTTL)
	}
	if id.lookup == nil {
		id.lookup = LookupRaw
	}
	return id
}

// Cache exposes the identifier's cache for diagnostics.
func (id *Identifier) Cache() *dnscache.Cache { return id.cache }

// NormalizeDomain lower-cases, strips the www. prefix, a trailing dot,
// and any port. Case variants of the same domain share one cache entry.
func NormalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimSuffix(d, ".")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexByte(d, ':'); i >= 0 {
		d = d[:i]
	}
	return d
}

// Identify resolves a domain to a platform verdict. Checks run in fixed
// precedence, first match wins:
//
//  1. cache (fresh entries short-circuit everything)
//  2. A record equal to the home platform IP     -> home, high
//  3. CNAME containing a home pattern            -> home, high
//  4. CNAME containing a competitor pattern      -> competitor, high
//  5. NS record containing a competitor pattern  -> competitor, medium
//  6. nothing matched                            -> unknown, low
//
// The IP is the cheapest, least spoofable signal; CNAME often reveals
// the true backend behind a shared load balancer; NS delegation can be
// inherited from a registrar and is trusted least.
//
// Every outcome is cached, including unknown/low: re-querying a domain
// that resolves to nothing recognizable is wasted cost.
func (id *Identifier) Identify(ctx context.Context, domain string) models.DomainLookupResult {
	domain = NormalizeDomain(domain)

	if cached, ok := id.cache.Get(domain); ok {
		cached.CacheHit = true
		return cached
	}

	rec := id.lookup(ctx, domain)

	result := models.DomainLookupResult{
		Domain:      domain,
		Platform:    models.PlatformUnknown,
		Confidence:  models.ConfidenceLow,
		ResolvedIP:  rec.IP,
		CNAMETarget: rec.CNAME,
		NSRecords:   rec.NSRecords,
	}

	switch {
	case rec.IP != "" && rec.IP == id.homeIP:
		result.Platform = models.PlatformHome
		result.IsHome = true
		result.Confidence = models.ConfidenceHigh
		result.Signal = string(SignalIP)

	case rec.CNAME != "" && id.matchesHomeCNAME(rec.CNAME):
		result.Platform = models.PlatformHome
		result.IsHome = true
		result.Confidence = models.ConfidenceHigh
		result.Signal = string(SignalCNAME)

	default:
		if rule, ok := id.matchRules(SignalCNAME, rec.CNAME); ok {
			result.Platform = rule.Platform
			result.Confidence = rule.Confidence
			result.Signal = string(SignalCNAME)
			break
		}
		joined := strings.ToLower(strings.Join(rec.NSRecords, " "))
		if rule, ok := id.matchRules(SignalNS, joined); ok {
			result.Platform = rule.Platform
			result.Confidence = rule.Confidence
			result.Signal = string(SignalNS)
		}
	}

	id.cache.Put(domain, result)
	return result
}

func (id *Identifier) matchesHomeCNAME(cname string) bool {
	lower := strings.ToLower(cname)
	for _, pattern := range id.homePatterns {
		if pattern != "" && strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

func (id *Identifier) matchRules(signal Signal, haystack string) (Rule, bool) {
	if haystack == "" {
		return Rule{}, false
	}
	lower := strings.ToLower(haystack)
	for _, rule := range id.rules {
		if rule.Signal != signal {
			continue
		}
		if strings.Contains(lower, strings.ToLower(rule.Pattern)) {
			return rule, true
		}
	}
	return Rule{}, false
}
