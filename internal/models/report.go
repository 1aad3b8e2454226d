package models

type Classification string
type Confidence string

const (
	ClassHome       Classification = "HOME"
	ClassCompetitor Classification = "COMPETITOR"
	ClassUnknown    Classification = "UNKNOWN"

	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Platform labels. Competitor platforms carry their own names from the
// rule table ("shopify", "youcan", ...); these two are the fixed ends of
// the scale.
const (
	PlatformHome    = "home"
	PlatformUnknown = "unknown"
)

// DomainLookupResult is one DNS resolution outcome for a normalized
// domain. It is the unit stored in the DNS cache and never mutated in
// place: a fresh lookup replaces a stale entry wholesale.
type DomainLookupResult struct {
	Domain      string     `json:"domain"`
	Platform    string     `json:"platform"`
	IsHome      bool       `json:"is_home"`
	ResolvedIP  string     `json:"resolved_ip,omitempty"`
	CNAMETarget string     `json:"cname_target,omitempty"`
	NSRecords   []string   `json:"ns_records,omitempty"`
	Confidence  Confidence `json:"confidence"`

	// Signal names which check produced the verdict ("ip", "cname",
	// "ns"); empty when no pattern matched.
	Signal string `json:"signal,omitempty"`
	// CacheHit is diagnostic only: true when the result was served from
	// the cache rather than the network.
	CacheHit bool `json:"cache_hit,omitempty"`
}

// AdClassification is the verdict for one advertisement.
// COMPETITOR always carries CompetitorDomain; HOME never does.
type AdClassification struct {
	Classification     Classification `json:"classification"`
	Confidence         Confidence     `json:"confidence"`
	Reason             string         `json:"reason"`
	DestinationURL     string         `json:"destination_url,omitempty"`
	CompetitorDomain   string         `json:"competitor_domain,omitempty"`
	CompetitorPlatform string         `json:"competitor_platform,omitempty"`
}

// ClassifiedAd is the per-ad audit record kept inside page summaries.
type ClassifiedAd struct {
	AdID string `json:"ad_id"`
	AdClassification
	AdCreationTime      string `json:"ad_creation_time,omitempty"`
	AdDeliveryStartTime string `json:"ad_delivery_start_time,omitempty"`
}

// PageCompetitor is one ranked competitor on a single page.
type PageCompetitor struct {
	Domain   string `json:"domain"`
	AdsCount int    `json:"ads_count"`
	Platform string `json:"platform"`
}

// Competitor is one ranked competitor across the whole client.
type Competitor struct {
	Domain   string `json:"domain"`
	TotalAds int    `json:"total_ads"`
	Platform string `json:"platform"`
}

// GlobalStats is the count/ratio block, summed over pages. Ratios are
// percentages rounded to two decimals; zero when there are no ads.
type GlobalStats struct {
	TotalAds        int     `json:"total_ads"`
	HomeAds         int     `json:"home_ads"`
	CompetitorAds   int     `json:"competitor_ads"`
	UnknownAds      int     `json:"unknown_ads"`
	HomeRatio       float64 `json:"home_ratio"`
	CompetitorRatio float64 `json:"competitor_ratio"`
}

// PageSummary is the classification outcome for one Facebook page.
type PageSummary struct {
	PageID          string           `json:"page_id"`
	PageName        string           `json:"page_name"`
	HomeDomain      string           `json:"home_domain"`
	TotalAds        int              `json:"total_ads"`
	HomeAds         int              `json:"home_ads"`
	CompetitorAds   int              `json:"competitor_ads"`
	UnknownAds      int              `json:"unknown_ads"`
	HomeRatio       float64          `json:"home_ratio"`
	CompetitorRatio float64          `json:"competitor_ratio"`
	Competitors     []PageCompetitor `json:"competitors"`
	ClassifiedAds   []ClassifiedAd   `json:"classified_ads,omitempty"`
}

// ClientReport is the persisted artifact for one storefront.
type ClientReport struct {
	ClientID       string        `json:"client_id"`
	AnalyzedAt     string        `json:"analyzed_at"`
	PagesAnalyzed  int           `json:"pages_analyzed"`
	GlobalStats    GlobalStats   `json:"global_stats"`
	TopCompetitors []Competitor  `json:"top_competitors"`
	PageDetails    []PageSummary `json:"page_details"`
}

// DisplayCompetitorLimit caps dashboard rendering; the persisted report
// keeps up to twenty entries, the dashboard shows ten.
const DisplayCompetitorLimit = 10

// TopCompetitorsForDisplay returns the dashboard-sized slice of the
// ranked competitor list.
func (r *ClientReport) TopCompetitorsForDisplay() []Competitor {
	if len(r.TopCompetitors) <= DisplayCompetitorLimit {
		return r.TopCompetitors
	}
	return r.TopCompetitors[:DisplayCompetitorLimit]
}
