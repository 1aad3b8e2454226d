package models

import (
	"bytes"
	"encoding/json"
)

// AdRecord is one raw advertisement as delivered by the collector.
// Every field may be missing or null — the upstream data is third-party
// and frequently incomplete, so nothing here is validated on decode.
type AdRecord struct {
	AdArchiveID         string    `json:"ad_archive_id"`
	PageID              string    `json:"page_id"`
	PageName            string    `json:"page_name"`
	AdCreationTime      string    `json:"ad_creation_time,omitempty"`
	AdDeliveryStartTime string    `json:"ad_delivery_start_time,omitempty"`
	Snapshot            *Snapshot `json:"snapshot,omitempty"`
}

// Snapshot is the creative content of an ad: the primary destination
// link, carousel cards with their own links, and free-text fields that
// may embed further URLs.
type Snapshot struct {
	LinkURL string `json:"link_url"`
	Cards   []Card `json:"cards"`
	Caption string `json:"caption"`
	Body    Body   `json:"body"`
}

// Card is one carousel entry.
type Card struct {
	LinkURL string `json:"link_url"`
}

// Body arrives from the collector either as {"text": "..."} or as a
// bare string, depending on the ad format.
type Body struct {
	Text string `json:"text"`
}

func (b *Body) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &b.Text)
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// A shape we have never seen; contribute zero URLs rather than
		// failing the whole payload.
		return nil
	}
	b.Text = obj.Text
	return nil
}

// PageAds groups the raw ads collected for one Facebook page.
type PageAds struct {
	PageID   string     `json:"page_id"`
	PageName string     `json:"page_name"`
	Ads      []AdRecord `json:"ads"`
}

// AnalysisRequest is the collector payload for one storefront: the
// client identifier, its canonical home domain, and everything found on
// its Facebook pages.
type AnalysisRequest struct {
	ClientID   string    `json:"client_id"`
	HomeDomain string    `json:"home_domain"`
	Pages      []PageAds `json:"pages"`
}
