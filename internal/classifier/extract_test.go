package classifier

import (
	"encoding/json"
	"reflect"
	"testing"

	"adscope/internal/models"
)

func TestExtractURLsScanOrderAndDedup(t *testing.T) {
	ad := models.AdRecord{
		Snapshot: &models.Snapshot{
			LinkURL: "https://main.example/product",
			Cards: []models.Card{
				{LinkURL: "https://card.example/a"},
				{LinkURL: ""},
				{LinkURL: "https://main.example/product"}, // dup of primary
			},
			Caption: "Order here https://caption.example/deal! now",
			Body:    models.Body{Text: "See https://card.example/a and https://body.example/x."},
		},
	}

	got := ExtractURLs(ad)
	want := []string{
		"https://main.example/product",
		"https://card.example/a",
		"https://caption.example/deal",
		"https://body.example/x",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractURLs = %v, want %v", got, want)
	}
}

func TestExtractURLsTrimsTrailingPunctuation(t *testing.T) {
	tests := []struct {
		caption string
		want    string
	}{
		{"Buy now at https://rival-store.net/deal!", "https://rival-store.net/deal"},
		{"(https://shop.example/sale)", "https://shop.example/sale"},
		{"visit https://shop.example/a.,;", "https://shop.example/a"},
	}
	for _, tt := range tests {
		ad := models.AdRecord{Snapshot: &models.Snapshot{Caption: tt.caption}}
		got := ExtractURLs(ad)
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("caption %q: got %v, want [%s]", tt.caption, got, tt.want)
		}
	}
}

func TestExtractURLsToleratesMissingFields(t *testing.T) {
	// No snapshot at all.
	if got := ExtractURLs(models.AdRecord{}); len(got) != 0 {
		t.Errorf("nil snapshot: got %v, want none", got)
	}
	// Empty snapshot.
	ad := models.AdRecord{Snapshot: &models.Snapshot{}}
	if got := ExtractURLs(ad); len(got) != 0 {
		t.Errorf("empty snapshot: got %v, want none", got)
	}
}

func TestBodyDecodesObjectOrString(t *testing.T) {
	var obj models.Snapshot
	if err := json.Unmarshal([]byte(`{"body":{"text":"see https://a.example"}}`), &obj); err != nil {
		t.Fatalf("object body: %v", err)
	}
	if obj.Body.Text != "see https://a.example" {
		t.Errorf("object body text = %q", obj.Body.Text)
	}

	var str models.Snapshot
	if err := json.Unmarshal([]byte(`{"body":"plain https://b.example"}`), &str); err != nil {
		t.Fatalf("string body: %v", err)
	}
	if str.Body.Text != "plain https://b.example" {
		t.Errorf("string body text = %q", str.Body.Text)
	}

	var null models.Snapshot
	if err := json.Unmarshal([]byte(`{"body":null}`), &null); err != nil {
		t.Fatalf("null body: %v", err)
	}
	if null.Body.Text != "" {
		t.Errorf("null body text = %q", null.Body.Text)
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://www.Shop.Example/product?x=1", "shop.example"},
		{"http://shop.example:8080/a", "shop.example"},
		{"shop.example/landing", "shop.example"},
		{"https://", ""},
		{"http://%zz", ""},
	}
	for _, tt := range tests {
		if got := ExtractDomain(tt.in); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
