package document

import (
	"errors"
	"testing"
	"time"

	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/domain/property"
	"github.com/openbrik/propsearch/internal/domain/schema"
)

func sampleProperty() property.Property {
	return property.Property{
		ID:         "prop-1",
		Name:       "Marina Vista",
		Overview:   "Waterfront living",
		Status:     "ready",
		Type:       "apartment",
		Beds:       "2",
		Baths:      "3",
		Price:      1250000.5,
		Lat:        25.08,
		Long:       55.14,
		IsFeatured: true,
		CreatedAt:  time.UnixMilli(1700000000000).UTC(),

		AreaID:      "area-1",
		DeveloperID: "dev-1",
		CommunityID: "comm-1",
		AgentID:     "agent-1",

		AreaName:      "Marina",
		DeveloperName: "Openbrik Estates",
		CommunityName: "Harbour Gate",

		Features: property.Features{
			PopularFeatures: []string{"Balcony", "Gym"},
			View:            []string{"Sea"},
		},
	}
}

func TestFromProperty(t *testing.T) {
	doc, err := FromProperty(sampleProperty())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.ID != "prop-1" {
		t.Errorf("expected id prop-1, got %q", doc.ID)
	}
	if doc.CreatedAtMillis != 1700000000000 {
		t.Errorf("expected createdAt 1700000000000, got %d", doc.CreatedAtMillis)
	}
	if got := doc.Features["popular_features"]; len(got) != 2 || got[0] != "Balcony" {
		t.Errorf("unexpected popular_features: %v", got)
	}
}

func TestFromProperty_MissingID(t *testing.T) {
	_, err := FromProperty(property.Property{Name: "Nameless"})
	if !errors.Is(err, domain.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func TestFromProperty_ZeroCreatedAt(t *testing.T) {
	p := sampleProperty()
	p.CreatedAt = time.Time{}
	doc, err := FromProperty(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.CreatedAtMillis != 0 {
		t.Errorf("zero CreatedAt must project to 0, got %d", doc.CreatedAtMillis)
	}
}

func TestFromProperty_StripsSeparator(t *testing.T) {
	p := sampleProperty()
	p.Features.View = []string{"Sea|Skyline", "|", "Park"}

	doc, err := FromProperty(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := doc.Features["view"]
	if len(got) != 2 {
		t.Fatalf("expected 2 sanitized values, got %v", got)
	}
	if got[0] != "SeaSkyline" || got[1] != "Park" {
		t.Errorf("unexpected sanitized values: %v", got)
	}
}

func TestFields_CoversSchema(t *testing.T) {
	doc, err := FromProperty(sampleProperty())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := doc.Fields()
	for _, f := range schema.Describe() {
		if _, ok := fields[f.Name]; !ok {
			t.Errorf("schema field %q missing from hash", f.Name)
		}
	}
	if len(fields) != len(schema.Describe()) {
		t.Errorf("hash has %d fields, schema has %d", len(fields), len(schema.Describe()))
	}
}

func TestFields_Values(t *testing.T) {
	doc, err := FromProperty(sampleProperty())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := doc.Fields()
	cases := map[string]string{
		"name":             "Marina Vista",
		"status":           "ready",
		"isFeatured":       "true",
		"price":            "1250000.5",
		"createdAt":        "1700000000000",
		"popular_features": "Balcony|Gym",
		"view":             "Sea",
		"heating":          "",
	}
	for name, want := range cases {
		if got := fields[name]; got != want {
			t.Errorf("field %q: expected %q, got %q", name, want, got)
		}
	}
}

func TestFromFields_RoundTrip(t *testing.T) {
	doc, err := FromProperty(sampleProperty())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := FromFields(doc.ID, doc.Fields())

	if got.Name != doc.Name || got.Status != doc.Status || got.Beds != doc.Beds {
		t.Errorf("scalar fields did not survive round trip: %+v", got)
	}
	if got.Price != doc.Price || got.Lat != doc.Lat || got.Long != doc.Long {
		t.Errorf("numeric fields did not survive round trip: %+v", got)
	}
	if got.CreatedAtMillis != doc.CreatedAtMillis {
		t.Errorf("createdAt did not survive round trip: %d", got.CreatedAtMillis)
	}
	if !got.IsFeatured {
		t.Error("isFeatured did not survive round trip")
	}
	if v := got.Features["popular_features"]; len(v) != 2 || v[1] != "Gym" {
		t.Errorf("multi-value field did not survive round trip: %v", v)
	}
}

func TestFromFields_IgnoresUnknown(t *testing.T) {
	got := FromFields("x", map[string]string{"bogus": "1", "name": "A"})
	if got.Name != "A" {
		t.Errorf("expected name A, got %q", got.Name)
	}
	if len(got.Features) != 0 {
		t.Errorf("unknown field leaked into features: %v", got.Features)
	}
}

func TestKey(t *testing.T) {
	doc := Document{ID: "abc"}
	if doc.Key() != domain.DocumentKeyPrefix+"abc" {
		t.Errorf("unexpected key %q", doc.Key())
	}
}
