// Package document defines the denormalized search document and the
// projection from a canonical property aggregate into it.
package document

import (
	"strconv"
	"strings"

	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/domain/property"
	"github.com/openbrik/propsearch/internal/domain/schema"
)

// Document is the flat, fully-specified representation of one property held
// in the search index. Exactly one document exists per non-deleted property.
type Document struct {
	ID string

	Name          string
	Overview      string
	AreaName      string
	DeveloperName string
	CommunityName string

	Status      string
	Type        string
	Beds        string
	Baths       string
	AreaID      string
	DeveloperID string
	CommunityID string
	AgentID     string
	IsFeatured  bool

	Price           float64
	Lat             float64
	Long            float64
	CreatedAtMillis int64

	// Features maps multi-value schema field names to value lists.
	Features map[string][]string
}

// FromProperty projects a joined property record into a search document.
// Pure; fails only when the record has no identifier. Absent source fields
// become the schema type's zero value so the stored hash is always complete.
func FromProperty(p property.Property) (Document, error) {
	if p.ID == "" {
		return Document{}, domain.ErrMissingID
	}

	doc := Document{
		ID:            p.ID,
		Name:          p.Name,
		Overview:      p.Overview,
		AreaName:      p.AreaName,
		DeveloperName: p.DeveloperName,
		CommunityName: p.CommunityName,

		Status:      p.Status,
		Type:        p.Type,
		Beds:        p.Beds,
		Baths:       p.Baths,
		AreaID:      p.AreaID,
		DeveloperID: p.DeveloperID,
		CommunityID: p.CommunityID,
		AgentID:     p.AgentID,
		IsFeatured:  p.IsFeatured,

		Price:    p.Price,
		Lat:      p.Lat,
		Long:     p.Long,
		Features: make(map[string][]string, len(schema.MultiValueFields())),
	}

	if !p.CreatedAt.IsZero() {
		doc.CreatedAtMillis = p.CreatedAt.UnixMilli()
	}

	for _, field := range schema.MultiValueFields() {
		doc.Features[field] = sanitizeValues(p.Features.ByName(field))
	}

	return doc, nil
}

// sanitizeValues strips the separator from values and drops empties, so a
// malformed value can never split into two tags when joined.
func sanitizeValues(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ReplaceAll(v, schema.MultiValueSeparator, "")
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Key returns the store key for this document.
func (d Document) Key() string {
	return domain.DocumentKeyPrefix + d.ID
}

// Fields flattens the document into a hash covering every schema field.
func (d Document) Fields() map[string]string {
	out := make(map[string]string, len(schema.Describe()))
	for _, f := range schema.Describe() {
		out[f.Name] = d.fieldValue(f.Name)
	}
	return out
}

func (d Document) fieldValue(name string) string {
	switch name {
	case "name":
		return d.Name
	case "overview":
		return d.Overview
	case "area_name":
		return d.AreaName
	case "developer_name":
		return d.DeveloperName
	case "community_name":
		return d.CommunityName
	case "status":
		return d.Status
	case "type":
		return d.Type
	case "beds":
		return d.Beds
	case "baths":
		return d.Baths
	case "areaId":
		return d.AreaID
	case "developerId":
		return d.DeveloperID
	case "communityId":
		return d.CommunityID
	case "agentId":
		return d.AgentID
	case "isFeatured":
		return strconv.FormatBool(d.IsFeatured)
	case "price":
		return strconv.FormatFloat(d.Price, 'f', -1, 64)
	case "lat":
		return strconv.FormatFloat(d.Lat, 'f', -1, 64)
	case "long":
		return strconv.FormatFloat(d.Long, 'f', -1, 64)
	case "createdAt":
		return strconv.FormatInt(d.CreatedAtMillis, 10)
	}
	if schema.IsMultiValue(name) {
		return strings.Join(d.Features[name], schema.MultiValueSeparator)
	}
	return ""
}

// FromFields reconstructs a document from a stored hash. Unknown fields are
// ignored; missing fields keep their zero value.
func FromFields(id string, fields map[string]string) Document {
	doc := Document{
		ID:       id,
		Features: make(map[string][]string),
	}

	for name, value := range fields {
		switch name {
		case "name":
			doc.Name = value
		case "overview":
			doc.Overview = value
		case "area_name":
			doc.AreaName = value
		case "developer_name":
			doc.DeveloperName = value
		case "community_name":
			doc.CommunityName = value
		case "status":
			doc.Status = value
		case "type":
			doc.Type = value
		case "beds":
			doc.Beds = value
		case "baths":
			doc.Baths = value
		case "areaId":
			doc.AreaID = value
		case "developerId":
			doc.DeveloperID = value
		case "communityId":
			doc.CommunityID = value
		case "agentId":
			doc.AgentID = value
		case "isFeatured":
			doc.IsFeatured = value == "true"
		case "price":
			doc.Price = parseFloat(value)
		case "lat":
			doc.Lat = parseFloat(value)
		case "long":
			doc.Long = parseFloat(value)
		case "createdAt":
			doc.CreatedAtMillis, _ = strconv.ParseInt(value, 10, 64)
		default:
			if schema.IsMultiValue(name) {
				doc.Features[name] = splitValues(value)
			}
		}
	}

	return doc
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func splitValues(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, schema.MultiValueSeparator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
