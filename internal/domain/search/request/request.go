// Package request defines the structured search request accepted at the
// query boundary. The filter set is closed: one field per supported
// dimension, validated before any I/O, so unknown filters cannot be silently
// ignored.
package request

import (
	"encoding/json"
	"fmt"

	"github.com/openbrik/propsearch/internal/domain"
	"github.com/openbrik/propsearch/internal/domain/geo"
)

// Sort enumerates the supported sort dimensions.
type Sort string

// Supported sort dimensions. SortCreatedAt descending is the default.
const (
	SortRelevance Sort = "_score"
	SortPrice     Sort = "price"
	SortCreatedAt Sort = "createdAt"
	SortName      Sort = "name"
)

// Geo is an optional radius filter around a center point.
type Geo struct {
	Lat      float64 `json:"lat"`
	Long     float64 `json:"long"`
	RadiusKm float64 `json:"radiusKm"`
}

// Features is the closed set of multi-valued filter dimensions. A request
// matches a document when, for every non-empty dimension, the document
// carries at least one of the supplied values.
type Features struct {
	PropertyType         []string `json:"property_type,omitempty"`
	PropertyStatus       []string `json:"property_status,omitempty"`
	PopularFeatures      []string `json:"popular_features,omitempty"`
	CommunityFeatures    []string `json:"community_features,omitempty"`
	InteriorFeatures     []string `json:"interior_features,omitempty"`
	ParkingFeatures      []string `json:"parking_features,omitempty"`
	View                 []string `json:"view,omitempty"`
	Heating              []string `json:"heating,omitempty"`
	FinancialInformation []string `json:"financial_information,omitempty"`
	HomeStyle            []string `json:"home_style,omitempty"`
	HeatingFeatures      []string `json:"heating_features,omitempty"`
	PropertySubtypes     []string `json:"property_subtypes,omitempty"`
	LotFeatures          []string `json:"lot_features,omitempty"`
	PoolFeatures         []string `json:"pool_features,omitempty"`
	GreenFeatures        []string `json:"green_features,omitempty"`
	Stories              []string `json:"stories,omitempty"`
	ExteriorFeatures     []string `json:"exterior_features,omitempty"`
	PropertyFeatures     []string `json:"property_features,omitempty"`
}

// ByName returns the values of a feature dimension by schema field name.
func (f Features) ByName(field string) []string {
	switch field {
	case "property_type":
		return f.PropertyType
	case "property_status":
		return f.PropertyStatus
	case "popular_features":
		return f.PopularFeatures
	case "community_features":
		return f.CommunityFeatures
	case "interior_features":
		return f.InteriorFeatures
	case "parking_features":
		return f.ParkingFeatures
	case "view":
		return f.View
	case "heating":
		return f.Heating
	case "financial_information":
		return f.FinancialInformation
	case "home_style":
		return f.HomeStyle
	case "heating_features":
		return f.HeatingFeatures
	case "property_subtypes":
		return f.PropertySubtypes
	case "lot_features":
		return f.LotFeatures
	case "pool_features":
		return f.PoolFeatures
	case "green_features":
		return f.GreenFeatures
	case "stories":
		return f.Stories
	case "exterior_features":
		return f.ExteriorFeatures
	case "property_features":
		return f.PropertyFeatures
	}
	return nil
}

// SetByName assigns values to a feature dimension by schema field name.
// Returns false for an unknown dimension.
func (f *Features) SetByName(field string, values []string) bool {
	switch field {
	case "property_type":
		f.PropertyType = values
	case "property_status":
		f.PropertyStatus = values
	case "popular_features":
		f.PopularFeatures = values
	case "community_features":
		f.CommunityFeatures = values
	case "interior_features":
		f.InteriorFeatures = values
	case "parking_features":
		f.ParkingFeatures = values
	case "view":
		f.View = values
	case "heating":
		f.Heating = values
	case "financial_information":
		f.FinancialInformation = values
	case "home_style":
		f.HomeStyle = values
	case "heating_features":
		f.HeatingFeatures = values
	case "property_subtypes":
		f.PropertySubtypes = values
	case "lot_features":
		f.LotFeatures = values
	case "pool_features":
		f.PoolFeatures = values
	case "green_features":
		f.GreenFeatures = values
	case "stories":
		f.Stories = values
	case "exterior_features":
		f.ExteriorFeatures = values
	case "property_features":
		f.PropertyFeatures = values
	default:
		return false
	}
	return true
}

// Request is one structured search request.
type Request struct {
	Term string `json:"term,omitempty"`

	Status      []string `json:"status,omitempty"`
	Type        []string `json:"type,omitempty"`
	Beds        []string `json:"beds,omitempty"`
	Baths       []string `json:"baths,omitempty"`
	AreaID      []string `json:"areaId,omitempty"`
	DeveloperID []string `json:"developerId,omitempty"`
	CommunityID []string `json:"communityId,omitempty"`
	AgentID     []string `json:"agentId,omitempty"`
	IsFeatured  *bool    `json:"isFeatured,omitempty"`

	PriceMin *float64 `json:"priceMin,omitempty"`
	PriceMax *float64 `json:"priceMax,omitempty"`

	Features Features `json:"features,omitempty"`

	Geo *Geo `json:"geo,omitempty"`

	Sort    Sort `json:"sort,omitempty"`
	SortAsc bool `json:"sortAsc,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize fills pagination and sort defaults and caps the page size.
func (r *Request) Normalize(defaultPageSize, maxPageSize int) {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = defaultPageSize
	}
	if r.Limit > maxPageSize {
		r.Limit = maxPageSize
	}
	if r.Sort == "" {
		r.Sort = SortCreatedAt
	}
}

// Validate rejects malformed requests before any I/O. All violations wrap
// domain.ErrInvalidRequest.
func (r Request) Validate() error {
	switch r.Sort {
	case SortRelevance, SortPrice, SortCreatedAt, SortName:
	default:
		return fmt.Errorf("%w: unknown sort %q", domain.ErrInvalidRequest, r.Sort)
	}

	if r.Page <= 0 {
		return fmt.Errorf("%w: page must be positive", domain.ErrInvalidRequest)
	}
	if r.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive", domain.ErrInvalidRequest)
	}

	if r.PriceMin != nil && *r.PriceMin < 0 {
		return fmt.Errorf("%w: priceMin must be non-negative", domain.ErrInvalidRequest)
	}
	if r.PriceMax != nil && *r.PriceMax < 0 {
		return fmt.Errorf("%w: priceMax must be non-negative", domain.ErrInvalidRequest)
	}
	if r.PriceMin != nil && r.PriceMax != nil && *r.PriceMin > *r.PriceMax {
		return fmt.Errorf("%w: priceMin exceeds priceMax", domain.ErrInvalidRequest)
	}

	if r.Geo != nil {
		if !geo.ValidateCoordinates(r.Geo.Lat, r.Geo.Long) {
			return fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidRequest)
		}
		if r.Geo.RadiusKm <= 0 {
			return fmt.Errorf("%w: radius must be positive", domain.ErrInvalidRequest)
		}
	}

	return nil
}

// Offset returns the zero-based result offset for the current page.
func (r Request) Offset() int {
	return (r.Page - 1) * r.Limit
}

// CanonicalKey serializes the request with stable field ordering, so
// semantically identical requests collide in the cache and distinct requests
// never do.
func (r Request) CanonicalKey() string {
	// Struct field order is fixed at compile time, which makes json.Marshal
	// output deterministic for a given request.
	data, err := json.Marshal(r)
	if err != nil {
		// Request contains only marshallable types; unreachable.
		return ""
	}
	return string(data)
}
