// Package property defines the canonical joined property aggregate consumed
// from the system of record. Related entity names (area, developer,
// community, owning agent) are resolved by the reader; nothing downstream
// performs joins.
package property

import "time"

// Property is one fully joined property record.
type Property struct {
	ID         string
	Name       string
	Overview   string
	Status     string
	Type       string
	Beds       string
	Baths      string
	Price      float64
	Lat        float64
	Long       float64
	IsFeatured bool
	CreatedAt  time.Time

	AreaID      string
	DeveloperID string
	CommunityID string
	AgentID     string

	AreaName      string
	DeveloperName string
	CommunityName string
	AgentName     string

	Features Features
}

// Features holds the multi-valued attribute lists of a property. Values are
// drawn from closed enumerations maintained by the system of record.
type Features struct {
	PropertyType         []string
	PropertyStatus       []string
	PopularFeatures      []string
	CommunityFeatures    []string
	InteriorFeatures     []string
	ParkingFeatures      []string
	View                 []string
	Heating              []string
	FinancialInformation []string
	HomeStyle            []string
	HeatingFeatures      []string
	PropertySubtypes     []string
	LotFeatures          []string
	PoolFeatures         []string
	GreenFeatures        []string
	Stories              []string
	ExteriorFeatures     []string
	PropertyFeatures     []string
}

// ByName returns the feature list for a schema field name.
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
