package record

import (
	"time"

	"gorm.io/gorm"

	"github.com/openbrik/propsearch/internal/domain/property"
)

// propertyModel is the GORM mapping of the canonical property row with its
// joined related entities.
type propertyModel struct {
	ID         string `gorm:"primaryKey"`
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

	AreaID      string
	DeveloperID string
	CommunityID string
	AgentID     string

	Area      *areaModel      `gorm:"foreignKey:AreaID"`
	Developer *developerModel `gorm:"foreignKey:DeveloperID"`
	Community *communityModel `gorm:"foreignKey:CommunityID"`
	Agent     *agentModel     `gorm:"foreignKey:AgentID"`

	Features featuresModel `gorm:"serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (propertyModel) TableName() string { return "properties" }

// Join targets are minimal: related entities contribute only their display
// name to the projection.

type areaModel struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func (areaModel) TableName() string { return "areas" }

type developerModel struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func (developerModel) TableName() string { return "developers" }

type communityModel struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func (communityModel) TableName() string { return "communities" }

type agentModel struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func (agentModel) TableName() string { return "agents" }

// featuresModel is the JSON-serialized multi-value attribute column.
type featuresModel struct {
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

func (m *propertyModel) toDomain() property.Property {
	p := property.Property{
		ID:         m.ID,
		Name:       m.Name,
		Overview:   m.Overview,
		Status:     m.Status,
		Type:       m.Type,
		Beds:       m.Beds,
		Baths:      m.Baths,
		Price:      m.Price,
		Lat:        m.Lat,
		Long:       m.Long,
		IsFeatured: m.IsFeatured,
		CreatedAt:  m.CreatedAt,

		AreaID:      m.AreaID,
		DeveloperID: m.DeveloperID,
		CommunityID: m.CommunityID,
		AgentID:     m.AgentID,

		Features: property.Features{
			PropertyType:         m.Features.PropertyType,
			PropertyStatus:       m.Features.PropertyStatus,
			PopularFeatures:      m.Features.PopularFeatures,
			CommunityFeatures:    m.Features.CommunityFeatures,
			InteriorFeatures:     m.Features.InteriorFeatures,
			ParkingFeatures:      m.Features.ParkingFeatures,
			View:                 m.Features.View,
			Heating:              m.Features.Heating,
			FinancialInformation: m.Features.FinancialInformation,
			HomeStyle:            m.Features.HomeStyle,
			HeatingFeatures:      m.Features.HeatingFeatures,
			PropertySubtypes:     m.Features.PropertySubtypes,
			LotFeatures:          m.Features.LotFeatures,
			PoolFeatures:         m.Features.PoolFeatures,
			GreenFeatures:        m.Features.GreenFeatures,
			Stories:              m.Features.Stories,
			ExteriorFeatures:     m.Features.ExteriorFeatures,
			PropertyFeatures:     m.Features.PropertyFeatures,
		},
	}

	if m.Area != nil {
		p.AreaName = m.Area.Name
	}
	if m.Developer != nil {
		p.DeveloperName = m.Developer.Name
	}
	if m.Community != nil {
		p.CommunityName = m.Community.Name
	}
	if m.Agent != nil {
		p.AgentName = m.Agent.Name
	}

	return p
}
