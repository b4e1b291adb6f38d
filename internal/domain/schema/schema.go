// Package schema declares the fixed field set of the property search index.
// It is the single source of truth shared by the projector, the query
// translator, and the index repository: a field indexed here is a field that
// can be filtered, sorted, and returned, and nothing else is.
package schema

// FieldClass classifies an indexed field.
type FieldClass int

const (
	// Text is a weighted full-text field, prefix-searchable.
	Text FieldClass = iota
	// Tag is an exact-match, enumerable-valued field.
	Tag
	// Numeric is a range-filterable numeric field.
	Numeric
)

// MultiValueSeparator joins multi-valued tag lists into one stored string.
// Feature values come from closed enumerations that never contain it; the
// projector strips it from values regardless.
const MultiValueSeparator = "|"

// FieldDef describes one indexed field.
type FieldDef struct {
	Name       string
	Class      FieldClass
	Weight     float64 // Text only; relative scoring weight
	Sortable   bool
	MultiValue bool // Tag only; value is a separator-joined list
}

// fields is the ordered index definition. Order is stable so that the
// FT.CREATE schema and document validation agree run to run.
var fields = []FieldDef{
	{Name: "name", Class: Text, Weight: 2.0, Sortable: true},
	{Name: "overview", Class: Text, Weight: 1.5},
	{Name: "area_name", Class: Text, Weight: 1.0},
	{Name: "developer_name", Class: Text, Weight: 1.0},
	{Name: "community_name", Class: Text, Weight: 1.0},

	{Name: "status", Class: Tag, Sortable: true},
	{Name: "type", Class: Tag, Sortable: true},
	{Name: "beds", Class: Tag},
	{Name: "baths", Class: Tag},
	{Name: "areaId", Class: Tag},
	{Name: "developerId", Class: Tag},
	{Name: "communityId", Class: Tag},
	{Name: "agentId", Class: Tag},
	{Name: "isFeatured", Class: Tag},

	{Name: "price", Class: Numeric, Sortable: true},
	{Name: "lat", Class: Numeric},
	{Name: "long", Class: Numeric},
	{Name: "createdAt", Class: Numeric, Sortable: true},

	{Name: "property_type", Class: Tag, MultiValue: true},
	{Name: "property_status", Class: Tag, MultiValue: true},
	{Name: "popular_features", Class: Tag, MultiValue: true},
	{Name: "community_features", Class: Tag, MultiValue: true},
	{Name: "interior_features", Class: Tag, MultiValue: true},
	{Name: "parking_features", Class: Tag, MultiValue: true},
	{Name: "view", Class: Tag, MultiValue: true},
	{Name: "heating", Class: Tag, MultiValue: true},
	{Name: "financial_information", Class: Tag, MultiValue: true},
	{Name: "home_style", Class: Tag, MultiValue: true},
	{Name: "heating_features", Class: Tag, MultiValue: true},
	{Name: "property_subtypes", Class: Tag, MultiValue: true},
	{Name: "lot_features", Class: Tag, MultiValue: true},
	{Name: "pool_features", Class: Tag, MultiValue: true},
	{Name: "green_features", Class: Tag, MultiValue: true},
	{Name: "stories", Class: Tag, MultiValue: true},
	{Name: "exterior_features", Class: Tag, MultiValue: true},
	{Name: "property_features", Class: Tag, MultiValue: true},
}

var byName = func() map[string]FieldDef {
	m := make(map[string]FieldDef, len(fields))
	for _, f := range fields {
		m[f.Name] = f
	}
	return m
}()

// Describe returns the ordered field definitions.
func Describe() []FieldDef {
	out := make([]FieldDef, len(fields))
	copy(out, fields)
	return out
}

// FieldByName looks up a field definition.
func FieldByName(name string) (FieldDef, bool) {
	f, ok := byName[name]
	return f, ok
}

// TextFields returns the full-text field names in weight-declaration order.
func TextFields() []string {
	return namesWhere(func(f FieldDef) bool { return f.Class == Text })
}

// MultiValueFields returns the names of separator-joined tag fields.
func MultiValueFields() []string {
	return namesWhere(func(f FieldDef) bool { return f.MultiValue })
}

// NumericFields returns the numeric field names.
func NumericFields() []string {
	return namesWhere(func(f FieldDef) bool { return f.Class == Numeric })
}

// IsMultiValue reports whether the named field stores a joined list.
func IsMultiValue(name string) bool {
	f, ok := byName[name]
	return ok && f.MultiValue
}

// IsSortable reports whether the named field can back a SORTBY directive.
func IsSortable(name string) bool {
	f, ok := byName[name]
	return ok && f.Sortable
}

func namesWhere(pred func(FieldDef) bool) []string {
	var out []string
	for _, f := range fields {
		if pred(f) {
			out = append(out, f.Name)
		}
	}
	return out
}
