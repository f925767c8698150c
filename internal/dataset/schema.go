package dataset

import "strings"

// Field names as they appear in the dashboard.
const (
	FieldMPG          = "MPG"
	FieldCylinders    = "Cylinders"
	FieldDisplacement = "Displacement"
	FieldHorsepower   = "Horsepower"
	FieldWeight       = "Weight"
	FieldAcceleration = "Acceleration"
	FieldModelYear    = "Model Year"
	FieldOrigin       = "Origin"
	FieldCarName      = "Car Name"
	FieldManufacturer = "Manufacturer"
)

// Kind is the semantic type of a field.
type Kind string

const (
	KindFloat       Kind = "float"
	KindInteger     Kind = "integer"
	KindCategorical Kind = "categorical"
	KindText        Kind = "text"
)

// Numeric reports whether values of this kind can be plotted on an axis.
func (k Kind) Numeric() bool { return k == KindFloat || k == KindInteger }

// Role describes how a field is used by charts.
type Role string

const (
	RoleMeasure    Role = "measure"
	RoleDimension  Role = "dimension"
	RoleIdentifier Role = "identifier"
)

// Field describes one column of the base table.
type Field struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"kind"`
	Role        Role   `json:"role"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description"`
	Derived     bool   `json:"derived,omitempty"`
}

var schema = []Field{
	{Name: FieldMPG, Kind: KindFloat, Role: RoleMeasure, Unit: "mpg", Description: "fuel efficiency in miles per gallon"},
	{Name: FieldCylinders, Kind: KindInteger, Role: RoleMeasure, Description: "number of engine cylinders"},
	{Name: FieldDisplacement, Kind: KindFloat, Role: RoleMeasure, Unit: "cu in", Description: "total engine displacement"},
	{Name: FieldHorsepower, Kind: KindFloat, Role: RoleMeasure, Unit: "hp", Description: "engine power output; may be missing"},
	{Name: FieldWeight, Kind: KindFloat, Role: RoleMeasure, Unit: "lbs", Description: "vehicle weight"},
	{Name: FieldAcceleration, Kind: KindFloat, Role: RoleMeasure, Unit: "sec", Description: "time from 0 to 60 mph"},
	{Name: FieldModelYear, Kind: KindInteger, Role: RoleMeasure, Description: "two-digit model year"},
	{Name: FieldOrigin, Kind: KindCategorical, Role: RoleDimension, Description: "region of manufacture"},
	{Name: FieldCarName, Kind: KindText, Role: RoleIdentifier, Description: "make and model"},
	{Name: FieldManufacturer, Kind: KindCategorical, Role: RoleDimension, Description: "first word of the car name", Derived: true},
}

// Schema returns the fields of the base table in column order.
func Schema() []Field {
	out := make([]Field, len(schema))
	copy(out, schema)
	return out
}

// NumericFields returns the names of the fields that can be used as chart axes.
func NumericFields() []string {
	var out []string
	for _, f := range schema {
		if f.Kind.Numeric() {
			out = append(out, f.Name)
		}
	}
	return out
}

// LookupField finds a field by name. Matching ignores case and treats
// underscores, dashes and spaces alike, so "model_year" finds "Model Year".
func LookupField(name string) (Field, bool) {
	key := normalizeFieldName(name)
	for _, f := range schema {
		if normalizeFieldName(f.Name) == key {
			return f, true
		}
	}
	return Field{}, false
}

func normalizeFieldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", " ", "-", " ").Replace(s)
}
