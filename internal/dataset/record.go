package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Origin is the region a vehicle was manufactured in.
type Origin int

const (
	OriginUSA    Origin = 1
	OriginEurope Origin = 2
	OriginJapan  Origin = 3
)

var originLabels = map[Origin]string{
	OriginUSA:    "USA",
	OriginEurope: "Europe",
	OriginJapan:  "Japan",
}

// Origins lists the origin labels in code order.
func Origins() []string {
	return []string{"USA", "Europe", "Japan"}
}

// ParseOrigin maps a raw origin code to its label. Only 1, 2 and 3 are valid.
func ParseOrigin(code int) (Origin, error) {
	o := Origin(code)
	if _, ok := originLabels[o]; !ok {
		return 0, fmt.Errorf("unknown origin code %d", code)
	}
	return o, nil
}

func (o Origin) String() string {
	if s, ok := originLabels[o]; ok {
		return s
	}
	return "unknown"
}

func (o Origin) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON accepts a label (any case) or a raw origin code.
func (o *Origin) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err == nil {
		for code, l := range originLabels {
			if strings.EqualFold(l, strings.TrimSpace(label)) {
				*o = code
				return nil
			}
		}
		return fmt.Errorf("unknown origin %q", label)
	}
	var code int
	if err := json.Unmarshal(b, &code); err != nil {
		return fmt.Errorf("origin: %w", err)
	}
	parsed, err := ParseOrigin(code)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// NullFloat is a float that may be missing in the source.
type NullFloat struct {
	Value float64
	Valid bool
}

// Float returns a valid NullFloat.
func Float(v float64) NullFloat { return NullFloat{Value: v, Valid: true} }

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *NullFloat) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}

func (n NullFloat) String() string {
	if !n.Valid {
		return MissingToken
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// Record is one vehicle observation.
type Record struct {
	MPG          float64   `json:"mpg"`
	Cylinders    int       `json:"cylinders"`
	Displacement float64   `json:"displacement"`
	Horsepower   NullFloat `json:"horsepower"`
	Weight       float64   `json:"weight"`
	Acceleration float64   `json:"acceleration"`
	ModelYear    int       `json:"model_year"`
	Origin       Origin    `json:"origin"`
	CarName      string    `json:"car_name"`
	Manufacturer string    `json:"manufacturer"`
}

// Numeric returns the value of a numeric field. ok is false when the field
// is not numeric or the value is missing.
func (r Record) Numeric(field string) (v float64, ok bool) {
	f, found := LookupField(field)
	if !found {
		return 0, false
	}
	switch f.Name {
	case FieldMPG:
		return r.MPG, true
	case FieldCylinders:
		return float64(r.Cylinders), true
	case FieldDisplacement:
		return r.Displacement, true
	case FieldHorsepower:
		return r.Horsepower.Value, r.Horsepower.Valid
	case FieldWeight:
		return r.Weight, true
	case FieldAcceleration:
		return r.Acceleration, true
	case FieldModelYear:
		return float64(r.ModelYear), true
	}
	return 0, false
}

// Category returns a field rendered as a grouping label.
func (r Record) Category(field string) (string, bool) {
	f, found := LookupField(field)
	if !found {
		return "", false
	}
	switch f.Name {
	case FieldOrigin:
		return r.Origin.String(), true
	case FieldManufacturer:
		return r.Manufacturer, true
	case FieldCarName:
		return r.CarName, true
	case FieldCylinders:
		return strconv.Itoa(r.Cylinders), true
	case FieldModelYear:
		return strconv.Itoa(r.ModelYear), true
	}
	return "", false
}

// Strings renders the record in schema order.
func (r Record) Strings() []string {
	return []string{
		strconv.FormatFloat(r.MPG, 'f', -1, 64),
		strconv.Itoa(r.Cylinders),
		strconv.FormatFloat(r.Displacement, 'f', -1, 64),
		r.Horsepower.String(),
		strconv.FormatFloat(r.Weight, 'f', -1, 64),
		strconv.FormatFloat(r.Acceleration, 'f', -1, 64),
		strconv.Itoa(r.ModelYear),
		r.Origin.String(),
		r.CarName,
		r.Manufacturer,
	}
}
