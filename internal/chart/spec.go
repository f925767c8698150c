// Package chart turns a working view and a chart specification into a
// figure, and renders figures to PNG or SVG.
package chart

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/KaramelBytes/autompg-cli/internal/dataset"
)

var (
	ErrUnknownKind  = errors.New("unknown chart kind")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidSpec  = errors.New("invalid chart spec")
	ErrUnsupported  = errors.New("unsupported output for chart kind")
	ErrNoData       = errors.New("no data to render")
)

// Kind is a chart type.
type Kind string

const (
	KindScatter   Kind = "scatter"
	KindHistogram Kind = "histogram"
	KindBox       Kind = "box"
	KindViolin    Kind = "violin"
	KindHeatmap   Kind = "heatmap"
)

// Kinds lists every supported chart kind.
func Kinds() []Kind {
	return []Kind{KindScatter, KindHistogram, KindBox, KindViolin, KindHeatmap}
}

// ParseKind accepts a kind name in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

const (
	// DefaultBins is the histogram bin count of the dashboard.
	DefaultBins = 8
	// ReportBins is the bin count of the report's MPG distribution.
	ReportBins = 30
	// NoColor disables colour grouping.
	NoColor = "none"
)

// ColorFields lists the fields that can group traces.
func ColorFields() []string {
	return []string{dataset.FieldOrigin, dataset.FieldCylinders, dataset.FieldModelYear, dataset.FieldManufacturer}
}

// Spec selects what to draw. Zero values are replaced by per-kind defaults.
type Spec struct {
	Kind      Kind   `json:"kind" validate:"required,chartkind"`
	X         string `json:"x,omitempty" validate:"omitempty,numericfield"`
	Y         string `json:"y,omitempty" validate:"omitempty,numericfield"`
	Color     string `json:"color,omitempty" validate:"omitempty,colorfield"`
	Bins      int    `json:"bins,omitempty" validate:"omitempty,min=3,max=50"`
	Trendline bool   `json:"trendline,omitempty"`
	Title     string `json:"title,omitempty" validate:"max=200"`
}

// WithDefaults canonicalises field names and fills unset values the way the
// dashboard does: Horsepower against MPG for scatter, MPG everywhere else,
// coloured by Origin.
func (s Spec) WithDefaults() Spec {
	s.X = canonical(s.X)
	s.Y = canonical(s.Y)
	if s.Color == "" {
		s.Color = dataset.FieldOrigin
	} else if !strings.EqualFold(s.Color, NoColor) {
		s.Color = canonical(s.Color)
	} else {
		s.Color = NoColor
	}
	switch s.Kind {
	case KindScatter:
		if s.X == "" {
			s.X = dataset.FieldHorsepower
		}
		if s.Y == "" {
			s.Y = dataset.FieldMPG
		}
	case KindHistogram:
		if s.X == "" {
			s.X = dataset.FieldMPG
		}
		if s.Bins == 0 {
			s.Bins = DefaultBins
		}
	case KindBox, KindViolin:
		if s.Y == "" {
			s.Y = dataset.FieldMPG
		}
	}
	if s.Title == "" {
		s.Title = s.defaultTitle()
	}
	return s
}

func (s Spec) defaultTitle() string {
	by := ""
	if s.Color != NoColor {
		by = " by " + s.Color
	}
	switch s.Kind {
	case KindScatter:
		return fmt.Sprintf("%s vs %s%s", s.Y, s.X, by)
	case KindHistogram:
		return fmt.Sprintf("Distribution of %s%s", s.X, by)
	case KindBox:
		return fmt.Sprintf("%s%s", s.Y, by)
	case KindViolin:
		return fmt.Sprintf("%s distribution%s", s.Y, by)
	case KindHeatmap:
		return "Correlation Heatmap"
	}
	return ""
}

// Grouped reports whether traces are split by a colour field.
func (s Spec) Grouped() bool { return s.Color != "" && s.Color != NoColor }

func canonical(name string) string {
	if f, ok := dataset.LookupField(name); ok {
		return f.Name
	}
	return strings.TrimSpace(name)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("chartkind", func(fl validator.FieldLevel) bool {
		_, err := ParseKind(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("numericfield", func(fl validator.FieldLevel) bool {
		f, ok := dataset.LookupField(fl.Field().String())
		return ok && f.Kind.Numeric()
	})
	_ = v.RegisterValidation("colorfield", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		if strings.EqualFold(name, NoColor) {
			return true
		}
		for _, c := range ColorFields() {
			if canonical(name) == c {
				return true
			}
		}
		return false
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks s. Unknown kinds wrap ErrUnknownKind, unusable fields wrap
// ErrUnknownField and everything else wraps ErrInvalidSpec.
func (s Spec) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "chartkind", "required":
		return fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	case "numericfield":
		return fmt.Errorf("%w: %s=%q is not one of %s", ErrUnknownField, fe.Field(), fe.Value(), strings.Join(dataset.NumericFields(), ", "))
	case "colorfield":
		return fmt.Errorf("%w: color=%q is not one of %s, %s", ErrUnknownField, fe.Value(), strings.Join(ColorFields(), ", "), NoColor)
	case "min", "max":
		if fe.Field() == "bins" {
			return fmt.Errorf("%w: bins must be between 3 and 50 (got %v)", ErrInvalidSpec, fe.Value())
		}
		return fmt.Errorf("%w: %s failed %s=%s", ErrInvalidSpec, fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Errorf("%w: %s failed %s validation", ErrInvalidSpec, fe.Field(), fe.Tag())
	}
}
