package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// MissingToken marks an unknown value in the source file.
const MissingToken = "?"

// numeric columns in source order, before the car name
var sourceColumns = []string{
	FieldMPG, FieldCylinders, FieldDisplacement, FieldHorsepower,
	FieldWeight, FieldAcceleration, FieldModelYear, FieldOrigin,
}

var (
	errFieldCount = errors.New("wrong number of fields")
	errMissing    = errors.New("missing value not allowed")
	errEmptyName  = errors.New("empty car name")
	errNonFinite  = errors.New("value is not a finite number")
)

// Parse reads whitespace-delimited auto-mpg records. There is no header row.
// A "?" in Horsepower is kept as a missing value; any other malformed line
// aborts parsing with a *ParseError.
func Parse(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var out []Record
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		rec, err := parseLine(text, line)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return out, nil
}

func parseLine(text string, line int) (Record, error) {
	var rec Record
	head, name := splitCarName(text)
	tokens := strings.Fields(head)
	if name == "" && len(tokens) > len(sourceColumns) {
		// unquoted name: everything after the numeric columns
		name = strings.Join(tokens[len(sourceColumns):], " ")
		tokens = tokens[:len(sourceColumns)]
	}
	if len(tokens) != len(sourceColumns) {
		return rec, &ParseError{Line: line, Err: fmt.Errorf("%w: got %d numeric fields, want %d", errFieldCount, len(tokens), len(sourceColumns))}
	}

	var err error
	if rec.MPG, err = parseFloat(tokens[0], FieldMPG, line); err != nil {
		return rec, err
	}
	if rec.Cylinders, err = parseInt(tokens[1], FieldCylinders, line); err != nil {
		return rec, err
	}
	if rec.Displacement, err = parseFloat(tokens[2], FieldDisplacement, line); err != nil {
		return rec, err
	}
	if tokens[3] != MissingToken {
		hp, err := parseFloat(tokens[3], FieldHorsepower, line)
		if err != nil {
			return rec, err
		}
		rec.Horsepower = Float(hp)
	}
	if rec.Weight, err = parseFloat(tokens[4], FieldWeight, line); err != nil {
		return rec, err
	}
	if rec.Acceleration, err = parseFloat(tokens[5], FieldAcceleration, line); err != nil {
		return rec, err
	}
	if rec.ModelYear, err = parseInt(tokens[6], FieldModelYear, line); err != nil {
		return rec, err
	}
	code, err := parseInt(tokens[7], FieldOrigin, line)
	if err != nil {
		return rec, err
	}
	if rec.Origin, err = ParseOrigin(code); err != nil {
		return rec, &ParseError{Line: line, Field: FieldOrigin, Value: tokens[7], Err: err}
	}

	rec.CarName = strings.Join(strings.Fields(name), " ")
	rec.Manufacturer = ManufacturerOf(rec.CarName)
	if rec.Manufacturer == "" {
		return rec, &ParseError{Line: line, Field: FieldCarName, Err: errEmptyName}
	}
	return rec, nil
}

// ManufacturerOf returns the first whitespace-delimited token of a car name.
func ManufacturerOf(carName string) string {
	parts := strings.Fields(carName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// splitCarName separates the quoted car name from the numeric columns.
func splitCarName(text string) (head, name string) {
	i := strings.IndexByte(text, '"')
	if i < 0 {
		return text, ""
	}
	head = text[:i]
	name = text[i+1:]
	if j := strings.LastIndexByte(name, '"'); j >= 0 {
		name = name[:j]
	}
	return head, name
}

func parseFloat(tok, field string, line int) (float64, error) {
	if tok == MissingToken {
		return 0, &ParseError{Line: line, Field: field, Value: tok, Err: errMissing}
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, &ParseError{Line: line, Field: field, Value: tok, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Line: line, Field: field, Value: tok, Err: errNonFinite}
	}
	return v, nil
}

func parseInt(tok, field string, line int) (int, error) {
	if tok == MissingToken {
		return 0, &ParseError{Line: line, Field: field, Value: tok, Err: errMissing}
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		// some mirrors write integer columns as "8.0"
		f, ferr := strconv.ParseFloat(tok, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, &ParseError{Line: line, Field: field, Value: tok, Err: err}
		}
		v = int(f)
	}
	return v, nil
}
