package opendata

import (
	"encoding/json"

	"github.com/lib/pq"
)

// Setter writes one raw JSON value onto an entity. It must leave the entity
// untouched when it returns an error.
type Setter[T any] func(entity *T, raw json.RawMessage) error

// Field pairs an external JSON field name with the setter it feeds.
type Field[T any] struct {
	Source string
	Set    Setter[T]
}

// Mapping is the ordered field table of one entity kind.
type Mapping[T any] []Field[T]

// Sources lists the external field names in mapping order.
func (m Mapping[T]) Sources() []string {
	out := make([]string, len(m))
	for i, f := range m {
		out[i] = f.Source
	}
	return out
}

// StringField maps source onto a string attribute. Numbers and booleans
// are stored as their literal text.
func StringField[T any](source string, dst func(*T) *string) Field[T] {
	return Field[T]{Source: source, Set: func(e *T, raw json.RawMessage) error {
		v, ok, err := decodeString(raw)
		if err != nil || !ok {
			return err
		}
		*dst(e) = v
		return nil
	}}
}

// FloatField maps source onto a float attribute. Numeric strings are accepted.
func FloatField[T any](source string, dst func(*T) *float64) Field[T] {
	return Field[T]{Source: source, Set: func(e *T, raw json.RawMessage) error {
		v, ok, err := decodeFloat(raw)
		if err != nil || !ok {
			return err
		}
		*dst(e) = v
		return nil
	}}
}

// IntField maps source onto an integer attribute. Fractional values are rejected.
func IntField[T any](source string, dst func(*T) *int) Field[T] {
	return Field[T]{Source: source, Set: func(e *T, raw json.RawMessage) error {
		v, ok, err := decodeInt(raw)
		if err != nil || !ok {
			return err
		}
		*dst(e) = v
		return nil
	}}
}

// PointField maps source onto a [lat, lon] attribute.
func PointField[T any](source string, dst func(*T) *pq.Float64Array) Field[T] {
	return Field[T]{Source: source, Set: func(e *T, raw json.RawMessage) error {
		v, ok, err := decodePoint(raw)
		if err != nil || !ok {
			return err
		}
		*dst(e) = v
		return nil
	}}
}

var DistrictMapping = Mapping[District]{
	PointField("geo_point_2d", func(d *District) *pq.Float64Array { return &d.GeoPoint }),
	StringField("typ_iris", func(d *District) *string { return &d.TypIris }),
	FloatField("p12_pop", func(d *District) *float64 { return &d.P12Pop }),
	FloatField("denspop12", func(d *District) *float64 { return &d.DensPop12 }),
	FloatField("p12_h0014", func(d *District) *float64 { return &d.P12H0014 }),
	FloatField("p12_h1529", func(d *District) *float64 { return &d.P12H1529 }),
	FloatField("p12_h3044", func(d *District) *float64 { return &d.P12H3044 }),
	FloatField("p12_h4559", func(d *District) *float64 { return &d.P12H4559 }),
	FloatField("p12_h6074", func(d *District) *float64 { return &d.P12H6074 }),
	FloatField("p12_h75p", func(d *District) *float64 { return &d.P12H75p }),
	FloatField("p12_pop60p", func(d *District) *float64 { return &d.P12Pop60p }),
	FloatField("p12_pop001", func(d *District) *float64 { return &d.P12Pop001 }),
}

var LivingPlaceMapping = Mapping[LivingPlace]{
	StringField("codact", func(l *LivingPlace) *string { return &l.ActivityCode }),
	PointField("xy", func(l *LivingPlace) *pq.Float64Array { return &l.Coordinates }),
	IntField("arro", func(l *LivingPlace) *int { return &l.Arr }),
	StringField("adresse_complete", func(l *LivingPlace) *string { return &l.Address }),
	StringField("libact", func(l *LivingPlace) *string { return &l.ActivityLabel }),
	StringField("type_voie", func(l *LivingPlace) *string { return &l.Situation }),
	StringField("surface", func(l *LivingPlace) *string { return &l.Area }),
}

var StationMapping = Mapping[Station]{
	StringField("departement", func(s *Station) *string { return &s.Departement }),
	StringField("code_postal", func(s *Station) *string { return &s.ZipCode }),
	PointField("coord", func(s *Station) *pq.Float64Array { return &s.Coordinates }),
	StringField("stop_id", func(s *Station) *string { return &s.StopID }),
	StringField("stop_desc", func(s *Station) *string { return &s.Description }),
	StringField("stop_name", func(s *Station) *string { return &s.Name }),
}
