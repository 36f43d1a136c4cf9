// Package shapeutil is a reflection-based ShapeProvider, built only to
// exercise the converter pipeline in tests without hand-authoring a
// Schema for every fixture type. Production shape discovery (field
// enumeration, constructor-parameter metadata, source generation of
// per-type providers) is an external collaborator the core converter
// pipeline never implements itself; this package is the test-side stand-in
// for that collaborator, not a supported production code path.
package shapeutil

import (
	"fmt"
	"math/big"
	"net/url"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpschema/mpschema"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
	uuidType     = reflect.TypeOf(uuid.UUID{})
	decimalType  = reflect.TypeOf(decimal.Decimal{})
	bigIntType   = reflect.TypeOf(&big.Int{})
	urlType      = reflect.TypeOf(&url.URL{})
)

// Registry maps Go struct types to lazily-built, reflection-derived
// Schemas and implements mpschema.ShapeProvider over that map.
type Registry struct {
	mu      sync.Mutex
	schemas map[reflect.Type]*mpschema.Schema
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{schemas: map[reflect.Type]*mpschema.Schema{}}
}

// Register builds and interns the object-as-map Schema for sample's type,
// returning the cached Schema on repeat calls for the same type.
func (r *Registry) Register(sample any) (*mpschema.Schema, error) {
	t := structType(sample)

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.schemas[t]; ok {
		return s, nil
	}

	schema, err := ReflectObjectSchema(sample)
	if err != nil {
		return nil, err
	}
	r.schemas[t] = schema
	return schema, nil
}

// ShapeOf implements mpschema.ShapeProvider, resolving the Schema
// previously built by Register for v's underlying struct type.
func (r *Registry) ShapeOf(v any) (*mpschema.Schema, error) {
	t := structType(v)

	r.mu.Lock()
	s, ok := r.schemas[t]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("shapeutil: no shape registered for %s", t)
	}
	return s, nil
}

func structType(v any) reflect.Type {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// ReflectObjectSchema builds an object-as-map Schema for sample's struct
// type: every exported field becomes a property keyed by its Go field
// name, with a primitive converter inferred from the field's type.
// Nested structs, slices of non-byte element type, maps, and unions are
// not supported — a test fixture needing one of those builds its Schema
// by hand instead.
func ReflectObjectSchema(sample any) (*mpschema.Schema, error) {
	t := structType(sample)
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("shapeutil: %s is not a struct", t)
	}

	schema := &mpschema.Schema{
		ID:   mpschema.ShapeID{Namespace: t.PkgPath(), Name: t.Name()},
		Kind: mpschema.KindObjectMap,
		New:  func() any { return reflect.New(t).Interface() },
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		prop, err := buildProperty(f, i)
		if err != nil {
			return nil, fmt.Errorf("shapeutil: %s.%s: %w", t.Name(), f.Name, err)
		}
		schema.Properties = append(schema.Properties, prop)
	}
	return schema, nil
}

func buildProperty(f reflect.StructField, idx int) (mpschema.Property, error) {
	p := mpschema.Property{
		Name: f.Name,
		Get: func(obj any) (any, bool) {
			return reflect.ValueOf(obj).Elem().Field(idx).Interface(), true
		},
		Set: func(obj any, value any) error {
			reflect.ValueOf(obj).Elem().Field(idx).Set(reflect.ValueOf(value))
			return nil
		},
	}

	switch {
	case f.Type == durationType:
		p.Conv = mpschema.Erase[time.Duration](mpschema.TimeSpan())
	case f.Type == timeType:
		p.Conv = mpschema.Erase[time.Time](mpschema.DateTime())
	case f.Type == uuidType:
		p.Conv = mpschema.Erase[uuid.UUID](mpschema.Guid())
	case f.Type == decimalType:
		p.Conv = mpschema.Erase[decimal.Decimal](mpschema.Decimal())
	case f.Type == bigIntType:
		p.Conv = mpschema.Erase[*big.Int](mpschema.BigInt())
	case f.Type == urlType:
		p.Conv = mpschema.Erase[*url.URL](mpschema.Uri())
	case f.Type.Kind() == reflect.Slice && f.Type.Elem().Kind() == reflect.Uint8:
		p.Conv = mpschema.Erase[[]byte](mpschema.Bytes())
	default:
		switch f.Type.Kind() {
		case reflect.Bool:
			p.Conv = mpschema.Erase[bool](mpschema.Bool())
		case reflect.String:
			p.Conv = mpschema.Erase[string](mpschema.String())
		case reflect.Int:
			p.Conv = mpschema.Erase[int](mpschema.Int())
		case reflect.Int8:
			p.Conv = mpschema.Erase[int8](mpschema.Int8())
		case reflect.Int16:
			p.Conv = mpschema.Erase[int16](mpschema.Int16())
		case reflect.Int32:
			p.Conv = mpschema.Erase[int32](mpschema.Int32())
		case reflect.Int64:
			p.Conv = mpschema.Erase[int64](mpschema.Int64())
		case reflect.Uint8:
			p.Conv = mpschema.Erase[uint8](mpschema.Uint8())
		case reflect.Uint16:
			p.Conv = mpschema.Erase[uint16](mpschema.Uint16())
		case reflect.Uint32:
			p.Conv = mpschema.Erase[uint32](mpschema.Uint32())
		case reflect.Uint64:
			p.Conv = mpschema.Erase[uint64](mpschema.Uint64())
		case reflect.Float32:
			p.Conv = mpschema.Erase[float32](mpschema.Float32())
		case reflect.Float64:
			p.Conv = mpschema.Erase[float64](mpschema.Float64())
		default:
			return mpschema.Property{}, fmt.Errorf("unsupported field kind %s", f.Type.Kind())
		}
	}

	return p, nil
}
