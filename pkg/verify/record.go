package verify

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

// Record is a persisted record that exposes its attributes by field name.
//
// Field must return an error that wraps ErrFieldNotFound when the field is not part of the record's schema.
type Record interface {
	Field(name string) (any, error)
}

// RelatedRecord is a record referenced through a relation field.
type RelatedRecord interface {
	RecordID() any
}

// AlternateIdentifier is an optional interface for a RelatedRecord.
// When a related record has an alternate identifier, such as a natural key or a URL,
// it takes priority over the primary identifier during the comparison.
type AlternateIdentifier interface {
	AltID() (string, bool)
}

// Relation is the enumerable side of a to-many relationship.
type Relation interface {
	Members() ([]RelatedRecord, error)
}

// RecordFunc is a function based Record implementation.
type RecordFunc func(name string) (any, error)

func (fn RecordFunc) Field(name string) (any, error) { return fn(name) }

// RelationFunc is a function based Relation implementation, useful for lazy loading members from storage.
type RelationFunc func() ([]RelatedRecord, error)

func (fn RelationFunc) Members() ([]RelatedRecord, error) { return fn() }

// Members is an already materialised Relation.
type Members []RelatedRecord

func (ms Members) Members() ([]RelatedRecord, error) { return ms, nil }

// RelatedID is a RelatedRecord that only knows its identifier.
type RelatedID struct {
	ID  any
	Alt string
}

func (r RelatedID) RecordID() any { return r.ID }

func (r RelatedID) AltID() (string, bool) { return r.Alt, r.Alt != "" }

// IDs makes a Relation out of plain identifiers.
func IDs[ID any](ids ...ID) Members {
	ms := make(Members, 0, len(ids))
	for _, id := range ids {
		ms = append(ms, RelatedID{ID: id})
	}
	return ms
}

// MapRecord is a Record backed by a serialised representation of the object,
// such as the decoded JSON body of a response.
type MapRecord map[string]any

func (m MapRecord) Field(name string) (any, error) {
	v, ok := m[name]
	if !ok {
		return nil, ErrFieldNotFound.F("%q", name)
	}
	return v, nil
}

// StructRecord makes a Record from a struct value.
// Fields are matched by their rest tag, json tag, Go name, or snake_case Go name.
func StructRecord(v any) Record {
	return structRecord{value: reflect.ValueOf(v)}
}

type structRecord struct {
	value reflect.Value
}

func (r structRecord) Field(name string) (any, error) {
	rv := r.value
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return nil, fmt.Errorf("verify: nil record")
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("verify: struct record expected, got %s", rv.Kind())
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		if matchField(field, name) {
			return rv.Field(i).Interface(), nil
		}
	}
	return nil, ErrFieldNotFound.F("%s has no %q field", rt.String(), name)
}

func matchField(field reflect.StructField, name string) bool {
	if extName, _ := fieldName(field); extName == name {
		return true
	}
	return field.Name == name ||
		strings.EqualFold(field.Name, strcase.ToCamel(name))
}
