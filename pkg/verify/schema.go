package verify

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
)

// FieldKind tells the Verifier how the persisted value of a field should be compared.
type FieldKind int

const (
	// Scalar fields are compared by value.
	Scalar FieldKind = iota
	// SingleRelation fields point to another record, and compared through the related record's identifier.
	SingleRelation
	// MultiRelation fields hold a collection of related records,
	// and the submitted identifiers are expected to be a subset of the collection's members.
	MultiRelation
)

func (k FieldKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case SingleRelation:
		return "relation"
	case MultiRelation:
		return "relations"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// ParseFieldKind is the inverse of FieldKind.String.
func ParseFieldKind(s string) (FieldKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "scalar":
		return Scalar, nil
	case "relation", "fk", "foreignkey":
		return SingleRelation, nil
	case "relations", "m2m", "manytomany":
		return MultiRelation, nil
	default:
		return Scalar, ErrUnknownFieldKind.F("%q", s)
	}
}

// Schema maps field names to their kind.
// Fields that are not part of the Schema are treated as Scalar.
type Schema map[string]FieldKind

func (s Schema) KindOf(field string) FieldKind {
	if s == nil {
		return Scalar
	}
	return s[field]
}

const structTagName = "rest"

// InferSchema builds a Schema from a struct type's field tags.
//
//	type RelatedStuff struct {
//		ID    int64 `json:"id"`
//		Thing int64 `json:"thing" rest:",relation"`
//		Tags  []int `rest:"tags,relations"`
//	}
//
// The field name is taken from the rest tag, then the json tag,
// and finally from the snake_case form of the Go field name.
func InferSchema(v any) (Schema, error) {
	typ := reflect.TypeOf(v)
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("verify: schema inference requires a struct type, got %T", v)
	}
	schema := make(Schema)
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opts := fieldName(field)
		if name == "-" {
			continue
		}
		kind := Scalar
		if len(opts) > 0 {
			k, err := ParseFieldKind(opts[0])
			if err != nil {
				return nil, fmt.Errorf("verify: %s.%s: %w", typ.Name(), field.Name, err)
			}
			kind = k
		}
		schema[name] = kind
	}
	return schema, nil
}

// fieldName resolves the external name of a struct field and the remaining rest tag options.
func fieldName(field reflect.StructField) (string, []string) {
	var (
		name string
		opts []string
	)
	if tag, ok := field.Tag.Lookup(structTagName); ok {
		parts := strings.Split(tag, ",")
		name, opts = parts[0], parts[1:]
	}
	if name == "" {
		if tag, ok := field.Tag.Lookup("json"); ok {
			name = strings.Split(tag, ",")[0]
		}
	}
	if name == "" {
		name = strcase.ToSnake(field.Name)
	}
	return name, opts
}
