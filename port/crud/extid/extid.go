// Package extid locates the external identifier of an entity.
package extid

import (
	"fmt"
	"reflect"
	"strings"
)

// Accessor describes how to access the ID field of an ENT.
//
//	extid.Accessor[Stuff, int64](func(v *Stuff) *int64 { return &v.ID })
//
// A nil Accessor falls back to the field tagged with `ext:"id"`, or to the field named ID.
type Accessor[ENT, ID any] func(*ENT) *ID

func (fn Accessor[ENT, ID]) Lookup(ent ENT) (ID, bool) {
	if fn == nil {
		return Lookup[ID](ent)
	}
	id := *fn(&ent)
	return id, !reflect.ValueOf(&id).Elem().IsZero()
}

func (fn Accessor[ENT, ID]) Set(ptr *ENT, id ID) error {
	if ptr == nil {
		return fmt.Errorf("nil %T pointer given for setting %T", *new(ENT), *new(ID))
	}
	if fn == nil {
		return Set(ptr, id)
	}
	*fn(ptr) = id
	return nil
}

// Lookup finds the ID value of an entity.
// A zero ID is reported as not found.
func Lookup[ID any](ent any) (id ID, ok bool) {
	field, ok := identifierField(reflect.ValueOf(ent))
	if !ok || field.IsZero() {
		return id, false
	}
	id, ok = field.Interface().(ID)
	return id, ok
}

// Set assigns the ID value through an entity pointer.
func Set[ID any](ptr any, id ID) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("extid.Set expects a non nil pointer, got %T", ptr)
	}
	field, ok := identifierField(rv)
	if !ok {
		return fmt.Errorf("could not locate the ID field in %T", ptr)
	}
	val := reflect.ValueOf(id)
	if !val.Type().AssignableTo(field.Type()) {
		return fmt.Errorf("%T is not assignable to the ID field of %T", id, ptr)
	}
	field.Set(val)
	return nil
}

func identifierField(rv reflect.Value) (reflect.Value, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		if strings.EqualFold(rt.Field(i).Tag.Get("ext"), "id") {
			return rv.Field(i), true
		}
	}
	if sf, ok := rt.FieldByName("ID"); ok && len(sf.Index) == 1 {
		return rv.Field(sf.Index[0]), true
	}
	return reflect.Value{}, false
}
