// Package verify checks that an update operation's effect on a persisted record matches what was submitted.
//
// The same "did the update take effect" question resolves differently
// depending on whether a field is a plain value, a pointer to another record, or a collection of pointers.
// The Schema tells which one applies to a given field.
package verify

import (
	"fmt"
	"reflect"
	"sort"

	"go.llib.dev/frameless/pkg/errorkit"
)

// Submitted is the data that was sent with the update request.
type Submitted map[string]any

// Expected overrides the expected value of a submitted field.
// Keys not present in Expected fall back to their Submitted value.
type Expected map[string]any

func (e Expected) lookup(key string, submitted any) any {
	if v, ok := e[key]; ok {
		return v
	}
	return submitted
}

// RelationValueFunc computes the value that represents a related record during comparison.
type RelationValueFunc func(field string, related RelatedRecord) (string, error)

// Verifier compares a persisted record with the submitted update data.
//
// All mismatching fields are collected and returned together,
// while errors from the Record or its relations abort the verification right away.
type Verifier struct {
	Schema Schema
	// RelationValue [optional] overrides how related records are represented in comparisons.
	//
	// Default: DefaultRelationValue
	RelationValue RelationValueFunc
}

// DefaultRelationValue uses the related record's alternate identifier when it has one,
// and its stringified primary identifier otherwise.
func DefaultRelationValue(_ string, related RelatedRecord) (string, error) {
	if alt, ok := related.(AlternateIdentifier); ok {
		if id, ok := alt.AltID(); ok {
			return id, nil
		}
	}
	return Stringify(related.RecordID()), nil
}

// Verify is a shorthand for a Verifier with the given schema.
func Verify(schema Schema, persisted Record, submitted Submitted, expected Expected) error {
	return Verifier{Schema: schema}.Verify(persisted, submitted, expected)
}

func (v Verifier) Verify(persisted Record, submitted Submitted, expected Expected) error {
	if persisted == nil {
		return fmt.Errorf("verify: nil persisted record")
	}
	var mismatches []error
	for _, key := range sortedKeys(submitted) {
		value := submitted[key]
		var (
			errs []error
			err  error
		)
		switch v.Schema.KindOf(key) {
		case SingleRelation:
			errs, err = v.checkRelation(persisted, key, expected.lookup(key, value))
		case MultiRelation:
			errs, err = v.checkRelations(persisted, key, value)
		default:
			errs, err = v.checkScalar(persisted, key, expected.lookup(key, value))
		}
		if err != nil {
			return err
		}
		mismatches = append(mismatches, errs...)
	}
	return errorkit.Merge(mismatches...)
}

func (v Verifier) checkScalar(persisted Record, key string, expected any) ([]error, error) {
	actual, err := persisted.Field(key)
	if err != nil {
		return nil, err
	}
	if equalValues(expected, actual) {
		return nil, nil
	}
	return []error{MismatchError{Field: key, Expected: expected, Actual: actual}}, nil
}

func (v Verifier) checkRelation(persisted Record, key string, expected any) ([]error, error) {
	attr, err := persisted.Field(key)
	if err != nil {
		return nil, err
	}
	var actual string
	if indirect(reflect.ValueOf(attr)).IsValid() {
		related, ok := attr.(RelatedRecord)
		if !ok {
			related = RelatedID{ID: attr}
		}
		actual, err = v.relationValue(key, related)
		if err != nil {
			return nil, err
		}
	}
	if exp := Stringify(expected); exp != actual {
		return []error{MismatchError{Field: key, Expected: exp, Actual: actual}}, nil
	}
	return nil, nil
}

// checkRelations asserts that every submitted identifier is a member of the relation.
// The relation may hold more members than what was submitted.
func (v Verifier) checkRelations(persisted Record, key string, submitted any) ([]error, error) {
	attr, err := persisted.Field(key)
	if err != nil {
		return nil, err
	}
	relation, err := asRelation(key, attr)
	if err != nil {
		return nil, err
	}
	ids, err := sequence(key, submitted)
	if err != nil {
		return nil, err
	}
	members, err := relation.Members()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	var (
		present = make(map[string]struct{}, len(members))
		actual  = make([]string, 0, len(members))
	)
	for _, m := range members {
		val, err := v.relationValue(key, m)
		if err != nil {
			return nil, err
		}
		present[val] = struct{}{}
		actual = append(actual, val)
	}
	sort.Strings(actual)
	var mismatches []error
	for _, id := range ids {
		if _, ok := present[Stringify(id)]; !ok {
			mismatches = append(mismatches, MismatchError{Field: key, Expected: Stringify(id), Actual: actual})
		}
	}
	return mismatches, nil
}

// asRelation accepts a Relation, or a plain sequence of related identifiers,
// which is how a struct usually holds a to-many relation.
func asRelation(key string, attr any) (Relation, error) {
	if relation, ok := attr.(Relation); ok {
		return relation, nil
	}
	ids, err := sequence(key, attr)
	if err != nil {
		return nil, ErrUnexpectedShape.F("%s: to-many relation expected, got %T", key, attr)
	}
	return IDs(ids...), nil
}

func (v Verifier) relationValue(key string, related RelatedRecord) (string, error) {
	if v.RelationValue != nil {
		return v.RelationValue(key, related)
	}
	return DefaultRelationValue(key, related)
}

func sortedKeys(m Submitted) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
