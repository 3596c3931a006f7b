package httpapi

import (
	"context"
	"fmt"

	"go.llib.dev/restassured/domain/stuff"
	"go.llib.dev/restassured/pkg/route"
	"go.llib.dev/restassured/pkg/verify"
)

// Records exposes the persisted state of the stuff entities as verify.Record,
// so an update made through the API can be checked against the storage.
type Records struct {
	Storage stuff.Storage
}

func (rs Records) Stuff(_ context.Context, ent stuff.Stuff) verify.Record {
	return verify.StructRecord(ent)
}

// RelatedStuff resolves the "thing" relation through the storage.
// A dangling reference yields a nil related record.
func (rs Records) RelatedStuff(ctx context.Context, ent stuff.RelatedStuff) verify.Record {
	base := verify.StructRecord(ent)
	return verify.RecordFunc(func(name string) (any, error) {
		if name != "thing" {
			return base.Field(name)
		}
		thing, found, err := rs.Storage.Stuff.FindByID(ctx, ent.Thing)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		return StuffRecord{Stuff: thing}, nil
	})
}

// ManyRelatedStuff loads the members of the "stuff" relation lazily.
func (rs Records) ManyRelatedStuff(ctx context.Context, ent stuff.ManyRelatedStuff) verify.Record {
	base := verify.StructRecord(ent)
	return verify.RecordFunc(func(name string) (any, error) {
		if name != "stuff" {
			return base.Field(name)
		}
		return verify.RelationFunc(func() ([]verify.RelatedRecord, error) {
			members := make([]verify.RelatedRecord, 0, len(ent.Stuff))
			for _, id := range ent.Stuff {
				member, found, err := rs.Storage.Stuff.FindByID(ctx, id)
				if err != nil {
					return nil, err
				}
				if !found {
					continue
				}
				members = append(members, StuffRecord{Stuff: member})
			}
			return members, nil
		}), nil
	})
}

// StuffRecord is a Stuff seen from the other end of a relation.
type StuffRecord struct {
	stuff.Stuff
}

func (r StuffRecord) RecordID() any { return r.ID }

func (r StuffRecord) Field(name string) (any, error) {
	return verify.StructRecord(r.Stuff).Field(name)
}

// LinkedRelationValue represents related records with their hyperlink,
// the way the "-linked" resources render them.
func LinkedRelationValue(routes route.Reverser, detailName string) verify.RelationValueFunc {
	return func(field string, related verify.RelatedRecord) (string, error) {
		id := verify.Stringify(related.RecordID())
		link, err := routes.Reverse(detailName, id)
		if err != nil {
			return "", fmt.Errorf("%s: %w", field, err)
		}
		return link, nil
	}
}
