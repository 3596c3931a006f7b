package httpapi

import (
	"context"
	"strconv"

	"go.llib.dev/restassured/domain/stuff"
	"go.llib.dev/restassured/pkg/route"
	"go.llib.dev/restassured/port/crud/extid"
)

var (
	stuffIDA            = extid.Accessor[stuff.Stuff, int64](func(v *stuff.Stuff) *int64 { return &v.ID })
	relatedStuffIDA     = extid.Accessor[stuff.RelatedStuff, int64](func(v *stuff.RelatedStuff) *int64 { return &v.ID })
	manyRelatedStuffIDA = extid.Accessor[stuff.ManyRelatedStuff, int64](func(v *stuff.ManyRelatedStuff) *int64 { return &v.ID })
)

// stuffResources returns the resources of the API.
// The "-linked" variants render and accept relations as hyperlinks instead of primary keys.
func stuffResources(c Config, routes route.Reverser) []mountable {
	var (
		plain  = relations{Storage: c.Storage}
		linked = relations{Storage: c.Storage, Routes: routes, LinkName: "stuff-linked-detail"}
	)
	return []mountable{
		stuffResource(c, "stuff", "/stuff", nil),
		stuffResource(c, "stuff-linked", "/stuff-linked", routes),
		relatedStuffResource(c, "relatedstuff", "/related-stuff", plain),
		relatedStuffResource(c, "relatedstuff-linked", "/related-stuff-linked", linked),
		manyRelatedStuffResource(c, "manyrelatedstuff", "/many-related-stuff", plain),
		manyRelatedStuffResource(c, "manyrelatedstuff-linked", "/many-related-stuff-linked", linked),
	}
}

func stuffResource(c Config, baseName, path string, routes route.Reverser) resource[stuff.Stuff] {
	return resource[stuff.Stuff]{
		BaseName:   baseName,
		Path:       path,
		Repository: c.Storage.Stuff,
		IDA:        stuffIDA,
		PageSize:   c.PageSize,
		New: func() stuff.Stuff {
			return stuff.Stuff{Status: stuff.StatusDraft}
		},
		Required: []string{"name"},
		Apply: func(ctx context.Context, ent *stuff.Stuff, data map[string]any) error {
			if v, ok := data["name"]; ok {
				name, err := stringField("name", v)
				if err != nil {
					return err
				}
				ent.Name = name
			}
			if v, ok := data["answer"]; ok {
				answer, err := optionalIntField("answer", v)
				if err != nil {
					return err
				}
				ent.Answer = answer
			}
			if v, ok := data["status"]; ok {
				status, err := stringField("status", v)
				if err != nil {
					return err
				}
				ent.Status = stuff.Status(status)
			}
			return nil
		},
		Validate: stuff.Stuff.Validate,
		ToDTO: func(ent stuff.Stuff) (map[string]any, error) {
			dto := map[string]any{
				"id":     ent.ID,
				"name":   ent.Name,
				"answer": ent.Answer,
				"status": ent.Status,
			}
			if routes != nil {
				link, err := routes.Reverse(baseName+"-detail", strconv.FormatInt(ent.ID, 10))
				if err != nil {
					return nil, err
				}
				dto["url"] = link
			}
			return dto, nil
		},
		Transition: (*stuff.Stuff).Transition,
	}
}

func relatedStuffResource(c Config, baseName, path string, rel relations) resource[stuff.RelatedStuff] {
	return resource[stuff.RelatedStuff]{
		BaseName:   baseName,
		Path:       path,
		Repository: c.Storage.RelatedStuff,
		IDA:        relatedStuffIDA,
		New:        func() stuff.RelatedStuff { return stuff.RelatedStuff{} },
		Required:   []string{"thing"},
		Apply: func(ctx context.Context, ent *stuff.RelatedStuff, data map[string]any) error {
			v, ok := data["thing"]
			if !ok {
				return nil
			}
			thing, err := rel.ref(ctx, "thing", v)
			if err != nil {
				return err
			}
			ent.Thing = thing
			return nil
		},
		ToDTO: func(ent stuff.RelatedStuff) (map[string]any, error) {
			thing, err := rel.render(ent.Thing)
			if err != nil {
				return nil, err
			}
			return map[string]any{"id": ent.ID, "thing": thing}, nil
		},
	}
}

func manyRelatedStuffResource(c Config, baseName, path string, rel relations) resource[stuff.ManyRelatedStuff] {
	return resource[stuff.ManyRelatedStuff]{
		BaseName:   baseName,
		Path:       path,
		Repository: c.Storage.ManyRelatedStuff,
		IDA:        manyRelatedStuffIDA,
		New:        func() stuff.ManyRelatedStuff { return stuff.ManyRelatedStuff{} },
		Required:   []string{"stuff"},
		Apply: func(ctx context.Context, ent *stuff.ManyRelatedStuff, data map[string]any) error {
			v, ok := data["stuff"]
			if !ok {
				return nil
			}
			members, err := rel.refs(ctx, "stuff", v)
			if err != nil {
				return err
			}
			ent.Stuff = members
			return nil
		},
		ToDTO: func(ent stuff.ManyRelatedStuff) (map[string]any, error) {
			members := make([]any, 0, len(ent.Stuff))
			for _, id := range ent.Stuff {
				member, err := rel.render(id)
				if err != nil {
					return nil, err
				}
				members = append(members, member)
			}
			return map[string]any{"id": ent.ID, "stuff": members}, nil
		},
	}
}

// relations resolves references to Stuff.
type relations struct {
	Storage stuff.Storage
	// Routes and LinkName are set when the relations are rendered as hyperlinks.
	Routes   route.Reverser
	LinkName string
}

func (rel relations) linked() bool { return rel.Routes != nil }

func (rel relations) ref(ctx context.Context, field string, v any) (int64, error) {
	id, err := refField(field, v, rel.linked())
	if err != nil {
		return 0, err
	}
	if err := rel.exists(ctx, field, id); err != nil {
		return 0, err
	}
	return id, nil
}

func (rel relations) refs(ctx context.Context, field string, v any) ([]int64, error) {
	ids, err := refListField(field, v, rel.linked())
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if err := rel.exists(ctx, field, id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (rel relations) exists(ctx context.Context, field string, id int64) error {
	_, found, err := rel.Storage.Stuff.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return invalidField(field, "invalid pk %q - object does not exist", strconv.FormatInt(id, 10))
	}
	return nil
}

func (rel relations) render(id int64) (any, error) {
	if !rel.linked() {
		return id, nil
	}
	return rel.Routes.Reverse(rel.LinkName, strconv.FormatInt(id, 10))
}
