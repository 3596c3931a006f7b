package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/restassured/pkg/route"
	"go.llib.dev/restassured/port/crud"
	"go.llib.dev/restassured/port/crud/extid"
)

type mountable interface {
	mount(r chi.Router, routes *route.Table)
}

// resource serves a crud.Repository as a REST collection with detail endpoints.
//
//	GET    /path/          <base>-list
//	POST   /path/          <base>-list
//	GET    /path/{id}/     <base>-detail
//	PUT    /path/{id}/     <base>-detail
//	PATCH  /path/{id}/     <base>-detail
//	DELETE /path/{id}/     <base>-detail
//	POST   /path/{id}/{t}/ <base>-transition
type resource[Entity any] struct {
	BaseName   string
	Path       string
	Repository crud.Repository[Entity, int64]
	IDA        extid.Accessor[Entity, int64]
	// New returns the entity with its default values.
	New func() Entity
	// Required fields must be present in create and full update requests.
	Required []string
	// Apply sets the entity fields present in the request data.
	Apply func(ctx context.Context, ent *Entity, data map[string]any) error
	// Validate [optional] checks the entity before it is persisted.
	Validate func(ent Entity) error
	ToDTO    func(ent Entity) (map[string]any, error)
	// PageSize [optional] enables the pagination of the collection.
	PageSize int
	// Transition [optional] enables the state transition endpoints.
	Transition func(ent *Entity, name string) error
}

func (res resource[Entity]) mount(r chi.Router, routes *route.Table) {
	list := routes.Register(res.BaseName+"-list", res.Path+"/")
	detail := routes.Register(res.BaseName+"-detail", res.Path+"/{id}/")
	r.Get(list, res.index)
	r.Post(list, res.create)
	r.Get(detail, res.show)
	r.Put(detail, res.update(false))
	r.Patch(detail, res.update(true))
	r.Delete(detail, res.destroy)
	if res.Transition != nil {
		r.Post(routes.Register(res.BaseName+"-transition", res.Path+"/{id}/{transition}/"), res.transition)
	}
}

func (res resource[Entity]) index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	all, err := res.Repository.FindAll(ctx)
	if err != nil {
		errorHandler.HandleError(w, r, err)
		return
	}
	if res.PageSize <= 0 {
		out, err := res.toDTOs(all)
		if err != nil {
			errorHandler.HandleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, out)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			errorHandler.HandleError(w, r, ErrNotFound.F("invalid page: %s", raw))
			return
		}
	}
	start := (page - 1) * res.PageSize
	if len(all) <= start && page != 1 {
		errorHandler.HandleError(w, r, ErrNotFound.F("invalid page: %d", page))
		return
	}
	end := min(start+res.PageSize, len(all))
	results, err := res.toDTOs(all[min(start, len(all)):end])
	if err != nil {
		errorHandler.HandleError(w, r, err)
		return
	}
	var next, previous any
	if end < len(all) {
		next = pageLink(r, page+1)
	}
	if 1 < page {
		previous = pageLink(r, page-1)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"count":    len(all),
		"next":     next,
		"previous": previous,
		"results":  results,
	})
}

func pageLink(r *http.Request, page int) string {
	u := url.URL{Path: r.URL.Path}
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

func (res resource[Entity]) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := readData(r)
	if err != nil {
		errorHandler.HandleError(w, r, err)
		return
	}
	if err := res.checkRequired(data); err != nil {
		errorHandler.HandleError(w, r, err)
		return
	}
	ent := res.New()
	if err := res.apply(ctx, &ent, data); err != nil {
		errorHandler.HandleError(w, r, err)
		return
	}
	if err := res.Repository.Create(ctx, &ent); err != nil {
		logger.Error(ctx, "error during create", logging.Field("resource", res.BaseName), logging.ErrField(err))
		errorHandler.HandleError(w, r, err)
		return
	}
	res.write(w, r, http.StatusCreated, ent)
}

func (res resource[Entity]) show(w http.ResponseWriter, r *http.Request) {
	ent, ok := res.lookup(w, r)
	if !ok {
		return
	}
	res.write(w, r, http.StatusOK, ent)
}

func (res resource[Entity]) update(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ent, ok := res.lookup(w, r)
		if !ok {
			return
		}
		data, err := readData(r)
		if err != nil {
			errorHandler.HandleError(w, r, err)
			return
		}
		if !partial {
			if err := res.checkRequired(data); err != nil {
				errorHandler.HandleError(w, r, err)
				return
			}
		}
		id, _ := res.IDA.Lookup(ent)
		if err := res.apply(ctx, &ent, data); err != nil {
			errorHandler.HandleError(w, r, err)
			return
		}
		// the ID is not writable
		if err := res.IDA.Set(&ent, id); err != nil {
			errorHandler.HandleError(w, r, err)
			return
		}
		if err := res.Repository.Update(ctx, &ent); err != nil {
			errorHandler.HandleError(w, r, err)
			return
		}
		res.write(w, r, http.StatusOK, ent)
	}
}

func (res resource[Entity]) destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := res.id(w, r)
	if !ok {
		return
	}
	if err := res.Repository.DeleteByID(r.Context(), id); err != nil {
		errorHandler.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (res resource[Entity]) transition(w http.ResponseWriter, r *http.Request) {
	ent, ok := res.lookup(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "transition")
	if err := res.Transition(&ent, name); err != nil {
		errorHandler.HandleError(w, r, err)
		return
	}
	if err := res.Repository.Update(r.Context(), &ent); err != nil {
		errorHandler.HandleError(w, r, err)
		return
	}
	logger.Info(r.Context(), "state transition",
		logging.Field("resource", res.BaseName),
		logging.Field("transition", name))
	res.write(w, r, http.StatusOK, ent)
}

func (res resource[Entity]) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errorHandler.HandleError(w, r, ErrNotFound.F("invalid id: %s", raw))
		return 0, false
	}
	return id, true
}

func (res resource[Entity]) lookup(w http.ResponseWriter, r *http.Request) (Entity, bool) {
	var zero Entity
	id, ok := res.id(w, r)
	if !ok {
		return zero, false
	}
	ent, found, err := res.Repository.FindByID(r.Context(), id)
	if err != nil {
		errorHandler.HandleError(w, r, err)
		return zero, false
	}
	if !found {
		errorHandler.HandleError(w, r, ErrNotFound.F("%s with id %d", res.BaseName, id))
		return zero, false
	}
	return ent, true
}

func (res resource[Entity]) checkRequired(data map[string]any) error {
	for _, field := range res.Required {
		if _, ok := data[field]; !ok {
			return invalidField(field, "this field is required")
		}
	}
	return nil
}

func (res resource[Entity]) apply(ctx context.Context, ent *Entity, data map[string]any) error {
	if err := res.Apply(ctx, ent, data); err != nil {
		return err
	}
	if res.Validate != nil {
		return res.Validate(*ent)
	}
	return nil
}

func (res resource[Entity]) write(w http.ResponseWriter, r *http.Request, status int, ent Entity) {
	dto, err := res.ToDTO(ent)
	if err != nil {
		errorHandler.HandleError(w, r, err)
		return
	}
	writeJSON(w, r, status, dto)
}

func (res resource[Entity]) toDTOs(ents []Entity) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(ents))
	for _, ent := range ents {
		dto, err := res.ToDTO(ent)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", res.BaseName, err)
		}
		out = append(out, dto)
	}
	return out, nil
}
