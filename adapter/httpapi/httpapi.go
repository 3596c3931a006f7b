// Package httpapi is the reference REST API that the conformance test cases run against.
//
// It serves the stuff domain in the shape of a typical REST framework:
// paginated collections, detail endpoints, and state transitions.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/httpkit/rfc7807"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/restassured/domain/stuff"
	"go.llib.dev/restassured/pkg/route"
	"go.llib.dev/restassured/port/crud"
)

// DefaultPageSize is the page size of the paginated collections.
const DefaultPageSize = 10

type Config struct {
	Storage stuff.Storage
	// RequireAuth rejects the requests which has no token authentication.
	RequireAuth bool
	// PageSize [optional] of the stuff collection.
	//
	// Default: DefaultPageSize
	PageSize int
	// RequestTimeout [optional] cancels the request context after the given duration.
	RequestTimeout time.Duration
}

type API struct {
	// Routes holds every named route of the API.
	Routes *route.Table

	router chi.Router
}

func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.router.ServeHTTP(w, r)
}

func NewAPI(c Config) (*API, error) {
	if err := c.Storage.Validate(); err != nil {
		return nil, err
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if 0 < c.RequestTimeout {
		r.Use(middleware.Timeout(c.RequestTimeout))
	}
	r.Use(Authentication(c.RequireAuth))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleError(w, r, ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleError(w, r, ErrMethodNotAllowed)
	})

	api := &API{Routes: &route.Table{}, router: r}
	for _, res := range stuffResources(c, api.Routes) {
		res.mount(r, api.Routes)
	}
	return api, nil
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		ctx := logging.ContextWith(r.Context(),
			logging.Field("request_id", middleware.GetReqID(r.Context())))
		next.ServeHTTP(ww, r.WithContext(ctx))
		logger.Debug(ctx, "http request",
			logging.Field("method", r.Method),
			logging.Field("path", r.URL.Path),
			logging.Field("status", ww.Status()),
			logging.Field("duration", time.Since(start).String()))
	})
}

const (
	ErrNotFound         errorkit.Error = "not-found"
	ErrMethodNotAllowed errorkit.Error = "method-not-allowed"
)

var errorHandler = rfc7807.Handler{
	Mapping: func(ctx context.Context, err error, dto *rfc7807.DTO) {
		switch {
		case errors.Is(err, ErrUnauthorized):
			dto.Type.ID = string(ErrUnauthorized)
			dto.Title = "Not authenticated"
			dto.Status = http.StatusUnauthorized
			dto.Detail = err.Error()
		case errors.Is(err, ErrNotFound), errors.Is(err, crud.ErrNotFound), errors.Is(err, stuff.ErrUnknownTransition):
			dto.Type.ID = string(ErrNotFound)
			dto.Title = "Not found"
			dto.Status = http.StatusNotFound
			dto.Detail = err.Error()
		case errors.Is(err, ErrMethodNotAllowed):
			dto.Type.ID = string(ErrMethodNotAllowed)
			dto.Title = "Method not allowed"
			dto.Status = http.StatusMethodNotAllowed
		case isInvalid(err), errors.Is(err, stuff.ErrInvalid), errors.Is(err, stuff.ErrTransitionNotAllowed):
			dto.Type.ID = "bad-request"
			dto.Title = "Bad request"
			dto.Status = http.StatusBadRequest
			dto.Detail = err.Error()
		case errors.Is(err, crud.ErrAlreadyExists):
			dto.Type.ID = "conflict"
			dto.Title = "Conflict"
			dto.Status = http.StatusConflict
			dto.Detail = err.Error()
		default:
			logger.Error(ctx, "unexpected error in the http api", logging.ErrField(err))
		}
	},
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Debug(r.Context(), "error while writing back the response", logging.ErrField(err))
	}
}
