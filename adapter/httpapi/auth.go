package httpapi

import (
	"context"
	"net/http"

	"go.llib.dev/frameless/pkg/errorkit"

	"go.llib.dev/restassured/pkg/restclient"
)

const ErrUnauthorized errorkit.Error = "not-authenticated"

type ctxKeyUsername struct{}

// LookupUsername returns the authenticated user name of the request.
func LookupUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ctxKeyUsername{}).(string)
	return username, ok
}

// Authentication reads the "Authorization: Token <username>" header.
// When required is true, anonymous requests are rejected.
func Authentication(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := restclient.ParseTokenHeader(r.Header.Get("Authorization"))
			if !ok {
				if required {
					errorHandler.HandleError(w, r, ErrUnauthorized.F("authentication credentials were not provided"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyUsername{}, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
