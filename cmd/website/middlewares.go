package main

import (
	"context"
	"net/http"
	"net/url"

	"github.com/adampresley/adamgokit/sessions"
	"github.com/mvicenzino/kidzart/pkg/models"
)

/*
newIdentityMiddleware puts the signed-in parent, if any, on the request
context. Anonymous visitors pass through untouched.
*/
func newIdentityMiddleware(sessionService sessions.Session[*models.Parent]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				err           error
				sessionParent *models.Parent
			)

			if sessionParent, err = sessionService.Get(r); err != nil || sessionParent == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), "parent", sessionParent)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

/*
newRequireSignInMiddleware sends anonymous visitors to the sign-in page and
returns them to where they were going afterwards.
*/
func newRequireSignInMiddleware(sessionService sessions.Session[*models.Parent]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				err           error
				sessionParent *models.Parent
			)

			if sessionParent, err = sessionService.Get(r); err != nil || sessionParent.Identity().ID == 0 {
				http.Redirect(w, r, "/account/login?redirect="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), "parent", sessionParent)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
