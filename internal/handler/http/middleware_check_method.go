// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod is registered as the router's MethodNotAllowed handler.
// It answers 404 Not Found instead of chi's 405, so that a wrong method
// does not reveal that a path exists.
//
// Only routes whose pattern equals the raw request path are considered;
// if such a route does handle the method the request goes back through
// the router.
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !routeHandles(router.Routes(), r.URL.Path, r.Method) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		router.ServeHTTP(w, r)
	}
}

func routeHandles(routes []chi.Route, path, method string) bool {
	for _, route := range routes {
		if route.Pattern != path {
			continue
		}
		_, ok := route.Handlers[method]
		return ok
	}
	return false
}
