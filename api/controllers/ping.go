package controllers

import (
	"net/http"

	"github.com/agrimarket/agrimarket-backend/api/middleware"
	"github.com/agrimarket/agrimarket-backend/api/responses"
)

// PublicPing answers without authentication, useful for smoke tests.
func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"pong": "public"})
	}
}

// PrivatePing echoes the authenticated caller's identity.
func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"pong":    "private",
			"user_id": middleware.UserIDFromContext(r.Context()),
			"role":    middleware.RoleFromContext(r.Context()),
		})
	}
}

// AdminPing confirms the admin middleware chain end to end.
func AdminPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"pong":    "admin",
			"user_id": middleware.UserIDFromContext(r.Context()),
		})
	}
}
