package middlewares

import (
	"context"
	"log"
	"net/http"
	"strings"

	"shop_backend/app/helpers"

	"github.com/unrolled/render"
)

// AuthMiddleware requires a valid bearer token and puts the user id and role
// on the request context.
func AuthMiddleware(secret string, r *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			auth := req.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				_ = r.JSON(w, http.StatusUnauthorized, map[string]string{
					"status":  "error",
					"message": "Missing token",
				})
				return
			}

			claims, err := helpers.ParseToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				log.Printf("AuthMiddleware: invalid token on %s: %v", req.URL.Path, err)
				_ = r.JSON(w, http.StatusUnauthorized, map[string]string{
					"status":  "error",
					"message": "Invalid or expired token",
				})
				return
			}

			ctx := context.WithValue(req.Context(), helpers.ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, helpers.ContextKeyRole, claims.Role)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// AdminMiddleware gates admin routes on the role claim set by AuthMiddleware.
func AdminMiddleware(r *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if helpers.GetRoleFromContext(req.Context()) != "admin" {
				_ = r.JSON(w, http.StatusForbidden, map[string]string{
					"status":  "error",
					"message": "Admin access required",
				})
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
