package middlewares

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reports-api/utils"
	"strings"
	"time"
)

type contextKey string

const UserContextKey = contextKey("auth_user")

const AUTH_TIMEOUT = 5 * time.Second

type AuthUser struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RequireAuth forwards the Authorization header to {authURL}/api/user and
// rejects the request unless that endpoint answers with a complete user.
func RequireAuth(authURL string) func(http.Handler) http.Handler {
	userURL := fmt.Sprintf("%s/api/user", strings.TrimRight(authURL, "/"))
	client := &http.Client{Timeout: AUTH_TIMEOUT}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if token == "" {
				utils.SendResponse(w, http.StatusUnauthorized, "missing token", nil, 0)
				return
			}

			req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, userURL, nil)
			if err != nil {
				utils.SendResponse(w, http.StatusInternalServerError, "cannot build authentication request", nil, 0)
				return
			}
			req.Header.Set("Authorization", token)
			req.Header.Set("Accept", "application/json")

			resp, err := client.Do(req)
			if err != nil {
				utils.SendResponse(w, http.StatusBadGateway, "cannot reach authentication API", nil, 0)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				utils.SendResponse(w, http.StatusUnauthorized, "invalid token", nil, 0)
				return
			}

			user := AuthUser{}
			err = json.NewDecoder(resp.Body).Decode(&user)
			if err != nil || user.ID == 0 || user.Name == "" || user.Email == "" {
				utils.SendResponse(w, http.StatusUnauthorized, "invalid user returned by authentication", nil, 0)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user stored by RequireAuth.
func UserFromContext(ctx context.Context) (AuthUser, bool) {
	user, ok := ctx.Value(UserContextKey).(AuthUser)
	return user, ok
}
