package httpmw

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpapi"
)

// SessionTokenHeader carries the session token on API requests.
const SessionTokenHeader = "X-Session-Token"

// SessionTokenCookie is set on login for browser clients.
const SessionTokenCookie = "formbricks_session_token"

const signedOutErrorMessage = "You are signed out or your session has expired. Please sign in again to continue."

type apiKeyContextKey struct{}

type userContextKey struct{}

// APIKey returns the API key from the ExtractAPIKey handler.
func APIKey(r *http.Request) database.APIKey {
	key, ok := r.Context().Value(apiKeyContextKey{}).(database.APIKey)
	if !ok {
		panic("developer error: api key middleware not provided")
	}
	return key
}

// User returns the authenticated user from the ExtractAPIKey handler.
func User(r *http.Request) database.User {
	user, ok := r.Context().Value(userContextKey{}).(database.User)
	if !ok {
		panic("developer error: api key middleware not provided")
	}
	return user
}

// ExtractAPIKey requires a valid session token on the request, provided
// either via header or cookie, and attaches the key and its user to the
// request context.
func ExtractAPIKey(db database.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(SessionTokenHeader)
			if token == "" {
				cookie, err := r.Cookie(SessionTokenCookie)
				if err == nil {
					token = cookie.Value
				}
			}
			if token == "" {
				httpapi.Write(rw, http.StatusUnauthorized, httpapi.Response{
					Message: signedOutErrorMessage,
				})
				return
			}

			parts := strings.Split(token, "-")
			// Tokens are formatted "<id>-<secret>".
			if len(parts) != 2 {
				httpapi.Write(rw, http.StatusUnauthorized, httpapi.Response{
					Message: "session token is malformed",
				})
				return
			}
			keyID, keySecret := parts[0], parts[1]

			key, err := db.GetAPIKeyByID(r.Context(), keyID)
			if errors.Is(err, sql.ErrNoRows) {
				httpapi.Write(rw, http.StatusUnauthorized, httpapi.Response{
					Message: signedOutErrorMessage,
				})
				return
			}
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("get api key: %s", err),
				})
				return
			}

			hashedSecret := sha256.Sum256([]byte(keySecret))
			if subtle.ConstantTimeCompare(key.HashedSecret, hashedSecret[:]) != 1 {
				httpapi.Write(rw, http.StatusUnauthorized, httpapi.Response{
					Message: signedOutErrorMessage,
				})
				return
			}
			now := time.Now()
			if key.ExpiresAt.Before(now) {
				httpapi.Write(rw, http.StatusUnauthorized, httpapi.Response{
					Message: signedOutErrorMessage,
				})
				return
			}

			// Only bump last_used when it's stale to avoid writing on
			// every request.
			if now.Sub(key.LastUsed) > time.Hour {
				err = db.UpdateAPIKeyLastUsed(r.Context(), database.UpdateAPIKeyLastUsedParams{
					ID:       key.ID,
					LastUsed: now,
				})
				if err != nil {
					httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
						Message: fmt.Sprintf("update api key last used: %s", err),
					})
					return
				}
				key.LastUsed = now
			}

			user, err := db.GetUserByID(r.Context(), key.UserID)
			if err != nil {
				httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
					Message: fmt.Sprintf("get user: %s", err),
				})
				return
			}

			ctx := context.WithValue(r.Context(), apiKeyContextKey{}, key)
			ctx = context.WithValue(ctx, userContextKey{}, user)
			next.ServeHTTP(rw, r.WithContext(ctx))
		})
	}
}
