package httpmw_test

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/database/databasefake"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpmw"
)

func insertSession(t *testing.T, db database.Store, expiresAt time.Time) (string, database.User) {
	t.Helper()
	user, err := db.InsertUser(context.Background(), database.InsertUserParams{
		ID:       uuid.New(),
		Email:    "user@formbricks.com",
		Username: "user",
	})
	require.NoError(t, err)

	const (
		keyID     = "abcde12345"
		keySecret = "notasecretnotasecret22"
	)
	hashed := sha256.Sum256([]byte(keySecret))
	_, err = db.InsertAPIKey(context.Background(), database.InsertAPIKeyParams{
		ID:           keyID,
		UserID:       user.ID,
		HashedSecret: hashed[:],
		LastUsed:     time.Now(),
		ExpiresAt:    expiresAt,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	return fmt.Sprintf("%s-%s", keyID, keySecret), user
}

func TestExtractAPIKey(t *testing.T) {
	t.Parallel()

	successHandler := func(t *testing.T) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			// Both accessors must be populated by the middleware.
			require.NotEmpty(t, httpmw.APIKey(r).ID)
			require.NotEmpty(t, httpmw.User(r).ID)
			rw.WriteHeader(http.StatusOK)
		})
	}

	t.Run("NoToken", func(t *testing.T) {
		t.Parallel()
		db := databasefake.New()
		rtr := httpmw.ExtractAPIKey(db)(successHandler(t))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		rw := httptest.NewRecorder()
		rtr.ServeHTTP(rw, r)
		require.Equal(t, http.StatusUnauthorized, rw.Code)
	})

	t.Run("Malformed", func(t *testing.T) {
		t.Parallel()
		db := databasefake.New()
		rtr := httpmw.ExtractAPIKey(db)(successHandler(t))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(httpmw.SessionTokenHeader, "no-dashes-expected-here-extra")
		rw := httptest.NewRecorder()
		rtr.ServeHTTP(rw, r)
		require.Equal(t, http.StatusUnauthorized, rw.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		t.Parallel()
		db := databasefake.New()
		token, _ := insertSession(t, db, time.Now().Add(time.Hour))
		rtr := httpmw.ExtractAPIKey(db)(successHandler(t))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(httpmw.SessionTokenHeader, token[:len(token)-1]+"x")
		rw := httptest.NewRecorder()
		rtr.ServeHTTP(rw, r)
		require.Equal(t, http.StatusUnauthorized, rw.Code)
	})

	t.Run("Expired", func(t *testing.T) {
		t.Parallel()
		db := databasefake.New()
		token, _ := insertSession(t, db, time.Now().Add(-time.Hour))
		rtr := httpmw.ExtractAPIKey(db)(successHandler(t))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(httpmw.SessionTokenHeader, token)
		rw := httptest.NewRecorder()
		rtr.ServeHTTP(rw, r)
		require.Equal(t, http.StatusUnauthorized, rw.Code)
	})

	t.Run("ValidHeader", func(t *testing.T) {
		t.Parallel()
		db := databasefake.New()
		token, _ := insertSession(t, db, time.Now().Add(time.Hour))
		rtr := httpmw.ExtractAPIKey(db)(successHandler(t))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(httpmw.SessionTokenHeader, token)
		rw := httptest.NewRecorder()
		rtr.ServeHTTP(rw, r)
		require.Equal(t, http.StatusOK, rw.Code)
	})

	t.Run("ValidCookie", func(t *testing.T) {
		t.Parallel()
		db := databasefake.New()
		token, _ := insertSession(t, db, time.Now().Add(time.Hour))
		rtr := httpmw.ExtractAPIKey(db)(successHandler(t))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{
			Name:  httpmw.SessionTokenCookie,
			Value: token,
		})
		rw := httptest.NewRecorder()
		rtr.ServeHTTP(rw, r)
		require.Equal(t, http.StatusOK, rw.Code)
	})
}
