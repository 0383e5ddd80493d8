package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vikaspatil0021/formbricks/formbricksd/httpapi"
)

func TestWrite(t *testing.T) {
	t.Parallel()
	rw := httptest.NewRecorder()
	httpapi.Write(rw, http.StatusOK, httpapi.Response{
		Message: "ok",
	})
	require.Equal(t, http.StatusOK, rw.Code)
	require.Equal(t, "application/json; charset=utf-8", rw.Header().Get("Content-Type"))

	var response httpapi.Response
	err := json.NewDecoder(rw.Body).Decode(&response)
	require.NoError(t, err)
	require.Equal(t, "ok", response.Message)
}

func TestRead(t *testing.T) {
	t.Parallel()
	t.Run("EmptyStruct", func(t *testing.T) {
		t.Parallel()
		rw := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/", bytes.NewBufferString("{}"))
		v := struct{}{}
		require.True(t, httpapi.Read(rw, r, &v))
	})

	t.Run("NoBody", func(t *testing.T) {
		t.Parallel()
		rw := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/", nil)
		var v json.RawMessage
		require.False(t, httpapi.Read(rw, r, &v))
	})

	t.Run("Validate", func(t *testing.T) {
		t.Parallel()
		type toValidate struct {
			Value string `json:"value" validate:"required"`
		}
		rw := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"value":"hi"}`))

		var validate toValidate
		require.True(t, httpapi.Read(rw, r, &validate))
		require.Equal(t, "hi", validate.Value)
	})

	t.Run("ValidateFailure", func(t *testing.T) {
		t.Parallel()
		type toValidate struct {
			Value string `json:"value" validate:"required"`
		}
		rw := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/", bytes.NewBufferString("{}"))

		var validate toValidate
		require.False(t, httpapi.Read(rw, r, &validate))
		var response httpapi.Response
		err := json.NewDecoder(rw.Body).Decode(&response)
		require.NoError(t, err)
		require.Len(t, response.Errors, 1)
		require.Equal(t, "value", response.Errors[0].Field)
	})
}
