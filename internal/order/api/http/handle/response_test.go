package handle

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dely-backend/internal/auth"
	"dely-backend/internal/order/app/core"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestJSONSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	jsonSuccess(rec, map[string]int{"orderId": 42})

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, statusSuccess, env.Status)
	assert.Empty(t, env.Errors)
}

func TestJSONErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"location missing", core.ErrLocationNotFound, http.StatusOK, "Location do not exist"},
		{"location closed", core.ErrLocationClosed, http.StatusOK, "Location is closed"},
		{"order missing", core.ErrOrderNotFound, http.StatusOK, "Order do not exist"},
		{"unauthorized", auth.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{"numbers exhausted", core.ErrNumberSpaceExhausted, http.StatusServiceUnavailable, "Try again later"},
		{"unexpected", errors.New("pool closed"), http.StatusInternalServerError, "Something went wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			jsonError(rec, tc.err)

			assert.Equal(t, tc.wantCode, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.Equal(t, statusFailed, env.Status)
			require.Len(t, env.Errors, 1)
			assert.Equal(t, tc.wantMsg, env.Errors[0].Msg)
		})
	}
}

func TestJSONErrorValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	jsonError(rec, core.Validation([]core.FieldError{
		{Param: "phoneNumber", Msg: core.MsgEmptyValue},
		{Value: "free", Param: "shoppingCartItems", Msg: core.MsgInvalidValue},
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, statusFailed, env.Status)
	require.Len(t, env.Errors, 2)
	assert.Equal(t, "phoneNumber", env.Errors[0].Param)
	assert.Equal(t, "free", env.Errors[1].Value)
}
