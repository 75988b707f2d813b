package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/absmach/quadra/pkg/api"
	pkgerrors "github.com/absmach/quadra/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createdRes struct {
	ID string `json:"id"`
}

func (createdRes) Code() int { return http.StatusCreated }
func (res createdRes) Headers() map[string]string {
	return map[string]string{"Location": "/things/" + res.ID}
}
func (createdRes) Empty() bool { return false }

func TestEncodeResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, api.EncodeResponse(context.Background(), rec, createdRes{ID: "abc"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/things/abc", rec.Header().Get("Location"))
	assert.Equal(t, api.ContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
}

func TestEncodeError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{err: fmt.Errorf("%w: dx must be positive", pkgerrors.ErrInvalidArgument), code: http.StatusBadRequest},
		{err: pkgerrors.ErrMalformedEntity, code: http.StatusBadRequest},
		{err: api.ErrLimitSize, code: http.StatusBadRequest},
		{err: pkgerrors.ErrNotFound, code: http.StatusNotFound},
		{err: pkgerrors.ErrEntityExists, code: http.StatusConflict},
		{err: pkgerrors.ErrNoWorker, code: http.StatusServiceUnavailable},
		{err: errors.New("boom"), code: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		api.EncodeError(context.Background(), tc.err, rec)
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.err.Error(), body["error"])
	}
}
