package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m0rozov/phishsight/internal/domain"
)

func TestWriteError(t *testing.T) {
	t.Run("invalid argument maps to 400 with the reason", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(rec, fmt.Errorf("%w: unknown analysis mode", domain.ErrInvalidArgument))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unknown analysis mode")
	})

	t.Run("everything else maps to opaque 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(rec, fmt.Errorf("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "pq:", "internals must not leak")
	})
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())
}
