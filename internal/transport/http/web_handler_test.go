package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebHandlerServesEmbeddedPage(t *testing.T) {
	h, err := NewWebHandler(discardLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "EpiPulse")
	assert.Contains(t, body, `id="country-select"`)
	assert.Contains(t, body, "/api/countries")
}
