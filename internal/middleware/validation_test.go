package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesRouter(vm *ValidationMiddleware) http.Handler {
	r := chi.NewRouter()
	r.With(vm.ValidateLocation).Get("/api/countries/{location}/series", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(chi.URLParam(r, "location")))
	})
	return r
}

func TestValidateLocationAllowsRealNames(t *testing.T) {
	vm := NewValidationMiddleware(discardLogger(), newTestErrorHandler())
	router := seriesRouter(vm)

	for _, name := range []string{"France", "Cote d'Ivoire", "United States"} {
		rec := httptest.NewRecorder()
		target := "/api/countries/" + url.PathEscape(name) + "/series"
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusOK, rec.Code, "location %q should pass", name)
	}
}

func TestValidateLocationRejectsOutOfBounds(t *testing.T) {
	vm := NewValidationMiddleware(discardLogger(), newTestErrorHandler())
	router := seriesRouter(vm)

	tests := []struct {
		name     string
		location string
	}{
		{name: "too short", location: "F"},
		{name: "too long", location: strings.Repeat("a", 80)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			target := "/api/countries/" + url.PathEscape(tt.location) + "/series"
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Validation Failed")
		})
	}
}

func TestLocationRuleRejectsHostileInput(t *testing.T) {
	vm := NewValidationMiddleware(discardLogger(), newTestErrorHandler())

	tests := []struct {
		location string
		valid    bool
	}{
		{"France", true},
		{"Bonaire Sint Eustatius and Saba", true},
		{"a/b", false},
		{`a\b`, false},
		{"tab\tseparated", false},
		{"newline\nname", false},
	}

	for _, tt := range tests {
		err := vm.validator.Struct(locationParams{Location: tt.location})
		if tt.valid {
			assert.NoError(t, err, "location %q", tt.location)
		} else {
			assert.Error(t, err, "location %q", tt.location)
		}
	}
}
