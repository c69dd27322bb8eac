// Package http implements the HTTP handlers of the dashboard server. It is
// a thin layer between chi routing and the service layer, keeping handlers
// focused on HTTP concerns only.
//
// # Request Flow
//
// A request flows through these layers:
//
//	HTTP Request → chi Router → Middleware → Handler → DashboardService
//	                                             ↓
//	HTTP Response ← render.JSON / problem JSON ←─┘
//
// # Handler Structure
//
// Each handler follows this pattern:
//
//	func (h *DashboardHandler) GetSomething(w http.ResponseWriter, r *http.Request) {
//	    result, err := h.service.Something(r.Context())
//	    if err != nil {
//	        h.handleServiceError(w, r, err, "")
//	        return
//	    }
//	    render.JSON(w, r, result)
//	}
//
// # Error Handling
//
// Service sentinel errors map onto RFC 7807 problem responses through the
// shared errors.ErrorHandler:
//
//	{
//	    "type": "/errors/not-found",
//	    "title": "Resource Not Found",
//	    "status": 404,
//	    "detail": "country \"Atlantis\" not found",
//	    "instance": "/api/countries/Atlantis/series"
//	}
//
// The package also serves the embedded single-page dashboard from a go:embed
// filesystem, so the binary carries its own frontend.
package http
