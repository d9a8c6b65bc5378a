package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// pathID returns the canonical form of the :id route parameter. Ids are
// UUIDs; anything else is rejected before reaching a service.
func pathID(r *http.Request) (string, bool) {
	raw := strings.TrimSpace(httprouter.ParamsFromContext(r.Context()).ByName("id"))
	if raw == "" {
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
