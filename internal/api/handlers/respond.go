package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/teamtrackr/teamtrackr/internal/api/dto"
	"github.com/teamtrackr/teamtrackr/internal/api/middleware"
	"github.com/teamtrackr/teamtrackr/internal/api/policy"
	"github.com/teamtrackr/teamtrackr/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError is the single responder every failure path funnels through.
func writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.From(err)
	writeJSON(w, appErr.Status, dto.ErrorResponse{Success: false, Error: appErr.Message})
}

// identityFrom rebuilds the caller identity from the claims the auth
// middleware stored on the context.
func identityFrom(r *http.Request) policy.Identity {
	ctx := r.Context()
	return policy.Identity{
		UserID:   middleware.GetUserID(ctx),
		UserType: middleware.GetUserType(ctx),
		Level:    middleware.GetUserLevel(ctx),
	}
}

// pathID parses a uuid path parameter, writing the 400 envelope itself when
// the value is malformed.
func pathID(w http.ResponseWriter, r *http.Request, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, apperrors.BadRequest("Invalid "+label+" ID"))
		return uuid.Nil, false
	}
	return id, true
}
