package handlers

import (
	"net/http"

	"github.com/threadcraft/backend/internal/apperr"
)

// UserHandler exposes the authenticated platform account.
type UserHandler struct {
	Clients ClientFactory
}

type userData struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	Name            string  `json:"name"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// Info handles GET /api/user/info requests.
func (h UserHandler) Info(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	_, bundle, ok := sessionFromContext(ctx)
	if !ok {
		respondError(ctx, w, apperr.New(apperr.CodeNoSession))
		return
	}

	user, err := h.Clients(bundle).Me(ctx)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	data := userData{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
	}
	if user.ProfileImageURL != "" {
		url := user.ProfileImageURL
		data.ProfileImageURL = &url
	}

	respondData(ctx, w, "", data)
}
