package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"rentora.org/internal/profile"
)

type roleUpdateRequest struct {
	Role string `json:"role"`
}

type verifiedUpdateRequest struct {
	Verified bool `json:"verified"`
}

// handleProfiles routes /v1/profiles/{id}[/role|/verified].
func (a *API) handleProfiles(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/profiles/"), "/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.getProfile(w, r, id)
	case len(parts) == 2 && parts[1] == "role":
		if r.Method != http.MethodPut {
			methodNotAllowed(w, r, http.MethodPut)
			return
		}
		a.updateRole(w, r, id)
	case len(parts) == 2 && parts[1] == "verified":
		if r.Method != http.MethodPut {
			methodNotAllowed(w, r, http.MethodPut)
			return
		}
		a.updateVerified(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (a *API) getProfile(w http.ResponseWriter, r *http.Request, id string) {
	p, err := a.profiles.Get(r.Context(), id)
	if err != nil {
		handleProfileError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) updateRole(w http.ResponseWriter, r *http.Request, id string) {
	var req roleUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	role, err := profile.ParseRole(req.Role)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	p, err := a.profiles.ChangeRole(r.Context(), id, role)
	if err != nil {
		handleProfileError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) updateVerified(w http.ResponseWriter, r *http.Request, id string) {
	var req verifiedUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	p, err := a.profiles.SetVerified(r.Context(), id, req.Verified)
	if err != nil {
		handleProfileError(w, r, err)
		return
	}
	if req.Verified {
		a.notify(p.Email, "Your Rentora profile is verified",
			"An administrator has verified your profile. Verified badges now show on your listings.")
	}
	writeJSON(w, http.StatusOK, p)
}

func handleProfileError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, profile.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, profile.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "profile not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
