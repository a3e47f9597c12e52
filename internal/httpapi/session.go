package httpapi

import (
	"net/http"
	"strings"
	"time"

	"rentora.org/internal/audit"
	"rentora.org/internal/obs"
	"rentora.org/internal/profile"
)

// sessionTokenRequest carries the principal of the session being issued.
type sessionTokenRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (a *API) handleSessionToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req sessionTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	req.Email = strings.TrimSpace(req.Email)
	if req.ID == "" {
		writeError(w, r, http.StatusBadRequest, "principal id is required")
		return
	}
	if req.Email == "" {
		writeError(w, r, http.StatusBadRequest, "principal email is required")
		return
	}

	cred, err := a.minter.Mint(r.Context(), profile.Principal{ID: req.ID, Email: req.Email})
	if err != nil {
		// Role resolution failed against the store. The session issuance
		// fails rather than minting a credential with a guessed role; the
		// authentication engine retries or surfaces the error.
		writeError(w, r, http.StatusServiceUnavailable, "session issuance failed")
		return
	}

	obs.ObserveMint()
	_ = audit.LogEvent(r.Context(), "credential.minted", map[string]any{
		"principal_id": req.ID,
		"expires_at":   cred.ExpiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, sessionTokenResponse{
		Token:     cred.Token,
		ExpiresAt: cred.ExpiresAt,
	})
}
