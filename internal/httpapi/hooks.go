package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"rentora.org/internal/profile"
)

// principalCreatedRequest is the payload of the authentication engine's
// "principal created" lifecycle event. Delivery is at-least-once; the
// handler is idempotent.
type principalCreatedRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (a *API) handlePrincipalCreated(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req principalCreatedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, created, err := a.profiles.EnsureProfile(r.Context(), profile.Principal{
		ID:    req.ID,
		Email: req.Email,
		Name:  req.Name,
	})
	switch {
	case err == nil:
	case errors.Is(err, profile.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	default:
		// Store failure: signal retryability to the delivery mechanism.
		w.Header().Set("Retry-After", "1")
		writeError(w, r, http.StatusServiceUnavailable, "profile provisioning failed")
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
		a.notify(p.Email, "Welcome to Rentora",
			"Your account is ready. Sign in to browse listings or publish your own.")
	}
	writeJSON(w, code, p)
}

// notify sends a best-effort email off the request path. Delivery failures
// are logged by the sender and never affect the response.
func (a *API) notify(to, subject, body string) {
	if a.mail == nil || to == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.mail.Send(ctx, to, subject, body)
	}()
}
