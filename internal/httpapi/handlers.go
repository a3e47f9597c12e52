package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"rentora.org/internal/mailer"
	"rentora.org/internal/obs"
	"rentora.org/internal/profile"
	"rentora.org/internal/token"
)

// ReadyProbe pings the backing store for readiness checks.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP surface called by the external authentication engine.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	profiles *profile.Service
	minter   *token.Minter
	mail     mailer.Sender

	serviceToken string
	corsOrigin   string
	rateBurst    int
	ratePerSec   int
}

// New wires the routes. The service token protects every /v1 endpoint except
// /v1/info; health and metrics stay public.
func New(rp ReadyProbe, version string, profiles *profile.Service, minter *token.Minter, serviceToken string) *API {
	a := &API{
		mux:          http.NewServeMux(),
		readyProbe:   rp,
		version:      version,
		profiles:     profiles,
		minter:       minter,
		serviceToken: serviceToken,
		rateBurst:    50,
		ratePerSec:   25,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/hooks/principal-created", a.handlePrincipalCreated)
	a.mux.HandleFunc("/v1/session/token", a.handleSessionToken)
	a.mux.HandleFunc("/v1/profiles/", a.handleProfiles)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// SetCORSOrigin allows the given SPA origin on browser requests.
func (a *API) SetCORSOrigin(origin string) { a.corsOrigin = origin }

// SetMailer enables outbound notification email.
func (a *API) SetMailer(s mailer.Sender) { a.mail = s }

// SetRateLimit overrides the default per-IP limits.
func (a *API) SetRateLimit(burst, perSec int) {
	if burst > 0 {
		a.rateBurst = burst
	}
	if perSec > 0 {
		a.ratePerSec = perSec
	}
}

// Handler returns the fully wrapped handler chain for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withServiceAuth(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, 1<<20)
	h = RequestID(h)
	h = Logging(h)
	h = CORS(h, a.corsOrigin)
	h = SecurityHeaders(h)
	return obs.Instrument(h)
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "rentora-auth",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "rentora-auth",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
