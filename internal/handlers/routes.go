package handlers

import (
	"net/http"
	"time"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	session := SessionHandler{Vault: deps.Vault, Progress: deps.Progress, Clients: deps.Clients, Limiter: deps.Limiter, Lifetime: deps.SessionLifetime}
	progress := ProgressHandler{Progress: deps.Progress}
	threads := ThreadHandler{Threads: deps.Threads, Resolver: deps.Resolver, Clients: deps.Clients}
	user := UserHandler{Clients: deps.Clients}

	guard := sessionGuard(deps.Vault)

	mux.HandleFunc("/api/health", health.Handle)
	mux.HandleFunc("/api/session/create", session.Create)
	mux.HandleFunc("/api/session/validate", session.Validate)
	mux.HandleFunc("/api/session/destroy", session.Destroy)
	mux.Handle("/api/progress", guard(http.HandlerFunc(progress.Get)))
	mux.Handle("/api/progress/reset", guard(http.HandlerFunc(progress.Reset)))
	mux.Handle("/api/thread/start", guard(http.HandlerFunc(threads.Start)))
	mux.Handle("/api/thread/continue", guard(http.HandlerFunc(threads.Continue)))
	mux.Handle("/api/solution/post", guard(http.HandlerFunc(threads.Post)))
	mux.Handle("/api/tweet/preview", guard(http.HandlerFunc(threads.Preview)))
	mux.Handle("/api/user/info", guard(http.HandlerFunc(user.Info)))

	mux.HandleFunc("/", notFound)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Vault           SessionVault
	Progress        ProgressStore
	Threads         ThreadService
	Resolver        ThreadResolver
	Clients         ClientFactory
	Limiter         RateLimiter
	SessionLifetime time.Duration
}

// notFound keeps unknown paths on the JSON surface instead of the default
// plain-text 404 page.
func notFound(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusNotFound, envelope{
		Success:   false,
		ErrorCode: "NOT_FOUND",
		Message:   "The requested resource was not found.",
	})
}
