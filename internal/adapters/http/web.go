// Package web exposes the member directory over a JSON REST API for the
// admin dashboard.
package web

import (
	"net/http"
	"time"

	"revive/internal/adapters/http/middleware"
	memberStore "revive/internal/adapters/storage/member"
	reminderStore "revive/internal/adapters/storage/reminder"
)

// Stores holds all storage dependencies.
type Stores struct {
	MemberStore   memberStore.Store
	ReminderStore reminderStore.Store
}

// Global stores instance (set by NewMux)
var stores *Stores

// timeNow is a variable for testability.
var timeNow = time.Now

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 20

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores) http.Handler {
	stores = s

	mux := http.NewServeMux()
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: RequestLog -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.RateLimit(limiter),
		middleware.SecurityHeaders,
		middleware.RequestLog,
	)
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/members", handleListMembers)
	mux.HandleFunc("POST /api/members", handleCreateMember)
	mux.HandleFunc("PUT /api/members/{id}", handleUpdateMember)
	mux.HandleFunc("DELETE /api/members/{id}", handleDeleteMember)
	mux.HandleFunc("GET /api/members/{id}/photo", handleMemberPhoto)
	mux.HandleFunc("GET /api/dashboard/stats", handleDashboardStats)
	mux.HandleFunc("GET /api/dashboard/expiring", handleDashboardExpiring)
}
