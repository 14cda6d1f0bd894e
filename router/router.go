// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/safeballot/safeballot/cliparse"
	"github.com/safeballot/safeballot/db"
	"github.com/safeballot/safeballot/handlers"
	"github.com/safeballot/safeballot/middleware"
	"github.com/safeballot/safeballot/store"
	"github.com/safeballot/safeballot/voting"
)

func NewRouter(conn *sql.DB, cfg cliparse.Config) (*http.ServeMux, error) {
	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	service := voting.NewService(store.New(conn, dialect), voting.Options{
		AutoVerifyVoters:    cfg.AutoVerifyVoters,
		AllowRevote:         cfg.AllowRevote,
		RequireActiveBallot: cfg.RequireActiveBallot,
		IPHashSalt:          cfg.IPHashSalt,
		Registerer:          reg,
	})

	mux := http.NewServeMux()

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(service)
	ballotHandler := handlers.NewBallotHandler(service)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// Ballot catalog (read-only)
	mux.HandleFunc("GET /api/ballots/{id}", middleware.WithLogging(ballotHandler.GetBallot))

	// Vote submission, optionally on behalf of an authenticated caller
	mux.HandleFunc("POST /api/ballots/{id}/vote",
		middleware.WithLogging(middleware.Authenticate(cfg.JWTSecret, votingHandler.SubmitVote)))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, Banner)
	})

	return mux, nil
}

// Banner is served on GET /
const Banner = "safeballot API v1"
