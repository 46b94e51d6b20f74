// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package api wires the LawIA pages into an HTTP server.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/lawia/lawia-web/internal/activity"
	"github.com/lawia/lawia-web/internal/api/handlers"
	"github.com/lawia/lawia-web/internal/api/middleware"
	"github.com/lawia/lawia-web/internal/logging"
	"github.com/lawia/lawia-web/internal/views"
	"github.com/lawia/lawia-web/pkg/client"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Host            string
	Port            int
	TLSCert         string // Path to TLS certificate file
	TLSKey          string // Path to TLS private key file
	TLSTailscale    bool   // Fetch certificates from the local tailscaled
	ShutdownTimeout time.Duration
}

// Dependencies holds all dependencies for the handlers.
type Dependencies struct {
	API      *client.Client
	Views    *views.Renderer
	Bus      activity.Bus
	Logger   logging.Logger
	Language string // Default page language
	Settings handlers.Settings
}

// NewRouter creates the router with every page route.
func NewRouter(deps Dependencies) *mux.Router {
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	h := handlers.New(deps.API, deps.Views, deps.Bus, deps.Logger, deps.Settings)

	r := mux.NewRouter()
	r.NotFoundHandler = chain(http.HandlerFunc(h.NotFound), deps, h)
	r.MethodNotAllowedHandler = chain(http.HandlerFunc(h.NotFound), deps, h)

	// Apply global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger, http.HandlerFunc(h.InternalError)))
	r.Use(middleware.Language(deps.Language))

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", deps.Views.Static()))

	r.HandleFunc("/", h.Home).Methods("GET")

	for _, res := range []handlers.Resource{h.Clients(), h.Cases(), h.Documents()} {
		registerResource(r, res)
	}
	r.HandleFunc("/documentos/{id:[0-9]+}/download", h.DownloadDocument).Methods("GET")

	r.HandleFunc("/ia-integrada", h.Assistant).Methods("GET")
	r.HandleFunc("/ia-integrada", h.Ask).Methods("POST")
	r.HandleFunc("/relatorios", h.Reports).Methods("GET")
	r.HandleFunc("/configuracoes", h.Settings).Methods("GET")
	r.HandleFunc("/configuracoes/{action}", h.RunAction).Methods("POST")

	if deps.Bus != nil {
		activityHandler := handlers.NewActivityHandler(deps.Bus)
		r.HandleFunc("/api/activity", activityHandler.History).Methods("GET")
		r.HandleFunc("/ws/activity", activityHandler.WebSocket).Methods("GET")
	}

	return r
}

// registerResource adds the list, detail, form and delete routes of one
// entity. Literal segments are registered before {id} so /new wins.
func registerResource(r *mux.Router, res handlers.Resource) {
	base := res.Base()
	r.HandleFunc(base, res.List).Methods("GET")
	r.HandleFunc(base+"/new", res.New).Methods("GET")
	r.HandleFunc(base+"/new", res.Create).Methods("POST")
	r.HandleFunc(base+"/edit/{id}", res.Edit).Methods("GET")
	r.HandleFunc(base+"/edit/{id}", res.Update).Methods("POST")
	r.HandleFunc(base+"/{id}/delete", res.ConfirmDelete).Methods("GET")
	r.HandleFunc(base+"/{id}/delete", res.Delete).Methods("POST")
	r.HandleFunc(base+"/{id}", res.Detail).Methods("GET")
}

// chain wraps the handlers mux calls outside of any route, which the
// router middleware does not see.
func chain(next http.Handler, deps Dependencies, h *handlers.Handler) http.Handler {
	next = middleware.Language(deps.Language)(next)
	next = middleware.Recovery(deps.Logger, http.HandlerFunc(h.InternalError))(next)
	next = middleware.Logging(deps.Logger)(next)
	return middleware.RequestID(next)
}

// Server represents the HTTP server.
type Server struct {
	router *mux.Router
	cfg    ServerConfig
	log    logging.Logger
	server *http.Server
}

// NewServer creates a new server.
func NewServer(cfg ServerConfig, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	s := &Server{
		router: NewRouter(deps),
		cfg:    cfg,
		log:    deps.Logger.With("component", "server"),
	}
	s.server = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router returns the underlying router.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
}

// ListenAndServe starts the server. It returns nil after Shutdown.
//
// With tls_tailscale the certificate comes from the local tailscaled;
// with tls_cert and tls_key it is read from disk; otherwise plain HTTP.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.Addr()

	var err error
	switch {
	case s.cfg.TLSTailscale:
		s.server.TLSConfig = tailscaleTLS()
		s.log.Info(ctx, "listening", "url", "https://"+addr, "tls", "tailscale")
		err = s.server.ListenAndServeTLS("", "")
	default:
		tlsEnabled, cerr := CheckTLSConfig(s.cfg.TLSCert, s.cfg.TLSKey)
		if cerr != nil {
			return fmt.Errorf("TLS configuration error: %w", cerr)
		}
		if tlsEnabled {
			s.log.Info(ctx, "listening", "url", "https://"+addr, "tls", "files")
			err = s.server.ListenAndServeTLS(expandPath(s.cfg.TLSCert), expandPath(s.cfg.TLSKey))
		} else {
			s.log.Info(ctx, "listening", "url", "http://"+addr)
			err = s.server.ListenAndServe()
		}
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info(ctx, "shutting down")

	// Create a timeout context if none provided
	shutdownCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return s.server.Shutdown(shutdownCtx)
}
