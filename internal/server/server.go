// Package server wires the dependency graph and the route table.
//
// This is the composition root below main: it builds the database, the
// services, and the handlers, and decides which middleware guards which
// routes. The identity middleware runs on every route; the authorization
// gate wraps exactly the identity-requiring group - no handler re-checks
// identity on its own.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/byteserenity/blog/internal/auth"
	"github.com/byteserenity/blog/internal/handler"
	"github.com/byteserenity/blog/internal/mail"
	"github.com/byteserenity/blog/internal/middleware"
	sqliteRepo "github.com/byteserenity/blog/internal/repository/sqlite"
	"github.com/byteserenity/blog/internal/service"
)

// Config holds server configuration, assembled from the environment in main.
type Config struct {
	Port      int
	DBPath    string
	SecretKey string // signs password-reset tokens
	BaseURL   string // public origin used in reset links
}

// Server owns the router, the database connection, and the dependency graph.
// The DB is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency chain:
//
//	sqlite.DB → AuthService/PostService → handlers → routes
//
// The mailer is injected by main, which picks SMTP or log-only delivery
// depending on configuration.
func New(cfg Config, logger *slog.Logger, mailer mail.Mailer) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(mailer); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, services, handlers, and the route table.
//
// Route structure:
//
//	POST /auth/signup                   → register, redirect to login
//	POST /auth/login                    → session cookie, redirect home
//	POST /auth/logout                   → clear session, redirect home
//	POST /auth/forgot-password          → mail a reset link
//	POST /auth/reset-password/{token}   → complete a reset
//	GET  /api/posts[/{id}], /api/tags   → public reads
//	everything inside the gated group   → post/comment/like/profile writes, /api/me
func (s *Server) setupRoutes(mailer mail.Mailer) error {
	passwords := auth.NewPasswordService()
	resetTokens, err := auth.NewResetTokenService(s.config.SecretKey)
	if err != nil {
		return fmt.Errorf("creating reset token service: %w", err)
	}

	authService := service.NewAuthService(
		s.db, s.db, passwords, resetTokens, mailer, s.config.BaseURL, s.logger,
	)
	postService := service.NewPostService(s.db, s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	// Global middleware, in order: request ID, real client IP, panic
	// recovery, request logging, then identity resolution - every route
	// downstream sees its identity already resolved, exactly once.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(auth.WithIdentity(authService, s.logger))

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.Post("/forgot-password", authHandler.HandleForgotPassword)
		r.Post("/reset-password/{token}", authHandler.HandleResetPassword)
	})

	s.router.Route("/api", func(r chi.Router) {
		// Public reads.
		r.Get("/posts", postHandler.HandleList)
		r.Get("/posts/{id}", postHandler.HandleGet)
		r.Get("/tags", postHandler.HandleTags)

		// Identity-requiring operations, all behind the one gate.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireIdentity)

			r.Get("/me", authHandler.HandleMe)
			r.Put("/me/profile", authHandler.HandleUpdateProfile)
			r.Get("/me/posts", postHandler.HandleMyPosts)

			r.Post("/posts", postHandler.HandleCreate)
			r.Put("/posts/{id}", postHandler.HandleUpdate)
			r.Delete("/posts/{id}", postHandler.HandleDelete)
			r.Post("/posts/{id}/comments", postHandler.HandleComment)
			r.Post("/posts/{id}/like", postHandler.HandleLike)
		})
	})

	return nil
}

// sweepSessions deletes expired session rows once an hour until ctx is
// cancelled. Expired sessions are already invisible to lookups; this keeps
// the table from growing without bound.
func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.db.DeleteExpiredSessions(ctx)
			if err != nil {
				s.logger.Error("sweeping expired sessions", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				s.logger.Info("expired sessions removed", slog.Int64("count", n))
			}
		}
	}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go s.sweepSessions(sweepCtx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
