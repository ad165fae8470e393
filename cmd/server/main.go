// Package main is the entry point for the blog server. It reads
// configuration from the environment, builds the logger and the mailer, and
// hands everything to internal/server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/byteserenity/blog/internal/mail"
	"github.com/byteserenity/blog/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/blog.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// SECRET_KEY signs password-reset tokens. It must be a long random
	// string: SECRET_KEY=$(openssl rand -hex 32). The server refuses to
	// start without one.
	secretKey := os.Getenv("SECRET_KEY")
	if secretKey == "" {
		logger.Error("SECRET_KEY not set - refusing to start")
		os.Exit(1)
	}

	// BASE_URL is the public origin used when building reset links.
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", port)
	}

	// Mail transport is optional: without MAIL_HOST the server still runs,
	// reset links just go to the log instead of over SMTP.
	var mailer mail.Mailer
	if host := os.Getenv("MAIL_HOST"); host != "" {
		mailPort := os.Getenv("MAIL_PORT")
		if mailPort == "" {
			mailPort = "587"
		}
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     host,
			Port:     mailPort,
			Username: os.Getenv("MAIL_USERNAME"),
			Password: os.Getenv("MAIL_PASSWORD"),
			From:     os.Getenv("MAIL_USERNAME"),
		}, logger)
	} else {
		logger.Warn("MAIL_HOST not set - reset mails will be logged, not sent")
		mailer = mail.NewLogMailer(logger)
	}

	cfg := server.Config{
		Port:      port,
		DBPath:    dbPath,
		SecretKey: secretKey,
		BaseURL:   baseURL,
	}

	srv, err := server.New(cfg, logger, mailer)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
