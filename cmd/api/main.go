package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rentora.org/internal/config"
	"rentora.org/internal/httpapi"
	"rentora.org/internal/mailer"
	"rentora.org/internal/obs"
	"rentora.org/internal/profile"
	"rentora.org/internal/token"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	// A missing signing secret or service token must stop the process here,
	// before it can issue a single credential.
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)

	store, err := profile.Open(cfg.PGDSN)
	if err != nil {
		log.Fatalf("open profile store: %v", err)
	}
	defer store.Close()

	profiles := profile.NewService(store, profile.WithStoreTimeout(cfg.StoreTimeout))

	minter, err := token.NewMinter(cfg.AuthSecret, profiles,
		token.WithTTL(cfg.TokenTTL),
		token.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		log.Fatalf("init credential minter: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: store.DB()}, version, profiles, minter, cfg.ServiceToken)
	api.SetCORSOrigin(cfg.FrontendOrigin)
	api.SetRateLimit(cfg.RateBurst, cfg.RatePerSec)

	if cfg.SMTP.Host != "" {
		sender, err := mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			log.Fatalf("init mailer: %v", err)
		}
		api.SetMailer(sender)
	} else {
		api.SetMailer(mailer.LogSender{})
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting rentora-auth %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
