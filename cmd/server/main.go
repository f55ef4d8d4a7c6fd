package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rjweb/boilerplate/internal/config"
	"github.com/rjweb/boilerplate/internal/events"
	"github.com/rjweb/boilerplate/internal/handlers"
	"github.com/rjweb/boilerplate/internal/logging"
	mwauth "github.com/rjweb/boilerplate/internal/middleware/auth"
	"github.com/rjweb/boilerplate/internal/repo"
	"github.com/rjweb/boilerplate/internal/service"
	"github.com/rjweb/boilerplate/internal/session"
	httpserver "github.com/rjweb/boilerplate/internal/transport/http"
	loggingmw "github.com/rjweb/boilerplate/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	codec, err := session.NewCodec(cfg.SessionSecret, cfg.Production())
	if err != nil {
		log.Fatalf("session codec: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	userRepo := repo.NewUserRepo(db)
	authSvc := &service.AuthService{Repo: userRepo, Codec: codec}

	bootCtx := logging.IntoContext(context.Background(), logger)
	if err := authSvc.EnsureMasterUser(bootCtx, cfg.MasterEmail, cfg.MasterPassword); err != nil {
		log.Fatalf("master user bootstrap: %v", err)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:      &handlers.AuthHandler{Svc: authSvc, Producer: producer},
		ProfileHandler:   &handlers.ProfileHandler{Repo: userRepo},
		DashboardHandler: &handlers.DashboardHandler{Repo: userRepo},
		Guard:            &mwauth.Guard{Svc: authSvc},
		SecureCookies:    cfg.Production(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
