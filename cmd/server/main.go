package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/userhub/auth-service/auth"
	"github.com/userhub/auth-service/internal/config"
	"github.com/userhub/auth-service/internal/postgres"
	"github.com/userhub/auth-service/internal/redisstore"
	"github.com/userhub/auth-service/server"
	"github.com/userhub/auth-service/sessions"
	"github.com/userhub/auth-service/token"
	"github.com/userhub/auth-service/token/keys"
	"github.com/userhub/auth-service/users"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	for {
		if err := run(log); err != nil {
			log.Fatal().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run(log zerolog.Logger) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	ctx := context.Background()
	cfg := config.New()
	displayAppname(cfg.GetAppName())

	pool, err := postgres.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, log); err != nil {
		return err
	}

	var store sessions.Store = postgres.NewSessionStore(pool)
	if addr := cfg.GetRedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		defer client.Close()
		store = redisstore.NewSessionStore(client)
		log.Info().Str("addr", addr).Msg("using redis session store")
	}

	resolver, err := keys.NewResolver(ctx, cfg)
	if err != nil {
		return err
	}
	issuer, err := token.NewIssuer(resolver, store, cfg)
	if err != nil {
		return err
	}
	verifier, err := token.NewVerifier(resolver, store, cfg)
	if err != nil {
		return err
	}

	directory := users.NewDirectory(postgres.NewUserRepo(pool), log)
	authService, err := auth.NewService(directory, store, issuer, log)
	if err != nil {
		return err
	}

	handler, err := server.New(cfg, authService, directory, postgres.NewTenantRepo(pool), verifier, resolver, log)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: cfg.GetPort(), Handler: handler}
	go listenAndServe(httpServer, log)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(httpServer *http.Server, log zerolog.Logger) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
