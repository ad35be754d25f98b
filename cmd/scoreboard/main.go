package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"tether/internal/leaderboard"
	"tether/internal/scoreboard"
	"tether/internal/settings"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env loaded: %v", err)
	}

	file, err := settings.Load(os.Getenv("SETTINGS"))
	if err != nil {
		log.Printf("%v; using defaults", err)
		file = settings.Default()
	}
	relays := splitList(os.Getenv("RELAYS"))
	if len(relays) == 0 {
		relays = file.Leaderboard.Relays
	}
	if len(relays) == 0 {
		log.Fatal("no relays configured; set RELAYS or leaderboard.relays")
	}
	topN := envInt("TOP_N", file.Leaderboard.Size)
	refresh := envDuration("REFRESH", time.Minute)

	svc := leaderboard.NewService(leaderboard.Config{
		Relays:  relays,
		TopN:    topN,
		Timeout: refresh,
	}, nil)
	mirror := scoreboard.NewMirror(svc, refresh, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go mirror.Run(ctx)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	mirror.RegisterRoutes(r)

	addr := ":" + strings.TrimSpace(os.Getenv("PORT"))
	if addr == ":" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdown)
	}()

	log.Printf("mirroring %d relays (top %d, every %s)", len(relays), topN, refresh)
	log.Printf("listening on http://localhost%s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("ignoring %s=%q", key, raw)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("ignoring %s=%q", key, raw)
		return def
	}
	return d
}
