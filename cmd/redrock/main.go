// Command redrock runs a Red Rock Territory frontier settlement
// session and serves it over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/talgya/redrock/internal/api"
	"github.com/talgya/redrock/internal/engine"
	"github.com/talgya/redrock/internal/persistence"
	"github.com/talgya/redrock/internal/state"
)

func main() {
	setupLogging()

	seed := envInt64("REDROCK_SEED", 0)
	addr := envString("REDROCK_ADDR", ":8080")
	dataDir := envString("REDROCK_DATA_DIR", "")
	dbPath := envString("REDROCK_DB", "")
	speedMS := envInt64("REDROCK_SPEED_MS", 1000)
	adminToken := envString("REDROCK_ADMIN_TOKEN", "")

	slog.Info("Red Rock Territory, 1849")

	// ── Archive database (optional) ──────────────────────────────────
	var db *persistence.DB
	if dbPath != "" {
		os.MkdirAll(filepath.Dir(dbPath), 0755)
		var err error
		db, err = persistence.Open(dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err, "path", dbPath)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("archive opened", "path", dbPath)
	} else {
		slog.Warn("REDROCK_DB not set — export archive disabled")
	}

	// ── Session ──────────────────────────────────────────────────────
	eng := engine.New(engine.Config{
		Seed:    seed,
		DataDir: dataDir,
	})
	eng.SetSpeed(time.Duration(speedMS) * time.Millisecond)

	// Wake the main goroutine when the year ends or the last settler dies.
	finished := make(chan struct{})
	var finishOnce sync.Once
	eng.Subscribe(func(g *state.Game) {
		if g.Day > engine.MaxDays || g.Population.Total == 0 {
			finishOnce.Do(func() { close(finished) })
		}
	})

	// ── HTTP API ─────────────────────────────────────────────────────
	if adminToken == "" {
		slog.Warn("REDROCK_ADMIN_TOKEN not set — admin POST endpoints will be disabled")
	}
	server := &api.Server{
		Eng:      eng,
		DB:       db,
		Addr:     addr,
		AdminKey: adminToken,
	}
	server.Start()

	// ── Run ──────────────────────────────────────────────────────────
	eng.Start()

	fmt.Printf("\nThe wagon train has arrived: %d settlers at Red Rock.\n",
		eng.Game().Population.Total)
	fmt.Printf("API: http://localhost%s/api/v1/state\n", displayAddr(addr))
	fmt.Println("Simulating... (Ctrl+C to stop)")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received signal, shutting down", "signal", sig)
	case <-finished:
		slog.Info("session finished", "day", eng.Game().Day)
	}
	eng.Stop()

	// Archive the final chronicle so the year is written down.
	if db != nil {
		if _, err := db.SaveExport(eng.ExportChronicle()); err != nil {
			slog.Error("final archive failed", "error", err)
		}
	}
}

func setupLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(envString("REDROCK_LOG_LEVEL", "info")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("invalid numeric env value, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

// displayAddr renders a bind address for the startup banner.
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return addr
	}
	if i := strings.LastIndexByte(addr, ':'); i >= 0 {
		return addr[i:]
	}
	return ":" + addr
}
