package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"terrafield.ai/internal/levels"
	persistlog "terrafield.ai/internal/persistence/log"
	"terrafield.ai/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		levelsPath = flag.String("levels", "./configs/levels.yaml", "level parameter records (empty for built-in defaults)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		disableLog = flag.Bool("disable_genlog", false, "disable the compressed per-generation log")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	path := *levelsPath
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			logger.Printf("levels config not found (%s); using defaults", path)
			path = ""
		}
	}
	cfg, err := levels.Load(path)
	if err != nil {
		logger.Fatalf("load levels: %v", err)
	}
	logger.Printf("loaded %d level records (default %q)", len(cfg.Levels), cfg.DefaultLevelID)

	var gens *persistlog.GenerationLogger
	if !*disableLog {
		gens = persistlog.NewGenerationLogger(*dataDir)
		defer gens.Close()
	}

	srv := ws.NewServer(cfg, logger, gens)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", srv.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpSrv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Printf("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
}
