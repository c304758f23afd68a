package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"austaxcgt/internal/config"
	"austaxcgt/internal/corpaction"
	"austaxcgt/internal/httpapi"
	"austaxcgt/internal/ledger"
	"austaxcgt/internal/logger"
	"austaxcgt/internal/orchestrator"
	"austaxcgt/internal/report"
	"austaxcgt/internal/store"
)

var version = "dev"

func main() {
	var (
		csvPath     = flag.String("f", "", "path to the trade history CSV")
		baseAsset   = flag.String("base", "USD", "base asset gains are tallied in (informational only)")
		allowShorts = flag.Bool("allow-short-sell", false, "treat uncovered sales as short sells instead of failing the run")
		truncate    = flag.Bool("truncate-quantities", false, "render sold quantities as integers in the report")
		dbPath      = flag.String("db", "austaxcgt.db", "path to the SQLite results database")
		serve       = flag.Bool("serve", false, "run the HTTP upload server instead of a one-shot CLI compute")
		addr        = flag.String("addr", "127.0.0.1:8420", "address to bind when -serve is set")
	)
	flag.Parse()

	logger.Banner(version)

	cfg := config.Default()
	cfg.BaseAsset = *baseAsset
	cfg.AllowShortSelling = *allowShorts
	cfg.TruncatePresentedQuantities = *truncate

	if *serve {
		runServer(cfg, *addr)
		return
	}

	if *csvPath == "" {
		logger.Error("CLI", "missing -f <trade_history.csv>")
		os.Exit(1)
	}
	runOnce(cfg, *csvPath, *dbPath)
}

func runOnce(cfg config.Config, csvPath, dbPath string) {
	logger.Section("Load")
	f, err := os.Open(csvPath)
	if err != nil {
		logger.Error("Ledger", fmt.Sprintf("open %s: %v", csvPath, err))
		os.Exit(1)
	}
	defer f.Close()

	l, err := ledger.CSVLoader{}.Load(f)
	if err != nil {
		logger.Error("Ledger", err.Error())
		os.Exit(1)
	}
	logger.Stats("trades loaded", l.Len())
	logger.Stats("symbols", len(l.Symbols()))

	logger.Section("Corporate actions")
	if err := (corpaction.NoopAdjuster{}).Adjust(context.Background(), l); err != nil {
		logger.Error("Corpaction", err.Error())
		os.Exit(1)
	}
	l.Freeze()

	logger.Section("Solve")
	o := orchestrator.New(l, cfg.AllowShortSelling)
	results, err := o.Run()
	if err != nil {
		logger.Error("Orchestrator", err.Error())
		os.Exit(1)
	}
	logger.Success("Orchestrator", fmt.Sprintf("solved %d financial years", len(results)))

	logger.Section("Report")
	writer := report.ConsoleWriter{TruncateQuantities: cfg.TruncatePresentedQuantities}
	if err := writer.Write(os.Stdout, results); err != nil {
		logger.Error("Report", err.Error())
		os.Exit(1)
	}

	s, err := store.Open(filepath.Clean(dbPath))
	if err != nil {
		logger.Warn("Store", fmt.Sprintf("results not persisted: %v", err))
		return
	}
	defer s.Close()

	runID, token, err := s.StartRun(time.Now().Format(time.RFC3339), csvPath, cfg.BaseAsset, cfg.AllowShortSelling)
	if err != nil {
		logger.Warn("Store", fmt.Sprintf("results not persisted: %v", err))
		return
	}
	if err := s.SaveResults(runID, results); err != nil {
		logger.Warn("Store", fmt.Sprintf("results not persisted: %v", err))
		return
	}
	logger.Success("Store", fmt.Sprintf("run %s persisted", token))
}

func runServer(cfg config.Config, addr string) {
	srv := httpapi.New(cfg, ledger.CSVLoader{}, corpaction.NoopAdjuster{})

	httpServer := &http.Server{Addr: addr, Handler: srv.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("Server", "Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server", fmt.Sprintf("Shutdown error: %v", err))
		}
	}()

	logger.Info("Server", fmt.Sprintf("listening on %s", addr))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
	logger.Info("Server", "Stopped")
}
