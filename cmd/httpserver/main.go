package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"microblog"
)

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "microblog.yaml", "path to the yaml config")
	memory := flag.Bool("memory", false, "keep posts in memory instead of the JSON file")
	flag.Parse()

	cfg, err := microblog.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	var storage microblog.Storage
	if *memory {
		storage = microblog.NewInMemoryStorage()
	} else {
		fileStorage := microblog.NewJSONFileStorage(cfg.StorePath)
		if err := fileStorage.Init(); err != nil {
			return err
		}
		storage = fileStorage
	}

	server := microblog.NewServer(storage)
	server.SetLogger(logger)
	if err := server.SetAllowedOrigin(cfg.AllowedOrigin); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr, "store", cfg.StorePath, "memory", *memory)
		errc <- srv.ListenAndServe()
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-exit:
		logger.Info("signal caught", "sig", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
