// Command blued is the Blue desktop-session binary.
//
// Modes:
//
//	blued [--compositor]   run the session core and its API (default)
//	blued --launcher       run the settings-panel client
//
// Any other argument prints usage and exits 1.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/blue-environment/blued/internal/api"
	"github.com/blue-environment/blued/internal/config"
	"github.com/blue-environment/blued/internal/display"
	"github.com/blue-environment/blued/internal/launcher"
	"github.com/blue-environment/blued/internal/logging"
	"github.com/blue-environment/blued/internal/monitoring"
	"github.com/blue-environment/blued/internal/session"
	"github.com/blue-environment/blued/internal/sink"
)

const tickInterval = 50 * time.Millisecond

func main() {
	env := config.LoadEnvOrDefault()

	log, err := logging.New(logging.Config{
		Level:       env.Logging.Level,
		Development: env.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	switch mode(os.Args) {
	case "--launcher":
		runLauncher(env, log)
	case "--compositor":
		runCompositor(env, log)
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [--launcher | --compositor]\n", os.Args[0])
		os.Exit(1)
	}
}

func mode(args []string) string {
	if len(args) < 2 {
		return "--compositor"
	}
	switch args[1] {
	case "--launcher", "--compositor":
		return args[1]
	default:
		return args[1] // rejected by main's switch
	}
}

func runCompositor(env *config.Env, log *logging.Logger) {
	// Config parse failure is fatal before any session state exists.
	cfg, err := config.Load(env.Document.Path)
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	metrics := monitoring.NewMetrics()
	snk := sink.NewExec()

	// The wayland backend replaces this headless display when it
	// attaches; the session core is identical either way.
	disp := display.NewHeadless()

	sess := session.New(cfg, disp, disp, snk, metrics, log)
	srv := api.NewServer(sess, metrics, env, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()
	go sess.Run(ctx, tickInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info("shutting down")
		cancel()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Warn("server shutdown", zap.Error(err))
		}
	case err := <-errChan:
		log.Fatal("session API failed", zap.Error(err))
	}
}

func runLauncher(env *config.Env, log *logging.Logger) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	baseURL := "http://" + env.Server.Listen
	if err := launcher.Run(ctx, baseURL, log); err != nil {
		log.Fatal("launcher failed", zap.Error(err))
	}
}
