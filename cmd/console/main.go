package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"event-checkin/internal/client"
	"event-checkin/internal/console"
	"event-checkin/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	var (
		apiURL  = flag.String("api", envOr("CHECKIN_API_URL", "http://localhost:8080"), "base URL of the check-in API")
		token   = flag.String("token", os.Getenv("CHECKIN_API_TOKEN"), "bearer token")
		mode    = flag.String("mode", string(console.ModeUser), "admin or user")
		refresh = flag.Duration("refresh", console.DefaultRefreshInterval, "refresh interval of the active view")
	)
	flag.Parse()
	defer logger.Sync()

	m := console.Mode(*mode)
	if m != console.ModeAdmin && m != console.ModeUser {
		fmt.Fprintf(os.Stderr, "invalid -mode %q: want admin or user\n", *mode)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.NewClient(*apiURL, *token, nil)
	app := console.NewApp(api, os.Stdin, os.Stdout, console.Options{
		Mode:            m,
		RefreshInterval: *refresh,
	})
	if err := app.Run(ctx); err != nil {
		logger.WithComponent("console").Error("console stopped", zap.Error(err))
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
