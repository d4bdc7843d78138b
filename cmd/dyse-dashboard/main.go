package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dysebot/dashboard/internal"
	"github.com/dysebot/dashboard/internal/config"
	"github.com/dysebot/dashboard/internal/log"
)

var BuildVersion = "dev"

func main() {
	conf := flag.String("config", "", "path to config file (required)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(BuildVersion)
		return
	}

	if *conf == "" {
		fmt.Fprintf(os.Stderr, "Error: -config flag is required\n")
		os.Exit(1)
	}

	cfg, err := config.Load(*conf)
	if err != nil {
		log.LogError("Failed to load config: %v", err)
		os.Exit(1)
	}

	log.LogInfoWithFields("main", "Starting dyse-dashboard", map[string]any{
		"version": BuildVersion,
		"config":  *conf,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dashboard, err := internal.NewDashboard(ctx, cfg)
	if err != nil {
		log.LogError("Failed to create dashboard: %v", err)
		os.Exit(1)
	}

	if err := dashboard.Run(ctx); err != nil {
		log.LogError("Server error: %v", err)
		os.Exit(1)
	}
}
