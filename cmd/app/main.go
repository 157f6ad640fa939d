package main

import (
	"flag"
	"log"
	"os"

	"github.com/kundanmehta01/CryptoHub/internal/di"
	"github.com/kundanmehta01/CryptoHub/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s storage=%s symbols=%v", cfg.Environment, cfg.Storage.Type, cfg.Feed.Symbols)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
