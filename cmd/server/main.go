package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ocr-consolidator/internal/config"
	"ocr-consolidator/internal/inference"
	"ocr-consolidator/internal/server"
)

func main() {
	configPath := flag.String("config", "", "optional path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	client, err := inference.NewOllamaClient(cfg.Ollama.Host)
	if err != nil {
		log.Fatalf("ollama client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, server.New(cfg, client)); err != nil {
		log.Fatal(err)
	}
}
