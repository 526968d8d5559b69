// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "server-warden/internal/command/core"
	_ "server-warden/internal/command/moderation"
	_ "server-warden/internal/command/quote"
	_ "server-warden/internal/command/roles"
	_ "server-warden/internal/trigger/github"

	"server-warden/internal/command"
	"server-warden/internal/config"
	"server-warden/internal/discord"
	"server-warden/internal/logging"
	"server-warden/internal/metrics"
	"server-warden/internal/responses"
	"server-warden/internal/storage"
	v "server-warden/internal/version"
)

func main() {
	cfg := config.New()

	logFile := logging.Setup(cfg.LogLevel, cfg.LogFile)
	defer logFile.Close()

	log.Printf("[INFO] Starting %v bot...", v.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	resp, err := responses.Load(cfg.ResponsesPath, cfg.CustomResponsesPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[INFO] Loaded %d quotes", len(resp.Names()))

	command.SetModeratorRoles(cfg.ModeratorRoles)

	if cfg.MetricsAddr != "" {
		go metrics.Serve(ctx, cfg.MetricsAddr)
	}

	bot := discord.NewBot(cfg, store, resp)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
		<-errCh
	case err, ok := <-errCh:
		if ok && err != nil {
			log.Println("[ERR] Discord bot error:", err)
			log.Println("[ERR] Restarting process.")
			exitCode = 1
		}
		cancel()
	}

	if exitCode != 0 {
		store.Close()
		logFile.Close()
		os.Exit(exitCode)
	}
	log.Println("[INFO] Discord bot exited cleanly")
}
