package main

import (
	"log"

	_ "server-warden/internal/command/core"
	_ "server-warden/internal/command/moderation"
	_ "server-warden/internal/command/quote"
	_ "server-warden/internal/command/roles"

	"server-warden/internal/config"
	"server-warden/internal/docs"
	"server-warden/pkg/cmd"
)

func main() {
	prefix, err := config.LoadPrefix()
	if err != nil {
		log.Fatalf("[ERR] %v", err)
	}
	if err := docs.UpdateReadme(cmd.DefaultRegistry, config.CategoryWeights, prefix, "README.md.tmpl", "README.md"); err != nil {
		log.Fatalf("[ERR] Failed to update README: %v", err)
	}
	log.Println("[DONE] README.md updated")
}
