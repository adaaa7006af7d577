package main

import (
	"log"
	"net/http"

	"etax-gateway/src/api"
	"etax-gateway/src/cache"
	"etax-gateway/src/config"
	"etax-gateway/src/directory"
	"etax-gateway/src/linking"
	"etax-gateway/src/taxcore"
)

func main() {
	cfg := config.Load()

	cache.InitCache()

	core := taxcore.NewClient(cfg.UpstreamAPIURL)
	provider := directory.NewProvider(core)
	sessions := linking.NewStore(0)
	coordinator := linking.NewCoordinator(core, provider)

	// Router
	router := api.NewRouter(core, provider, sessions, coordinator, cfg)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
