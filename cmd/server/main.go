package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"blobtile/internal/config"
	"blobtile/internal/maps"
	"blobtile/internal/preview"
	"blobtile/internal/server"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	configPath := flag.String("config", "blobtile.yaml", "config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	created, err := server.EnsureHostKey(cfg.HostKeyPath)
	if err != nil {
		log.Fatalf("Host key error: %v", err)
	}
	if created {
		log.Printf("Generated new host key at %s", cfg.HostKeyPath)
	}

	worlds, err := maps.LoadWorlds(cfg.WorldsDir)
	if err != nil || len(worlds) == 0 {
		log.Printf("Could not load worlds from %s (%v), using the default world", cfg.WorldsDir, err)
		dw := maps.DefaultWorld()
		worlds = map[string]*maps.World{dw.Name: dw}
	}
	for _, name := range maps.SortedNames(worlds) {
		w := worlds[name]
		log.Printf("World loaded: %s (%dx%d, %d materials)", name, w.Width(), w.Height(), len(w.Materials))
	}

	logger := log.New(os.Stderr, "", log.Ltime|log.Lshortfile)
	catalog := preview.NewCatalog(worlds, cfg.BlendRules(), cfg.Workers)
	hub := preview.NewHub(catalog, cfg.SamplerMode(), logger)
	if cfg.DefaultWorld != "" {
		if err := hub.SetStartWorld(cfg.DefaultWorld); err != nil {
			log.Printf("Default world: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go hub.Run(ctx)

	sshServer := server.NewSSHServer(cfg.Addr, cfg.HostKeyPath, hub, logger)
	_, port, _ := net.SplitHostPort(cfg.Addr)
	log.Printf("Starting blobtile preview, connect with: ssh -p %s you@localhost", port)

	errCh := make(chan error, 1)
	go func() { errCh <- sshServer.Start() }()
	select {
	case err := <-errCh:
		log.Fatalf("SSH server error: %v", err)
	case <-ctx.Done():
		log.Println("Shutting down")
	}
}
