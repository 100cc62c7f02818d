package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"geeksounds/internal/api"
	"geeksounds/internal/assets"
	"geeksounds/internal/config"
	"geeksounds/internal/events"
	"geeksounds/internal/game/sound"
	"geeksounds/internal/network"
	"geeksounds/internal/services/cluster"
	"geeksounds/internal/session"

	"github.com/nats-io/nats.go"
)

const shutdownTimeout = 10 * time.Second

// app is the wired service. newApp builds it without touching the network;
// run starts the background loops and serves it.
type app struct {
	cfg       *config.Config
	catalog   *assets.DirCatalog
	engine    *session.Engine
	hub       *network.Hub
	publisher events.Publisher
	health    *cluster.HealthAggregator
	mux       *http.ServeMux
}

func newApp(cfg *config.Config, publisher events.Publisher) *app {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	rng := sound.NewPCGSource(cfg.RandomSeed)
	catalog := assets.NewDirCatalog(cfg.SoundsPath, cfg.BonusSoundsPath, cfg.CatalogTTL)
	engine := session.NewEngine(catalog, rng, session.StaticRoster(cfg.Players))
	// jingles have their own source so a fixed seed fixes the sound order
	// no matter how often the front-end fetches one
	library := assets.NewLibrary(assets.Dirs{
		Sounds:      cfg.SoundsPath,
		BonusSounds: cfg.BonusSoundsPath,
		Images:      cfg.ImagesPath,
		WinJingles:  cfg.WinJinglesPath,
		LoseJingles: cfg.LoseJinglesPath,
	}, sound.NewPCGSource(0))

	hub := network.NewHub(nil)
	server := api.NewServer(engine, library, hub, publisher, api.Branding{
		CompanyName:     cfg.CompanyName,
		CompanySubtitle: cfg.CompanySubtitle,
	})
	hub.SetHandler(api.NewScreenHandler(server))

	health := cluster.NewHealthAggregator()
	health.AddCheck("catalog.standard", catalog.ReadableCheck(sound.Standard))
	health.AddCheck("catalog.bonus", catalog.ReadableCheck(sound.Bonus))

	mux := http.NewServeMux()
	server.Register(mux)
	mux.HandleFunc("GET "+api.Prefix+"/ws", hub.ServeWS)
	mux.HandleFunc("GET /health", health.Handler())
	if cfg.StaticPath != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(cfg.StaticPath)))
	}

	return &app{
		cfg:       cfg,
		catalog:   catalog,
		engine:    engine,
		hub:       hub,
		publisher: publisher,
		health:    health,
		mux:       mux,
	}
}

// registerService is swapped in tests that have no Consul agent.
var registerService = cluster.RegisterService

// run serves until ctx is cancelled, then shuts everything down in reverse
// order of startup. Only configuration and listen failures are fatal; a
// missing event bus or Consul agent is logged and the game keeps running.
func run(ctx context.Context, cfg *config.Config) error {
	log.Printf("[Main] Config loaded: ServiceName=%s, Port=%d, Players=%v, Sounds=%s",
		cfg.ServiceName, cfg.ServicePort, cfg.Players, cfg.SoundsPath)

	ln, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddr(), err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		p, conn, err := events.Connect(cfg.NATSURL, cfg.NATSSubjectPrefix, cfg.ServiceName)
		if err != nil {
			log.Printf("[Main] WARN: Game events disabled: %v", err)
		} else {
			publisher, nc = p, conn
			log.Printf("[Main] Publishing game events to %s under %q.", cfg.NATSURL, cfg.NATSSubjectPrefix)
		}
	}
	defer publisher.Close()

	a := newApp(cfg, publisher)
	if nc != nil {
		a.health.AddCheck("nats", func() error {
			if !nc.IsConnected() {
				return fmt.Errorf("nats status %s", nc.Status())
			}
			return nil
		})
	}

	go a.hub.Run()
	defer a.hub.Stop()

	if cfg.WatchAssets {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := a.catalog.Watch(watchCtx); err != nil {
				log.Printf("[Main] WARN: Asset watcher stopped: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Handler:           a.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Main] HTTP and websocket server listening on %s.", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// the listener is bound, so Consul's health check can reach us
	if cfg.ConsulAddr != "" {
		deregister, err := registerService(cluster.Registration{
			ServiceName:   cfg.ServiceName,
			ServicePort:   cfg.ServicePort,
			AdvertiseHost: cfg.AdvertiseHost,
			ConsulAddrs:   cfg.ConsulAddr,
		})
		if err != nil {
			log.Printf("[Main] WARN: Running without Consul registration: %v", err)
		} else {
			defer deregister()
		}
	}

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve %s: %w", ln.Addr(), err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[Main] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
