// Command hardlight runs the HardLight gameplay systems with the websocket
// replication relay and, optionally, an embedded dragonfly host.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NiaAranea/HardLight"
	"github.com/NiaAranea/HardLight/deed"
	"github.com/NiaAranea/HardLight/dfhost"
	"github.com/NiaAranea/HardLight/internal/config"
	"github.com/NiaAranea/HardLight/internal/logging"
	"github.com/NiaAranea/HardLight/netsync"
	"github.com/NiaAranea/HardLight/npc"
	"github.com/NiaAranea/HardLight/psionics"
	"github.com/NiaAranea/HardLight/radar"
	"github.com/NiaAranea/HardLight/shuttle"
	"github.com/NiaAranea/HardLight/weapons"
)

func main() {
	configDir := flag.String("config", ".", "directory holding hardlight.toml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.Setup(nil, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	var players *dfhost.Registry
	if cfg.Host.Dragonfly {
		players = dfhost.NewRegistry()
	}

	messages := netsync.NewRegistry()
	messages.RegisterAll(shuttle.Messages())
	relay := netsync.NewRelay(log, messages)

	query := deed.NewNearbyShuttleDeedGridsQuery()
	query.Range = cfg.Query.DeedGridRange

	b := hardlight.NewBuilder()
	// headless servers have no players to look up, so deed polls stay idle
	if players != nil {
		b.Sessions(players)
	}
	m := b.
		Logger(log).
		Network(relay).
		Resource(&query).
		Bundle(relay.Bundle()).
		Bundle(contentBundle()).
		Bundle(weapons.NewBundle()).
		Bundle(radar.NewBundle(radar.Settings{
			Lifetime:  cfg.Radar.HitscanLifetime,
			MaxLength: cfg.Radar.HitscanMaxLength,
			Thickness: cfg.Radar.HitscanThickness,
		}).Build()).
		Bundle(deed.NewBundle(deed.Settings{
			CheckInterval:     cfg.Deed.CheckInterval,
			MaxInactiveChecks: cfg.Deed.MaxInactiveChecks,
		}).Build()).
		Bundle(npc.NewBundle(npc.Settings{
			LeadingAccuracy: cfg.Targeting.LeadingAccuracy,
			WeaponTag:       cfg.Targeting.WeaponTag,
			ForwardDistance: cfg.Targeting.ForwardDistance,
		})).
		Bundle(shuttle.NewBundle().Build()).
		Bundle(psionics.NewBundle(psionics.DefaultZapSettings())).
		Init()

	mux := http.NewServeMux()
	mux.Handle(cfg.Relay.Path, relay)
	srv := &http.Server{
		Addr:              cfg.Relay.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 3)
	go relay.Run(ctx)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("relay server: %w", err)
		}
	}()
	if players != nil {
		go func() {
			if err := dfhost.Serve(ctx, log, players); err != nil {
				errc <- err
			}
		}()
	}
	go func() {
		errc <- m.Run(ctx, cfg.TickRate)
	}()

	// SIGHUP ends the round.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	log.Info("server started", "relay", cfg.Relay.Listen+cfg.Relay.Path, "dragonfly", cfg.Host.Dragonfly)

	var err error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-hup:
			log.Info("round restart requested")
			m.Post(func(m *hardlight.Manager) {
				m.Broadcast(hardlight.RoundRestartCleanupEvent{})
			})
		case err = <-errc:
			break loop
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Warn("relay shutdown failed", "error", serr)
	}
	return err
}
