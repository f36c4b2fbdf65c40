package dfhost

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/df-mc/dragonfly/server"
)

// Serve runs an embedded dragonfly server with the default configuration,
// tracking every player that joins in reg, until ctx is cancelled.
func Serve(ctx context.Context, log *slog.Logger, reg *Registry) error {
	conf, err := server.DefaultConfig().Config(log)
	if err != nil {
		return fmt.Errorf("dragonfly config: %w", err)
	}

	srv := conf.New()
	srv.Listen()

	go func() {
		<-ctx.Done()
		if err := srv.Close(); err != nil {
			log.Warn("dragonfly close failed", "error", err)
		}
	}()

	for p := range srv.Accept() {
		reg.Track(p)
		p.Handle(reg.Handler())
		log.Debug("player joined", "sawmill", "dfhost", "name", p.Name(), "uuid", p.UUID())
	}
	return nil
}
