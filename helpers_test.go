package hardlight

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type Health struct {
	HP int
}

type Frozen struct{}

type Hooked struct {
	attached int
	detached int
}

func (h *Hooked) Attach(*Entity) { h.attached++ }
func (h *Hooked) Detach(*Entity) { h.detached++ }

type recorder struct {
	log []string
}

func (r *recorder) add(s string) { r.log = append(r.log, s) }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestManager builds a manager with a recorder resource and the given bundle.
func newTestManager(t *testing.T, bundle *Bundle) (*Manager, *recorder) {
	t.Helper()
	rec := &recorder{}
	b := NewBuilder().Logger(quietLogger()).Resource(rec)
	if bundle != nil {
		b.Bundle(bundle.Build())
	}
	return b.Init(), rec
}

func mustSpawn(t *testing.T, m *Manager, proto string, coords Coordinates, comps ...any) *Entity {
	t.Helper()
	e, err := m.Spawn(proto, coords, comps...)
	require.NoError(t, err)
	return e
}
