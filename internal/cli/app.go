package cli

import (
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/authgate/internal/config"
	"github.com/dmitrijs2005/authgate/internal/cryptox"
	"github.com/dmitrijs2005/authgate/internal/display"
	"github.com/dmitrijs2005/authgate/internal/gate"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/prompt"
	"github.com/dmitrijs2005/authgate/internal/store"
)

// App owns the resources of one program run.
type App struct {
	config *config.Config
	store  store.Store
	gate   *gate.Gate
	log    logging.Logger
}

// Streams are the process I/O handles. Out is the interactive screen, Err
// receives log records.
type Streams struct {
	In  *os.File
	Out io.Writer
	Err io.Writer
}

func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// NewApp opens the configured store and assembles the gate.
func NewApp(ctx context.Context, c *config.Config, streams Streams) (*App, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	log := logging.New(streams.Err, level)

	hasher, err := cryptox.NewHasher(c.Hasher, c.HashSalt)
	if err != nil {
		return nil, err
	}

	st, err := store.New(ctx, c)
	if err != nil {
		log.Error(ctx, "error opening credential store", "storage", c.Storage, "error", err)
		return nil, err
	}

	input := prompt.NewTerminalFrom(streams.In, streams.Out)
	screen := display.NewScreen(streams.Out, c.Animate, c.FrameDelay)

	g := gate.New(st, hasher, input, screen, log, gate.Options{
		MaxAttempts:       c.MaxAttempts,
		MinPasswordLength: c.MinPasswordLength,
		FoldPasswordCase:  c.FoldPasswordCase,
	})

	return &App{config: c, store: st, gate: g, log: log}, nil
}

// Run executes the credential gate once and releases the store.
func (a *App) Run(ctx context.Context) (gate.Outcome, error) {
	defer func() {
		if err := a.store.Close(); err != nil {
			a.log.Warn(ctx, "error closing credential store", "error", err)
		}
	}()
	a.log.Debug(ctx, "starting", "storage", a.config.Storage, "hasher", a.config.Hasher)
	return a.gate.Run(ctx)
}
