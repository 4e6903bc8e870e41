package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"uniquehttpd/internal/config"
	"uniquehttpd/internal/console"
	"uniquehttpd/internal/stats"
	"uniquehttpd/internal/version"

	"golang.org/x/sync/errgroup"
)

type App interface {
	Start(ctx context.Context) error
	Stats() stats.Stats
}

type Bootstrap struct {
	Config     config.Config
	App        App
	SignalChan chan os.Signal
}

func New(conf config.Config, app App) *Bootstrap {
	return &Bootstrap{
		Config:     conf,
		App:        app,
		SignalChan: make(chan os.Signal, 1),
	}
}

// Run serves until SIGINT or SIGTERM arrives or the server fails. Live
// sessions are not waited for; each one closes on its own timeouts.
func (b *Bootstrap) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signal.Notify(b.SignalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(b.SignalChan)

	console.Startup("Starting %s", version.GetVersion())
	console.Startup("Serving files from %s", b.Config.RootDir())
	if b.Config.Debug() {
		console.Startup("Debug mode enabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		if err := b.App.Start(gctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		select {
		case sig := <-b.SignalChan:
			console.Closing("Received signal %s, shutting down", sig)
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	err := g.Wait()
	st := b.App.Stats()
	console.Closing("Served %d request(s) over %d connection(s)", st.Requests(), st.Connections())
	return err
}
