// Package cli implements the logbook command line client.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/viper"

	"pilot_logbook/internal/cache"
	"pilot_logbook/internal/client"
	"pilot_logbook/internal/pipeline"
)

// App carries what every command needs.
type App struct {
	v   *viper.Viper
	cfg Config
	api *client.Client
	out io.Writer
}

func (a *App) setup() error {
	cfg, err := loadConfig(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.api = client.New(cfg.APIURL, client.WithToken(cfg.Token))
	return nil
}

// openPipeline opens the on-disk cache and the read pipeline over it.
// The returned func releases both.
func (a *App) openPipeline() (*pipeline.Pipeline, func(), error) {
	store, err := cache.OpenSQLite(a.cfg.CachePath, a.cfg.CacheQuota)
	if err != nil {
		return nil, nil, err
	}
	p := pipeline.New(a.api, store)
	return p, func() {
		p.Wait()
		p.Close()
		store.Close()
	}, nil
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) clearCache(ctx context.Context) error {
	store, err := cache.OpenSQLite(a.cfg.CachePath, 0)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Clear(ctx)
}
