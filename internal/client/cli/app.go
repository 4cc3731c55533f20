package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/timeline/internal/client/client"
	"github.com/dmitrijs2005/timeline/internal/client/config"
)

// Dialer opens a client for the given config.
type Dialer func(cfg *config.Config) (client.Client, error)

func dial(cfg *config.Config) (client.Client, error) {
	return client.NewTimelineClient(cfg.ServerEndpointAddr, cfg.AccessToken)
}

type App struct {
	config     *config.Config
	configPath string
	dial       Dialer
	api        client.Client
	reader     *bufio.Reader
}

func NewApp() *App {
	return &App{dial: dial, reader: bufio.NewReader(os.Stdin)}
}

// client connects on first use.
func (a *App) client() (client.Client, error) {
	if a.api != nil {
		return a.api, nil
	}
	c, err := a.dial(a.config)
	if err != nil {
		return nil, err
	}
	a.api = c
	return c, nil
}

// withTimeout bounds one server call by the configured timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.Timeout)
}

func (a *App) Close() {
	if a.api != nil {
		_ = a.api.Close()
		a.api = nil
	}
}
