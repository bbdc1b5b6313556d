// Package tinyhttp is a minimal HTTP/1.1 server over plain TCP. It serves a document root
// with directory listings and conditional GETs, redirects and a couple of account
// endpoints, and comes along with a blocking client (see the client package).
package tinyhttp

import (
	"fmt"
	"os"
	"sync"

	"github.com/indigo-web/tinyhttp/accounts"
	"github.com/indigo-web/tinyhttp/config"
	"github.com/indigo-web/tinyhttp/internal/address"
	"github.com/indigo-web/tinyhttp/internal/server/http"
	"github.com/indigo-web/tinyhttp/router"
	"github.com/indigo-web/tinyhttp/router/inbuilt"
	"github.com/indigo-web/tinyhttp/transport"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// App is the server application, possibly listening on several ports at once.
type App struct {
	addr   address.Address
	ports  []uint16
	cfg    *config.Config
	logger zerolog.Logger
	hooks  hooks

	mu    sync.Mutex
	sup   *transport.Supervisor
	addrs []string
}

// New returns a new App instance. Panics if the address can't be parsed.
func New(addr string) *App {
	appAddr, err := address.Parse(addr)
	if err != nil {
		panic(fmt.Errorf("tinyhttp: bad addr: %v", err))
	}

	return &App{
		addr: appAddr,
		cfg:  config.Default(),
		logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().
			Timestamp().
			Logger(),
	}
}

// Tune replaces default config.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Logger replaces the default logger, writing human-readable lines into stderr.
func (a *App) Logger(logger zerolog.Logger) *App {
	a.logger = logger
	return a
}

// NotifyOnStart calls the callback at the moment, when all the listeners are bound. The
// callback must not call Stop.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback at the moment, when all the listeners are down and all
// the clients are disconnected.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Listen adds one more port to listen at, on the same host.
func (a *App) Listen(port uint16) *App {
	a.ports = append(a.ports, port)
	return a
}

// Serve starts the application and blocks until it's stopped. If nil is passed instead
// of a router, the default one is used, serving the configured document root.
func (a *App) Serve(r router.Router) error {
	if r == nil {
		var err error
		if r, err = a.defaultRouter(); err != nil {
			return err
		}
	}

	server := http.NewServer(r, a.cfg, a.logger)
	sup := transport.NewSupervisor()
	addrs := make([]string, 0, len(a.ports)+1)

	for _, port := range append([]uint16{a.addr.Port}, a.ports...) {
		tcp := transport.NewTCP()
		addr := a.addr.SetPort(port).String()
		if err := sup.Add(addr, tcp, server.Run); err != nil {
			return errors.Wrapf(err, "listen %s", addr)
		}

		addrs = append(addrs, tcp.Addr())
		a.logger.Info().
			Str("addr", tcp.Addr()).
			Int("workers", a.cfg.NET.Workers).
			Msg("listening")
	}

	a.mu.Lock()
	a.sup, a.addrs = sup, addrs
	a.mu.Unlock()

	callIfNotNil(a.hooks.OnStart)
	err := sup.Run(a.cfg)
	callIfNotNil(a.hooks.OnStop)

	if err != nil {
		a.logger.Error().Err(err).Msg("stopped")
	} else {
		a.logger.Info().Msg("stopped")
	}

	return err
}

// Addrs returns the addresses the application is bound to. Useful when port 0 was
// requested. Empty until Serve has bound every listener.
func (a *App) Addrs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.addrs
}

// Stop stops accepting new connections, closes the served ones and waits until Serve
// returns. Does nothing if the application isn't running.
func (a *App) Stop() {
	a.mu.Lock()
	sup := a.sup
	a.mu.Unlock()

	if sup != nil {
		sup.Stop()
	}
}

func (a *App) defaultRouter() (router.Router, error) {
	return inbuilt.New(os.DirFS(a.cfg.Server.Root), a.cfg).
		Welcome().
		Static("/document").
		Permanent("/old-page", "/").
		Redirect("/temp-redirect", "/").
		Accounts(accounts.NewMemory()).
		Build()
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
