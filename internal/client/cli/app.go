package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/securevault/internal/client/client"
	"github.com/dmitrijs2005/securevault/internal/client/config"
	pb "github.com/dmitrijs2005/securevault/internal/proto"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	roleUser  = "user"
	roleAdmin = "admin"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer

	session pb.SessionInfo

	mu   sync.Mutex
	Mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewVaultClientService(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

// Run opens a guest session and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	if s, err := a.client.BeginSession(ctx); err != nil {
		log.Printf("Server unavailable: %s", err.Error())
		a.setMode(ModeOffline)
	} else {
		a.session = *s
		a.setMode(ModeOnline)
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Identity != ""
}

func (a *App) isAdmin() bool {
	return a.isLoggedIn() && a.session.Role == roleAdmin
}

// refreshSession reloads the session view after the server replaced the
// token, for example when a login attempt regenerated the CAPTCHA.
func (a *App) refreshSession(ctx context.Context) {
	s, err := a.client.Whoami(ctx)
	if err != nil {
		return
	}
	a.session = *s
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.client.Ping(ctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
