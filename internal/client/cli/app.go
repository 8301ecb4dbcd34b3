package cli

import (
	"bufio"
	"context"
	"encoding/hex"
	"log"
	"os"
	"time"

	"github.com/ysemenov/coinkeeper/internal/client/biometric"
	"github.com/ysemenov/coinkeeper/internal/client/client"
	"github.com/ysemenov/coinkeeper/internal/client/config"
	"github.com/ysemenov/coinkeeper/internal/client/repositories/prefs"
	"github.com/ysemenov/coinkeeper/internal/client/services"
	"github.com/ysemenov/coinkeeper/internal/client/session"
	"github.com/ysemenov/coinkeeper/internal/logging"

	_ "modernc.org/sqlite"
)

// Mode is the connectivity state shown in the prompt.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// prefAppLockDigest stores the hex-encoded enrollment digest for the
// passphrase backing the app lock.
const prefAppLockDigest = "appLockDigest"

type App struct {
	config        *config.Config
	authService   services.AuthService
	recordService services.RecordService
	session       *session.Controller
	verifier      *biometric.TermVerifier
	prefs         prefs.Repository
	userName      string
	Mode          Mode
	reader        *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerEndpointAddr)

	as := services.NewAuthService(apiClient, db)
	rs := services.NewRecordService(apiClient, db)

	prefsRepo := prefs.NewSQLiteRepository(db)
	logger := logging.NewJSONLogger(os.Stderr)

	verifier := biometric.NewTermVerifier(loadDigest(ctx, prefsRepo), os.Stdout)
	ctrl := session.NewController(prefsRepo, verifier, logger)

	return &App{
		config:        c,
		authService:   as,
		recordService: rs,
		session:       ctrl,
		verifier:      verifier,
		prefs:         prefsRepo,
		reader:        bufio.NewReader(os.Stdin),
	}, nil
}

// loadDigest reads the enrolled passphrase digest; absence or a corrupt value
// means no credential is enrolled.
func loadDigest(ctx context.Context, repo prefs.Repository) []byte {
	value, err := repo.Get(ctx, prefAppLockDigest)
	if err != nil || value == "" {
		return nil
	}
	digest, err := hex.DecodeString(value)
	if err != nil {
		return nil
	}
	return digest
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

// restoreSession resumes the stored session, if any, and feeds the restored
// identity to the lock controller so the gate arms before the first command.
func (a *App) restoreSession(ctx context.Context) {
	userName, err := a.authService.Restore(ctx)
	if err != nil {
		log.Printf("session restore error: %s", err.Error())
		return
	}
	if userName == "" {
		return
	}
	a.userName = userName
	a.setMode(ModeOnline)
	a.session.SetIdentity(ctx, userName)
}

func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)

	a.restoreSession(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.Root(ctx)
}

// StartOnlineStatusWatcher periodically pings the server and flips the
// connectivity mode accordingly. It returns when ctx is cancelled.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
