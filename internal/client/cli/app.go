// Package cli implements the interactive terminal client.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vetsoap/vetsoap-go/internal/biometrix"
	"github.com/vetsoap/vetsoap-go/internal/client/api"
	"github.com/vetsoap/vetsoap-go/internal/client/config"
	"github.com/vetsoap/vetsoap-go/internal/client/recorder"
	"github.com/vetsoap/vetsoap-go/internal/client/repositories/recordings"
	"github.com/vetsoap/vetsoap-go/internal/client/services"
	"github.com/vetsoap/vetsoap-go/internal/client/session"
	"github.com/vetsoap/vetsoap-go/internal/clipx"
	"github.com/vetsoap/vetsoap-go/internal/filex"
	"github.com/vetsoap/vetsoap-go/internal/logging"
	"github.com/vetsoap/vetsoap-go/internal/securestore"
	"github.com/vetsoap/vetsoap-go/internal/signing"
	"github.com/vetsoap/vetsoap-go/internal/urlguard"

	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	log    logging.Logger

	creds     *securestore.CredentialStore
	auth      *session.Auth
	users     *api.Users
	templates *api.Templates

	recordings *services.RecordingService
	poller     *services.StatusPoller
	recorder   *recorder.Recorder

	clip     *clipx.AutoClear
	lock     *session.AppLock
	watchdog *session.InactivityWatchdog
	bus      *session.StateBus
	bio      *biometrix.Manager
	termAuth *biometrix.TerminalAuthenticator

	reader *bufio.Reader
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
		return nil, err
	}

	ks, err := openKeystore(cfg)
	if err != nil {
		return nil, err
	}
	creds := securestore.NewCredentialStore(ks)

	policy := urlguard.PolicyEnforce
	if cfg.DevMode {
		policy = urlguard.PolicyPermissive
	}
	guard := urlguard.New(policy, cfg.APIBaseURL, cfg.AuthBaseURL)

	provider := session.NewHTTPTokenProvider(cfg.AuthBaseURL, cfg.AuthAPIKey, guard)
	auth := session.NewAuth(provider, creds, log)

	apiClient := api.New(api.Options{
		BaseURL:        cfg.APIBaseURL,
		Guard:          guard,
		Signer:         signing.New(),
		Credentials:    creds,
		Refresher:      auth,
		Logger:         log,
		Verbose:        cfg.DevMode,
		RequestTimeout: cfg.RequestTimeout,
		UploadTimeout:  cfg.UploadTimeout,
	})
	apiClient.SetOnUnauthorized(auth.HandleUnauthorized)

	db, err := sql.Open("sqlite", filepath.Join(cfg.DataDir, "cache.db"))
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if err := recordings.EnsureSchema(ctx, db); err != nil {
		return nil, err
	}

	recAPI := api.NewRecordings(apiClient)
	recSvc := services.NewRecordingService(recAPI, recordings.NewSQLiteRepository(db), cfg.MaxUploadBytes, log)

	termAuth := biometrix.NewTerminalAuthenticator()
	bio := biometrix.NewManager(termAuth, creds)

	app := &App{
		config:     cfg,
		log:        log,
		creds:      creds,
		auth:       auth,
		users:      api.NewUsers(apiClient),
		templates:  api.NewTemplates(apiClient),
		recordings: recSvc,
		poller:     services.NewStatusPoller(recAPI, cfg.PollInterval, log),
		recorder: recorder.New(recorder.NewFFmpegCapture("", "", ""),
			recorder.GrantedPermissions{}, filepath.Join(cfg.DataDir, "audio"), log),
		clip:     clipx.NewAutoClear(clipx.NewCmdClipboard(), cfg.ClipboardClearDelay, log),
		lock:     session.NewAppLock(cfg.BackgroundLockThreshold, bio, log),
		bus:      session.NewStateBus(),
		bio:      bio,
		termAuth: termAuth,
		reader:   bufio.NewReader(os.Stdin),
	}

	app.watchdog = session.NewInactivityWatchdog(cfg.InactivityTimeout, func() {
		fmt.Println("\nSession expired after inactivity, signing out.")
		app.auth.HandleUnauthorized()
	}, log)

	return app, nil
}

// openKeystore picks the credential backend: an in-memory store in dev mode,
// the encrypted file store otherwise.
func openKeystore(cfg *config.Config) (securestore.Keystore, error) {
	if cfg.DevMode {
		return securestore.NewMemoryKeystore(), nil
	}

	fmt.Print("Vault passphrase: ")
	pass, err := readSecret()
	if err != nil {
		return nil, err
	}
	return securestore.OpenFileKeystore(securestore.DefaultKeystorePath(cfg.DataDir), pass)
}

func (a *App) Run(ctx context.Context) {
	a.watchdog.Start(a.bus)
	a.lock.Start(a.bus)
	stopSignals := session.StartSignalPublisher(a.bus)
	defer stopSignals()
	defer a.Close()

	a.root(ctx)
}

func (a *App) Close() {
	a.watchdog.Close()
	a.lock.Close()
	a.clip.Stop()
}

func (a *App) isLoggedIn() bool {
	return a.auth.SignedIn(context.Background())
}
