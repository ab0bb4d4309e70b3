package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/k7t3/horzcv/internal/editor"
	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/platform"
	"github.com/k7t3/horzcv/internal/repositories"
	"github.com/k7t3/horzcv/internal/services"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/k7t3/horzcv/internal/state"
	"github.com/k7t3/horzcv/internal/store"
	"github.com/k7t3/horzcv/internal/tasks"
	"github.com/k7t3/horzcv/internal/token"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	registry   *platform.Registry
	lookup     services.Lookup
	db         *sql.DB
	ownsDB     bool
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Lookup     services.Lookup // Optional; lookup commands fail without it
	DB         *sql.DB         // Optional; opened from Config.Database on first use
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		registry:   platform.Default(opts.Config.Chat.Host, opts.Config.Chat.DarkMode),
		lookup:     opts.Lookup,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the logger used by subsequent commands.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the database when the runner opened it.
func (r *Runner) Close() {
	if r.db != nil && r.ownsDB {
		r.db.Close()
		r.db = nil
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, tuiCommand, tokenCommand, namesCommand, lookupCommand, renderCommand, sessionsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// database opens the configured database on first use.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", r.config.Database.Path, err)
	}
	r.db = db
	r.ownsDB = true
	return db, nil
}

// storage returns the repository backing local and session storage.
func (r *Runner) storage() (*repositories.StorageRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewStorageRepository(db), nil
}

// session returns the storage scope of the named session and marks it as seen.
//
// A blank name uses storage.session.
func (r *Runner) session(name string) (*repositories.ScopedStorage, error) {
	repo, err := r.storage()
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = r.config.Storage.Session
	}
	if err := repositories.NewSessionRepository(r.db).Touch(name); err != nil {
		return nil, err
	}
	return repo.Scope(repositories.SessionScope(name)), nil
}

// names returns the initialized display-name store.
func (r *Runner) names() (*store.DataStore, error) {
	repo, err := r.storage()
	if err != nil {
		return nil, err
	}
	names := store.NewDataStore(repo.Scope(repositories.LocalScope), state.DisplayNameNamespace, r.config.Storage.DisplayNameLimit)
	if err := names.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize display names: %w", err)
	}
	return names, nil
}

// identify parses arg as a stream URL, falling back to a single identity token such as "t,login".
func (r *Runner) identify(arg string) (models.NamedIdentity, error) {
	if arg == "" {
		return models.NamedIdentity{}, fmt.Errorf("%w: stream URL", shared.ErrMissingArgument)
	}

	e := r.registry.NewEditor(editor.New(r.logger))
	entry := models.NewEntry()
	entry.SetURL(arg)
	if err := e.Detect(entry); err == nil {
		return entry.Named()
	}

	n, err := token.DecodeOne(arg)
	if err != nil {
		return models.NamedIdentity{}, fmt.Errorf("%w: %q is neither a stream URL nor a token", shared.ErrInvalidInput, arg)
	}
	return n, nil
}

// streamURL reconstructs the canonical stream URL of identity.
func (r *Runner) streamURL(identity models.Identity) string {
	s, ok := r.registry.Lookup(identity.Service())
	if !ok {
		return ""
	}
	url, err := s.Detector.Construct(identity.ID())
	if err != nil {
		return ""
	}
	return url
}

// resolver builds a batch resolver from the lookup configuration.
func (r *Runner) resolver() (*tasks.Resolver, error) {
	return tasks.NewResolver(r.lookup, r.registry, tasks.ResolverOpts{
		Workers:   r.config.Lookup.Workers,
		RateLimit: r.config.Lookup.RateLimit,
		Logger:    r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
