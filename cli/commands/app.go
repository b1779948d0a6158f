// Package commands implements the chatjpt command tree using Cobra.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/petal-labs/chatjpt"
	"github.com/petal-labs/chatjpt/cli/config"
	"github.com/petal-labs/chatjpt/cli/keystore"
)

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// ClientFactory creates an API client.
type ClientFactory func(apiKey string, opts ...chatjpt.Option) (*chatjpt.Client, error)

// KeystoreFactory opens a keystore backend by name.
type KeystoreFactory func(backend string) (keystore.Keystore, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig  ConfigLoader
	newClient   ClientFactory
	newKeystore KeystoreFactory
	getenv      func(string) string
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer

	cfgFile    string
	model      string
	jsonOutput bool
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithClientFactory injects an API client factory.
func WithClientFactory(factory ClientFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newClient = factory
		}
	}
}

// WithKeystoreFactory injects a keystore factory dependency.
func WithKeystoreFactory(factory KeystoreFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newKeystore = factory
		}
	}
}

// WithEnv replaces os.Getenv for environment lookups.
func WithEnv(getenv func(string) string) AppOption {
	return func(a *App) {
		if getenv != nil {
			a.getenv = getenv
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig:  config.LoadConfig,
		newClient:   chatjpt.New,
		newKeystore: keystore.NewKeystore,
		getenv:      os.Getenv,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		logger:      slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "chatjpt",
		Short: "chatjpt - command-line client for the OpenAI API",
		Long: `chatjpt is a command-line client for the OpenAI API.

Use chatjpt to chat with models, create embeddings and moderations, work with
audio, images, files and fine-tuning jobs, and manage API keys.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.chatjpt/config.yaml)")
	root.PersistentFlags().StringVar(&a.model, "model", "", "model ID (e.g. gpt-4)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default warn)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text, json (default text)")

	root.AddCommand(a.newChatCommand())
	root.AddCommand(a.newModelsCommand())
	root.AddCommand(a.newEmbedCommand())
	root.AddCommand(a.newModerateCommand())
	root.AddCommand(a.newAudioCommand())
	root.AddCommand(a.newImagesCommand())
	root.AddCommand(a.newFilesCommand())
	root.AddCommand(a.newFineTuningCommand())
	root.AddCommand(a.newKeysCommand())
	root.AddCommand(a.newInitCommand())
	root.AddCommand(a.newVersionCommand())

	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	return root
}

// Execute runs the root command. Errors are reported on stderr and
// returned with an exit code.
func (a *App) Execute() error {
	err := a.root.Execute()
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	// Flag and argument errors from cobra itself.
	a.reportError("usage_error", err)
	return exitWithCode(ExitValidation, err)
}

func (a *App) initConfig() error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return a.invalid(fmt.Errorf("load config: %w", err))
	}
	a.cfg = cfg

	// Apply config defaults if flags not set.
	if a.model == "" {
		a.model = cfg.DefaultModel
	}
	if a.logLevel == "" {
		a.logLevel = cfg.LogLevel
	}
	if a.logFormat == "" {
		a.logFormat = cfg.LogFormat
	}

	logger, err := newLogger(a.stderr, a.logLevel, a.logFormat)
	if err != nil {
		return a.invalid(err)
	}
	a.logger = logger
	return nil
}

// modelOr returns the --model flag or config default, else def.
func (a *App) modelOr(def string) string {
	if a.model != "" {
		return a.model
	}
	return def
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}
