package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/dblist/config"
	"github.com/s0up4200/dblist/dbl"
)

// skipInit marks commands that run without config or client
const skipInit = "skip-init"

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  dbl.API
	closer  func(context.Context) error

	jsonOutput bool
	timeout    time.Duration

	// newAPI builds the client commands talk to
	newAPI = func(cfg *config.Config, logger zerolog.Logger) (dbl.API, func(context.Context) error, error) {
		opts := append(cfg.ClientOptions(), dbl.WithUserAgent("dblist/"+version))

		c, err := dbl.NewClient(cfg.DBL.Token, cfg.DBL.BotID, logger, opts...)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dblist",
	Short: "A command line client for the Discord Bot List API",
	Long: `dblist talks to the Discord Bot List (top.gg) API. It reports server
counts for your bot, looks up bots and users, searches the list and checks
votes.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the CLI. The client is closed here too because post-run
// hooks do not run after a RunE error.
func execute(ctx context.Context) error {
	defer closeClient()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().DurationVar(&timeout, "wait", time.Minute, "how long to wait for results")
}

// initializeApp initializes the configuration and client
func initializeApp(cmd *cobra.Command, args []string) error {
	if _, ok := cmd.Annotations[skipInit]; ok {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	client, closer, err = newAPI(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	logger.Debug().Str("bot", client.BotID()).Msg("Client ready")

	return nil
}

// shutdownApp waits for queued requests to finish
func shutdownApp(cmd *cobra.Command, args []string) error {
	closeClient()
	return nil
}

func closeClient() {
	if closer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := closer(ctx); err != nil {
		logger.Warn().Err(err).Msg("Client did not shut down cleanly")
	}
	closer = nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// waitContext bounds how long a command waits for its futures
func waitContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
