// Package cli implements the solconnect operator command line: inspecting
// how a user agent is classified, producing mobile wallet deep links and
// managing the persisted wallet selection.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrz1836/solconnect/internal/chain"
	"github.com/mrz1836/solconnect/internal/config"
	"github.com/mrz1836/solconnect/internal/output"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// app is the state shared by every command of one invocation.
type app struct {
	// flags
	homeDir      string
	outputFormat string
	cluster      string
	verbose      bool

	// set in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter

	// replaceable in tests
	openURL func(string) error
	dial    func(cfg *config.Config) chain.Connection
	getenv  func(string) string
}

func newApp() *app {
	return &app{
		openURL: openInBrowser,
		dial:    dialRPC,
		getenv:  os.Getenv,
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "solconnect",
		Short: "Inspect and manage Solana wallet sessions",
		Long: `solconnect is the operator tool for the solconnect wallet connection layer.

It classifies user agents the way the connection layer does, builds
mobile wallet deep links, fetches recent blockhashes and manages the
persisted name of the last selected wallet.

Example:
  solconnect env detect --user-agent "$UA" --width 390
  solconnect wallets deeplink Phantom --url https://app.example.com --qr
  solconnect session show`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.OutOrStdout())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.cleanup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.homeDir, "home", "", "solconnect data directory (default: ~/.solconnect)")
	flags.StringVarP(&a.outputFormat, "output", "o", "auto", "output format: text, json, auto")
	flags.StringVar(&a.cluster, "cluster", "", "target cluster: devnet, testnet, mainnet-beta")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newEnvCmd(a),
		newWalletsCmd(a),
		newSessionCmd(a),
		newStatusCmd(a),
		newConfigCmd(a),
		newBlockhashCmd(a),
		newVersionCmd(a),
	)
	return root
}

// Execute runs the CLI and reports a failure on stderr.
func Execute() error {
	a := newApp()
	root := newRootCmd(a)
	if err := root.Execute(); err != nil {
		format := output.FormatText
		if a.formatter != nil {
			format = a.formatter.Format()
		}
		_ = output.FormatError(os.Stderr, err, format)
		return err
	}
	return nil
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	return walleterr.ExitCode(err)
}

func (a *app) init(w io.Writer) error {
	home := a.homeDir
	if home == "" {
		home = a.getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}
	home = config.ExpandHome(home)

	cfg, err := config.Load(config.Path(home))
	switch {
	case err == nil:
	case os.IsNotExist(err):
		cfg = config.Defaults()
		cfg.Session.File = filepath.Join(home, "session.json")
		cfg.Logging.File = filepath.Join(home, "solconnect.log")
	default:
		return err
	}
	cfg.Home = home

	config.ApplyEnvironment(cfg)
	if a.homeDir != "" {
		cfg.Home = a.homeDir
	}
	if a.cluster != "" {
		cfg.Cluster = a.cluster
	}
	if a.verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if a.outputFormat != "" && a.outputFormat != string(output.FormatAuto) {
		cfg.Output.DefaultFormat = a.outputFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := config.NewLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.Logging.File)
	if err != nil {
		logger = config.NullLogger()
	}

	format, err := output.ParseFormat(cfg.Output.DefaultFormat)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.formatter = output.NewFormatter(format, w)
	return nil
}

func (a *app) cleanup() {
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

// out writes CLI text, ignoring write errors.
//
//nolint:errcheck // CLI output writes are intentionally unchecked
func out(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
