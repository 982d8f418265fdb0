package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/solconnect/internal/connection"
	"github.com/mrz1836/solconnect/internal/env"
	"github.com/mrz1836/solconnect/internal/registry"
	"github.com/mrz1836/solconnect/internal/wallet"
)

// StatusReport is what mounting the connection layer yields for one
// runtime with the current configuration.
type StatusReport struct {
	Cluster     string   `json:"cluster"`
	Persisted   string   `json:"persisted,omitempty"`
	AutoConnect bool     `json:"auto_connect"`
	Wallets     []string `json:"wallets"`
	Connected   string   `json:"connected,omitempty"`
}

// newStore builds a connection store from the loaded configuration for
// the given runtime. The CLI has no discovery registry, so only the mobile
// catalog can be offered.
func (a *app) newStore(p env.Platform) (*connection.Store, *connection.Options, error) {
	opts, err := connection.OptionsFromConfig(a.cfg, a.getenv, a.logger.With("connection"))
	if err != nil {
		return nil, nil, err
	}
	opts.Registry = registry.New(nil)
	opts.Platform = p
	return connection.New(opts), &opts, nil
}

func newStatusCmd(a *app) *cobra.Command {
	var (
		userAgent string
		width     int
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Mount the connection layer and report the session",
		Long: `Mount the connection layer with the configured cluster, policy and
session storage, then report the wallets it offers and the session it
restores. Without --user-agent the runtime has no browser context.

Example:
  solconnect status
  solconnect status --user-agent "Mozilla/5.0 (iPhone; ...) Safari/604.1" --width 390`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := env.Server()
			if userAgent != "" {
				p = env.Browser(userAgent, width)
			}
			store, opts, err := a.newStore(p)
			if err != nil {
				return err
			}
			persisted := opts.Session.Get()

			teardown, err := store.Mount(cmd.Context())
			if err != nil {
				return err
			}
			defer teardown()

			state := store.State()
			report := StatusReport{
				Cluster:     string(state.Cluster),
				Persisted:   persisted,
				AutoConnect: a.cfg.Policy.AutoConnect,
				Wallets:     wallet.Names(state.Wallets),
			}
			if state.Account != nil {
				report.Connected = state.Account.WalletName
			}
			return a.formatter.Emit(report, func(w io.Writer) error {
				out(w, "cluster    %s\n", report.Cluster)
				out(w, "persisted  %s\n", orNone(report.Persisted))
				out(w, "wallets    %s\n", orNone(strings.Join(report.Wallets, ", ")))
				out(w, "connected  %s\n", orNone(report.Connected))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "navigator user-agent string")
	cmd.Flags().IntVar(&width, "width", 0, "screen width in CSS pixels (0 if unknown)")
	return cmd
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
