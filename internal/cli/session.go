package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/solconnect/internal/storage"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// SessionStatus is the persisted wallet selection.
type SessionStatus struct {
	Storage string `json:"storage"`
	Key     string `json:"key"`
	Path    string `json:"path,omitempty"`
	Wallet  string `json:"wallet"`
}

// openStore opens the configured backend for the persisted wallet name.
func (a *app) openStore() (storage.Store, string, error) {
	return storage.Open(a.cfg.Session, a.getenv)
}

func (a *app) sessionKey() (*storage.SessionKey, SessionStatus, error) {
	store, path, err := a.openStore()
	if err != nil {
		return nil, SessionStatus{}, err
	}
	key := storage.NewSessionKey(store, a.cfg.Session.StorageKey, a.logger.With("session"))
	return key, SessionStatus{Storage: a.cfg.Session.Storage, Key: key.Key(), Path: path}, nil
}

func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the persisted wallet selection",
		Long: `The connection layer remembers the name of the last selected wallet and
reconnects it on the next mount when auto-connect allows. These commands
read and change that value in the configured storage backend.`,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the persisted wallet name",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			key, status, err := a.sessionKey()
			if err != nil {
				return err
			}
			status.Wallet = key.Get()
			return a.formatter.Emit(status, func(w io.Writer) error {
				if status.Wallet == "" {
					out(w, "No wallet persisted (%s key %q)\n", status.Storage, status.Key)
					return nil
				}
				out(w, "%s (%s key %q)\n", status.Wallet, status.Storage, status.Key)
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <wallet>",
		Short: "Persist a wallet name",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			key, status, err := a.sessionKey()
			if err != nil {
				return err
			}
			key.Set(args[0])
			status.Wallet = key.Get()
			if status.Wallet != args[0] {
				return walleterr.WithDetails(walleterr.ErrStorage, map[string]string{"storage": status.Storage})
			}
			return a.formatter.Emit(status, func(w io.Writer) error {
				out(w, "Persisted %s\n", status.Wallet)
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the persisted wallet name",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			key, status, err := a.sessionKey()
			if err != nil {
				return err
			}
			key.Clear()
			return a.formatter.Emit(status, func(w io.Writer) error {
				out(w, "Cleared %s key %q\n", status.Storage, status.Key)
				return nil
			})
		},
	}

	cmd.AddCommand(show, set, clearCmd)
	return cmd
}
