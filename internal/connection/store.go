// Package connection holds the wallet session state and every transition
// on it: discovery, selection, connect, disconnect and the reconciliation
// of account changes announced by wallets.
//
// The store's mutex guards state only. It is never held across a call into
// a wallet, and bus notifications are published after it is released.
package connection

import (
	"errors"
	"slices"
	"sync"

	"github.com/mrz1836/solconnect/internal/bus"
	"github.com/mrz1836/solconnect/internal/chain"
	"github.com/mrz1836/solconnect/internal/env"
	"github.com/mrz1836/solconnect/internal/metrics"
	"github.com/mrz1836/solconnect/internal/registry"
	"github.com/mrz1836/solconnect/internal/storage"
	"github.com/mrz1836/solconnect/internal/wallet"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// ErrMounted is returned by Mount while a previous mount is still active.
var ErrMounted = errors.New("store is already mounted")

// Logger is the logging surface used by the store.
type Logger interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}

// AutoConnectPolicy decides whether the persisted wallet is reconnected on
// mount. A nil policy never reconnects.
type AutoConnectPolicy func(wallet.Source) bool

// AutoConnectAlways reconnects any wallet.
func AutoConnectAlways(wallet.Source) bool { return true }

// AutoConnectNever disables reconnecting.
func AutoConnectNever(wallet.Source) bool { return false }

// Options configures a Store. Zero values select safe defaults.
type Options struct {
	Registry *registry.Adapter
	Session  *storage.SessionKey
	Bus      *bus.Bus
	Host     env.Host
	Platform env.Platform
	Cluster  chain.Cluster
	Logger   Logger
	Metrics  *metrics.Metrics

	AutoConnect AutoConnectPolicy
	// DisconnectOnAccountChange resets the session when the connected
	// wallet reports zero accounts.
	DisconnectOnAccountChange bool
	// OpenInstallPage opens an adapter's URL when it is not ready.
	OpenInstallPage bool
}

// State is a snapshot of the session.
type State struct {
	Wallets       []wallet.Source
	Account       *wallet.AccountInfo
	Selected      string
	Connecting    bool
	Disconnecting bool
	Cluster       chain.Cluster
}

// Connected reports whether an account is connected.
func (s State) Connected() bool {
	return s.Account != nil
}

// Session is the connected account together with its wallet source.
type Session struct {
	Account *wallet.AccountInfo
	Source  wallet.Source
	Cluster chain.Cluster
}

// Store is the connection state machine.
type Store struct {
	registry *registry.Adapter
	session  *storage.SessionKey
	bus      *bus.Bus
	host     env.Host
	platform env.Platform
	logger   Logger
	metrics  *metrics.Metrics

	autoConnect       AutoConnectPolicy
	disconnectOnEmpty bool
	openInstallPage   bool

	mu            sync.Mutex
	wallets       []wallet.Source
	account       *wallet.AccountInfo
	selected      string
	connecting    bool
	disconnecting bool
	cluster       chain.Cluster
	// epoch increments on every reset so a connect that completes after
	// its session was reset is discarded.
	epoch    uint64
	mounted  bool
	changeOf map[string]func()
}

// New creates a store. It does nothing until Mount is called.
func New(opts Options) *Store {
	s := &Store{
		registry:          opts.Registry,
		session:           opts.Session,
		bus:               opts.Bus,
		host:              opts.Host,
		platform:          opts.Platform,
		logger:            opts.Logger,
		metrics:           opts.Metrics,
		autoConnect:       opts.AutoConnect,
		disconnectOnEmpty: opts.DisconnectOnAccountChange,
		openInstallPage:   opts.OpenInstallPage,
		cluster:           opts.Cluster,
		changeOf:          make(map[string]func()),
	}
	if s.registry == nil {
		s.registry = registry.New(nil)
	}
	if s.session == nil {
		s.session = storage.NewSessionKey(storage.NewMemoryStore(), "walletName", opts.Logger)
	}
	if s.bus == nil {
		s.bus = bus.New()
	}
	if s.host == nil {
		s.host = env.Headless{}
	}
	if s.logger == nil {
		s.logger = nopLogger{}
	}
	if s.metrics == nil {
		s.metrics = metrics.Global
	}
	if s.cluster == "" {
		s.cluster = chain.Devnet
	}
	return s
}

// Bus returns the bus the store publishes on.
func (s *Store) Bus() *bus.Bus {
	return s.bus
}

// State returns a snapshot of the session.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Wallets:       slices.Clone(s.wallets),
		Account:       s.account,
		Selected:      s.selected,
		Connecting:    s.connecting,
		Disconnecting: s.disconnecting,
		Cluster:       s.cluster,
	}
}

// Session returns the connected account and its source, or
// ErrNotConnected.
func (s *Store) Session() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.account == nil {
		return Session{}, walleterr.ErrNotConnected
	}
	src, ok := wallet.Find(s.wallets, s.account.WalletName)
	if !ok && s.account.Adapter != nil {
		src, ok = wallet.NewCustom(s.account.Adapter), true
	}
	if !ok {
		return Session{}, walleterr.Wrap(walleterr.ErrNotConnected, "wallet %s is no longer available", s.account.WalletName)
	}
	return Session{Account: s.account, Source: src, Cluster: s.cluster}, nil
}

// Cluster returns the target cluster.
func (s *Store) Cluster() chain.Cluster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cluster
}

// SetCluster retargets the session. The connection is left untouched.
func (s *Store) SetCluster(c chain.Cluster) error {
	parsed, err := chain.ParseCluster(string(c))
	if err != nil {
		return walleterr.WithCause(walleterr.ErrInvalidInput, err)
	}
	s.mu.Lock()
	s.cluster = parsed
	s.mu.Unlock()
	return nil
}

// activeLocked returns the name of the connected or connecting wallet.
func (s *Store) activeLocked() string {
	if s.account != nil {
		return s.account.WalletName
	}
	return s.selected
}

func (s *Store) walletsSnapshotLocked() []wallet.Source {
	return slices.Clone(s.wallets)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
