package connection_test

import (
	"context"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/solconnect/internal/bus"
	"github.com/mrz1836/solconnect/internal/connection"
	"github.com/mrz1836/solconnect/internal/env"
	"github.com/mrz1836/solconnect/internal/metrics"
	"github.com/mrz1836/solconnect/internal/registry"
	"github.com/mrz1836/solconnect/internal/standard"
	"github.com/mrz1836/solconnect/internal/storage"
	"github.com/mrz1836/solconnect/internal/wallet"
)

const (
	uaDesktop   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaIOSSafari = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaIOSWallet = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148 Phantom/ios"

	pageURL = "https://app.example.com/swap"
)

type recorder struct {
	mu         sync.Mutex
	connecting []bool
	changed    []*wallet.AccountInfo
	wallets    [][]string
	errors     []bus.ConnectError
}

func record(b *bus.Bus) *recorder {
	r := &recorder{}
	bus.Subscribe(b, bus.TopicConnecting, func(ev bus.Connecting) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.connecting = append(r.connecting, ev.Connecting)
	})
	bus.Subscribe(b, bus.TopicWalletChanged, func(ev bus.WalletChanged) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.changed = append(r.changed, ev.Wallet)
	})
	bus.Subscribe(b, bus.TopicWalletsChanged, func(ev bus.WalletsChanged) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.wallets = append(r.wallets, wallet.Names(ev.Wallets))
	})
	bus.Subscribe(b, bus.TopicConnectError, func(ev bus.ConnectError) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.errors = append(r.errors, ev)
	})
	return r
}

func (r *recorder) connectErrors() []bus.ConnectError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bus.ConnectError(nil), r.errors...)
}

func (r *recorder) lastWallets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.wallets) == 0 {
		return nil
	}
	return r.wallets[len(r.wallets)-1]
}

func (r *recorder) lastChanged() *wallet.AccountInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.changed) == 0 {
		return nil
	}
	return r.changed[len(r.changed)-1]
}

func (r *recorder) connectingFlags() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.connecting...)
}

type fixture struct {
	t       *testing.T
	reg     *standard.MemoryRegistry
	kv      *storage.MemoryStore
	host    *env.RecordingHost
	bus     *bus.Bus
	metrics *metrics.Metrics
	store   *connection.Store
	rec     *recorder
}

func newFixture(t *testing.T, configure func(*fixture, *connection.Options), wallets ...standard.Wallet) *fixture {
	t.Helper()
	f := &fixture{
		t:       t,
		reg:     standard.NewMemoryRegistry(wallets...),
		kv:      storage.NewMemoryStore(),
		host:    env.NewRecordingHost(pageURL),
		bus:     bus.New(),
		metrics: &metrics.Metrics{},
	}
	opts := connection.Options{
		Registry:                  registry.New(f.reg),
		Session:                   storage.NewSessionKey(f.kv, "walletName", nil),
		Bus:                       f.bus,
		Host:                      f.host,
		Platform:                  env.Browser(uaDesktop, 1440),
		Metrics:                   f.metrics,
		AutoConnect:               connection.AutoConnectAlways,
		DisconnectOnAccountChange: true,
		OpenInstallPage:           true,
	}
	if configure != nil {
		configure(f, &opts)
	}
	f.store = connection.New(opts)
	f.rec = record(f.bus)
	return f
}

func (f *fixture) mount() func() {
	f.t.Helper()
	teardown, err := f.store.Mount(context.Background())
	require.NoError(f.t, err)
	f.t.Cleanup(teardown)
	return teardown
}

func (f *fixture) persisted() string {
	v, err := f.kv.Get("walletName")
	if err != nil {
		return ""
	}
	return v
}

func connectedName(s *connection.Store) string {
	if acc := s.State().Account; acc != nil {
		return acc.WalletName
	}
	return ""
}

func randomKey(t *testing.T) solana.PublicKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key.PublicKey()
}

type fakeAdapter struct {
	mu          sync.Mutex
	name        string
	url         string
	ready       wallet.ReadyState
	key         solana.PublicKey
	noKey       bool
	connectErr  error
	connected   bool
	connects    int
	disconnects int
}

func newAdapter(t *testing.T, name string) *fakeAdapter {
	t.Helper()
	return &fakeAdapter{
		name:  name,
		url:   "https://example.com/install/" + name,
		ready: wallet.ReadyInstalled,
		key:   randomKey(t),
	}
}

func (a *fakeAdapter) Name() string                  { return a.name }
func (a *fakeAdapter) Icon() string                  { return "" }
func (a *fakeAdapter) URL() string                   { return a.url }
func (a *fakeAdapter) ReadyState() wallet.ReadyState { return a.ready }

func (a *fakeAdapter) PublicKey() *solana.PublicKey {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.connected || a.noKey {
		return nil
	}
	k := a.key
	return &k
}

func (a *fakeAdapter) Connect(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connects++
	if a.connectErr != nil {
		return a.connectErr
	}
	a.connected = true
	return nil
}

func (a *fakeAdapter) Disconnect(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disconnects++
	a.connected = false
	return nil
}

func (a *fakeAdapter) counts() (connects, disconnects int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connects, a.disconnects
}
