package connection

import (
	"context"
	"fmt"

	"github.com/mrz1836/solconnect/internal/bus"
	"github.com/mrz1836/solconnect/internal/metrics"
	"github.com/mrz1836/solconnect/internal/standard"
	"github.com/mrz1836/solconnect/internal/wallet"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// Connect selects the named wallet. It is the handler of the connect
// intent.
func (s *Store) Connect(ctx context.Context, name string) error {
	return s.Select(ctx, name)
}

// Select makes name the active wallet. Selecting the already active wallet
// is logged and ignored. Another active wallet is disconnected first.
func (s *Store) Select(ctx context.Context, name string) error {
	s.mu.Lock()
	active := s.activeLocked()
	busy := s.connecting || s.disconnecting
	s.mu.Unlock()

	if name != "" && name == active {
		s.logger.Error("wallet %s is already selected", name)
		return nil
	}
	if busy {
		s.metrics.RecordBusy()
		return walleterr.Wrap(walleterr.ErrConnectionBusy, "select %s", name)
	}
	if active != "" {
		if err := s.Disconnect(ctx); err != nil {
			return err
		}
	}
	return s.UpdateWallet(ctx, name)
}

// UpdateWallet persists name and connects to it. An empty name clears the
// persisted value and resets the session.
func (s *Store) UpdateWallet(ctx context.Context, name string) error {
	if name == "" {
		s.reset()
		return nil
	}

	s.mu.Lock()
	busy := s.connecting || s.disconnecting
	src, _ := wallet.Find(s.wallets, name)
	s.mu.Unlock()
	if busy {
		s.metrics.RecordBusy()
		return walleterr.Wrap(walleterr.ErrConnectionBusy, "connect %s", name)
	}

	s.session.Set(name)
	if std, ok := src.(*wallet.StandardSource); ok {
		s.attach(std)
	}
	return s.connectToWallet(ctx, name)
}

// connectToWallet runs one connect attempt. Only a busy store or an
// unknown wallet are reported; wallet failures reset the session and are
// published on the connect-error topic.
func (s *Store) connectToWallet(ctx context.Context, name string) error {
	s.mu.Lock()
	if s.connecting || s.disconnecting {
		s.mu.Unlock()
		s.metrics.RecordBusy()
		return walleterr.Wrap(walleterr.ErrConnectionBusy, "connect %s", name)
	}

	src, ok := wallet.Find(s.wallets, name)
	if !ok {
		names := wallet.Names(s.wallets)
		s.mu.Unlock()
		s.reset()
		err := walleterr.WithDetails(walleterr.ErrWalletNotFound, map[string]string{"wallet": name})
		if suggestion := wallet.Suggest(name, names); suggestion != "" {
			err = walleterr.WithSuggestion(err, fmt.Sprintf("did you mean %s?", suggestion))
		}
		return err
	}

	if mobile, isMobile := src.(*wallet.MobileSource); isMobile {
		s.mu.Unlock()
		s.redirect(mobile)
		return nil
	}

	s.connecting = true
	s.selected = name
	epoch := s.epoch
	s.mu.Unlock()

	bus.Publish(s.bus, bus.TopicConnecting, bus.Connecting{Connecting: true})
	defer func() {
		s.mu.Lock()
		s.connecting = false
		s.mu.Unlock()
		bus.Publish(s.bus, bus.TopicConnecting, bus.Connecting{Connecting: false})
	}()

	info, err := s.connectSource(ctx, src)
	s.metrics.RecordOp(metrics.OpConnect, err)
	if err != nil {
		s.logger.Error("connecting to %s: %v", name, err)
		bus.Publish(s.bus, bus.TopicConnectError, bus.ConnectError{Wallet: name, Err: err})
		s.reset()
		return nil
	}

	s.mu.Lock()
	if s.epoch != epoch || s.selected != name {
		s.mu.Unlock()
		s.logger.Debug("discarding connection to %s: session was reset", name)
		if err := s.disconnectSource(ctx, src, info); err != nil {
			s.logger.Error("disconnecting abandoned %s: %v", name, err)
		}
		return nil
	}
	s.account = info
	s.mu.Unlock()

	s.logger.Debug("connected to %s as %s", name, info.Address)
	bus.Publish(s.bus, bus.TopicWalletChanged, bus.WalletChanged{Wallet: info})
	return nil
}

func (s *Store) connectSource(ctx context.Context, src wallet.Source) (*wallet.AccountInfo, error) {
	switch src := src.(type) {
	case *wallet.StandardSource:
		connector, ok := standard.Feature[standard.Connector](src.Wallet, standard.FeatureConnect)
		if !ok {
			return nil, walleterr.Wrap(walleterr.ErrConnection, "%s does not support %s", src.Name(), standard.FeatureConnect)
		}
		out, err := connector.Connect(ctx, standard.ConnectInput{})
		if err != nil {
			return nil, walleterr.WithCause(walleterr.ErrConnection, err)
		}
		if len(out.Accounts) == 0 {
			return nil, walleterr.Wrap(walleterr.ErrConnection, "%s returned no accounts", src.Name())
		}
		return wallet.NewStandardAccount(src.Wallet, out.Accounts[0])

	case *wallet.CustomSource:
		a := src.Adapter
		if state := a.ReadyState(); !state.Usable() {
			if s.openInstallPage && a.URL() != "" {
				s.host.Open(a.URL())
			}
			return nil, walleterr.WithDetails(walleterr.ErrNotReady, map[string]string{
				"wallet": a.Name(),
				"state":  string(state),
			})
		}
		if err := a.Connect(ctx); err != nil {
			return nil, walleterr.WithCause(walleterr.ErrConnection, err)
		}
		return wallet.NewCustomAccount(a)

	default:
		return nil, walleterr.Wrap(walleterr.ErrConnection, "%s cannot be connected", src.Name())
	}
}

// redirect sends the page to a mobile wallet. The selection is not kept.
func (s *Store) redirect(m *wallet.MobileSource) {
	s.metrics.RecordRedirect()
	if link, ok := m.DeepLink(s.host.Location()); ok {
		s.logger.Debug("redirecting to %s", m.Name())
		s.host.Navigate(link)
		return
	}
	s.host.Open(m.URL())
}

// Disconnect ends the session. Wallet errors are logged and the session
// is always reset. A connect still in flight is abandoned and its wallet
// disconnected once it completes.
func (s *Store) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	if s.disconnecting {
		s.mu.Unlock()
		return nil
	}
	name := s.activeLocked()
	if name == "" {
		s.mu.Unlock()
		s.logger.Error("disconnect: no wallet is active")
		s.reset()
		return nil
	}
	if s.connecting {
		s.mu.Unlock()
		s.logger.Debug("disconnect while connecting to %s: abandoning attempt", name)
		s.reset()
		return nil
	}
	src, _ := wallet.Find(s.wallets, name)
	account := s.account
	s.disconnecting = true
	s.mu.Unlock()

	err := s.disconnectSource(ctx, src, account)
	s.metrics.RecordOp(metrics.OpDisconnect, err)
	if err != nil {
		s.logger.Error("disconnecting from %s: %v", name, err)
	}

	s.mu.Lock()
	s.disconnecting = false
	s.mu.Unlock()
	s.reset()
	return nil
}

func (s *Store) disconnectSource(ctx context.Context, src wallet.Source, account *wallet.AccountInfo) error {
	switch src := src.(type) {
	case *wallet.StandardSource:
		if d, ok := standard.Feature[standard.Disconnector](src.Wallet, standard.FeatureDisconnect); ok {
			return d.Disconnect(ctx)
		}
		return nil
	case *wallet.CustomSource:
		return src.Adapter.Disconnect(ctx)
	}
	if account != nil && account.Adapter != nil {
		return account.Adapter.Disconnect(ctx)
	}
	return nil
}

// reset clears the account, the selection and the persisted name.
func (s *Store) reset() {
	s.session.Clear()

	s.mu.Lock()
	s.account = nil
	s.selected = ""
	s.epoch++
	s.mu.Unlock()

	bus.Publish(s.bus, bus.TopicWalletChanged, bus.WalletChanged{})
}
