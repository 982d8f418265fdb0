package connection

import (
	"context"
	"slices"
	"sync"

	"github.com/mrz1836/solconnect/internal/bus"
	"github.com/mrz1836/solconnect/internal/standard"
	"github.com/mrz1836/solconnect/internal/wallet"
)

// Mount discovers wallets, subscribes to the registry, the wallets and
// the bus, and reconnects the persisted wallet. The returned teardown
// removes exactly the subscriptions this call added.
//
// On an iOS browser that can hand off to a wallet app through a universal
// link, only the mobile catalog is exposed and nothing is subscribed.
func (s *Store) Mount(ctx context.Context) (teardown func(), err error) {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return nil, ErrMounted
	}
	s.mounted = true

	if s.platform.IsIOSAndRedirectable() {
		s.wallets = s.wallets[:0:0]
		for _, m := range s.registry.Mobile() {
			s.wallets = wallet.Merge(s.wallets, m)
		}
		snapshot := s.walletsSnapshotLocked()
		s.mu.Unlock()

		s.publishWallets(snapshot)
		return s.teardownFunc(nil), nil
	}
	s.wallets = nil
	s.mu.Unlock()

	// Subscribe before the snapshot so a wallet registered in between is
	// seen by one or the other; Merge drops the duplicate.
	offs := []func(){
		s.registry.OnRegister(s.handleRegister),
		s.registry.OnUnregister(s.handleUnregister),
	}

	discovered := make([]wallet.Source, 0)
	for _, w := range s.registry.Wallets() {
		discovered = append(discovered, w)
	}
	for _, c := range s.registry.Custom() {
		discovered = append(discovered, c)
	}
	s.mu.Lock()
	// Keep anything handleRegister merged since the subscription.
	s.wallets = wallet.Merge(wallet.Merge(nil, discovered...), s.wallets...)
	snapshot := s.walletsSnapshotLocked()
	s.mu.Unlock()

	// Intents must outlive the caller's context.
	intentCtx := context.WithoutCancel(ctx)
	offs = append(offs,
		s.host.OnUnload(s.detachAll),
		bus.Subscribe(s.bus, bus.TopicConnect, func(ev bus.ConnectIntent) {
			if err := s.Connect(intentCtx, ev.Wallet); err != nil {
				s.logger.Error("connect intent for %s: %v", ev.Wallet, err)
			}
		}),
		bus.Subscribe(s.bus, bus.TopicDisconnect, func(bus.DisconnectIntent) {
			if err := s.Disconnect(intentCtx); err != nil {
				s.logger.Error("disconnect intent: %v", err)
			}
		}),
	)
	for _, src := range snapshot {
		if std, ok := src.(*wallet.StandardSource); ok {
			s.attach(std)
		}
	}

	s.publishWallets(snapshot)
	s.autoConnectOnMount(ctx)
	return s.teardownFunc(offs), nil
}

func (s *Store) teardownFunc(offs []func()) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			for _, off := range slices.Backward(offs) {
				off()
			}
			s.detachAll()
			s.mu.Lock()
			s.mounted = false
			s.mu.Unlock()
		})
	}
}

// autoConnectOnMount reconnects the persisted wallet when the policy
// allows it. Inside a wallet app's own browser the first wallet is
// selected when nothing else is active.
func (s *Store) autoConnectOnMount(ctx context.Context) {
	if name := s.session.Get(); name != "" {
		s.mu.Lock()
		src, ok := wallet.Find(s.wallets, name)
		s.mu.Unlock()

		switch {
		case !ok:
			s.logger.Debug("persisted wallet %s is not available", name)
		case s.autoConnect == nil || !s.autoConnect(src):
			s.logger.Debug("auto-connect to %s declined by policy", name)
		default:
			if err := s.Select(ctx, name); err != nil {
				s.logger.Error("auto-connect to %s: %v", name, err)
			}
		}
	}

	if !s.platform.IsIOSAndWalletApp() {
		return
	}
	s.mu.Lock()
	var first string
	if len(s.wallets) > 0 && s.activeLocked() == "" && !s.connecting && !s.disconnecting {
		first = s.wallets[0].Name()
	}
	s.mu.Unlock()
	if first == "" {
		return
	}
	if err := s.Select(ctx, first); err != nil {
		s.logger.Error("selecting in-app wallet %s: %v", first, err)
	}
}

// attach (re)subscribes to a standard wallet's change events.
func (s *Store) attach(src *wallet.StandardSource) {
	events, ok := standard.Feature[standard.Events](src.Wallet, standard.FeatureEvents)
	if !ok {
		return
	}
	name := src.Name()
	w := src.Wallet

	s.detach(name)
	off := events.On(standard.EventChange, func(ev standard.ChangeEvent) {
		s.onStandardWalletChange(w, ev)
	})

	s.mu.Lock()
	raced := s.changeOf[name]
	s.changeOf[name] = off
	s.mu.Unlock()
	if raced != nil {
		raced()
	}
}

func (s *Store) detach(name string) {
	s.mu.Lock()
	off := s.changeOf[name]
	delete(s.changeOf, name)
	s.mu.Unlock()
	if off != nil {
		off()
	}
}

func (s *Store) detachAll() {
	s.mu.Lock()
	offs := s.changeOf
	s.changeOf = make(map[string]func())
	s.mu.Unlock()
	for _, off := range offs {
		off()
	}
}

func (s *Store) handleRegister(sources []*wallet.StandardSource) {
	s.mu.Lock()
	before := len(s.wallets)
	for _, src := range sources {
		s.wallets = wallet.Merge(s.wallets, src)
	}
	added := slices.Clone(s.wallets[before:])
	snapshot := s.walletsSnapshotLocked()
	s.mu.Unlock()

	if len(added) == 0 {
		return
	}
	for _, src := range added {
		if std, ok := src.(*wallet.StandardSource); ok {
			s.attach(std)
		}
	}
	s.publishWallets(snapshot)
}

func (s *Store) handleUnregister(sources []*wallet.StandardSource) {
	s.mu.Lock()
	var removed []string
	s.wallets = slices.DeleteFunc(s.wallets, func(src wallet.Source) bool {
		std, ok := src.(*wallet.StandardSource)
		if !ok {
			return false
		}
		for _, gone := range sources {
			if std.Name() == gone.Name() {
				removed = append(removed, std.Name())
				return true
			}
		}
		return false
	})
	connectedGone := s.account != nil && s.account.Source == wallet.KindStandard &&
		slices.Contains(removed, s.account.WalletName)
	snapshot := s.walletsSnapshotLocked()
	s.mu.Unlock()

	if len(removed) == 0 {
		return
	}
	for _, name := range removed {
		s.detach(name)
	}
	if connectedGone {
		s.logger.Debug("connected wallet was unregistered")
		s.reset()
	}
	s.publishWallets(snapshot)
}

func (s *Store) publishWallets(snapshot []wallet.Source) {
	bus.Publish(s.bus, bus.TopicWalletsChanged, bus.WalletsChanged{Wallets: snapshot})
}
