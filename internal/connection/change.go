package connection

import (
	"slices"

	"github.com/mrz1836/solconnect/internal/bus"
	"github.com/mrz1836/solconnect/internal/standard"
	"github.com/mrz1836/solconnect/internal/wallet"
)

// onStandardWalletChange reconciles a change event from w. Only the
// connected wallet can alter the account; the wallet list is resynced
// for every event.
func (s *Store) onStandardWalletChange(w standard.Wallet, ev standard.ChangeEvent) {
	defer s.resync()

	s.mu.Lock()
	active := s.account != nil && s.account.Source == wallet.KindStandard && s.account.WalletName == w.Name()
	epoch := s.epoch
	s.mu.Unlock()

	if !active || !ev.ReportsAccounts() {
		return
	}

	if len(ev.Accounts) == 0 {
		if !s.disconnectOnEmpty {
			s.logger.Debug("%s reported no accounts; keeping session", w.Name())
			return
		}
		s.logger.Debug("%s reported no accounts; resetting session", w.Name())
		s.reset()
		return
	}

	info, err := wallet.NewStandardAccount(w, ev.Accounts[0])
	if err != nil {
		s.logger.Error("account change from %s: %v", w.Name(), err)
		return
	}

	s.mu.Lock()
	if s.epoch != epoch || s.account == nil || s.account.WalletName != w.Name() {
		s.mu.Unlock()
		return
	}
	s.account = info
	s.mu.Unlock()

	s.logger.Debug("%s switched account to %s", w.Name(), info.Address)
	bus.Publish(s.bus, bus.TopicWalletChanged, bus.WalletChanged{Wallet: info})
}

// resync drops standard wallets the registry no longer exposes and merges
// any it exposes that are not yet known. Existing entries keep their
// position. Wallets are matched by name. Dropping the connected wallet
// resets the session.
func (s *Store) resync() {
	fresh := s.registry.Wallets()
	present := make(map[string]struct{}, len(fresh))
	for _, src := range fresh {
		present[src.Name()] = struct{}{}
	}

	s.mu.Lock()
	var dropped []string
	kept := slices.DeleteFunc(slices.Clone(s.wallets), func(src wallet.Source) bool {
		if src.Kind() != wallet.KindStandard {
			return false
		}
		if _, ok := present[src.Name()]; ok {
			return false
		}
		dropped = append(dropped, src.Name())
		return true
	})
	before := len(kept)
	for _, src := range fresh {
		kept = wallet.Merge(kept, src)
	}
	added := slices.Clone(kept[before:])
	s.wallets = kept
	var connectedGone string
	if s.account != nil && s.account.Source == wallet.KindStandard && slices.Contains(dropped, s.account.WalletName) {
		connectedGone = s.account.WalletName
	}
	snapshot := s.walletsSnapshotLocked()
	s.mu.Unlock()

	for _, name := range dropped {
		s.detach(name)
	}
	if connectedGone != "" {
		s.logger.Debug("connected wallet %s is no longer compatible", connectedGone)
		s.reset()
	}
	for _, src := range added {
		if std, ok := src.(*wallet.StandardSource); ok {
			s.attach(std)
		}
	}
	s.publishWallets(snapshot)
}
