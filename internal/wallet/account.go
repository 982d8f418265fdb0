package wallet

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/mrz1836/solconnect/internal/standard"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// AccountInfo is the connected account. It exists only while a wallet is
// connected.
type AccountInfo struct {
	Source     Kind             `json:"source"`
	WalletName string           `json:"wallet"`
	Icon       string           `json:"icon,omitempty"`
	Address    solana.PublicKey `json:"address"`

	// Account is set for KindStandard.
	Account standard.Account `json:"-"`
	// Adapter is set for KindCustom.
	Adapter Adapter `json:"-"`
}

// NewStandardAccount builds the account info for acc of w.
func NewStandardAccount(w standard.Wallet, acc standard.Account) (*AccountInfo, error) {
	addr, err := accountAddress(acc)
	if err != nil {
		return nil, err
	}
	return &AccountInfo{
		Source:     KindStandard,
		WalletName: w.Name(),
		Icon:       w.Icon(),
		Address:    addr,
		Account:    acc,
	}, nil
}

// NewCustomAccount builds the account info for a connected adapter.
func NewCustomAccount(a Adapter) (*AccountInfo, error) {
	pub := a.PublicKey()
	if pub == nil || pub.IsZero() {
		return nil, walleterr.Wrap(walleterr.ErrConnection, "%s returned no public key", a.Name())
	}
	return &AccountInfo{
		Source:     KindCustom,
		WalletName: a.Name(),
		Icon:       a.Icon(),
		Address:    *pub,
		Adapter:    a,
	}, nil
}

func accountAddress(acc standard.Account) (solana.PublicKey, error) {
	if acc.Address != "" {
		pub, err := solana.PublicKeyFromBase58(acc.Address)
		if err != nil {
			return solana.PublicKey{}, walleterr.WithCause(walleterr.ErrConnection, fmt.Errorf("account address %q: %w", acc.Address, err))
		}
		return pub, nil
	}
	if len(acc.PublicKey) == solana.PublicKeyLength {
		return solana.PublicKeyFromBytes(acc.PublicKey), nil
	}
	return solana.PublicKey{}, walleterr.Wrap(walleterr.ErrConnection, "account has no address")
}
