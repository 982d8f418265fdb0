package bus

import (
	"github.com/mrz1836/solconnect/internal/wallet"
)

// ConnectIntent asks the store to select a wallet.
type ConnectIntent struct {
	Wallet string `json:"wallet"`
}

// DisconnectIntent asks the store to disconnect.
type DisconnectIntent struct{}

// OpenModalIntent asks the UI to show the wallet picker.
type OpenModalIntent struct{}

// Connecting reports the start and end of a connect attempt.
type Connecting struct {
	Connecting bool `json:"connecting"`
}

// WalletChanged carries the connected account, or nil after a reset.
type WalletChanged struct {
	Wallet *wallet.AccountInfo `json:"wallet"`
}

// WalletsChanged carries the known wallets in discovery order.
type WalletsChanged struct {
	Wallets []wallet.Source `json:"-"`
}

// ConnectError reports a connect attempt that failed and was reset.
type ConnectError struct {
	Wallet string `json:"wallet"`
	Err    error  `json:"-"`
}

// Well-known topics. Their names are shared with UI components.
var (
	TopicConnect        = NewTopic[ConnectIntent]("connect")
	TopicDisconnect     = NewTopic[DisconnectIntent]("disconnect")
	TopicOpenModal      = NewTopic[OpenModalIntent]("open-modal")
	TopicConnecting     = NewTopic[Connecting]("connecting")
	TopicWalletChanged  = NewTopic[WalletChanged]("wallet-changed")
	TopicWalletsChanged = NewTopic[WalletsChanged]("available-wallets-changed")
	TopicConnectError   = NewTopic[ConnectError]("connect-error")
)
