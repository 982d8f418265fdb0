// Package registry adapts the wallet-standard discovery registry to
// solconnect's Source model. Only wallets that can connect, emit events and
// sign or send Solana transactions are exposed.
package registry

import (
	"slices"

	"github.com/mrz1836/solconnect/internal/chain"
	"github.com/mrz1836/solconnect/internal/standard"
	"github.com/mrz1836/solconnect/internal/wallet"
)

// Compatible reports whether w supports the minimum Solana feature set.
func Compatible(w standard.Wallet) bool {
	if w == nil {
		return false
	}
	f := w.Features()
	if !f.Has(standard.FeatureConnect) || !f.Has(standard.FeatureEvents) {
		return false
	}
	if !f.Has(standard.FeatureSignTransaction) && !f.Has(standard.FeatureSignAndSendTransaction) {
		return false
	}
	return standard.SupportsChainPrefix(w, chain.ChainPrefix)
}

// Adapter exposes the compatible subset of a discovery registry alongside
// the curated mobile wallets and the application's custom adapters.
type Adapter struct {
	reg    standard.Registry
	custom []wallet.Adapter
	mobile []*wallet.MobileSource
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithCustom adds caller-supplied legacy adapters.
func WithCustom(adapters ...wallet.Adapter) Option {
	return func(a *Adapter) { a.custom = append(a.custom, adapters...) }
}

// WithMobile replaces the mobile catalog.
func WithMobile(mobile ...*wallet.MobileSource) Option {
	return func(a *Adapter) { a.mobile = mobile }
}

// New wraps reg. A nil reg behaves as an empty registry.
func New(reg standard.Registry, opts ...Option) *Adapter {
	a := &Adapter{reg: reg, mobile: wallet.MobileWallets()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Wallets returns the compatible registered wallets in registration order.
func (a *Adapter) Wallets() []*wallet.StandardSource {
	if a.reg == nil {
		return nil
	}
	return filter(a.reg.Get())
}

// OnRegister subscribes handler to newly registered compatible wallets.
// Registrations with no compatible wallet are not forwarded.
func (a *Adapter) OnRegister(handler func(wallets []*wallet.StandardSource)) (off func()) {
	return a.on(standard.EventRegister, handler)
}

// OnUnregister subscribes handler to unregistered compatible wallets.
func (a *Adapter) OnUnregister(handler func(wallets []*wallet.StandardSource)) (off func()) {
	return a.on(standard.EventUnregister, handler)
}

func (a *Adapter) on(event string, handler func([]*wallet.StandardSource)) func() {
	if a.reg == nil {
		return func() {}
	}
	return a.reg.On(event, func(ws ...standard.Wallet) {
		if sources := filter(ws); len(sources) > 0 {
			handler(sources)
		}
	})
}

// Mobile returns the mobile catalog. It is never filtered.
func (a *Adapter) Mobile() []*wallet.MobileSource {
	return slices.Clone(a.mobile)
}

// Custom returns the custom adapters as sources.
func (a *Adapter) Custom() []*wallet.CustomSource {
	out := make([]*wallet.CustomSource, 0, len(a.custom))
	for _, c := range a.custom {
		out = append(out, wallet.NewCustom(c))
	}
	return out
}

func filter(ws []standard.Wallet) []*wallet.StandardSource {
	out := make([]*wallet.StandardSource, 0, len(ws))
	for _, w := range ws {
		if Compatible(w) {
			out = append(out, wallet.NewStandard(w))
		}
	}
	return out
}
