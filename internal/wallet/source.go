// Package wallet normalizes the three kinds of wallet solconnect can talk
// to into one tagged union: wallet-standard wallets discovered through the
// registry, legacy adapters supplied by the application, and mobile apps
// reachable only through a deep link.
package wallet

import (
	"net/url"

	"github.com/mrz1836/solconnect/internal/standard"
)

// Kind discriminates Source variants.
type Kind string

// Source kinds.
const (
	KindStandard Kind = "standard"
	KindCustom   Kind = "custom"
	KindMobile   Kind = "mobile"
)

// Source is one wallet known to the connection store. The concrete type
// is one of *StandardSource, *CustomSource or *MobileSource.
type Source interface {
	Name() string
	Icon() string
	Kind() Kind
	sealed()
}

// StandardSource wraps a wallet-standard wallet.
type StandardSource struct {
	Wallet standard.Wallet
}

// NewStandard wraps w.
func NewStandard(w standard.Wallet) *StandardSource {
	return &StandardSource{Wallet: w}
}

func (s *StandardSource) Name() string { return s.Wallet.Name() }
func (s *StandardSource) Icon() string { return s.Wallet.Icon() }
func (s *StandardSource) Kind() Kind   { return KindStandard }
func (*StandardSource) sealed()        {}

// CustomSource wraps an application-supplied legacy adapter.
type CustomSource struct {
	Adapter Adapter
}

// NewCustom wraps a.
func NewCustom(a Adapter) *CustomSource {
	return &CustomSource{Adapter: a}
}

func (s *CustomSource) Name() string { return s.Adapter.Name() }
func (s *CustomSource) Icon() string { return s.Adapter.Icon() }
func (s *CustomSource) Kind() Kind   { return KindCustom }
func (*CustomSource) sealed()        {}

// DeepLinkFunc maps the current page location to a URL that opens the
// page inside a wallet app's browser.
type DeepLinkFunc func(location *url.URL) string

// MobileSource is a curated mobile wallet with no live connection.
type MobileSource struct {
	name     string
	icon     string
	url      string
	deepLink DeepLinkFunc
}

// NewMobile creates a mobile source. deepLink may be nil.
func NewMobile(name, icon, homepage string, deepLink DeepLinkFunc) *MobileSource {
	return &MobileSource{name: name, icon: icon, url: homepage, deepLink: deepLink}
}

func (s *MobileSource) Name() string { return s.name }
func (s *MobileSource) Icon() string { return s.icon }
func (s *MobileSource) Kind() Kind   { return KindMobile }
func (*MobileSource) sealed()        {}

// URL returns the wallet's homepage.
func (s *MobileSource) URL() string { return s.url }

// HasDeepLink reports whether the wallet supports deep links.
func (s *MobileSource) HasDeepLink() bool { return s.deepLink != nil }

// DeepLink returns the deep link for location, or false when the wallet
// has none or location is nil.
func (s *MobileSource) DeepLink(location *url.URL) (string, bool) {
	if s.deepLink == nil || location == nil {
		return "", false
	}
	return s.deepLink(location), true
}

// Names returns the names of sources in order.
func Names(sources []Source) []string {
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, s.Name())
	}
	return out
}

// Find returns the source named name.
func Find(sources []Source, name string) (Source, bool) {
	for _, s := range sources {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Merge appends the sources of add whose names are not yet in dst. The
// first source seen for a name wins.
func Merge(dst []Source, add ...Source) []Source {
	seen := make(map[string]struct{}, len(dst)+len(add))
	for _, s := range dst {
		seen[s.Name()] = struct{}{}
	}
	for _, s := range add {
		if _, ok := seen[s.Name()]; ok {
			continue
		}
		seen[s.Name()] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
