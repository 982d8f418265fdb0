package wallet

import (
	"net/url"
)

// Mobile wallet names.
const (
	Phantom  = "Phantom"
	Solflare = "Solflare"
	Backpack = "Backpack"
	Glow     = "Glow"
)

// browseLink builds a universal link of the form
// <base>/<escaped page url>?ref=<escaped origin>.
func browseLink(base string) DeepLinkFunc {
	return func(location *url.URL) string {
		origin := url.URL{Scheme: location.Scheme, Host: location.Host}
		return base + "/" + url.QueryEscape(location.String()) +
			"?ref=" + url.QueryEscape(origin.String())
	}
}

// MobileWallets returns the curated mobile catalog in display order.
func MobileWallets() []*MobileSource {
	return []*MobileSource{
		NewMobile(Phantom, "https://phantom.app/img/phantom-logo.svg", "https://phantom.app",
			browseLink("https://phantom.app/ul/browse")),
		NewMobile(Solflare, "https://solflare.com/assets/logo.svg", "https://solflare.com",
			browseLink("https://solflare.com/ul/v1/browse")),
		NewMobile(Backpack, "https://backpack.app/icon.png", "https://backpack.app",
			browseLink("https://backpack.app/ul/v1/browse")),
		NewMobile(Glow, "https://glow.app/icon.png", "https://glow.app", nil),
	}
}

// MobileSources returns MobileWallets as Sources.
func MobileSources() []Source {
	mobile := MobileWallets()
	out := make([]Source, 0, len(mobile))
	for _, m := range mobile {
		out = append(out, m)
	}
	return out
}
