package cli

import (
	"github.com/pkg/browser"

	"github.com/mrz1836/solconnect/internal/chain"
	"github.com/mrz1836/solconnect/internal/config"
)

func openInBrowser(rawURL string) error {
	return browser.OpenURL(rawURL)
}

func dialRPC(cfg *config.Config) chain.Connection {
	return chain.NewRPCConnection(cfg.GetRPCURL(),
		chain.WithRateLimiter(chain.NewRateLimiter(cfg.RPC.RateLimit, cfg.RPC.Burst)))
}
