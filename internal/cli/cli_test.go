package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/solconnect/internal/chain"
	"github.com/mrz1836/solconnect/internal/config"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

const uaIOSSafari = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

var errNoBrowser = errors.New("no browser")

type fakeConn struct {
	hash solana.Hash
	err  error
}

func (c fakeConn) LatestBlockhash(context.Context) (chain.Blockhash, error) {
	return chain.Blockhash{Hash: c.hash, LastValidBlockHeight: 77}, c.err
}

type harness struct {
	t      *testing.T
	home   string
	env    map[string]string
	opened []string
	openFn func(string) error
	conn   fakeConn
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{t: t, home: t.TempDir(), env: map[string]string{}}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	a := newApp()
	a.getenv = func(k string) string { return h.env[k] }
	a.openURL = func(u string) error {
		h.opened = append(h.opened, u)
		if h.openFn != nil {
			return h.openFn(u)
		}
		return nil
	}
	a.dial = func(*config.Config) chain.Connection { return h.conn }

	root := newRootCmd(a)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--home", h.home}, args...))
	err := root.Execute()
	return stdout.String(), err
}

func (h *harness) runJSON(v any, args ...string) {
	h.t.Helper()
	out, err := h.run(append(args, "-o", "json")...)
	require.NoError(h.t, err)
	require.NoError(h.t, json.Unmarshal([]byte(out), v), out)
}

func TestEnvDetect(t *testing.T) {
	h := newHarness(t)

	var report EnvReport
	h.runJSON(&report, "env", "detect", "--user-agent", uaIOSSafari, "--width", "390")
	assert.True(t, report.Browser)
	assert.True(t, report.IOSRedirectable)
	assert.False(t, report.IOSWalletApp)
	assert.True(t, report.MobileViewport)
	assert.False(t, report.Android)

	var server EnvReport
	h.runJSON(&server, "env", "detect", "--server", "--user-agent", uaIOSSafari)
	assert.Equal(t, EnvReport{}, server)

	out, err := h.run("env", "detect", "--user-agent", uaIOSSafari, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "ios redirectable  true")
}

func TestWalletsMobile(t *testing.T) {
	h := newHarness(t)

	var list []MobileWallet
	h.runJSON(&list, "wallets", "mobile")
	require.Len(t, list, 4)
	names := make([]string, 0, len(list))
	for _, m := range list {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Phantom", "Solflare", "Backpack", "Glow"}, names)
	assert.True(t, list[0].DeepLink)
	assert.False(t, list[3].DeepLink)

	out, err := h.run("wallets", "mobile", "-o", "text")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "NAME"))
	assert.Contains(t, out, "https://glow.app")
}

func TestWalletsDeepLink(t *testing.T) {
	t.Run("phantom", func(t *testing.T) {
		h := newHarness(t)
		var link DeepLink
		h.runJSON(&link, "wallets", "deeplink", "phantom", "--url", "https://app.example.com/swap")
		assert.Equal(t, "Phantom", link.Wallet)
		assert.True(t, link.DeepLink)
		assert.Equal(t, "https://phantom.app/ul/browse/https%3A%2F%2Fapp.example.com%2Fswap?ref=https%3A%2F%2Fapp.example.com", link.URL)
		assert.Empty(t, h.opened)
	})

	t.Run("no deep link", func(t *testing.T) {
		h := newHarness(t)
		var link DeepLink
		h.runJSON(&link, "wallets", "deeplink", "Glow", "--url", "https://app.example.com")
		assert.False(t, link.DeepLink)
		assert.Equal(t, "https://glow.app", link.URL)
	})

	t.Run("open", func(t *testing.T) {
		h := newHarness(t)
		var link DeepLink
		h.runJSON(&link, "wallets", "deeplink", "Solflare", "--url", "https://app.example.com", "--open")
		assert.True(t, link.Opened)
		assert.Equal(t, []string{link.URL}, h.opened)
		assert.True(t, strings.HasPrefix(link.URL, "https://solflare.com/ul/v1/browse/"))
	})

	t.Run("open failure is not fatal", func(t *testing.T) {
		h := newHarness(t)
		h.openFn = func(string) error { return errNoBrowser }
		var link DeepLink
		h.runJSON(&link, "wallets", "deeplink", "Backpack", "--url", "https://app.example.com", "--open")
		assert.False(t, link.Opened)
		assert.Len(t, h.opened, 1)
	})

	t.Run("typo", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("wallets", "deeplink", "Phantm", "--url", "https://app.example.com")
		require.ErrorIs(t, err, walleterr.ErrWalletNotFound)
		var we *walleterr.WalletError
		require.ErrorAs(t, err, &we)
		assert.Equal(t, "did you mean Phantom?", we.Suggestion)
		assert.Equal(t, walleterr.ExitNotFound, ExitCode(err))
	})

	t.Run("unknown", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("wallets", "deeplink", "Ledger", "--url", "https://app.example.com")
		var we *walleterr.WalletError
		require.ErrorAs(t, err, &we)
		assert.Equal(t, "available: Phantom, Solflare, Backpack, Glow", we.Suggestion)
	})

	t.Run("bad url", func(t *testing.T) {
		h := newHarness(t)
		for _, u := range []string{"app.example.com", "ftp://app.example.com", "https://"} {
			_, err := h.run("wallets", "deeplink", "Phantom", "--url", u)
			require.ErrorIs(t, err, walleterr.ErrInvalidInput, u)
		}
	})

	t.Run("url required", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("wallets", "deeplink", "Phantom")
		require.Error(t, err)
	})
}

func TestSession(t *testing.T) {
	t.Run("file round trip", func(t *testing.T) {
		h := newHarness(t)

		var status SessionStatus
		h.runJSON(&status, "session", "show")
		assert.Empty(t, status.Wallet)
		assert.Equal(t, config.StorageFile, status.Storage)
		assert.Equal(t, config.DefaultStorageKey, status.Key)
		assert.Equal(t, filepath.Join(h.home, "session.json"), status.Path)

		h.runJSON(&status, "session", "set", "Solflare")
		assert.Equal(t, "Solflare", status.Wallet)

		var shown SessionStatus
		h.runJSON(&shown, "session", "show")
		assert.Equal(t, "Solflare", shown.Wallet)

		h.runJSON(&status, "session", "clear")
		h.runJSON(&shown, "session", "show")
		assert.Empty(t, shown.Wallet)
	})

	t.Run("encrypted file", func(t *testing.T) {
		h := newHarness(t)
		cfg := config.Defaults()
		cfg.Home = h.home
		cfg.Session.File = filepath.Join(h.home, "session.age")
		cfg.Session.PassphraseEnv = "SOLCONNECT_TEST_PASSPHRASE"
		cfg.Logging.Level = "off"
		cfg.Logging.File = filepath.Join(h.home, "solconnect.log")
		require.NoError(t, config.Save(cfg, config.Path(h.home)))

		_, err := h.run("session", "show")
		require.ErrorIs(t, err, walleterr.ErrConfigInvalid)

		h.env["SOLCONNECT_TEST_PASSPHRASE"] = "correct horse"
		var status SessionStatus
		h.runJSON(&status, "session", "set", "Phantom")
		assert.Equal(t, "Phantom", status.Wallet)

		raw, err := os.ReadFile(cfg.Session.File)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "Phantom")

		h.runJSON(&status, "session", "show")
		assert.Equal(t, "Phantom", status.Wallet)
	})

	t.Run("text", func(t *testing.T) {
		h := newHarness(t)
		out, err := h.run("session", "show", "-o", "text")
		require.NoError(t, err)
		assert.Equal(t, "No wallet persisted (file key \"walletName\")\n", out)
	})
}

func TestConfig(t *testing.T) {
	t.Run("path", func(t *testing.T) {
		h := newHarness(t)
		out, err := h.run("config", "path", "-o", "text")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(h.home, "config.yaml")+"\n", out)
	})

	t.Run("show with cluster flag", func(t *testing.T) {
		h := newHarness(t)
		var cfg config.Config
		h.runJSON(&cfg, "config", "show", "--cluster", "testnet")
		assert.Equal(t, "testnet", cfg.Cluster)
		assert.Equal(t, h.home, cfg.Home)
	})

	t.Run("invalid cluster", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("config", "show", "--cluster", "localnet")
		require.ErrorIs(t, err, walleterr.ErrConfigInvalid)
	})

	t.Run("invalid format", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("config", "show", "-o", "xml")
		require.ErrorIs(t, err, walleterr.ErrInvalidInput)
	})

	t.Run("init", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run("config", "init")
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(h.home, "config.yaml"))
		require.NoError(t, err)

		_, err = h.run("config", "init")
		require.ErrorIs(t, err, walleterr.ErrInvalidInput)

		_, err = h.run("config", "init", "--force")
		require.NoError(t, err)
	})

	t.Run("show text is yaml", func(t *testing.T) {
		h := newHarness(t)
		out, err := h.run("config", "show", "-o", "text")
		require.NoError(t, err)
		assert.Contains(t, out, "cluster: devnet")
		assert.Contains(t, out, "storage_key: walletName")
	})
}

func TestBlockhash(t *testing.T) {
	h := newHarness(t)
	h.conn = fakeConn{hash: solana.Hash{1, 2, 3}}

	var report BlockhashReport
	h.runJSON(&report, "blockhash", "--cluster", "mainnet-beta")
	assert.Equal(t, "mainnet-beta", report.Cluster)
	assert.Equal(t, chain.MainnetBeta.Endpoint(), report.Endpoint)
	assert.Equal(t, solana.Hash{1, 2, 3}.String(), report.Blockhash)
	assert.Equal(t, uint64(77), report.LastValidBlockHeight)

	h.conn = fakeConn{err: walleterr.ErrNetworkError}
	_, err := h.run("blockhash")
	require.ErrorIs(t, err, walleterr.ErrNetworkError)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	var info VersionInfo
	h.runJSON(&info, "version")
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.Go)
}

func TestStatus(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("session", "set", "Phantom")
	require.NoError(t, err)

	var server StatusReport
	h.runJSON(&server, "status")
	assert.Equal(t, "devnet", server.Cluster)
	assert.Equal(t, "Phantom", server.Persisted)
	assert.True(t, server.AutoConnect)
	assert.Empty(t, server.Wallets)
	assert.Empty(t, server.Connected)

	var ios StatusReport
	h.runJSON(&ios, "status", "--user-agent", uaIOSSafari, "--width", "390", "--cluster", "testnet")
	assert.Equal(t, "testnet", ios.Cluster)
	assert.Equal(t, []string{"Phantom", "Solflare", "Backpack", "Glow"}, ios.Wallets)
	assert.Empty(t, ios.Connected)

	// The persisted name is left alone when the wallet is not offered.
	var status SessionStatus
	h.runJSON(&status, "session", "show")
	assert.Equal(t, "Phantom", status.Wallet)
}

func TestStatus_UsesConfiguredPolicyAndKey(t *testing.T) {
	h := newHarness(t)
	cfg := config.Defaults()
	cfg.Home = h.home
	cfg.Session.File = filepath.Join(h.home, "session.json")
	cfg.Session.StorageKey = "lastWallet"
	cfg.Policy.AutoConnect = false
	cfg.Logging.Level = "off"
	cfg.Logging.File = filepath.Join(h.home, "solconnect.log")
	require.NoError(t, config.Save(cfg, config.Path(h.home)))

	var status SessionStatus
	h.runJSON(&status, "session", "set", "Solflare")
	assert.Equal(t, "lastWallet", status.Key)

	var report StatusReport
	h.runJSON(&report, "status")
	assert.Equal(t, "Solflare", report.Persisted)
	assert.False(t, report.AutoConnect)
}
