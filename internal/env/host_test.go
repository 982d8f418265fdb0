package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/solconnect/internal/env"
)

func TestRecordingHost(t *testing.T) {
	t.Parallel()
	var forwarded []string
	h := env.NewRecordingHost("https://dapp.example/swap?x=1").WithOpener(func(u string) error {
		forwarded = append(forwarded, u)
		return nil
	})

	loc := h.Location()
	require.NotNil(t, loc)
	assert.Equal(t, "dapp.example", loc.Host)

	// Location returns a copy.
	loc.Host = "changed"
	assert.Equal(t, "dapp.example", h.Location().Host)

	h.Navigate("https://phantom.app/ul/browse/x")
	h.Open("https://solflare.com")
	assert.Equal(t, []string{"https://phantom.app/ul/browse/x"}, h.Navigated())
	assert.Equal(t, []string{"https://solflare.com"}, h.Opened())
	assert.Equal(t, []string{"https://solflare.com"}, forwarded)
}

func TestRecordingHost_Unload(t *testing.T) {
	t.Parallel()
	h := env.NewRecordingHost("https://dapp.example")
	fired := 0
	removeA := h.OnUnload(func() { fired++ })
	h.OnUnload(func() { fired++ })
	assert.Equal(t, 2, h.UnloadListeners())

	removeA()
	h.Unload()
	assert.Equal(t, 1, fired)
	assert.Equal(t, 1, h.UnloadListeners())
}

func TestHeadless(t *testing.T) {
	t.Parallel()
	var h env.Host = env.Headless{}
	assert.Nil(t, h.Location())
	h.Navigate("x")
	h.Open("y")
	h.OnUnload(func() {})()
}
