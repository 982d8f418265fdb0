package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/solconnect/internal/env"
	"github.com/mrz1836/solconnect/internal/output"
)

// EnvReport is the classification of one runtime.
type EnvReport struct {
	Browser         bool   `json:"browser"`
	UserAgent       string `json:"user_agent,omitempty"`
	ScreenWidth     int    `json:"screen_width,omitempty"`
	Android         bool   `json:"android"`
	WebView         bool   `json:"webview"`
	MobileViewport  bool   `json:"mobile_viewport"`
	IOSRedirectable bool   `json:"ios_redirectable"`
	IOSWalletApp    bool   `json:"ios_wallet_app"`
}

func newEnvReport(p env.Platform) EnvReport {
	return EnvReport{
		Browser:         p.Browser,
		UserAgent:       p.UserAgent,
		ScreenWidth:     p.ScreenWidth,
		Android:         p.IsAndroid(),
		WebView:         p.IsWebView(),
		MobileViewport:  p.IsMobileViewport(),
		IOSRedirectable: p.IsIOSAndRedirectable(),
		IOSWalletApp:    p.IsIOSAndWalletApp(),
	}
}

func newEnvCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Inspect runtime detection",
	}

	var (
		userAgent string
		width     int
		server    bool
	)
	detect := &cobra.Command{
		Use:   "detect",
		Short: "Classify a user agent",
		Long: `Classify a user agent and screen width the way the connection layer does.

On iOS Safari only the mobile wallet catalog is offered and selections
redirect into the wallet app. Inside an iOS wallet app the first
discovered wallet is selected automatically.

Example:
  solconnect env detect --user-agent "Mozilla/5.0 (iPhone; ...) Safari/604.1" --width 390
  solconnect env detect --server`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := env.Browser(userAgent, width)
			if server {
				p = env.Server()
			}
			report := newEnvReport(p)
			a.logger.Debug("classified %q (width %d)", userAgent, width)
			return a.formatter.Emit(report, func(w io.Writer) error {
				return envTable(report).Render(w)
			})
		},
	}
	detect.Flags().StringVar(&userAgent, "user-agent", "", "navigator user-agent string")
	detect.Flags().IntVar(&width, "width", 0, "screen width in CSS pixels (0 if unknown)")
	detect.Flags().BoolVar(&server, "server", false, "classify a context without a browser")

	cmd.AddCommand(detect)
	return cmd
}

func envTable(r EnvReport) *output.Table {
	t := output.NewTable("CHECK", "RESULT")
	t.AddRow("browser", strconv.FormatBool(r.Browser))
	if r.ScreenWidth > 0 {
		t.AddRow("screen width", fmt.Sprintf("%dpx", r.ScreenWidth))
	}
	t.AddRow("android", strconv.FormatBool(r.Android))
	t.AddRow("webview", strconv.FormatBool(r.WebView))
	t.AddRow("mobile viewport", strconv.FormatBool(r.MobileViewport))
	t.AddRow("ios redirectable", strconv.FormatBool(r.IOSRedirectable))
	t.AddRow("ios wallet app", strconv.FormatBool(r.IOSWalletApp))
	return t
}
