package cli

import (
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/solconnect/internal/output"
	"github.com/mrz1836/solconnect/internal/wallet"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// MobileWallet describes one entry of the mobile catalog.
type MobileWallet struct {
	Name     string `json:"name"`
	Homepage string `json:"homepage"`
	Icon     string `json:"icon"`
	DeepLink bool   `json:"deep_link"`
}

// DeepLink is the link that opens a page inside a wallet app.
type DeepLink struct {
	Wallet   string `json:"wallet"`
	Page     string `json:"page"`
	URL      string `json:"url"`
	DeepLink bool   `json:"deep_link"`
	Opened   bool   `json:"opened,omitempty"`
}

func newWalletsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "Mobile wallet catalog and deep links",
	}
	cmd.AddCommand(newWalletsMobileCmd(a), newWalletsDeepLinkCmd(a))
	return cmd
}

func newWalletsMobileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mobile",
		Short: "List the mobile wallet catalog",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			catalog := wallet.MobileWallets()
			list := make([]MobileWallet, 0, len(catalog))
			for _, m := range catalog {
				list = append(list, MobileWallet{
					Name:     m.Name(),
					Homepage: m.URL(),
					Icon:     m.Icon(),
					DeepLink: m.HasDeepLink(),
				})
			}
			return a.formatter.Emit(list, func(w io.Writer) error {
				t := output.NewTable("NAME", "HOMEPAGE", "DEEP LINK")
				for _, m := range list {
					t.AddRow(m.Name, m.Homepage, strconv.FormatBool(m.DeepLink))
				}
				return t.Render(w)
			})
		},
	}
}

func newWalletsDeepLinkCmd(a *app) *cobra.Command {
	var (
		page   string
		showQR bool
		open   bool
	)
	cmd := &cobra.Command{
		Use:   "deeplink <wallet>",
		Short: "Build the link that opens a page in a mobile wallet",
		Long: `Build the universal link that opens --url inside the named wallet's
in-app browser. Wallets without deep link support resolve to their homepage.

Example:
  solconnect wallets deeplink Phantom --url https://app.example.com/swap
  solconnect wallets deeplink solflare --url https://app.example.com --qr --open`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := findMobile(args[0])
			if err != nil {
				return err
			}
			location, err := parsePageURL(page)
			if err != nil {
				return err
			}

			link := DeepLink{Wallet: m.Name(), Page: location.String(), URL: m.URL()}
			if dl, ok := m.DeepLink(location); ok {
				link.URL = dl
				link.DeepLink = true
			}

			if open {
				if err := a.openURL(link.URL); err != nil {
					a.logger.Error("opening %s: %v", link.URL, err)
				} else {
					link.Opened = true
				}
			}

			return a.formatter.Emit(link, func(w io.Writer) error {
				out(w, "%s\n", link.URL)
				if showQR {
					output.RenderQR(w, link.URL, output.DefaultQRConfig())
				}
				if !link.DeepLink {
					out(cmd.ErrOrStderr(), "%s has no deep link; showing its homepage\n", link.Wallet)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&page, "url", "", "absolute http(s) URL of the page to open (required)")
	cmd.Flags().BoolVar(&showQR, "qr", false, "render the link as a QR code on a terminal")
	cmd.Flags().BoolVar(&open, "open", false, "open the link in the system browser")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

// findMobile looks a catalog wallet up by name, ignoring case.
func findMobile(name string) (*wallet.MobileSource, error) {
	catalog := wallet.MobileWallets()
	names := make([]string, 0, len(catalog))
	for _, m := range catalog {
		if strings.EqualFold(m.Name(), strings.TrimSpace(name)) {
			return m, nil
		}
		names = append(names, m.Name())
	}

	err := walleterr.WithDetails(walleterr.ErrWalletNotFound, map[string]string{"wallet": name})
	if s := wallet.Suggest(name, names); s != "" {
		return nil, walleterr.WithSuggestion(err, "did you mean "+s+"?")
	}
	return nil, walleterr.WithSuggestion(err, "available: "+strings.Join(names, ", "))
}

func parsePageURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, walleterr.WithSuggestion(
			walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"url": raw}),
			"pass an absolute http(s) URL, e.g. https://app.example.com",
		)
	}
	return u, nil
}
