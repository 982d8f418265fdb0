// Package env classifies the runtime a wallet session runs in and models
// the hosting page the session can navigate.
package env

import (
	"regexp"
	"strings"
)

// MobileViewportMaxWidth is the widest screen treated as a phone.
const MobileViewportMaxWidth = 480

var (
	androidPattern = regexp.MustCompile(`(?i)android`)

	// Matches the WebView token, Chrome-in-webview on Android (`; wv)`), and
	// the Version/x Chrome/a.b.c.d signature used by embedded browsers.
	webViewPattern = regexp.MustCompile(`(?i)(WebView|Version/.+(Chrome)/(\d+)\.(\d+)\.(\d+)\.(\d+)|; wv\).+(Chrome)/(\d+)\.(\d+)\.(\d+)\.(\d+))`)
)

// IsOnAndroid reports whether ua belongs to an Android device.
func IsOnAndroid(ua string) bool {
	return androidPattern.MatchString(ua)
}

// IsInWebView reports whether ua belongs to an in-app webview.
func IsInWebView(ua string) bool {
	return webViewPattern.MatchString(ua)
}

// IsIOS reports whether ua belongs to an iPhone or iPad.
func IsIOS(ua string) bool {
	ua = strings.ToLower(ua)
	return strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad")
}

// IsSafari reports whether ua advertises Safari.
func IsSafari(ua string) bool {
	return strings.Contains(strings.ToLower(ua), "safari")
}

// Platform describes the runtime. The zero value is a server-side render
// with no browser context, for which every classifier returns false.
type Platform struct {
	// Browser is true when a window/navigator exists.
	Browser bool
	// UserAgent is the navigator's user-agent string.
	UserAgent string
	// ScreenWidth is the reported screen width in CSS pixels; 0 if unknown.
	ScreenWidth int
}

// Server returns the platform for a context without a browser.
func Server() Platform {
	return Platform{}
}

// Browser returns a browser platform with the given user agent and width.
func Browser(ua string, width int) Platform {
	return Platform{Browser: true, UserAgent: ua, ScreenWidth: width}
}

// IsIOSAndRedirectable is true for iOS Safari, where users can be sent to a
// wallet app through a universal link.
func (p Platform) IsIOSAndRedirectable() bool {
	return p.Browser && IsIOS(p.UserAgent) && IsSafari(p.UserAgent)
}

// IsIOSAndWalletApp is true for iOS browsers that are not Safari, which in
// practice means a wallet app's embedded browser.
func (p Platform) IsIOSAndWalletApp() bool {
	return p.Browser && IsIOS(p.UserAgent) && !IsSafari(p.UserAgent)
}

// IsMobileViewport is true when a screen width of at most 480px is reported.
func (p Platform) IsMobileViewport() bool {
	return p.Browser && p.ScreenWidth > 0 && p.ScreenWidth <= MobileViewportMaxWidth
}

// IsAndroid reports whether the platform is an Android browser.
func (p Platform) IsAndroid() bool {
	return p.Browser && IsOnAndroid(p.UserAgent)
}

// IsWebView reports whether the platform is an in-app webview.
func (p Platform) IsWebView() bool {
	return p.Browser && IsInWebView(p.UserAgent)
}
