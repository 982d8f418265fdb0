package env

import (
	"net/url"
	"sync"
)

// Host is the page hosting the wallet session.
type Host interface {
	// Location returns the current page URL, or nil without a page.
	Location() *url.URL
	// Navigate replaces the current page with rawURL.
	Navigate(rawURL string)
	// Open opens rawURL in a new tab.
	Open(rawURL string)
	// OnUnload registers fn to run before the page unloads and returns a
	// function removing it.
	OnUnload(fn func()) (remove func())
}

// Headless is a Host with no page. Navigation is dropped.
type Headless struct{}

// Location returns nil.
func (Headless) Location() *url.URL { return nil }

// Navigate does nothing.
func (Headless) Navigate(string) {}

// Open does nothing.
func (Headless) Open(string) {}

// OnUnload never fires.
func (Headless) OnUnload(func()) func() { return func() {} }

// RecordingHost is an in-memory Host that records navigation and lets the
// caller fire the unload event.
type RecordingHost struct {
	mu        sync.Mutex
	location  *url.URL
	navigated []string
	opened    []string
	nextID    int
	unload    map[int]func()
	openFn    func(string) error
}

// NewRecordingHost creates a host whose page is at location.
func NewRecordingHost(location string) *RecordingHost {
	u, _ := url.Parse(location)
	return &RecordingHost{location: u, unload: make(map[int]func())}
}

// WithOpener forwards Open calls to fn, for example a system browser.
func (h *RecordingHost) WithOpener(fn func(string) error) *RecordingHost {
	h.openFn = fn
	return h
}

// Location returns the page URL.
func (h *RecordingHost) Location() *url.URL {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.location == nil {
		return nil
	}
	u := *h.location
	return &u
}

// Navigate records a full-page navigation.
func (h *RecordingHost) Navigate(rawURL string) {
	h.mu.Lock()
	h.navigated = append(h.navigated, rawURL)
	h.mu.Unlock()
}

// Open records a new-tab open and forwards it to the opener, if any.
func (h *RecordingHost) Open(rawURL string) {
	h.mu.Lock()
	h.opened = append(h.opened, rawURL)
	fn := h.openFn
	h.mu.Unlock()
	if fn != nil {
		_ = fn(rawURL)
	}
}

// OnUnload registers an unload listener.
func (h *RecordingHost) OnUnload(fn func()) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.unload[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.unload, id)
		h.mu.Unlock()
	}
}

// Unload fires every registered unload listener.
func (h *RecordingHost) Unload() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.unload))
	for _, fn := range h.unload {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Navigated returns every Navigate target in order.
func (h *RecordingHost) Navigated() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.navigated...)
}

// Opened returns every Open target in order.
func (h *RecordingHost) Opened() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.opened...)
}

// UnloadListeners returns the number of registered unload listeners.
func (h *RecordingHost) UnloadListeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.unload)
}
