package storage

import "errors"

// SessionKey reads and writes a single persisted value. Storage errors are
// logged and never returned.
type SessionKey struct {
	store  Store
	key    string
	logger Logger
}

// NewSessionKey binds key in store. A nil logger discards messages.
func NewSessionKey(store Store, key string, logger Logger) *SessionKey {
	if logger == nil {
		logger = nopLogger{}
	}
	return &SessionKey{store: store, key: key, logger: logger}
}

// Key returns the storage key name.
func (s *SessionKey) Key() string {
	return s.key
}

// Get returns the persisted value, or "" when absent or unreadable.
func (s *SessionKey) Get() string {
	if s.store == nil {
		return ""
	}
	v, err := s.store.Get(s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("reading %q from storage: %v", s.key, err)
		}
		return ""
	}
	return v
}

// Set persists value. An empty value clears the key.
func (s *SessionKey) Set(value string) {
	if s.store == nil {
		return
	}

	var err error
	if value == "" {
		err = s.store.Delete(s.key)
	} else {
		err = s.store.Set(s.key, value)
	}
	if err != nil {
		s.logger.Error("writing %q to storage: %v", s.key, err)
		return
	}
	s.logger.Debug("stored %q=%q", s.key, value)
}

// Clear removes the persisted value.
func (s *SessionKey) Clear() {
	s.Set("")
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
