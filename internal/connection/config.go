package connection

import (
	"github.com/mrz1836/solconnect/internal/config"
	"github.com/mrz1836/solconnect/internal/storage"
)

// OptionsFromConfig builds the configured part of Options: cluster, policy
// and the persisted session key in the configured backend. The caller
// supplies Registry, Bus, Host, Platform and Metrics.
func OptionsFromConfig(cfg *config.Config, getenv func(string) string, logger Logger) (Options, error) {
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}
	store, _, err := storage.Open(cfg.Session, getenv)
	if err != nil {
		return Options{}, err
	}

	autoConnect := AutoConnectNever
	if cfg.Policy.AutoConnect {
		autoConnect = AutoConnectAlways
	}

	return Options{
		Session:                   storage.NewSessionKey(store, cfg.Session.StorageKey, logger),
		Cluster:                   cfg.GetCluster(),
		Logger:                    logger,
		AutoConnect:               autoConnect,
		DisconnectOnAccountChange: cfg.Policy.DisconnectOnAccountChange,
		OpenInstallPage:           cfg.Policy.OpenInstallPage,
	}, nil
}
