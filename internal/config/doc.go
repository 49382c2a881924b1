// Package config defines the monitor settings and provides helpers to load,
// validate and save them.
//
// Settings are read from a YAML file through viper, so every key can also be
// overridden with a PROCTOR_* environment variable (PROCTOR_ANALYTICS_URL,
// PROCTOR_NOTIFICATIONS_WEBHOOK_URL, ...). Save writes YAML with yaml.v3 and is
// used by the init-config command.
package config
