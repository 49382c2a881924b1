package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the monitor settings.
type Config struct {
	// AnalyticsURL is the backend endpoint returning one JSON snapshot per call.
	AnalyticsURL string `mapstructure:"analytics_url" yaml:"analytics_url"`
	// VideoURL is the MJPEG stream probed for availability; empty disables probing.
	VideoURL string `mapstructure:"video_url" yaml:"video_url,omitempty"`
	// Source selects the snapshot transport: "http" or "grpc".
	Source string `mapstructure:"source" yaml:"source"`
	// GRPCAddress is the relay address used when Source is "grpc".
	GRPCAddress string `mapstructure:"grpc_address" yaml:"grpc_address,omitempty"`
	// RelayAddress, when set, exposes the latest snapshot over gRPC.
	RelayAddress string `mapstructure:"relay_address" yaml:"relay_address,omitempty"`
	// RefreshInterval is the poll cadence.
	RefreshInterval time.Duration `mapstructure:"refresh_interval" yaml:"refresh_interval"`
	// DebounceWindow is the minimum delay before the same alert fires again.
	DebounceWindow time.Duration `mapstructure:"debounce_window" yaml:"debounce_window"`
	// ProbeInterval is the video stream probe cadence.
	ProbeInterval time.Duration `mapstructure:"probe_interval" yaml:"probe_interval"`
	// Timeout bounds every network call.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// LogLevel is a zap level name.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// LogFile receives logs while the TUI owns the terminal.
	LogFile string `mapstructure:"log_file" yaml:"log_file,omitempty"`
	// Messages overrides or extends the alert catalog.
	Messages map[string]string `mapstructure:"messages" yaml:"messages,omitempty"`
	// Notifications configures the notification channels.
	Notifications Notifications `mapstructure:"notifications" yaml:"notifications"`
}

// Notifications configures audible and remote alert channels.
type Notifications struct {
	// Bell rings the terminal bell as the tone when no tone command is set.
	Bell bool `mapstructure:"bell" yaml:"bell"`
	// ToneCommand plays the alert tone, e.g. ["paplay", "alert.wav"].
	ToneCommand []string `mapstructure:"tone_command" yaml:"tone_command,omitempty"`
	// SpeechCommand speaks the message; "{message}" is substituted.
	SpeechCommand []string `mapstructure:"speech_command" yaml:"speech_command,omitempty"`
	// DisableSpeech turns speech synthesis off.
	DisableSpeech bool `mapstructure:"disable_speech" yaml:"disable_speech,omitempty"`
	// Webhook posts alert events to an HTTP endpoint.
	Webhook Webhook `mapstructure:"webhook" yaml:"webhook,omitempty"`
	// NATS publishes alert events to a NATS subject.
	NATS NATS `mapstructure:"nats" yaml:"nats,omitempty"`
}

// Webhook holds HTTP webhook settings.
type Webhook struct {
	URL    string `mapstructure:"url" yaml:"url,omitempty"`
	Secret string `mapstructure:"secret" yaml:"secret,omitempty"`
}

// NATS holds NATS publisher settings.
type NATS struct {
	URL     string `mapstructure:"url" yaml:"url,omitempty"`
	Subject string `mapstructure:"subject" yaml:"subject,omitempty"`
}

// Snapshot transports.
const (
	SourceHTTP = "http"
	SourceGRPC = "grpc"
)

const (
	// DefaultConfigFilename is the default settings file.
	DefaultConfigFilename = "proctor-monitor.yaml"
	// DefaultAnalyticsURL is where the detection backend serves analytics.
	DefaultAnalyticsURL = "http://127.0.0.1:5000/analytics"
	// DefaultRefreshInterval is the poll cadence.
	DefaultRefreshInterval = time.Second
	// DefaultDebounceWindow is the same-type re-fire threshold.
	DefaultDebounceWindow = 5 * time.Second
	// DefaultProbeInterval is the video stream probe cadence.
	DefaultProbeInterval = 10 * time.Second
	// DefaultTimeout bounds network calls.
	DefaultTimeout = 5 * time.Second
	// DefaultLogLevel is used when none is configured.
	DefaultLogLevel = "info"
	// DefaultNATSSubject prefixes published alert events.
	DefaultNATSSubject = "proctor.alerts"
	// DefaultFilePermissions is used when writing settings.
	DefaultFilePermissions = 0o600
	// EnvPrefix prefixes environment overrides, e.g. PROCTOR_ANALYTICS_URL.
	EnvPrefix = "PROCTOR"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errSourceAddressRequired is returned when the selected source has no address.
	errSourceAddressRequired = errors.New("snapshot source address must be provided")
	// errUnknownSource is returned for an unsupported source kind.
	errUnknownSource = errors.New("unknown snapshot source")
	// errNegativeInterval is returned for negative intervals.
	errNegativeInterval = errors.New("interval must be positive")
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{
		AnalyticsURL: DefaultAnalyticsURL,
		Notifications: Notifications{
			Bell: true,
		},
	}

	// Defaults cannot fail validation.
	_ = Validate(cfg)

	return cfg
}

// Load reads settings from path, applies PROCTOR_* environment overrides and
// validates the result. A missing file at the default path yields defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	path = filepath.Clean(path)

	_, statErr := os.Stat(path)

	switch {
	case statErr == nil:
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	case explicit || !errors.Is(statErr, os.ErrNotExist):
		return nil, fmt.Errorf("read settings: %w", statErr)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("analytics_url", DefaultAnalyticsURL)
	v.SetDefault("video_url", "")
	v.SetDefault("source", SourceHTTP)
	v.SetDefault("grpc_address", "")
	v.SetDefault("relay_address", "")
	v.SetDefault("refresh_interval", DefaultRefreshInterval)
	v.SetDefault("debounce_window", DefaultDebounceWindow)
	v.SetDefault("probe_interval", DefaultProbeInterval)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("notifications.bell", true)
	v.SetDefault("notifications.disable_speech", false)
	v.SetDefault("notifications.webhook.url", "")
	v.SetDefault("notifications.webhook.secret", "")
	v.SetDefault("notifications.nats.url", "")
	v.SetDefault("notifications.nats.subject", DefaultNATSSubject)
}

// Save writes settings to path as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults and checks addresses and URLs.
//
//nolint:cyclop // A flat list of checks reads better than helpers.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	if cfg.Source == "" {
		cfg.Source = SourceHTTP
	}

	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}

	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = DefaultDebounceWindow
	}

	if cfg.ProbeInterval == 0 {
		cfg.ProbeInterval = DefaultProbeInterval
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if cfg.Notifications.NATS.Subject == "" {
		cfg.Notifications.NATS.Subject = DefaultNATSSubject
	}

	if cfg.RefreshInterval < 0 {
		return fmt.Errorf("refresh_interval: %w", errNegativeInterval)
	}

	if cfg.ProbeInterval < 0 {
		return fmt.Errorf("probe_interval: %w", errNegativeInterval)
	}

	switch cfg.Source {
	case SourceHTTP:
		if cfg.AnalyticsURL == "" {
			return errSourceAddressRequired
		}

		if err := validateURL(cfg.AnalyticsURL); err != nil {
			return fmt.Errorf("invalid analytics URL: %w", err)
		}
	case SourceGRPC:
		if cfg.GRPCAddress == "" {
			return errSourceAddressRequired
		}

		if _, _, err := net.SplitHostPort(cfg.GRPCAddress); err != nil {
			return fmt.Errorf("invalid gRPC address: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownSource, cfg.Source)
	}

	if cfg.RelayAddress != "" {
		if _, _, err := net.SplitHostPort(cfg.RelayAddress); err != nil {
			return fmt.Errorf("invalid relay address: %w", err)
		}
	}

	for name, raw := range map[string]string{
		"video URL":   cfg.VideoURL,
		"webhook URL": cfg.Notifications.Webhook.URL,
	} {
		if raw == "" {
			continue
		}

		if err := validateURL(raw); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	return nil
}

// errUnsupportedScheme is returned for non-HTTP URLs.
var errUnsupportedScheme = errors.New("scheme must be http or https")

func validateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return errUnsupportedScheme
	}

	return nil
}
