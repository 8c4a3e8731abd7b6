package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
)

// Client records usage events.
type Client interface {
	// Track enqueues an event without blocking. No-op when disabled.
	Track(event string, properties Properties)

	// Close flushes pending events.
	Close() error
}

// Properties are event attributes.
type Properties = map[string]any

// enqueuer is the part of the PostHog client we use.
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// PostHogClient sends events to PostHog.
type PostHogClient struct {
	mu      sync.Mutex
	client  enqueuer
	config  *Config
	version string
	closed  bool
}

// ClientConfig configures NewClient.
type ClientConfig struct {
	APIKey   string
	Endpoint string // empty uses PostHog cloud
	Version  string
	Config   *Config
}

// NewClient returns a PostHog client when telemetry is enabled and an API
// key is configured, otherwise a NoopClient.
func NewClient(cfg ClientConfig) (Client, error) {
	if cfg.APIKey == "" || !cfg.Config.IsEnabled() {
		return NoopClient{}, nil
	}

	phConfig := posthog.Config{
		BatchSize: 10,
		Interval:  time.Second,
		Logger:    quietLogger{},
	}
	if cfg.Endpoint != "" {
		phConfig.Endpoint = cfg.Endpoint
	}

	ph, err := posthog.NewWithConfig(cfg.APIKey, phConfig)
	if err != nil {
		return nil, err
	}
	return newPostHogClient(ph, cfg.Config, cfg.Version), nil
}

func newPostHogClient(enq enqueuer, cfg *Config, version string) *PostHogClient {
	return &PostHogClient{client: enq, config: cfg, version: version}
}

func (c *PostHogClient) Track(event string, properties Properties) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.config.IsEnabled() {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("cli_version", c.version)
	props.Set("$process_person_profile", false)

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.config.AnonymousID,
		Event:      event,
		Properties: props,
	})
}

func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

// NoopClient drops every event.
type NoopClient struct{}

func (NoopClient) Track(string, Properties) {}
func (NoopClient) Close() error             { return nil }

// quietLogger keeps PostHog transport warnings out of CLI output.
type quietLogger struct{}

func (quietLogger) Debugf(string, ...interface{}) {}
func (quietLogger) Logf(string, ...interface{})   {}
func (quietLogger) Warnf(string, ...interface{})  {}
func (quietLogger) Errorf(string, ...interface{}) {}
