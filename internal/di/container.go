package di

import (
	"context"
	"fmt"
	"time"

	"browser-expect/internal/application/port/input"
	"browser-expect/internal/application/port/output"
	"browser-expect/internal/application/service"
	"browser-expect/internal/infrastructure/browser/rod"
	"browser-expect/internal/infrastructure/logger"
)

type Container struct {
	Browser  *rod.BrowserAdapter
	Logger   output.LoggerPort
	Resolver input.ElementResolver
}

type Config struct {
	BrowserHeadless   bool
	BrowserTimeout    time.Duration
	BrowserControlURL string
	BrowserNoSandbox  bool

	LogLevel string
	LogDir   string
	LogName  string
}

// ConfigFromEnv reads BROWSER_* and LOG_* keys, falling back to the
// browser adapter defaults.
func ConfigFromEnv(cfg output.ConfigPort) Config {
	browserDefaults := rod.DefaultConfig()
	return Config{
		BrowserHeadless:   cfg.GetBool("BROWSER_HEADLESS", browserDefaults.Headless),
		BrowserTimeout:    cfg.GetDuration("BROWSER_TIMEOUT_MS", browserDefaults.Timeout),
		BrowserControlURL: cfg.Get("BROWSER_CONTROL_URL"),
		BrowserNoSandbox:  cfg.GetBool("BROWSER_NO_SANDBOX", browserDefaults.NoSandbox),
		LogLevel:          cfg.GetWithDefault("LOG_LEVEL", "info"),
		LogDir:            cfg.Get("LOG_DIR"),
	}
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{
		Level: cfg.LogLevel,
		Dir:   cfg.LogDir,
		Name:  cfg.LogName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.BrowserHeadless
	browserCfg.NoSandbox = cfg.BrowserNoSandbox
	browserCfg.ControlURL = cfg.BrowserControlURL
	if cfg.BrowserTimeout > 0 {
		browserCfg.Timeout = cfg.BrowserTimeout
	}

	browser, err := rod.NewBrowserAdapter(ctx, browserCfg)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}
	log.Debug("browser ready", "headless", browserCfg.Headless, "remote", browserCfg.ControlURL != "")

	return &Container{
		Browser:  browser,
		Logger:   log,
		Resolver: service.NewElementResolver(log),
	}, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
