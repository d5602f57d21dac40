package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"browser-expect/internal/application/port/input"
	"browser-expect/internal/application/port/output"
	"browser-expect/internal/application/service"
	"browser-expect/internal/di"
	"browser-expect/internal/domain/entity"
	"browser-expect/internal/infrastructure/browser/htmlclean"
	"browser-expect/internal/infrastructure/browser/rod"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	expected      string
	timeout       time.Duration
	state         string
	headless      bool
	html          bool
	screenshotDir string
	debug         bool
}

func newRootCmd(cfg output.ConfigPort, stdout io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "resolve URL [SELECTOR]",
		Short: "Resolve the element a matcher would assert against",
		Long: `Opens URL in a browser and resolves the element a text matcher would see:
the page body when no selector is given, otherwise the first element matching
SELECTOR once it is visible.`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, cfg, opts, args, stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.expected, "expected", "", "expected value carried into the resolution")
	flags.DurationVar(&opts.timeout, "timeout", cfg.GetDuration("EXPECT_WAIT_TIMEOUT_MS", entity.DefaultWaitTimeout), "how long to wait for SELECTOR")
	flags.StringVar(&opts.state, "state", "", "element state to wait for: visible or attached")
	flags.BoolVar(&opts.headless, "headless", true, "run the browser headless")
	flags.BoolVar(&opts.html, "html", false, "print the cleaned element HTML")
	flags.StringVar(&opts.screenshotDir, "screenshot-dir", "", "write a screenshot here when the selector wait times out")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	return cmd
}

func runResolve(cmd *cobra.Command, cfg output.ConfigPort, opts *rootOptions, args []string, stdout io.Writer) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	containerCfg := di.ConfigFromEnv(cfg)
	containerCfg.LogName = args[0]
	if opts.debug {
		containerCfg.LogLevel = "debug"
	}
	if cmd.Flags().Changed("headless") {
		containerCfg.BrowserHeadless = opts.headless
	}

	container, err := di.NewContainer(ctx, containerCfg)
	if err != nil {
		return err
	}
	defer container.Close()

	page, err := container.Browser.OpenPage(ctx, args[0])
	if err != nil {
		return err
	}
	container.Logger.Info("page opened", "url", args[0])

	res, err := resolve(ctx, container.Resolver, page, args[1:], opts)
	if err != nil {
		if errors.Is(err, service.ErrSelectorTimeout) && opts.screenshotDir != "" {
			path, shotErr := saveScreenshot(ctx, page, opts.screenshotDir)
			if shotErr != nil {
				container.Logger.Warn("failure screenshot not saved", "error", shotErr.Error())
			} else {
				container.Logger.Info("failure screenshot saved", "path", path)
			}
		}
		return err
	}

	return printResolution(ctx, stdout, res, opts.html)
}

// resolve uses the single-entry dispatcher unless wait options were
// customised, which only the explicit selector call accepts.
func resolve(ctx context.Context, resolver input.ElementResolver, page output.PagePort, selectorArgs []string, opts *rootOptions) (*input.Resolution, error) {
	if len(selectorArgs) == 0 {
		return resolver.GetElementText(ctx, page, opts.expected)
	}

	selector := selectorArgs[0]
	waitOpts := entity.WaitOptions{Timeout: opts.timeout, State: entity.ElementState(opts.state)}
	if waitOpts.Timeout == entity.DefaultWaitTimeout && waitOpts.State == "" {
		return resolver.GetElementText(ctx, page, selector, opts.expected)
	}
	return resolver.ResolveBySelector(ctx, page, selector, opts.expected, waitOpts)
}

func printResolution(ctx context.Context, w io.Writer, res *input.Resolution, withHTML bool) error {
	if res.HasSelector {
		fmt.Fprintf(w, "selector: %s\n", res.Selector)
	} else {
		fmt.Fprintln(w, "selector: (none)")
	}
	fmt.Fprintf(w, "expected: %s\n", service.Quote(res.ExpectedValue))

	if res.Element == nil {
		fmt.Fprintln(w, "element:  not found")
		return nil
	}
	fmt.Fprintf(w, "element:  %s\n", res.Element.Kind())

	raw, err := res.Element.HTML(ctx)
	if err != nil {
		return fmt.Errorf("read element html: %w", err)
	}

	text, err := res.Element.Text(ctx)
	if err != nil {
		if text, err = htmlclean.VisibleText(raw, nil); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "text:     %s\n", service.Quote(text))

	if withHTML {
		cleaned, err := htmlclean.Clean(raw, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "html:\n%s\n", cleaned)
	}
	return nil
}

func saveScreenshot(ctx context.Context, page *rod.PageHandle, dir string) (string, error) {
	shot, err := page.Screenshot(ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("timeout-%s.%s", uuid.NewString(), shot.Format))
	if err := os.WriteFile(path, shot.Data, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path, nil
}
