// Package browser drives a Chrome tab through the DevTools protocol and
// exposes it to the hint machine.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/chromedp/cdproto/page"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/lance13c/vimnav/internal/logging"
)

// scriptTimeout bounds every evaluation in the page
const scriptTimeout = 5 * time.Second

// Options configure how Chrome is reached
type Options struct {
	ChromePath string
	// RemoteURL attaches to a running browser's DevTools endpoint
	RemoteURL string
	Headless  bool
	Width     int
	Height    int
}

// Manager owns one Chrome tab
type Manager struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	opts        Options
}

// findChrome attempts to find a Chrome executable
func findChrome() (string, error) {
	var paths []string

	switch runtime.GOOS {
	case "darwin":
		paths = []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
		}
	case "linux":
		paths = []string{
			"google-chrome",
			"google-chrome-stable",
			"chromium",
			"chromium-browser",
		}
	case "windows":
		paths = []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files\Chromium\Application\chrome.exe`,
		}
	}

	for _, path := range paths {
		if runtime.GOOS == "darwin" {
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
			continue
		}
		if found, err := exec.LookPath(path); err == nil {
			return found, nil
		}
	}

	if path, err := exec.LookPath("chrome"); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("Chrome browser not found. Please install Chrome, Chromium, or Brave, or set browser.chrome_path")
}

// NewManager launches Chrome, or attaches to it when opts.RemoteURL is set
func NewManager(opts Options) (*Manager, error) {
	var allocCtx context.Context
	var allocCancel context.CancelFunc

	if opts.RemoteURL != "" {
		logging.Info("Connecting to Chrome at %s", opts.RemoteURL)
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)
	} else {
		chromePath := opts.ChromePath
		if chromePath == "" {
			var err error
			if chromePath, err = findChrome(); err != nil {
				return nil, err
			}
		}
		logging.Info("Using Chrome from: %s (headless=%v)", chromePath, opts.Headless)

		execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(chromePath),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.Flag("disable-popup-blocking", true),
		)
		if !opts.Headless {
			execOpts = append(execOpts, chromedp.Flag("headless", false))
		}
		if opts.Width > 0 && opts.Height > 0 {
			execOpts = append(execOpts, chromedp.WindowSize(opts.Width, opts.Height))
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), execOpts...)
	}

	ctx, cancel := chromedp.NewContext(
		allocCtx,
		chromedp.WithLogf(func(format string, v ...interface{}) {
			logging.Debug("[Chrome] "+format, v...)
		}),
	)

	// the first Run starts the browser; a timeout here would kill it later
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start Chrome: %w", err)
	}

	return &Manager{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         ctx,
		cancel:      cancel,
		opts:        opts,
	}, nil
}

// Done is closed when the browser goes away
func (m *Manager) Done() <-chan struct{} {
	return m.ctx.Done()
}

// Navigate loads url in the tab
func (m *Manager) Navigate(url string) error {
	if err := chromedp.Run(m.ctx, chromedp.Navigate(url)); err != nil {
		if m.ctx.Err() != nil {
			return fmt.Errorf("Chrome context was cancelled")
		}
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// PageInfo returns the current URL and title
func (m *Manager) PageInfo() (url string, title string, err error) {
	ctx, cancel := context.WithTimeout(m.ctx, scriptTimeout)
	defer cancel()

	err = chromedp.Run(ctx,
		chromedp.Location(&url),
		chromedp.Title(&title),
	)
	return url, title, err
}

// Evaluate runs an expression in the page and decodes its result
func (m *Manager) Evaluate(script string, result interface{}) error {
	ctx, cancel := context.WithTimeout(m.ctx, scriptTimeout)
	defer cancel()

	return chromedp.Run(ctx, chromedp.Evaluate(script, result))
}

// Call invokes fn, a JavaScript function expression, with arg encoded as
// JSON. userGesture marks the call as user initiated so the page allows
// popups and focus changes.
func (m *Manager) Call(fn string, arg interface{}, result interface{}, userGesture bool) error {
	payload, err := json.Marshal(arg)
	if err != nil {
		return fmt.Errorf("failed to encode script argument: %w", err)
	}
	expr := fmt.Sprintf("(%s)(%s)", fn, payload)

	ctx, cancel := context.WithTimeout(m.ctx, scriptTimeout)
	defer cancel()

	var opts []chromedp.EvaluateOption
	if userGesture {
		opts = append(opts, func(p *cdpruntime.EvaluateParams) *cdpruntime.EvaluateParams {
			return p.WithUserGesture(true)
		})
	}
	return chromedp.Run(ctx, chromedp.Evaluate(expr, result, opts...))
}

// Listen registers fn for every protocol event of the tab
func (m *Manager) Listen(fn func(ev interface{})) {
	chromedp.ListenTarget(m.ctx, fn)
}

// Install exposes binding to the page and runs script now and in every
// document loaded later
func (m *Manager) Install(script, binding string) error {
	return chromedp.Run(m.ctx,
		cdpruntime.Enable(),
		page.Enable(),
		cdpruntime.AddBinding(binding),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(script).Do(ctx)
			return err
		}),
		chromedp.Evaluate(script, nil),
	)
}

// Close shuts the tab and, for launched browsers, Chrome itself
func (m *Manager) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}
}
