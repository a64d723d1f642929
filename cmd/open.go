package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lance13c/vimnav/internal/app"
	"github.com/lance13c/vimnav/internal/browser"
	"github.com/lance13c/vimnav/internal/config"
	"github.com/lance13c/vimnav/internal/logging"
	"github.com/lance13c/vimnav/internal/ui"
	"github.com/lance13c/vimnav/internal/watcher"
)

var openCmd = &cobra.Command{
	Use:   "open [url]",
	Short: "Open a page in Chrome with keyboard hints",
	Long: `Launch Chrome (or attach to a running one with --remote) and load url,
or browser.start_url when none is given. Press f to label every clickable
element, F to open the choice in a new tab, and Esc to cancel.

On a terminal a status view shows the labels and notices; keys typed there
go to the page as well. Changes to the config file apply immediately.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

var (
	openHeadless bool
	openRemote   string
	openNoTUI    bool
)

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().BoolVar(&openHeadless, "headless", false, "run Chrome without a window")
	openCmd.Flags().StringVar(&openRemote, "remote", "", "DevTools URL of a running Chrome")
	openCmd.Flags().BoolVar(&openNoTUI, "no-tui", false, "do not show the terminal view")
}

func runOpen(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = openHeadless
	}
	if openRemote != "" {
		cfg.Browser.RemoteURL = openRemote
	}

	url := cfg.Browser.StartURL
	if len(args) == 1 {
		url = args[0]
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	interactive := !openNoTUI && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	if !interactive {
		out := cmd.OutOrStdout()
		return runSession(ctx, cfg, url, printNotices(out), func(*app.App) {
			fmt.Fprintf(out, "vimnav: hints ready on %s (Ctrl+C to stop)\n", url)
		})
	}

	model := ui.NewModel()
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := runSession(ctx, cfg, url,
			func(ev app.Event) { program.Send(ui.EventMsg(ev)) },
			func(a *app.App) { program.Send(ui.ReadyMsg{URL: url, Sink: a}) },
		)
		if err != nil {
			program.Send(ui.ErrMsg{Err: err})
			return
		}
		program.Quit()
	}()

	_, runErr := program.Run()
	cancel()
	<-done

	if model.Err() != nil {
		return model.Err()
	}
	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal view failed: %w", runErr)
	}
	return nil
}

// runSession starts the browser, installs the key handlers and runs the
// event loop until ctx ends or the browser goes away
func runSession(ctx context.Context, cfg *config.Config, url string, observe func(app.Event), ready func(*app.App)) error {
	mgr, err := browser.NewManager(browser.Options{
		ChromePath: cfg.Browser.ChromePath,
		RemoteURL:  cfg.Browser.RemoteURL,
		Headless:   cfg.Browser.Headless,
		Width:      cfg.Browser.WindowWidth,
		Height:     cfg.Browser.WindowHeight,
	})
	if err != nil {
		return err
	}
	defer mgr.Close()

	page := browser.NewPage(mgr, cfg.Style)
	if err := page.InstallKeyHandlers(); err != nil {
		return err
	}
	if err := mgr.Navigate(url); err != nil {
		return err
	}

	a, err := app.New(cfg, page, observe)
	if err != nil {
		return err
	}

	if path := configLoader.Path(); path != "" {
		fw, err := watcher.NewFileWatcher(path, watcher.DefaultDebounce, func(string) {
			next, err := configLoader.Load()
			if err != nil {
				logging.Warn("Keeping previous config: %v", err)
				return
			}
			a.Reload(next)
		})
		if err != nil {
			logging.Warn("Config changes will not be picked up: %v", err)
		} else if err := fw.Start(ctx); err != nil {
			logging.Warn("Config changes will not be picked up: %v", err)
		} else {
			defer fw.Stop()
		}
	}

	if ready != nil {
		ready(a)
	}
	return a.Run(ctx, app.Sources{
		Keys:        page.Keys(),
		Navigations: page.Navigations(),
		Done:        mgr.Done(),
	})
}

// printNotices writes notices and navigations to out when there is no
// terminal view
func printNotices(out io.Writer) func(app.Event) {
	return func(ev app.Event) {
		switch ev.Kind {
		case app.Notice:
			fmt.Fprintln(out, ev.Text)
		case app.Navigated:
			fmt.Fprintf(out, "-> %s\n", ev.Text)
		}
	}
}
