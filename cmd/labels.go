package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lance13c/vimnav/internal/collect"
	"github.com/lance13c/vimnav/internal/dom"
	"github.com/lance13c/vimnav/internal/logging"
)

const (
	fetchTimeout = 15 * time.Second
	maxTextWidth = 40
)

var labelsCmd = &cobra.Command{
	Use:   "labels <file|url>",
	Short: "Show the labels a page would get",
	Long: `Parse a static HTML document and print the hint label, activation and
text of every element that would be labelled. Geometry is not known
offline, so only inline styles decide what is hidden.`,
	Args: cobra.ExactArgs(1),
	RunE: runLabels,
}

var labelsAlphabet string

func init() {
	rootCmd.AddCommand(labelsCmd)

	labelsCmd.Flags().StringVarP(&labelsAlphabet, "alphabet", "a", "", "alphabet setting (default from config)")
}

func runLabels(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	alphabet := cfg.Hints.Alphabet
	if labelsAlphabet != "" {
		alphabet = labelsAlphabet
	}

	r, err := openDocument(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	page, res, err := collectLabels(r, alphabet)
	if err != nil {
		return err
	}
	logging.Info("Labelled %d elements of %s", len(res.Candidates), args[0])

	out := cmd.OutOrStdout()
	if page.Title != "" {
		fmt.Fprintln(out, lipgloss.NewStyle().Bold(true).Render(page.Title))
	}
	if res.Empty {
		fmt.Fprintln(out, "No clickable node found on this page.")
		return nil
	}
	fmt.Fprintln(out, renderLabels(res))
	return nil
}

// openDocument opens a local file, or fetches src when it is an http(s) URL
func openDocument(ctx context.Context, src string) (io.ReadCloser, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("failed to open document: %w", err)
		}
		return f, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("failed to fetch %s: %s", src, resp.Status)
	}
	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

// collectLabels parses r and labels its candidates
func collectLabels(r io.Reader, alphabet string) (*dom.Page, *collect.Result, error) {
	page, err := dom.ParseHTML(r)
	if err != nil {
		return nil, nil, err
	}
	res, err := collect.New(alphabet).Collect(page.Root)
	if err != nil {
		return nil, nil, err
	}
	return page, res, nil
}

// renderLabels formats candidates as a table
func renderLabels(res *collect.Result) string {
	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF0000")).
		Background(lipgloss.Color("#FFFFE0")).
		Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	header := cell.Bold(true).Foreground(lipgloss.Color("#7D56F4"))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))).
		Headers("LABEL", "ELEMENT", "ACTION", "TEXT").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0:
				return labelStyle
			default:
				return cell
			}
		})

	for _, c := range res.Candidates {
		t.Row(c.Label, c.Node.Name(), c.Category.String(), elementText(c.Node))
	}
	return t.Render()
}

func elementText(n dom.Node) string {
	e, ok := n.(*dom.Element)
	if !ok {
		return ""
	}
	text := strings.Join(strings.Fields(e.TextContent()), " ")
	if r := []rune(text); len(r) > maxTextWidth {
		text = string(r[:maxTextWidth-3]) + "..."
	}
	return text
}
