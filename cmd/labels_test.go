package cmd

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lance13c/vimnav/internal/label"
)

const labelsPage = `<html><head><title>Links</title></head><body>
<a href="/a">First link</a>
<a href="/b">Second</a>
<div style="display:none"><a href="/gone">Gone</a></div>
<textarea name="note"></textarea>
<span onclick="go()">Run the thing</span>
</body></html>`

func TestCollectLabels(t *testing.T) {
	page, res, err := collectLabels(strings.NewReader(labelsPage), label.SettingOptimal)
	if err != nil {
		t.Fatal(err)
	}
	if page.Title != "Links" {
		t.Errorf("title = %q", page.Title)
	}
	if len(res.Candidates) != 4 {
		t.Fatalf("got %d candidates, want 4", len(res.Candidates))
	}

	out := renderLabels(res)
	for _, want := range []string{"LABEL", "link /a", "First link", "textarea", "script-handler", "4"} {
		if !strings.Contains(out, want) {
			t.Errorf("table is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/gone") {
		t.Errorf("hidden link listed:\n%s", out)
	}
}

func TestCollectLabelsBadAlphabet(t *testing.T) {
	if _, _, err := collectLabels(strings.NewReader(labelsPage), "aab"); err == nil {
		t.Error("expected an error for an alphabet with repeated symbols")
	}
}

func TestOpenDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/page" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, labelsPage)
	}))
	defer srv.Close()

	r, err := openDocument(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(r)
	r.Close()
	if string(body) != labelsPage {
		t.Errorf("body = %q", body)
	}

	if _, err := openDocument(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("expected an error for a 404")
	}

	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(labelsPage), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := openDocument(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
}

func TestElementTextIsTruncated(t *testing.T) {
	_, res, err := collectLabels(strings.NewReader(`<a href="/x">`+strings.Repeat("word ", 20)+`</a>`), label.SettingNumeric)
	if err != nil {
		t.Fatal(err)
	}
	text := elementText(res.Candidates[0].Node)
	if len([]rune(text)) != maxTextWidth || !strings.HasSuffix(text, "...") {
		t.Errorf("text = %q", text)
	}
}
