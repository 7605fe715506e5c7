package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/njchilds90/chatsanitizer"
	"github.com/njchilds90/chatsanitizer/internal/config"
	"github.com/njchilds90/chatsanitizer/internal/logger"
)

func resetSanitizeFlags() {
	sanitizeOrigin = chatsanitizer.DefaultOrigin
	sanitizeText = false
	sanitizeMarkdown = false
}

func runSanitizeWith(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	if err := runSanitize(cmd, args); err != nil {
		t.Fatalf("runSanitize: %v", err)
	}
	return out.String()
}

func TestRunSanitize_Args(t *testing.T) {
	resetSanitizeFlags()
	got := runSanitizeWith(t, "", `<p>hi`, `<a href="javascript:alert(1)">click</a></p>`)
	if got != "<p>hi <a>click</a></p>\n" {
		t.Errorf("got %q", got)
	}
}

func TestRunSanitize_Stdin(t *testing.T) {
	resetSanitizeFlags()
	got := runSanitizeWith(t, `<a href="/resume">resume</a>`)
	want := `<a href="/resume" target="_blank" rel="noopener noreferrer">resume</a>` + "\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRunSanitize_Text(t *testing.T) {
	resetSanitizeFlags()
	sanitizeText = true
	defer resetSanitizeFlags()

	got := runSanitizeWith(t, `<p>Hello <b>world</b><!-- x --></p>`)
	if got != "Hello world\n" {
		t.Errorf("got %q", got)
	}
}

func TestRunSanitize_Markdown(t *testing.T) {
	resetSanitizeFlags()
	sanitizeMarkdown = true
	defer resetSanitizeFlags()

	got := runSanitizeWith(t, "**bold** [cv](/cv)")
	want := `<p><strong>bold</strong> <a href="/cv" target="_blank" rel="noopener noreferrer">cv</a></p>` + "\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRunSanitize_BadOrigin(t *testing.T) {
	resetSanitizeFlags()
	sanitizeOrigin = "not-absolute"
	defer resetSanitizeFlags()

	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("x"))
	cmd.SetOut(&bytes.Buffer{})
	if err := runSanitize(cmd, nil); err == nil {
		t.Error("expected error for a relative origin")
	}
}

func TestRunInit(t *testing.T) {
	orig := cfgFile
	defer func() { cfgFile = orig; initForce = false }()
	cfgFile = filepath.Join(t.TempDir(), "portfolio.yml")

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	if err := runInit(cmd, nil); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	data, err := os.ReadFile(cfgFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "model: gpt-4o-mini") {
		t.Errorf("unexpected config file:\n%s", data)
	}

	if err := runInit(cmd, nil); err == nil {
		t.Error("expected error when the file exists")
	}
	initForce = true
	if err := runInit(cmd, nil); err != nil {
		t.Errorf("expected --force to overwrite: %v", err)
	}
}

func TestNewServerFallback(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Origin = "https://me.example"
	srv, err := newServer(cfg, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Reply != cfg.FallbackReply {
		t.Errorf("expected fallback reply, got %q", resp.Reply)
	}
}

func TestNewServerBadOrigin(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Origin = "relative"
	if _, err := newServer(cfg, logger.Discard()); err == nil {
		t.Error("expected error for a relative origin")
	}
}
