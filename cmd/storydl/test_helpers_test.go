package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storydl/internal/config"
	"storydl/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	server     *httptest.Server
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	server := newFakePlatform(t)
	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithBaseURL(server.URL)}, opts...)...)
	base := testsupport.BaseDir(cfg)

	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"STORYDL_USER_AGENT", "STORYDL_PROXY", "STORYDL_OUTPUT_DIR"} {
		t.Setenv(key, "")
	}

	configPath := filepath.Join(base, "storydl.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		server:     server,
		configPath: configPath,
		baseDir:    base,
	}
}

func newFakePlatform(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/stories/", func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimPrefix(r.URL.Path, "/api/v3/stories/") != "20738183" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(t, w, map[string]any{
			"id":         "20738183",
			"title":      "Expiration Date Duology",
			"createDate": "2014-08-01T00:00:00Z",
			"modifyDate": "2015-01-02T00:00:00Z",
			"user":       map[string]any{"name": "writer"},
			"categories": []int{4},
			"rating":     3,
			"url":        "https://www.wattpad.com/story/20738183-expiration-date-duology",
			"parts": []map[string]any{
				{"id": 76494131, "title": "Prologue", "modifyDate": "2014-08-02", "draft": false},
				{"id": 76494132, "title": "Unpublished", "modifyDate": "2014-08-03", "draft": true},
			},
		})
	})
	mux.HandleFunc("/apiv2/info", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "76494131" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(t, w, map[string]any{"id": 76494131, "url": "https://www.wattpad.com/story/20738183-expiration-date-duology"})
	})
	mux.HandleFunc("/apiv2/storytext", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "76494131" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(t, w, map[string]string{"text": "<p>It began.</p>"})
	})
	mux.HandleFunc("/apiv2/getcategories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]string{"4": "Romance", "5": "Humor"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string, stdin io.Reader) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	cmd.SetIn(stdin)
	flags := []string{"--log-level", "error"}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[platform]\nbase_url = %q\n\n[output]\ndir = %q\nformat = %q\n\n[history]\nenabled = %t\npath = %q\n\n[logging]\nlevel = %q\n",
		cfg.Platform.BaseURL,
		cfg.Output.Dir,
		cfg.Output.Format,
		cfg.History.Enabled,
		cfg.History.Path,
		cfg.Logging.Level,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
