package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "travel.yaml")
	yml := "http_addr: \":9090\"\ncache_ttl_seconds: 60\nratings_backend: mysql\nraw_data_path: from-file.xlsx\n"
	if err := os.WriteFile(cfgFile, []byte(yml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, cfgFile)
	t.Setenv("RAW_DATA_PATH", "from-env.csv")
	t.Setenv("WATCH_DATA", "false")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTPAddr != ":9090" || c.CacheTTL() != time.Minute || c.RatingsBackend != "mysql" {
		t.Fatalf("file layer not applied: %+v", c)
	}
	if c.RawDataPath != "from-env.csv" {
		t.Fatalf("env should override file, got %q", c.RawDataPath)
	}
	if c.WatchData {
		t.Fatalf("WATCH_DATA=false not applied")
	}
	if c.CleanedDataPath != "cleaned_output.xlsx" || c.RedisPrefix != "travel" {
		t.Fatalf("defaults lost: %+v", c)
	}
}

func TestLoad_RejectsBadBackend(t *testing.T) {
	t.Setenv("RATINGS_BACKEND", "sheets")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestGitHubOwnerRepo(t *testing.T) {
	cases := map[string]bool{
		"octo/travel": true,
		"octo":        false,
		"/travel":     false,
		"a/b/c":       false,
	}
	for in, ok := range cases {
		_, _, err := Config{GitHubRepo: in}.GitHubOwnerRepo()
		if (err == nil) != ok {
			t.Fatalf("%q: ok=%v err=%v", in, ok, err)
		}
	}
}

func TestLoad_GitHubRepoValidatedOnlyWhenSet(t *testing.T) {
	t.Setenv("RATINGS_BACKEND", "github")
	t.Setenv("REPO_NAME", "")
	if _, err := Load(); err != nil {
		t.Fatalf("empty REPO_NAME should only warn: %v", err)
	}
	t.Setenv("REPO_NAME", "not-a-repo")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed REPO_NAME")
	}
}
