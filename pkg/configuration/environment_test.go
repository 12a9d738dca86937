package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv_ReadsExistingFiles(t *testing.T) {
	tmp := t.TempDir()
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "HSE_TEST_ENV_LOAD=ok\n")

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("HSE_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("HSE_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded, got %q", got)
	}
}

func TestValidateRLS(t *testing.T) {
	cases := []struct {
		name    string
		mode    string
		dbUser  string
		wantErr bool
		want    string
	}{
		{name: "empty defaults to disabled", mode: "", dbUser: "hse_app", want: "disabled"},
		{name: "enforce with app role", mode: "enforce", dbUser: "hse_app", want: "enforce"},
		{name: "enforce normalizes case", mode: "Enforce", dbUser: "hse_app", want: "enforce"},
		{name: "enforce refuses superuser", mode: "enforce", dbUser: "postgres", wantErr: true},
		{name: "unknown mode", mode: "audit", dbUser: "hse_app", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Configuration{RLSEnforce: tc.mode}
			c.Database.User = tc.dbUser
			err := c.validateRLS()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("validateRLS: %v", err)
			}
			if c.RLSEnforce != tc.want {
				t.Fatalf("expected mode %q, got %q", tc.want, c.RLSEnforce)
			}
		})
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
