package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBoolEnv(t *testing.T) {
	t.Parallel()

	truthy := []string{"1", "true", "TRUE", "yes", "on", " On "}
	for _, v := range truthy {
		if !boolEnv(v) {
			t.Fatalf("boolEnv(%q) = false, want true", v)
		}
	}
	falsy := []string{"", "0", "false", "off", "no", "banana"}
	for _, v := range falsy {
		if boolEnv(v) {
			t.Fatalf("boolEnv(%q) = true, want false", v)
		}
	}
}

func TestLoadFactsFromEnvFile(t *testing.T) {
	for _, key := range []string{"COMFYUI_BACKUP", "RESTORE_BACKUP", "HF_TOKEN", "CIVITAI_TOKEN"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "COMFYUI_BACKUP=user/backup\nRESTORE_BACKUP=true\nHF_TOKEN=hf_secret\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	facts, err := loadFacts(envFile)
	if err != nil {
		t.Fatalf("loadFacts: %v", err)
	}
	if facts.BackupRepo != "user/backup" {
		t.Fatalf("backup repo = %q", facts.BackupRepo)
	}
	if !facts.RestoreEnabled {
		t.Fatalf("restore should be enabled")
	}
	if !facts.HFToken {
		t.Fatalf("hf token presence lost")
	}
	if facts.CivitaiToken {
		t.Fatalf("civitai token should be unset")
	}
}

func TestLoadFactsMissingEnvFile(t *testing.T) {
	if _, err := loadFacts(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Fatalf("expected error for missing env file")
	}
}
