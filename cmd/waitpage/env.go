package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/domain"
)

// loadFacts reads the environment facts surfaced in the snapshot. An
// optional .env file is loaded first without overriding real environment
// variables.
func loadFacts(envFile string) (domain.Facts, error) {
	if strings.TrimSpace(envFile) != "" {
		if err := godotenv.Load(envFile); err != nil {
			return domain.Facts{}, fmt.Errorf("load env file: %w", err)
		}
	}
	return domain.Facts{
		BackupRepo:     strings.TrimSpace(os.Getenv("COMFYUI_BACKUP")),
		RestoreEnabled: boolEnv(os.Getenv("RESTORE_BACKUP")),
		HFToken:        strings.TrimSpace(os.Getenv("HF_TOKEN")) != "",
		CivitaiToken:   strings.TrimSpace(os.Getenv("CIVITAI_TOKEN")) != "",
	}, nil
}

func boolEnv(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
