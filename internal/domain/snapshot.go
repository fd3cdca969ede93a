package domain

import "time"

// Facts are the static environment values surfaced verbatim in the snapshot.
type Facts struct {
	BackupRepo     string `json:"backup_repo"`
	RestoreEnabled bool   `json:"restore_enabled"`
	HFToken        bool   `json:"hf_token"`
	CivitaiToken   bool   `json:"civitai_token"`
}

// Snapshot is the full computed state returned to the page on each poll.
// It is rebuilt from scratch per request; nothing here persists.
type Snapshot struct {
	Timestamp time.Time    `json:"timestamp"`
	Stages    []StageState `json:"stages"`
	Restore   RestoreState `json:"backup"`
	Env       Facts        `json:"env"`
}
