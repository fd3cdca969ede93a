package stage

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/domain"
)

// Pipeline returns the built-in stage definitions for the given pipeline
// name. The boolean reports whether the name is known.
func Pipeline(name string) ([]Definition, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "comfy", "comfyui":
		return ComfyPipeline(), true
	case "ai-toolkit", "aitoolkit":
		return AIToolkitPipeline(), true
	default:
		return nil, false
	}
}

// PipelineNames lists the known pipeline names for usage messages.
func PipelineNames() []string {
	return []string{"comfy", "ai-toolkit"}
}

var nodeProgressRe = []*regexp.Regexp{
	re(`\[nodes\]\s+refreshing\s+([A-Za-z0-9._-]+)`),
	re(`(?:Updating|Installing)\s+([A-Za-z0-9._-]+)`),
	re(`\[manager][^\]]*\]\s*([A-Za-z0-9._-]+)`),
}

var (
	restoreCloneRe = re(`\[restore\]\s+cloning\s+(.+)`)
	restoreCNRRe   = re(`\[restore\]\s+cnr install\s+([A-Za-z0-9._-]+)`)
)

// ComfyPipeline mirrors the stage markers emitted by the ComfyUI
// provisioning script.
func ComfyPipeline() []Definition {
	skipWithoutRestore := func(facts domain.Facts) bool {
		return facts.BackupRepo == "" || !facts.RestoreEnabled
	}
	return []Definition{
		{
			ID:     "bootstrap",
			Label:  "GPU & workspace",
			Detail: "Checking CUDA drivers and preparing /workspace",
			Patterns: []*regexp.Regexp{
				re(`STAGE:\s*Checking CUDA`),
				re(`Persisting ComfyUI`),
				re(`ComfyUI already present`),
			},
		},
		{
			ID:     "venv",
			Label:  "Python environment",
			Detail: "Creating venv and upgrading pip",
			Patterns: []*regexp.Regexp{
				re(`Creating venv`),
				re(`VIRTUAL_ENV:`),
			},
		},
		{
			ID:     "wheels",
			Label:  "Extra wheels",
			Detail: "Installing sageattention",
			Patterns: []*regexp.Regexp{
				re(`STAGE:\s*Installing sageattention`),
			},
		},
		{
			ID:     "backup-manager",
			Label:  "ComfyUI manager",
			Detail: "Fetching ComfyUI manager metadata (first boot can take up to 2 minutes while registry downloads)",
			Patterns: []*regexp.Regexp{
				re(`STAGE:\s*Preparing ComfyUI Manager`),
			},
			SkipWhen: skipWithoutRestore,
		},
		{
			ID:    "backup-nodes",
			Label: "Backup restore",
			Patterns: []*regexp.Regexp{
				re(`STAGE:\s*Installing nodes from backup`),
				re(`STAGE:\s*Restoring backup`),
			},
			DetailFactory:  backupDetail,
			DetailFromLine: backupDetailFromLine,
			SkipWhen:       skipWithoutRestore,
		},
		{
			ID:     "core",
			Label:  "ComfyUI core",
			Detail: "Updating base repo and Python dependencies",
			Patterns: []*regexp.Regexp{
				re(`STAGE:\s*Updating ComfyUI core`),
			},
		},
		{
			ID:     "custom",
			Label:  "Custom nodes",
			Detail: "Updating registered nodes",
			Patterns: []*regexp.Regexp{
				re(`STAGE:\s*Updating custom nodes`),
			},
			DetailFromLine: customDetailFromLine,
		},
		{
			ID:     "launch",
			Label:  "Launch",
			Detail: "Starting ComfyUI on :8188",
			Patterns: []*regexp.Regexp{
				re(`STAGE:\s*Starting ComfyUI`),
			},
		},
	}
}

// AIToolkitPipeline mirrors the ai-toolkit add-on setup script.
func AIToolkitPipeline() []Definition {
	return []Definition{
		{
			ID:     "repo",
			Label:  "Repository",
			Detail: "Cloning ai-toolkit source",
			Patterns: []*regexp.Regexp{
				re(`\[ai-toolkit].*cloning repo`),
				re(`\[ai-toolkit].*updating repo`),
			},
			DetailFromLine: repoDetailFromLine,
		},
		{
			ID:     "venv",
			Label:  "Python environment",
			Detail: "Creating virtualenv and upgrading pip",
			Patterns: []*regexp.Regexp{
				re(`\[ai-toolkit].*creating venv`),
				re(`pip install --upgrade pip`),
			},
		},
		{
			ID:     "deps",
			Label:  "Python deps",
			Detail: "Installing requirements",
			Patterns: []*regexp.Regexp{
				re(`\[ai-toolkit].*installing requirements`),
			},
		},
		{
			ID:     "ui-build",
			Label:  "UI build",
			Detail: "Preparing AI Toolkit UI",
			Patterns: []*regexp.Regexp{
				re(`installing UI dependencies`),
				re(`npm run build`),
				re(`npm run update_db`),
			},
			DetailFromLine: uiDetailFromLine,
		},
		{
			ID:     "start",
			Label:  "UI startup",
			Detail: "Starting ai-toolkit on :8675",
			Patterns: []*regexp.Regexp{
				re(`\[ai-toolkit].*starting UI`),
			},
		},
	}
}

func backupDetail(facts domain.Facts, restore domain.RestoreState) string {
	if facts.BackupRepo == "" {
		return "Backup is not set"
	}
	if !facts.RestoreEnabled {
		return fmt.Sprintf("Backup %s configured but RESTORE_BACKUP=0", facts.BackupRepo)
	}
	if total := len(restore.Items); total > 0 {
		return fmt.Sprintf("Restoring %d custom nodes from %s", total, facts.BackupRepo)
	}
	return fmt.Sprintf("Restoring backup from %s", facts.BackupRepo)
}

func backupDetailFromLine(line, current string) string {
	if m := restoreCloneRe.FindStringSubmatch(line); m != nil {
		return "Cloning " + domain.RepoLabel(m[1])
	}
	if m := restoreCNRRe.FindStringSubmatch(line); m != nil {
		return "Installing " + m[1] + " from snapshot"
	}
	return current
}

func customDetailFromLine(line, current string) string {
	for _, p := range nodeProgressRe {
		m := p.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if strings.HasPrefix(strings.ToLower(name), "http") {
			name = domain.RepoLabel(name)
		}
		return "Updating " + name
	}
	return current
}

func repoDetailFromLine(line, current string) string {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "cloning"):
		return "Cloning fresh repo"
	case strings.Contains(lower, "updating repo"):
		return "Updating existing repo"
	}
	return current
}

func uiDetailFromLine(line, current string) string {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "installing ui dependencies"):
		return "Installing npm dependencies"
	case strings.Contains(lower, "building ui"):
		return "Building UI bundle"
	case strings.Contains(lower, "update_db"):
		return "Updating database schema"
	}
	return current
}
