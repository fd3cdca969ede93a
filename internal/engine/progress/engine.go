// Package progress assembles the full wait-page snapshot from the log tail,
// the stage definitions and the backup manifest.
package progress

import (
	"fmt"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/domain"
	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/engine/restore"
	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/engine/stage"
	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/services/logtail"
	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/services/manifest"
)

type Options struct {
	// LogPath is the provisioning script's log file.
	LogPath string
	// TailBytes bounds how much of the log is considered per poll.
	TailBytes int64
	// Pipeline selects the built-in stage definitions (comfy, ai-toolkit).
	Pipeline string
	// Manifest supplies backup items; nil disables the restore panel.
	Manifest *manifest.Cache
	Facts    domain.Facts
	// Now is overridable for tests.
	Now func() time.Time
}

// Engine recomputes the snapshot on demand. It holds no state between polls
// beyond the manifest cache.
type Engine struct {
	opt  Options
	defs []stage.Definition
}

func New(opt Options) (*Engine, error) {
	defs, ok := stage.Pipeline(opt.Pipeline)
	if !ok {
		return nil, fmt.Errorf("unknown pipeline %q", opt.Pipeline)
	}
	if opt.TailBytes <= 0 {
		opt.TailBytes = logtail.DefaultMaxBytes
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	return &Engine{opt: opt, defs: defs}, nil
}

// Snapshot tails the log and recomputes everything from scratch.
func (e *Engine) Snapshot() domain.Snapshot {
	lines := logtail.Lines(e.opt.LogPath, e.opt.TailBytes)
	for i, line := range lines {
		// Provisioning scripts colorize their output; match on plain text.
		lines[i] = ansi.Strip(line)
	}

	var items []domain.Item
	if e.opt.Manifest != nil {
		items = e.opt.Manifest.Items()
	}
	restoreState := restore.Build(e.opt.Facts, items, lines)

	return domain.Snapshot{
		Timestamp: e.opt.Now(),
		Stages:    stage.Compute(e.defs, lines, e.opt.Facts, restoreState),
		Restore:   restoreState,
		Env:       e.opt.Facts,
	}
}
