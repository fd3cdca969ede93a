package ui

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/engine/progress"
)

// Run drives the watch TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, engine *progress.Engine, interval time.Duration) error {
	m := NewModel(engine, interval)

	// Some PTYs never deliver a WindowSizeMsg; seed a usable size so the
	// first render is not stuck on a zero-width layout.
	if w, h, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 && h > 0 {
		m.width = w
		m.height = h
	} else {
		m.width = 80
		m.height = 24
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
