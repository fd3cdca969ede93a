// Package ui renders the wait-page snapshot in the terminal, for watching a
// provisioning run over SSH instead of through the browser page.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/domain"
	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/engine/progress"
)

type refreshMsg struct{}

type Model struct {
	engine   *progress.Engine
	interval time.Duration

	snap domain.Snapshot

	width  int
	height int

	spin spinner.Model
}

func NewModel(engine *progress.Engine, interval time.Duration) *Model {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	spin := spinner.New()
	spin.Spinner = spinner.Line
	spin.Style = activeStyle

	return &Model{
		engine:   engine,
		interval: interval,
		snap:     engine.Snapshot(),
		spin:     spin,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.refreshTick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		m.snap = m.engine.Snapshot()
		return m, m.refreshTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) refreshTick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}
