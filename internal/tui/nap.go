package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/wakr/internal/store"
)

type napState int

const (
	napIdle napState = iota
	napRunning
	napPaused
)

// napPresets are the selectable nap lengths in minutes.
var napPresets = []int{10, 15, 20, 30, 45, 60}

type napModel struct {
	store  *store.Store
	width  int
	height int

	state    napState
	cursor   int
	duration time.Duration

	remaining time.Duration
	endAt     time.Time
	pausedAt  time.Time
}

func newNapModel(s *store.Store) napModel {
	m := napModel{store: s}
	m.cursor = m.defaultPreset()
	return m
}

// defaultPreset picks the preset matching the configured nap duration.
func (m napModel) defaultPreset() int {
	secs, err := strconv.Atoi(m.store.GetSettingOr(store.SettingNapDuration, "1200"))
	if err != nil {
		return 2
	}
	for i, p := range napPresets {
		if p*60 == secs {
			return i
		}
	}
	return 2 // 20 min
}

func (m *napModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m napModel) running() bool {
	return m.state != napIdle
}

func (m napModel) paused() bool {
	return m.state == napPaused
}

func (m *napModel) reset() {
	m.state = napIdle
	m.remaining = 0
}

func (m napModel) update(msg tea.Msg) (napModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.state == napRunning {
			m.remaining = time.Until(m.endAt)
			if m.remaining <= 0 {
				m.state = napIdle
				return m, func() tea.Msg { return napDoneMsg{} }
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up), key.Matches(msg, keys.Left):
			if m.state == napIdle && m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down), key.Matches(msg, keys.Right):
			if m.state == napIdle && m.cursor < len(napPresets)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Start), key.Matches(msg, keys.Enter):
			if m.state == napIdle {
				return m.start()
			}
		case key.Matches(msg, keys.Pause):
			switch m.state {
			case napRunning:
				m.state = napPaused
				m.pausedAt = time.Now()
			case napPaused:
				m.endAt = m.endAt.Add(time.Since(m.pausedAt))
				m.state = napRunning
			}
		case key.Matches(msg, keys.Stop):
			if m.state != napIdle {
				m.reset()
				return m, report("Nap cancelled")
			}
		}
	}
	return m, nil
}

func (m napModel) start() (napModel, tea.Cmd) {
	m.duration = time.Duration(napPresets[m.cursor]) * time.Minute
	m.remaining = m.duration
	m.endAt = time.Now().Add(m.duration)
	m.state = napRunning

	// Remember the chosen length as the new default.
	m.store.SetSetting(store.SettingNapDuration, strconv.Itoa(napPresets[m.cursor]*60))

	return m, report(fmt.Sprintf("Nap started: %d min", napPresets[m.cursor]))
}

func (m napModel) view() string {
	w := m.width - 4

	title := titleStyle.Render("Nap Timer")

	var body []string
	body = append(body, title, "")

	switch m.state {
	case napIdle:
		body = append(body, mutedStyle.Render("Pick a length and press s to start"), "")
		var row []string
		for i, p := range napPresets {
			label := fmt.Sprintf(" %d min ", p)
			if i == m.cursor {
				row = append(row, selectedItemStyle.Render("["+label+"]"))
			} else {
				row = append(row, mutedStyle.Render(" "+label+" "))
			}
		}
		body = append(body, lipgloss.JoinHorizontal(lipgloss.Center, row...))

	case napRunning:
		body = append(body,
			successStyle.Bold(true).Width(w-6).Align(lipgloss.Center).Render(formatCountdown(m.remaining)),
			successStyle.Render("NAPPING"),
			"",
			m.renderProgress(w-10),
		)

	case napPaused:
		body = append(body,
			warningStyle.Bold(true).Width(w-6).Align(lipgloss.Center).Render(formatCountdown(m.remaining)),
			warningStyle.Render("PAUSED"),
			"",
			m.renderProgress(w-10),
		)
	}

	var controls string
	switch m.state {
	case napIdle:
		controls = mutedStyle.Render("←/→: length  s: start")
	default:
		controls = mutedStyle.Render("p: pause/resume  x: cancel")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, strings.Join(body, "\n"), "", controls),
	)
}

func (m napModel) renderProgress(w int) string {
	if w < 10 || m.duration <= 0 {
		return ""
	}
	done := float64(m.duration-m.remaining) / float64(m.duration)
	if done < 0 {
		done = 0
	}
	if done > 1 {
		done = 1
	}
	filled := int(done * float64(w))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", w-filled)
	return successStyle.Render(bar)
}
