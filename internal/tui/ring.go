package tui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/wakr/internal/alarm"
)

// ringModel is the full-screen overlay shown while an alarm rings. Button
// alarms dismiss on enter; math alarms go through the dismissal challenge.
// There is no way to close the overlay without dismissing.
type ringModel struct {
	alarm     alarm.Alarm
	challenge *alarm.Challenge
	input     textinput.Model

	bell    bool
	started time.Time
	shaking bool // wrong answer flash, cleared on next tick
}

func newRingModel(a alarm.Alarm, bell bool) ringModel {
	ti := textinput.New()
	ti.Placeholder = "answer"
	ti.CharLimit = 8
	ti.Width = 12
	ti.Focus()

	m := ringModel{
		alarm:   a,
		input:   ti,
		bell:    bell,
		started: time.Now(),
	}
	if a.DismissMethod == alarm.DismissMath {
		m.challenge = alarm.NewChallenge(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	return m
}

func (m ringModel) init() tea.Cmd {
	if m.bell {
		return ringBell
	}
	return nil
}

// ringBell writes the terminal bell through the status line. Bubble Tea
// programs own stdout, so the escape goes out as a Printf command.
func ringBell() tea.Msg {
	return tea.Printf("\a")()
}

// tick re-rings the bell every few seconds and clears the miss flash.
func (m ringModel) tick() ringModel {
	m.shaking = false
	return m
}

func (m ringModel) update(msg tea.KeyMsg) (ringModel, tea.Cmd) {
	if m.challenge == nil {
		if key.Matches(msg, keys.Enter) {
			return m, dismissed
		}
		return m, nil
	}

	if key.Matches(msg, keys.Enter) {
		if m.challenge.Submit(m.input.Value()) {
			return m, dismissed
		}
		// Wrong or malformed answer: clear the field, flash, ring again.
		m.input.SetValue("")
		m.shaking = true
		if m.bell {
			return m, ringBell
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func dismissed() tea.Msg {
	return dismissedMsg{}
}

func (m ringModel) view(w int) string {
	label := m.alarm.Label
	if label == "" {
		label = alarm.DefaultLabel
	}

	title := accentStyle.Bold(true).Render("⏰  " + label)
	clock := clockStyle.Render(time.Now().Format("15:04:05"))
	sound := mutedStyle.Render("♪ " + m.alarm.Sound)

	var body []string
	body = append(body, title, "", clock, sound, "")

	if m.challenge == nil {
		body = append(body, successStyle.Render("Press enter to dismiss"))
	} else {
		q := titleStyle.Render("Solve to dismiss:  ") + highlightStyle.Bold(true).Render(m.challenge.Problem().Question)
		body = append(body, q, "", m.input.View(), "", m.renderAttempts())
		if m.shaking {
			body = append(body, errorStyle.Render("Wrong answer, try again"))
		}
	}

	panel := ringPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Center, body...))
	return lipgloss.NewStyle().Width(w).Align(lipgloss.Center).Render(panel)
}

// renderAttempts draws one dot per miss on the current problem.
func (m ringModel) renderAttempts() string {
	var parts []string
	for i := 0; i < 3; i++ {
		if i < m.challenge.Attempts() {
			parts = append(parts, errorStyle.Render("●"))
		} else {
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	return strings.Join(parts, " ") + mutedStyle.Render(fmt.Sprintf("  %d/3", m.challenge.Attempts()))
}
