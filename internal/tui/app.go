package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/wakr/internal/alarm"
	"github.com/sadopc/wakr/internal/export"
	"github.com/sadopc/wakr/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	manager *alarm.Manager
	store   *store.Store
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	alarms    alarmsModel
	nap       napModel
	analytics analyticsModel
	settings  settingsModel

	// ring is non-nil while an alarm is ringing; it overlays everything
	// and captures all input until dismissed.
	ring *ringModel

	lastDueCheck time.Time

	help   help.Model
	status string
}

func NewApp(m *alarm.Manager, s *store.Store) App {
	h := help.New()
	h.ShowAll = false

	return App{
		manager:      m,
		store:        s,
		activeView:   viewAlarms,
		alarms:       newAlarmsModel(m, s),
		nap:          newNapModel(s),
		analytics:    newAnalyticsModel(s),
		settings:     newSettingsModel(s),
		lastDueCheck: time.Now(),
		help:         h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.alarms.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.alarms.setSize(a.width, contentHeight)
		a.nap.setSize(a.width, contentHeight)
		a.analytics.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case ringMsg:
		r := newRingModel(msg.alarm, a.bellEnabled())
		a.ring = &r
		return a, a.ring.init()

	case dismissedMsg:
		a.ring = nil
		a.status = "Alarm dismissed"
		return a, nil

	case napDoneMsg:
		a.nap.reset()
		return a, func() tea.Msg {
			return ringMsg{alarm: a.napAlarm()}
		}

	case tea.KeyMsg:
		// The ringing overlay captures everything; no quitting past an alarm.
		if a.ring != nil {
			return a.updateRing(msg)
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewAlarms
			return a, a.alarms.refresh()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewNap
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewAnalytics
			return a, a.analytics.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 4
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())

		if cmd := a.checkDueAlarms(time.Time(msg)); cmd != nil {
			cmds = append(cmds, cmd)
		}

		var cmd tea.Cmd
		a.nap, cmd = a.nap.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if a.ring != nil {
			*a.ring = a.ring.tick()
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// checkDueAlarms rings the first enabled alarm whose trigger instant fell
// inside the window since the previous check. One alarm rings at a time;
// the overlay blocks further checks until dismissed.
func (a *App) checkDueAlarms(now time.Time) tea.Cmd {
	prev := a.lastDueCheck
	a.lastDueCheck = now
	if a.ring != nil {
		return nil
	}

	for _, al := range a.manager.Alarms() {
		if !al.IsEnabled {
			continue
		}
		trigger := alarm.NextTriggerFor(al, prev)
		if !trigger.After(now) {
			due := al
			return func() tea.Msg {
				return ringMsg{alarm: due}
			}
		}
	}
	return nil
}

// napAlarm builds the synthetic alarm presented when a nap timer expires.
// Its dismiss method follows the configured default.
func (a App) napAlarm() alarm.Alarm {
	return alarm.Alarm{
		Label:         "Nap",
		Sound:         a.store.GetSettingOr(store.SettingDefaultSound, "Default"),
		DismissMethod: alarm.DismissMethod(a.store.GetSettingOr(store.SettingDefaultDismiss, string(alarm.DismissButton))),
	}
}

func (a App) bellEnabled() bool {
	return a.store.GetSettingOr(store.SettingVibration, "on") == "on"
}

func (a App) updateRing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r, cmd := a.ring.update(msg)
	a.ring = &r
	return a, cmd
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewAlarms:
		a.alarms, cmd = a.alarms.update(msg)
	case viewNap:
		a.nap, cmd = a.nap.update(msg)
	case viewAnalytics:
		a.analytics, cmd = a.analytics.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewAlarms:
		return a.alarms.formActive
	case viewAnalytics:
		return a.analytics.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewAlarms:
		return a.alarms.refresh()
	case viewAnalytics:
		return a.analytics.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewAlarms:
		content = a.alarms.view()
	case viewNap:
		content = a.nap.view()
	case viewAnalytics:
		content = a.analytics.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.ring != nil {
		content = a.ring.view(a.width - 4)
	} else if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("wakr")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Undo window indicator
	undoInfo := ""
	if _, ok := a.manager.RecentlyDeleted(); ok {
		undoInfo = warningStyle.Render(" u: undo delete")
	}

	// Nap countdown in footer
	napInfo := ""
	if a.nap.running() {
		napInfo = successStyle.Render(" ☾ " + formatCountdown(a.nap.remaining))
		if a.nap.paused() {
			napInfo = warningStyle.Render(" ⏸ " + formatCountdown(a.nap.remaining))
		}
	}

	left := footerStyle.Render(helpView)
	right := napInfo + undoInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		alarms := a.manager.Alarms()
		now := time.Now()
		records, _ := a.store.ListSleepRecords(now.AddDate(0, 0, -30), now.AddDate(0, 0, 1))

		home, _ := os.UserHomeDir()
		dateStr := now.Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("wakr-export-%s.csv", dateStr))
			if err := export.AlarmsToCSV(alarms, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
			sleepPath := filepath.Join(home, fmt.Sprintf("wakr-sleep-%s.csv", dateStr))
			if err := export.SleepToCSV(records, sleepPath); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("wakr-export-%s.json", dateStr))
			if err := export.ToJSON(alarms, records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
