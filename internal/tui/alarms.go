package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/wakr/internal/alarm"
	"github.com/sadopc/wakr/internal/store"
)

type alarmsModel struct {
	manager *alarm.Manager
	store   *store.Store
	width   int
	height  int

	alarms []alarm.Alarm
	cursor int

	formActive bool
	form       *huh.Form
	editingID  string // empty while creating

	// Form field pointers (survive value copies)
	formTime    *string
	formLabel   *string
	formDays    *[]int
	formSound   *string
	formDismiss *string
}

func newAlarmsModel(m *alarm.Manager, s *store.Store) alarmsModel {
	t, label, sound, dismiss := "", "", "", ""
	days := []int{}
	return alarmsModel{
		manager:     m,
		store:       s,
		formTime:    &t,
		formLabel:   &label,
		formDays:    &days,
		formSound:   &sound,
		formDismiss: &dismiss,
	}
}

func (m *alarmsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m alarmsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return alarmsDataMsg{alarms: m.manager.Alarms()}
	}
}

func (m alarmsModel) update(msg tea.Msg) (alarmsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case alarmsDataMsg:
		m.alarms = msg.alarms
		if m.cursor >= len(m.alarms) {
			m.cursor = max(0, len(m.alarms)-1)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateList(msg)
	}
	return m, nil
}

func (m alarmsModel) updateList(msg tea.KeyMsg) (alarmsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.alarms)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.New):
		return m.showForm(alarm.Alarm{}, false)
	case key.Matches(msg, keys.Edit):
		if len(m.alarms) > 0 {
			return m.showForm(m.alarms[m.cursor], true)
		}
	case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
		if len(m.alarms) > 0 {
			id := m.alarms[m.cursor].ID
			if err := m.manager.Toggle(id); err != nil {
				return m, reportErr(err)
			}
			return m, m.refresh()
		}
	case key.Matches(msg, keys.Delete):
		if len(m.alarms) > 0 {
			id := m.alarms[m.cursor].ID
			if err := m.manager.Delete(id); err != nil {
				return m, tea.Batch(m.refresh(), reportErr(err))
			}
			return m, tea.Batch(m.refresh(), report("Alarm deleted"))
		}
	case key.Matches(msg, keys.Undo):
		if err := m.manager.UndoDelete(); err != nil {
			return m, tea.Batch(m.refresh(), reportErr(err))
		}
		return m, tea.Batch(m.refresh(), report("Delete undone"))
	case key.Matches(msg, keys.Duplicate):
		if len(m.alarms) > 0 {
			id := m.alarms[m.cursor].ID
			if err := m.manager.Duplicate(id); err != nil {
				return m, tea.Batch(m.refresh(), reportErr(err))
			}
			return m, m.refresh()
		}
	case key.Matches(msg, keys.Ring):
		if len(m.alarms) > 0 {
			due := m.alarms[m.cursor]
			return m, func() tea.Msg {
				return ringMsg{alarm: due}
			}
		}
	}
	return m, nil
}

func report(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func reportErr(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Save failed: %v", err), isError: true}
	}
}

func (m alarmsModel) showForm(src alarm.Alarm, editing bool) (alarmsModel, tea.Cmd) {
	if editing {
		*m.formTime = formatClock(src.Time)
		*m.formLabel = src.Label
		*m.formSound = src.Sound
		*m.formDismiss = string(src.DismissMethod)
		m.editingID = src.ID
	} else {
		*m.formTime = "07:00"
		*m.formLabel = ""
		*m.formSound = m.store.GetSettingOr(store.SettingDefaultSound, "Default")
		*m.formDismiss = m.store.GetSettingOr(store.SettingDefaultDismiss, string(alarm.DismissButton))
		m.editingID = ""
	}
	days := make([]int, 0, len(src.RepeatDays))
	for _, d := range src.RepeatDays {
		days = append(days, int(d))
	}
	*m.formDays = days

	dayOptions := make([]huh.Option[int], 7)
	for i, name := range alarm.DayLabels {
		dayOptions[i] = huh.NewOption(name, i).Selected(src.RepeatsOn(time.Weekday(i)))
	}
	soundOptions := make([]huh.Option[string], len(alarm.Sounds))
	for i, s := range alarm.Sounds {
		soundOptions[i] = huh.NewOption(s, s)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Time (HH:MM)").Value(m.formTime).Validate(validClock),
			huh.NewInput().Title("Label").Value(m.formLabel),
			huh.NewMultiSelect[int]().Title("Repeat").Options(dayOptions...).Value(m.formDays),
			huh.NewSelect[string]().Title("Sound").Options(soundOptions...).Value(m.formSound),
			huh.NewSelect[string]().Title("Dismiss with").
				Options(
					huh.NewOption("Button", string(alarm.DismissButton)),
					huh.NewOption("Math problem", string(alarm.DismissMath)),
				).Value(m.formDismiss),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func validClock(s string) error {
	if _, err := time.Parse("15:04", strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use 24h HH:MM")
	}
	return nil
}

func (m alarmsModel) updateForm(msg tea.Msg) (alarmsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m.saveForm()
	}

	return m, cmd
}

func (m alarmsModel) saveForm() (alarmsModel, tea.Cmd) {
	tod, err := time.Parse("15:04", strings.TrimSpace(*m.formTime))
	if err != nil {
		return m, reportErr(err)
	}
	at := time.Date(2000, 1, 1, tod.Hour(), tod.Minute(), 0, 0, time.Local)

	days := make([]time.Weekday, 0, len(*m.formDays))
	for _, d := range *m.formDays {
		days = append(days, time.Weekday(d))
	}

	if m.editingID == "" {
		_, err = m.manager.Add(alarm.Alarm{
			Time:          at,
			Label:         *m.formLabel,
			IsEnabled:     true,
			RepeatDays:    days,
			Sound:         *m.formSound,
			DismissMethod: alarm.DismissMethod(*m.formDismiss),
		})
	} else {
		err = m.manager.Update(m.editingID, alarm.Patch{
			Time:          &at,
			Label:         m.formLabel,
			RepeatDays:    days,
			Sound:         m.formSound,
			DismissMethod: (*alarm.DismissMethod)(m.formDismiss),
		})
	}
	if err != nil {
		return m, tea.Batch(m.refresh(), reportErr(err))
	}
	return m, m.refresh()
}

func (m alarmsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Alarm")
		if m.editingID != "" {
			title = titleStyle.Render("Edit Alarm")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Alarms")

	if len(m.alarms) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No alarms yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	now := time.Now()
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, a := range m.alarms {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		dot := mutedStyle.Render("○")
		next := mutedStyle.Render("off")
		if a.IsEnabled {
			dot = successStyle.Render("●")
			next = highlightStyle.Render(formatUntil(alarm.NextTriggerFor(a, now), now))
		}
		dismiss := ""
		if a.DismissMethod == alarm.DismissMath {
			dismiss = warningStyle.Render(" ∑")
		}

		row := style.Render(fmt.Sprintf("%s%s  %-18s", cursor+formatClock(a.Time)+" ", dot, a.Label)) +
			mutedStyle.Render(fmt.Sprintf(" %-12s ", repeatBadge(a.RepeatDays))) +
			next + dismiss
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  space: toggle  d: delete  u: undo  c: duplicate  r: ring"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
