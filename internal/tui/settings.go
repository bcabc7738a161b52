package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/wakr/internal/alarm"
	"github.com/sadopc/wakr/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	defaultSound   *string
	defaultDismiss *string
	napDuration    *string
	vibration      *string
}

func newSettingsModel(s *store.Store) settingsModel {
	sound, dismiss, nap, vib := "", "", "", ""
	return settingsModel{
		store:          s,
		defaultSound:   &sound,
		defaultDismiss: &dismiss,
		napDuration:    &nap,
		vibration:      &vib,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.defaultSound = s.store.GetSettingOr(store.SettingDefaultSound, "Default")
	*s.defaultDismiss = s.store.GetSettingOr(store.SettingDefaultDismiss, string(alarm.DismissButton))
	*s.napDuration = secsToMin(s.store.GetSettingOr(store.SettingNapDuration, "1200"))
	*s.vibration = s.store.GetSettingOr(store.SettingVibration, "on")

	soundOptions := make([]huh.Option[string], len(alarm.Sounds))
	for i, snd := range alarm.Sounds {
		soundOptions[i] = huh.NewOption(snd, snd)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default sound").Options(soundOptions...).Value(s.defaultSound),
			huh.NewSelect[string]().Title("Default dismiss").
				Options(
					huh.NewOption("Button", string(alarm.DismissButton)),
					huh.NewOption("Math problem", string(alarm.DismissMath)),
				).Value(s.defaultDismiss),
		).Title("Alarms"),
		huh.NewGroup(
			huh.NewInput().Title("Nap length (min)").Value(s.napDuration),
			huh.NewSelect[string]().Title("Bell on ring").
				Options(
					huh.NewOption("On", "on"),
					huh.NewOption("Off", "off"),
				).Value(s.vibration),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveSettings()
		return s, s.refresh()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	s.store.SetSetting(store.SettingDefaultSound, *s.defaultSound)
	s.store.SetSetting(store.SettingDefaultDismiss, *s.defaultDismiss)
	s.store.SetSetting(store.SettingNapDuration, minToSecs(*s.napDuration))
	s.store.SetSetting(store.SettingVibration, *s.vibration)
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(20).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	if k == store.SettingNapDuration {
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d min", secs/60)
		}
	}
	return v
}

func secsToMin(s string) string {
	if secs, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(secs / 60)
	}
	return s
}

func minToSecs(s string) string {
	if mins, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(mins * 60)
	}
	return s
}
