package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/wakr/internal/store"
)

// analyticsModel shows logged sleep over a 7-day window with a bar chart,
// and hosts the sleep-log form.
type analyticsModel struct {
	store  *store.Store
	width  int
	height int

	records []store.SleepRecord
	average int
	offset  int // 7-day blocks back from today (0 = current)

	chart barchart.Model

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formBed  *string
	formWake *string
}

func newAnalyticsModel(s *store.Store) analyticsModel {
	bed, wake := "", ""
	return analyticsModel{
		store:    s,
		chart:    barchart.New(60, 12),
		formBed:  &bed,
		formWake: &wake,
	}
}

func (m *analyticsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m analyticsModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	end := today.AddDate(0, 0, 1-7*m.offset)
	return end.AddDate(0, 0, -7), end
}

func (m analyticsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := m.dateRange()
		records, _ := m.store.ListSleepRecords(from, to)
		avg, _ := m.store.AverageSleep(from, to)
		return sleepDataMsg{records: records, average: avg}
	}
}

func (m analyticsModel) update(msg tea.Msg) (analyticsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case sleepDataMsg:
		m.records = msg.records
		m.average = msg.average
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.offset++
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			if m.offset > 0 {
				m.offset--
			}
			return m, m.refresh()
		case key.Matches(msg, keys.New):
			return m.showForm()
		}
	}
	return m, nil
}

func (m analyticsModel) showForm() (analyticsModel, tea.Cmd) {
	*m.formBed = "23:00"
	*m.formWake = "07:00"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Bed time (HH:MM)").Value(m.formBed).Validate(validClock),
			huh.NewInput().Title("Wake time (HH:MM)").Value(m.formWake).Validate(validClock),
		).Title("Log last night"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m analyticsModel) updateForm(msg tea.Msg) (analyticsModel, tea.Cmd) {
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
		return m.saveRecord()
	}

	return m, cmd
}

// saveRecord logs the night ending this morning: a bed time later than the
// wake time is taken to be yesterday evening.
func (m analyticsModel) saveRecord() (analyticsModel, tea.Cmd) {
	bedTod, err := time.Parse("15:04", strings.TrimSpace(*m.formBed))
	if err != nil {
		return m, reportErr(err)
	}
	wakeTod, err := time.Parse("15:04", strings.TrimSpace(*m.formWake))
	if err != nil {
		return m, reportErr(err)
	}

	now := time.Now()
	wake := time.Date(now.Year(), now.Month(), now.Day(), wakeTod.Hour(), wakeTod.Minute(), 0, 0, time.Local)
	bed := time.Date(now.Year(), now.Month(), now.Day(), bedTod.Hour(), bedTod.Minute(), 0, 0, time.Local)
	if !bed.Before(wake) {
		bed = bed.AddDate(0, 0, -1)
	}

	if _, err := m.store.AddSleepRecord(now.Format("2006-01-02"), bed, wake); err != nil {
		return m, reportErr(err)
	}
	return m, tea.Batch(m.refresh(), report("Sleep logged"))
}

func (m *analyticsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	from, to := m.dateRange()

	byDate := make(map[string]int)
	for _, r := range m.records {
		byDate[r.Date] += r.TotalSleep
	}

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		label := d.Format("Mon 02")

		hours := float64(byDate[dateStr]) / 60.0
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if byDate[dateStr] == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}

		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: "sleep", Value: hours, Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m analyticsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Log Sleep")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	from, to := m.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	avgLabel := mutedStyle.Render("no data")
	if m.average > 0 {
		avgLabel = highlightStyle.Render("avg " + formatMinutes(m.average) + "/night")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Sleep"), "  ", dateLabel, "  ", avgLabel,
	)

	chartView := m.chart.View()
	tableView := m.renderTable(w)
	nav := mutedStyle.Render("  n: log sleep  ←/→: navigate")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", tableView, "", nav,
		),
	)
}

func (m analyticsModel) renderTable(w int) string {
	if len(m.records) == 0 {
		return mutedStyle.Render("  No sleep logged for this period. Press n to log last night.")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %-8s %-8s %10s", "Date", "Bed", "Wake", "Slept"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 42))))

	for _, r := range m.records {
		rows = append(rows, fmt.Sprintf("  %-12s %-8s %-8s %10s",
			r.Date,
			r.BedTime.Local().Format("15:04"),
			r.WakeTime.Local().Format("15:04"),
			formatMinutes(r.TotalSleep),
		))
	}

	return strings.Join(rows, "\n")
}
