// Package topview is the live top-domains table shown by twctl watch.
package topview

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tabwarden/tabwarden/internal/stats"
)

// Fetch pulls a fresh snapshot from the daemon.
type Fetch func() ([]stats.DomainStat, int64, error)

type dataMsg struct {
	domains []stats.DomainStat
	current int64
	err     error
}

type tickMsg time.Time

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)
	tableStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

// Model polls the daemon on an interval and renders the top-N table.
type Model struct {
	fetch    Fetch
	interval time.Duration
	topN     int
	table    table.Model
	current  int64
	err      error
}

func New(fetch Fetch, topN int, interval time.Duration) Model {
	if topN <= 0 {
		topN = 10
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Domain", Width: 32},
			{Title: "Time", Width: 10},
			{Title: "Sessions", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(topN),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(lipgloss.Color("12"))
	s.Selected = s.Selected.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	t.SetStyles(s)

	return Model{fetch: fetch, interval: interval, topN: topN, table: t}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetchCmd()
		}

	case tickMsg:
		return m, tea.Batch(m.fetchCmd(), m.tickCmd())

	case dataMsg:
		m.err = msg.err
		if msg.err == nil {
			m.current = msg.current
			rows := make([]table.Row, 0, len(msg.domains))
			for i, d := range msg.domains {
				rows = append(rows, table.Row{
					fmt.Sprintf("%d", i+1),
					d.Domain,
					stats.FormatDuration(d.TotalTime),
					fmt.Sprintf("%d", d.Sessions),
				})
			}
			m.table.SetRows(rows)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := titleStyle.Render("TabWarden · top domains")
	if m.err != nil {
		return header + "\n" + errStyle.Render("error loading time data") + "\n"
	}
	footer := infoStyle.Render(fmt.Sprintf(
		"current session: %s   q quit · r refresh",
		stats.FormatDuration(m.current),
	))
	return header + "\n" + tableStyle.Render(m.table.View()) + "\n" + footer + "\n"
}

func (m Model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		domains, current, err := m.fetch()
		if err != nil {
			return dataMsg{err: err}
		}
		if len(domains) > m.topN {
			domains = domains[:m.topN]
		}
		return dataMsg{domains: domains, current: current}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
