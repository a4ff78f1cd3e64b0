package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/crisislab/revq/internal/application"
	"github.com/crisislab/revq/internal/domain/review"
	"github.com/crisislab/revq/internal/infrastructure/wiring"
)

var (
	resultsFilters filterFlags
	resultsJSON    bool
	resultsPlain   bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Browse, filter and correct the reviewed records",
	Long: `Browse, filter and correct the reviewed records.

Without flags an interactive browser opens: cursor keys move, 'f'
cycles the outcome filter, 'e' edits the selected record's label and
notes. Use --plain or --json for scriptable output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		filter, err := resultsFilters.build()
		if err != nil {
			return MapError(err)
		}

		if resultsJSON || resultsPlain {
			records, err := services.Results.List(filter)
			if err != nil {
				return MapError(fmt.Errorf("failed to list results: %w", err))
			}
			if resultsJSON {
				if records == nil {
					records = []review.ReviewedRecord{}
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			printResultsTable(records)
			return nil
		}

		if os.Getenv("REVQ_SKIP_BROWSER_RUN") == "true" {
			return nil
		}

		m, err := newResultsModel(services, filter)
		if err != nil {
			return MapError(err)
		}
		p := tea.NewProgram(m)
		finalModel, err := p.Run()
		if err != nil {
			return fmt.Errorf("results browser failed: %w", err)
		}
		if result := finalModel.(resultsModel); result.fatal != nil {
			return MapError(result.fatal)
		}
		return nil
	},
}

func init() {
	resultsFilters.register(resultsCmd)
	resultsCmd.Flags().BoolVar(&resultsJSON, "json", false, "Output in JSON format")
	resultsCmd.Flags().BoolVar(&resultsPlain, "plain", false, "Print a plain table instead of the browser")
	RootCmd.AddCommand(resultsCmd)
}

func printResultsTable(records []review.ReviewedRecord) {
	fmt.Printf("Results (%d)\n", len(records))
	fmt.Println(strings.Repeat("-", 72))
	for _, rec := range records {
		status := "reviewed"
		if rec.Skipped {
			status = "skipped"
		}
		fmt.Printf("  %-26s [%-8s] model=%-5s human=%-5s conf=%.2f %s\n",
			rec.ID, status, valueOrDash(rec.ModelLabel), valueOrDash(rec.HumanLabel),
			rec.Confidence, rec.Reason)
	}
}

// statusCycle is the order the browser's 'f' key walks through.
var statusCycle = []review.StatusFilter{review.StatusAll, review.StatusReviewed, review.StatusSkipped}

type browseMode int

const (
	modeBrowse browseMode = iota
	modeEdit
)

type resultsModel struct {
	services *wiring.AppServices

	filter      review.FilterSet
	statusIndex int

	table   table.Model
	records []review.ReviewedRecord

	mode       browseMode
	editing    review.ReviewedRecord
	inputs     []textinput.Model
	focusIndex int

	err   error
	fatal error
}

func newResultsModel(services *wiring.AppServices, filter review.FilterSet) (resultsModel, error) {
	for i, s := range statusCycle {
		if filter.Status == s {
			// Start the cycle where the flag put it.
			return buildResultsModel(services, filter, i)
		}
	}
	return buildResultsModel(services, filter, 0)
}

func buildResultsModel(services *wiring.AppServices, filter review.FilterSet, statusIndex int) (resultsModel, error) {
	columns := []table.Column{
		{Title: "ID", Width: 26},
		{Title: "Status", Width: 8},
		{Title: "Model", Width: 5},
		{Title: "Human", Width: 5},
		{Title: "Conf", Width: 5},
		{Title: "Reason", Width: 26},
		{Title: "Notes", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	m := resultsModel{
		services:    services,
		filter:      filter,
		statusIndex: statusIndex,
		table:       t,
	}
	if err := m.reload(); err != nil {
		return resultsModel{}, err
	}
	return m, nil
}

func (m *resultsModel) currentFilter() review.FilterSet {
	f := m.filter
	f.Status = statusCycle[m.statusIndex]
	return f
}

func (m *resultsModel) reload() error {
	records, err := m.services.Results.List(m.currentFilter())
	if err != nil {
		return err
	}
	m.records = records

	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		status := "reviewed"
		if rec.Skipped {
			status = "skipped"
		}
		rows = append(rows, table.Row{
			rec.ID,
			status,
			valueOrDash(rec.ModelLabel),
			valueOrDash(rec.HumanLabel),
			strconv.FormatFloat(rec.Confidence, 'f', 2, 64),
			rec.Reason,
			rec.Notes,
		})
	}
	m.table.SetRows(rows)
	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
	return nil
}

func (m resultsModel) Init() tea.Cmd { return nil }

func (m resultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode == modeEdit {
		return m.updateEdit(msg)
	}
	return m.updateBrowse(msg)
}

func (m resultsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "f":
			m.statusIndex = (m.statusIndex + 1) % len(statusCycle)
			if err := m.reload(); err != nil {
				m.fatal = err
				return m, tea.Quit
			}
			return m, nil

		case "r":
			if err := m.reload(); err != nil {
				m.fatal = err
				return m, tea.Quit
			}
			return m, nil

		case "e":
			if len(m.records) == 0 {
				return m, nil
			}
			m.startEdit(m.records[m.table.Cursor()])
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *resultsModel) startEdit(rec review.ReviewedRecord) {
	label := textinput.New()
	label.Placeholder = "human label"
	label.CharLimit = 20
	label.Width = 20
	label.SetValue(rec.HumanLabel)

	notes := textinput.New()
	notes.Placeholder = "notes"
	notes.CharLimit = 500
	notes.Width = 56
	notes.SetValue(rec.Notes)

	m.mode = modeEdit
	m.editing = rec
	m.inputs = []textinput.Model{label, notes}
	m.focusIndex = 0
	m.err = nil
	m.updateEditFocus()
}

func (m resultsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			m.mode = modeBrowse
			m.err = nil
			return m, nil

		case "tab", "down":
			m.focusIndex = (m.focusIndex + 1) % len(m.inputs)
			return m, m.updateEditFocus()

		case "shift+tab", "up":
			m.focusIndex--
			if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs) - 1
			}
			return m, m.updateEditFocus()

		case "enter":
			return m.saveEdit()
		}
	}

	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *resultsModel) updateEditFocus() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		if i == m.focusIndex {
			cmds[i] = m.inputs[i].Focus()
			m.inputs[i].PromptStyle = focusedStyle
			m.inputs[i].TextStyle = focusedStyle
		} else {
			m.inputs[i].Blur()
			m.inputs[i].PromptStyle = noStyle
			m.inputs[i].TextStyle = noStyle
		}
	}
	return tea.Batch(cmds...)
}

func (m resultsModel) saveEdit() (tea.Model, tea.Cmd) {
	label := strings.TrimSpace(m.inputs[0].Value())
	notes := m.inputs[1].Value()

	if label != "" && label != m.editing.HumanLabel {
		if _, err := m.services.Results.Edit(m.editing.ID, application.FieldHumanLabel, label); err != nil {
			m.err = err
			return m, nil
		}
	}
	if notes != m.editing.Notes {
		if _, err := m.services.Results.Edit(m.editing.ID, application.FieldNotes, notes); err != nil {
			m.err = err
			return m, nil
		}
	}

	m.mode = modeBrowse
	m.err = nil
	if err := m.reload(); err != nil {
		m.fatal = err
		return m, tea.Quit
	}
	return m, nil
}

func (m resultsModel) View() string {
	if m.fatal != nil {
		return ""
	}
	if m.mode == modeEdit {
		return m.viewEdit()
	}
	return m.viewBrowse()
}

func (m resultsModel) viewBrowse() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("revq results"))
	b.WriteString(fmt.Sprintf("  %d records, filter: %s\n\n", len(m.records), statusCycle[m.statusIndex]))
	b.WriteString(baseStyle.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("[↑/↓] Move • [f] Cycle filter • [e] Edit • [r] Reload • [q] Quit"))
	return b.String()
}

func (m resultsModel) viewEdit() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("edit " + m.editing.ID))
	b.WriteString("\n\n")
	b.WriteString(blurredStyle.Render(truncate(m.editing.Text, 72)))
	b.WriteString("\n\n")

	labels := []string{"Human Label", "Notes"}
	for i, input := range m.inputs {
		if i == m.focusIndex {
			b.WriteString(focusedStyle.Render(fmt.Sprintf("› %s:", labels[i])))
		} else {
			b.WriteString(blurredStyle.Render(fmt.Sprintf("  %s:", labels[i])))
		}
		b.WriteString("\n  ")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("[Tab] Next field • [Enter] Save • [Esc] Cancel"))
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
