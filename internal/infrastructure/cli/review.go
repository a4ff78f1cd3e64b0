package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/crisislab/revq/internal/application"
	"github.com/crisislab/revq/internal/domain/review"
	"github.com/crisislab/revq/internal/infrastructure/wiring"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Work through the pending queue in an interactive form",
	Long: `Work through the pending queue in an interactive form.

Each pending record is shown with the model's prediction beside it. Pick
the label a human would act on, optionally add notes, and submit. The
queue advances until it is empty.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		view, err := services.Review.Session()
		if err != nil {
			return MapError(fmt.Errorf("failed to load review session: %w", err))
		}
		if len(view.Pending) == 0 {
			fmt.Println("Review queue is empty. Run 'revq ingest' to refill it.")
			return nil
		}
		if os.Getenv("REVQ_SKIP_REVIEW_RUN") == "true" {
			return nil
		}

		p := tea.NewProgram(newReviewModel(services, view))
		finalModel, err := p.Run()
		if err != nil {
			return fmt.Errorf("review screen failed: %w", err)
		}

		result := finalModel.(reviewModel)
		if result.fatal != nil {
			return MapError(result.fatal)
		}
		fmt.Printf("Session done: %d reviewed, %d skipped.\n", result.submitted, result.skippedCount)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(reviewCmd)
}

type reviewFocus int

const (
	focusLabels reviewFocus = iota
	focusNotes
)

type reviewModel struct {
	services *wiring.AppServices

	view       application.SessionView
	current    review.PendingRecord
	labelIndex int
	notes      textinput.Model
	focus      reviewFocus

	submitted    int
	skippedCount int

	err   error // shown inline, record stays on screen
	fatal error // aborts the session
	done  bool
	width int
}

func newReviewModel(services *wiring.AppServices, view application.SessionView) reviewModel {
	notes := textinput.New()
	notes.Placeholder = "optional notes"
	notes.CharLimit = 500
	notes.Width = 56

	m := reviewModel{
		services: services,
		view:     view,
		notes:    notes,
		width:    80,
	}
	m.setCurrent()
	return m
}

// setCurrent points the form at the head of the queue and preselects the
// model's own label so agreement is a single keypress.
func (m *reviewModel) setCurrent() {
	m.current = m.view.Pending[0]
	m.labelIndex = 0
	for i, l := range m.view.Labels {
		if l == m.current.ModelLabel {
			m.labelIndex = i
			break
		}
	}
}

func (m reviewModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "shift+tab":
			return m, m.toggleFocus()

		case "enter":
			return m.submit()
		}

		if m.focus == focusLabels {
			switch msg.String() {
			case "left", "h":
				if m.labelIndex > 0 {
					m.labelIndex--
				}
				return m, nil
			case "right", "l":
				if m.labelIndex < len(m.view.Labels)-1 {
					m.labelIndex++
				}
				return m, nil
			case "s":
				return m.skip()
			case "q":
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	return m, cmd
}

func (m *reviewModel) toggleFocus() tea.Cmd {
	if m.focus == focusLabels {
		m.focus = focusNotes
		m.notes.PromptStyle = focusedStyle
		m.notes.TextStyle = focusedStyle
		return m.notes.Focus()
	}
	m.focus = focusLabels
	m.notes.Blur()
	m.notes.PromptStyle = noStyle
	m.notes.TextStyle = noStyle
	return nil
}

func (m reviewModel) submit() (tea.Model, tea.Cmd) {
	label := m.view.Labels[m.labelIndex]
	if _, err := m.services.Review.Submit(m.current.ID, label, strings.TrimSpace(m.notes.Value())); err != nil {
		m.err = err
		return m, nil
	}
	m.submitted++
	return m.advance()
}

func (m reviewModel) skip() (tea.Model, tea.Cmd) {
	if _, err := m.services.Review.Skip(m.current.ID); err != nil {
		m.err = err
		return m, nil
	}
	m.skippedCount++
	return m.advance()
}

// advance reloads the session from disk so policy effects, like a
// requeued skip, land exactly as persisted.
func (m reviewModel) advance() (tea.Model, tea.Cmd) {
	view, err := m.services.Review.Session()
	if err != nil {
		m.fatal = err
		return m, tea.Quit
	}
	if len(view.Pending) == 0 {
		m.done = true
		return m, tea.Quit
	}

	m.view = view
	m.err = nil
	m.notes.SetValue("")
	m.setCurrent()
	return m, nil
}

func (m reviewModel) View() string {
	if m.done || m.fatal != nil {
		return ""
	}

	var b strings.Builder

	handled := m.view.Progress.Reviewed + m.view.Progress.Skipped
	b.WriteString(titleStyle.Render("revq review"))
	b.WriteString(fmt.Sprintf("  %d of %d handled  %s\n\n",
		handled, m.view.Progress.Total, renderBar(m.view.Progress.Fraction, 24)))

	heading := m.current.ID
	if m.current.Title != "" {
		heading += "  " + m.current.Title
	}
	b.WriteString(blurredStyle.Render(heading))
	b.WriteString("\n")

	messageWidth := m.width - 30
	if messageWidth < 36 {
		messageWidth = 36
	}
	message := panelStyle.Width(messageWidth).Render(m.current.Text)

	info := fmt.Sprintf("Model:      %s\nConfidence: %.2f\nReason:     %s",
		valueOrDash(m.current.ModelLabel), m.current.Confidence, valueOrDash(m.current.Reason))
	if m.current.Rationale != "" {
		info += "\n\n" + m.current.Rationale
	}
	sidebar := panelStyle.Width(24).Render(info)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, message, sidebar))
	b.WriteString("\n\n")

	if m.focus == focusLabels {
		b.WriteString(focusedStyle.Render("› Label:"))
	} else {
		b.WriteString(blurredStyle.Render("  Label:"))
	}
	for i, l := range m.view.Labels {
		b.WriteString(" ")
		if i == m.labelIndex {
			b.WriteString(selectedLabelStyle.Render(l))
		} else {
			b.WriteString(plainLabelStyle.Render(l))
		}
	}
	b.WriteString("\n\n")

	if m.focus == focusNotes {
		b.WriteString(focusedStyle.Render("› Notes: "))
	} else {
		b.WriteString(blurredStyle.Render("  Notes: "))
	}
	b.WriteString(m.notes.View())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	help := "[←/→] Label • [Tab] Notes • [Enter] Submit • [s] Skip • [q] Quit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
