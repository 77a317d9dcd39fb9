package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/timeweave/pkg/errors"
	"github.com/matzehuels/timeweave/pkg/timeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// OriginPickerModel - Interactive origin selection
// =============================================================================

// OriginPickerModel is the bubbletea model for choosing an origin identity.
// Typing narrows the list by id or name.
type OriginPickerModel struct {
	Identities []*timeline.Identity
	Filter     string
	Cursor     int
	Offset     int
	Height     int
	Selected   *timeline.Identity
}

// NewOriginPickerModel creates a picker over identities.
func NewOriginPickerModel(identities []*timeline.Identity) OriginPickerModel {
	return OriginPickerModel{Identities: identities, Height: 15}
}

// visible returns the identities matching the filter.
func (m OriginPickerModel) visible() []*timeline.Identity {
	if m.Filter == "" {
		return m.Identities
	}
	needle := strings.ToLower(m.Filter)
	var out []*timeline.Identity
	for _, id := range m.Identities {
		if strings.Contains(strings.ToLower(id.ID), needle) || strings.Contains(strings.ToLower(id.Name), needle) {
			out = append(out, id)
		}
	}
	return out
}

func (m OriginPickerModel) Init() tea.Cmd {
	return nil
}

func (m OriginPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		items := m.visible()
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(items) == 0 {
				return m, nil
			}
			m.Selected = items[m.Cursor]
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.Cursor, m.Offset = 0, 0
			}
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m OriginPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Origin"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(StyleValue.Render("filter: " + m.Filter))
	}
	b.WriteString("\n\n")

	items := m.visible()
	end := min(m.Offset+m.Height, len(items))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		id := items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		born := id.Born.String()
		if born == "" {
			born = "—"
		}
		rows = append(rows, []string{cursor, id.ID, id.Name, string(id.Kind.Normalize()), born})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "ID", "Name", "Kind", "Born").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(items)), len(items))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// interactive reports whether both stdin and stdout are terminals.
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// pickOrigin runs the origin picker. It fails when the user quits without
// choosing.
func pickOrigin(identities []*timeline.Identity) (string, error) {
	final, err := tea.NewProgram(NewOriginPickerModel(identities)).Run()
	if err != nil {
		return "", fmt.Errorf("origin picker: %w", err)
	}
	m, ok := final.(OriginPickerModel)
	if !ok || m.Selected == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "no origin selected")
	}
	return m.Selected.ID, nil
}
