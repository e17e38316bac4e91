package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/paeditor/pkg/automaton"
	"github.com/matzehuels/paeditor/pkg/editor"
	apperrors "github.com/matzehuels/paeditor/pkg/errors"
)

var (
	tuiDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	tuiOKStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	tuiWarnStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	tuiErrStyle     = lipgloss.NewStyle().Foreground(colorRed)
	tuiSelectedLine = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// EditorModel - Interactive graph editing
// =============================================================================

// submitDoneMsg carries the result of an asynchronous submission.
type submitDoneMsg struct{ err error }

// statusKind picks the style of the status line.
type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusErr
)

// EditorModel is the bubbletea model of the interactive editor. It drives an
// [editor.Editor] through events; the editor holds all graph state.
type EditorModel struct {
	ed    *editor.Editor
	title string

	// Write persists the current graph and returns where it went.
	Write func(automaton.Submission) (string, error)
	// Submit sends the graph to the backend; nil when the session has no
	// event log.
	Submit func(context.Context, automaton.Submission) error

	ctx        context.Context
	Cursor     int
	Offset     int
	Height     int
	Dirty      bool
	Submitting bool
	status     string
	kind       statusKind
}

// NewEditorModel creates the interactive editor for ed.
func NewEditorModel(ctx context.Context, ed *editor.Editor, title string) EditorModel {
	return EditorModel{
		ed:     ed,
		title:  title,
		ctx:    ctx,
		Height: 15,
	}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case submitDoneMsg:
		m.Submitting = false
		if msg.err != nil {
			m.setStatus(statusErr, "submit failed: %s", apperrors.UserMessage(msg.err))
		} else {
			m.setStatus(statusOK, "submitted for discovery")
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-9, 5)
		m.scroll()
	}
	return m, nil
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nodes := m.ed.Graph().Nodes()

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(nodes)-1 {
			m.Cursor++
		}

	case " ":
		if m.Cursor < len(nodes) {
			id := nodes[m.Cursor].ID
			m.ed.ToggleSelection(id)
			if m.ed.IsSelected(id) {
				m.setStatus(statusInfo, "selected %s", id)
			} else {
				m.setStatus(statusInfo, "deselected %s", id)
			}
		}

	case "x":
		m.ed.ClearSelection()
		m.setStatus(statusInfo, "selection cleared")

	case "m":
		res, ok := m.ed.MergeSelected()
		if !ok {
			m.setStatus(statusWarn, "select states to merge first")
			break
		}
		m.Dirty = true
		if res.RootMerged {
			m.setStatus(statusWarn, "merged the root into %q", res.Node.ID)
		} else {
			m.setStatus(statusOK, "merged %d states into %q", len(res.Merged), res.Node.ID)
		}
		m.Cursor = m.ed.Graph().NodeCount() - 1

	case "c":
		sel := m.ed.Selection()
		if len(sel) != 2 {
			m.setStatus(statusWarn, "select exactly two states to connect")
			break
		}
		e, ok := m.ed.Connect(sel[0], sel[1])
		if !ok {
			m.setStatus(statusErr, "cannot connect %s to %s", sel[0], sel[1])
			break
		}
		m.ed.ClearSelection()
		m.Dirty = true
		m.setStatus(statusOK, "added transition %s %s %s", e.Source, iconArrow, e.Target)

	case "w":
		if m.Write == nil {
			break
		}
		path, err := m.Write(m.ed.Serialize())
		if err != nil {
			m.setStatus(statusErr, "write failed: %v", err)
			break
		}
		m.Dirty = false
		m.setStatus(statusOK, "wrote %s", path)

	case "s":
		if m.Submit == nil {
			m.setStatus(statusWarn, "no event log; start with --log to submit")
			break
		}
		if m.Submitting {
			break
		}
		m.Submitting = true
		m.setStatus(statusInfo, "submitting...")
		sub, submitFn, ctx := m.ed.Serialize(), m.Submit, m.ctx
		return m, func() tea.Msg {
			return submitDoneMsg{err: submitFn(ctx, sub)}
		}
	}

	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the graph and the visible window.
func (m *EditorModel) scroll() {
	n := m.ed.Graph().NodeCount()
	m.Cursor = min(max(m.Cursor, 0), max(n-1, 0))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *EditorModel) setStatus(kind statusKind, format string, args ...any) {
	m.kind = kind
	m.status = fmt.Sprintf(format, args...)
}

func (m EditorModel) View() string {
	var b strings.Builder
	g := m.ed.Graph()

	title := StyleTitle.Render("Prefix Automaton")
	if m.title != "" {
		title += " " + tuiDimStyle.Render(m.title)
	}
	if m.Dirty {
		title += " " + tuiWarnStyle.Render("(modified)")
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render("↑/↓ move  space select  m merge  c connect  x clear  w write  s submit  q quit"))
	b.WriteString("\n\n")

	b.WriteString(nodeTable(g, m.ed.IsSelected, m.Cursor, m.Offset, m.Height))
	b.WriteString("\n")
	b.WriteString(tuiDimStyle.Render(fmt.Sprintf("  [%d/%d] %d transitions", m.Cursor+1, g.NodeCount(), g.EdgeCount())))
	b.WriteString("\n")

	if sel := m.ed.Selection(); len(sel) > 0 {
		b.WriteString(tuiSelectedLine.Render("  selected: " + strings.Join(sel, " · ")))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.statusStyle().Render("  " + m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (m EditorModel) statusStyle() lipgloss.Style {
	switch m.kind {
	case statusOK:
		return tuiOKStyle
	case statusWarn:
		return tuiWarnStyle
	case statusErr:
		return tuiErrStyle
	default:
		return tuiDimStyle
	}
}
