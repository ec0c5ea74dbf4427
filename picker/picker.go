package picker

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"yellowpages-scraper/exporter"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	filterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// TerminalPicker is a save-file dialog drawn in the terminal
type TerminalPicker struct {
	in          io.Reader
	out         io.Writer
	defaultName string
}

// New creates a TerminalPicker on the given streams.
// defaultName pre-fills the input, without extension.
func New(in io.Reader, out io.Writer, defaultName string) *TerminalPicker {
	return &TerminalPicker{
		in:          in,
		out:         out,
		defaultName: defaultName,
	}
}

// PickSavePath implements exporter.Picker
func (p *TerminalPicker) PickSavePath(title string, filter exporter.FileFilter) (string, error) {
	m := newModel(title, filter, p.defaultName)

	program := tea.NewProgram(m, tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("failed to run save dialog: %w", err)
	}

	result, ok := final.(model)
	if !ok {
		return "", fmt.Errorf("unexpected save dialog state %T", final)
	}
	if result.cancelled {
		return "", nil
	}
	return result.path, nil
}

type model struct {
	input     textinput.Model
	title     string
	filter    exporter.FileFilter
	path      string
	cancelled bool
	errMsg    string
}

func newModel(title string, filter exporter.FileFilter, defaultName string) model {
	ti := textinput.New()
	ti.Placeholder = "results" + filter.Extension
	ti.Prompt = "File name: "
	ti.CharLimit = 4096
	ti.Width = 60
	if defaultName != "" {
		ti.SetValue(defaultName + filter.Extension)
	}
	ti.Focus()

	return model{
		input:  ti,
		title:  title,
		filter: filter,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			path, err := ResolvePath(m.input.Value(), m.filter)
			if err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.path = path
			return m, tea.Quit
		}
	}

	m.errMsg = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n")
	sb.WriteString(filterStyle.Render("Save as type: " + m.filter.Label))
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	if m.errMsg != "" {
		sb.WriteString(errorStyle.Render(m.errMsg))
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render("enter: save • esc: cancel"))
	sb.WriteString("\n")
	return sb.String()
}

// ResolvePath turns what the user typed into an absolute path that matches
// the filter, refusing directories that do not exist
func ResolvePath(value string, filter exporter.FileFilter) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" {
		return "", fmt.Errorf("enter a file name")
	}

	if strings.HasPrefix(name, "~"+string(os.PathSeparator)) || name == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			name = filepath.Join(home, strings.TrimPrefix(name, "~"))
		}
	}

	name = WithExtension(name, filter.Extension)

	abs, err := filepath.Abs(name)
	if err != nil {
		return "", fmt.Errorf("invalid path: %v", err)
	}

	info, err := os.Stat(filepath.Dir(abs))
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("folder %s does not exist", filepath.Dir(abs))
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return "", fmt.Errorf("%s is a folder", abs)
	}

	return abs, nil
}

// WithExtension appends ext unless the name already ends with it
func WithExtension(name, ext string) string {
	if ext == "" || strings.EqualFold(filepath.Ext(name), ext) {
		return name
	}
	return name + ext
}
