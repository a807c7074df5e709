package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextField is a labeled text input whose placeholder doubles as the
// default value.
type TextField struct {
	label     string
	hint      string
	input     textinput.Model
	focused   bool
	validator func(string) error
	err       error
	styles    textFieldStyles
}

type textFieldStyles struct {
	Label        lipgloss.Style
	Hint         lipgloss.Style
	Input        lipgloss.Style
	FocusedInput lipgloss.Style
	Error        lipgloss.Style
}

func defaultTextFieldStyles() textFieldStyles {
	return textFieldStyles{
		Label:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Hint:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Input:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		FocusedInput: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// NewTextField creates a text field. An empty entry resolves to def.
func NewTextField(label, def string) TextField {
	ti := textinput.New()
	ti.Placeholder = def
	ti.CharLimit = 256
	ti.Width = 48

	return TextField{
		label:  label,
		input:  ti,
		styles: defaultTextFieldStyles(),
	}
}

// WithHint sets a muted line shown under the label.
func (t TextField) WithHint(hint string) TextField {
	t.hint = hint
	return t
}

// WithValidator sets a validation function run against Value.
func (t TextField) WithValidator(fn func(string) error) TextField {
	t.validator = fn
	return t
}

func (t *TextField) Focus() tea.Cmd {
	t.focused = true
	return t.input.Focus()
}

func (t *TextField) Blur() {
	t.focused = false
	t.input.Blur()
}

// Update forwards msg to the input and revalidates.
func (t TextField) Update(msg tea.Msg) (TextField, tea.Cmd) {
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	if t.validator != nil {
		t.err = t.validator(t.Value())
	}
	return t, cmd
}

func (t TextField) View() string {
	var b strings.Builder

	b.WriteString(t.styles.Label.Render(t.label))
	b.WriteString("\n")
	if t.hint != "" {
		b.WriteString(t.styles.Hint.Render(t.hint))
		b.WriteString("\n")
	}

	style := t.styles.Input
	if t.focused {
		style = t.styles.FocusedInput
	}
	b.WriteString(style.Render(t.input.View()))

	if t.err != nil {
		b.WriteString("\n")
		b.WriteString(t.styles.Error.Render(t.err.Error()))
	}
	return b.String()
}

// Raw returns exactly what was typed.
func (t TextField) Raw() string {
	return t.input.Value()
}

// Value returns the trimmed entry, or the default when nothing was typed.
func (t TextField) Value() string {
	v := strings.TrimSpace(t.input.Value())
	if v == "" {
		return t.input.Placeholder
	}
	return v
}

// SetValue replaces the entry and moves the cursor to its end.
func (t *TextField) SetValue(v string) {
	t.input.SetValue(v)
	t.input.CursorEnd()
}

func (t TextField) Error() error {
	return t.err
}

// Validate runs validation and returns any error.
func (t *TextField) Validate() error {
	if t.Value() == "" {
		t.err = ErrFieldRequired
		return t.err
	}
	if t.validator != nil {
		t.err = t.validator(t.Value())
		return t.err
	}
	t.err = nil
	return nil
}

// ErrFieldRequired is returned when a field has neither an entry nor a default.
var ErrFieldRequired = fieldError("this field is required")

type fieldError string

func (e fieldError) Error() string { return string(e) }
