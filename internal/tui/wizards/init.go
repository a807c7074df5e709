package wizards

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/arkroute/internal/config"
	"github.com/vvka-141/arkroute/internal/tui/components"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// InitResult holds the result of the init wizard.
type InitResult struct {
	Cancelled     bool
	Config        config.ProjectConfig
	EjectTemplate bool
}

// InitWizard collects the settings written to arkroute.yaml.
type InitWizard struct {
	step      initStep
	moduleDir string

	fields    []components.TextField
	completer *components.PathCompleter

	eject bool

	result InitResult

	width  int
	height int

	styles wizardStyles
	keys   wizardKeys
}

type initStep int

const (
	initStepModuleName initStep = iota
	initStepScanDir
	initStepGeneratedDir
	initStepEject
	initStepReview
	initStepDone
)

var moduleNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateModuleName rejects names that cannot prefix an ArkTS function identifier.
func ValidateModuleName(name string) error {
	if !moduleNamePattern.MatchString(name) {
		return fmt.Errorf("%q is not a valid identifier", name)
	}
	return nil
}

// ValidateModulePath rejects absolute paths and paths leaving the module.
func ValidateModulePath(p string) error {
	if filepath.IsAbs(p) || path.IsAbs(filepath.ToSlash(p)) {
		return errors.New("use a path relative to the module")
	}
	clean := path.Clean(filepath.ToSlash(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.New("path must stay inside the module")
	}
	return nil
}

// NewInitWizard creates a wizard for the module at moduleDir, seeded with
// existing values where present.
func NewInitWizard(moduleDir string, existing config.ProjectConfig) InitWizard {
	if moduleDir == "" {
		moduleDir = "."
	}

	name := existing.ModuleName
	if name == "" {
		name = filepath.Base(absOr(moduleDir))
	}

	fields := []components.TextField{
		components.NewTextField("Module name", name).
			WithHint("Prefixes every generated builder function").
			WithValidator(ValidateModuleName),
		components.NewTextField("Scan directory", or(existing.ScanDir, arkroute.DefaultScanDir)).
			WithHint("Searched recursively for " + arkroute.SourceExtension + " pages").
			WithValidator(ValidateModulePath),
		components.NewTextField("Generated directory", or(existing.GeneratedDir, arkroute.DefaultGeneratedDir)).
			WithHint(arkroute.GeneratedFilePrefix + "*" + arkroute.SourceExtension + " files are written and pruned here").
			WithValidator(ValidateModulePath),
	}
	fields[0].Focus()

	return InitWizard{
		step:      initStepModuleName,
		moduleDir: moduleDir,
		fields:    fields,
		completer: components.NewPathCompleter(moduleDir),
		eject:     existing.Template != "",
		result:    InitResult{Config: existing},
		width:     80,
		height:    24,
		styles:    defaultWizardStyles(),
		keys:      defaultWizardKeys(),
	}
}

// Init implements tea.Model.
func (w InitWizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (w InitWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil

	case tea.KeyMsg:
		if key.Matches(msg, w.keys.Quit) {
			w.result.Cancelled = true
			return w, tea.Quit
		}

		switch w.step {
		case initStepModuleName, initStepScanDir, initStepGeneratedDir:
			return w.updateField(msg)
		case initStepEject:
			return w.updateEject(msg)
		case initStepReview:
			return w.updateReview(msg)
		}
	}

	return w, nil
}

func (w InitWizard) updateField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	i := int(w.step)
	f := &w.fields[i]

	switch {
	case key.Matches(msg, w.keys.Select):
		if err := f.Validate(); err != nil {
			return w, nil
		}
		f.Blur()
		w.completer.Reset()
		w.step++
		if w.step <= initStepGeneratedDir {
			return w, w.fields[w.step].Focus()
		}
		return w, nil

	case key.Matches(msg, w.keys.Back):
		if w.step == initStepModuleName {
			w.result.Cancelled = true
			return w, tea.Quit
		}
		f.Blur()
		w.completer.Reset()
		w.step--
		return w, w.fields[w.step].Focus()

	case key.Matches(msg, w.keys.Complete):
		if w.step != initStepModuleName {
			f.SetValue(w.completer.Next(f.Raw()))
		}
		return w, nil
	}

	w.completer.Reset()
	var cmd tea.Cmd
	w.fields[i], cmd = f.Update(msg)
	return w, cmd
}

func (w InitWizard) updateEject(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up), key.Matches(msg, w.keys.Down):
		w.eject = !w.eject
	case key.Matches(msg, w.keys.Select):
		w.step = initStepReview
	case key.Matches(msg, w.keys.Back):
		w.step = initStepGeneratedDir
		return w, w.fields[w.step].Focus()
	}
	return w, nil
}

func (w InitWizard) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		w.result.Config.ModuleName = w.fields[initStepModuleName].Value()
		w.result.Config.ScanDir = w.fields[initStepScanDir].Value()
		w.result.Config.GeneratedDir = w.fields[initStepGeneratedDir].Value()
		w.result.EjectTemplate = w.eject
		if w.eject && w.result.Config.Template == "" {
			w.result.Config.Template = DefaultTemplateFile
		}
		w.step = initStepDone
		return w, tea.Quit
	case key.Matches(msg, w.keys.Back):
		w.step = initStepEject
	}
	return w, nil
}

// DefaultTemplateFile is where an ejected registration template is written.
const DefaultTemplateFile = "arkroute.tmpl"

// View implements tea.Model.
func (w InitWizard) View() string {
	var b strings.Builder

	b.WriteString(w.styles.Title.Render("arkroute init"))
	b.WriteString("\n")

	switch w.step {
	case initStepModuleName, initStepScanDir, initStepGeneratedDir:
		b.WriteString(w.viewField())
	case initStepEject:
		b.WriteString(w.viewEject())
	case initStepReview:
		b.WriteString(w.viewReview())
	}

	return b.String()
}

func (w InitWizard) viewField() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render(fmt.Sprintf("Step %d of 4", int(w.step)+1)))
	b.WriteString("\n\n")
	b.WriteString(w.fields[w.step].View())
	b.WriteString("\n")

	help := "enter next • esc back • ctrl+c quit"
	if w.step != initStepModuleName {
		help = "tab complete • " + help
	}
	b.WriteString(w.styles.Help.Render(help))
	return b.String()
}

func (w InitWizard) viewEject() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Step 4 of 4: registration template"))
	b.WriteString("\n\n")

	options := []struct {
		selected bool
		name     string
		desc     string
	}{
		{!w.eject, "Use the built-in template", "Generated files follow arkroute's default layout"},
		{w.eject, "Eject the template", "Writes " + DefaultTemplateFile + " for you to customize"},
	}

	for _, opt := range options {
		style := w.styles.Unselected
		symbol := "○"
		if opt.selected {
			style = w.styles.Selected
			symbol = "●"
		}
		b.WriteString(style.Render(symbol + " " + opt.name))
		b.WriteString("\n")
		b.WriteString(w.styles.Description.Render(opt.desc))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("↑/↓ toggle • enter select • esc back"))
	return b.String()
}

func (w InitWizard) viewReview() string {
	var b strings.Builder

	b.WriteString(w.styles.Success.Render("✓ Ready to write " + config.ConfigFileName))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Module", absOr(w.moduleDir)},
		{"Name", w.fields[initStepModuleName].Value()},
		{"Scan", w.fields[initStepScanDir].Value()},
		{"Generated", w.fields[initStepGeneratedDir].Value()},
		{"Template", map[bool]string{true: DefaultTemplateFile, false: "built-in"}[w.eject]},
	}
	var lines []string
	for _, r := range rows {
		lines = append(lines, w.styles.Label.Render(fmt.Sprintf("%-10s", r[0]))+r[1])
	}
	b.WriteString(w.styles.Box.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	b.WriteString(w.styles.Help.Render("enter write • esc back"))
	return b.String()
}

// Result returns the wizard result.
func (w InitWizard) Result() InitResult {
	return w.result
}

// RunInitWizard executes the init wizard on the terminal.
func RunInitWizard(moduleDir string, existing config.ProjectConfig) (InitResult, error) {
	p := tea.NewProgram(NewInitWizard(moduleDir, existing), tea.WithAltScreen())

	model, err := p.Run()
	if err != nil {
		return InitResult{Cancelled: true}, err
	}
	return model.(InitWizard).Result(), nil
}

func absOr(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
