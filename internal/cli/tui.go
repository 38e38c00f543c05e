package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/unitconv/pkg/convert"
	"github.com/matzehuels/unitconv/pkg/session"
	"github.com/matzehuels/unitconv/pkg/units"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true).Padding(0, 1)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
	labelStyle       = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	resultStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	invalidStyle     = lipgloss.NewStyle().Foreground(colorRed)
	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// numericRunes are the characters accepted in the value field.
const numericRunes = "0123456789.-+eE"

// field identifies the focused row of the converter.
type field int

const (
	fieldCategory field = iota
	fieldFrom
	fieldTo
	fieldInput
	fieldPreset
	fieldCount
)

// =============================================================================
// ConverterModel - Interactive unit converter
// =============================================================================

// ConverterModel is the bubbletea model for the interactive converter.
// Every edit goes through the session, so the result is always recomputed
// from the current selection and value.
type ConverterModel struct {
	Session *session.Session
	Focus   field
	Preset  int
	Quit    bool

	engine  *convert.Engine
	presets []session.Preset
	err     string
}

// NewConverterModel creates a converter model around sess.
func NewConverterModel(sess *session.Session, engine *convert.Engine) ConverterModel {
	if engine == nil {
		engine = convert.Default()
	}
	sess.Bind(engine).Recompute()
	return ConverterModel{
		Session: sess,
		Focus:   fieldInput,
		engine:  engine,
		presets: session.Presets(),
	}
}

func (m ConverterModel) Init() tea.Cmd {
	return nil
}

func (m ConverterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.err = ""

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.Quit = true
		return m, tea.Quit
	case "tab", "down":
		m.Focus = (m.Focus + 1) % fieldCount
		return m, nil
	case "shift+tab", "up":
		m.Focus = (m.Focus + fieldCount - 1) % fieldCount
		return m, nil
	case "s", "ctrl+s":
		m.Session.Swap()
		return m, nil
	case "left", "h":
		m.step(-1)
		return m, nil
	case "right", "l":
		m.step(1)
		return m, nil
	case "enter":
		if m.Focus == fieldPreset {
			m.setErr(m.Session.ApplyPreset(m.presets[m.Preset]))
		}
		return m, nil
	}

	if m.Focus == fieldInput {
		m.edit(key)
	}
	return m, nil
}

// step moves the selection of the focused row by delta, wrapping around.
func (m *ConverterModel) step(delta int) {
	reg := m.engine.Registry()
	switch m.Focus {
	case fieldCategory:
		cats := reg.Categories()
		i := indexOfCategory(cats, m.Session.Category)
		m.setErr(m.Session.SetCategory(cats[wrap(i+delta, len(cats))].Key))
	case fieldFrom, fieldTo:
		us := reg.Units(m.Session.Category)
		if len(us) == 0 {
			return
		}
		if m.Focus == fieldFrom {
			i := indexOfUnit(us, m.Session.From)
			m.setErr(m.Session.SetFrom(us[wrap(i+delta, len(us))].Key))
		} else {
			i := indexOfUnit(us, m.Session.To)
			m.setErr(m.Session.SetTo(us[wrap(i+delta, len(us))].Key))
		}
	case fieldPreset:
		m.Preset = wrap(m.Preset+delta, len(m.presets))
	}
}

// edit applies a keystroke to the value field.
func (m *ConverterModel) edit(key tea.KeyMsg) {
	input := m.Session.Input
	switch key.Type {
	case tea.KeyBackspace:
		if input == "" {
			return
		}
		r := []rune(input)
		input = string(r[:len(r)-1])
	case tea.KeyCtrlU:
		input = ""
	case tea.KeyRunes:
		for _, r := range key.Runes {
			if !strings.ContainsRune(numericRunes, r) {
				return
			}
		}
		input += string(key.Runes)
	default:
		return
	}
	m.Session.SetInput(input)
}

func (m *ConverterModel) setErr(err error) {
	if err != nil {
		m.err = err.Error()
	}
}

func (m ConverterModel) View() string {
	var b strings.Builder
	s := m.Session
	reg := m.engine.Registry()

	b.WriteString(StyleTitle.Render("Unit Converter"))
	b.WriteString("\n\n")

	var tabs []string
	for _, ci := range reg.Categories() {
		style := tabInactiveStyle
		if ci.Key == s.Category {
			style = tabActiveStyle
		}
		tabs = append(tabs, style.Render(ci.Name))
	}
	b.WriteString(m.row(fieldCategory, "Category", lipgloss.JoinHorizontal(lipgloss.Top, tabs...)))

	from, _ := reg.Unit(s.Category, s.From)
	to, _ := reg.Unit(s.Category, s.To)
	b.WriteString(m.row(fieldFrom, "From", unitLabel(from)))
	b.WriteString(m.row(fieldTo, "To", unitLabel(to)))

	value := s.Input
	if m.Focus == fieldInput {
		value += "▏"
	}
	b.WriteString(m.row(fieldInput, "Value", value))

	var result string
	switch {
	case s.Output != "":
		result = resultStyle.Render(s.Output) + " " + StyleDim.Render(to.Symbol)
	case strings.TrimSpace(s.Input) != "":
		result = invalidStyle.Render("not a number")
	default:
		result = StyleDim.Render("—")
	}
	b.WriteString(labelStyle.Render("  Result") + result + "\n")

	b.WriteString(m.row(fieldPreset, "Preset", "‹ "+m.presets[m.Preset].Label+" ›"))

	out := panelStyle.Render(strings.TrimRight(b.String(), "\n"))
	if m.err != "" {
		out += "\n" + invalidStyle.Render(m.err)
	}
	out += "\n" + listDimStyle.Render("tab/↑↓ field  ←/→ change  s swap  ⏎ apply preset  q quit")
	return out
}

func (m ConverterModel) row(f field, label, value string) string {
	cursor := "  "
	style := listNormalStyle
	if m.Focus == f {
		cursor = "▸ "
		style = listSelectedStyle
	}
	return labelStyle.Render(cursor+label) + style.Render(value) + "\n"
}

// =============================================================================
// Command
// =============================================================================

// tuiCommand runs the interactive converter. The session is restored from
// and saved to ~/.config/unitconv/sessions/.
func (c *CLI) tuiCommand() *cobra.Command {
	var fresh bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive converter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), fresh)
		},
	}
	cmd.Flags().BoolVar(&fresh, "fresh", false, "ignore the saved session")
	return cmd
}

func (c *CLI) runTUI(ctx context.Context, fresh bool) error {
	engine := c.newEngine(-1)

	store, err := session.NewCLIStore("")
	if err != nil {
		c.Logger.Warn("session will not be saved", "error", err)
	}

	if store != nil {
		if n, err := store.Cleanup(ctx); err != nil {
			c.Logger.Debug("session cleanup failed", "error", err)
		} else if n > 0 {
			c.Logger.Debug("removed expired sessions", "count", n)
		}
	}

	var sess *session.Session
	if store != nil && !fresh {
		if sess, err = store.GetSession(ctx); err != nil {
			c.Logger.Warn("saved session unreadable", "error", err)
			sess = nil
		}
	}
	if sess == nil || !validSelection(engine.Registry(), sess) {
		sess = session.New(engine, 0)
	}

	final, err := tea.NewProgram(NewConverterModel(sess, engine), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run converter: %w", err)
	}

	if store != nil {
		m := final.(ConverterModel)
		m.Session.Touch(0)
		if err := store.SaveSession(ctx, m.Session); err != nil {
			c.Logger.Warn("session not saved", "error", err)
		} else {
			c.Logger.Debug("session saved", "path", store.Path())
		}
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// validSelection reports whether a restored session still names units that
// exist in the registry.
func validSelection(reg *units.Registry, s *session.Session) bool {
	c, ok := reg.Category(s.Category)
	return ok && c.Has(s.From) && c.Has(s.To)
}

func unitLabel(u units.UnitInfo) string {
	return fmt.Sprintf("‹ %s (%s) ›", u.Name, u.Symbol)
}

func indexOfCategory(cats []units.CategoryInfo, key string) int {
	for i, c := range cats {
		if c.Key == key {
			return i
		}
	}
	return 0
}

func indexOfUnit(us []units.UnitInfo, key string) int {
	for i, u := range us {
		if u.Key == key {
			return i
		}
	}
	return 0
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
