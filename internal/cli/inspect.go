package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barh/pkg/core/layout"
	"github.com/matzehuels/barh/pkg/pipeline"
)

// Table styles
var (
	tableHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tableSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tableNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	tabActiveStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactiveStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

type inspectOpts struct {
	inputFormat string
	fontFamily  string
	fontSize    float64
	plain       bool
}

func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect <config>",
		Short: "Browse the computed layout of a chart",
		Long: `Inspect measures a chart description and shows where every block, tick and
bar ends up. On a terminal the tables are browsable (tab/←/→ switch view,
↑/↓ move, q quits); otherwise, or with --plain, they are printed once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), cmd.InOrStdin(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "description format: json, toml, yaml (default: from extension)")
	cmd.Flags().StringVar(&opts.fontFamily, "font-family", "", "font family or font file (overrides items_font.family)")
	cmd.Flags().Float64Var(&opts.fontSize, "font-size", 0, "font size in points (overrides items_font.size)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print the tables instead of starting the browser")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, stdin io.Reader, input string, opts inspectOpts) error {
	data, format, err := readInput(stdin, input, opts.inputFormat)
	if err != nil {
		return err
	}

	result, err := c.newRunner().Prepare(ctx, pipeline.Options{
		Source:       data,
		SourceFormat: format,
		FontFamily:   opts.fontFamily,
		FontSize:     opts.fontSize,
	})
	if err != nil {
		return err
	}

	title := result.Config.Title
	if title == "" {
		title = input
	}

	f, isFile := stdout.(*os.File)
	if opts.plain || !isFile || !isTerminal(f) {
		printInspection(title, result.Layout)
		return nil
	}

	_, err = tea.NewProgram(newInspectModel(title, result.Layout), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// printInspection writes the summary and every table to stdout.
func printInspection(title string, m layout.Measurement) {
	fmt.Fprintln(stdout, StyleTitle.Render(title))
	printSummary(m)
	for _, v := range inspectViews {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, StyleTitle.Render(v.name))
		fmt.Fprintln(stdout, renderTable(v.headers, v.rows(m), -1))
	}
	if m.Overflow {
		printWarning("values exceed the axis maximum (%s)", layout.FormatNumber(m.Ceiling))
	}
}

func printSummary(m layout.Measurement) {
	printKeyValue("Size", fmt.Sprintf("%d×%d px", m.Size.W, m.Size.H))
	printKeyValue("Ceiling", layout.FormatNumber(m.Ceiling))
	printKeyValue("Item height", strconv.Itoa(m.ItemHeight))
	printKeyValue("Drawable", formatRect(m.Drawable))
	printInfo("%s bars, %s ticks",
		StyleNumber.Render(strconv.Itoa(len(m.Bars))),
		StyleNumber.Render(strconv.Itoa(len(m.Ticks))))
}

// =============================================================================
// Views
// =============================================================================

// inspectView is one browsable table of the measurement.
type inspectView struct {
	name    string
	headers []string
	rows    func(layout.Measurement) [][]string
}

var inspectViews = []inspectView{
	{name: "Bars", headers: []string{"#", "Item", "Value", "Bar", "Label", "Placement"}, rows: barRows},
	{name: "Ticks", headers: []string{"#", "Value", "Label", "X", "Bounds"}, rows: tickRows},
	{name: "Blocks", headers: []string{"Block", "X", "Y", "W", "H"}, rows: blockRows},
}

func barRows(m layout.Measurement) [][]string {
	rows := make([][]string, 0, len(m.Bars))
	for i, b := range m.Bars {
		placement := "outside"
		if b.Inside {
			placement = "inside"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			b.Name,
			layout.FormatNumber(b.Value),
			formatRect(b.Rect),
			b.Annotation,
			placement,
		})
	}
	return rows
}

func tickRows(m layout.Measurement) [][]string {
	rows := make([][]string, 0, len(m.Ticks))
	for i, t := range m.Ticks {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			layout.FormatNumber(t.Value),
			t.Label,
			strconv.Itoa(t.Pos),
			formatRect(t.Bounds),
		})
	}
	return rows
}

func blockRows(m layout.Measurement) [][]string {
	rows := make([][]string, 0, len(m.Blocks)+1)
	for _, b := range m.Blocks {
		rows = append(rows, rectRow(b.Name, b.Rect))
	}
	return append(rows, rectRow("drawable", m.Drawable))
}

func rectRow(name string, r layout.Rect) []string {
	return []string{name, strconv.Itoa(r.X), strconv.Itoa(r.Y), strconv.Itoa(r.W), strconv.Itoa(r.H)}
}

func formatRect(r layout.Rect) string {
	return fmt.Sprintf("%d,%d %d×%d", r.X, r.Y, r.W, r.H)
}

// renderTable draws rows with the selected row highlighted; -1 selects none.
func renderTable(headers []string, rows [][]string, selected int) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle.Padding(0, 1)
			case row == selected:
				return tableSelectedStyle.Padding(0, 1)
			default:
				return tableNormalStyle.Padding(0, 1)
			}
		}).
		String()
}

// =============================================================================
// InspectModel - Interactive layout browser
// =============================================================================

// InspectModel is the bubbletea model for browsing a measured chart.
type InspectModel struct {
	Title  string
	Layout layout.Measurement
	Tab    int
	Cursor int
	Offset int
	Height int
	rows   [][][]string
}

func newInspectModel(title string, m layout.Measurement) InspectModel {
	rows := make([][][]string, len(inspectViews))
	for i, v := range inspectViews {
		rows[i] = v.rows(m)
	}
	return InspectModel{Title: title, Layout: m, Height: 15, rows: rows}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m = m.switchTab(1)
		case "shift+tab", "left", "h":
			m = m.switchTab(-1)
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows[m.Tab])-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m InspectModel) switchTab(delta int) InspectModel {
	n := len(inspectViews)
	m.Tab = ((m.Tab+delta)%n + n) % n
	m.Cursor = 0
	m.Offset = 0
	return m
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d×%d px · ceiling %s",
		m.Layout.Size.W, m.Layout.Size.H, layout.FormatNumber(m.Layout.Ceiling))))
	b.WriteString("\n\n")

	tabs := make([]string, len(inspectViews))
	for i, v := range inspectViews {
		if i == m.Tab {
			tabs[i] = tabActiveStyle.Render(v.name)
		} else {
			tabs[i] = tabInactiveStyle.Render(v.name)
		}
	}
	b.WriteString(strings.Join(tabs, "   "))
	b.WriteString("\n")

	rows := m.rows[m.Tab]
	end := min(m.Offset+m.Height, len(rows))
	b.WriteString(renderTable(inspectViews[m.Tab].headers, rows[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n")

	if len(rows) > m.Height {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %d-%d of %d", m.Offset+1, end, len(rows))))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("tab/←/→ switch view  ↑/↓ move  q quit"))
	b.WriteString("\n")

	return b.String()
}
