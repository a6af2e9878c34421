package skillcmder

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/contextware/better-agents/pkg/catalog"
	"github.com/contextware/better-agents/pkg/mcpconfig"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

type browseCommander struct {
	refresh bool
}

func newBrowseCmd() *cobra.Command {
	cmder := &browseCommander{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the skills catalog interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().BoolVar(&cmder.refresh, "refresh", false, "Refetch the catalog, ignoring the cache")

	return cmd
}

func (c *browseCommander) run(cmd *cobra.Command) error {
	svc, _, err := catalogService(cmd)
	if err != nil {
		return err
	}

	skills := svc.Skills(cmd.Context(), c.refresh)

	program := bubbletea.NewProgram(newBrowseModel(svc, skills),
		bubbletea.WithContext(cmd.Context()),
		bubbletea.WithAltScreen(),
	)
	_, err = program.Run()
	return err
}

type browseView int

const (
	viewCatalog browseView = iota
	viewSkill
)

type browseModel struct {
	svc        *catalog.Service
	skills     []catalog.Skill
	view       browseView
	cursor     int
	width      int
	height     int
	refreshing bool
	keys       browseKeyMap
	help       help.Model
}

var (
	browseTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	browseMutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	browseAccentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
	browseSectionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	browseHighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("82")).Bold(true)
	browseLabelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	browseValueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

type browseKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Enter, k.Back, k.Refresh, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Down, k.Up, k.Enter, k.Back}, {k.Refresh, k.Quit}}
}

func defaultBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Enter:   key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "details")),
		Back:    key.NewBinding(key.WithKeys("h", "esc"), key.WithHelp("h", "back")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type catalogLoadedMsg struct {
	skills []catalog.Skill
}

func newBrowseModel(svc *catalog.Service, skills []catalog.Skill) browseModel {
	return browseModel{
		svc:    svc,
		skills: skills,
		view:   viewCatalog,
		keys:   defaultBrowseKeyMap(),
		help:   help.New(),
	}
}

func (m browseModel) Init() bubbletea.Cmd {
	return nil
}

func (m browseModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case catalogLoadedMsg:
		m.refreshing = false
		m.skills = msg.skills
		m.cursor = clamp(m.cursor, len(m.skills)-1)
		return m, nil
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m browseModel) View() string {
	switch m.view {
	case viewSkill:
		return m.viewSkill()
	default:
		return m.viewCatalog()
	}
}

func (m browseModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, bubbletea.Quit
	case "j", "down":
		if len(m.skills) > 0 {
			m.cursor = clamp(m.cursor+1, len(m.skills)-1)
		}
	case "k", "up":
		if len(m.skills) > 0 {
			m.cursor = clamp(m.cursor-1, len(m.skills)-1)
		}
	case "l", "enter":
		if m.view == viewCatalog && len(m.skills) > 0 {
			m.view = viewSkill
		}
	case "h", "esc":
		if m.view == viewSkill {
			m.view = viewCatalog
		}
	case "r":
		if m.view == viewCatalog && !m.refreshing {
			m.refreshing = true
			return m, refreshCatalogCmd(m.svc)
		}
	}

	return m, nil
}

func refreshCatalogCmd(svc *catalog.Service) bubbletea.Cmd {
	return func() bubbletea.Msg {
		return catalogLoadedMsg{skills: svc.Skills(context.Background(), true)}
	}
}

func (m browseModel) viewCatalog() string {
	var b strings.Builder

	title := fmt.Sprintf("Skills Catalog (%d)", len(m.skills))
	if m.refreshing {
		title += "  " + browseMutedStyle.Render("refreshing...")
	}
	b.WriteString(browseTitleStyle.Render(title) + "\n\n")

	if len(m.skills) == 0 {
		b.WriteString(browseMutedStyle.Render("No skills available. The catalog may be unreachable; press r to retry.") + "\n")
		b.WriteString("\n" + browseMutedStyle.Render(m.help.View(m.keys)))
		return b.String()
	}

	nameWidth := 0
	for _, sk := range m.skills {
		if len(sk.Name) > nameWidth {
			nameWidth = len(sk.Name)
		}
	}

	maxVisible := m.height - 6
	if maxVisible < 1 {
		maxVisible = len(m.skills)
	}
	start, end := visibleRange(len(m.skills), m.cursor, maxVisible)

	for i := start; i < end; i++ {
		sk := m.skills[i]

		line := fmt.Sprintf("  %-*s  %s", nameWidth, sk.Name, truncateText(sk.Description, 56))
		if sk.RequiredMCPServer != "" {
			line += "  " + browseAccentStyle.Render("[mcp:"+sk.RequiredMCPServer+"]")
		}

		if i == m.cursor {
			b.WriteString(browseHighlightStyle.Render("> "+strings.TrimPrefix(line, "  ")) + "\n")
			continue
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + browseMutedStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m browseModel) viewSkill() string {
	if len(m.skills) == 0 || m.cursor >= len(m.skills) {
		return browseMutedStyle.Render("no skill selected")
	}

	sk := m.skills[m.cursor]
	var b strings.Builder

	b.WriteString(browseTitleStyle.Render(sk.Name) + "\n\n")
	if sk.Description != "" {
		b.WriteString(browseValueStyle.Render(sk.Description) + "\n\n")
	}

	writeField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(browseLabelStyle.Render(label) + " " + browseValueStyle.Render(value) + "\n")
	}

	writeField("MCP server:    ", sk.RequiredMCPServer)
	writeField("Authentication:", sk.Authentication)
	writeField("Depends on:    ", strings.Join(sk.DependsOn, ", "))
	writeField("Tags:          ", strings.Join(sk.Tags, ", "))
	writeField("Created:       ", sk.Created)

	if len(sk.MCPServers) > 0 {
		b.WriteString("\n" + browseSectionStyle.Render("MCP Servers") + "\n")
		for _, name := range sortedServerNames(sk.MCPServers) {
			b.WriteString("  " + browseAccentStyle.Render(name) + " " + browseMutedStyle.Render(serverSummary(sk.MCPServers[name])) + "\n")
		}
	}

	b.WriteString("\n" + browseMutedStyle.Render("Install with: better-agents skill add "+sk.Name) + "\n")
	b.WriteString("\n" + browseMutedStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func sortedServerNames(servers map[string]mcpconfig.Server) []string {
	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clamp(value, upper int) int {
	if value < 0 {
		return 0
	}
	if upper < 0 {
		return 0
	}
	if value > upper {
		return upper
	}
	return value
}

func visibleRange(total, cursor, size int) (int, int) {
	if total <= 0 || size <= 0 {
		return 0, 0
	}
	if total <= size {
		return 0, total
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= total {
		cursor = total - 1
	}
	start := max(cursor-(size/2), 0)
	end := start + size
	if end > total {
		end = total
		start = max(end-size, 0)
	}
	return start, end
}

func truncateText(value string, limit int) string {
	value = strings.ReplaceAll(value, "\n", " ")
	if len(value) <= limit {
		return value
	}
	if limit <= 3 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}
