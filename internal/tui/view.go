package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/emotionscope/internal/emotion"
	"github.com/csheth/emotionscope/internal/render"
)

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	parts := []string{m.heroView(), m.filePanel()}
	switch m.stage {
	case stageIdle:
		parts = append(parts, helperStyle.Render(m.infoMessage))
	case stageLoading:
		parts = append(parts, m.spinner.View()+" "+helperStyle.Render(m.infoMessage))
	case stageError:
		parts = append(parts, errorBoxStyle.Render(m.errorMessage), helperStyle.Render(m.infoMessage))
	case stageSuccess:
		parts = append(parts, m.viewport.View())
		if m.renderError != "" {
			parts = append(parts, errorStyle.Render(m.renderError))
		}
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	parts = append(parts, m.keyHintsView())
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	status := backendOKStyle.Render("● " + m.backendStatus)
	if m.backendErr {
		status = errorStyle.Render("● " + m.backendStatus)
	}
	lines := []string{renderLogo(m.config.Scale), taglineStyle.Render(heroTagline), status}
	if job := m.lastJob.summary(); job != "" {
		lines = append(lines, helperStyle.Render(job))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *model) filePanel() string {
	lines := []string{sectionHeaderStyle.Render("Audio"), m.pathInput.View()}
	if m.fileError != "" {
		lines = append(lines, errorStyle.Render(m.fileError))
	} else if !m.pathInput.Focused() && m.selectedPath != "" {
		lines = append(lines, helperStyle.Render("Press o to choose a different file."))
	}
	return strings.Join(lines, "\n")
}

func (m *model) keyHintsView() string {
	var hints []keyHint
	switch {
	case m.pathInput.Focused():
		hints = []keyHint{{"enter", "select file"}, {"esc", "cancel"}, {"ctrl+c", "quit"}}
	case m.stage == stageLoading:
		hints = []keyHint{{"q", "quit"}}
	case m.stage == stageSuccess:
		hints = []keyHint{{"←/→", "inspect timeline"}, {"↑/↓", "scroll"}, {"a", "analyze again"}, {"o", "open file"}, {"q", "quit"}}
	default:
		hints = []keyHint{{"enter", "analyze"}, {"o", "open file"}, {"q", "quit"}}
	}
	cells := make([]string, 0, len(hints))
	for _, hint := range hints {
		cells = append(cells, keyStyle.Render(hint.Key)+keyDescStyle.Render(" "+hint.Description+"  "))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

type keyHint struct {
	Key         string
	Description string
}

func resultsContent(frame render.Frame) string {
	parts := []string{frame.Stats}
	if frame.Breakdown != "" {
		parts = append(parts, frame.Breakdown)
	}
	if frame.Timeline != "" {
		parts = append(parts, frame.Timeline)
	}
	if len(frame.Tooltip) > 0 {
		parts = append(parts, tooltipStyle.Render(strings.Join(frame.Tooltip, "\n")))
	}
	parts = append(parts,
		sectionHeaderStyle.Render("Emotion Summary")+"\n"+frame.Cards,
		sectionHeaderStyle.Render("Detailed Timeline")+"\n"+frame.List,
	)
	return joinNonEmpty(parts)
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

// renderLogo draws the wordmark over a band in the scale's colors, with a
// one-cell drop shadow.
func renderLogo(scale *emotion.Scale) string {
	levels := scale.Levels()
	word := []rune(logoWord)
	width := len(word) + 1
	band := make([]lipgloss.Style, len(word))
	for i := range word {
		idx := i * len(levels) / len(word)
		band[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(levels[len(levels)-1-idx].Color))
	}

	var face, bar, shadow strings.Builder
	face.WriteString(" ")
	for _, r := range word {
		face.WriteString(logoFaceStyle.Render(string(r)))
	}
	bar.WriteString(" ")
	for i := range word {
		bar.WriteString(band[i].Render("▀"))
	}
	shadow.WriteString("  ")
	shadow.WriteString(logoShadowStyle.Render(strings.Repeat("▀", width-1)))
	return logoContainerStyle.Render(strings.Join([]string{face.String(), bar.String(), shadow.String()}, "\n"))
}

const logoWord = " E M O T I O N S C O P E "

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	backendOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4caf50"))

	heroAccentColor        = lipgloss.Color("#667eea")
	heroEmberColor         = lipgloss.Color("#1d1b3a")
	heroTextColor          = lipgloss.Color("#f4f1ff")
	heroSecondaryTextColor = lipgloss.Color("#a5b4fc")

	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	tooltipStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Padding(0, 1)
	errorBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#c62828")).Foreground(lipgloss.Color("#ffcdd2")).Padding(0, 2)
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0b0a18"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
)
