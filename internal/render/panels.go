package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/emotionscope/internal/analysis"
	"github.com/csheth/emotionscope/internal/report"
)

var (
	statLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#667eea"))
	statBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 2)
	timestampStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	quoteStyle     = lipgloss.NewStyle().Italic(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	cardTitleStyle = lipgloss.NewStyle().Bold(true)
)

const cardWidth = 26

func statsPanel(view report.View, width int) string {
	boxes := []string{
		statBox("Duration", view.Duration),
		statBox("Segments", strconv.Itoa(view.SegmentCount)),
		statBox("Dominant Emotion", view.Dominant),
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
	if lipgloss.Width(row) > width {
		return lipgloss.JoinVertical(lipgloss.Left, boxes...)
	}
	return row
}

func statBox(label, value string) string {
	return statBoxStyle.Render(statLabelStyle.Render(label) + "\n" + statValueStyle.Render(value))
}

func badge(label, color string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(color)).
		Padding(0, 1).
		Render(label)
}

func listPanel(entries []report.Entry, width int) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No speech segments were detected.")
	}
	wrap := width - 4
	if wrap < 20 {
		wrap = 20
	}
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		header := timestampStyle.Render(e.Timestamp) + "  " + badge(e.Emotion, e.Color)
		quote := quoteStyle.Render(wordwrap.String(`"`+e.Text+`"`, wrap))
		conf := mutedStyle.Render(entryDetails(e))
		body := lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(e.Color)).
			PaddingLeft(1).
			Render(strings.Join([]string{header, quote, conf}, "\n"))
		items = append(items, body)
	}
	return strings.Join(items, "\n\n")
}

func entryDetails(e report.Entry) string {
	parts := []string{fmt.Sprintf("Confidence: %s%%", formatNumber(e.Confidence))}
	if e.Span != "" {
		parts = append(parts, e.Span)
	}
	if e.Sentiment != "" {
		parts = append(parts, "sentiment "+strings.ToLower(e.Sentiment))
	}
	return strings.Join(parts, " · ")
}

func (a *Adapter) cardsPanel(summary analysis.Summary, width int) string {
	entries := summary.Entries()
	if len(entries) == 0 {
		return mutedStyle.Render("No emotions to summarize.")
	}
	perRow := width / (cardWidth + 2)
	if perRow < 1 {
		perRow = 1
	}
	cards := make([]string, len(entries))
	for i, e := range entries {
		lines := []string{
			cardTitleStyle.Render(e.Label),
			statLine("Occurrences:", strconv.Itoa(e.Count)),
			statLine("Percentage:", strconv.Itoa(e.Percentage)+"%"),
			statLine("Avg Confidence:", formatNumber(e.AvgConfidence)+"%"),
		}
		cards[i] = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(a.scale.ColorOf(e.Label))).
			Width(cardWidth).
			Padding(0, 1).
			Render(strings.Join(lines, "\n"))
	}
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := i + perRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func statLine(label, value string) string {
	return mutedStyle.Render(label) + " " + lipgloss.NewStyle().Bold(true).Render(value)
}

// formatNumber prints the shortest form of v, so 80 shows as "80" and 82.24
// keeps its decimals.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
