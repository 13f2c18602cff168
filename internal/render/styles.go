package render

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Gold      = lipgloss.Color("#F5C518")
	SlateDark = lipgloss.Color("#1F2937")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
	Blue      = lipgloss.Color("#3B82F6")
)

// Status markers
const (
	WantToWatchChar = "○"
	WatchingChar    = "◐"
	WatchedChar     = "✓"
	StarChar        = "★"
)

// styles is the set of text styles bound to one renderer, so output to a
// pipe or file carries no escape codes.
type styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Dim       lipgloss.Style
	Accent    lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Success   lipgloss.Style
	Header    lipgloss.Style
	Badge     lipgloss.Style
	RatingHi  lipgloss.Style
	RatingMid lipgloss.Style
	RatingLo  lipgloss.Style
	Link      lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		Title: r.NewStyle().
			Foreground(White).
			Bold(true),
		Subtitle: r.NewStyle().
			Foreground(LightGray),
		Dim: r.NewStyle().
			Foreground(DimGray),
		Accent: r.NewStyle().
			Foreground(Gold),
		Error: r.NewStyle().
			Foreground(Red).
			Bold(true),
		Warning: r.NewStyle().
			Foreground(Gold),
		Success: r.NewStyle().
			Foreground(Green),
		Header: r.NewStyle().
			Foreground(Gold).
			Bold(true).
			Underline(true),
		Badge: r.NewStyle().
			Foreground(SlateDark).
			Background(Gold).
			Padding(0, 1),
		RatingHi:  r.NewStyle().Foreground(Green),
		RatingMid: r.NewStyle().Foreground(Gold),
		RatingLo:  r.NewStyle().Foreground(Red),
		Link:      r.NewStyle().Foreground(Blue).Underline(true),
	}
}

// rating picks the color for a 0-10 score
func (s styles) rating(score float64) lipgloss.Style {
	switch {
	case score >= 7:
		return s.RatingHi
	case score >= 5:
		return s.RatingMid
	default:
		return s.RatingLo
	}
}
