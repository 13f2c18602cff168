package render

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/cinedex/internal/domain"
	"github.com/mmcdole/cinedex/internal/service"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal
const DefaultWidth = 80

// maxBodyWidth caps wrapped paragraphs on wide terminals
const maxBodyWidth = 100

// Printer writes catalog and watchlist output. Colors are only emitted when the
// writer is a terminal.
type Printer struct {
	w     io.Writer
	width int
	st    styles
}

// NewPrinter creates a printer for w, sizing to the terminal when w is one
func NewPrinter(w io.Writer) *Printer {
	width := DefaultWidth
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			width = cols
		}
	}
	return &Printer{
		w:     w,
		width: width,
		st:    newStyles(lipgloss.NewRenderer(w)),
	}
}

// WithWidth overrides the detected width
func (p *Printer) WithWidth(width int) *Printer {
	if width > 0 {
		p.width = width
	}
	return p
}

func (p *Printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

func (p *Printer) bodyWidth() int {
	if p.width > maxBodyWidth {
		return maxBodyWidth
	}
	return p.width
}

// Warnings prints configuration problems
func (p *Printer) Warnings(problems []string) {
	for _, msg := range problems {
		p.println(p.st.Warning.Render("warning: " + msg))
	}
}

// Error prints a failure line
func (p *Printer) Error(err error) {
	p.println(p.st.Error.Render("error: ") + err.Error())
}

// Success prints a confirmation line
func (p *Printer) Success(msg string) {
	p.println(p.st.Success.Render(WatchedChar + " " + msg))
}

// Info prints a plain dim line
func (p *Printer) Info(msg string) {
	p.println(p.st.Dim.Render(msg))
}

// Section prints a heading
func (p *Printer) Section(title string) {
	p.println(p.st.Header.Render(title))
}

// === Listings ===

// MediaTable prints one row per title: id, type, title, year, and score
func (p *Printer) MediaTable(items []domain.Media) {
	if len(items) == 0 {
		p.Info("No results.")
		return
	}

	idWidth := 2
	for _, m := range items {
		if n := len(strconv.Itoa(m.ID)); n > idWidth {
			idWidth = n
		}
	}
	// id, type, year, and rating columns plus separators
	titleWidth := p.width - idWidth - 6 - 4 - 6 - 8
	if titleWidth < 10 {
		titleWidth = 10
	}

	for _, m := range items {
		score := FormatRating(m.VoteAverage)
		scoreText := p.st.Dim.Render(score)
		if m.VoteAverage > 0 {
			scoreText = p.st.rating(m.VoteAverage).Render(StarChar + " " + score)
		}
		year := m.Year()
		if year == "" {
			year = "----"
		}
		row := strings.Join([]string{
			p.st.Dim.Render(pad(strconv.Itoa(m.ID), idWidth)),
			pad(typeTag(m.MediaType), 6),
			p.st.Title.Render(pad(FitWidth(m.Title, titleWidth), titleWidth)),
			p.st.Subtitle.Render(year),
			scoreText,
		}, "  ")
		p.println(strings.TrimRight(row, " "))
	}
}

func typeTag(t domain.MediaType) string {
	switch t {
	case domain.MediaTypeMovie:
		return "movie"
	case domain.MediaTypeTV:
		return "tv"
	case domain.MediaTypePerson:
		return "person"
	default:
		return string(t)
	}
}

// Page prints a listing page with its position footer
func (p *Printer) Page(title string, page *domain.Page[domain.Media]) {
	if title != "" {
		p.Section(title)
	}
	p.MediaTable(page.Results)
	if page.TotalPages > 1 {
		p.println(p.st.Dim.Render(fmt.Sprintf("Page %d of %d (%d results)", page.Page, page.TotalPages, page.TotalResults)))
	}
}

// Home prints the three landing sections
func (p *Printer) Home(feed *service.HomeFeed) {
	p.Section("Trending Today")
	p.MediaTable(feed.Trending)
	p.println("")
	p.Section("Popular Movies")
	p.MediaTable(feed.PopularMovies)
	p.println("")
	p.Section("Popular TV Shows")
	p.MediaTable(feed.PopularTV)
}

// Genres prints id and name pairs
func (p *Printer) Genres(genres []domain.Genre) {
	for _, g := range genres {
		p.println(p.st.Dim.Render(pad(strconv.Itoa(g.ID), 6)) + g.Name)
	}
}

// Trailers prints video hits with their watch links
func (p *Printer) Trailers(trailers []domain.Trailer) {
	if len(trailers) == 0 {
		p.Info("No trailers found.")
		return
	}
	for i, t := range trailers {
		p.println(fmt.Sprintf("%d. %s", i+1, p.st.Title.Render(t.Title)))
		if t.ChannelTitle != "" {
			p.println("   " + p.st.Subtitle.Render(t.ChannelTitle))
		}
		p.println("   " + p.st.Link.Render(t.WatchURL()))
	}
}

// === Details ===

// Movie prints a movie detail page
func (p *Printer) Movie(view *service.MovieView) {
	d := view.MovieDetails
	p.header(d.Title, d.Year(), d.Tagline)

	meta := []string{FormatDate(d.ReleaseDate), FormatRuntime(d.Runtime)}
	if names := genreNames(d.Genres); names != "" {
		meta = append(meta, names)
	}
	p.println(p.st.Dim.Render(strings.Join(meta, " · ")))
	p.score(d.VoteAverage, d.VoteCount)
	p.overview(d.Overview)

	if directors := d.Credits.Directors(); len(directors) > 0 {
		p.field("Director", strings.Join(directors, ", "))
	}
	p.cast(d.Credits.Cast)
	p.ratings(view.Ratings)
	p.similar(d.Similar)
	if len(view.Trailers) > 0 {
		p.println("")
		p.Section("Trailers")
		p.Trailers(view.Trailers)
	}
}

// TV prints a show detail page
func (p *Printer) TV(view *service.TVView) {
	d := view.TVDetails
	p.header(d.Title, d.Year(), d.Tagline)

	meta := []string{FormatDate(d.ReleaseDate)}
	if d.NumberOfSeasons > 0 {
		meta = append(meta, plural(d.NumberOfSeasons, "season"))
	}
	if d.NumberOfEpisodes > 0 {
		meta = append(meta, plural(d.NumberOfEpisodes, "episode"))
	}
	if names := genreNames(d.Genres); names != "" {
		meta = append(meta, names)
	}
	p.println(p.st.Dim.Render(strings.Join(meta, " · ")))
	p.score(d.VoteAverage, d.VoteCount)
	p.overview(d.Overview)

	if len(d.CreatedBy) > 0 {
		p.field("Created by", strings.Join(d.CreatedBy, ", "))
	}
	if len(d.Networks) > 0 {
		p.field("Networks", strings.Join(d.Networks, ", "))
	}
	if d.Status != "" {
		p.field("Status", d.Status)
	}
	p.cast(d.Credits.Cast)
	p.ratings(view.Ratings)
	p.similar(d.Similar)
	if len(view.Trailers) > 0 {
		p.println("")
		p.Section("Trailers")
		p.Trailers(view.Trailers)
	}
}

func (p *Printer) header(title, year, tagline string) {
	line := p.st.Title.Render(title)
	if year != "" {
		line += " " + p.st.Subtitle.Render("("+year+")")
	}
	p.println(line)
	if tagline != "" {
		p.println(p.st.Accent.Italic(true).Render(tagline))
	}
}

func (p *Printer) score(avg float64, votes int) {
	if avg == 0 {
		return
	}
	p.println(p.st.rating(avg).Render(fmt.Sprintf("%s %s/10", StarChar, FormatRating(avg))) +
		p.st.Dim.Render(fmt.Sprintf("  (%d votes)", votes)))
}

func (p *Printer) overview(text string) {
	if text == "" {
		return
	}
	p.println("")
	p.println(p.st.Subtitle.Render(wordWrap(text, p.bodyWidth())))
	p.println("")
}

func (p *Printer) field(label, value string) {
	p.println(p.st.Dim.Render(label+": ") + value)
}

func (p *Printer) cast(cast []domain.CastMember) {
	const maxCast = 8
	if len(cast) == 0 {
		return
	}
	if len(cast) > maxCast {
		cast = cast[:maxCast]
	}
	names := make([]string, len(cast))
	for i, c := range cast {
		names[i] = c.Name
		if c.Character != "" {
			names[i] += " as " + c.Character
		}
	}
	p.field("Cast", wordWrap(strings.Join(names, ", "), p.bodyWidth()-6))
}

func (p *Printer) ratings(r *domain.Ratings) {
	if r == nil {
		return
	}
	p.println("")
	p.Section("Ratings")
	p.field("IMDb", FormatText(r.IMDbRating)+p.st.Dim.Render(votesSuffix(r.IMDbVotes)))
	for _, src := range r.Sources {
		if src.Source == "Internet Movie Database" {
			continue
		}
		p.field(src.Source, src.Value)
	}
	if r.Metascore != "" {
		p.field("Metascore", r.Metascore)
	}
	if r.Awards != "" {
		p.field("Awards", r.Awards)
	}
	if r.BoxOffice != "" {
		p.field("Box office", r.BoxOffice)
	}
}

func votesSuffix(votes string) string {
	if votes == "" {
		return ""
	}
	return " (" + votes + " votes)"
}

func (p *Printer) similar(items []domain.Media) {
	if len(items) == 0 {
		return
	}
	p.println("")
	p.Section("Similar")
	p.MediaTable(items)
}

// Ratings prints a standalone ratings record
func (p *Printer) Ratings(r *domain.Ratings) {
	p.header(r.Title, r.Year, "")
	p.ratings(r)
}

func genreNames(genres []domain.Genre) string {
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// === Watchlist ===

// statusMarker renders the status glyph
func (p *Printer) statusMarker(s domain.WatchStatus) string {
	switch s {
	case domain.StatusWatched:
		return p.st.Success.Render(WatchedChar)
	case domain.StatusWatching:
		return p.st.Accent.Render(WatchingChar)
	default:
		return p.st.Dim.Render(WantToWatchChar)
	}
}

// Watchlist prints entries with status, personal rating, and date added
func (p *Printer) Watchlist(items []domain.WatchlistItem) {
	if len(items) == 0 {
		p.Info("Your watchlist is empty.")
		return
	}
	titleWidth := p.width - 44
	if titleWidth < 10 {
		titleWidth = 10
	}
	for _, it := range items {
		rating := "-"
		if it.UserRating > 0 {
			rating = fmt.Sprintf("%d/10", it.UserRating)
		}
		added := "-"
		if !it.DateAdded.IsZero() {
			added = it.DateAdded.Local().Format("2006-01-02")
		}
		title := it.Title
		if y := domain.YearOf(it.ReleaseDate); y != "" {
			title += " (" + y + ")"
		}
		row := strings.Join([]string{
			p.statusMarker(it.Status),
			p.st.Dim.Render(pad(strconv.Itoa(it.ID), 7)),
			pad(typeTag(it.MediaType), 5),
			p.st.Title.Render(pad(FitWidth(title, titleWidth), titleWidth)),
			pad(rating, 5),
			p.st.Dim.Render(added),
		}, "  ")
		p.println(row)
	}
}

// WatchlistCounts prints the per-status summary line
func (p *Printer) WatchlistCounts(c domain.WatchlistCounts) {
	parts := []string{fmt.Sprintf("All %d", c.Total)}
	for _, s := range domain.Statuses {
		parts = append(parts, fmt.Sprintf("%s %d", s.Label(), c.ByStatus[s]))
	}
	p.println(p.st.Dim.Render(strings.Join(parts, " · ")))
}
