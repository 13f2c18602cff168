package omdb

import (
	"strconv"
	"strings"

	"github.com/mmcdole/cinedex/internal/domain"
)

// OMDb search pages are fixed at ten results
const searchPageSize = 10

// clean drops the "N/A" placeholder OMDb uses for missing values
func clean(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "N/A") {
		return ""
	}
	return s
}

// MapRatings converts a title lookup
func MapRatings(r TitleResponse) *domain.Ratings {
	out := &domain.Ratings{
		IMDbID:     clean(r.IMDbID),
		Title:      clean(r.Title),
		Year:       clean(r.Year),
		Rated:      clean(r.Rated),
		Runtime:    clean(r.Runtime),
		Director:   clean(r.Director),
		Awards:     clean(r.Awards),
		BoxOffice:  clean(r.BoxOffice),
		Metascore:  clean(r.Metascore),
		IMDbRating: clean(r.IMDbRating),
		IMDbVotes:  clean(r.IMDbVotes),
	}
	for _, s := range r.Ratings {
		if v := clean(s.Value); v != "" {
			out.Sources = append(out.Sources, domain.RatingSource{Source: s.Source, Value: v})
		}
	}
	return out
}

// MapSearch converts a search page
func MapSearch(r SearchResponse, page int) *domain.Page[domain.RatingsSearchResult] {
	results := make([]domain.RatingsSearchResult, 0, len(r.Search))
	for _, s := range r.Search {
		results = append(results, domain.RatingsSearchResult{
			IMDbID: s.IMDbID,
			Title:  s.Title,
			Year:   clean(s.Year),
			Type:   s.Type,
			Poster: clean(s.Poster),
		})
	}

	total, _ := strconv.Atoi(r.TotalResults)
	return &domain.Page[domain.RatingsSearchResult]{
		Page:         page,
		TotalPages:   (total + searchPageSize - 1) / searchPageSize,
		TotalResults: total,
		Results:      results,
	}
}
