package tmdb

import (
	"github.com/mmcdole/cinedex/internal/domain"
)

// MapResult converts a listing entry. fallback is used when the endpoint does
// not tag results with media_type (typed lists and searches).
func MapResult(r Result, fallback domain.MediaType) domain.Media {
	mediaType := domain.MediaType(r.MediaType)
	if mediaType == "" {
		mediaType = fallback
	}

	m := domain.Media{
		ID:               r.ID,
		MediaType:        mediaType,
		Title:            r.Title,
		OriginalTitle:    r.OriginalTitle,
		Overview:         r.Overview,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		ReleaseDate:      r.ReleaseDate,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Popularity:       r.Popularity,
		GenreIDs:         r.GenreIDs,
		OriginalLanguage: r.OriginalLanguage,
		Adult:            r.Adult,
	}

	// Shows and people use name fields
	if m.Title == "" {
		m.Title = r.Name
	}
	if m.OriginalTitle == "" {
		m.OriginalTitle = r.OriginalName
	}
	if m.ReleaseDate == "" {
		m.ReleaseDate = r.FirstAirDate
	}
	if m.PosterPath == "" && mediaType == domain.MediaTypePerson {
		m.PosterPath = r.ProfilePath
	}
	return m
}

// MapPage converts a paged response
func MapPage(resp PagedResponse, fallback domain.MediaType) *domain.Page[domain.Media] {
	results := make([]domain.Media, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, MapResult(r, fallback))
	}
	return &domain.Page[domain.Media]{
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
		Results:      results,
	}
}

// MapGenres converts the genre list
func MapGenres(genres []Genre) []domain.Genre {
	out := make([]domain.Genre, 0, len(genres))
	for _, g := range genres {
		out = append(out, domain.Genre{ID: g.ID, Name: g.Name})
	}
	return out
}

func mapCredits(c Credits) domain.Credits {
	out := domain.Credits{
		Cast: make([]domain.CastMember, 0, len(c.Cast)),
		Crew: make([]domain.CrewMember, 0, len(c.Crew)),
	}
	for _, m := range c.Cast {
		out.Cast = append(out.Cast, domain.CastMember{
			ID:          m.ID,
			Name:        m.Name,
			Character:   m.Character,
			ProfilePath: m.ProfilePath,
			Order:       m.Order,
		})
	}
	for _, m := range c.Crew {
		out.Crew = append(out.Crew, domain.CrewMember{
			ID:         m.ID,
			Name:       m.Name,
			Job:        m.Job,
			Department: m.Department,
		})
	}
	return out
}

func mapVideos(v Videos) []domain.Video {
	out := make([]domain.Video, 0, len(v.Results))
	for _, r := range v.Results {
		out = append(out, domain.Video{
			Key:      r.Key,
			Name:     r.Name,
			Site:     r.Site,
			Type:     r.Type,
			Official: r.Official,
		})
	}
	return out
}

func names(in []named) []string {
	out := make([]string, 0, len(in))
	for _, n := range in {
		out = append(out, n.Name)
	}
	return out
}

// MapMovieDetails converts /movie/{id}
func MapMovieDetails(d MovieDetails) *domain.MovieDetails {
	return &domain.MovieDetails{
		Media:    MapResult(d.Result, domain.MediaTypeMovie),
		IMDbID:   d.IMDbID,
		Tagline:  d.Tagline,
		Runtime:  d.Runtime,
		Status:   d.Status,
		Budget:   d.Budget,
		Revenue:  d.Revenue,
		Homepage: d.Homepage,
		Genres:   MapGenres(d.Genres),
		Credits:  mapCredits(d.Credits),
		Videos:   mapVideos(d.Videos),
		Similar:  MapPage(d.Similar, domain.MediaTypeMovie).Results,
	}
}

// MapTVDetails converts /tv/{id}
func MapTVDetails(d TVDetails) *domain.TVDetails {
	return &domain.TVDetails{
		Media:            MapResult(d.Result, domain.MediaTypeTV),
		IMDbID:           d.ExternalIDs.IMDbID,
		Tagline:          d.Tagline,
		Status:           d.Status,
		LastAirDate:      d.LastAirDate,
		NumberOfSeasons:  d.NumberOfSeasons,
		NumberOfEpisodes: d.NumberOfEpisodes,
		EpisodeRunTime:   d.EpisodeRunTime,
		Networks:         names(d.Networks),
		CreatedBy:        names(d.CreatedBy),
		Homepage:         d.Homepage,
		Genres:           MapGenres(d.Genres),
		Credits:          mapCredits(d.Credits),
		Videos:           mapVideos(d.Videos),
		Similar:          MapPage(d.Similar, domain.MediaTypeTV).Results,
	}
}
