package tmdb

// Result is one entry in a TMDB listing. Movies populate Title/ReleaseDate,
// shows populate Name/FirstAirDate, people populate Name only.
type Result struct {
	ID               int     `json:"id"`
	MediaType        string  `json:"media_type,omitempty"`
	Title            string  `json:"title,omitempty"`
	Name             string  `json:"name,omitempty"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	OriginalName     string  `json:"original_name,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	ProfilePath      string  `json:"profile_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	FirstAirDate     string  `json:"first_air_date,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Adult            bool    `json:"adult,omitempty"`
}

// PagedResponse is the envelope for search, list, trending, and discover endpoints
type PagedResponse struct {
	Page         int      `json:"page"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
	Results      []Result `json:"results"`
}

// GenreResponse wraps /genre/{type}/list
type GenreResponse struct {
	Genres []Genre `json:"genres"`
}

// Genre is a genre id/name pair
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Credits is the appended credits block
type Credits struct {
	Cast []struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		Character   string `json:"character"`
		ProfilePath string `json:"profile_path"`
		Order       int    `json:"order"`
	} `json:"cast"`
	Crew []struct {
		ID         int    `json:"id"`
		Name       string `json:"name"`
		Job        string `json:"job"`
		Department string `json:"department"`
	} `json:"crew"`
}

// Videos is the appended videos block
type Videos struct {
	Results []struct {
		Key      string `json:"key"`
		Name     string `json:"name"`
		Site     string `json:"site"`
		Type     string `json:"type"`
		Official bool   `json:"official"`
	} `json:"results"`
}

// MovieDetails is /movie/{id} with credits, videos, and similar appended
type MovieDetails struct {
	Result
	IMDbID   string        `json:"imdb_id"`
	Tagline  string        `json:"tagline"`
	Runtime  int           `json:"runtime"`
	Status   string        `json:"status"`
	Budget   int64         `json:"budget"`
	Revenue  int64         `json:"revenue"`
	Homepage string        `json:"homepage"`
	Genres   []Genre       `json:"genres"`
	Credits  Credits       `json:"credits"`
	Videos   Videos        `json:"videos"`
	Similar  PagedResponse `json:"similar"`
}

// named is the {id, name} shape used for networks and creators
type named struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TVDetails is /tv/{id} with credits, videos, similar, and external ids appended
type TVDetails struct {
	Result
	Tagline          string        `json:"tagline"`
	Status           string        `json:"status"`
	LastAirDate      string        `json:"last_air_date"`
	NumberOfSeasons  int           `json:"number_of_seasons"`
	NumberOfEpisodes int           `json:"number_of_episodes"`
	EpisodeRunTime   []int         `json:"episode_run_time"`
	Networks         []named       `json:"networks"`
	CreatedBy        []named       `json:"created_by"`
	Homepage         string        `json:"homepage"`
	Genres           []Genre       `json:"genres"`
	Credits          Credits       `json:"credits"`
	Videos           Videos        `json:"videos"`
	Similar          PagedResponse `json:"similar"`
	ExternalIDs      struct {
		IMDbID string `json:"imdb_id"`
	} `json:"external_ids"`
}

// ErrorResponse is the body TMDB sends with non-2xx statuses
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
