package models

// TMDB movie genre IDs.
// Source: https://developer.themoviedb.org/reference/genre-movie-list
const (
	GenreAction         int64 = 28
	GenreAdventure      int64 = 12
	GenreAnimation      int64 = 16
	GenreComedy         int64 = 35
	GenreCrime          int64 = 80
	GenreDocumentary    int64 = 99
	GenreDrama          int64 = 18
	GenreFamily         int64 = 10751
	GenreFantasy        int64 = 14
	GenreHistory        int64 = 36
	GenreHorror         int64 = 27
	GenreMusic          int64 = 10402
	GenreMystery        int64 = 9648
	GenreRomance        int64 = 10749
	GenreScienceFiction int64 = 878
	GenreThriller       int64 = 53
	GenreWar            int64 = 10752
	GenreWestern        int64 = 37
)

var genreNames = map[int64]string{
	GenreAction:         "Action",
	GenreAdventure:      "Adventure",
	GenreAnimation:      "Animation",
	GenreComedy:         "Comedy",
	GenreCrime:          "Crime",
	GenreDocumentary:    "Documentary",
	GenreDrama:          "Drama",
	GenreFamily:         "Family",
	GenreFantasy:        "Fantasy",
	GenreHistory:        "History",
	GenreHorror:         "Horror",
	GenreMusic:          "Music",
	GenreMystery:        "Mystery",
	GenreRomance:        "Romance",
	GenreScienceFiction: "Science Fiction",
	GenreThriller:       "Thriller",
	GenreWar:            "War",
	GenreWestern:        "Western",
}

// AllGenres lists every known movie genre ID.
var AllGenres = []int64{
	GenreAction, GenreAdventure, GenreAnimation, GenreComedy, GenreCrime,
	GenreDocumentary, GenreDrama, GenreFamily, GenreFantasy, GenreHistory,
	GenreHorror, GenreMusic, GenreMystery, GenreRomance, GenreScienceFiction,
	GenreThriller, GenreWar, GenreWestern,
}

// GenreName resolves a TMDB genre ID to its English name.
func GenreName(id int64) string {
	if name, ok := genreNames[id]; ok {
		return name
	}
	return "Unknown"
}
