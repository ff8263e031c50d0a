package models

import "time"

// Runtime preference buckets. Short is up to 89 minutes, medium 90-150,
// long 151 and above.
const (
	RuntimeAny    = "any"
	RuntimeShort  = "short"
	RuntimeMedium = "medium"
	RuntimeLong   = "long"
)

// ValidRuntimePreference reports whether v is one of the runtime buckets.
func ValidRuntimePreference(v string) bool {
	switch v {
	case RuntimeAny, RuntimeShort, RuntimeMedium, RuntimeLong:
		return true
	}
	return false
}

// GenreFlags holds the per-genre taste toggles. Each flag is tri-state:
// nil means the user never touched it, true/false record an explicit choice.
// Anime is a virtual genre (Animation restricted to Japanese origin) and has
// no TMDB genre ID of its own.
type GenreFlags struct {
	Documentary    *bool `json:"genreDocumentary,omitempty"`
	Anime          *bool `json:"genreAnime,omitempty"`
	Action         *bool `json:"genreAction,omitempty"`
	Animation      *bool `json:"genreAnimation,omitempty"`
	Adventure      *bool `json:"genreAdventure,omitempty"`
	Comedy         *bool `json:"genreComedy,omitempty"`
	Horror         *bool `json:"genreHorror,omitempty"`
	Drama          *bool `json:"genreDrama,omitempty"`
	Fantasy        *bool `json:"genreFantasy,omitempty"`
	ScienceFiction *bool `json:"genreScienceFiction,omitempty"`
	Romance        *bool `json:"genreRomance,omitempty"`
	Thriller       *bool `json:"genreThriller,omitempty"`
	Crime          *bool `json:"genreCrime,omitempty"`
	Family         *bool `json:"genreFamily,omitempty"`
	History        *bool `json:"genreHistory,omitempty"`
	Music          *bool `json:"genreMusic,omitempty"`
	Mystery        *bool `json:"genreMystery,omitempty"`
	War            *bool `json:"genreWar,omitempty"`
	Western        *bool `json:"genreWestern,omitempty"`
}

// GenreSelection is one genre flag together with its identity, in the
// resolver's fixed priority order.
type GenreSelection struct {
	Name    string
	GenreID int64 // 0 for the virtual anime genre
	Anime   bool
	Value   *bool
}

// Ordered returns every flag in priority order: the first enabled entry
// decides which genre a discovery request targets.
func (g GenreFlags) Ordered() []GenreSelection {
	return []GenreSelection{
		{Name: "documentary", GenreID: GenreDocumentary, Value: g.Documentary},
		{Name: "anime", GenreID: GenreAnimation, Anime: true, Value: g.Anime},
		{Name: "action", GenreID: GenreAction, Value: g.Action},
		{Name: "animation", GenreID: GenreAnimation, Value: g.Animation},
		{Name: "adventure", GenreID: GenreAdventure, Value: g.Adventure},
		{Name: "comedy", GenreID: GenreComedy, Value: g.Comedy},
		{Name: "horror", GenreID: GenreHorror, Value: g.Horror},
		{Name: "drama", GenreID: GenreDrama, Value: g.Drama},
		{Name: "fantasy", GenreID: GenreFantasy, Value: g.Fantasy},
		{Name: "science_fiction", GenreID: GenreScienceFiction, Value: g.ScienceFiction},
		{Name: "romance", GenreID: GenreRomance, Value: g.Romance},
		{Name: "thriller", GenreID: GenreThriller, Value: g.Thriller},
		{Name: "crime", GenreID: GenreCrime, Value: g.Crime},
		{Name: "family", GenreID: GenreFamily, Value: g.Family},
		{Name: "history", GenreID: GenreHistory, Value: g.History},
		{Name: "music", GenreID: GenreMusic, Value: g.Music},
		{Name: "mystery", GenreID: GenreMystery, Value: g.Mystery},
		{Name: "war", GenreID: GenreWar, Value: g.War},
		{Name: "western", GenreID: GenreWestern, Value: g.Western},
	}
}

// FirstEnabled returns the highest-priority flag explicitly set to true,
// or nil when no genre is enabled.
func (g GenreFlags) FirstEnabled() *GenreSelection {
	for _, sel := range g.Ordered() {
		if sel.Value != nil && *sel.Value {
			s := sel
			return &s
		}
	}
	return nil
}

// Preferences is a user's stored taste profile. A user without a stored row
// is served DefaultPreferences.
type Preferences struct {
	UserID string `json:"userId"`
	GenreFlags

	MinYear           *int     `json:"minYear,omitempty"`
	MaxYear           *int     `json:"maxYear,omitempty"`
	MinRating         *float64 `json:"minRating,omitempty"`
	RuntimePreference string   `json:"runtimePreference"`

	PreferClassic *bool `json:"preferClassic,omitempty"`
	PreferModern  *bool `json:"preferModern,omitempty"`
	PreferRecent  *bool `json:"preferRecent,omitempty"`

	ChildMode bool `json:"childMode"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultPreferences is what a user gets before saving anything: every flag
// unset, no year or rating bounds, any runtime, child mode off.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:            userID,
		RuntimePreference: RuntimeAny,
	}
}
