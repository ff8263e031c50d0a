package models

import "time"

// Interaction kinds. A user holds at most one interaction per movie.
const (
	InteractionLike    = "LIKE"
	InteractionDislike = "DISLIKE"
)

// ValidInteractionKind reports whether kind is LIKE or DISLIKE.
func ValidInteractionKind(kind string) bool {
	return kind == InteractionLike || kind == InteractionDislike
}

// Interaction records a swipe verdict on a movie.
type Interaction struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	MovieID   int64     `json:"movieId"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Movie *Movie `json:"movie,omitempty"`
}

// InteractionStats summarizes a user's swipe history. LikeRatio is
// likes/total, zero when the user has no swipes yet.
type InteractionStats struct {
	Likes     int64   `json:"likes"`
	Dislikes  int64   `json:"dislikes"`
	Total     int64   `json:"total"`
	Last7Days int64   `json:"last7Days"`
	LikeRatio float64 `json:"likeRatio"`
}
