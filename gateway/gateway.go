// Package gateway exposes the remote video platform as opaque operations:
// metadata reads for videos, channels and listings, and the user's subscriptions and ratings.
package gateway

import "context"

// Rating is the user's rating of a video.
type Rating int

const (
	RatingNone Rating = iota
	RatingLiked
	RatingDisliked
)

// String returns the wire name of the rating.
func (r Rating) String() string {
	switch r {
	case RatingLiked:
		return "like"
	case RatingDisliked:
		return "dislike"
	default:
		return "none"
	}
}

// ParseRating converts a wire name into a Rating. Unknown names are RatingNone.
func ParseRating(s string) Rating {
	switch s {
	case "like":
		return RatingLiked
	case "dislike":
		return RatingDisliked
	default:
		return RatingNone
	}
}

// Metadata reads public video and channel information.
type Metadata interface {
	FetchVideo(ctx context.Context, id string) (*Video, error)
	FetchChannel(ctx context.Context, id string) (*Channel, error)
	// Popular returns one page of the most popular videos. An empty pageToken starts at the first page.
	Popular(ctx context.Context, pageToken string) (*Page, error)
	// Search returns up to limit videos matching query. A non-positive limit uses the page size.
	Search(ctx context.Context, query string, limit int) ([]*Video, error)
}

// Engagement reads and mutates the signed-in user's relation to channels and videos.
type Engagement interface {
	// GetSubscription returns the subscription handle for channelID, or "" when not subscribed.
	GetSubscription(ctx context.Context, channelID string) (string, error)
	// SetSubscription subscribes to channelID and returns the new handle.
	SetSubscription(ctx context.Context, channelID string) (string, error)
	// ClearSubscription cancels the subscription identified by handle.
	ClearSubscription(ctx context.Context, handle string) (bool, error)
	GetRating(ctx context.Context, videoID string) (Rating, error)
	// SetRating rates videoID. Only RatingLiked and RatingDisliked are accepted.
	SetRating(ctx context.Context, videoID string, rating Rating) error
	ClearRating(ctx context.Context, videoID string) error
}

// Gateway is the complete remote surface.
type Gateway interface {
	Metadata
	Engagement
}
