package history

import (
	"fmt"
	"time"

	"github.com/tubular-cli/tubular/gateway"
)

// SavedVideo is a single entry of the watch history.
type SavedVideo struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ChannelID    string    `json:"channel_id"`
	ChannelTitle string    `json:"channel_title"`
	WatchedAt    time.Time `json:"watched_at"`
	Times        int       `json:"times"`
}

func (s *SavedVideo) String() string {
	return fmt.Sprintf("%s - %s", s.Title, gateway.DisplayTitle(s.ChannelTitle))
}

func newSavedVideo(video *gateway.Video) *SavedVideo {
	return &SavedVideo{
		ID:           video.ID,
		Title:        video.Title,
		ChannelID:    video.ChannelID,
		ChannelTitle: video.ChannelTitle,
	}
}
