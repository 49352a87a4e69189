// Package history remembers which videos the user has watched.
package history

import (
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/tubular-cli/tubular/filesystem"
	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/where"
	"golang.org/x/exp/slices"
)

var cacher = gache.New[map[string]*SavedVideo](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// now is replaced in tests.
var now = time.Now

// Get returns every saved video keyed by video id.
func Get() (map[string]*SavedVideo, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedVideo), nil
	}
	return cached, nil
}

// Save records that video was watched. Watching it again moves it to the top.
func Save(video *gateway.Video) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record := newSavedVideo(video)
	if existing, ok := saved[record.ID]; ok {
		record.Times = existing.Times
	}
	record.Times++
	record.WatchedAt = now()

	saved[record.ID] = record
	return cacher.Set(saved)
}

// Remove deletes a video from the history.
func Remove(videoID string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, videoID)
	return cacher.Set(saved)
}

// Clear forgets every video.
func Clear() error {
	return cacher.Set(make(map[string]*SavedVideo))
}

// Recent returns the saved videos, most recently watched first.
func Recent() ([]*SavedVideo, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	videos := lo.Values(saved)
	slices.SortFunc(videos, func(a, b *SavedVideo) int {
		return b.WatchedAt.Compare(a.WatchedAt)
	})
	return videos, nil
}

// Filter returns the recent videos whose title or channel fuzzy-matches query.
func Filter(query string) ([]*SavedVideo, error) {
	videos, err := Recent()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return videos, nil
	}

	return lo.Filter(videos, func(v *SavedVideo, _ int) bool {
		return fuzzy.MatchFold(query, v.Title) || fuzzy.MatchFold(query, v.ChannelTitle)
	}), nil
}
