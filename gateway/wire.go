package gateway

import (
	"strconv"
	"time"

	"github.com/samber/lo"
)

type thumbnail struct {
	URL string `json:"url"`
}

type thumbnails struct {
	Default thumbnail `json:"default"`
	Medium  thumbnail `json:"medium"`
	High    thumbnail `json:"high"`
}

func (t thumbnails) best() string {
	switch {
	case t.High.URL != "":
		return t.High.URL
	case t.Medium.URL != "":
		return t.Medium.URL
	default:
		return t.Default.URL
	}
}

type videoSnippet struct {
	PublishedAt  string     `json:"publishedAt"`
	ChannelID    string     `json:"channelId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ChannelTitle string     `json:"channelTitle"`
	Thumbnails   thumbnails `json:"thumbnails"`
}

func (s videoSnippet) video(id string) *Video {
	published, _ := time.Parse(time.RFC3339, s.PublishedAt)
	return &Video{
		ID:           id,
		Title:        s.Title,
		Description:  s.Description,
		ChannelID:    s.ChannelID,
		ChannelTitle: s.ChannelTitle,
		PublishedAt:  published,
		Thumbnail:    s.Thumbnails.best(),
	}
}

type videoItem struct {
	ID         string       `json:"id"`
	Snippet    videoSnippet `json:"snippet"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
}

func (item videoItem) video() *Video {
	v := item.Snippet.video(item.ID)
	v.Views = count(item.Statistics.ViewCount)
	v.Likes = count(item.Statistics.LikeCount)
	v.Comments = count(item.Statistics.CommentCount)
	return v
}

type videoList struct {
	Items         []videoItem `json:"items"`
	NextPageToken string      `json:"nextPageToken"`
}

func (l *videoList) first() (*Video, bool) {
	if len(l.Items) == 0 {
		return nil, false
	}
	return l.Items[0].video(), true
}

func (l *videoList) videos() []*Video {
	return lo.Map(l.Items, func(item videoItem, _ int) *Video { return item.video() })
}

// searchList carries snippets only; statistics need a separate videos call.
type searchList struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet videoSnippet `json:"snippet"`
	} `json:"items"`
}

func (l *searchList) videos() []*Video {
	videos := make([]*Video, 0, len(l.Items))
	for _, item := range l.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, item.Snippet.video(item.ID.VideoID))
	}
	return videos
}

type channelList struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string     `json:"title"`
			Description string     `json:"description"`
			CustomURL   string     `json:"customUrl"`
			Thumbnails  thumbnails `json:"thumbnails"`
		} `json:"snippet"`
		Statistics struct {
			SubscriberCount       string `json:"subscriberCount"`
			HiddenSubscriberCount bool   `json:"hiddenSubscriberCount"`
			VideoCount            string `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (l *channelList) first() (*Channel, bool) {
	if len(l.Items) == 0 {
		return nil, false
	}
	item := l.Items[0]
	c := &Channel{
		ID:          item.ID,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		CustomURL:   item.Snippet.CustomURL,
		Thumbnail:   item.Snippet.Thumbnails.best(),
		Videos:      count(item.Statistics.VideoCount),
	}
	if !item.Statistics.HiddenSubscriberCount {
		c.Subscribers = count(item.Statistics.SubscriberCount)
	}
	return c, true
}

type subscriptionList struct {
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
}

type subscriptionInsert struct {
	Snippet struct {
		ResourceID struct {
			Kind      string `json:"kind"`
			ChannelID string `json:"channelId"`
		} `json:"resourceId"`
	} `json:"snippet"`
}

type subscription struct {
	ID string `json:"id"`
}

type ratingList struct {
	Items []struct {
		VideoID string `json:"videoId"`
		Rating  string `json:"rating"`
	} `json:"items"`
}

func count(s string) uint64 {
	n, _ := strconv.ParseUint(s, 10, 64)
	return n
}
