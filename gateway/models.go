package gateway

import (
	"strings"
	"time"

	"github.com/tubular-cli/tubular/util"
)

const (
	verifiedThreshold = 100_000
	channelTitleLimit = 13
	vevoSuffix        = "VEVO"

	// DescriptionPreview is the number of runes shown before a description is expanded.
	DescriptionPreview = 50
	// NoDescription is shown for videos without a description.
	NoDescription = "No description available."
)

// Video is the public metadata of a video.
type Video struct {
	// ID is the platform id of the video.
	ID string `json:"id" jsonschema:"description=Platform id of the video."`
	// Title of the video.
	Title string `json:"title" jsonschema:"description=Title of the video."`
	// Description is the raw description text.
	Description string `json:"description" jsonschema:"description=Raw description of the video."`
	// ChannelID identifies the uploading channel.
	ChannelID string `json:"channelId" jsonschema:"description=Id of the uploading channel."`
	// ChannelTitle is the uploader's display name as reported on the video.
	ChannelTitle string `json:"channelTitle" jsonschema:"description=Display name of the uploading channel."`
	// PublishedAt is when the video went public.
	PublishedAt time.Time `json:"publishedAt" jsonschema:"description=Publication time of the video."`
	// Thumbnail is the url of the best available thumbnail.
	Thumbnail string `json:"thumbnail" jsonschema:"description=URL of the best available thumbnail."`
	Views     uint64 `json:"views" jsonschema:"description=Number of views."`
	Likes     uint64 `json:"likes" jsonschema:"description=Number of likes."`
	Comments  uint64 `json:"comments" jsonschema:"description=Number of comments."`
}

// DescriptionText returns the description cut to limit runes, or the full text when limit is not positive.
func (v *Video) DescriptionText(limit int) string {
	if v.Description == "" {
		return NoDescription
	}
	if limit <= 0 {
		return v.Description
	}
	return util.Truncate(v.Description, limit, "...")
}

// Page is one page of a video listing.
type Page struct {
	Videos []*Video `json:"videos" jsonschema:"description=Videos of the page, in listing order."`
	// NextPageToken requests the following page. It is empty on the last page.
	NextPageToken string `json:"nextPageToken,omitempty" jsonschema:"description=Token of the following page."`
}

// Channel is the public metadata of a channel.
type Channel struct {
	ID          string `json:"id" jsonschema:"description=Platform id of the channel."`
	Title       string `json:"title" jsonschema:"description=Display name of the channel."`
	Description string `json:"description" jsonschema:"description=Channel description."`
	// CustomURL is the channel's handle, such as @name. Empty when the channel has none.
	CustomURL   string `json:"customUrl" jsonschema:"description=Custom handle of the channel."`
	Thumbnail   string `json:"thumbnail" jsonschema:"description=URL of the channel avatar."`
	Subscribers uint64 `json:"subscribers" jsonschema:"description=Number of subscribers. Zero when hidden."`
	Videos      uint64 `json:"videos" jsonschema:"description=Number of public videos."`
}

// Verified reports whether the channel is shown with a verification mark.
func (c *Channel) Verified() bool {
	return c.Subscribers > verifiedThreshold && c.CustomURL != ""
}

// IsVevo reports whether the channel is a VEVO music channel.
func IsVevo(title string) bool {
	return strings.HasSuffix(title, vevoSuffix)
}

// DisplayTitle shortens a channel title for the compact header.
// VEVO channels lose the suffix; long or VEVO titles are cut and marked with "..".
func DisplayTitle(title string) string {
	if len([]rune(title)) <= channelTitleLimit && !IsVevo(title) {
		return title
	}
	stripped := strings.TrimSuffix(title, vevoSuffix)
	runes := []rune(stripped)
	if len(runes) > channelTitleLimit {
		runes = runes[:channelTitleLimit]
	}
	return string(runes) + ".."
}
