package inline

import (
	"encoding/json"

	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/open"
	"github.com/tubular-cli/tubular/session"
	"github.com/tubular-cli/tubular/util"
)

// Engagement is the signed-in user's relation to the video and its channel.
type Engagement struct {
	// Authenticated is false when no access token is stored; the other fields are then defaults.
	Authenticated bool `json:"authenticated"`
	// Rating is one of none, like or dislike.
	Rating     string `json:"rating" jsonschema:"enum=none,enum=like,enum=dislike"`
	Subscribed bool   `json:"subscribed"`
	// Reconciled is true once the values were confirmed by the remote service.
	Reconciled bool `json:"reconciled"`
}

type Output struct {
	Video       *gateway.Video   `json:"video"`
	Channel     *gateway.Channel `json:"channel"`
	Description string           `json:"description"`
	Views       string           `json:"views"`
	Published   string           `json:"published"`
	Subscribers string           `json:"subscribers"`
	Verified    bool             `json:"verified"`
	ShareURL    string           `json:"shareUrl"`
	Engagement  Engagement       `json:"engagement"`
}

func newOutput(snap session.Snapshot, full bool) *Output {
	limit := gateway.DescriptionPreview
	if full {
		limit = 0
	}

	out := &Output{
		Video:       snap.Video,
		Channel:     snap.Channel,
		Description: snap.Video.DescriptionText(limit),
		Views:       util.Views(snap.Video.Views),
		Published:   util.Ago(snap.Video.PublishedAt),
		ShareURL:    open.ShareURL(snap.Video.ID),
		Engagement: Engagement{
			Authenticated: snap.Authenticated,
			Rating:        snap.Rating.Rating.String(),
			Subscribed:    snap.Subscription.Subscription.Subscribed,
			Reconciled:    snap.Rating.Reconciled && snap.Subscription.Reconciled,
		},
	}
	if snap.Channel != nil {
		out.Subscribers = util.Compact(snap.Channel.Subscribers)
		out.Verified = snap.Channel.Verified()
	}
	return out
}

func asJson(out *Output) ([]byte, error) {
	return json.MarshalIndent(out, "", "  ")
}
