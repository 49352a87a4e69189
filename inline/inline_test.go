package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tubular-cli/tubular/auth"
	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/session"
)

type stubGateway struct {
	rating gateway.Rating
	handle string
	rated  []gateway.Rating
}

func (s *stubGateway) FetchVideo(_ context.Context, id string) (*gateway.Video, error) {
	if id == "missing" {
		return nil, gateway.ErrNotFound
	}
	return &gateway.Video{
		ID:           id,
		Title:        "Never Gonna Give You Up",
		Description:  "The official video for “Never Gonna Give You Up” by Rick Astley, remastered in 4K.",
		ChannelID:    "UCrick",
		ChannelTitle: "RickAstleyVEVO",
		PublishedAt:  time.Now().Add(-50 * time.Hour),
		Views:        1_234_567,
	}, nil
}

func (s *stubGateway) FetchChannel(_ context.Context, id string) (*gateway.Channel, error) {
	return &gateway.Channel{ID: id, Title: "RickAstleyVEVO", CustomURL: "@RickAstleyYT", Subscribers: 4_200_000}, nil
}

func (s *stubGateway) Popular(context.Context, string) (*gateway.Page, error) {
	return &gateway.Page{}, nil
}

func (s *stubGateway) Search(context.Context, string, int) ([]*gateway.Video, error) {
	return nil, nil
}

func (s *stubGateway) GetSubscription(context.Context, string) (string, error) { return s.handle, nil }

func (s *stubGateway) SetSubscription(context.Context, string) (string, error) {
	s.handle = "sub-1"
	return s.handle, nil
}

func (s *stubGateway) ClearSubscription(context.Context, string) (bool, error) {
	s.handle = ""
	return true, nil
}

func (s *stubGateway) GetRating(context.Context, string) (gateway.Rating, error) { return s.rating, nil }

func (s *stubGateway) SetRating(_ context.Context, _ string, r gateway.Rating) error {
	s.rated = append(s.rated, r)
	s.rating = r
	return nil
}

func (s *stubGateway) ClearRating(context.Context, string) error {
	s.rating = gateway.RatingNone
	return nil
}

func TestRun(t *testing.T) {
	Convey("Given a video the user already subscribed to", t, func() {
		stub := &stubGateway{handle: "sub-0"}
		var buf bytes.Buffer
		opts := &Options{
			Out:     &buf,
			Gateway: stub,
			Auth:    auth.Static("token"),
			VideoID: "dQw4w9WgXcQ",
			Json:    true,
		}

		Convey("The JSON output carries metadata and reconciled engagement", func() {
			So(Run(context.Background(), opts), ShouldBeNil)

			var out Output
			So(json.Unmarshal(buf.Bytes(), &out), ShouldBeNil)
			So(out.Video.ID, ShouldEqual, "dQw4w9WgXcQ")
			So(out.Views, ShouldEqual, "1,234,567 views")
			So(out.Subscribers, ShouldEqual, "4.2M")
			So(out.Verified, ShouldBeTrue)
			So(out.ShareURL, ShouldEqual, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
			So(out.Description, ShouldEndWith, "...")
			So(out.Engagement, ShouldResemble, Engagement{Authenticated: true, Rating: "none", Subscribed: true, Reconciled: true})
		})

		Convey("The full flag keeps the whole description", func() {
			opts.Full = true
			So(Run(context.Background(), opts), ShouldBeNil)

			var out Output
			So(json.Unmarshal(buf.Bytes(), &out), ShouldBeNil)
			So(out.Description, ShouldEqual, out.Video.Description)
		})

		Convey("A like intent is applied before printing", func() {
			opts.Intent = mo.Some(IntentLike)
			So(Run(context.Background(), opts), ShouldBeNil)

			var out Output
			So(json.Unmarshal(buf.Bytes(), &out), ShouldBeNil)
			So(out.Engagement.Rating, ShouldEqual, "like")
			So(stub.rated, ShouldResemble, []gateway.Rating{gateway.RatingLiked})
		})

		Convey("A subscribe intent toggles the subscription off", func() {
			opts.Intent = mo.Some(IntentSubscribe)
			So(Run(context.Background(), opts), ShouldBeNil)
			So(stub.handle, ShouldBeEmpty)
		})

		Convey("Plain output is readable", func() {
			opts.Json = false
			So(Run(context.Background(), opts), ShouldBeNil)
			So(buf.String(), ShouldStartWith, "Never Gonna Give You Up\nRickAstley.. · 1,234,567 views · 2 days ago\n")
			So(buf.String(), ShouldContainSubstring, "rating: none  subscribed: true")
		})
	})

	Convey("Given no signed-in user", t, func() {
		opts := &Options{Out: &bytes.Buffer{}, Gateway: &stubGateway{}, Auth: auth.Static(""), VideoID: "dQw4w9WgXcQ"}

		Convey("Intents are rejected as unauthenticated", func() {
			opts.Intent = mo.Some(IntentDislike)
			err := Run(context.Background(), opts)
			So(errors.Is(err, session.Unauthenticated), ShouldBeTrue)
		})
	})

	Convey("Given a missing video", t, func() {
		opts := &Options{Out: &bytes.Buffer{}, Gateway: &stubGateway{}, Auth: auth.Static(""), VideoID: "missing"}

		Convey("The gateway error is surfaced", func() {
			err := Run(context.Background(), opts)
			So(errors.Is(err, gateway.ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, session.TransportFailure), ShouldBeTrue)
		})
	})
}

func TestParseIntent(t *testing.T) {
	Convey("Intent names are case-insensitive", t, func() {
		intent, err := ParseIntent(" Like ")
		So(err, ShouldBeNil)
		So(intent, ShouldEqual, IntentLike)

		_, err = ParseIntent("share")
		So(err, ShouldNotBeNil)
	})
}
