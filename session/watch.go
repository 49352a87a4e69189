// Package session binds a video to its player and to the user's engagement with it.
//
// A Watch is what the presentation layer holds: it exposes a read-only Snapshot,
// accepts intents (toggle subscription, toggle rating, relocate) and signals changes.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/log"
	"github.com/tubular-cli/tubular/player"
	"golang.org/x/sync/errgroup"
)

// Deps are the collaborators shared by every Watch.
type Deps struct {
	Metadata   gateway.Metadata
	Engagement *Engagement
	Factory    player.Factory
	Runtime    *player.Runtime
}

// InFlight flags outstanding remote requests.
type InFlight struct {
	Rating       bool `json:"rating"`
	Subscription bool `json:"subscription"`
}

// Snapshot is everything the presentation layer renders.
type Snapshot struct {
	ID            string             `json:"id"`
	Video         *gateway.Video     `json:"video"`
	Channel       *gateway.Channel   `json:"channel"`
	Playback      PlaybackStatus     `json:"playback"`
	Rating        RatingStatus       `json:"rating"`
	Subscription  SubscriptionStatus `json:"subscription"`
	InFlight      InFlight           `json:"inFlight"`
	Authenticated bool               `json:"authenticated"`
}

// Watch is one open video.
type Watch struct {
	id       string
	deps     Deps
	video    *gateway.Video
	channel  *gateway.Channel
	playback *Playback
	logger   *logrus.Entry

	ctx         context.Context
	cancel      context.CancelFunc
	changed     chan struct{}
	unsubscribe func()
	closeOnce   sync.Once
}

// Open fetches the video and its channel, reads the user's engagement and mounts a player.
func Open(ctx context.Context, deps Deps, videoID string) (*Watch, error) {
	return open(ctx, deps, videoID, mo.None[float64]())
}

// OpenRelocated opens the video of a handoff; the player seeks to the carried position once ready.
func OpenRelocated(ctx context.Context, deps Deps, handoff Handoff) (*Watch, error) {
	return open(ctx, deps, handoff.VideoID, mo.Some(handoff.Position))
}

func open(ctx context.Context, deps Deps, videoID string, start mo.Option[float64]) (*Watch, error) {
	const op = "open"

	id := uuid.NewString()
	logger := log.WithFields(log.Fields{"session": id, "video": videoID})

	video, err := deps.Metadata.FetchVideo(ctx, videoID)
	if err != nil {
		return nil, newError(TransportFailure, op, videoID, err)
	}

	var channel *gateway.Channel
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		channel, err = deps.Metadata.FetchChannel(gctx, video.ChannelID)
		return err
	})
	g.Go(func() error {
		if err := deps.Engagement.ObserveRating(gctx, video.ID); err != nil {
			logger.Warn(err)
		}
		return nil
	})
	g.Go(func() error {
		if err := deps.Engagement.ObserveSubscription(gctx, video.ChannelID); err != nil {
			logger.Warn(err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, newError(TransportFailure, op, video.ChannelID, err)
	}

	w := newWatch(deps, id, video, channel, start, logger)
	logger.WithField("relocated", start.IsPresent()).Info("watch opened")
	return w, nil
}

// Reopen opens the handoff of w with deps, reusing the metadata w already holds.
// It brings playback back when the watch a handoff was meant for could not be opened.
func (w *Watch) Reopen(deps Deps, handoff Handoff) *Watch {
	id := uuid.NewString()
	logger := log.WithFields(log.Fields{"session": id, "video": w.video.ID})
	next := newWatch(deps, id, w.video, w.channel, mo.Some(handoff.Position), logger)
	logger.WithField("previous", w.id).Info("watch reopened")
	return next
}

func newWatch(deps Deps, id string, video *gateway.Video, channel *gateway.Channel, start mo.Option[float64], logger *logrus.Entry) *Watch {
	w := &Watch{
		id:      id,
		deps:    deps,
		video:   video,
		channel: channel,
		logger:  logger,
		changed: make(chan struct{}, 1),
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.unsubscribe = deps.Engagement.Subscribe(w.notify)
	w.playback = NewPlayback(PlaybackConfig{
		VideoID:  video.ID,
		Factory:  deps.Factory,
		Runtime:  deps.Runtime,
		Start:    start,
		OnChange: w.notify,
	})
	w.playback.Mount()
	return w
}

func (w *Watch) notify() {
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

// Changed receives a value after state changes. Bursts are coalesced.
func (w *Watch) Changed() <-chan struct{} {
	return w.changed
}

// Done is closed when the watch is closed.
func (w *Watch) Done() <-chan struct{} {
	return w.ctx.Done()
}

// ID identifies the watch in logs.
func (w *Watch) ID() string {
	return w.id
}

// Video returns the video metadata.
func (w *Watch) Video() *gateway.Video {
	return w.video
}

// Channel returns the channel metadata.
func (w *Watch) Channel() *gateway.Channel {
	return w.channel
}

// Snapshot returns the current state.
func (w *Watch) Snapshot() Snapshot {
	rating := w.deps.Engagement.Rating(w.video.ID)
	subscription := w.deps.Engagement.Subscription(w.video.ChannelID)
	return Snapshot{
		ID:            w.id,
		Video:         w.video,
		Channel:       w.channel,
		Playback:      w.playback.Status(),
		Rating:        rating,
		Subscription:  subscription,
		InFlight:      InFlight{Rating: rating.InFlight, Subscription: subscription.InFlight},
		Authenticated: w.deps.Engagement.Authenticated(),
	}
}

// bind derives a context that also ends when the watch closes.
func (w *Watch) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(w.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// RequestToggleSubscription subscribes to or unsubscribes from the video's channel.
// It blocks until the remote call settles.
func (w *Watch) RequestToggleSubscription(ctx context.Context) error {
	ctx, cancel := w.bind(ctx)
	defer cancel()
	return w.deps.Engagement.ToggleSubscription(ctx, w.video.ChannelID)
}

// RequestToggleRating presses the like or dislike control. It blocks until the remote call settles.
func (w *Watch) RequestToggleRating(ctx context.Context, p Press) error {
	ctx, cancel := w.bind(ctx)
	defer cancel()
	return w.deps.Engagement.ToggleRating(ctx, w.video.ID, p)
}

// RequestReconcile reads again whatever engagement of the watch is not confirmed by the remote,
// e.g. after a failed read or a discarded response.
func (w *Watch) RequestReconcile(ctx context.Context) error {
	ctx, cancel := w.bind(ctx)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error { return w.deps.Engagement.ObserveRating(ctx, w.video.ID) })
	g.Go(func() error { return w.deps.Engagement.ObserveSubscription(ctx, w.video.ChannelID) })
	return g.Wait()
}

// RequestSeek seeks the player, queueing the position if it is not ready yet.
func (w *Watch) RequestSeek(seconds float64) error {
	return w.playback.RequestSeek(seconds)
}

// RequestRelocate hands playback over to another context.
// The returned Handoff is passed to OpenRelocated.
func (w *Watch) RequestRelocate() (Handoff, error) {
	handoff, err := w.playback.Relocate()
	if err != nil {
		return Handoff{}, err
	}
	w.logger.WithField("position", handoff.Position).Info("relocating")
	return handoff, nil
}

// Close releases the player and discards any response still outstanding for this watch.
func (w *Watch) Close() {
	w.closeOnce.Do(func() {
		w.cancel()
		w.playback.Close()
		w.unsubscribe()
		w.logger.Info("watch closed")
	})
}
