package session

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tubular-cli/tubular/auth"
	"github.com/tubular-cli/tubular/player"
	"go.uber.org/goleak"
)

type watchFixture struct {
	remote *fakeRemote
	eng    *Engagement
	ff     *fakeFactory
	rt     *player.Runtime
}

func newWatchFixture(token string) *watchFixture {
	remote := newFakeRemote()
	rt := player.NewRuntime()
	rt.MarkReady()
	return &watchFixture{
		remote: remote,
		eng:    NewEngagement(remote, auth.Static(token)),
		ff:     &fakeFactory{},
		rt:     rt,
	}
}

func (f *watchFixture) deps() Deps {
	return Deps{Metadata: f.remote, Engagement: f.eng, Factory: f.ff.factory(), Runtime: f.rt}
}

func TestOpen(t *testing.T) {
	Convey("Given a signed-in user subscribed to the channel who liked the video", t, func() {
		fx := newWatchFixture("token")
		fx.remote.handle = "X"
		fx.remote.rating = RatingLiked
		ctx := context.Background()

		w, err := Open(ctx, fx.deps(), videoID)
		So(err, ShouldBeNil)
		defer w.Close()

		Convey("Opening reconciles engagement and mounts a player", func() {
			snap := w.Snapshot()
			So(snap.ID, ShouldNotBeEmpty)
			So(snap.Video.ID, ShouldEqual, videoID)
			So(snap.Channel.ID, ShouldEqual, channelID)
			So(snap.Channel.Verified(), ShouldBeTrue)
			So(snap.Authenticated, ShouldBeTrue)
			So(snap.Rating.Rating, ShouldEqual, RatingLiked)
			So(snap.Rating.Reconciled, ShouldBeTrue)
			So(snap.Subscription.Subscription, ShouldResemble, Subscription{Subscribed: true, Handle: "X"})
			So(snap.InFlight, ShouldResemble, InFlight{})
			So(fx.ff.count(), ShouldEqual, 1)
			So(snap.Playback.State, ShouldEqual, PlaybackLoading)
		})

		Convey("Toggles show as in flight in the snapshot", func() {
			release := fx.remote.block(opClearSubscription)
			done := make(chan error, 1)
			go func() { done <- w.RequestToggleSubscription(ctx) }()
			So(fx.remote.waitEntered(opClearSubscription), ShouldBeTrue)

			snap := w.Snapshot()
			So(snap.InFlight.Subscription, ShouldBeTrue)
			So(snap.Subscription.Subscription.Subscribed, ShouldBeFalse)

			release()
			So(<-done, ShouldBeNil)
			So(w.Snapshot().InFlight.Subscription, ShouldBeFalse)
		})

		Convey("State changes are signalled", func() {
			for len(w.Changed()) > 0 {
				<-w.Changed()
			}
			So(w.RequestToggleRating(ctx, PressLike), ShouldBeNil)
			select {
			case <-w.Changed():
			case <-time.After(time.Second):
				So("no change signal", ShouldBeEmpty)
			}
			So(w.Snapshot().Rating.Rating, ShouldEqual, RatingNone)
		})
	})

	Convey("Given the video cannot be fetched", t, func() {
		fx := newWatchFixture("token")
		fx.remote.failWith(opFetchVideo, errRemote)

		Convey("Opening fails without mounting a player", func() {
			_, err := Open(context.Background(), fx.deps(), videoID)
			So(errors.Is(err, TransportFailure), ShouldBeTrue)
			So(fx.ff.count(), ShouldEqual, 0)
		})
	})

	Convey("Given a failed engagement read", t, func() {
		fx := newWatchFixture("token")
		fx.remote.failWith(opGetRating, errRemote)

		Convey("Opening still succeeds with the default rating", func() {
			w, err := Open(context.Background(), fx.deps(), videoID)
			So(err, ShouldBeNil)
			defer w.Close()
			So(w.Snapshot().Rating.Rating, ShouldEqual, RatingNone)
			So(w.Snapshot().Rating.Reconciled, ShouldBeFalse)

			Convey("and a later reconcile request reads the rating again", func() {
				fx.remote.mu.Lock()
				fx.remote.rating = RatingDisliked
				fx.remote.mu.Unlock()
				fx.remote.failWith(opGetRating, nil)

				So(w.RequestReconcile(context.Background()), ShouldBeNil)
				So(w.Snapshot().Rating.Reconciled, ShouldBeTrue)
				So(w.Snapshot().Rating.Rating, ShouldEqual, RatingDisliked)
				So(fx.remote.count(opGetRating), ShouldEqual, 2)
				So(fx.remote.count(opGetSubscription), ShouldEqual, 1)
			})
		})
	})

	Convey("Given no signed-in user", t, func() {
		fx := newWatchFixture("")

		Convey("The watch opens with default engagement and rejects toggles", func() {
			w, err := Open(context.Background(), fx.deps(), videoID)
			So(err, ShouldBeNil)
			defer w.Close()

			So(w.Snapshot().Authenticated, ShouldBeFalse)
			So(fx.remote.count(opGetRating), ShouldEqual, 0)

			err = w.RequestToggleSubscription(context.Background())
			So(ConditionOf(err), ShouldEqual, Unauthenticated)
			So(w.Snapshot().Subscription.Subscription.Subscribed, ShouldBeFalse)
		})
	})
}

func TestRelocation(t *testing.T) {
	Convey("Given an active watch subscribed with handle X", t, func() {
		fx := newWatchFixture("token")
		fx.remote.handle = "X"
		ctx := context.Background()

		w, err := Open(ctx, fx.deps(), videoID)
		So(err, ShouldBeNil)
		defer w.Close()

		local := fx.ff.last()
		local.fireReady()
		So(eventually(func() bool { return w.Snapshot().Playback.State == PlaybackActive }), ShouldBeTrue)
		local.setPosition(95.5)

		Convey("Relocating hands the position to a new watch that seeks once", func() {
			handoff, err := w.RequestRelocate()
			So(err, ShouldBeNil)
			So(handoff, ShouldResemble, Handoff{VideoID: videoID, Position: 95.5})
			So(local.destroyCount(), ShouldEqual, 1)
			So(w.Snapshot().Playback.State, ShouldEqual, PlaybackRelocated)

			pip, err := OpenRelocated(ctx, fx.deps(), handoff)
			So(err, ShouldBeNil)
			defer pip.Close()

			remote := fx.ff.last()
			So(remote, ShouldNotEqual, local)
			remote.fireReady()
			So(eventually(func() bool { return pip.Snapshot().Playback.State == PlaybackActive }), ShouldBeTrue)
			So(remote.seekCalls(), ShouldResemble, []float64{95.5})

			Convey("and engagement stays shared and reconciled once", func() {
				So(pip.Snapshot().Subscription.Subscription, ShouldResemble, Subscription{Subscribed: true, Handle: "X"})
				So(fx.remote.count(opGetSubscription), ShouldEqual, 1)
			})
		})

		Convey("Reopening a handoff restores playback without fetching again", func() {
			handoff, err := w.RequestRelocate()
			So(err, ShouldBeNil)

			back := w.Reopen(fx.deps(), handoff)
			defer back.Close()
			So(back.ID(), ShouldNotEqual, w.ID())
			So(back.Video(), ShouldEqual, w.Video())
			So(fx.remote.count(opFetchVideo), ShouldEqual, 1)

			fx.ff.last().fireReady()
			So(eventually(func() bool { return back.Snapshot().Playback.State == PlaybackActive }), ShouldBeTrue)
			So(fx.ff.last().seekCalls(), ShouldResemble, []float64{95.5})
		})
	})
}

func TestRelocationDuringToggle(t *testing.T) {
	Convey("Given a subscribe request in flight on the watch being relocated", t, func() {
		fx := newWatchFixture("token")
		ctx := context.Background()

		w, err := Open(ctx, fx.deps(), videoID)
		So(err, ShouldBeNil)
		defer w.Close()

		release := fx.remote.block(opSetSubscription)
		defer release()
		toggled := make(chan error, 1)
		go func() { toggled <- w.RequestToggleSubscription(ctx) }()
		So(fx.remote.waitEntered(opSetSubscription), ShouldBeTrue)

		handoff, err := w.RequestRelocate()
		So(err, ShouldBeNil)

		opened := make(chan *Watch, 1)
		go func() {
			next, err := OpenRelocated(ctx, fx.deps(), handoff)
			if err != nil {
				opened <- nil
				return
			}
			opened <- next
		}()
		So(eventually(func() bool { return fx.remote.count(opFetchChannel) == 2 }), ShouldBeTrue)

		Convey("a response discarded by closing the old watch is read again for the new one", func() {
			// the remote applied the subscription before the old watch went away
			fx.remote.mu.Lock()
			fx.remote.handle = "sub-new"
			fx.remote.mu.Unlock()

			w.Close()
			So(ConditionOf(<-toggled), ShouldEqual, TransportFailure)

			next := <-opened
			So(next, ShouldNotBeNil)
			defer next.Close()

			status := next.Snapshot().Subscription
			So(status.Reconciled, ShouldBeTrue)
			So(status.Subscription, ShouldResemble, Subscription{Subscribed: true, Handle: "sub-new"})
			So(fx.remote.count(opGetSubscription), ShouldEqual, 2)

			So(next.RequestToggleSubscription(ctx), ShouldBeNil)
			So(fx.remote.count(opSetSubscription), ShouldEqual, 1)
			So(fx.remote.lastArg(opClearSubscription), ShouldEqual, "sub-new")
		})

		Convey("a response that settles normally is adopted without another read", func() {
			release()
			So(<-toggled, ShouldBeNil)

			next := <-opened
			So(next, ShouldNotBeNil)
			defer next.Close()

			So(next.Snapshot().Subscription.Subscription, ShouldResemble, Subscription{Subscribed: true, Handle: "sub-new"})
			So(fx.remote.count(opGetSubscription), ShouldEqual, 1)
		})
	})
}

func TestCloseDiscards(t *testing.T) {
	Convey("Given a toggle in flight on an open watch", t, func() {
		fx := newWatchFixture("token")
		w, err := Open(context.Background(), fx.deps(), videoID)
		So(err, ShouldBeNil)

		release := fx.remote.block(opSetRating)
		defer release()
		done := make(chan error, 1)
		go func() { done <- w.RequestToggleRating(context.Background(), PressDislike) }()
		So(fx.remote.waitEntered(opSetRating), ShouldBeTrue)

		Convey("Closing the watch discards the late response", func() {
			w.Close()
			err := <-done
			So(errors.Is(err, TransportFailure), ShouldBeTrue)

			status := fx.eng.Rating(videoID)
			So(status.InFlight, ShouldBeFalse)
			So(status.Rating, ShouldEqual, RatingNone)
			So(status.Reconciled, ShouldBeFalse)
			So(fx.ff.last().destroyCount(), ShouldEqual, 1)
		})
	})
}

func TestWatchLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	fx := newWatchFixture("token")
	w, err := Open(context.Background(), fx.deps(), videoID)
	if err != nil {
		t.Fatal(err)
	}
	fx.ff.last().fireReady()
	if !eventually(func() bool { return w.Snapshot().Playback.State == PlaybackActive }) {
		t.Fatal("player never became active")
	}
	if err := w.RequestToggleSubscription(context.Background()); err != nil {
		t.Fatal(err)
	}
	handoff, err := w.RequestRelocate()
	if err != nil {
		t.Fatal(err)
	}
	w.Close()

	pip, err := OpenRelocated(context.Background(), fx.deps(), handoff)
	if err != nil {
		t.Fatal(err)
	}
	pip.Close()
}
