package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/tubular-cli/tubular/auth"
	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/log"
)

// Rating is the user's rating of a video.
type Rating = gateway.Rating

const (
	RatingNone     = gateway.RatingNone
	RatingLiked    = gateway.RatingLiked
	RatingDisliked = gateway.RatingDisliked
)

// Press is the rating control the user pressed.
type Press int

const (
	PressLike Press = iota
	PressDislike
)

func (p Press) String() string {
	if p == PressDislike {
		return "dislike"
	}
	return "like"
}

// target returns the rating that results from pressing p while at current.
// The rating behaves as a single-select control with an off state.
func (p Press) target(current Rating) Rating {
	pressed := RatingLiked
	if p == PressDislike {
		pressed = RatingDisliked
	}
	if current == pressed {
		return RatingNone
	}
	return pressed
}

// Subscription is the user's relation to a channel.
// Handle is the remote token needed to cancel the subscription.
type Subscription struct {
	Subscribed bool   `json:"subscribed"`
	Handle     string `json:"-"`
}

// Phase is the toggle lifecycle of one entity.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInFlight
	PhaseSettled
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhaseInFlight:
		return "in-flight"
	case PhaseSettled:
		return "settled"
	case PhaseRolledBack:
		return "rolled-back"
	default:
		return "idle"
	}
}

// RatingStatus is a read-only view of a video's rating.
type RatingStatus struct {
	Rating     Rating `json:"rating"`
	Phase      Phase  `json:"phase"`
	InFlight   bool   `json:"inFlight"`
	Reconciled bool   `json:"reconciled"`
}

// SubscriptionStatus is a read-only view of a channel subscription.
type SubscriptionStatus struct {
	Subscription Subscription `json:"subscription"`
	Phase        Phase        `json:"phase"`
	InFlight     bool         `json:"inFlight"`
	Reconciled   bool         `json:"reconciled"`
}

type kind int

const (
	kindRating kind = iota
	kindSubscription
)

type entityKey struct {
	kind kind
	id   string
}

type entity struct {
	rating     Rating
	sub        Subscription
	phase      Phase
	inFlight   bool
	reconciled bool
	// settled is closed when the outstanding request finishes.
	settled chan struct{}
}

// Engagement holds the rating and subscription state of every observed entity
// and keeps it consistent with the remote service.
//
// At most one remote call is outstanding per entity. Toggles apply their target
// immediately and roll back if the call fails.
type Engagement struct {
	remote gateway.Engagement
	auth   auth.Source

	mu       sync.Mutex
	entities map[entityKey]*entity

	listenersMu sync.Mutex
	listeners   map[int]func()
	nextID      int
}

// NewEngagement returns an empty state machine bound to remote and the credentials of src.
func NewEngagement(remote gateway.Engagement, src auth.Source) *Engagement {
	return &Engagement{
		remote:    remote,
		auth:      src,
		entities:  make(map[entityKey]*entity),
		listeners: make(map[int]func()),
	}
}

// Authenticated reports whether a user is signed in.
func (e *Engagement) Authenticated() bool {
	return auth.Authenticated(e.auth)
}

// Subscribe registers fn to be called after every state change. The returned func unregisters it.
func (e *Engagement) Subscribe(fn func()) (cancel func()) {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()

	id := e.nextID
	e.nextID++
	e.listeners[id] = fn

	return func() {
		e.listenersMu.Lock()
		defer e.listenersMu.Unlock()
		delete(e.listeners, id)
	}
}

func (e *Engagement) notify() {
	e.listenersMu.Lock()
	fns := make([]func(), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.listenersMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// entity must be called with e.mu held.
func (e *Engagement) entity(k kind, id string) *entity {
	key := entityKey{kind: k, id: id}
	ent, ok := e.entities[key]
	if !ok {
		ent = &entity{}
		e.entities[key] = ent
	}
	return ent
}

// Rating returns the current rating status of a video.
func (e *Engagement) Rating(videoID string) RatingStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.entities[entityKey{kind: kindRating, id: videoID}]
	if !ok {
		return RatingStatus{}
	}
	return RatingStatus{Rating: ent.rating, Phase: ent.phase, InFlight: ent.inFlight, Reconciled: ent.reconciled}
}

// Subscription returns the current subscription status of a channel.
func (e *Engagement) Subscription(channelID string) SubscriptionStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.entities[entityKey{kind: kindSubscription, id: channelID}]
	if !ok {
		return SubscriptionStatus{}
	}
	return SubscriptionStatus{Subscription: ent.sub, Phase: ent.phase, InFlight: ent.inFlight, Reconciled: ent.reconciled}
}

// begin marks the entity in flight. It returns false if another request already is.
func (e *Engagement) begin(k kind, id string, apply func(*entity)) (*entity, bool) {
	e.mu.Lock()
	ent := e.entity(k, id)
	if ent.inFlight {
		e.mu.Unlock()
		return ent, false
	}
	ent.inFlight = true
	ent.settled = make(chan struct{})
	if apply != nil {
		apply(ent)
	}
	e.mu.Unlock()

	e.notify()
	return ent, true
}

// finish clears the in-flight marker and applies the outcome.
// If ctx ended, the response is discarded: rollback restores the pre-request value and the
// entity must be read again before it is trusted.
func (e *Engagement) finish(ctx context.Context, ent *entity, err error, commit, rollback func(*entity)) error {
	e.mu.Lock()
	ent.inFlight = false
	close(ent.settled)
	switch {
	case ctx.Err() != nil:
		if rollback != nil {
			rollback(ent)
		}
		ent.reconciled = false
		ent.phase = PhaseIdle
		err = errDiscarded
	case err != nil:
		if rollback != nil {
			rollback(ent)
			ent.phase = PhaseRolledBack
		}
	default:
		commit(ent)
	}
	e.mu.Unlock()

	e.notify()
	return err
}

// ObserveRating issues the reconciliation read for a video once.
// Unauthenticated users keep the default rating and nothing is read.
func (e *Engagement) ObserveRating(ctx context.Context, videoID string) error {
	const op = "observe rating"
	if !e.Authenticated() {
		return nil
	}

	ent, ok, err := e.beginObserve(ctx, kindRating, videoID)
	if err != nil {
		return newError(TransportFailure, op, videoID, err)
	}
	if !ok {
		return nil
	}

	rating, err := e.remote.GetRating(ctx, videoID)
	err = e.finish(ctx, ent, err, func(ent *entity) {
		ent.rating = rating
		ent.reconciled = true
	}, nil)
	if err != nil {
		log.WithFields(log.Fields{"video": videoID}).Warnf("%s: %v", op, err)
		return newError(TransportFailure, op, videoID, err)
	}
	return nil
}

// ObserveSubscription issues the reconciliation read for a channel once.
func (e *Engagement) ObserveSubscription(ctx context.Context, channelID string) error {
	const op = "observe subscription"
	if !e.Authenticated() {
		return nil
	}

	ent, ok, err := e.beginObserve(ctx, kindSubscription, channelID)
	if err != nil {
		return newError(TransportFailure, op, channelID, err)
	}
	if !ok {
		return nil
	}

	handle, err := e.remote.GetSubscription(ctx, channelID)
	err = e.finish(ctx, ent, err, func(ent *entity) {
		ent.sub = Subscription{Subscribed: handle != "", Handle: handle}
		ent.reconciled = true
	}, nil)
	if err != nil {
		log.WithFields(log.Fields{"channel": channelID}).Warnf("%s: %v", op, err)
		return newError(TransportFailure, op, channelID, err)
	}
	return nil
}

// beginObserve starts a read unless the entity is already reconciled.
// An outstanding request is waited for first: a committed toggle reconciles the entity,
// a discarded one leaves it to be read here.
func (e *Engagement) beginObserve(ctx context.Context, k kind, id string) (*entity, bool, error) {
	for {
		e.mu.Lock()
		ent := e.entity(k, id)
		if ent.reconciled {
			e.mu.Unlock()
			return nil, false, nil
		}
		if !ent.inFlight {
			ent.inFlight = true
			ent.settled = make(chan struct{})
			e.mu.Unlock()
			e.notify()
			return ent, true, nil
		}
		settled := ent.settled
		e.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
}

// ToggleRating applies the result of pressing p on the video's rating.
func (e *Engagement) ToggleRating(ctx context.Context, videoID string, p Press) error {
	op := "toggle " + p.String()
	if !e.Authenticated() {
		return newError(Unauthenticated, op, videoID, nil)
	}

	var previous, target Rating
	ent, ok := e.begin(kindRating, videoID, func(ent *entity) {
		previous = ent.rating
		target = p.target(previous)
		ent.rating = target
		ent.phase = PhaseInFlight
	})
	if !ok {
		return newError(ConflictingIntent, op, videoID, nil)
	}

	var err error
	if target == RatingNone {
		err = e.remote.ClearRating(ctx, videoID)
	} else {
		err = e.remote.SetRating(ctx, videoID, target)
	}

	err = e.finish(ctx, ent, err,
		func(ent *entity) {
			ent.phase = PhaseSettled
			ent.reconciled = true
		},
		func(ent *entity) { ent.rating = previous },
	)
	if err != nil {
		log.WithFields(log.Fields{"video": videoID, "target": target.String()}).Warnf("%s: %v", op, err)
		return newError(TransportFailure, op, videoID, err)
	}
	return nil
}

// ToggleSubscription subscribes to or unsubscribes from a channel.
func (e *Engagement) ToggleSubscription(ctx context.Context, channelID string) error {
	const op = "toggle subscription"
	if !e.Authenticated() {
		return newError(Unauthenticated, op, channelID, nil)
	}

	var previous Subscription
	ent, ok := e.begin(kindSubscription, channelID, func(ent *entity) {
		previous = ent.sub
		ent.sub = Subscription{Subscribed: !previous.Subscribed}
		ent.phase = PhaseInFlight
	})
	if !ok {
		return newError(ConflictingIntent, op, channelID, nil)
	}

	var (
		handle string
		err    error
	)
	if previous.Subscribed {
		err = e.unsubscribe(ctx, channelID, previous.Handle)
	} else {
		handle, err = e.remote.SetSubscription(ctx, channelID)
		if err == nil && handle == "" {
			err = errNoHandle
		}
	}

	err = e.finish(ctx, ent, err,
		func(ent *entity) {
			ent.sub.Handle = handle
			ent.phase = PhaseSettled
			ent.reconciled = true
		},
		func(ent *entity) { ent.sub = previous },
	)
	if err != nil {
		log.WithFields(log.Fields{"channel": channelID, "subscribed": previous.Subscribed}).Warnf("%s: %v", op, err)
		return newError(TransportFailure, op, channelID, err)
	}
	return nil
}

// unsubscribe cancels a subscription, looking the handle up first if it was lost.
// A channel the remote no longer lists as subscribed already matches the target.
func (e *Engagement) unsubscribe(ctx context.Context, channelID, handle string) error {
	if handle == "" {
		var err error
		handle, err = e.remote.GetSubscription(ctx, channelID)
		if err != nil {
			return fmt.Errorf("look up handle: %w", err)
		}
		if handle == "" {
			return nil
		}
	}

	cleared, err := e.remote.ClearSubscription(ctx, handle)
	if err != nil {
		return err
	}
	if !cleared {
		return errNotCleared
	}
	return nil
}
