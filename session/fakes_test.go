package session

import (
	"context"
	"sync"
	"time"

	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/player"
)

const (
	opFetchVideo        = "FetchVideo"
	opFetchChannel      = "FetchChannel"
	opPopular           = "Popular"
	opSearch            = "Search"
	opGetSubscription   = "GetSubscription"
	opSetSubscription   = "SetSubscription"
	opClearSubscription = "ClearSubscription"
	opGetRating         = "GetRating"
	opSetRating         = "SetRating"
	opClearRating       = "ClearRating"
)

// fakeRemote is an in-memory gateway. Operations can be made to fail or to block until released.
type fakeRemote struct {
	mu         sync.Mutex
	rating     gateway.Rating
	handle     string
	nextHandle string
	notCleared bool
	calls      map[string]int
	args       map[string][]string
	fail       map[string]error
	gates      map[string]chan struct{}
	entered    chan string
}

var _ gateway.Gateway = (*fakeRemote)(nil)

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		nextHandle: "sub-new",
		calls:      make(map[string]int),
		args:       make(map[string][]string),
		fail:       make(map[string]error),
		gates:      make(map[string]chan struct{}),
		entered:    make(chan string, 16),
	}
}

// block makes op wait until the returned release func is called or the context ends.
func (f *fakeRemote) block(op string) (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[op] = gate
	f.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

func (f *fakeRemote) failWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = err
}

func (f *fakeRemote) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRemote) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[opSetRating] + f.calls[opClearRating] + f.calls[opSetSubscription] + f.calls[opClearSubscription]
}

func (f *fakeRemote) lastArg(op string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	args := f.args[op]
	if len(args) == 0 {
		return ""
	}
	return args[len(args)-1]
}

// waitEntered blocks until op has been called.
func (f *fakeRemote) waitEntered(op string) bool {
	timeout := time.After(2 * time.Second)
	for {
		select {
		case got := <-f.entered:
			if got == op {
				return true
			}
		case <-timeout:
			return false
		}
	}
}

func (f *fakeRemote) enter(ctx context.Context, op, arg string) error {
	f.mu.Lock()
	f.calls[op]++
	f.args[op] = append(f.args[op], arg)
	gate := f.gates[op]
	err := f.fail[op]
	f.mu.Unlock()

	select {
	case f.entered <- op:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeRemote) FetchVideo(ctx context.Context, id string) (*gateway.Video, error) {
	if err := f.enter(ctx, opFetchVideo, id); err != nil {
		return nil, err
	}
	return &gateway.Video{ID: id, Title: "Never Gonna Give You Up", ChannelID: "UCrick"}, nil
}

func (f *fakeRemote) FetchChannel(ctx context.Context, id string) (*gateway.Channel, error) {
	if err := f.enter(ctx, opFetchChannel, id); err != nil {
		return nil, err
	}
	return &gateway.Channel{ID: id, Title: "Rick Astley", Subscribers: 4_200_000, CustomURL: "@rick"}, nil
}

func (f *fakeRemote) Popular(ctx context.Context, pageToken string) (*gateway.Page, error) {
	if err := f.enter(ctx, opPopular, pageToken); err != nil {
		return nil, err
	}
	return &gateway.Page{}, nil
}

func (f *fakeRemote) Search(ctx context.Context, query string, _ int) ([]*gateway.Video, error) {
	if err := f.enter(ctx, opSearch, query); err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeRemote) GetSubscription(ctx context.Context, channelID string) (string, error) {
	if err := f.enter(ctx, opGetSubscription, channelID); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handle, nil
}

func (f *fakeRemote) SetSubscription(ctx context.Context, channelID string) (string, error) {
	if err := f.enter(ctx, opSetSubscription, channelID); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handle = f.nextHandle
	return f.nextHandle, nil
}

func (f *fakeRemote) ClearSubscription(ctx context.Context, handle string) (bool, error) {
	if err := f.enter(ctx, opClearSubscription, handle); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notCleared {
		return false, nil
	}
	f.handle = ""
	return true, nil
}

func (f *fakeRemote) GetRating(ctx context.Context, videoID string) (gateway.Rating, error) {
	if err := f.enter(ctx, opGetRating, videoID); err != nil {
		return gateway.RatingNone, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rating, nil
}

func (f *fakeRemote) SetRating(ctx context.Context, videoID string, rating gateway.Rating) error {
	if err := f.enter(ctx, opSetRating, rating.String()); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rating = rating
	return nil
}

func (f *fakeRemote) ClearRating(ctx context.Context, videoID string) error {
	if err := f.enter(ctx, opClearRating, videoID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rating = gateway.RatingNone
	return nil
}

// fakeHandle is a player handle whose readiness is fired by the test.
type fakeHandle struct {
	mu        sync.Mutex
	loaded    string
	seeks     []float64
	position  float64
	destroyed int
	ready     chan struct{}
	readyOnce sync.Once
	exited    chan struct{}
	exitOnce  sync.Once
	loadErr   error
}

var _ player.Handle = (*fakeHandle)(nil)

func newFakeHandle() *fakeHandle {
	return &fakeHandle{ready: make(chan struct{}), exited: make(chan struct{})}
}

func (h *fakeHandle) Load(_ context.Context, videoID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loaded = videoID
	return h.loadErr
}

func (h *fakeHandle) Seek(seconds float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seeks = append(h.seeks, seconds)
	h.position = seconds
	return nil
}

func (h *fakeHandle) CurrentTime() (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position, nil
}

func (h *fakeHandle) Ready() <-chan struct{} {
	return h.ready
}

func (h *fakeHandle) Exited() <-chan struct{} {
	return h.exited
}

func (h *fakeHandle) Destroy() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed++
	return nil
}

func (h *fakeHandle) fireReady() {
	h.readyOnce.Do(func() { close(h.ready) })
}

// exit simulates the player process going away.
func (h *fakeHandle) exit() {
	h.exitOnce.Do(func() { close(h.exited) })
}

func (h *fakeHandle) setPosition(seconds float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.position = seconds
}

func (h *fakeHandle) seekCalls() []float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]float64(nil), h.seeks...)
}

func (h *fakeHandle) destroyCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.destroyed
}

func (h *fakeHandle) loadedVideo() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loaded
}

// fakeFactory hands out fake handles and remembers them.
type fakeFactory struct {
	mu      sync.Mutex
	handles []*fakeHandle
}

func (f *fakeFactory) factory() player.Factory {
	return func() (player.Handle, error) {
		h := newFakeHandle()
		f.mu.Lock()
		f.handles = append(f.handles, h)
		f.mu.Unlock()
		return h, nil
	}
}

func (f *fakeFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

func (f *fakeFactory) last() *fakeHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.handles) == 0 {
		return nil
	}
	return f.handles[len(f.handles)-1]
}

// eventually polls cond until it holds or two seconds pass.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
