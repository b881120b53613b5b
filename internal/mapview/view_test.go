package mapview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/location-map/internal/domain"
	apperrors "github.com/location-map/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubFetcher struct {
	locations []domain.LocationRecord
	release   chan struct{}
	calls     int
	mu        sync.Mutex
}

func (f *stubFetcher) FetchLocations(ctx context.Context) []domain.LocationRecord {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return []domain.LocationRecord{}
		}
	}
	out := make([]domain.LocationRecord, len(f.locations))
	copy(out, f.locations)
	for i := range out {
		out[i].Normalize()
	}
	return out
}

func (f *stubFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type stubPositions struct {
	events   chan domain.PositionEvent
	watchErr error

	mu       sync.Mutex
	opts     domain.WatchOptions
	deviceID string
	released chan struct{}
}

func newStubPositions() *stubPositions {
	return &stubPositions{
		events:   make(chan domain.PositionEvent),
		released: make(chan struct{}),
	}
}

func (s *stubPositions) Watch(ctx context.Context, deviceID string, opts domain.WatchOptions) (<-chan domain.PositionEvent, error) {
	if s.watchErr != nil {
		return nil, s.watchErr
	}
	s.mu.Lock()
	s.opts = opts
	s.deviceID = deviceID
	s.mu.Unlock()

	out := make(chan domain.PositionEvent)
	go func() {
		defer close(s.released)
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-s.events:
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *stubPositions) fix(t *testing.T, p domain.Point) {
	t.Helper()
	select {
	case s.events <- domain.PositionEvent{Sample: &domain.PositionSample{Latitude: p.Lat, Longitude: p.Lon}}:
	case <-time.After(2 * time.Second):
		t.Fatal("position subscriber did not accept fix")
	}
}

func (s *stubPositions) fail(t *testing.T, err error) {
	t.Helper()
	select {
	case s.events <- domain.PositionEvent{Err: err}:
	case <-time.After(2 * time.Second):
		t.Fatal("position subscriber did not accept error")
	}
}

func cafe() domain.LocationRecord {
	return domain.LocationRecord{
		ID:        1,
		Name:      ptrString("Cafe"),
		Latitude:  ptrFloat64(40.7),
		Longitude: ptrFloat64(-74.0),
		URL:       ptrString("https://x"),
	}
}

func mountView(t *testing.T, fetcher LocationFetcher, positions *stubPositions, opts Options) *View {
	t.Helper()
	var v *View
	if positions == nil {
		v = NewView(fetcher, nil, opts, zap.NewNop())
	} else {
		v = NewView(fetcher, positions, opts, zap.NewNop())
	}
	require.NoError(t, v.Mount(context.Background()))
	t.Cleanup(v.Unmount)
	return v
}

func waitScene(t *testing.T, v *View, cond func(domain.Scene) bool) domain.Scene {
	t.Helper()
	var scene domain.Scene
	require.Eventually(t, func() bool {
		s, err := v.Scene()
		if err != nil {
			return false
		}
		scene = s
		return cond(s)
	}, 2*time.Second, 5*time.Millisecond)
	return scene
}

func TestView_InitialState(t *testing.T) {
	fetcher := &stubFetcher{release: make(chan struct{})}
	v := mountView(t, fetcher, nil, Options{})

	scene, err := v.Scene()
	require.NoError(t, err)
	assert.Empty(t, scene.Markers)
	assert.Equal(t, domain.Point{}, scene.Viewport.Center)
	assert.Equal(t, domain.DefaultZoom, scene.Viewport.Zoom)

	snap, err := v.Snapshot()
	require.NoError(t, err)
	assert.False(t, snap.Ready)
	assert.Nil(t, snap.LivePosition)
	assert.Equal(t, "awaiting_first_fix", snap.Tracker)
}

func TestView_CafeScenario(t *testing.T) {
	fetcher := &stubFetcher{locations: []domain.LocationRecord{cafe()}}
	v := mountView(t, fetcher, nil, Options{LinkLabel: "Instagram"})

	scene := waitScene(t, v, func(s domain.Scene) bool { return len(s.Markers) == 1 })
	m := scene.Markers[0]
	assert.Equal(t, domain.Point{Lat: 40.7, Lon: -74.0}, m.Position)
	assert.Equal(t, "Cafe", m.Popup.Title)
	assert.Equal(t, "https://x", m.Popup.Link)

	vp, err := v.ClickMarker(1)
	require.NoError(t, err)
	assert.Equal(t, domain.Point{Lat: 40.7, Lon: -74.0}, vp.Center)
	assert.Equal(t, domain.MaxZoom, vp.Zoom)
	assert.Equal(t, domain.TransitionFly, vp.Transition)

	scene, err = v.Scene()
	require.NoError(t, err)
	assert.Equal(t, vp, scene.Viewport)
	assert.Equal(t, 1, fetcher.Calls())
}

func TestView_ClickUnknownMarker(t *testing.T) {
	v := mountView(t, &stubFetcher{}, nil, Options{})

	_, err := v.ClickMarker(42)
	assert.ErrorIs(t, err, apperrors.ErrLocationNotFound)

	scene, err := v.Scene()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultZoom, scene.Viewport.Zoom)
}

func TestView_EmptyFetchRendersNoMarkers(t *testing.T) {
	fetcher := &stubFetcher{}
	v := mountView(t, fetcher, nil, Options{})

	require.Eventually(t, func() bool { return fetcher.Calls() == 1 }, time.Second, 5*time.Millisecond)
	scene := waitScene(t, v, func(s domain.Scene) bool { return s.Version == 1 })
	assert.Empty(t, scene.Markers)
}

func TestView_LivePositionPanTracking(t *testing.T) {
	positions := newStubPositions()
	v := mountView(t, &stubFetcher{locations: []domain.LocationRecord{cafe()}}, positions, Options{
		DeviceID: "phone-1",
		Mode:     TrackPan,
	})

	positions.fix(t, p1)
	scene := waitScene(t, v, func(s domain.Scene) bool { return s.Viewport.Center == p1 })
	assert.Equal(t, domain.MaxZoom, scene.Viewport.Zoom)

	_, err := v.SetUserZoom(13)
	require.NoError(t, err)

	positions.fix(t, p2)
	scene = waitScene(t, v, func(s domain.Scene) bool { return s.Viewport.Center == p2 })
	assert.Equal(t, 13, scene.Viewport.Zoom)
	assert.Equal(t, domain.TransitionPan, scene.Viewport.Transition)

	positions.fix(t, p3)
	scene = waitScene(t, v, func(s domain.Scene) bool { return s.Viewport.Center == p3 })
	assert.Equal(t, 13, scene.Viewport.Zoom)

	var live *domain.Marker
	for i := range scene.Markers {
		if scene.Markers[i].Kind == domain.MarkerLive {
			live = &scene.Markers[i]
		}
	}
	require.NotNil(t, live)
	assert.Equal(t, p3, live.Position)

	positions.mu.Lock()
	assert.Equal(t, "phone-1", positions.deviceID)
	assert.Equal(t, domain.DefaultWatchOptions(), positions.opts)
	positions.mu.Unlock()
}

func TestView_LivePositionPanWithoutManualZoom(t *testing.T) {
	positions := newStubPositions()
	v := mountView(t, &stubFetcher{}, positions, Options{DeviceID: "phone-1"})

	for _, p := range []domain.Point{p1, p2, p3} {
		positions.fix(t, p)
		want := p
		scene := waitScene(t, v, func(s domain.Scene) bool { return s.Viewport.Center == want })
		assert.Equal(t, domain.MaxZoom, scene.Viewport.Zoom)
	}
}

func TestView_LivePositionJumpTracking(t *testing.T) {
	positions := newStubPositions()
	v := mountView(t, &stubFetcher{}, positions, Options{DeviceID: "phone-1", Mode: TrackJump})

	positions.fix(t, p1)
	waitScene(t, v, func(s domain.Scene) bool { return s.Viewport.Center == p1 })

	_, err := v.SetUserZoom(9)
	require.NoError(t, err)

	positions.fix(t, p2)
	scene := waitScene(t, v, func(s domain.Scene) bool { return s.Viewport.Center == p2 })
	assert.Equal(t, domain.MaxZoom, scene.Viewport.Zoom)
	assert.Equal(t, domain.TransitionJump, scene.Viewport.Transition)
}

func TestView_PositionErrorsAreLoggedAndIgnored(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	positions := newStubPositions()
	v := NewView(&stubFetcher{}, positions, Options{DeviceID: "phone-1"}, zap.New(core))
	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	positions.fail(t, errors.New("permission denied"))
	positions.fix(t, p1)

	waitScene(t, v, func(s domain.Scene) bool { return s.Viewport.Center == p1 })
	assert.Equal(t, 1, logs.FilterMessage("Error getting location").Len())
}

func TestView_WatchUnavailableLeavesLiveAbsent(t *testing.T) {
	positions := newStubPositions()
	positions.watchErr = errors.New("geolocation not supported")
	v := mountView(t, &stubFetcher{locations: []domain.LocationRecord{cafe()}}, positions, Options{DeviceID: "phone-1"})

	scene := waitScene(t, v, func(s domain.Scene) bool { return len(s.Markers) == 1 })
	assert.Equal(t, domain.MarkerLocation, scene.Markers[0].Kind)
	assert.Equal(t, domain.DefaultZoom, scene.Viewport.Zoom)
}

func TestView_UnmountReleasesSubscription(t *testing.T) {
	positions := newStubPositions()
	v := NewView(&stubFetcher{}, positions, Options{DeviceID: "phone-1"}, zap.NewNop())
	require.NoError(t, v.Mount(context.Background()))

	v.Unmount()

	select {
	case <-positions.released:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not released")
	}

	_, err := v.Scene()
	assert.ErrorIs(t, err, ErrUnmounted)

	// second unmount is a no-op
	v.Unmount()
}

func TestView_UnmountDuringFetchDiscardsResult(t *testing.T) {
	fetcher := &stubFetcher{locations: []domain.LocationRecord{cafe()}, release: make(chan struct{})}
	v := NewView(fetcher, nil, Options{}, zap.NewNop())
	require.NoError(t, v.Mount(context.Background()))

	require.Eventually(t, func() bool { return fetcher.Calls() == 1 }, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		v.Unmount()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("unmount blocked on in-flight fetch")
	}

	_, err := v.Scene()
	assert.ErrorIs(t, err, ErrUnmounted)
}

func TestView_Lifecycle(t *testing.T) {
	v := NewView(&stubFetcher{}, nil, Options{}, zap.NewNop())

	_, err := v.Scene()
	assert.ErrorIs(t, err, ErrNotMounted)
	assert.Nil(t, v.Done())

	require.NoError(t, v.Mount(context.Background()))
	assert.ErrorIs(t, v.Mount(context.Background()), ErrAlreadyMounted)

	done := v.Done()
	v.Unmount()
	select {
	case <-done:
	default:
		t.Fatal("done channel not closed after unmount")
	}

	assert.ErrorIs(t, v.Mount(context.Background()), ErrAlreadyMounted)
}

func TestView_SetUserZoomValidation(t *testing.T) {
	v := mountView(t, &stubFetcher{}, nil, Options{})

	_, err := v.SetUserZoom(19)
	assert.ErrorIs(t, err, apperrors.ErrInvalidZoom)

	vp, err := v.SetUserZoom(5)
	require.NoError(t, err)
	assert.Equal(t, 5, vp.Zoom)
	assert.Equal(t, domain.TransitionNone, vp.Transition)
}

func TestView_ClickSupersedesTracking(t *testing.T) {
	positions := newStubPositions()
	v := mountView(t, &stubFetcher{locations: []domain.LocationRecord{cafe()}}, positions, Options{DeviceID: "phone-1"})

	waitScene(t, v, func(s domain.Scene) bool { return len(s.Markers) == 1 })
	positions.fix(t, p1)
	waitScene(t, v, func(s domain.Scene) bool { return s.Viewport.Center == p1 })

	_, err := v.SetUserZoom(11)
	require.NoError(t, err)

	vp, err := v.ClickMarker(1)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxZoom, vp.Zoom)

	// the click is the latest user zoom choice, pan keeps it
	positions.fix(t, p2)
	scene := waitScene(t, v, func(s domain.Scene) bool { return s.Viewport.Center == p2 })
	assert.Equal(t, domain.MaxZoom, scene.Viewport.Zoom)
}
