package usecase_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/location-map/internal/domain"
	"github.com/location-map/internal/mapview"
	apperrors "github.com/location-map/internal/pkg/errors"
	"github.com/location-map/internal/usecase"
)

func newSessionUseCase(t *testing.T, ttl time.Duration) *usecase.SessionUseCase {
	t.Helper()
	repo := &MockLocationRepository{}
	repo.On("ListLocations", mock.Anything).Return([]domain.LocationRecord{
		{ID: 1, Name: ptrString("Cafe"), Latitude: ptrFloat64(40.7), Longitude: ptrFloat64(-74.0), URL: ptrString("https://x")},
	}, nil)

	uc := usecase.NewSessionUseCase(
		usecase.NewLocationUseCase(repo, zap.NewNop()),
		nil,
		usecase.SessionSettings{Mode: mapview.TrackPan, LinkLabel: "Instagram", IdleTTL: ttl},
		zap.NewNop(),
	)
	t.Cleanup(uc.CloseAll)
	return uc
}

func waitForMarkers(t *testing.T, uc *usecase.SessionUseCase, id string, n int) domain.Scene {
	t.Helper()
	var scene domain.Scene
	require.Eventually(t, func() bool {
		s, err := uc.Scene(id)
		if err != nil {
			return false
		}
		scene = s
		return len(s.Markers) == n
	}, 2*time.Second, 5*time.Millisecond)
	return scene
}

func TestSessionUseCase_CreateAndScene(t *testing.T) {
	uc := newSessionUseCase(t, time.Minute)

	info, err := uc.Create("")
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, 1, uc.Count())

	scene := waitForMarkers(t, uc, info.ID, 1)
	assert.Equal(t, "Cafe", scene.Markers[0].Popup.Title)
	assert.Equal(t, "Instagram", scene.Markers[0].Popup.LinkLabel)

	got, err := uc.Get(info.ID)
	require.NoError(t, err)
	assert.Equal(t, info.ID, got.ID)
}

func TestSessionUseCase_TrackingRequiresPositionSource(t *testing.T) {
	uc := newSessionUseCase(t, time.Minute)

	_, err := uc.Create("phone-1")
	assert.ErrorIs(t, err, apperrors.ErrTrackingUnavailable)
	assert.Equal(t, 0, uc.Count())
}

func TestSessionUseCase_PatchesSinceLastDelivery(t *testing.T) {
	uc := newSessionUseCase(t, time.Minute)

	info, err := uc.Create("")
	require.NoError(t, err)
	waitForMarkers(t, uc, info.ID, 1)

	patches, _, err := uc.Patches(info.ID)
	require.NoError(t, err)
	assert.Empty(t, patches)

	vp, err := uc.ClickMarker(info.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxZoom, vp.Zoom)

	patches, version, err := uc.Patches(info.ID)
	require.NoError(t, err)
	require.Len(t, patches, 1)
	assert.Equal(t, mapview.PatchView, patches[0].Op)
	assert.Equal(t, domain.Point{Lat: 40.7, Lon: -74.0}, patches[0].Viewport.Center)
	assert.Equal(t, uint64(2), version)

	// same command twice still yields a view patch
	_, err = uc.ClickMarker(info.ID, 1)
	require.NoError(t, err)
	patches, _, err = uc.Patches(info.ID)
	require.NoError(t, err)
	require.Len(t, patches, 1)
	assert.Equal(t, mapview.PatchView, patches[0].Op)
}

func TestSessionUseCase_ConcurrentPollsNeverRedeliver(t *testing.T) {
	uc := newSessionUseCase(t, time.Minute)

	info, err := uc.Create("")
	require.NoError(t, err)
	waitForMarkers(t, uc, info.ID, 1)

	const clicks = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		viewCount int
	)
	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				patches, _, err := uc.Patches(info.ID)
				assert.NoError(t, err)
				mu.Lock()
				for _, p := range patches {
					if p.Op == mapview.PatchView {
						viewCount++
					}
				}
				mu.Unlock()

				select {
				case <-done:
					return
				default:
				}
			}
		}()
	}

	for i := 0; i < clicks; i++ {
		_, err := uc.ClickMarker(info.ID, 1)
		require.NoError(t, err)
	}
	close(done)
	wg.Wait()

	patches, _, err := uc.Patches(info.ID)
	require.NoError(t, err)
	for _, p := range patches {
		if p.Op == mapview.PatchView {
			viewCount++
		}
	}

	// every viewport change is delivered at most once
	assert.LessOrEqual(t, viewCount, clicks)

	patches, _, err = uc.Patches(info.ID)
	require.NoError(t, err)
	assert.Empty(t, patches)
}

func TestSessionUseCase_FreshSessionPatchesBuildWholeScene(t *testing.T) {
	uc := newSessionUseCase(t, time.Minute)

	info, err := uc.Create("")
	require.NoError(t, err)

	var patches []mapview.Patch
	require.Eventually(t, func() bool {
		// nothing delivered yet, so the diff starts from an empty scene until markers show up
		p, _, err := uc.Patches(info.ID)
		if err != nil {
			return false
		}
		patches = append(patches, p...)
		return len(mapview.Apply(domain.Scene{}, patches).Markers) == 1
	}, 2*time.Second, 5*time.Millisecond)

	rendered := mapview.Apply(domain.Scene{}, patches)
	assert.Equal(t, domain.DefaultZoom, rendered.Viewport.Zoom)
	assert.Equal(t, mapview.LocationMarkerKey(1), rendered.Markers[0].Key)
}

func TestSessionUseCase_ErrorsForUnknownSession(t *testing.T) {
	uc := newSessionUseCase(t, time.Minute)

	_, err := uc.Scene("missing")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, _, err = uc.Patches("missing")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, err = uc.ClickMarker("missing", 1)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, err = uc.SetZoom("missing", 3)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	assert.ErrorIs(t, uc.Close("missing"), apperrors.ErrSessionNotFound)
}

func TestSessionUseCase_ClickAndZoomErrors(t *testing.T) {
	uc := newSessionUseCase(t, time.Minute)

	info, err := uc.Create("")
	require.NoError(t, err)
	waitForMarkers(t, uc, info.ID, 1)

	_, err = uc.ClickMarker(info.ID, 99)
	assert.ErrorIs(t, err, apperrors.ErrLocationNotFound)

	_, err = uc.SetZoom(info.ID, 25)
	assert.ErrorIs(t, err, apperrors.ErrInvalidZoom)

	vp, err := uc.SetZoom(info.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, vp.Zoom)
}

func TestSessionUseCase_Close(t *testing.T) {
	uc := newSessionUseCase(t, time.Minute)

	info, err := uc.Create("")
	require.NoError(t, err)

	require.NoError(t, uc.Close(info.ID))
	assert.Equal(t, 0, uc.Count())

	_, err = uc.Scene(info.ID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSessionUseCase_ReapIdleSessions(t *testing.T) {
	uc := newSessionUseCase(t, 30*time.Millisecond)

	idle, err := uc.Create("")
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	active, err := uc.Create("")
	require.NoError(t, err)

	assert.Equal(t, 1, uc.Reap())
	assert.Equal(t, 1, uc.Count())

	_, err = uc.Get(idle.ID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, err = uc.Get(active.ID)
	assert.NoError(t, err)
}

func TestSessionUseCase_ReapDisabledWithoutTTL(t *testing.T) {
	uc := newSessionUseCase(t, 0)

	_, err := uc.Create("")
	require.NoError(t, err)

	assert.Equal(t, 0, uc.Reap())
	assert.Equal(t, 1, uc.Count())
}
