package mapview

import (
	"context"
	"errors"
	"sync"

	"github.com/location-map/internal/domain"
	"github.com/location-map/internal/domain/repository"
	apperrors "github.com/location-map/internal/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrNotMounted - операция над видом до Mount
	ErrNotMounted = errors.New("map view is not mounted")
	// ErrUnmounted - операция над видом после Unmount
	ErrUnmounted = errors.New("map view is unmounted")
	// ErrAlreadyMounted - повторный Mount
	ErrAlreadyMounted = errors.New("map view is already mounted")
)

// LocationFetcher - разовая загрузка локаций, никогда не возвращает ошибку
type LocationFetcher interface {
	FetchLocations(ctx context.Context) []domain.LocationRecord
}

// Options - настройки одного вида карты
type Options struct {
	// DeviceID - устройство, за позицией которого следит вид. Пустое значение отключает слежение.
	DeviceID     string
	Mode         TrackingMode
	WatchOptions domain.WatchOptions
	Viewport     domain.Viewport
	LinkLabel    string
}

// View - компонент карты: владеет видом, списком локаций и текущей позицией.
// Всё состояние меняется только в горутине цикла событий.
type View struct {
	fetcher   LocationFetcher
	positions repository.PositionSource
	opts      Options
	logger    *zap.Logger

	cmds chan func()

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mounted bool

	// принадлежат циклу событий
	locations []domain.LocationRecord
	viewport  domain.Viewport
	live      *domain.Point
	ready     bool
	tracker   *Tracker
	version   uint64
	seq       uint64
}

// NewView создает вид. positions может быть nil: тогда слежение за позицией недоступно.
func NewView(fetcher LocationFetcher, positions repository.PositionSource, opts Options, logger *zap.Logger) *View {
	if opts.Viewport == (domain.Viewport{}) {
		opts.Viewport = domain.DefaultViewport()
	}
	if opts.WatchOptions == (domain.WatchOptions{}) {
		opts.WatchOptions = domain.DefaultWatchOptions()
	}

	return &View{
		fetcher:   fetcher,
		positions: positions,
		opts:      opts,
		logger:    logger,
		cmds:      make(chan func()),
		locations: []domain.LocationRecord{},
		viewport:  opts.Viewport,
		tracker:   NewTracker(opts.Mode),
	}
}

// Mount запускает цикл событий, разовую загрузку локаций и подписку на позицию.
// Все три живут до Unmount или отмены ctx.
func (v *View) Mount(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mounted || v.ctx != nil {
		return ErrAlreadyMounted
	}

	v.ctx, v.cancel = context.WithCancel(ctx)
	v.mounted = true

	v.wg.Add(2)
	go v.loop(v.ctx)
	go v.fetch(v.ctx)

	if v.positions != nil && v.opts.DeviceID != "" {
		events, err := v.positions.Watch(v.ctx, v.opts.DeviceID, v.opts.WatchOptions)
		if err != nil {
			v.logger.Warn("Position watch unavailable, live position stays absent",
				zap.String("device_id", v.opts.DeviceID),
				zap.Error(err))
		} else {
			v.wg.Add(1)
			go v.watch(v.ctx, events)
		}
	}

	return nil
}

// Unmount отменяет загрузку и подписку и ждёт завершения всех горутин вида.
// Повторный вызов безопасен.
func (v *View) Unmount() {
	v.mu.Lock()
	if !v.mounted {
		v.mu.Unlock()
		return
	}
	v.mounted = false
	cancel := v.cancel
	v.mu.Unlock()

	cancel()
	v.wg.Wait()
}

// Done закрывается, когда вид размонтирован
func (v *View) Done() <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.ctx == nil {
		return nil
	}
	return v.ctx.Done()
}

func (v *View) loop(ctx context.Context) {
	defer v.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-v.cmds:
			fn()
		}
	}
}

func (v *View) fetch(ctx context.Context) {
	defer v.wg.Done()

	locations := v.fetcher.FetchLocations(ctx)
	if err := v.post(ctx, func() {
		v.locations = locations
		v.version++
	}); err != nil {
		v.logger.Debug("Locations arrived after unmount, discarded", zap.Int("count", len(locations)))
	}
}

func (v *View) watch(ctx context.Context, events <-chan domain.PositionEvent) {
	defer v.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Err != nil {
				v.logger.Warn("Error getting location",
					zap.String("device_id", v.opts.DeviceID),
					zap.Error(ev.Err))
				continue
			}
			if ev.Sample == nil {
				continue
			}
			p := ev.Sample.Point()
			if err := v.post(ctx, func() { v.applyFix(p) }); err != nil {
				return
			}
		}
	}
}

// applyFix выполняется в цикле событий
func (v *View) applyFix(p domain.Point) {
	v.live = &p
	v.ready = true
	v.seq++
	v.viewport = v.tracker.OnFix(p, v.seq)
	v.version++
}

// post передаёт fn в цикл событий и ждёт её выполнения
func (v *View) post(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case v.cmds <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ErrUnmounted
	}
	<-done
	return nil
}

func (v *View) run(fn func()) error {
	v.mu.Lock()
	ctx := v.ctx
	v.mu.Unlock()

	if ctx == nil {
		return ErrNotMounted
	}
	return v.post(ctx, fn)
}

// ClickMarker центрирует вид на маркере локации с максимальным зумом (анимация fly)
func (v *View) ClickMarker(locationID int64) (domain.Viewport, error) {
	var (
		vp    domain.Viewport
		found bool
	)
	err := v.run(func() {
		for i := range v.locations {
			if v.locations[i].ID != locationID {
				continue
			}
			found = true
			v.seq++
			v.viewport = domain.Viewport{
				Center:     v.locations[i].Coordinates,
				Zoom:       domain.MaxZoom,
				Transition: domain.TransitionFly,
				Seq:        v.seq,
			}
			v.tracker.OnUserZoom(domain.MaxZoom)
			v.version++
			break
		}
		vp = v.viewport
	})
	if err != nil {
		return domain.Viewport{}, err
	}
	if !found {
		return domain.Viewport{}, apperrors.ErrLocationNotFound
	}
	return vp, nil
}

// SetUserZoom фиксирует ручное изменение зума пользователем
func (v *View) SetUserZoom(zoom int) (domain.Viewport, error) {
	if !domain.ValidZoom(zoom) {
		return domain.Viewport{}, apperrors.ErrInvalidZoom
	}

	var vp domain.Viewport
	err := v.run(func() {
		v.seq++
		v.viewport = v.viewport.WithZoom(zoom, v.seq)
		v.tracker.OnUserZoom(zoom)
		v.version++
		vp = v.viewport
	})
	return vp, err
}

// Scene возвращает текущую декларативную сцену
func (v *View) Scene() (domain.Scene, error) {
	var scene domain.Scene
	err := v.run(func() {
		var live *domain.Point
		if v.ready {
			live = v.live
		}
		scene = renderScene(v.version, v.viewport, v.locations, live, v.opts.LinkLabel)
	})
	return scene, err
}

// Snapshot - отладочное состояние вида
type Snapshot struct {
	Locations    int             `json:"locations"`
	Viewport     domain.Viewport `json:"viewport"`
	LivePosition *domain.Point   `json:"live_position,omitempty"`
	Ready        bool            `json:"ready"`
	Tracker      string          `json:"tracker"`
	UserZoom     int             `json:"user_zoom,omitempty"`
	Version      uint64          `json:"version"`
}

// Snapshot возвращает копию состояния вида
func (v *View) Snapshot() (Snapshot, error) {
	var s Snapshot
	err := v.run(func() {
		state, zoom := v.tracker.State()
		s = Snapshot{
			Locations: len(v.locations),
			Viewport:  v.viewport,
			Ready:     v.ready,
			Tracker:   state.String(),
			UserZoom:  zoom,
			Version:   v.version,
		}
		if v.live != nil {
			p := *v.live
			s.LivePosition = &p
		}
	})
	return s, err
}
