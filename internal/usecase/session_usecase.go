package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/location-map/internal/domain"
	"github.com/location-map/internal/domain/repository"
	"github.com/location-map/internal/mapview"
	apperrors "github.com/location-map/internal/pkg/errors"
	"go.uber.org/zap"
)

// SessionSettings - параметры, общие для всех видов карты
type SessionSettings struct {
	Mode         mapview.TrackingMode
	WatchOptions domain.WatchOptions
	LinkLabel    string
	DefaultZoom  int
	IdleTTL      time.Duration
}

// SessionInfo - описание открытой сессии
type SessionInfo struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type mapSession struct {
	info SessionInfo
	view *mapview.View

	mu       sync.Mutex
	lastSeen time.Time

	// deliverMu упорядочивает чтение сцены и запись delivered
	deliverMu sync.Mutex
	delivered domain.Scene
}

func (s *mapSession) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *mapSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionUseCase держит по одному смонтированному виду карты на открытую страницу
type SessionUseCase struct {
	fetcher   mapview.LocationFetcher
	positions repository.PositionSource
	settings  SessionSettings
	logger    *zap.Logger
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	sessions map[string]*mapSession
}

// NewSessionUseCase создает менеджер сессий. positions может быть nil.
func NewSessionUseCase(
	fetcher mapview.LocationFetcher,
	positions repository.PositionSource,
	settings SessionSettings,
	logger *zap.Logger,
) *SessionUseCase {
	// виды живут дольше HTTP запроса, который их создал
	ctx, cancel := context.WithCancel(context.Background())

	return &SessionUseCase{
		fetcher:   fetcher,
		positions: positions,
		settings:  settings,
		logger:    logger,
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
		sessions:  make(map[string]*mapSession),
	}
}

// Create монтирует новый вид карты. Пустой deviceID - карта без слежения за позицией.
func (uc *SessionUseCase) Create(deviceID string) (*SessionInfo, error) {
	if deviceID != "" && uc.positions == nil {
		return nil, apperrors.ErrTrackingUnavailable
	}

	opts := mapview.Options{
		DeviceID:     deviceID,
		Mode:         uc.settings.Mode,
		WatchOptions: uc.settings.WatchOptions,
		LinkLabel:    uc.settings.LinkLabel,
	}
	if uc.settings.DefaultZoom > 0 && domain.ValidZoom(uc.settings.DefaultZoom) {
		opts.Viewport = domain.DefaultViewport().WithZoom(uc.settings.DefaultZoom, 0)
	}

	view := mapview.NewView(uc.fetcher, uc.positions, opts, uc.logger.With(zap.String("device_id", deviceID)))

	if err := view.Mount(uc.ctx); err != nil {
		uc.logger.Error("Failed to mount map view", zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}

	now := uc.now()
	session := &mapSession{
		info: SessionInfo{
			ID:        uuid.NewString(),
			DeviceID:  deviceID,
			CreatedAt: now,
		},
		view:     view,
		lastSeen: now,
	}

	uc.mu.Lock()
	uc.sessions[session.info.ID] = session
	total := len(uc.sessions)
	uc.mu.Unlock()

	uc.logger.Info("Map session opened",
		zap.String("session_id", session.info.ID),
		zap.String("device_id", deviceID),
		zap.Int("active", total))

	info := session.info
	return &info, nil
}

func (uc *SessionUseCase) get(id string) (*mapSession, error) {
	uc.mu.RLock()
	session, ok := uc.sessions[id]
	uc.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	session.touch(uc.now())
	return session, nil
}

// viewErr переводит ошибки жизненного цикла вида в ошибки API
func viewErr(err error) error {
	if errors.Is(err, mapview.ErrUnmounted) || errors.Is(err, mapview.ErrNotMounted) {
		return apperrors.ErrSessionNotFound
	}
	return err
}

// Get возвращает описание сессии
func (uc *SessionUseCase) Get(id string) (*SessionInfo, error) {
	session, err := uc.get(id)
	if err != nil {
		return nil, err
	}
	info := session.info
	return &info, nil
}

// Scene возвращает полную сцену и запоминает её как отданную клиенту
func (uc *SessionUseCase) Scene(id string) (domain.Scene, error) {
	session, err := uc.get(id)
	if err != nil {
		return domain.Scene{}, err
	}

	session.deliverMu.Lock()
	defer session.deliverMu.Unlock()

	scene, err := session.view.Scene()
	if err != nil {
		return domain.Scene{}, viewErr(err)
	}
	session.delivered = scene

	return scene, nil
}

// Patches возвращает изменения с момента последней отданной сцены
func (uc *SessionUseCase) Patches(id string) ([]mapview.Patch, uint64, error) {
	session, err := uc.get(id)
	if err != nil {
		return nil, 0, err
	}

	session.deliverMu.Lock()
	defer session.deliverMu.Unlock()

	next, err := session.view.Scene()
	if err != nil {
		return nil, 0, viewErr(err)
	}

	patches := mapview.Diff(session.delivered, next)
	session.delivered = next

	return patches, next.Version, nil
}

// ClickMarker центрирует карту сессии на локации
func (uc *SessionUseCase) ClickMarker(id string, locationID int64) (domain.Viewport, error) {
	session, err := uc.get(id)
	if err != nil {
		return domain.Viewport{}, err
	}

	vp, err := session.view.ClickMarker(locationID)
	if err != nil {
		return domain.Viewport{}, viewErr(err)
	}
	return vp, nil
}

// SetZoom передаёт виду ручное изменение зума
func (uc *SessionUseCase) SetZoom(id string, zoom int) (domain.Viewport, error) {
	session, err := uc.get(id)
	if err != nil {
		return domain.Viewport{}, err
	}

	vp, err := session.view.SetUserZoom(zoom)
	if err != nil {
		return domain.Viewport{}, viewErr(err)
	}
	return vp, nil
}

// Close размонтирует вид и удаляет сессию
func (uc *SessionUseCase) Close(id string) error {
	uc.mu.Lock()
	session, ok := uc.sessions[id]
	delete(uc.sessions, id)
	uc.mu.Unlock()

	if !ok {
		return apperrors.ErrSessionNotFound
	}

	session.view.Unmount()
	uc.logger.Info("Map session closed", zap.String("session_id", id))
	return nil
}

// Reap закрывает сессии, к которым не обращались дольше IdleTTL.
// Возвращает число закрытых сессий.
func (uc *SessionUseCase) Reap() int {
	if uc.settings.IdleTTL <= 0 {
		return 0
	}
	deadline := uc.now().Add(-uc.settings.IdleTTL)

	uc.mu.Lock()
	expired := make([]*mapSession, 0)
	for id, session := range uc.sessions {
		if session.idleSince().Before(deadline) {
			expired = append(expired, session)
			delete(uc.sessions, id)
		}
	}
	uc.mu.Unlock()

	for _, session := range expired {
		session.view.Unmount()
		uc.logger.Info("Idle map session reaped",
			zap.String("session_id", session.info.ID),
			zap.Time("last_seen", session.idleSince()))
	}
	return len(expired)
}

// Count возвращает число открытых сессий
func (uc *SessionUseCase) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.sessions)
}

// CloseAll размонтирует все виды, вызывается при остановке сервиса
func (uc *SessionUseCase) CloseAll() {
	uc.mu.Lock()
	sessions := uc.sessions
	uc.sessions = make(map[string]*mapSession)
	uc.mu.Unlock()

	uc.cancel()
	for _, session := range sessions {
		session.view.Unmount()
	}
	uc.logger.Info("All map sessions closed", zap.Int("count", len(sessions)))
}
