package mapview

import "github.com/location-map/internal/domain"

// TrackingMode задаёт, как вид следует за позицией после первой фиксации
type TrackingMode string

const (
	// TrackPan - анимированный pan с сохранением выбранного пользователем зума
	TrackPan TrackingMode = "pan"
	// TrackJump - каждый апдейт прыгает на максимальный зум и перебивает ручной зум пользователя
	TrackJump TrackingMode = "jump"
)

// ParseTrackingMode разбирает режим, пустая строка означает TrackPan
func ParseTrackingMode(s string) (TrackingMode, bool) {
	switch TrackingMode(s) {
	case "", TrackPan:
		return TrackPan, true
	case TrackJump:
		return TrackJump, true
	default:
		return "", false
	}
}

// TrackerState - состояние автоцентрирования
type TrackerState int

const (
	AwaitingFirstFix TrackerState = iota
	Tracking
)

func (s TrackerState) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "awaiting_first_fix"
}

// Tracker - машина состояний {AwaitingFirstFix, Tracking(zoom)}.
// Переход в Tracking односторонний.
type Tracker struct {
	mode     TrackingMode
	state    TrackerState
	userZoom int
}

func NewTracker(mode TrackingMode) *Tracker {
	if mode == "" {
		mode = TrackPan
	}
	return &Tracker{mode: mode, state: AwaitingFirstFix}
}

// State возвращает текущее состояние и запомненный зум (0 до первой фиксации)
func (t *Tracker) State() (TrackerState, int) {
	return t.state, t.userZoom
}

// OnFix вычисляет следующий вид для новой фиксации p.
// seq - номер следующей команды вида.
func (t *Tracker) OnFix(p domain.Point, seq uint64) domain.Viewport {
	if t.state == AwaitingFirstFix {
		t.state = Tracking
		t.userZoom = domain.MaxZoom
		return domain.Viewport{Center: p, Zoom: domain.MaxZoom, Transition: domain.TransitionJump, Seq: seq}
	}

	if t.mode == TrackJump {
		return domain.Viewport{Center: p, Zoom: domain.MaxZoom, Transition: domain.TransitionJump, Seq: seq}
	}
	return domain.Viewport{Center: p, Zoom: t.userZoom, Transition: domain.TransitionPan, Seq: seq}
}

// OnUserZoom запоминает зум, выбранный пользователем. До первой фиксации ничего не делает.
func (t *Tracker) OnUserZoom(zoom int) {
	if t.state == Tracking {
		t.userZoom = zoom
	}
}
