package domain

const (
	// MaxZoom - максимальный поддерживаемый уровень зума
	MaxZoom = 18
	// MinZoom - минимальный уровень зума
	MinZoom = 0
	// DefaultZoom - масштаб всего мира
	DefaultZoom = 2
)

// Transition описывает, как виджет карты должен перейти к новому виду
type Transition string

const (
	TransitionNone Transition = "none"
	TransitionJump Transition = "jump"
	TransitionPan  Transition = "pan"
	TransitionFly  Transition = "fly"
)

// Viewport - текущий центр и зум карты.
// Seq растёт с каждой командой вида, поэтому повтор той же команды виден как изменение.
type Viewport struct {
	Center     Point      `json:"center"`
	Zoom       int        `json:"zoom"`
	Transition Transition `json:"transition"`
	Seq        uint64     `json:"seq"`
}

// DefaultViewport возвращает начальный вид: (0,0) в масштабе мира
func DefaultViewport() Viewport {
	return Viewport{
		Center:     Point{Lat: 0, Lon: 0},
		Zoom:       DefaultZoom,
		Transition: TransitionNone,
	}
}

// WithZoom возвращает вид с другим зумом, без анимации
func (v Viewport) WithZoom(zoom int, seq uint64) Viewport {
	v.Zoom = zoom
	v.Transition = TransitionNone
	v.Seq = seq
	return v
}

// ValidZoom проверяет, что уровень зума в допустимых пределах
func ValidZoom(z int) bool {
	return z >= MinZoom && z <= MaxZoom
}
