package mapview

import (
	"strconv"

	"github.com/location-map/internal/domain"
	"github.com/location-map/internal/pkg/utils"
)

const livePopupTitle = "You are here"

// LocationMarkerKey - ключ маркера локации в сцене
func LocationMarkerKey(id int64) string {
	return "location:" + strconv.FormatInt(id, 10)
}

// renderScene строит декларативную сцену: по одному маркеру на id,
// плюс маркер текущей позиции, если она уже получена.
func renderScene(
	version uint64,
	viewport domain.Viewport,
	locations []domain.LocationRecord,
	live *domain.Point,
	linkLabel string,
) domain.Scene {
	markers := make([]domain.Marker, 0, len(locations)+1)
	seen := make(map[int64]struct{}, len(locations))

	for i := range locations {
		loc := &locations[i]
		if _, dup := seen[loc.ID]; dup {
			continue
		}
		seen[loc.ID] = struct{}{}

		popup := domain.Popup{
			Title:     loc.DisplayName(),
			Address:   loc.DisplayAddress(),
			Link:      loc.Link(),
			LinkLabel: linkLabel,
		}
		if live != nil {
			d := utils.DistanceMeters(live.Lat, live.Lon, loc.Coordinates.Lat, loc.Coordinates.Lon)
			popup.DistanceM = &d
		}

		markers = append(markers, domain.Marker{
			Key:        LocationMarkerKey(loc.ID),
			Kind:       domain.MarkerLocation,
			LocationID: loc.ID,
			Position:   loc.Coordinates,
			Popup:      popup,
		})
	}

	if live != nil {
		markers = append(markers, domain.Marker{
			Key:      domain.LiveMarkerID,
			Kind:     domain.MarkerLive,
			Position: *live,
			Popup:    domain.Popup{Title: livePopupTitle},
		})
	}

	return domain.Scene{
		Version:  version,
		Viewport: viewport,
		Markers:  markers,
	}
}

// PatchOp - операция патча сцены
type PatchOp string

const (
	PatchAdd    PatchOp = "add"
	PatchUpdate PatchOp = "update"
	PatchRemove PatchOp = "remove"
	PatchView   PatchOp = "view"
)

// Patch - идемпотентная операция над отрисованной картой.
// add для уже существующего ключа применяется как update, remove отсутствующего ключа ничего не делает.
type Patch struct {
	Op       PatchOp          `json:"op"`
	Key      string           `json:"key,omitempty"`
	Marker   *domain.Marker   `json:"marker,omitempty"`
	Viewport *domain.Viewport `json:"viewport,omitempty"`
}

// Diff возвращает патчи, переводящие prev в next: удаления, затем добавления
// и обновления в порядке next, затем вид.
func Diff(prev, next domain.Scene) []Patch {
	patches := make([]Patch, 0)

	prevByKey := make(map[string]domain.Marker, len(prev.Markers))
	for _, m := range prev.Markers {
		prevByKey[m.Key] = m
	}
	nextKeys := make(map[string]struct{}, len(next.Markers))
	for _, m := range next.Markers {
		nextKeys[m.Key] = struct{}{}
	}

	for _, m := range prev.Markers {
		if _, ok := nextKeys[m.Key]; !ok {
			patches = append(patches, Patch{Op: PatchRemove, Key: m.Key})
		}
	}

	for i := range next.Markers {
		m := next.Markers[i]
		old, ok := prevByKey[m.Key]
		switch {
		case !ok:
			patches = append(patches, Patch{Op: PatchAdd, Key: m.Key, Marker: &m})
		case !markerEqual(old, m):
			patches = append(patches, Patch{Op: PatchUpdate, Key: m.Key, Marker: &m})
		}
	}

	if prev.Viewport != next.Viewport {
		vp := next.Viewport
		patches = append(patches, Patch{Op: PatchView, Viewport: &vp})
	}

	return patches
}

// Apply применяет патчи к сцене. Повторное применение тех же патчей даёт тот же результат.
func Apply(scene domain.Scene, patches []Patch) domain.Scene {
	markers := make([]domain.Marker, len(scene.Markers))
	copy(markers, scene.Markers)

	index := func(key string) int {
		for i := range markers {
			if markers[i].Key == key {
				return i
			}
		}
		return -1
	}

	for _, p := range patches {
		switch p.Op {
		case PatchRemove:
			if i := index(p.Key); i >= 0 {
				markers = append(markers[:i], markers[i+1:]...)
			}
		case PatchAdd, PatchUpdate:
			if p.Marker == nil {
				continue
			}
			if i := index(p.Key); i >= 0 {
				markers[i] = *p.Marker
			} else {
				markers = append(markers, *p.Marker)
			}
		case PatchView:
			if p.Viewport != nil {
				scene.Viewport = *p.Viewport
			}
		}
	}

	scene.Markers = markers
	return scene
}

func markerEqual(a, b domain.Marker) bool {
	if a.Key != b.Key || a.Kind != b.Kind || a.LocationID != b.LocationID || a.Position != b.Position {
		return false
	}
	pa, pb := a.Popup, b.Popup
	if pa.Title != pb.Title || pa.Address != pb.Address || pa.Link != pb.Link || pa.LinkLabel != pb.LinkLabel {
		return false
	}
	switch {
	case pa.DistanceM == nil && pb.DistanceM == nil:
		return true
	case pa.DistanceM == nil || pb.DistanceM == nil:
		return false
	default:
		return *pa.DistanceM == *pb.DistanceM
	}
}
