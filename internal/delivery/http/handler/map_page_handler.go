package handler

import (
	"embed"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/location-map/internal/config"
)

//go:embed templates/*.html
var templatesFS embed.FS

const defaultPollInterval = time.Second

// MapPageData - данные для шаблона страницы карты
type MapPageData struct {
	Title          string
	TileURL        string
	Attribution    string
	IconURL        string
	IconRetinaURL  string
	ShadowURL      string
	DeviceID       string
	PollIntervalMS int64
}

// MapPageHandler - страница с Leaflet картой, которая рисует сцену сессии и применяет патчи
type MapPageHandler struct {
	templates *template.Template
	mapCfg    config.MapConfig
}

// NewMapPageHandler - создание хендлера страницы карты
func NewMapPageHandler(mapCfg config.MapConfig) (*MapPageHandler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &MapPageHandler{
		templates: tmpl,
		mapCfg:    mapCfg,
	}, nil
}

// RenderMap - рендеринг страницы карты. ?device_id= включает слежение за устройством.
func (h *MapPageHandler) RenderMap(c *fiber.Ctx) error {
	data := MapPageData{
		Title:          "Locations",
		TileURL:        h.mapCfg.TileURL,
		Attribution:    h.mapCfg.Attribution,
		IconURL:        h.mapCfg.IconURL,
		IconRetinaURL:  h.mapCfg.IconRetinaURL,
		ShadowURL:      h.mapCfg.ShadowURL,
		DeviceID:       c.Query("device_id"),
		PollIntervalMS: defaultPollInterval.Milliseconds(),
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return h.templates.ExecuteTemplate(c.Response().BodyWriter(), "map.html", data)
}
