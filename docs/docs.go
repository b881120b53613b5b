// Package docs Location Map API.
//
// Сервис веб-карты с локациями из Supabase и живым слежением за позицией устройства.
// Шаблон описывает маршруты /api/v1 и регистрируется в swag для /swagger/*.
//
// При изменении аннотаций в обработчиках шаблон нужно обновлять вместе с ними.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {
                "description": "Проверяет соединения с Postgres и Redis, если они подключены",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        },
        "/api/v1/locations": {
            "get": {
                "description": "Возвращает все локации. При ошибке хранилища список пустой, ошибка только в логе.",
                "produces": ["application/json"],
                "tags": ["Locations"],
                "summary": "List locations",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {
                                "data": {
                                    "type": "array",
                                    "items": {"$ref": "#/definitions/domain.LocationRecord"}
                                },
                                "meta": {"$ref": "#/definitions/utils.Meta"}
                            }
                        }
                    }
                }
            }
        },
        "/api/v1/sessions": {
            "post": {
                "description": "Монтирует вид карты. С device_id вид следит за позицией устройства.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Open map session",
                "parameters": [
                    {
                        "description": "Параметры сессии",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/dto.CreateSessionRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "type": "object",
                            "properties": {"data": {"$ref": "#/definitions/dto.SessionResponse"}}
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}": {
            "delete": {
                "description": "Размонтирует вид: отменяет загрузку и подписку на позицию",
                "tags": ["Sessions"],
                "summary": "Close map session",
                "parameters": [
                    {"type": "string", "description": "ID сессии", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}/scene": {
            "get": {
                "description": "Полная декларативная сцена: вид и маркеры. Сбрасывает базу для патчей.",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Full scene",
                "parameters": [
                    {"type": "string", "description": "ID сессии", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {"data": {"$ref": "#/definitions/domain.Scene"}}
                        }
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}/patches": {
            "get": {
                "description": "Изменения сцены с прошлого запроса scene или patches",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Scene patches",
                "parameters": [
                    {"type": "string", "description": "ID сессии", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {"data": {"$ref": "#/definitions/dto.PatchesResponse"}}
                        }
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}/markers/{location_id}/click": {
            "post": {
                "description": "Центрирует карту на локации с максимальным зумом",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Click location marker",
                "parameters": [
                    {"type": "string", "description": "ID сессии", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "ID локации", "name": "location_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {"data": {"$ref": "#/definitions/dto.ViewportResponse"}}
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}/zoom": {
            "post": {
                "description": "Сообщает о ручном изменении зума, режим pan сохраняет его при следующих фиксациях",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Report user zoom",
                "parameters": [
                    {"type": "string", "description": "ID сессии", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Новый зум",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.SetZoomRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "properties": {"data": {"$ref": "#/definitions/dto.ViewportResponse"}}
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/devices/{device_id}/positions": {
            "post": {
                "description": "Публикует фиксацию позиции в поток устройства, все виды с этим device_id её получат",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Positions"],
                "summary": "Publish device position",
                "parameters": [
                    {"type": "string", "description": "ID устройства", "name": "device_id", "in": "path", "required": true},
                    {
                        "description": "Позиция",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.PublishPositionRequest"}
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "type": "object",
                            "properties": {"data": {"$ref": "#/definitions/domain.PositionSample"}}
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "time": {"type": "string"},
                "checks": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "domain.Point": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            }
        },
        "domain.LocationRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "Location_Name": {"type": "string"},
                "Country": {"type": "string"},
                "Address": {"type": "string"},
                "URL": {"type": "string"},
                "Latitude": {"type": "number"},
                "Longitude": {"type": "number"},
                "created_at": {"type": "string"},
                "coordinates": {"$ref": "#/definitions/domain.Point"}
            }
        },
        "domain.Viewport": {
            "type": "object",
            "properties": {
                "center": {"$ref": "#/definitions/domain.Point"},
                "zoom": {"type": "integer"},
                "transition": {"type": "string", "enum": ["none", "jump", "pan", "fly"]},
                "seq": {"type": "integer"}
            }
        },
        "domain.Popup": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "address": {"type": "string"},
                "link": {"type": "string"},
                "link_label": {"type": "string"},
                "distance_m": {"type": "number"}
            }
        },
        "domain.Marker": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "kind": {"type": "string", "enum": ["location", "live"]},
                "location_id": {"type": "integer"},
                "position": {"$ref": "#/definitions/domain.Point"},
                "popup": {"$ref": "#/definitions/domain.Popup"}
            }
        },
        "domain.Scene": {
            "type": "object",
            "properties": {
                "version": {"type": "integer"},
                "viewport": {"$ref": "#/definitions/domain.Viewport"},
                "markers": {"type": "array", "items": {"$ref": "#/definitions/domain.Marker"}}
            }
        },
        "domain.PositionSample": {
            "type": "object",
            "properties": {
                "device_id": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "accuracy": {"type": "number"},
                "recorded_at": {"type": "string"}
            }
        },
        "mapview.Patch": {
            "type": "object",
            "properties": {
                "op": {"type": "string", "enum": ["add", "update", "remove", "view"]},
                "key": {"type": "string"},
                "marker": {"$ref": "#/definitions/domain.Marker"},
                "viewport": {"$ref": "#/definitions/domain.Viewport"}
            }
        },
        "dto.CreateSessionRequest": {
            "type": "object",
            "properties": {
                "device_id": {"type": "string"}
            }
        },
        "dto.SetZoomRequest": {
            "type": "object",
            "required": ["zoom"],
            "properties": {
                "zoom": {"type": "integer", "minimum": 0, "maximum": 18}
            }
        },
        "dto.PublishPositionRequest": {
            "type": "object",
            "required": ["latitude", "longitude"],
            "properties": {
                "latitude": {"type": "number", "minimum": -90, "maximum": 90},
                "longitude": {"type": "number", "minimum": -180, "maximum": 180},
                "accuracy": {"type": "number", "minimum": 0},
                "recorded_at": {"type": "string"}
            }
        },
        "dto.SessionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "device_id": {"type": "string"},
                "scene": {"$ref": "#/definitions/domain.Scene"}
            }
        },
        "dto.PatchesResponse": {
            "type": "object",
            "properties": {
                "version": {"type": "integer"},
                "patches": {"type": "array", "items": {"$ref": "#/definitions/mapview.Patch"}}
            }
        },
        "dto.ViewportResponse": {
            "type": "object",
            "properties": {
                "viewport": {"$ref": "#/definitions/domain.Viewport"}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/errors.AppError"}
            }
        },
        "utils.Meta": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "version": {"type": "integer"},
                "time_ms": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Location Map API",
	Description:      "Карта локаций из таблицы Supabase \"Locations\" с маркером текущей позиции устройства.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
