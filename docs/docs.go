// Package docs Stop Registry API.
//
// Реестр остановок: импорт у провайдера транспортных данных, чтение с ближайшим
// отправлением и ссылками на соседние остановки, частичное обновление, удаление.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/stops": {
            "put": {
                "tags": ["Stops"],
                "summary": "Импорт остановок по поисковому запросу",
                "parameters": [
                    {"type": "string", "name": "query", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ImportStopsResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ImportStopsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["Stops"],
                "summary": "Создание остановки с id провайдера",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateStopRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CreateStopResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CreateStopResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/stops/{id}": {
            "get": {
                "tags": ["Stops"],
                "summary": "Остановка с ближайшим отправлением",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "include", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.StopView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            },
            "patch": {
                "tags": ["Stops"],
                "summary": "Частичное обновление остановки",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.StopSummary"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Stops"],
                "summary": "Удаление остановки",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DeleteStopResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/operator-profiles/{id}": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Справки о перевозчиках остановки",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/guide": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["Profiles"],
                "summary": "Путеводитель по сохраненным остановкам",
                "responses": {
                    "200": {"description": "Guide.txt", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Состояние сервиса",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        }
    },
    "definitions": {
        "dto.Link": {
            "type": "object",
            "properties": {"href": {"type": "string"}}
        },
        "dto.Links": {
            "type": "object",
            "properties": {
                "self": {"$ref": "#/definitions/dto.Link"},
                "next": {"$ref": "#/definitions/dto.Link"},
                "prev": {"$ref": "#/definitions/dto.Link"}
            }
        },
        "dto.StopSummary": {
            "type": "object",
            "properties": {
                "stop_id": {"type": "integer"},
                "last_updated": {"type": "string", "example": "2025-03-08-12:00:40"},
                "_links": {"$ref": "#/definitions/dto.Links"}
            }
        },
        "dto.StopView": {
            "type": "object",
            "properties": {
                "stop_id": {"type": "integer"},
                "last_updated": {"type": "string"},
                "name": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "next_departure": {"type": "string", "example": "Platform 14 towards Hannover Hbf"},
                "departure_status": {"type": "string", "example": "not_found"},
                "_links": {"$ref": "#/definitions/dto.Links"}
            }
        },
        "dto.ImportStopsResponse": {
            "type": "object",
            "properties": {
                "created": {"type": "array", "items": {"$ref": "#/definitions/dto.StopSummary"}},
                "existing": {"type": "array", "items": {"type": "integer"}},
                "message": {"type": "string"}
            }
        },
        "dto.CreateStopRequest": {
            "type": "object",
            "required": ["stop_id", "name"],
            "properties": {
                "stop_id": {"type": "integer"},
                "name": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "dto.CreateStopResponse": {
            "type": "object",
            "properties": {
                "stop": {"$ref": "#/definitions/dto.StopSummary"},
                "created": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "dto.DeleteStopResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "stop_id": {"type": "integer"}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object"}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"$ref": "#/definitions/errors.AppError"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Stop Registry API",
	Description:      "Реестр остановок общественного транспорта",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
