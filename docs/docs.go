// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
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
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}}}
            }
        },
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "201": {"description": "user", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "description": "Any credential failure answers the same 401 body.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.authCredentials"}}],
                "responses": {
                    "200": {"description": "ok, user", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}}}
            }
        },
        "/api/auth/me": {
            "get": {
                "description": "Session snapshot; user is null without a session.",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current identity",
                "responses": {"200": {"description": "user", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/api/items": {
            "get": {
                "description": "Any other parameter filters by equality; comma-separated values match any of the listed values.",
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "List items",
                "parameters": [
                    {"type": "string", "example": "-price,name", "description": "Sort keys, '-' for descending", "name": "sort", "in": "query"},
                    {"type": "string", "example": "name,price", "description": "Projection (id is always included)", "name": "fields", "in": "query"},
                    {"type": "integer", "description": "Max results (default 50, max 200)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset (default 0)", "name": "skip", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object", "additionalProperties": true}}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Create item",
                "parameters": [{"description": "Item", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ItemRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/api/items/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Get item",
                "parameters": [{"type": "string", "description": "Item id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            },
            "put": {
                "description": "Owner or admin only. Only provided fields are changed.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Update item",
                "parameters": [
                    {"type": "string", "description": "Item id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            },
            "delete": {
                "description": "Owner or admin only.",
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Delete item",
                "parameters": [{"type": "string", "description": "Item id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "deleted, item", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handlers.errorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.errorBody"}}
                }
            }
        },
        "/api/ws/items": {
            "get": {
                "description": "WebSocket. Sends {\"type\":\"items\",\"data\":[...]} for the connection's list query right away and then every interval.",
                "tags": ["items"],
                "summary": "Live item feed",
                "parameters": [
                    {"type": "string", "description": "Push interval, e.g. 2s (max 10s)", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Push interval in ms (max 10000)", "name": "interval_ms", "in": "query"}
                ],
                "responses": {}
            }
        }
    },
    "definitions": {
        "handlers.authCredentials": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "example": "alice"},
                "password": {"type": "string", "example": "secret1"}
            }
        },
        "handlers.ItemRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "iPhone 15"},
                "price": {"type": "number", "example": 850},
                "category": {"type": "string", "example": "smartphone"},
                "brand": {"type": "string", "example": "Apple"},
                "sku": {"type": "string", "example": "SKU-1002"},
                "inStock": {"type": "boolean", "example": true}
            }
        },
        "handlers.errorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Catalog API",
	Description:      "Session-authenticated product catalog with owner/admin write permissions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
