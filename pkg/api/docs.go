package api

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
        "/health": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Get the health status of the API",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/images/inspect": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Detect the format of an uploaded image and report its slots, checksum failures and party.",
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Inspect a save image",
                "parameters": [
                    {"type": "string", "description": "auto, international or japanese", "name": "region", "in": "query"},
                    {"description": "Raw save image", "name": "body", "in": "body", "required": true, "schema": {"type": "string", "format": "binary"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/save.Report"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/images/repair": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Recompute every checksum of the active data and return the fixed image. The original is archived first when backups are enabled.",
                "consumes": ["application/octet-stream"],
                "produces": ["application/octet-stream", "application/json"],
                "tags": ["images"],
                "summary": "Repair a save image",
                "parameters": [
                    {"type": "string", "description": "auto, international or japanese", "name": "region", "in": "query"},
                    {"type": "string", "description": "Name stored with the backup", "name": "name", "in": "query"},
                    {"type": "string", "description": "json to get a RepairResult instead of the image", "name": "format", "in": "query"},
                    {"description": "Raw save image", "name": "body", "in": "body", "required": true, "schema": {"type": "string", "format": "binary"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.RepairResult"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/backups": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "List archived images, oldest first",
                "produces": ["application/json"],
                "tags": ["backups"],
                "summary": "List backups",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/archive.Meta"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/backups/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Return the archived image bytes",
                "produces": ["application/octet-stream"],
                "tags": ["backups"],
                "summary": "Download a backup",
                "parameters": [
                    {"type": "string", "description": "Backup id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string", "format": "binary"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["backups"],
                "summary": "Delete a backup",
                "parameters": [
                    {"type": "string", "description": "Backup id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"type": "string"}
            }
        },
        "api.RepairResult": {
            "type": "object",
            "properties": {
                "format": {"type": "string"},
                "repaired": {"type": "array", "items": {"$ref": "#/definitions/save.Failure"}},
                "backup_id": {"type": "string"}
            }
        },
        "archive.Meta": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "format": {"type": "string"},
                "source": {"type": "string"},
                "size": {"type": "integer"},
                "failures": {"type": "integer"},
                "sha256": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "save.Failure": {
            "type": "object",
            "properties": {
                "sector": {"type": "integer"},
                "offset": {"type": "integer"},
                "name": {"type": "string"},
                "stored": {"type": "integer"},
                "computed": {"type": "integer"}
            }
        },
        "save.PartyEntry": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "present": {"type": "boolean"},
                "species": {"type": "integer"},
                "pid": {"type": "integer"},
                "nickname": {"type": "string"},
                "ot_name": {"type": "string"},
                "egg": {"type": "boolean"},
                "record_valid": {"type": "boolean"}
            }
        },
        "save.Report": {
            "type": "object",
            "properties": {
                "format": {"type": "string"},
                "generation": {"type": "integer"},
                "region": {"type": "string"},
                "game": {"type": "string"},
                "size": {"type": "integer"},
                "active_slot": {"type": "integer"},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/sector.SlotInfo"}},
                "failures": {"type": "array", "items": {"$ref": "#/definitions/save.Failure"}},
                "valid": {"type": "boolean"},
                "party_count": {"type": "integer"},
                "party": {"type": "array", "items": {"$ref": "#/definitions/save.PartyEntry"}},
                "current_box": {"type": "integer"},
                "box_names": {"type": "array", "items": {"type": "string"}}
            }
        },
        "sector.SlotInfo": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "mask": {"type": "integer"},
                "complete": {"type": "boolean"},
                "counter": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "cartsave REST API",
	Description:      "Inspect, validate and repair cartridge save images, and manage image backups.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
