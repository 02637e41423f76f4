package httpapi

import (
	"net/http"

	"github.com/church-livestream/cls/internal/buildinfo"
	"github.com/church-livestream/cls/internal/httpjson"
)

// handleOpenAPI décrit l'API JSON (les pages /embed/* sont du HTML).
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, openAPIDocument())
}

func openAPIDocument() map[string]any {
	jsonOK := func(schemaRef string) map[string]any {
		return map[string]any{
			"description": "OK",
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{"$ref": schemaRef},
				},
			},
		}
	}
	jsonErr := map[string]any{
		"description": "Error",
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Error"},
			},
		},
	}
	str := map[string]any{"type": "string"}
	boolean := map[string]any{"type": "boolean"}
	nullableStr := map[string]any{"type": "string", "nullable": true}
	mode := map[string]any{"$ref": "#/components/schemas/Mode"}
	admin := []any{map[string]any{"bearerAuth": []any{}}}
	flagParam := func(name, desc string) map[string]any {
		return map[string]any{
			"name": name, "in": "query", "required": false, "description": desc,
			"schema": map[string]any{"type": "string", "enum": []any{"1"}},
		}
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "Church Livestream Switcher API",
			"version": buildinfo.Current().Version,
		},
		"components": map[string]any{
			"securitySchemes": map[string]any{
				"bearerAuth": map[string]any{"type": "http", "scheme": "bearer"},
			},
			"schemas": map[string]any{
				"Error": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"error": str,
						"code":  str,
					},
					"required": []any{"error"},
				},
				"Mode": map[string]any{
					"type": "string",
					"enum": []any{"live_video", "upcoming_video", "playlist"},
				},
				"Status": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"enabled":  boolean,
						"inWindow": boolean,
						"mode":     mode,
						"videoId":  nullableStr,
						"error":    str,
					},
					"required": []any{"inWindow", "mode", "videoId"},
				},
				"ScheduleRule": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"day":   map[string]any{"type": "integer", "minimum": 0, "maximum": 6},
						"start": map[string]any{"type": "string", "pattern": `^\d{2}:\d{2}$`},
						"end":   map[string]any{"type": "string", "pattern": `^\d{2}:\d{2}$`},
					},
					"required": []any{"day", "start", "end"},
				},
				"OneTimeEvent": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"date":  map[string]any{"type": "string", "format": "date"},
						"start": map[string]any{"type": "string", "pattern": `^\d{2}:\d{2}$`},
						"end":   map[string]any{"type": "string", "pattern": `^\d{2}:\d{2}$`},
					},
					"required": []any{"date", "start", "end"},
				},
				"Schedule": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"schedule":        map[string]any{"type": "array", "items": map[string]any{"$ref": "#/components/schemas/ScheduleRule"}},
						"one_time_events": map[string]any{"type": "array", "items": map[string]any{"$ref": "#/components/schemas/OneTimeEvent"}},
					},
				},
				"Settings": map[string]any{
					"type":        "object",
					"description": "Réglages complets; les secrets sont toujours vides en lecture.",
					"properties": map[string]any{
						"enabled":                boolean,
						"timezone":               str,
						"channelId":              str,
						"playlistId":             str,
						"apiKey":                 str,
						"apiKeyClear":            boolean,
						"apiKeyPreview":          str,
						"cacheTtlSeconds":        map[string]any{"type": "integer", "minimum": 10},
						"pollIntervalSeconds":    map[string]any{"type": "integer", "minimum": 30},
						"lookbackCount":          map[string]any{"type": "integer", "minimum": 5, "maximum": 25},
						"uploadsCacheTtlSeconds": map[string]any{"type": "integer", "minimum": 3600},
						"lowQuotaMode":           boolean,
						"chatShowUpcoming":       boolean,
						"githubUpdatesEnabled":   boolean,
						"githubRepo":             str,
						"githubToken":            str,
						"githubTokenClear":       boolean,
						"githubTokenPreview":     str,
						"schedule":               map[string]any{"type": "array", "items": map[string]any{"$ref": "#/components/schemas/ScheduleRule"}},
						"oneTimeEvents":          map[string]any{"type": "array", "items": map[string]any{"$ref": "#/components/schemas/OneTimeEvent"}},
					},
					"additionalProperties": true,
				},
				"PlayerState": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"inWindow": boolean,
						"mode":     mode,
						"videoId":  nullableStr,
						"src":      str,
					},
				},
				"ChatState": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"visible": boolean,
						"mode":    mode,
						"src":     str,
					},
				},
				"Release": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"version":     str,
						"tag":         str,
						"name":        str,
						"htmlUrl":     str,
						"downloadUrl": str,
						"publishedAt": map[string]any{"type": "string", "format": "date-time"},
						"body":        str,
						"prerelease":  boolean,
					},
				},
				"UpdateStatus": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"currentVersion":  str,
						"repo":            str,
						"release":         map[string]any{"$ref": "#/components/schemas/Release"},
						"updateAvailable": boolean,
						"cached":          boolean,
					},
				},
				"BuildInfo": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"version":   str,
						"commit":    str,
						"date":      str,
						"goVersion": str,
					},
					"required": []any{"version"},
				},
				"Health": map[string]any{
					"type":       "object",
					"properties": map[string]any{"status": str},
				},
			},
		},
		"paths": map[string]any{
			"/api/v1/health": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/Health")}},
			},
			"/api/v1/version": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/BuildInfo")}},
			},
			"/api/v1/status": map[string]any{
				"get": map[string]any{
					"parameters": []any{flagParam("debug", "Contourne le cache et expose l'erreur (admin).")},
					"responses": map[string]any{
						"200": jsonOK("#/components/schemas/Status"),
						"429": jsonErr,
						"500": jsonErr,
					},
				},
			},
			"/api/v1/settings": map[string]any{
				"get": map[string]any{
					"security":  admin,
					"responses": map[string]any{"200": jsonOK("#/components/schemas/Settings"), "401": jsonErr},
				},
				"put": map[string]any{
					"security": admin,
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{"schema": map[string]any{"$ref": "#/components/schemas/Settings"}},
						},
					},
					"responses": map[string]any{"200": jsonOK("#/components/schemas/Settings"), "400": jsonErr, "401": jsonErr},
				},
			},
			"/api/v1/schedule": map[string]any{
				"get": map[string]any{
					"security":  admin,
					"responses": map[string]any{"200": jsonOK("#/components/schemas/Schedule"), "401": jsonErr},
				},
				"put": map[string]any{
					"security": admin,
					"requestBody": map[string]any{
						"required": true,
						"content": map[string]any{
							"application/json": map[string]any{"schema": map[string]any{"$ref": "#/components/schemas/Schedule"}},
						},
					},
					"responses": map[string]any{"200": jsonOK("#/components/schemas/Schedule"), "400": jsonErr, "401": jsonErr},
				},
			},
			"/api/v1/embed/player": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/PlayerState")}},
			},
			"/api/v1/embed/chat": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/ChatState")}},
			},
			"/api/v1/updates": map[string]any{
				"get": map[string]any{
					"security":   admin,
					"parameters": []any{flagParam("force", "Ignore le cache des releases.")},
					"responses": map[string]any{
						"200": jsonOK("#/components/schemas/UpdateStatus"),
						"401": jsonErr,
						"409": jsonErr,
						"502": jsonErr,
					},
				},
			},
			"/api/v1/events": map[string]any{
				"get": map[string]any{
					"description": "Flux Server-Sent Events: status.resolved, settings.updated, schedule.updated.",
					"responses": map[string]any{
						"200": map[string]any{
							"description": "OK",
							"content":     map[string]any{"text/event-stream": map[string]any{"schema": str}},
						},
					},
				},
			},
		},
	}
}
