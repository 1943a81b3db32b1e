// Package docs holds the OpenAPI document served at /swagger. It covers the
// main routes; run swag init over the handler annotations for the full set.
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
		"/api/analyze": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"AI"
				],
				"summary": "Analyze brainstormed ideas",
				"parameters": [
					{
						"description": "ideas",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.AnalyzeRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.AnalyzeResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"/api/export": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Data"
				],
				"summary": "Export every collection as one JSON document",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.ExportEnvelope"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"/api/projects": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Projects"
				],
				"summary": "List projects",
				"parameters": [
					{
						"type": "boolean",
						"description": "only soft-deleted projects",
						"name": "deleted",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/model.Project"
							}
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Projects"
				],
				"summary": "Create a project",
				"parameters": [
					{
						"description": "project",
						"name": "project",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.CreateProjectRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/model.Project"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"/api/projects/{slug}": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Projects"
				],
				"summary": "Get a project with phases, tasks, decisions and prompts",
				"parameters": [
					{
						"type": "string",
						"description": "project slug",
						"name": "slug",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Project"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"/api/projects/{slug}/activity": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Projects"
				],
				"summary": "Page through a project's activity feed",
				"parameters": [
					{
						"type": "string",
						"description": "project slug",
						"name": "slug",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"description": "page size (default 10)",
						"name": "limit",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "offset (default 0)",
						"name": "offset",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.ActivityPage"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"/api/projects/{slug}/board": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Projects"
				],
				"summary": "Kanban lanes for a project",
				"parameters": [
					{
						"type": "string",
						"description": "project slug",
						"name": "slug",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.BoardResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"/api/promote-to-project/generate": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"AI"
				],
				"summary": "Suggest a project definition for a captured idea",
				"parameters": [
					{
						"description": "capture",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/promotion.SuggestionRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/promotion.Suggestions"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"/api/prompts/generate": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"AI"
				],
				"summary": "Generate a coding-assistant prompt for a task",
				"parameters": [
					{
						"description": "task",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.GeneratePromptRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Prompt"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/model.Prompt"
						}
					}
				}
			}
		},
		"/api/settings": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Settings"
				],
				"summary": "Read all settings as one object",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"additionalProperties": true
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			},
			"put": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Settings"
				],
				"summary": "Upsert settings",
				"parameters": [
					{
						"description": "settings",
						"name": "settings",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object",
							"additionalProperties": true
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "boolean"
							}
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"/api/tasks": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Tasks"
				],
				"summary": "Create a task at the end of its project",
				"parameters": [
					{
						"description": "task",
						"name": "task",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.TaskRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/model.Task"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"/api/tasks/{id}": {
			"patch": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Tasks"
				],
				"summary": "Partially update a task",
				"parameters": [
					{
						"type": "string",
						"description": "task id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "fields to change",
						"name": "task",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.TaskRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Task"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			}
		}
	},
	"definitions": {
		"handler.AnalyzeRequest": {
			"type": "object",
			"properties": {
				"items": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"id": {
								"type": "string"
							},
							"content": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"handler.BrainstormItem": {
			"type": "object",
			"properties": {
				"content": {
					"type": "string"
				},
				"id": {
					"type": "string"
				}
			}
		},
		"handler.AnalyzeResponse": {
			"type": "object",
			"properties": {
				"originalItems": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handler.BrainstormItem"
					}
				},
				"analysis": {
					"type": "string"
				}
			}
		},
		"handler.ExportEnvelope": {
			"type": "object",
			"properties": {
				"exportedAt": {
					"type": "string"
				},
				"version": {
					"type": "string"
				},
				"data": {
					"type": "object"
				}
			}
		},
		"handler.CreateProjectRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"problem": {
					"type": "string"
				},
				"mvpDefinition": {
					"type": "string"
				}
			}
		},
		"handler.ActivityPage": {
			"type": "object",
			"properties": {
				"activities": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/model.Activity"
					}
				},
				"total": {
					"type": "integer"
				},
				"hasMore": {
					"type": "boolean"
				}
			}
		},
		"handler.BoardResponse": {
			"type": "object",
			"properties": {
				"projectId": {
					"type": "string"
				},
				"slug": {
					"type": "string"
				},
				"lanes": {
					"type": "object"
				}
			}
		},
		"handler.GeneratePromptRequest": {
			"type": "object",
			"properties": {
				"taskId": {
					"type": "string"
				},
				"projectId": {
					"type": "string"
				}
			}
		},
		"handler.TaskRequest": {
			"type": "object",
			"properties": {
				"projectId": {
					"type": "string"
				},
				"phaseId": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"complexity": {
					"type": "string"
				},
				"status": {
					"type": "string"
				}
			}
		},
		"promotion.SuggestionRequest": {
			"type": "object",
			"properties": {
				"captureId": {
					"type": "string"
				},
				"content": {
					"type": "string"
				},
				"analysis": {
					"type": "string"
				},
				"userAnswers": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"question": {
								"type": "string"
							},
							"answer": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"promotion.Suggestions": {
			"type": "object",
			"properties": {
				"suggestedName": {
					"type": "string"
				},
				"suggestedProblem": {
					"type": "string"
				},
				"suggestedMvp": {
					"type": "string"
				},
				"clarifyingQuestions": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"id": {
								"type": "string"
							},
							"question": {
								"type": "string"
							},
							"hint": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"model.Project": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"slug": {
					"type": "string"
				},
				"problem": {
					"type": "string"
				},
				"mvpDefinition": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				},
				"deletedAt": {
					"type": "string"
				}
			}
		},
		"model.Task": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"projectId": {
					"type": "string"
				},
				"phaseId": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"complexity": {
					"type": "string"
				},
				"status": {
					"type": "string"
				},
				"order": {
					"type": "integer"
				}
			}
		},
		"model.Prompt": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"projectId": {
					"type": "string"
				},
				"taskId": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"content": {
					"type": "string"
				},
				"outcome": {
					"type": "string"
				},
				"notes": {
					"type": "string"
				}
			}
		},
		"model.Activity": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"projectId": {
					"type": "string"
				},
				"type": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"metadata": {
					"type": "object"
				},
				"createdAt": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Type \"Bearer\" followed by a space and JWT token. Only required when JWT_SECRET is set.",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "VibePM API",
	Description:      "Projects, tasks, prompts and quick captures for a personal planning app, with AI-assisted analysis.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
