// Package docs registers the OpenAPI description served under /swagger/.
// It is maintained by hand alongside the handler annotations.
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
		"/auth/login": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Login",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.sessionResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"502": {
						"description": "Bad Gateway",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Login credentials",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.loginRequest"
						}
					}
				]
			}
		},
		"/auth/logout": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Logout",
				"responses": {
					"204": {
						"description": "No Content"
					}
				}
			}
		},
		"/auth/me": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Current session",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.sessionResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/health": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"health"
				],
				"summary": "Liveness check",
				"responses": {
					"200": {
						"description": "OK",
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
		"/health/ready": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"health"
				],
				"summary": "Readiness check",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.readinessResponse"
						}
					}
				}
			}
		},
		"/v1/dashboard": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"dashboard"
				],
				"summary": "Dashboard statistics",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Dashboard"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"502": {
						"description": "Bad Gateway",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			}
		},
		"/v1/orders": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "List service orders",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.orderListResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "open, closed or unresolved",
						"name": "status",
						"in": "query"
					},
					{
						"type": "string",
						"description": "low, medium or high",
						"name": "priority",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Responsible user ID",
						"name": "responsible",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Requesting user ID",
						"name": "from_user",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Free-text search",
						"name": "search",
						"in": "query"
					},
					{
						"type": "string",
						"description": "YYYY-MM-DD",
						"name": "start_date_from",
						"in": "query"
					},
					{
						"type": "string",
						"description": "YYYY-MM-DD",
						"name": "start_date_to",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Ordering, e.g. -created_at",
						"name": "ordering",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Page number",
						"name": "page",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Page size (max 1000)",
						"name": "page_size",
						"in": "query"
					}
				]
			},
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Create a service order",
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/domain.OrderView"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Order details",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.createOrderRequest"
						}
					}
				]
			}
		},
		"/v1/orders/transitions": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"transitions"
				],
				"summary": "Queue a status change",
				"responses": {
					"202": {
						"description": "Accepted",
						"schema": {
							"$ref": "#/definitions/handler.acceptedResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Status change",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.transitionRequest"
						}
					}
				]
			}
		},
		"/v1/orders/transitions/batch": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"transitions"
				],
				"summary": "Queue a batch of status changes",
				"responses": {
					"202": {
						"description": "Accepted",
						"schema": {
							"$ref": "#/definitions/handler.acceptedResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Array of status changes",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/handler.transitionRequest"
							}
						}
					}
				]
			}
		},
		"/v1/orders/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Get a service order",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.OrderView"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"patch": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Update a service order",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.OrderView"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Fields to change",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.updateOrderRequest"
						}
					}
				]
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Delete a service order",
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/v1/orders/{id}/assign": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Assign a responsible user",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.OrderView"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Responsible user",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.assignRequest"
						}
					}
				]
			}
		},
		"/v1/orders/{id}/close": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Close a service order",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.OrderView"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/v1/orders/{id}/rate": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Rate a service order",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.OrderView"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Rating 1-5",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.rateRequest"
						}
					}
				]
			}
		},
		"/v1/orders/{id}/reopen": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Reopen a closed or unresolved service order",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.OrderView"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/v1/orders/{id}/unresolve": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Mark an open service order unresolved",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.OrderView"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Order ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/v1/users": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "List users",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/domain.User"
							}
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				}
			},
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Create a user",
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/domain.User"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Account details",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.createUserRequest"
						}
					}
				]
			}
		},
		"/v1/users/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Get a user",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.User"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "User ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"patch": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Update a user",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.User"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "User ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Fields to change",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.updateUserRequest"
						}
					}
				]
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Delete a user",
				"responses": {
					"204": {
						"description": "No Content"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "User ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		}
	},
	"definitions": {
		"domain.CategoryCount": {
			"type": "object",
			"properties": {
				"key": {
					"type": "string"
				},
				"count": {
					"type": "integer"
				},
				"share": {
					"type": "number"
				}
			}
		},
		"domain.Dashboard": {
			"type": "object",
			"properties": {
				"stats": {
					"$ref": "#/definitions/domain.DashboardStats"
				},
				"server_count": {
					"type": "integer"
				},
				"by_status": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.CategoryCount"
					}
				},
				"by_priority": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.CategoryCount"
					}
				},
				"trend": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.TrendBucket"
					}
				},
				"recent": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.OrderView"
					}
				},
				"generated_at": {
					"type": "string"
				}
			}
		},
		"domain.DashboardStats": {
			"type": "object",
			"properties": {
				"total": {
					"type": "integer"
				},
				"open": {
					"type": "integer"
				},
				"closed": {
					"type": "integer"
				},
				"unresolved": {
					"type": "integer"
				},
				"high_priority": {
					"type": "integer"
				},
				"overdue": {
					"type": "integer"
				}
			}
		},
		"domain.OrderView": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"resolved": {
					"type": "string"
				},
				"start_date": {
					"type": "string"
				},
				"predicted_date": {
					"type": "string"
				},
				"completion_date": {
					"type": "string"
				},
				"days_delay": {
					"type": "integer"
				},
				"priority": {
					"type": "string",
					"enum": [
						"low",
						"medium",
						"high"
					]
				},
				"status": {
					"type": "string",
					"enum": [
						"open",
						"closed",
						"unresolved"
					]
				},
				"from_user": {
					"type": "integer"
				},
				"responsible": {
					"type": "integer"
				},
				"rate": {
					"type": "integer"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				},
				"overdue": {
					"type": "boolean"
				},
				"days_until_deadline": {
					"type": "integer"
				}
			}
		},
		"domain.TrendBucket": {
			"type": "object",
			"properties": {
				"date": {
					"type": "string"
				},
				"created": {
					"type": "integer"
				},
				"closed": {
					"type": "integer"
				}
			}
		},
		"domain.User": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"username": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"first_name": {
					"type": "string"
				},
				"last_name": {
					"type": "string"
				},
				"is_staff": {
					"type": "boolean"
				},
				"is_superuser": {
					"type": "boolean"
				},
				"is_active": {
					"type": "boolean"
				},
				"date_joined": {
					"type": "string"
				}
			}
		},
		"handler.acceptedResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"count": {
					"type": "integer"
				}
			}
		},
		"handler.assignRequest": {
			"type": "object",
			"properties": {
				"responsible_id": {
					"type": "integer"
				}
			},
			"required": [
				"responsible_id"
			]
		},
		"handler.createOrderRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"resolved": {
					"type": "string"
				},
				"start_date": {
					"type": "string"
				},
				"predicted_date": {
					"type": "string"
				},
				"priority": {
					"type": "string",
					"enum": [
						"low",
						"medium",
						"high"
					]
				},
				"status": {
					"type": "string",
					"enum": [
						"open",
						"closed",
						"unresolved"
					]
				},
				"from_user": {
					"type": "integer"
				},
				"responsible": {
					"type": "integer"
				}
			},
			"required": [
				"title",
				"description",
				"start_date",
				"predicted_date",
				"priority"
			]
		},
		"handler.createUserRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string",
					"minLength": 8
				},
				"email": {
					"type": "string"
				},
				"first_name": {
					"type": "string"
				},
				"last_name": {
					"type": "string"
				},
				"is_staff": {
					"type": "boolean"
				},
				"is_superuser": {
					"type": "boolean"
				},
				"groups": {
					"type": "array",
					"items": {
						"type": "integer"
					}
				},
				"user_permissions": {
					"type": "array",
					"items": {
						"type": "integer"
					}
				}
			},
			"required": [
				"username",
				"password"
			]
		},
		"handler.dependencyStatus": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"error": {
					"type": "string"
				}
			}
		},
		"handler.errorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				}
			}
		},
		"handler.loginRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			},
			"required": [
				"username",
				"password"
			]
		},
		"handler.orderListResponse": {
			"type": "object",
			"properties": {
				"count": {
					"type": "integer"
				},
				"next": {
					"type": "string"
				},
				"previous": {
					"type": "string"
				},
				"results": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.OrderView"
					}
				}
			}
		},
		"handler.rateRequest": {
			"type": "object",
			"properties": {
				"rate": {
					"type": "integer",
					"minimum": 1,
					"maximum": 5
				}
			},
			"required": [
				"rate"
			]
		},
		"handler.readinessResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"dependencies": {
					"type": "object",
					"additionalProperties": {
						"$ref": "#/definitions/handler.dependencyStatus"
					}
				}
			}
		},
		"handler.sessionResponse": {
			"type": "object",
			"properties": {
				"user": {
					"$ref": "#/definitions/domain.User"
				},
				"role": {
					"type": "string"
				},
				"initials": {
					"type": "string"
				},
				"permissions": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"access_expires_at": {
					"type": "string"
				}
			}
		},
		"handler.transitionRequest": {
			"type": "object",
			"properties": {
				"order_id": {
					"type": "integer"
				},
				"status": {
					"type": "string",
					"enum": [
						"open",
						"closed",
						"unresolved"
					]
				},
				"requested_at": {
					"type": "string"
				}
			},
			"required": [
				"order_id",
				"status"
			]
		},
		"handler.updateOrderRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"resolved": {
					"type": "string"
				},
				"start_date": {
					"type": "string"
				},
				"predicted_date": {
					"type": "string"
				},
				"priority": {
					"type": "string",
					"enum": [
						"low",
						"medium",
						"high"
					]
				},
				"responsible": {
					"type": "integer"
				}
			}
		},
		"handler.updateUserRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"first_name": {
					"type": "string"
				},
				"last_name": {
					"type": "string"
				},
				"is_staff": {
					"type": "boolean"
				},
				"is_superuser": {
					"type": "boolean"
				},
				"is_active": {
					"type": "boolean"
				},
				"groups": {
					"type": "array",
					"items": {
						"type": "integer"
					}
				},
				"user_permissions": {
					"type": "array",
					"items": {
						"type": "integer"
					}
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "orderdesk API",
	Description:      "Session-holding client for the service-order API: orders, lifecycle transitions, dashboard and user administration.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
