package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "AIE Portal API",
        "description": "Backend for the AIE university portal: timetable, assignments, resources, files, projects, messaging and calendar.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "System", "description": "Health, version and client configuration"},
        {"name": "Auth", "description": "Login, registration and the bearer token"},
        {"name": "Users", "description": "Profiles and user statistics"},
        {"name": "Classes", "description": "Weekly timetable, day views and Saturday overrides"},
        {"name": "Assignments", "description": "Assignments and submissions"},
        {"name": "Resources", "description": "Course resources and download counts"},
        {"name": "Files", "description": "Uploads and signed downloads"},
        {"name": "Projects", "description": "Student projects and members"},
        {"name": "Ideas", "description": "Idea board"},
        {"name": "Notifications", "description": "Inbox and realtime stream"},
        {"name": "Friends", "description": "Friend requests and direct messages"},
        {"name": "Events", "description": "Calendar events"},
        {"name": "Search", "description": "Global search and quick access"},
        {"name": "Stats", "description": "Portal-wide aggregates"}
    ],
    "paths": {
        "/system/health": {
            "get": {
                "tags": ["System"],
                "summary": "Liveness with database status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/HealthStatus"}}}
            }
        },
        "/config": {
            "get": {
                "tags": ["System"],
                "summary": "Client configuration",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/PublicConfig"}}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "429": {"description": "Too many attempts", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a user",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Email or roll number taken", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/classes/today": {
            "get": {
                "tags": ["Classes"],
                "summary": "Today's classes with live status",
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "faculty_id", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/classes/week/export": {
            "get": {
                "tags": ["Classes"],
                "summary": "Export the weekly timetable",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/saturday-class": {
            "post": {
                "tags": ["Classes"],
                "summary": "Make a Saturday follow a weekday timetable",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Not a Saturday", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Override exists", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/assignments/{id}/submit": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Submit an assignment",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Already submitted", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/resources/{id}/download": {
            "post": {
                "tags": ["Resources"],
                "summary": "Record a resource download",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/files/upload": {
            "post": {
                "tags": ["Files"],
                "summary": "Upload a file",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"},
                    {"name": "uploaded_by", "in": "formData", "type": "string"},
                    {"name": "course_id", "in": "formData", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "413": {"description": "Too large", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/files/{id}/download": {
            "get": {
                "tags": ["Files"],
                "summary": "Signed download link",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/DownloadLink"}}}
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Notifications of a user, newest first",
                "parameters": [
                    {"name": "user_id", "in": "query", "type": "string"},
                    {"name": "unread_only", "in": "query", "type": "boolean"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/messages": {
            "post": {
                "tags": ["Friends"],
                "summary": "Send a direct message to a friend",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not friends", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/calendar/{year}/{month}/ics": {
            "get": {
                "tags": ["Events"],
                "summary": "Month of events as iCalendar",
                "produces": ["text/calendar"],
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "month", "in": "path", "required": true, "type": "integer"},
                    {"name": "user_id", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/search/global": {
            "get": {
                "tags": ["Search"],
                "summary": "Search courses, assignments and resources",
                "parameters": [{"name": "q", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/stats/overview": {
            "get": {
                "tags": ["Stats"],
                "summary": "Portal totals",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "error": {"$ref": "#/definitions/APIError"}
            }
        },
        "HealthStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "database": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "PublicConfig": {
            "type": "object",
            "properties": {
                "app_name": {"type": "string"},
                "version": {"type": "string"},
                "features": {"type": "array", "items": {"type": "string"}},
                "max_file_size": {"type": "integer"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"},
                "user": {"type": "object"}
            }
        },
        "DownloadLink": {
            "type": "object",
            "properties": {
                "download_url": {"type": "string"},
                "expires_at": {"type": "string", "format": "date-time"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
