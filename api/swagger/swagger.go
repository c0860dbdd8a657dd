package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Store Ops Dashboard API",
        "description": "Filtered attendance, approval, schedule and feedback dashboards for retail operations",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Attendance", "description": "Attendance summary, pivots and exports"},
        {"name": "Approvals", "description": "Cleaning requests, production extras and theft incidents"},
        {"name": "Schedules", "description": "Security and thirdparty schedules (read-only)"},
        {"name": "Feedback", "description": "Store feedback"}
    ],
    "parameters": {
        "store": {"name": "store", "in": "query", "type": "string", "description": "Exact store name"},
        "company": {"name": "company", "in": "query", "type": "string"},
        "workerType": {"name": "workerType", "in": "query", "type": "string"},
        "status": {"name": "status", "in": "query", "type": "string"},
        "category": {"name": "category", "in": "query", "type": "string"},
        "name": {"name": "name", "in": "query", "type": "string", "description": "Case-insensitive substring of the employee name"},
        "period": {"name": "period", "in": "query", "type": "string", "enum": ["all", "today", "this-week", "this-month", "last-month", "custom"]},
        "fromDate": {"name": "fromDate", "in": "query", "type": "string", "format": "date"},
        "toDate": {"name": "toDate", "in": "query", "type": "string", "format": "date", "description": "Inclusive"},
        "week": {"name": "week", "in": "query", "type": "string", "format": "date", "description": "Week start; selects schedules active that week"},
        "page": {"name": "page", "in": "query", "type": "integer", "minimum": 1},
        "pageSize": {"name": "pageSize", "in": "query", "type": "integer", "minimum": 1, "maximum": 100},
        "id": {"name": "id", "in": "path", "type": "integer", "required": true}
    },
    "paths": {
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Summary, pivot groups and capped raw rows",
                "parameters": [
                    {"$ref": "#/parameters/store"}, {"$ref": "#/parameters/company"}, {"$ref": "#/parameters/workerType"},
                    {"$ref": "#/parameters/name"}, {"$ref": "#/parameters/period"}, {"$ref": "#/parameters/fromDate"},
                    {"$ref": "#/parameters/toDate"},
                    {"name": "groupBy", "in": "query", "type": "string", "enum": ["store", "company", "workerType", "date", "name"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Invalid filter"}}
            }
        },
        "/attendance/stats": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Headline counters",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/AttendanceStats"}}}
            }
        },
        "/attendance/filters": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Distinct stores, companies and worker types",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/attendance/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Download the filtered set",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/attendance/exports": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Store an export and return a signed download link",
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/attendance/exports/{token}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Download a stored export",
                "security": [],
                "parameters": [{"name": "token", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "File"}, "403": {"description": "Invalid or expired link"}}
            }
        },
        "/cleaning-requests": {
            "get": {
                "tags": ["Approvals"],
                "summary": "List cleaning requests or counts per status/store",
                "parameters": [
                    {"$ref": "#/parameters/store"}, {"$ref": "#/parameters/status"}, {"$ref": "#/parameters/category"},
                    {"$ref": "#/parameters/period"}, {"$ref": "#/parameters/page"}, {"$ref": "#/parameters/pageSize"},
                    {"name": "groupBy", "in": "query", "type": "string", "enum": ["status", "store"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/cleaning-requests/stats": {
            "get": {
                "tags": ["Approvals"],
                "summary": "Cleaning request counters",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ApprovalStats"}}}
            }
        },
        "/cleaning-requests/{id}/status": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Approve or reject a cleaning request",
                "parameters": [
                    {"$ref": "#/parameters/id"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "Applied", "schema": {"$ref": "#/definitions/ActionResult"}},
                    "400": {"description": "Status not allowed", "schema": {"$ref": "#/definitions/ActionResult"}},
                    "404": {"description": "Unknown request", "schema": {"$ref": "#/definitions/ActionResult"}},
                    "500": {"description": "Update failed", "schema": {"$ref": "#/definitions/ActionResult"}}
                }
            }
        },
        "/production-extras/{id}/status": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Approve or reject a production extra",
                "parameters": [
                    {"$ref": "#/parameters/id"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusUpdateRequest"}}
                ],
                "responses": {"200": {"description": "Applied", "schema": {"$ref": "#/definitions/ActionResult"}}}
            }
        },
        "/theft-incidents/{id}/status": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Review, reopen or close a theft incident",
                "parameters": [
                    {"$ref": "#/parameters/id"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusUpdateRequest"}}
                ],
                "responses": {"200": {"description": "Applied", "schema": {"$ref": "#/definitions/ActionResult"}}}
            }
        },
        "/security-schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List security schedules with employee rows",
                "parameters": [
                    {"$ref": "#/parameters/store"}, {"$ref": "#/parameters/status"}, {"$ref": "#/parameters/week"},
                    {"$ref": "#/parameters/page"}, {"$ref": "#/parameters/pageSize"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/thirdparty-schedules/stats": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Thirdparty schedule counters",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleStats"}}}
            }
        },
        "/feedback/stats": {
            "get": {
                "tags": ["Feedback"],
                "summary": "Feedback counters",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/FeedbackStats"}}}
            }
        }
    },
    "definitions": {
        "AttendanceStats": {
            "type": "object",
            "properties": {"Total": {"type": "integer"}, "Companies": {"type": "integer"}, "ThisMonth": {"type": "integer"}}
        },
        "ApprovalStats": {
            "type": "object",
            "properties": {"total": {"type": "integer"}, "pending": {"type": "integer"}, "today": {"type": "integer"}, "thisMonth": {"type": "integer"}}
        },
        "ScheduleStats": {
            "type": "object",
            "properties": {"total": {"type": "integer"}, "submitted": {"type": "integer"}, "draft": {"type": "integer"}, "activeThisWeek": {"type": "integer"}}
        },
        "FeedbackStats": {
            "type": "object",
            "properties": {"total": {"type": "integer"}, "averageRating": {"type": "number"}, "thisMonth": {"type": "integer"}}
        },
        "StatusUpdateRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string"}, "reviewNotes": {"type": "string"}}
        },
        "ActionResult": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "error": {"type": "string"}}
        },
        "Pagination": {
            "type": "object",
            "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"}}
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
