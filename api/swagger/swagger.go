package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sekolah Rekod API",
        "description": "Administrative records service backed by a hosted spreadsheet",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Operator login"},
        {"name": "Students", "description": "Student roster keyed by MyKid number"},
        {"name": "Income", "description": "Guardian income records keyed by MyKid number"},
        {"name": "Attendance", "description": "Append-only daily roll-call journal"},
        {"name": "Reports", "description": "Bulk profile-book generation"},
        {"name": "Audit", "description": "Optional write-action trail"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate operator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Create or update a student by MyKid number",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Existing row overwritten", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "New row appended", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Record store write failed"},
                    "503": {"description": "Record store unreachable"}
                }
            }
        },
        "/students/{mykid}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student by MyKid number",
                "parameters": [
                    {"name": "mykid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/students/{mykid}/profile.pdf": {
            "get": {
                "tags": ["Students"],
                "summary": "Download one student's profile as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "mykid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        },
        "/students/export": {
            "get": {
                "tags": ["Students"],
                "summary": "Export the roster",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/income": {
            "get": {
                "tags": ["Income"],
                "summary": "List income records",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Income"],
                "summary": "Create or update an income record by MyKid number",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertIncomeRequest"}}
                ],
                "responses": {
                    "200": {"description": "Existing row overwritten", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "New row appended", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/income/{mykid}": {
            "get": {
                "tags": ["Income"],
                "summary": "Get income record by MyKid number",
                "parameters": [
                    {"name": "mykid", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/income/export": {
            "get": {
                "tags": ["Income"],
                "summary": "Export income records",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List journal entries",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/rollcall": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Submit one class's daily roll call",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RollCallRequest"}}
                ],
                "responses": {
                    "201": {"description": "Journal rows appended", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/summary": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Summarize one day's roll call",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "class", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Export journal entries",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/reports/profiles": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a bulk profile-book PDF",
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Job queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/profiles/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Get report job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a generated report by signed token",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        },
        "/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "List recent audit entries",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Audit trail not enabled"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "UpsertStudentRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "class": {"type": "string"},
                "mykid": {"type": "string"},
                "gender": {"type": "string"},
                "guardian_name": {"type": "string"},
                "guardian_phone": {"type": "string"},
                "address": {"type": "string"}
            },
            "required": ["name", "class", "mykid"]
        },
        "UpsertIncomeRequest": {
            "type": "object",
            "properties": {
                "mykid": {"type": "string"},
                "student_name": {"type": "string"},
                "father_name": {"type": "string"},
                "father_income": {"type": "string"},
                "mother_name": {"type": "string"},
                "mother_income": {"type": "string"},
                "guardian_income": {"type": "string"},
                "dependents": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["mykid", "student_name"]
        },
        "RollCallEntry": {
            "type": "object",
            "properties": {
                "student_name": {"type": "string"},
                "mykid": {"type": "string"},
                "status": {"type": "string", "enum": ["present", "sick", "family_leave", "absent", "late", "school_rep", "other"]},
                "remark": {"type": "string"}
            },
            "required": ["student_name", "status"]
        },
        "RollCallRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "class": {"type": "string"},
                "entries": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/RollCallEntry"}
                }
            },
            "required": ["date", "class", "entries"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
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
