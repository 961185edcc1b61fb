// Package docs registers the OpenAPI document served at /swagger.
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
        "/catalogs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalogs"],
                "summary": "List permitted enumeration values",
                "responses": {
                    "200": {"description": "Permitted values", "schema": {"$ref": "#/definitions/models.Catalog"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "All dependencies healthy", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "A dependency is unreachable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/employees": {
            "get": {
                "produces": ["application/json"],
                "tags": ["employees"],
                "summary": "List employees",
                "parameters": [
                    {"type": "string", "description": "Exact department name", "name": "department", "in": "query"},
                    {"type": "string", "description": "Exact job title", "name": "title", "in": "query"},
                    {"type": "string", "description": "incomplete, vehicle, dependents, overdue or due_soon", "name": "filter", "in": "query"},
                    {"type": "integer", "description": "Days ahead due_soon looks at, 30 by default", "name": "due_within", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Matching employees", "schema": {"$ref": "#/definitions/handlers.EmployeeListResponse"}},
                    "400": {"description": "Unknown filter or bad window", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["employees"],
                "summary": "Enroll an employee",
                "parameters": [
                    {"description": "Personal information", "name": "data", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.PersonalInfoData"}}
                ],
                "responses": {
                    "201": {"description": "Employee created", "schema": {"$ref": "#/definitions/handlers.EmployeeResponse"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Employee already exists", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/employees/{document}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["employees"],
                "summary": "Get an employee",
                "parameters": [
                    {"type": "string", "description": "Employee document number", "name": "document", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Employee found", "schema": {"$ref": "#/definitions/handlers.EmployeeResponse"}},
                    "404": {"description": "Employee not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/employees/{document}/steps/{step}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["employees"],
                "summary": "Update one step of the employee record",
                "parameters": [
                    {"type": "string", "description": "Employee document number", "name": "document", "in": "path", "required": true},
                    {"type": "string", "description": "Step number or name", "name": "step", "in": "path", "required": true},
                    {"description": "Section payload", "name": "data", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Step applied", "schema": {"$ref": "#/definitions/services.StepResult"}},
                    "400": {"description": "Unknown step or malformed body", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Employee not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Concurrent modification", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/employees/{document}/dependents/{dependent}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["employees"],
                "summary": "Remove a dependent",
                "parameters": [
                    {"type": "string", "description": "Employee document number", "name": "document", "in": "path", "required": true},
                    {"type": "string", "description": "Dependent document number", "name": "dependent", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Dependent removed", "schema": {"$ref": "#/definitions/services.StepResult"}},
                    "404": {"description": "Employee not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/employees/{document}/progress": {
            "get": {
                "produces": ["application/json"],
                "tags": ["employees"],
                "summary": "Get completion progress",
                "parameters": [
                    {"type": "string", "description": "Employee document number", "name": "document", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Progress", "schema": {"$ref": "#/definitions/handlers.ProgressResponse"}},
                    "404": {"description": "Employee not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/employees/{document}/validate": {
            "post": {
                "produces": ["application/json"],
                "tags": ["employees"],
                "summary": "Validate a full update",
                "parameters": [
                    {"type": "string", "description": "Employee document number", "name": "document", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Validation result", "schema": {"$ref": "#/definitions/handlers.ValidationResponse"}},
                    "404": {"description": "Employee not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/employees/{document}/conflict-declaration": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["employees"],
                "summary": "Declare conflicts of interest",
                "parameters": [
                    {"type": "string", "description": "Employee document number", "name": "document", "in": "path", "required": true},
                    {"description": "Conflict-of-interest declaration", "name": "data", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ConflictDeclarationData"}}
                ],
                "responses": {
                    "200": {"description": "Declaration stored", "schema": {"$ref": "#/definitions/handlers.EmployeeResponse"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Employee not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Concurrent modification", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/update-control/statistics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["update-control"],
                "summary": "Annual update statistics",
                "parameters": [
                    {"type": "integer", "description": "Days ahead due_soon looks at, 30 by default", "name": "due_within", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Statistics", "schema": {"$ref": "#/definitions/services.UpdateStatistics"}},
                    "400": {"description": "Bad window", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ConflictPersonData": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "relationship": {"type": "string"},
                "interested_party": {"type": "string", "example": "SUPPLIER"}
            }
        },
        "models.ConflictDeclarationData": {
            "type": "object",
            "properties": {
                "has_conflict": {"type": "boolean"},
                "persons": {"type": "array", "items": {"$ref": "#/definitions/models.ConflictPersonData"}}
            }
        },
        "models.ValidationError": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "field": {"type": "string"},
                "message": {"type": "string"},
                "allowed": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.PersonalInfoData": {
            "type": "object",
            "properties": {
                "document_number": {"type": "string"},
                "full_name": {"type": "string"},
                "birth_date": {"type": "string", "example": "1990-03-21"},
                "birth_city": {"type": "string"},
                "birth_country": {"type": "string"},
                "id_issue_city": {"type": "string"},
                "job_title": {"type": "string"},
                "department": {"type": "string"},
                "marital_status": {"type": "string"},
                "blood_type": {"type": "string"}
            }
        },
        "models.Catalog": {
            "type": "object",
            "properties": {
                "blood_types": {"type": "array", "items": {"type": "string"}},
                "marital_statuses": {"type": "array", "items": {"type": "string"}},
                "relationship_kinds": {"type": "array", "items": {"type": "string"}},
                "vehicle_types": {"type": "array", "items": {"type": "string"}},
                "housing_types": {"type": "array", "items": {"type": "string"}},
                "acquisition_types": {"type": "array", "items": {"type": "string"}},
                "education_levels": {"type": "array", "items": {"type": "string"}},
                "interested_party_types": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/models.ValidationError"}}
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "timestamp": {"type": "string"},
                "services": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "handlers.EmployeeResponse": {
            "type": "object",
            "properties": {
                "employee": {"type": "object"},
                "progress": {"type": "integer"},
                "complete": {"type": "boolean"},
                "completed_steps": {"type": "array", "items": {"type": "string"}},
                "update_control": {"$ref": "#/definitions/handlers.UpdateControlResponse"}
            }
        },
        "handlers.UpdateControlResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "CURRENT"},
                "needs_update": {"type": "boolean"},
                "next_update_due": {"type": "string"},
                "days_until_update": {"type": "integer"}
            }
        },
        "handlers.EmployeeListResponse": {
            "type": "object",
            "properties": {
                "employees": {"type": "array", "items": {"$ref": "#/definitions/handlers.EmployeeResponse"}},
                "total": {"type": "integer"}
            }
        },
        "handlers.ProgressResponse": {
            "type": "object",
            "properties": {
                "document_number": {"type": "string"},
                "progress": {"type": "integer"},
                "complete": {"type": "boolean"},
                "completed_steps": {"type": "array", "items": {"type": "string"}},
                "pending_steps": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.ValidationResponse": {
            "type": "object",
            "properties": {
                "document_number": {"type": "string"},
                "valid": {"type": "boolean"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/models.ValidationError"}}
            }
        },
        "services.StepResult": {
            "type": "object",
            "properties": {
                "document_number": {"type": "string"},
                "step": {"type": "integer"},
                "step_name": {"type": "string"},
                "progress": {"type": "integer"},
                "complete": {"type": "boolean"},
                "version": {"type": "integer"},
                "warnings": {"type": "array", "items": {"$ref": "#/definitions/models.ValidationError"}}
            }
        },
        "services.UpdateStatistics": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "current": {"type": "integer"},
                "pending": {"type": "integer"},
                "overdue": {"type": "integer"},
                "needs_update": {"type": "integer"},
                "due_soon": {"type": "integer"},
                "due_soon_days": {"type": "integer"},
                "current_percentage": {"type": "number"},
                "overdue_percentage": {"type": "number"},
                "generated_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Employee Data API",
	Description:      "API for collecting and validating employee declaration data in six independently updatable steps.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
