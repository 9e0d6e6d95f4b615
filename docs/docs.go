// Package docs holds the generated swagger specification.
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
        "/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["datasets"],
                "summary": "Upload a dataset",
                "parameters": [
                    {"type": "file", "name": "file", "in": "formData", "description": "Dataset file (csv, xls, xlsx)", "required": true}
                ],
                "responses": {
                    "200": {"description": "Schema mapping and sample"},
                    "400": {"description": "Missing or disallowed file"},
                    "500": {"description": "Processing failure"}
                }
            }
        },
        "/process": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["visualizations"],
                "summary": "Process a visualization request",
                "parameters": [
                    {"name": "request", "in": "body", "description": "File reference and requirements", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Rendered chart, explanation, issues and score"},
                    "400": {"description": "Missing file path or requirements"},
                    "500": {"description": "Pipeline failure"}
                }
            }
        },
        "/visualizations/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["visualizations"],
                "summary": "Get a visualization",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "description": "Visualization ID", "required": true}
                ],
                "responses": {
                    "200": {"description": "Stored result"},
                    "404": {"description": "Unknown identifier"}
                }
            }
        },
        "/download/{id}": {
            "get": {
                "produces": ["text/html"],
                "tags": ["visualizations"],
                "summary": "Download a visualization",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "description": "Visualization ID", "required": true}
                ],
                "responses": {
                    "200": {"description": "Standalone HTML document"}
                }
            }
        },
        "/feedback": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["schema"],
                "summary": "Submit mapping feedback",
                "parameters": [
                    {"name": "feedback", "in": "body", "description": "Feedback", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "Feedback recorded"},
                    "400": {"description": "Invalid payload"}
                }
            }
        },
        "/runs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "List runs",
                "responses": {
                    "200": {"description": "Run history"},
                    "500": {"description": "Internal server error"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Data Visualization Pipeline API",
	Description:      "Upload tabular data, describe a visualization in free text and receive a rendered chart plus an automated quality review.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
