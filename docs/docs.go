// Package docs contains the generated Swagger specification for the API.
// Run `swag init` to regenerate after changing handler annotations.
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
                "tags": ["Authentication"],
                "summary": "Operator Login",
                "responses": {"200": {"description": "Login successful"}}
            }
        },
        "/auth/admin/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Admin Login",
                "responses": {"200": {"description": "Login successful"}}
            }
        },
        "/auth/captcha": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Generate Captcha",
                "responses": {"200": {"description": "Captcha generated"}}
            }
        },
        "/mango/webhook": {
            "post": {
                "tags": ["Webhooks"],
                "summary": "Telephony call event webhook",
                "responses": {"200": {"description": "Event processed"}}
            }
        },
        "/requests": {
            "post": {
                "tags": ["Requests"],
                "summary": "Create request",
                "responses": {"201": {"description": "Request created"}}
            }
        },
        "/requests/list": {
            "post": {
                "tags": ["Requests"],
                "summary": "List requests",
                "responses": {"200": {"description": "Requests retrieved"}}
            }
        },
        "/requests/{uuid}": {
            "get": {
                "tags": ["Requests"],
                "summary": "Get request",
                "responses": {"200": {"description": "Request retrieved"}}
            }
        },
        "/requests/{id}/status": {
            "patch": {
                "tags": ["Requests"],
                "summary": "Update request status",
                "responses": {"200": {"description": "Status updated"}}
            }
        },
        "/requests/{id}/master": {
            "patch": {
                "tags": ["Requests"],
                "summary": "Assign master",
                "responses": {"200": {"description": "Assignment updated"}}
            }
        },
        "/requests/{id}/photos": {
            "post": {
                "tags": ["Requests"],
                "summary": "Upload request photo",
                "responses": {"200": {"description": "Photo uploaded"}}
            }
        },
        "/recordings/start": {
            "post": {
                "tags": ["Recordings"],
                "summary": "Start recording service",
                "responses": {"200": {"description": "Service running"}}
            }
        },
        "/recordings/stop": {
            "post": {
                "tags": ["Recordings"],
                "summary": "Stop recording service",
                "responses": {"200": {"description": "Service stopped"}}
            }
        },
        "/recordings/status": {
            "get": {
                "tags": ["Recordings"],
                "summary": "Recording service status",
                "responses": {"200": {"description": "Service status"}}
            }
        },
        "/recordings/download": {
            "post": {
                "tags": ["Recordings"],
                "summary": "Poll mailbox once",
                "responses": {"200": {"description": "Mailbox polled"}}
            }
        },
        "/transactions": {
            "post": {
                "tags": ["Transactions"],
                "summary": "Record transaction",
                "responses": {"201": {"description": "Transaction recorded"}}
            }
        },
        "/transactions/list": {
            "post": {
                "tags": ["Transactions"],
                "summary": "List transactions",
                "responses": {"200": {"description": "Transactions retrieved"}}
            }
        },
        "/transactions/balance": {
            "post": {
                "tags": ["Transactions"],
                "summary": "Cash balance",
                "responses": {"200": {"description": "Balance calculated"}}
            }
        },
        "/reports/summary": {
            "post": {
                "tags": ["Reports"],
                "summary": "Report summary",
                "responses": {"200": {"description": "Report generated"}}
            }
        },
        "/reports/export": {
            "post": {
                "tags": ["Reports"],
                "summary": "Export report",
                "responses": {"200": {"description": "XLSX workbook"}}
            }
        },
        "/masters": {
            "get": {
                "tags": ["Masters"],
                "summary": "List masters",
                "responses": {"200": {"description": "Masters retrieved"}}
            },
            "post": {
                "tags": ["Masters"],
                "summary": "Create master",
                "responses": {"201": {"description": "Master created"}}
            }
        },
        "/campaigns": {
            "get": {
                "tags": ["Campaigns"],
                "summary": "List campaigns",
                "responses": {"200": {"description": "Campaigns retrieved"}}
            },
            "post": {
                "tags": ["Campaigns"],
                "summary": "Create campaign",
                "responses": {"201": {"description": "Campaign created"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{"https"},
	Title:            "CallDesk CRM API",
	Description:      "CRM backend for an appliance repair service: telephony webhooks, call recordings, requests, masters, cash and reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
