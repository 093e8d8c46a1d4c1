// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go
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
        "/api/auth/validate-session": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Validate session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.SessionValidity"}}}
            }
        },
        "/api/user/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "User login",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/user.LoginInput"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/user.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/user.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/user.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/user.Envelope"}}
                }
            }
        },
        "/api/user": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a new user",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/common.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ProblemDetails"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/api/user/{id}": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get user by ID",
                "parameters": [{"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/common.ProblemDetails"}}
                }
            }
        },
        "/api/ecpay/create": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ecpay"],
                "summary": "Build ECPay checkout form",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ecpay.FormResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/common.Response"}}
                }
            }
        },
        "/api/ecpay/notify": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["ecpay"],
                "summary": "ECPay notify probe",
                "responses": {"200": {"description": "1|OK", "schema": {"type": "string"}}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/plain"],
                "tags": ["ecpay"],
                "summary": "ECPay payment notification",
                "responses": {
                    "200": {"description": "1|OK", "schema": {"type": "string"}},
                    "400": {"description": "0|ErrorMessage", "schema": {"type": "string"}},
                    "404": {"description": "0|Order Not Found", "schema": {"type": "string"}}
                }
            }
        },
        "/api/ecpay/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ecpay"],
                "summary": "Payment status",
                "parameters": [{"type": "string", "description": "Order ID", "name": "orderId", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ecpay.StatusResponse"}}}
            }
        },
        "/api/payment/create-payment": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payment"],
                "summary": "Start plan checkout",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/payment.CheckoutResponse"}}}
            }
        },
        "/api/payment/payment-success": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payment"],
                "summary": "Confirm payment",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/payment.ConfirmationResponse"}}}
            }
        },
        "/api/orders/{id}": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get order",
                "parameters": [{"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.OrderResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/common.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.Response"}}
                }
            }
        },
        "/api/subscription-plans": {
            "get": {
                "produces": ["application/json"],
                "tags": ["subscriptions"],
                "summary": "List subscription plans",
                "parameters": [{"type": "string", "description": "Lens view ID", "name": "lensViewId", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/subscription.PlansResponse"}}}
            }
        },
        "/api/subscriptions": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["subscriptions"],
                "summary": "Create subscription",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/subscription.SubscriptionResponse"}}}
            }
        },
        "/api/subscriptions/status": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["subscriptions"],
                "summary": "Subscription status",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/subscriptions/cancel": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["subscriptions"],
                "summary": "Cancel subscription",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/subscription.CancelResponse"}}}
            }
        },
        "/api/subscriptions/renew": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["subscriptions"],
                "summary": "Renew subscription",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/subscription.RenewResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/subscription.RefusalResponse"}}
                }
            }
        }
    },
    "definitions": {
        "auth.SessionValidity": {
            "type": "object",
            "properties": {"valid": {"type": "boolean"}, "reason": {"type": "string"}}
        },
        "user.LoginInput": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "user.Envelope": {
            "type": "object",
            "properties": {"code": {"type": "integer"}, "msg": {"type": "string"}, "data": {}}
        },
        "common.Response": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "data": {}}
        },
        "common.ProblemDetails": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "instance": {"type": "string"},
                "errors": {}
            }
        },
        "ecpay.FormResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "apiUrl": {"type": "string"},
                "formData": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ecpay.StatusResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "paymentResult": {"type": "object"}, "error": {"type": "string"}}
        },
        "payment.CheckoutResponse": {"type": "object"},
        "payment.ConfirmationResponse": {"type": "object"},
        "order.OrderResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "order": {"type": "object"}}
        },
        "subscription.PlansResponse": {"type": "object"},
        "subscription.SubscriptionResponse": {"type": "object"},
        "subscription.CancelResponse": {"type": "object"},
        "subscription.RenewResponse": {"type": "object"},
        "subscription.RefusalResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "reason": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "\"Enter your Bearer token in the format: ` + "`" + `Bearer {token}` + "`" + `\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Astro API",
	Description:      "Subscriptions, ECPay checkout and login sessions for the astrology lens app",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
