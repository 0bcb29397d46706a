package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func registerSwaggerRoutes(r chi.Router) {
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	r.Get("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	r.Get("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Accounts Ledger API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Accounts Ledger API",
    "version": "1.0.0"
  },
  "paths": {
    "/accounts": {
      "post": {
        "tags": [
          "accounts"
        ],
        "summary": "Open an account",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/CreateAccountRequest"
              }
            }
          }
        },
        "responses": {
          "201": {
            "description": "Account created"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      },
      "get": {
        "tags": [
          "accounts"
        ],
        "summary": "List all accounts",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "responses": {
          "200": {
            "description": "Accounts fetched"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/accounts/customer/{customerId}": {
      "get": {
        "tags": [
          "accounts"
        ],
        "summary": "List a customer's accounts",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "customerId",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Customer id"
          }
        ],
        "responses": {
          "200": {
            "description": "Accounts fetched"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/accounts/{id}": {
      "get": {
        "tags": [
          "accounts"
        ],
        "summary": "Get an account",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Account id"
          }
        ],
        "responses": {
          "200": {
            "description": "Account fetched"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      },
      "delete": {
        "tags": [
          "accounts"
        ],
        "summary": "Close an account",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Account id"
          }
        ],
        "responses": {
          "200": {
            "description": "Account closed"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/accounts/{id}/deposit": {
      "post": {
        "tags": [
          "accounts"
        ],
        "summary": "Deposit into an account",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Account id"
          },
          {
            "name": "Idempotency-Key",
            "in": "header",
            "required": false,
            "schema": {
              "type": "string",
              "maxLength": 128
            }
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/AmountRequest"
              }
            }
          }
        },
        "responses": {
          "201": {
            "description": "Movement recorded"
          },
          "409": {
            "description": "Duplicate or concurrent request"
          },
          "429": {
            "description": "Monthly movement limit exceeded"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/accounts/{id}/withdraw": {
      "post": {
        "tags": [
          "accounts"
        ],
        "summary": "Withdraw from an account",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Account id"
          },
          {
            "name": "Idempotency-Key",
            "in": "header",
            "required": false,
            "schema": {
              "type": "string",
              "maxLength": 128
            }
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/AmountRequest"
              }
            }
          }
        },
        "responses": {
          "201": {
            "description": "Movement recorded"
          },
          "409": {
            "description": "Duplicate or concurrent request"
          },
          "429": {
            "description": "Monthly movement limit exceeded"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/accounts/{id}/balance": {
      "get": {
        "tags": [
          "accounts"
        ],
        "summary": "Get the account balance",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Account id"
          }
        ],
        "responses": {
          "200": {
            "description": "Balance fetched"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/accounts/{id}/movements": {
      "get": {
        "tags": [
          "accounts"
        ],
        "summary": "List account movements, newest first",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Account id"
          },
          {
            "name": "from",
            "in": "query",
            "required": false,
            "schema": {
              "type": "string",
              "example": "2025-03-01"
            }
          },
          {
            "name": "to",
            "in": "query",
            "required": false,
            "schema": {
              "type": "string",
              "example": "2025-03-31"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "Movements fetched"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/reports/customers/{customerId}/daily-averages/current-month": {
      "get": {
        "tags": [
          "reports"
        ],
        "summary": "Daily average balance per product for the current month",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "customerId",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Customer id"
          }
        ],
        "responses": {
          "200": {
            "description": "Report generated"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/reports/commissions": {
      "get": {
        "tags": [
          "reports"
        ],
        "summary": "Commission totals per product and type",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "from",
            "in": "query",
            "required": false,
            "schema": {
              "type": "string",
              "example": "2025-03-01"
            }
          },
          {
            "name": "to",
            "in": "query",
            "required": false,
            "schema": {
              "type": "string",
              "example": "2025-03-31"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "Report generated"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/credit-cards": {
      "post": {
        "tags": [
          "credit-cards"
        ],
        "summary": "Issue a credit card",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/CreateCreditCardRequest"
              }
            }
          }
        },
        "responses": {
          "201": {
            "description": "Card created"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/credit-cards/customer/{customerId}": {
      "get": {
        "tags": [
          "credit-cards"
        ],
        "summary": "List a customer's cards",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "customerId",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Customer id"
          }
        ],
        "responses": {
          "200": {
            "description": "Cards fetched"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/credit-cards/{id}": {
      "get": {
        "tags": [
          "credit-cards"
        ],
        "summary": "Get a card",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Card id"
          }
        ],
        "responses": {
          "200": {
            "description": "Card fetched"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/credit-cards/{id}/charge": {
      "post": {
        "tags": [
          "credit-cards"
        ],
        "summary": "Charge a card",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Card id"
          },
          {
            "name": "Idempotency-Key",
            "in": "header",
            "required": false,
            "schema": {
              "type": "string",
              "maxLength": 128
            }
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/AmountRequest"
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "Charge recorded"
          },
          "409": {
            "description": "Duplicate or concurrent request"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/credit-cards/{id}/payment": {
      "post": {
        "tags": [
          "credit-cards"
        ],
        "summary": "Pay a card",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Card id"
          },
          {
            "name": "Idempotency-Key",
            "in": "header",
            "required": false,
            "schema": {
              "type": "string",
              "maxLength": 128
            }
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/AmountRequest"
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "Payment recorded"
          },
          "409": {
            "description": "Duplicate or concurrent request"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/loans": {
      "post": {
        "tags": [
          "loans"
        ],
        "summary": "Disburse a loan",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/CreateLoanRequest"
              }
            }
          }
        },
        "responses": {
          "201": {
            "description": "Loan created"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/loans/customer/{customerId}": {
      "get": {
        "tags": [
          "loans"
        ],
        "summary": "List a customer's loans",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "customerId",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Customer id"
          }
        ],
        "responses": {
          "200": {
            "description": "Loans fetched"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/loans/{id}": {
      "get": {
        "tags": [
          "loans"
        ],
        "summary": "Get a loan",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Loan id"
          }
        ],
        "responses": {
          "200": {
            "description": "Loan fetched"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/loans/{id}/payment": {
      "post": {
        "tags": [
          "loans"
        ],
        "summary": "Pay a loan",
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            },
            "description": "Loan id"
          },
          {
            "name": "Idempotency-Key",
            "in": "header",
            "required": false,
            "schema": {
              "type": "string",
              "maxLength": 128
            }
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/AmountRequest"
              }
            }
          }
        },
        "responses": {
          "200": {
            "description": "Payment recorded"
          },
          "409": {
            "description": "Duplicate or concurrent request"
          },
          "400": {
            "description": "Validation error"
          },
          "401": {
            "description": "Unauthorized"
          },
          "404": {
            "description": "Not found"
          },
          "422": {
            "description": "Business rule rejected"
          },
          "503": {
            "description": "Dependency unavailable"
          }
        }
      }
    },
    "/health": {
      "get": {
        "tags": [
          "ops"
        ],
        "summary": "Liveness probe",
        "responses": {
          "200": {
            "description": "OK"
          }
        }
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BasicAuth": {
        "type": "http",
        "scheme": "basic"
      }
    },
    "schemas": {
      "CreateAccountRequest": {
        "type": "object",
        "required": [
          "customerId",
          "type"
        ],
        "properties": {
          "customerId": {
            "type": "string"
          },
          "type": {
            "type": "string",
            "enum": [
              "SAVINGS",
              "CURRENT",
              "FIXED_TERM"
            ]
          },
          "accountNumber": {
            "type": "string",
            "pattern": "^[0-9]{6,20}$"
          },
          "holders": {
            "type": "array",
            "items": {
              "type": "string"
            }
          },
          "authorizedSigners": {
            "type": "array",
            "items": {
              "type": "string"
            }
          },
          "openingBalance": {
            "type": "string",
            "example": "100.00"
          },
          "maintenanceFee": {
            "type": "string",
            "example": "100.00"
          },
          "monthlyMovementLimit": {
            "type": "integer",
            "minimum": 1
          },
          "fixedDayAllowed": {
            "type": "integer",
            "minimum": 1,
            "maximum": 31
          }
        }
      },
      "AmountRequest": {
        "type": "object",
        "required": [
          "amount"
        ],
        "properties": {
          "amount": {
            "type": "string",
            "example": "100.00"
          },
          "reference": {
            "type": "string",
            "maxLength": 140
          }
        }
      },
      "CreateCreditCardRequest": {
        "type": "object",
        "required": [
          "cardNumber",
          "customerId",
          "type",
          "creditLimit"
        ],
        "properties": {
          "cardNumber": {
            "type": "string",
            "pattern": "^[0-9]{12,19}$"
          },
          "customerId": {
            "type": "string"
          },
          "type": {
            "type": "string",
            "enum": [
              "PERSONAL",
              "BUSINESS"
            ]
          },
          "creditLimit": {
            "type": "string",
            "example": "100.00"
          },
          "closingDay": {
            "type": "integer",
            "minimum": 1,
            "maximum": 31
          },
          "dueDay": {
            "type": "integer",
            "minimum": 1,
            "maximum": 31
          }
        }
      },
      "CreateLoanRequest": {
        "type": "object",
        "required": [
          "customerId",
          "type",
          "principal",
          "interestRateAnnual",
          "termMonths"
        ],
        "properties": {
          "customerId": {
            "type": "string"
          },
          "type": {
            "type": "string",
            "enum": [
              "PERSONAL",
              "BUSINESS"
            ]
          },
          "principal": {
            "type": "string",
            "example": "100.00"
          },
          "interestRateAnnual": {
            "type": "string",
            "example": "0.185"
          },
          "termMonths": {
            "type": "integer",
            "minimum": 1,
            "maximum": 480
          }
        }
      }
    }
  }
}`
