package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Auto-École API",
        "description": "Backend for driving school management: scheduling, courses, tests and messaging",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "AutoEcoles", "description": "Driving school registry"},
        {"name": "Moniteurs", "description": "Instructor roster"},
        {"name": "Clients", "description": "Learner registry"},
        {"name": "TimeSlots", "description": "Instructor time slots and calendar"},
        {"name": "Reservations", "description": "Slot booking lifecycle"},
        {"name": "Cours", "description": "Course catalogue and enrollments"},
        {"name": "Communications", "description": "Client support threads"},
        {"name": "TestsBlancs", "description": "Mock theory exams"},
        {"name": "Diagnostics", "description": "Progress diagnostics"},
        {"name": "Exports", "description": "Schedule exports"}
    ],
    "paths": {
        "/time-slots": {
            "post": {
                "tags": ["TimeSlots"],
                "summary": "Create a time slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTimeSlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid window or status"},
                    "409": {"description": "Overlapping slot"}
                }
            }
        },
        "/time-slots/moniteur/{moniteurId}": {
            "get": {
                "tags": ["TimeSlots"],
                "summary": "List an instructor's time slots",
                "parameters": [
                    {"name": "moniteurId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-slots/moniteur/{moniteurId}/range": {
            "get": {
                "tags": ["TimeSlots"],
                "summary": "List time slots inside a date range",
                "parameters": [
                    {"name": "moniteurId", "in": "path", "required": true, "type": "string"},
                    {"name": "startDate", "in": "query", "required": true, "type": "string"},
                    {"name": "endDate", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-slots/moniteur/{moniteurId}/calendar": {
            "get": {
                "tags": ["TimeSlots"],
                "summary": "Daily calendar projection",
                "parameters": [
                    {"name": "moniteurId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-slots/{id}/status": {
            "put": {
                "tags": ["TimeSlots"],
                "summary": "Update a time slot's status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Unknown status"}
                }
            }
        },
        "/time-slots/{id}": {
            "delete": {
                "tags": ["TimeSlots"],
                "summary": "Delete a time slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/reservations": {
            "post": {
                "tags": ["Reservations"],
                "summary": "Book a time slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReservationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Client or slot missing"},
                    "409": {"description": "Slot already reserved"}
                }
            }
        },
        "/reservations/{id}/accept": {
            "put": {
                "tags": ["Reservations"],
                "summary": "Accept a pending reservation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Not pending"}
                }
            }
        },
        "/reservations/{id}/cancel": {
            "put": {
                "tags": ["Reservations"],
                "summary": "Cancel a reservation",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Already cancelled"}
                }
            }
        },
        "/reservations/available-slots/{moniteurId}": {
            "get": {
                "tags": ["Reservations"],
                "summary": "Bookable slots for a day",
                "parameters": [
                    {"name": "moniteurId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/planning/{moniteurId}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export an instructor's schedule",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "moniteurId", "in": "path", "required": true, "type": "string"},
                    {"name": "startDate", "in": "query", "required": true, "type": "string"},
                    {"name": "endDate", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "required": false, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        }
    },
    "definitions": {
        "CreateTimeSlotRequest": {
            "type": "object",
            "required": ["moniteurId", "startTime", "endTime"],
            "properties": {
                "moniteurId": {"type": "string"},
                "startTime": {"type": "string", "format": "date-time"},
                "endTime": {"type": "string", "format": "date-time"},
                "status": {"type": "string", "enum": ["AVAILABLE", "BOOKED", "CANCELLED"]}
            }
        },
        "CreateReservationRequest": {
            "type": "object",
            "required": ["clientId", "timeSlotId"],
            "properties": {
                "clientId": {"type": "string"},
                "timeSlotId": {"type": "string"},
                "commentaire": {"type": "string"}
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
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"}
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
