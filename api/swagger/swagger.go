package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Kokurikuler API",
        "description": "Daily co-curricular journal, dual validation, monitoring and character missions.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Journals",
            "description": "Daily habit journal and dual validation"
        },
        {
            "name": "Monitoring",
            "description": "Class fill-rate views"
        },
        {
            "name": "Contributor",
            "description": "Character points, missions and coaching"
        },
        {
            "name": "Students",
            "description": "Mission board and XP"
        },
        {
            "name": "Parents",
            "description": "Parent portal"
        },
        {
            "name": "Teachers",
            "description": "Homeroom recap and character reports"
        }
    ],
    "paths": {
        "/journals": {
            "post": {
                "tags": [
                    "Journals"
                ],
                "summary": "Submit or update a daily journal",
                "consumes": [
                    "multipart/form-data"
                ],
                "parameters": [
                    {
                        "name": "date",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "habits",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "photo",
                        "in": "formData",
                        "type": "file",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid payload"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/journals/my": {
            "get": {
                "tags": [
                    "Journals"
                ],
                "summary": "List the caller's journal entries",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/journals/class": {
            "get": {
                "tags": [
                    "Journals"
                ],
                "summary": "Class roster with entries for one date",
                "parameters": [
                    {
                        "name": "kelas",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "tanggal",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/journals/validate": {
            "post": {
                "tags": [
                    "Journals"
                ],
                "summary": "Approve or reject a journal entry",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ValidateJournalRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Caller is not scoped to the student"
                    },
                    "404": {
                        "description": "Entry not found"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/journals/photo/{token}": {
            "get": {
                "tags": [
                    "Journals"
                ],
                "summary": "Download a journal photo",
                "parameters": [
                    {
                        "name": "token",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Photo bytes"
                    },
                    "403": {
                        "description": "Invalid or expired token"
                    }
                }
            }
        },
        "/contributor/monitoring": {
            "get": {
                "tags": [
                    "Monitoring"
                ],
                "summary": "Monthly fill-rate heat-map",
                "parameters": [
                    {
                        "name": "kelas",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "month",
                        "in": "query",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "year",
                        "in": "query",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/contributor/monitoring/detail": {
            "get": {
                "tags": [
                    "Monitoring"
                ],
                "summary": "Per-student state for one date",
                "parameters": [
                    {
                        "name": "kelas",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "date",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/contributor/search": {
            "get": {
                "tags": [
                    "Contributor"
                ],
                "summary": "Search students",
                "parameters": [
                    {
                        "name": "query",
                        "in": "query",
                        "type": "string",
                        "required": false
                    },
                    {
                        "name": "kelas",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/contributor/record": {
            "post": {
                "tags": [
                    "Contributor"
                ],
                "summary": "Record character points",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateRecordRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/contributor/history": {
            "get": {
                "tags": [
                    "Contributor"
                ],
                "summary": "Latest records written by the caller",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/contributor/task": {
            "post": {
                "tags": [
                    "Contributor"
                ],
                "summary": "Distribute a mission",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateMissionRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/contributor/task/report": {
            "get": {
                "tags": [
                    "Contributor"
                ],
                "summary": "Completions of a mission",
                "parameters": [
                    {
                        "name": "task_id",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/contributor/ai-strategy": {
            "post": {
                "tags": [
                    "Contributor"
                ],
                "summary": "Generate a coaching strategy",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/StrategyRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "503": {
                        "description": "Generator not configured"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/student/missions": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "Open missions",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/student/missions/complete": {
            "post": {
                "tags": [
                    "Students"
                ],
                "summary": "Complete a mission",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CompleteMissionRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Already completed"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/student/progress": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "XP, level and title",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/parent/link": {
            "post": {
                "tags": [
                    "Parents"
                ],
                "summary": "Link a child by student number",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LinkChildRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/parent/children": {
            "get": {
                "tags": [
                    "Parents"
                ],
                "summary": "Linked children with today's state",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/parent/remind": {
            "post": {
                "tags": [
                    "Parents"
                ],
                "summary": "Send a journal reminder",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RemindChildRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "503": {
                        "description": "Delivery failed"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/parent/child/{student_id}": {
            "get": {
                "tags": [
                    "Parents"
                ],
                "summary": "Profile of a linked child",
                "parameters": [
                    {
                        "name": "student_id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/teacher/preview": {
            "get": {
                "tags": [
                    "Teachers"
                ],
                "summary": "Homeroom journal matrix",
                "parameters": [
                    {
                        "name": "start_date",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "end_date",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/teacher/preview/export": {
            "get": {
                "tags": [
                    "Teachers"
                ],
                "summary": "Download the homeroom matrix",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "start_date",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "end_date",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "required": false
                    }
                ],
                "responses": {
                    "200": {
                        "description": "CSV or PDF file"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/teacher/report-data": {
            "post": {
                "tags": [
                    "Teachers"
                ],
                "summary": "Character report data",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ReportRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/teacher/report-data/pdf": {
            "get": {
                "tags": [
                    "Teachers"
                ],
                "summary": "Character report PDF",
                "produces": [
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "student_id",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "start_date",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "end_date",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "PDF file"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "ValidateJournalRequest": {
            "type": "object",
            "properties": {
                "entry_id": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "approved",
                        "rejected"
                    ]
                },
                "note": {
                    "type": "string"
                },
                "actor_role": {
                    "type": "string",
                    "enum": [
                        "parent",
                        "teacher"
                    ]
                }
            },
            "required": [
                "entry_id",
                "status"
            ]
        },
        "CreateRecordRequest": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "category": {
                    "type": "string",
                    "enum": [
                        "achievement",
                        "violation",
                        "extracurricular"
                    ]
                },
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "points": {
                    "type": "integer"
                }
            },
            "required": [
                "student_id",
                "category",
                "title"
            ]
        },
        "CreateMissionRequest": {
            "type": "object",
            "properties": {
                "target_type": {
                    "type": "string",
                    "enum": [
                        "class",
                        "individual"
                    ]
                },
                "target_id": {
                    "type": "string"
                },
                "habit_category": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "body": {
                    "type": "string"
                },
                "assigned_date": {
                    "type": "string"
                }
            },
            "required": [
                "target_type",
                "target_id",
                "title"
            ]
        },
        "CompleteMissionRequest": {
            "type": "object",
            "properties": {
                "mission_id": {
                    "type": "string"
                },
                "reflection": {
                    "type": "string"
                }
            },
            "required": [
                "mission_id"
            ]
        },
        "StrategyRequest": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                }
            },
            "required": [
                "student_id",
                "date"
            ]
        },
        "LinkChildRequest": {
            "type": "object",
            "properties": {
                "student_number": {
                    "type": "string"
                }
            },
            "required": [
                "student_number"
            ]
        },
        "RemindChildRequest": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                }
            },
            "required": [
                "student_id"
            ]
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "start_date": {
                    "type": "string"
                },
                "end_date": {
                    "type": "string"
                }
            },
            "required": [
                "student_id",
                "start_date",
                "end_date"
            ]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                }
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
