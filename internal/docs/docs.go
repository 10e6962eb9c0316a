// Package docs holds the OpenAPI document served at /api-docs/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/weather": {
            "get": {
                "description": "Retrieve current weather conditions, temperature, and alerts for a specific location using latitude and longitude",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Weather"
                ],
                "summary": "Get weather information by coordinates",
                "parameters": [
                    {
                        "type": "number",
                        "example": 40.7128,
                        "description": "Latitude of the location (-90 to 90)",
                        "name": "lat",
                        "in": "query",
                        "required": true
                    },
                    {
                        "type": "number",
                        "example": -74.006,
                        "description": "Longitude of the location (-180 to 180)",
                        "name": "lon",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Successful response with weather data",
                        "schema": {
                            "$ref": "#/definitions/WeatherResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid coordinates",
                        "schema": {
                            "$ref": "#/definitions/Error"
                        }
                    },
                    "429": {
                        "description": "Rate limited",
                        "schema": {
                            "$ref": "#/definitions/Error"
                        }
                    },
                    "500": {
                        "description": "Server error",
                        "schema": {
                            "$ref": "#/definitions/Error"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "message": {
                            "type": "string"
                        },
                        "status": {
                            "type": "integer"
                        }
                    }
                }
            }
        },
        "WeatherResponse": {
            "type": "object",
            "properties": {
                "location": {
                    "type": "object",
                    "properties": {
                        "latitude": {
                            "type": "number",
                            "example": 40.7128
                        },
                        "longitude": {
                            "type": "number",
                            "example": -74.006
                        },
                        "city": {
                            "type": "string",
                            "example": "New York"
                        },
                        "country": {
                            "type": "string",
                            "example": "US"
                        },
                        "state": {
                            "type": "string",
                            "example": "New York"
                        }
                    }
                },
                "current": {
                    "type": "object",
                    "properties": {
                        "condition": {
                            "type": "string",
                            "enum": [
                                "clear",
                                "cloudy",
                                "rain",
                                "thunderstorm",
                                "snow",
                                "foggy"
                            ],
                            "example": "clear"
                        },
                        "temperature": {
                            "type": "object",
                            "properties": {
                                "celsius": {
                                    "type": "integer",
                                    "example": 22
                                },
                                "fahrenheit": {
                                    "type": "integer",
                                    "example": 72
                                },
                                "category": {
                                    "type": "string",
                                    "enum": [
                                        "hot",
                                        "moderate",
                                        "cold"
                                    ],
                                    "example": "moderate"
                                }
                            }
                        },
                        "description": {
                            "type": "string",
                            "example": "clear sky"
                        },
                        "humidity": {
                            "type": "integer",
                            "example": 65
                        },
                        "windSpeed": {
                            "type": "number",
                            "example": 3.5
                        },
                        "pressure": {
                            "type": "number",
                            "example": 1012
                        },
                        "timestamp": {
                            "type": "string",
                            "format": "date-time"
                        }
                    }
                },
                "alerts": {
                    "type": "object",
                    "properties": {
                        "hasAlerts": {
                            "type": "boolean",
                            "example": false
                        },
                        "alerts": {
                            "type": "array",
                            "items": {
                                "type": "object"
                            }
                        }
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "OpenWeatherMap Service API",
	Description:      "A RESTful API service that provides weather information using OpenWeatherMap API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
