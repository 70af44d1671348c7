// Package docs registers the OpenAPI document served by the Swagger UI route.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/rooms": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Rooms"],
                "summary": "List the caller's rooms",
                "operationId": "listRooms",
                "responses": {
                    "200": {"description": "OK"},
                    "304": {"description": "Not Modified"},
                    "401": {"description": "Unauthorized"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Rooms"],
                "summary": "Create a chat room",
                "operationId": "createRoom",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/rooms/public": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Rooms"],
                "summary": "List public rooms",
                "operationId": "listPublicRooms",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/rooms/join": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Rooms"],
                "summary": "Join a room with an invitation token",
                "operationId": "joinRoom",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid or expired token"}
                }
            }
        },
        "/rooms/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Rooms"],
                "summary": "Fetch one room",
                "operationId": "getRoom",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Room not found"}}
            },
            "put": {
                "consumes": ["application/json"],
                "tags": ["Rooms"],
                "summary": "Update a room",
                "operationId": "updateRoom",
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Not a moderator"}}
            },
            "delete": {
                "tags": ["Rooms"],
                "summary": "Delete a room",
                "operationId": "deleteRoom",
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Not a moderator"}}
            }
        },
        "/rooms/{id}/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Rooms"],
                "summary": "List room members",
                "operationId": "listRoomUsers",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not a member"}}
            },
            "post": {
                "consumes": ["application/json"],
                "tags": ["Rooms"],
                "summary": "Add a member to a room",
                "operationId": "addRoomUser",
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Not a member"}}
            }
        },
        "/rooms/{id}/users/{userID}": {
            "delete": {
                "tags": ["Rooms"],
                "summary": "Remove a member from a room",
                "operationId": "removeRoomUser",
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}
            }
        },
        "/rooms/{id}/messages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Rooms"],
                "summary": "List room messages",
                "operationId": "listRoomMessages",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not a member"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Rooms"],
                "summary": "Post a message to a room",
                "operationId": "sendRoomMessage",
                "responses": {"201": {"description": "Created"}, "403": {"description": "Not a member"}}
            }
        },
        "/rooms/{id}/invitations": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["Rooms"],
                "summary": "Invite a user by email",
                "operationId": "inviteToRoom",
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Already a member"},
                    "502": {"description": "Email delivery failed"}
                }
            }
        },
        "/conversations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "List the caller's conversations",
                "operationId": "listConversations",
                "responses": {"200": {"description": "OK"}, "304": {"description": "Not Modified"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "Open a conversation with another user",
                "operationId": "startConversation",
                "responses": {"200": {"description": "OK"}, "404": {"description": "User not found"}}
            }
        },
        "/conversations/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "Fetch one conversation",
                "operationId": "getConversation",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not a participant"}}
            }
        },
        "/conversations/{id}/messages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "List direct messages",
                "operationId": "listDirectMessages",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not a participant"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "Send a direct message",
                "operationId": "sendDirectMessage",
                "responses": {"201": {"description": "Created"}, "403": {"description": "Not a participant"}}
            }
        },
        "/conversations/{id}/read": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "Mark a conversation as read",
                "operationId": "markConversationRead",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List contactable users",
                "operationId": "listContactableUsers",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Notifications"],
                "summary": "List notifications",
                "operationId": "listNotifications",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications/unread-count": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Notifications"],
                "summary": "Count unread notifications",
                "operationId": "unreadNotificationCount",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications/read-all": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Notifications"],
                "summary": "Mark all notifications as read",
                "operationId": "markAllNotificationsRead",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications/{id}": {
            "delete": {
                "tags": ["Notifications"],
                "summary": "Delete a notification",
                "operationId": "deleteNotification",
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Notification not found"}}
            }
        },
        "/notifications/{id}/read": {
            "post": {
                "tags": ["Notifications"],
                "summary": "Mark a notification as read",
                "operationId": "markNotificationRead",
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Notification not found"}}
            }
        },
        "/ai/ask": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["AI"],
                "summary": "Ask the AI assistant",
                "operationId": "ask",
                "responses": {"200": {"description": "OK"}, "502": {"description": "Assistant unavailable"}}
            }
        },
        "/ai/conversations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["AI"],
                "summary": "List assistant conversations",
                "operationId": "listAIConversations",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ai/conversations/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["AI"],
                "summary": "Fetch one assistant conversation",
                "operationId": "getAIConversation",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Conversation not found"}}
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
	Title:            "Team Chat API",
	Description:      "Group chat rooms, direct messages, notifications, and an AI assistant.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
