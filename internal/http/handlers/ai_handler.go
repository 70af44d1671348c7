// AI assistant HTTP handlers.
//
// This file exposes REST endpoints for assistant conversations:
//   - POST /ai/ask                (send a prompt, get a reply)
//   - GET  /ai/conversations      (list the caller's assistant conversations)
//   - GET  /ai/conversations/{id} (fetch one conversation with its messages)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamchat/go-team-chat/internal/domain"
)

//
// DTOs
//

// AskRequest is the JSON payload for sending a prompt to the assistant.
type AskRequest struct {
	// Prompt is the user's message to the assistant.
	Prompt string `json:"prompt" binding:"required" example:"How do I reset a forgotten password?"`
	// ConversationID continues an existing conversation when non-zero.
	ConversationID int64 `json:"conversation_id" example:"5"`
	// TopicID optionally selects a topic whose content primes the assistant.
	TopicID int64 `json:"topic_id" example:"0"`
}

// AIConversationsResponse wraps a list of assistant conversations.
type AIConversationsResponse struct {
	Conversations []domain.AIConversation `json:"conversations"`
}

// AIConversationResponse carries one assistant conversation and its messages
// in chronological order.
type AIConversationResponse struct {
	Conversation domain.AIConversation `json:"conversation"`
	Messages     []domain.AIMessage    `json:"messages"`
}

//
// Handlers
//

// Ask godoc
// @ID          ask
// @Summary     Ask the AI assistant
// @Description Sends a prompt to the assistant and returns the reply. Without a conversation_id a new conversation is created and titled from the prompt; with one, the prior exchange is replayed as context.
// @Tags        AI
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       body       body    handlers.AskRequest  true  "Prompt payload"
//
// @Success     200  {object} services.AIExchange
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     502  {object} handlers.ErrorResponse "Assistant unavailable"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ai/ask [post]
func (h *Handlers) Ask(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	exchange, err := h.aiSvc.Ask(c.Request.Context(), uid, req.ConversationID, req.TopicID, req.Prompt)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, exchange)
}

// ListAIConversations godoc
// @ID          listAIConversations
// @Summary     List assistant conversations
// @Description Returns the caller's assistant conversations, most recently active first.
// @Tags        AI
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
//
// @Success     200  {object} handlers.AIConversationsResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ai/conversations [get]
func (h *Handlers) ListAIConversations(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	convs, err := h.aiSvc.UserConversations(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, AIConversationsResponse{Conversations: convs})
}

// GetAIConversation godoc
// @ID          getAIConversation
// @Summary     Fetch one assistant conversation
// @Description Returns one assistant conversation owned by the caller, with its messages in chronological order.
// @Tags        AI
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Conversation ID"        example(5)
//
// @Success     200  {object} handlers.AIConversationResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ai/conversations/{id} [get]
func (h *Handlers) GetAIConversation(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	id, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	conv, msgs, err := h.aiSvc.Conversation(c.Request.Context(), id, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, AIConversationResponse{Conversation: *conv, Messages: msgs})
}
