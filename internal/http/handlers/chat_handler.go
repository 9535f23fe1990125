// Chat HTTP handlers.
//
// This file exposes REST endpoints for assistant conversations:
//   - POST /chat/sessions                  (open a session)
//   - GET  /chat/sessions/{id}/messages    (replay stored messages)
//   - POST /chat/sessions/{id}/messages    (send a message, stream the reply)
//
// The send endpoint streams Server-Sent Events: each assistant event is
// written as a `data: <json>` frame and flushed immediately, ending with a
// single `done` event. Session existence is checked before the stream is
// committed so an unknown session still gets a regular 404 envelope.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fullydoved/mealz/internal/assistant"
	"github.com/fullydoved/mealz/internal/http/middleware"
)

//
// DTOs
//

// CreateChatSessionRequest is the JSON payload for opening a chat session.
type CreateChatSessionRequest struct {
	// ContextType is one of "general", "week_plan", "recipe"; defaults to "general".
	ContextType string `json:"context_type" example:"week_plan"`
	// WeekPlanID anchors the session to a week plan; it must exist.
	WeekPlanID *uint `json:"week_plan_id,omitempty" example:"4"`
	// RecipeID anchors the session to a recipe; it must exist.
	RecipeID *uint `json:"recipe_id,omitempty" example:"7"`
}

// PostChatMessageRequest is the JSON payload for sending a user message.
type PostChatMessageRequest struct {
	// Content is the user prompt. It must be non-blank.
	Content string `json:"content" binding:"required,min=1" example:"Plan something easy for Tuesday dinner"`
}

//
// Handlers
//

// CreateChatSession godoc
// @ID          createChatSession
// @Summary     Open a chat session
// @Description Opens an assistant conversation, optionally anchored to a week plan or a recipe that supplies extra context.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateChatSessionRequest  true  "Create session payload"
//
// @Success     201  {object}  domain.ChatSession
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Anchored plan or recipe not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/sessions [post]
func (h *Handlers) CreateChatSession(c *gin.Context) {
	var req CreateChatSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	sess, err := h.chatSvc.CreateSession(c.Request.Context(), req.ContextType, req.WeekPlanID, req.RecipeID)
	if err != nil {
		failFromService(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, sess)
}

// ListChatMessages godoc
// @ID          listChatMessages
// @Summary     List session messages
// @Description Returns all stored messages of a session in replay order.
// @Tags        Chat
// @Produce     json
//
// @Param       id  path  int  true  "Chat session ID"  example(2)
//
// @Success     200  {array}   domain.ChatMessage
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Session not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/sessions/{id}/messages [get]
func (h *Handlers) ListChatMessages(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	msgs, err := h.chatSvc.ListMessages(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, msgs)
}

// PostChatMessage godoc
// @ID          postChatMessage
// @Summary     Send a message and stream the reply
// @Description Persists the user message and streams the assistant turn as Server-Sent Events. Frames carry text chunks, tool progress, and a terminal done event.
// @Tags        Chat
// @Accept      json
// @Produce     text/event-stream
//
// @Param       id    path  int                                true  "Chat session ID"  example(2)
// @Param       body  body  handlers.PostChatMessageRequest    true  "User message payload"
//
// @Success     200  {string}  string  "SSE stream of assistant events"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Session not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/sessions/{id}/messages [post]
func (h *Handlers) PostChatMessage(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req PostChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	ctx := c.Request.Context()

	// Resolve the session before committing to a stream so an unknown ID
	// still produces a regular 404 envelope.
	if _, err := h.chatSvc.GetSession(ctx, id); err != nil {
		failFromService(c, err, ErrCodeChatFailed)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeaderNow()

	emit := func(ev assistant.Event) {
		b, err := json.Marshal(ev)
		if err != nil {
			return
		}
		c.Writer.WriteString("data: ")
		c.Writer.Write(b)
		c.Writer.WriteString("\n\n")
		c.Writer.Flush()
	}

	// Failures are already surfaced to the client as error events inside
	// the stream; here they only need logging.
	if err := h.runner.Run(ctx, id, req.Content, emit); err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Uint("session_id", id).Msg("assistant turn failed")
	}
}
