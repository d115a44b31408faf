package api

import (
	"boltfit/coaching-app/internal/domain"
	"boltfit/coaching-app/internal/service"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// --- DTOs ---

type SendMessageRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
	Body        string `json:"body" binding:"required"`
}

// --- Handlers ---

// SendMessage posts a message to the other half of a coaching relationship.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	senderID, ok := actingUserID(c)
	if !ok {
		return
	}
	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid recipient ID format.")
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), senderID, recipientID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotInConversation):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrMessageEmpty):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to send message.")
		}
		return
	}
	c.JSON(http.StatusCreated, message)
}

// GetConversation returns recent messages with the given user, oldest first.
// Optional query param "limit" caps the page size.
func (h *ChatHandler) GetConversation(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	otherID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	var limit int64
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err = strconv.ParseInt(limitStr, 10, 64)
		if err != nil || limit < 0 {
			abortWithError(c, http.StatusBadRequest, "Invalid limit.")
			return
		}
	}

	messages, err := h.chatService.GetConversation(c.Request.Context(), userID, otherID, limit)
	if err != nil {
		if errors.Is(err, service.ErrNotInConversation) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve conversation.")
		}
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	c.JSON(http.StatusOK, messages)
}

// MarkConversationRead stamps the other party's unread messages as read.
func (h *ChatHandler) MarkConversationRead(c *gin.Context) {
	userID, ok := actingUserID(c)
	if !ok {
		return
	}
	otherID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
		return
	}

	marked, err := h.chatService.MarkConversationRead(c.Request.Context(), userID, otherID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to mark conversation read.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": marked})
}
