package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/momoworks/webos/internal/constants"
	"github.com/momoworks/webos/internal/model"
	"github.com/momoworks/webos/internal/storage"
)

const chatHistoryLimit = 50

type AIHandler struct {
	repo storage.Repository
}

func NewAIHandler(repo storage.Repository) *AIHandler {
	return &AIHandler{repo: repo}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat stores the exchange and returns a canned reply. The response is a
// placeholder until a real model integration lands.
func (h *AIHandler) Chat(c *gin.Context) {
	userID, _ := sessionUserID(c)

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMessageRequired})
		return
	}

	response := fmt.Sprintf("This is a placeholder AI response to: %q. Integrate your preferred AI service here.", req.Message)

	msg := &model.ChatMessage{UserID: userID, Message: req.Message, Response: response}
	if err := h.repo.CreateChatMessage(msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   msg.Message,
		"response":  msg.Response,
		"timestamp": msg.CreatedAt,
	})
}

// History returns the user's most recent exchanges, newest first.
func (h *AIHandler) History(c *gin.Context) {
	userID, _ := sessionUserID(c)
	history, err := h.repo.GetChatHistory(userID, chatHistoryLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, history)
}
