package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/momoworks/webos/internal/constants"
	"github.com/momoworks/webos/internal/model"
	"github.com/momoworks/webos/internal/storage"
)

type NoteHandler struct {
	repo storage.Repository
}

func NewNoteHandler(repo storage.Repository) *NoteHandler {
	return &NoteHandler{repo: repo}
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ownedNote loads the note in the noteID param when it belongs to the
// session user. Missing and foreign notes are indistinguishable to the
// caller.
func (h *NoteHandler) ownedNote(c *gin.Context) *model.Note {
	userID, ok := sessionUserID(c)
	if !ok {
		return nil
	}
	id, err := strconv.ParseUint(c.Param("noteID"), 10, 64)
	if err != nil {
		return nil
	}
	note, err := h.repo.GetNoteByID(uint(id))
	if err != nil || note.UserID != userID {
		return nil
	}
	return note
}

func (h *NoteHandler) Create(c *gin.Context) {
	userID, _ := sessionUserID(c)
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	note := &model.Note{Title: req.Title, Content: req.Content, UserID: userID}
	if err := h.repo.CreateNote(note); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *NoteHandler) List(c *gin.Context) {
	userID, _ := sessionUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}

	notes, total, err := h.repo.GetNotesByUser(userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notes": notes,
		"page":  page,
		"pages": int(math.Ceil(float64(total) / float64(limit))),
		"total": total,
	})
}

func (h *NoteHandler) Get(c *gin.Context) {
	note := h.ownedNote(c)
	if note == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrNoteNotFound})
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) Update(c *gin.Context) {
	note := h.ownedNote(c)
	if note == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrNoteNotFound})
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.Title != "" {
		note.Title = req.Title
	}
	if req.Content != "" {
		note.Content = req.Content
	}

	if err := h.repo.SaveNote(note); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	note := h.ownedNote(c)
	if note == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrNoteNotFound})
		return
	}

	if err := h.repo.DeleteNote(note.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Note deleted"})
}
