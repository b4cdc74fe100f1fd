package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/momoworks/webos/internal/constants"
	"github.com/momoworks/webos/internal/logging"
	"github.com/momoworks/webos/internal/model"
	"github.com/momoworks/webos/internal/storage"
)

type FileHandler struct {
	repo      storage.Repository
	uploadDir string
}

func NewFileHandler(repo storage.Repository, uploadDir string) *FileHandler {
	return &FileHandler{repo: repo, uploadDir: uploadDir}
}

func (h *FileHandler) ownedFile(c *gin.Context) *model.StoredFile {
	userID, ok := sessionUserID(c)
	if !ok {
		return nil
	}
	id, err := strconv.ParseUint(c.Param("fileID"), 10, 64)
	if err != nil {
		return nil
	}
	f, err := h.repo.GetFileByID(uint(id))
	if err != nil || f.UserID != userID {
		return nil
	}
	return f
}

// Upload stores one multipart file on disk under a generated name and
// records its metadata.
func (h *FileHandler) Upload(c *gin.Context) {
	userID, _ := sessionUserID(c)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNoFile})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	stored := uuid.NewString() + filepath.Ext(fh.Filename)
	dest := filepath.Join(h.uploadDir, stored)
	if err := c.SaveUploadedFile(fh, dest); err != nil {
		logging.Error("failed to save uploaded file", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	f := &model.StoredFile{
		Filename:     stored,
		OriginalName: fh.Filename,
		Mimetype:     fh.Header.Get(constants.HeaderContentType),
		Size:         fh.Size,
		Path:         dest,
		UserID:       userID,
	}
	if err := h.repo.CreateFile(f); err != nil {
		_ = os.Remove(dest)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *FileHandler) List(c *gin.Context) {
	userID, _ := sessionUserID(c)
	files, err := h.repo.GetFilesByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, files)
}

func (h *FileHandler) Get(c *gin.Context) {
	f := h.ownedFile(c)
	if f == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrFileNotFound})
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FileHandler) Delete(c *gin.Context) {
	f := h.ownedFile(c)
	if f == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrFileNotFound})
		return
	}

	if _, err := os.Stat(f.Path); err == nil {
		if err := os.Remove(f.Path); err != nil {
			logging.Error("failed to remove file from disk", err, logging.Fields{"path": f.Path})
		}
	}

	if err := h.repo.DeleteFile(f.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "File deleted"})
}
