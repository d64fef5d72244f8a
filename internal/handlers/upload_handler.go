package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadHandler stores work-order attachments under
// <baseDir>/attachments/<governmentNumber>/<category>/ and hands back the
// relative path the work order persists.
type UploadHandler struct {
	BaseDir string
}

func NewUploadHandler(baseDir string) *UploadHandler {
	return &UploadHandler{BaseDir: baseDir}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	governmentNumber := sanitizeSegment(c.PostForm("government_number"))
	category := sanitizeSegment(c.PostForm("category"))
	if governmentNumber == "" || category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "government_number and category are required"})
		return
	}

	name := uuid.NewString() + filepath.Ext(file.Filename)
	relPath := filepath.Join("attachments", governmentNumber, category, name)
	dst := filepath.Join(h.BaseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
		return
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": filepath.ToSlash(relPath)})
}

type DeleteUploadInput struct {
	Path string `json:"path" binding:"required"`
}

func (h *UploadHandler) Delete(c *gin.Context) {
	var input DeleteUploadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	// Keep deletions inside the attachments tree.
	rel := filepath.Clean(input.Path)
	if strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) ||
		!strings.HasPrefix(rel, "attachments") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid path"})
		return
	}

	if err := os.Remove(filepath.Join(h.BaseDir, rel)); err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}

// sanitizeSegment strips anything that could climb out of the upload tree.
func sanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "..", "")
	s = strings.ReplaceAll(s, "/", "")
	s = strings.ReplaceAll(s, "\\", "")
	return s
}
