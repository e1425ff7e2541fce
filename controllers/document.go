package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Bobomurod2004/UzSWLU/middleware"
	"github.com/Bobomurod2004/UzSWLU/services"
	"github.com/Bobomurod2004/UzSWLU/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func uploadRoot() string {
	root := os.Getenv("UPLOAD_PATH")
	if root == "" {
		root = "./uploads"
	}
	return root
}

// storeUploadedFile saves a multipart PDF under UPLOAD_PATH/<subdir> with a
// uuid name and returns the stored path plus the original filename.
func storeUploadedFile(c *gin.Context, field, subdir string) (string, string, string) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", "", "file is required"
	}
	if ok, reason := utils.ValidateUpload(header); !ok {
		return "", "", reason
	}

	dir := filepath.Join(uploadRoot(), subdir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", "", "failed to prepare upload directory"
	}

	stored := filepath.Join(dir, uuid.New().String()+".pdf")
	if err := c.SaveUploadedFile(header, stored); err != nil {
		return "", "", "failed to store uploaded file"
	}
	return stored, header.Filename, ""
}

func documentIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return 0, false
	}
	return id, true
}

// CreateDocument accepts a citizen's submission: a title, a category and the
// PDF itself. The document starts in status NEW.
func CreateDocument(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}

	title := utils.SanitizeInput(c.PostForm("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	categoryID, err := strconv.Atoi(c.PostForm("category_id"))
	if err != nil || categoryID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category_id is required"})
		return
	}

	storedPath, originalName, reason := storeUploadedFile(c, "file", "documents")
	if reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}

	doc, err := workflowService.CreateDocument(services.CreateDocumentInput{
		Title:            title,
		StoredPath:       storedPath,
		OriginalFilename: originalName,
		CategoryID:       categoryID,
	}, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "document": doc})
}

// GetDocuments lists the caller's visible documents, optionally filtered by
// status and category.
func GetDocuments(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}

	filter := services.ListFilter{Status: c.Query("status")}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			filter.CategoryID = id
		}
	}

	docs, err := workflowService.ListDocuments(user, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"documents": docs,
		"total":     len(docs),
	})
}

// GetDocument returns one document with assignments, reviews and history.
func GetDocument(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}
	id, ok := documentIDParam(c)
	if !ok {
		return
	}

	doc, err := workflowService.GetDocument(id, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "document": doc})
}

// GetDocumentHistory returns the audit trail of one document.
func GetDocumentHistory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}
	id, ok := documentIDParam(c)
	if !ok {
		return
	}

	doc, err := workflowService.GetDocument(id, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": doc.History,
		"total":   len(doc.History),
	})
}

type UpdateDocumentRequest struct {
	Title      *string `json:"title"`
	CategoryID *int    `json:"category_id"`
}

// UpdateDocument edits a document's title and category: owners while NEW,
// staff unconditionally.
func UpdateDocument(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}
	id, ok := documentIDParam(c)
	if !ok {
		return
	}

	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	input := services.UpdateDocumentInput{CategoryID: req.CategoryID}
	if req.Title != nil {
		title := utils.SanitizeInput(*req.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title must not be empty"})
			return
		}
		input.Title = &title
	}

	doc, err := workflowService.UpdateDocument(id, input, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "document": doc})
}

// DeleteDocument soft-deletes a document: owners while NEW, managers and
// admins unconditionally.
func DeleteDocument(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}
	id, ok := documentIDParam(c)
	if !ok {
		return
	}

	if err := workflowService.DeleteDocument(id, user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Document deleted"})
}

// GetDocumentStats returns per-status counts scoped to the caller.
func GetDocumentStats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}

	stats, err := workflowService.Stats(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
