package controllers

import (
	"net/http"
	"strconv"

	"github.com/Bobomurod2004/UzSWLU/middleware"
	"github.com/Bobomurod2004/UzSWLU/services"
	"github.com/Bobomurod2004/UzSWLU/utils"
	"github.com/gin-gonic/gin"
)

type AssignReviewersRequest struct {
	Reviewers []int `json:"reviewers" binding:"required,min=1"`
}

// AssignReviewers attaches one or more reviewers to a document
// (MANAGER/SECRETARY only, enforced by the route).
func AssignReviewers(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}
	id, ok := documentIDParam(c)
	if !ok {
		return
	}

	var req AssignReviewersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reviewers must be a non-empty list of user IDs"})
		return
	}

	doc, skipped, err := workflowService.AssignReviewers(id, req.Reviewers, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"document": doc,
		"skipped":  skipped,
	})
}

// StartReview marks the caller's assignment as in progress.
func StartReview(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}
	id, ok := documentIDParam(c)
	if !ok {
		return
	}

	doc, err := workflowService.StartReview(id, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "document": doc})
}

// SubmitReview uploads the caller's review conclusion (PDF plus optional
// score and comment) and completes their assignment.
func SubmitReview(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}
	id, ok := documentIDParam(c)
	if !ok {
		return
	}

	input := services.SubmitVerdictInput{
		Comment: utils.SanitizeInput(c.PostForm("comment")),
	}
	if raw := c.PostForm("score"); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "score must be an integer"})
			return
		}
		input.Score = &score
	}

	storedPath, _, reason := storeUploadedFile(c, "review_file", "reviews")
	if reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}
	input.FilePath = storedPath

	review, err := workflowService.SubmitVerdict(id, user, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}
