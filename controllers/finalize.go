package controllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Bobomurod2004/UzSWLU/config"
	"github.com/Bobomurod2004/UzSWLU/middleware"
	"github.com/Bobomurod2004/UzSWLU/models"
	"github.com/Bobomurod2004/UzSWLU/services"
	"github.com/gin-gonic/gin"
)

type FinalizeRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVE SEND_BACK REJECT"`
	Comment  string `json:"comment"`
}

// FinalizeDocument applies the manager's three-way decision to a REVIEWED
// document. Notification delivery is best effort and never affects the
// committed transition.
func FinalizeDocument(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}
	id, ok := documentIDParam(c)
	if !ok {
		return
	}

	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision must be one of APPROVE, SEND_BACK, REJECT"})
		return
	}

	result, err := workflowService.Finalize(id, user, req.Decision, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	go notifyDecision(id, req.Decision, req.Comment)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  result.Status,
		"message": result.Message,
		"purged":  result.PurgedReviews,
	})
}

// notifyDecision emails the submitter about a terminal decision, or the
// reviewers when the document loops back to them.
func notifyDecision(documentID int, decision, comment string) {
	var doc models.Document
	if err := config.DB.
		Preload("Owner").
		Preload("Assignments.Reviewer").
		First(&doc, "document_id = ?", documentID).Error; err != nil {
		log.Printf("notify: failed to load document %d: %v", documentID, err)
		return
	}

	var to []string
	var subject, body string
	switch decision {
	case services.DecisionSendBack:
		for _, a := range doc.Assignments {
			if a.Reviewer != nil {
				to = append(to, a.Reviewer.Email)
			}
		}
		subject = fmt.Sprintf("Document %q returned for re-review", doc.Title)
		body = fmt.Sprintf("<p>The document <b>%s</b> was sent back by the manager. Please submit a new review.</p><p>Reason: %s</p>", doc.Title, comment)
	default:
		if doc.Owner != nil {
			to = append(to, doc.Owner.Email)
		}
		subject = fmt.Sprintf("Decision on your document %q", doc.Title)
		body = fmt.Sprintf("<p>Your document <b>%s</b> received a final decision: <b>%s</b>.</p><p>%s</p>", doc.Title, doc.Status, comment)
	}

	if err := config.SendMail(to, subject, body); err != nil {
		log.Printf("notify: failed to send decision mail for document %d: %v", documentID, err)
	}
}
