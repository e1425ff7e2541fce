package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Bobomurod2004/UzSWLU/config"
	"github.com/Bobomurod2004/UzSWLU/services"
	"github.com/gin-gonic/gin"
)

// workflowService is shared by all handlers; wired once at startup.
var workflowService *services.WorkflowService

// InitServices builds the controller-level services on top of the global DB.
// Must run after config.InitDB.
func InitServices() {
	workflowService = services.NewWorkflowService(config.DB)
}

// statusForKind maps the workflow error taxonomy to transport status codes.
// The kinds are the contract; the codes are this API's rendering of them.
func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindNotAssigned:
		return http.StatusForbidden
	case services.KindInvalidTransition,
		services.KindNotReadyForDecision,
		services.KindAlreadySubmitted,
		services.KindReviewNotStarted:
		return http.StatusConflict
	case services.KindBusy:
		return http.StatusServiceUnavailable
	case services.KindInvalidScore,
		services.KindNoEligibleReviewers,
		services.KindInvalidRole,
		services.KindInactiveReviewer:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders a workflow error with its stable kind, or a bare 500
// for anything unexpected.
func respondError(c *gin.Context, err error) {
	var wfErr *services.Error
	if errors.As(err, &wfErr) {
		if wfErr.Kind == services.KindBusy {
			c.Header("Retry-After", "1")
		}
		body := gin.H{"error": wfErr.Message, "kind": wfErr.Kind}
		if len(wfErr.Details) > 0 {
			body["details"] = wfErr.Details
		}
		c.JSON(statusForKind(wfErr.Kind), body)
		return
	}

	log.Printf("internal error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
