package services

import (
	"fmt"

	"github.com/Bobomurod2004/UzSWLU/models"
	"gorm.io/gorm"
)

// Final decisions a manager can take on a REVIEWED document.
const (
	DecisionApprove  = "APPROVE"
	DecisionSendBack = "SEND_BACK"
	DecisionReject   = "REJECT"
)

// FinalizeResult reports the outcome of a final decision.
type FinalizeResult struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	PurgedReviews int    `json:"purged_reviews,omitempty"`
}

// Finalize applies the manager's decision to a REVIEWED document.
//
//	APPROVE   → APPROVED, terminal.
//	REJECT    → REJECTED, terminal; the document goes back to the submitter.
//	SEND_BACK → UNDER_REVIEW; every review of the round is hard-deleted and
//	            every assignment reset to IN_PROGRESS, so reviewers resubmit.
//
// The SEND_BACK unwind, the status change and the audit entry commit as one
// transaction under the document lock. Old reviews are unrecoverable: a
// superseded round's verdicts are discarded on purpose.
func (s *WorkflowService) Finalize(documentID int, manager *models.User, decision, comment string) (*FinalizeResult, error) {
	if decision != DecisionApprove && decision != DecisionSendBack && decision != DecisionReject {
		return nil, newError(KindInvalidTransition, "unknown decision %q", decision)
	}

	var result *FinalizeResult
	err := s.withDocumentLock(documentID, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			doc, err := s.loadDocument(tx, documentID)
			if err != nil {
				return err
			}
			if doc.Status != models.StatusReviewed {
				return newError(KindNotReadyForDecision,
					"cannot finalize a document in status %s, it must be REVIEWED", doc.Status)
			}

			oldStatus := doc.Status
			switch decision {
			case DecisionApprove:
				result, err = s.approve(tx, doc, manager, comment, oldStatus)
			case DecisionReject:
				result, err = s.reject(tx, doc, manager, comment, oldStatus)
			case DecisionSendBack:
				result, err = s.sendBack(tx, doc, manager, comment, oldStatus)
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *WorkflowService) setStatus(tx *gorm.DB, documentID int, status string) error {
	return tx.Model(&models.Document{}).
		Where("document_id = ?", documentID).
		Updates(map[string]interface{}{"status": status, "updated_at": s.now()}).Error
}

func (s *WorkflowService) approve(tx *gorm.DB, doc *models.Document, manager *models.User, comment, oldStatus string) (*FinalizeResult, error) {
	if err := s.setStatus(tx, doc.DocumentID, models.StatusApproved); err != nil {
		return nil, err
	}

	note := "Document approved"
	if comment != "" {
		note += ". " + comment
	}
	if err := s.recordHistory(tx, doc.DocumentID, &oldStatus, models.StatusApproved, manager, note); err != nil {
		return nil, err
	}
	return &FinalizeResult{
		Status:  models.StatusApproved,
		Message: "Document approved; the submitter can now see all review conclusions",
	}, nil
}

func (s *WorkflowService) reject(tx *gorm.DB, doc *models.Document, manager *models.User, comment, oldStatus string) (*FinalizeResult, error) {
	if err := s.setStatus(tx, doc.DocumentID, models.StatusRejected); err != nil {
		return nil, err
	}

	note := "Document rejected and returned to the submitter"
	if comment != "" {
		note += ". Reason: " + comment
	}
	if err := s.recordHistory(tx, doc.DocumentID, &oldStatus, models.StatusRejected, manager, note); err != nil {
		return nil, err
	}
	return &FinalizeResult{
		Status:  models.StatusRejected,
		Message: "Document rejected",
	}, nil
}

func (s *WorkflowService) sendBack(tx *gorm.DB, doc *models.Document, manager *models.User, comment, oldStatus string) (*FinalizeResult, error) {
	purge := tx.Where("document_id = ?", doc.DocumentID).Delete(&models.Review{})
	if purge.Error != nil {
		return nil, purge.Error
	}
	purged := int(purge.RowsAffected)

	if err := tx.Model(&models.DocumentAssignment{}).
		Where("document_id = ?", doc.DocumentID).
		Updates(map[string]interface{}{"status": models.AssignmentInProgress, "updated_at": s.now()}).Error; err != nil {
		return nil, err
	}

	if err := s.setStatus(tx, doc.DocumentID, models.StatusUnderReview); err != nil {
		return nil, err
	}

	note := fmt.Sprintf("Document sent back to reviewers, %d review(s) discarded", purged)
	if comment != "" {
		note += ". Reason: " + comment
	}
	if err := s.recordHistory(tx, doc.DocumentID, &oldStatus, models.StatusUnderReview, manager, note); err != nil {
		return nil, err
	}
	return &FinalizeResult{
		Status:        models.StatusUnderReview,
		Message:       fmt.Sprintf("Document sent back; %d old review(s) removed, reviewers must resubmit", purged),
		PurgedReviews: purged,
	}, nil
}
