package services

import (
	"errors"
	"fmt"

	"github.com/Bobomurod2004/UzSWLU/models"
	"gorm.io/gorm"
)

// loadAssignment fetches the caller's assignment row for the document.
func loadAssignment(tx *gorm.DB, documentID, reviewerID int) (*models.DocumentAssignment, error) {
	var assignment models.DocumentAssignment
	err := tx.Where("document_id = ? AND reviewer_id = ?", documentID, reviewerID).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindNotAssigned, "you are not assigned to document %d", documentID)
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// StartReview marks the caller's assignment IN_PROGRESS and, on the first
// start, moves the document from PENDING to UNDER_REVIEW. Only a PENDING
// assignment can start; the document status is untouched when other
// reviewers already moved it to UNDER_REVIEW.
func (s *WorkflowService) StartReview(documentID int, reviewer *models.User) (*models.Document, error) {
	var result *models.Document
	err := s.withDocumentLock(documentID, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			doc, err := s.loadDocument(tx, documentID)
			if err != nil {
				return err
			}

			assignment, err := loadAssignment(tx, doc.DocumentID, reviewer.UserID)
			if err != nil {
				return err
			}
			if assignment.Status != models.AssignmentPending {
				return newError(KindInvalidTransition,
					"your assignment is %s; only a PENDING assignment can be started", assignment.Status)
			}
			if doc.Status != models.StatusPending && doc.Status != models.StatusUnderReview {
				return newError(KindInvalidTransition,
					"cannot start a review while the document is %s", doc.Status)
			}

			if err := tx.Model(&models.DocumentAssignment{}).
				Where("assignment_id = ?", assignment.AssignmentID).
				Updates(map[string]interface{}{"status": models.AssignmentInProgress, "updated_at": s.now()}).Error; err != nil {
				return err
			}

			oldStatus := doc.Status
			if doc.Status == models.StatusPending {
				doc.Status = models.StatusUnderReview
				if err := tx.Model(&models.Document{}).
					Where("document_id = ?", doc.DocumentID).
					Updates(map[string]interface{}{"status": doc.Status, "updated_at": s.now()}).Error; err != nil {
					return err
				}
			}

			note := fmt.Sprintf("Review started by %s", reviewer.Email)
			if err := s.recordHistory(tx, doc.DocumentID, &oldStatus, doc.Status, reviewer, note); err != nil {
				return err
			}
			result = doc
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitVerdictInput carries a reviewer's conclusion. Score is optional and
// bounded to 0..100 when present.
type SubmitVerdictInput struct {
	FilePath string
	Score    *int
	Comment  string
}

// SubmitVerdict records the caller's review, completes their assignment and,
// while still holding the document lock, recomputes whether every assignment
// is COMPLETED. The submission that observes full completion advances the
// document to REVIEWED; the aggregate is evaluated under mutual exclusion so
// the transition happens exactly once regardless of how reviewers interleave.
func (s *WorkflowService) SubmitVerdict(documentID int, reviewer *models.User, input SubmitVerdictInput) (*models.Review, error) {
	if input.Score != nil && (*input.Score < 0 || *input.Score > 100) {
		return nil, newError(KindInvalidScore, "score must be between 0 and 100, got %d", *input.Score)
	}

	var result *models.Review
	err := s.withDocumentLock(documentID, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			doc, err := s.loadDocument(tx, documentID)
			if err != nil {
				return err
			}

			assignment, err := loadAssignment(tx, doc.DocumentID, reviewer.UserID)
			if err != nil {
				return err
			}
			switch assignment.Status {
			case models.AssignmentCompleted:
				return newError(KindAlreadySubmitted, "you already submitted a review for this document")
			case models.AssignmentPending:
				return newError(KindReviewNotStarted, "start the review before submitting a verdict")
			}
			if doc.Status != models.StatusUnderReview {
				return newError(KindInvalidTransition,
					"cannot submit a review while the document is %s", doc.Status)
			}

			// The assignment status already guards duplicates; this catches
			// a review row that survived an inconsistent state.
			var existing int64
			if err := tx.Model(&models.Review{}).
				Where("document_id = ? AND reviewer_id = ?", doc.DocumentID, reviewer.UserID).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				return newError(KindAlreadySubmitted, "a review from you already exists for this document")
			}

			review := models.Review{
				DocumentID: doc.DocumentID,
				ReviewerID: reviewer.UserID,
				FilePath:   input.FilePath,
				Score:      input.Score,
			}
			if input.Comment != "" {
				comment := input.Comment
				review.Comment = &comment
			}
			if err := tx.Create(&review).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.DocumentAssignment{}).
				Where("assignment_id = ?", assignment.AssignmentID).
				Updates(map[string]interface{}{"status": models.AssignmentCompleted, "updated_at": s.now()}).Error; err != nil {
				return err
			}

			complete, err := allAssignmentsCompleted(tx, doc.DocumentID)
			if err != nil {
				return err
			}

			oldStatus := doc.Status
			note := fmt.Sprintf("Review submitted by %s", reviewer.Email)
			if complete {
				doc.Status = models.StatusReviewed
				if err := tx.Model(&models.Document{}).
					Where("document_id = ?", doc.DocumentID).
					Updates(map[string]interface{}{"status": doc.Status, "updated_at": s.now()}).Error; err != nil {
					return err
				}
				note = "All reviewers finished, document fully reviewed"
			}
			if err := s.recordHistory(tx, doc.DocumentID, &oldStatus, doc.Status, reviewer, note); err != nil {
				return err
			}

			result = &review
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// allAssignmentsCompleted evaluates the completion aggregate: a non-empty
// assignment set with no assignment in any status other than COMPLETED. It
// must run after the current assignment was marked COMPLETED, inside the
// same locked transaction.
func allAssignmentsCompleted(tx *gorm.DB, documentID int) (bool, error) {
	var total, outstanding int64
	if err := tx.Model(&models.DocumentAssignment{}).
		Where("document_id = ?", documentID).
		Count(&total).Error; err != nil {
		return false, err
	}
	if total == 0 {
		return false, nil
	}
	if err := tx.Model(&models.DocumentAssignment{}).
		Where("document_id = ? AND status <> ?", documentID, models.AssignmentCompleted).
		Count(&outstanding).Error; err != nil {
		return false, err
	}
	return outstanding == 0, nil
}
