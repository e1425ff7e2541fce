package services

import (
	"fmt"
	"strings"

	"github.com/Bobomurod2004/UzSWLU/models"
	"gorm.io/gorm"
)

// assignAllowedFrom lists the document statuses that accept new reviewers.
var assignAllowedFrom = map[string]bool{
	models.StatusNew:         true,
	models.StatusPending:     true,
	models.StatusUnderReview: true,
}

// AssignReviewers attaches the given reviewers to a document. Candidates that
// fail validation are collected and reported together, not one at a time.
// Already-assigned pairs are skipped silently and returned in the second
// result. A NEW document moves to PENDING once at least one assignment is
// created; if every candidate was already assigned the call fails with
// NoEligibleReviewers and nothing changes.
func (s *WorkflowService) AssignReviewers(documentID int, reviewerIDs []int, assigner *models.User) (*models.Document, []string, error) {
	if len(reviewerIDs) == 0 {
		return nil, nil, newError(KindNoEligibleReviewers, "reviewer list is empty")
	}

	var skipped []string
	err := s.withDocumentLock(documentID, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			doc, err := s.loadDocument(tx, documentID)
			if err != nil {
				return err
			}
			if !assignAllowedFrom[doc.Status] {
				return newError(KindInvalidTransition,
					"cannot assign reviewers to a document in status %s", doc.Status)
			}

			reviewers, err := s.validateCandidates(tx, reviewerIDs)
			if err != nil {
				return err
			}

			var existing []models.DocumentAssignment
			if err := tx.Where("document_id = ?", doc.DocumentID).Find(&existing).Error; err != nil {
				return err
			}
			assigned := make(map[int]bool, len(existing))
			for _, a := range existing {
				assigned[a.ReviewerID] = true
			}

			created := 0
			names := make([]string, 0, len(reviewers))
			for _, reviewer := range reviewers {
				if assigned[reviewer.UserID] {
					skipped = append(skipped, reviewer.Email)
					continue
				}
				assignerID := assigner.UserID
				assignment := models.DocumentAssignment{
					DocumentID: doc.DocumentID,
					ReviewerID: reviewer.UserID,
					AssignedBy: &assignerID,
					Status:     models.AssignmentPending,
					SoftDelete: models.SoftDelete{IsActive: true},
				}
				if err := tx.Create(&assignment).Error; err != nil {
					return err
				}
				created++
				names = append(names, reviewer.Email)
			}

			if created == 0 {
				e := newError(KindNoEligibleReviewers, "every selected reviewer is already assigned to this document")
				e.Details = skipped
				return e
			}

			oldStatus := doc.Status
			if doc.Status == models.StatusNew {
				doc.Status = models.StatusPending
				if err := tx.Model(&models.Document{}).
					Where("document_id = ?", doc.DocumentID).
					Updates(map[string]interface{}{"status": doc.Status, "updated_at": s.now()}).Error; err != nil {
					return err
				}
			}

			note := fmt.Sprintf("Reviewer(s) assigned: %s", strings.Join(names, ", "))
			return s.recordHistory(tx, doc.DocumentID, &oldStatus, doc.Status, assigner, note)
		})
	})
	if err != nil {
		return nil, skipped, err
	}

	var doc models.Document
	if err := s.db.Scopes(models.Alive).
		Preload("Owner").
		Preload("Category").
		Preload("Assignments.Reviewer").
		First(&doc, "document_id = ?", documentID).Error; err != nil {
		return nil, skipped, err
	}
	return &doc, skipped, nil
}

// validateCandidates checks every candidate and reports all failures in one
// error instead of stopping at the first bad id.
func (s *WorkflowService) validateCandidates(tx *gorm.DB, reviewerIDs []int) ([]models.User, error) {
	var users []models.User
	if err := tx.Where("user_id IN ?", reviewerIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[int]models.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	var roleFailures, inactiveFailures []string
	reviewers := make([]models.User, 0, len(reviewerIDs))
	seen := make(map[int]bool, len(reviewerIDs))
	for _, id := range reviewerIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		user, ok := byID[id]
		if !ok {
			roleFailures = append(roleFailures, fmt.Sprintf("user %d does not exist", id))
			continue
		}
		if !user.CanReview() {
			roleFailures = append(roleFailures, fmt.Sprintf("%s has role %s, not REVIEWER", user.Email, user.Role))
			continue
		}
		if user.DeletedAt != nil || !user.IsActive {
			inactiveFailures = append(inactiveFailures, fmt.Sprintf("%s is deactivated", user.Email))
			continue
		}
		reviewers = append(reviewers, user)
	}

	if len(roleFailures) > 0 {
		e := newError(KindInvalidRole, "some candidates cannot review")
		e.Details = append(roleFailures, inactiveFailures...)
		return nil, e
	}
	if len(inactiveFailures) > 0 {
		e := newError(KindInactiveReviewer, "some candidates are inactive")
		e.Details = inactiveFailures
		return nil, e
	}
	return reviewers, nil
}
