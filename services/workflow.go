package services

import (
	"errors"
	"time"

	"github.com/Bobomurod2004/UzSWLU/models"
	"gorm.io/gorm"
)

// DefaultLockWait bounds how long a mutating operation waits for the
// per-document lock before reporting Busy.
const DefaultLockWait = 5 * time.Second

// WorkflowService owns the document review lifecycle: the status state
// machine, reviewer assignment, verdict submission with completion
// aggregation, the final decision, and the audit trail. All status changes
// go through it.
//
// Mutating operations on the same document are serialized by a keyed lock
// and run inside a single gorm transaction together with their history
// entry. Reads are lock-free and may observe a status that a concurrent
// writer is about to change.
type WorkflowService struct {
	db    *gorm.DB
	locks *documentLocks
	now   func() time.Time
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	return &WorkflowService{
		db:    db,
		locks: newDocumentLocks(DefaultLockWait),
		now:   time.Now,
	}
}

// withDocumentLock runs fn while holding the exclusive lock for documentID.
func (s *WorkflowService) withDocumentLock(documentID int, fn func() error) error {
	if err := s.locks.Acquire(documentID); err != nil {
		return err
	}
	defer s.locks.Release(documentID)
	return fn()
}

// recordHistory appends one audit entry inside tx. It is called explicitly
// by every mutating operation as part of the transaction that performs the
// transition, so an entry exists exactly when the transition committed.
func (s *WorkflowService) recordHistory(tx *gorm.DB, documentID int, oldStatus *string, newStatus string, actor *models.User, comment string) error {
	entry := models.DocumentHistory{
		DocumentID: documentID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		Comment:    comment,
		CreatedAt:  s.now(),
	}
	if actor != nil {
		id := actor.UserID
		entry.UserID = &id
	}
	return tx.Create(&entry).Error
}

// loadDocument fetches a live document inside tx, translating gorm's
// not-found into the workflow taxonomy.
func (s *WorkflowService) loadDocument(tx *gorm.DB, documentID int) (*models.Document, error) {
	var doc models.Document
	err := tx.Scopes(models.Alive).First(&doc, "document_id = ?", documentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindNotFound, "document %d not found", documentID)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// CreateDocumentInput carries the owner-supplied fields of a new document.
// The file reference is opaque to the workflow: the upload layer has already
// stored and validated the file.
type CreateDocumentInput struct {
	Title            string
	StoredPath       string
	OriginalFilename string
	CategoryID       int
}

// CreateDocument registers a new document in status NEW and writes the
// opening history entry.
func (s *WorkflowService) CreateDocument(input CreateDocumentInput, owner *models.User) (*models.Document, error) {
	doc := models.Document{
		Title:            input.Title,
		StoredPath:       input.StoredPath,
		OriginalFilename: input.OriginalFilename,
		CategoryID:       input.CategoryID,
		OwnerID:          owner.UserID,
		Status:           models.StatusNew,
		SoftDelete:       models.SoftDelete{IsActive: true},
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}
		return s.recordHistory(tx, doc.DocumentID, nil, doc.Status, owner, "Document submitted")
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateDocumentInput carries the editable fields. Nil fields are left
// untouched.
type UpdateDocumentInput struct {
	Title      *string
	CategoryID *int
}

// UpdateDocument edits a document's metadata. Owners may edit their own
// documents only while still NEW; managers, secretaries and admins may edit
// any document in any state. Reviewers have no edit rights. The status never
// changes here.
func (s *WorkflowService) UpdateDocument(documentID int, input UpdateDocumentInput, actor *models.User) (*models.Document, error) {
	var result *models.Document
	err := s.withDocumentLock(documentID, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			doc, err := s.loadDocument(tx, documentID)
			if err != nil {
				return err
			}

			if !actor.CanEditAnyDocument() {
				// Reviewers have no edit rights at all; citizens may only
				// touch their own submissions.
				if actor.CanReview() || doc.OwnerID != actor.UserID {
					return newError(KindInvalidRole, "you may only edit your own documents")
				}
				if doc.Status != models.StatusNew {
					return newError(KindInvalidTransition,
						"cannot edit a document in status %s, only NEW documents can be edited by their owner", doc.Status)
				}
			}

			updates := map[string]interface{}{"updated_at": s.now()}
			if input.Title != nil {
				doc.Title = *input.Title
				updates["title"] = *input.Title
			}
			if input.CategoryID != nil {
				var count int64
				if err := tx.Model(&models.Category{}).Scopes(models.Alive).
					Where("category_id = ?", *input.CategoryID).
					Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return newError(KindNotFound, "category %d not found", *input.CategoryID)
				}
				doc.CategoryID = *input.CategoryID
				updates["category_id"] = *input.CategoryID
			}
			if len(updates) == 1 {
				result = doc
				return nil
			}

			if err := tx.Model(&models.Document{}).
				Where("document_id = ?", doc.DocumentID).
				Updates(updates).Error; err != nil {
				return err
			}

			old := doc.Status
			if err := s.recordHistory(tx, doc.DocumentID, &old, doc.Status, actor, "Document updated"); err != nil {
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

// DeleteDocument soft-deletes a document. Owners may delete their own
// documents only while still NEW; managers and admins may delete any
// document in any state. The row is tombstoned, never removed.
func (s *WorkflowService) DeleteDocument(documentID int, actor *models.User) error {
	return s.withDocumentLock(documentID, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			doc, err := s.loadDocument(tx, documentID)
			if err != nil {
				return err
			}

			if !actor.CanManageDocuments() {
				if doc.OwnerID != actor.UserID {
					return newError(KindInvalidRole, "only the owner or a manager may delete this document")
				}
				if doc.Status != models.StatusNew {
					return newError(KindInvalidTransition,
						"cannot delete a document in status %s, only NEW documents can be deleted by their owner", doc.Status)
				}
			}

			now := s.now()
			updates := map[string]interface{}{
				"deleted_at": now,
				"is_active":  false,
				"updated_at": now,
			}
			if err := tx.Model(&models.Document{}).
				Where("document_id = ?", doc.DocumentID).
				Updates(updates).Error; err != nil {
				return err
			}

			old := doc.Status
			return s.recordHistory(tx, doc.DocumentID, &old, doc.Status, actor, "Document deleted")
		})
	})
}

// visibleDocuments narrows a query to the documents the actor may see:
// citizens their own, reviewers the ones assigned to them, staff everything.
func visibleDocuments(db *gorm.DB, actor *models.User) *gorm.DB {
	q := db.Model(&models.Document{}).Scopes(models.Alive)
	switch {
	case actor.SeesAllDocuments():
		return q
	case actor.CanReview():
		return q.Where(
			"document_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&models.DocumentAssignment{}).
				Select("document_id").
				Where("reviewer_id = ?", actor.UserID),
		)
	default:
		return q.Where("owner_id = ?", actor.UserID)
	}
}

// GetDocument returns a visible document with its assignments, reviews and
// history preloaded. Invisible documents are reported as NotFound rather
// than leaking their existence.
func (s *WorkflowService) GetDocument(documentID int, actor *models.User) (*models.Document, error) {
	var doc models.Document
	err := visibleDocuments(s.db, actor).
		Preload("Owner").
		Preload("Category").
		Preload("Assignments.Reviewer").
		Preload("Reviews.Reviewer").
		Preload("History.User").
		First(&doc, "document_id = ?", documentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindNotFound, "document %d not found", documentID)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListFilter is the optional narrowing for ListDocuments.
type ListFilter struct {
	Status     string
	CategoryID int
}

// ListDocuments returns the actor's visible documents, newest first.
func (s *WorkflowService) ListDocuments(actor *models.User, filter ListFilter) ([]models.Document, error) {
	q := visibleDocuments(s.db, actor).
		Preload("Owner").
		Preload("Category").
		Preload("Assignments.Reviewer")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	var docs []models.Document
	if err := q.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// DocumentStats is the per-status breakdown of the actor's visible documents.
type DocumentStats struct {
	Total       int64 `json:"total"`
	New         int64 `json:"new"`
	Pending     int64 `json:"pending"`
	UnderReview int64 `json:"under_review"`
	Reviewed    int64 `json:"reviewed"`
	Approved    int64 `json:"approved"`
	Rejected    int64 `json:"rejected"`
}

// Stats aggregates visible documents by status in a single grouped query.
// It reads without the document lock, so a concurrent transition may be
// reflected a moment late.
func (s *WorkflowService) Stats(actor *models.User) (*DocumentStats, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := visibleDocuments(s.db, actor).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := DocumentStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.StatusNew:
			stats.New = row.Count
		case models.StatusPending:
			stats.Pending = row.Count
		case models.StatusUnderReview:
			stats.UnderReview = row.Count
		case models.StatusReviewed:
			stats.Reviewed = row.Count
		case models.StatusApproved:
			stats.Approved = row.Count
		case models.StatusRejected:
			stats.Rejected = row.Count
		}
	}
	return &stats, nil
}
