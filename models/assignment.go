package models

// Assignment status values.
const (
	AssignmentPending    = "PENDING"
	AssignmentInProgress = "IN_PROGRESS"
	AssignmentCompleted  = "COMPLETED"
)

// DocumentAssignment pairs a document with a reviewer. The pair is unique:
// a reviewer is never assigned twice to the same document. Assignments are
// kept for audit even after the review round they belong to is discarded.
type DocumentAssignment struct {
	AssignmentID int    `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	DocumentID   int    `gorm:"column:document_id;uniqueIndex:idx_document_reviewer" json:"document_id"`
	ReviewerID   int    `gorm:"column:reviewer_id;uniqueIndex:idx_document_reviewer" json:"reviewer_id"`
	AssignedBy   *int   `gorm:"column:assigned_by" json:"assigned_by,omitempty"`
	Status       string `gorm:"column:status;default:PENDING" json:"status"`

	Timestamps
	SoftDelete

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Assigner *User `gorm:"foreignKey:AssignedBy" json:"assigner,omitempty"`
}

func (DocumentAssignment) TableName() string {
	return "document_assignments"
}
