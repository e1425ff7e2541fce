package models

// Document status values. WAITING_FOR_DISPATCH exists in the schema for
// parity with the dispatch pipeline but no workflow operation produces it.
const (
	StatusNew                = "NEW"
	StatusPending            = "PENDING"
	StatusUnderReview        = "UNDER_REVIEW"
	StatusReviewed           = "REVIEWED"
	StatusWaitingForDispatch = "WAITING_FOR_DISPATCH"
	StatusApproved           = "APPROVED"
	StatusRejected           = "REJECTED"
)

// DocumentStatuses lists every valid status value, in lifecycle order.
var DocumentStatuses = []string{
	StatusNew,
	StatusPending,
	StatusUnderReview,
	StatusReviewed,
	StatusWaitingForDispatch,
	StatusApproved,
	StatusRejected,
}

// Document is the root entity of the review workflow. Status only changes
// through the workflow service; APPROVED and REJECTED are terminal.
type Document struct {
	DocumentID       int    `gorm:"primaryKey;column:document_id" json:"document_id"`
	Title            string `gorm:"column:title" json:"title"`
	StoredPath       string `gorm:"column:stored_path" json:"stored_path"`
	OriginalFilename string `gorm:"column:original_filename" json:"original_filename"`
	CategoryID       int    `gorm:"column:category_id" json:"category_id"`
	OwnerID          int    `gorm:"column:owner_id;index" json:"owner_id"`
	Status           string `gorm:"column:status;index;default:NEW" json:"status"`

	Timestamps
	SoftDelete

	Owner       *User                `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Category    *Category            `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Assignments []DocumentAssignment `gorm:"foreignKey:DocumentID" json:"assignments,omitempty"`
	Reviews     []Review             `gorm:"foreignKey:DocumentID" json:"reviews,omitempty"`
	History     []DocumentHistory    `gorm:"foreignKey:DocumentID" json:"history,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}

// IsTerminal reports whether no further workflow transition is possible.
func (d *Document) IsTerminal() bool {
	return d.Status == StatusApproved || d.Status == StatusRejected
}
