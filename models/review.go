package models

// Review is a reviewer's verdict on a document: a PDF conclusion plus an
// optional score and comment. At most one review per (document, reviewer)
// pair. Reviews are hard-deleted when a manager sends the document back;
// a superseded round leaves no verdicts behind.
type Review struct {
	ReviewID   int     `gorm:"primaryKey;column:review_id" json:"review_id"`
	DocumentID int     `gorm:"column:document_id;uniqueIndex:idx_review_document_reviewer" json:"document_id"`
	ReviewerID int     `gorm:"column:reviewer_id;uniqueIndex:idx_review_document_reviewer" json:"reviewer_id"`
	FilePath   string  `gorm:"column:file_path" json:"file_path"`
	Score      *int    `gorm:"column:score" json:"score,omitempty"`
	Comment    *string `gorm:"column:comment" json:"comment,omitempty"`

	Timestamps

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
