package models

import "time"

// DocumentHistory is the append-only audit trail. One entry per committed
// transition, written inside the same transaction as the transition itself.
// Entries are never updated or deleted.
type DocumentHistory struct {
	HistoryID  int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	DocumentID int       `gorm:"column:document_id;index" json:"document_id"`
	UserID     *int      `gorm:"column:user_id" json:"user_id,omitempty"`
	OldStatus  *string   `gorm:"column:old_status" json:"old_status,omitempty"`
	NewStatus  string    `gorm:"column:new_status" json:"new_status"`
	Comment    string    `gorm:"column:comment" json:"comment"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DocumentHistory) TableName() string {
	return "document_history"
}
