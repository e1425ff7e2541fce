package models

// Category groups documents by subject area. Categories may nest one level
// deep or more through ParentID.
type Category struct {
	CategoryID int    `gorm:"primaryKey;column:category_id" json:"category_id"`
	Name       string `gorm:"column:name" json:"name"`
	ParentID   *int   `gorm:"column:parent_id" json:"parent_id,omitempty"`

	Timestamps
	SoftDelete

	Parent *Category `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}
