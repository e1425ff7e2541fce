package models

// Role values form a closed set; permission checks go through the
// capability predicates below rather than ad hoc string comparisons.
const (
	RoleCitizen    = "CITIZEN"
	RoleReviewer   = "REVIEWER"
	RoleSecretary  = "SECRETARY"
	RoleManager    = "MANAGER"
	RoleSuperAdmin = "SUPERADMIN"
)

type User struct {
	UserID   int     `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email    string  `gorm:"column:email;unique" json:"email"`
	FullName string  `gorm:"column:full_name" json:"full_name"`
	Phone    *string `gorm:"column:phone" json:"phone,omitempty"`
	Password string  `gorm:"column:password" json:"-"`
	Role     string  `gorm:"column:role;index" json:"role"`

	Timestamps
	SoftDelete
}

func (User) TableName() string {
	return "users"
}

// CanAssign reports whether the user may attach reviewers to a document.
func (u *User) CanAssign() bool {
	return u.Role == RoleManager || u.Role == RoleSecretary
}

// CanReview reports whether the user may start and submit reviews.
func (u *User) CanReview() bool {
	return u.Role == RoleReviewer
}

// CanFinalize reports whether the user may issue the final decision.
func (u *User) CanFinalize() bool {
	return u.Role == RoleManager
}

// CanManageDocuments reports whether the user may delete any document
// regardless of ownership or state.
func (u *User) CanManageDocuments() bool {
	return u.Role == RoleManager || u.Role == RoleSuperAdmin
}

// CanEditAnyDocument reports whether the user may edit any document in any
// state. Citizens edit only their own documents, and only while NEW.
func (u *User) CanEditAnyDocument() bool {
	return u.Role == RoleManager || u.Role == RoleSecretary || u.Role == RoleSuperAdmin
}

// SeesAllDocuments reports whether listings and stats cover every document
// rather than an ownership- or assignment-scoped subset.
func (u *User) SeesAllDocuments() bool {
	return u.Role == RoleSecretary || u.Role == RoleManager || u.Role == RoleSuperAdmin
}
