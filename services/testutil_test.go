package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/Bobomurod2004/UzSWLU/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB opens a fresh in-memory database. Shared cache plus a single
// pooled connection keeps the database visible and consistent across the
// goroutines spawned by the concurrency tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:workflow%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Document{},
		&models.DocumentAssignment{},
		&models.Review{},
		&models.DocumentHistory{},
	))
	return db
}

func newTestService(t *testing.T) (*WorkflowService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewWorkflowService(db), db
}

func createUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := models.User{
		Email:      email,
		FullName:   email,
		Password:   "x",
		Role:       role,
		SoftDelete: models.SoftDelete{IsActive: true},
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	category := models.Category{Name: "Science", SoftDelete: models.SoftDelete{IsActive: true}}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func createDocument(t *testing.T, svc *WorkflowService, db *gorm.DB, owner *models.User) *models.Document {
	t.Helper()
	category := createCategory(t, db)
	doc, err := svc.CreateDocument(CreateDocumentInput{
		Title:            "Annual report",
		StoredPath:       "uploads/documents/report.pdf",
		OriginalFilename: "report.pdf",
		CategoryID:       category.CategoryID,
	}, owner)
	require.NoError(t, err)
	return doc
}

func reloadDocument(t *testing.T, db *gorm.DB, id int) *models.Document {
	t.Helper()
	var doc models.Document
	require.NoError(t, db.First(&doc, "document_id = ?", id).Error)
	return &doc
}

func assignments(t *testing.T, db *gorm.DB, documentID int) []models.DocumentAssignment {
	t.Helper()
	var rows []models.DocumentAssignment
	require.NoError(t, db.Where("document_id = ?", documentID).Order("assignment_id").Find(&rows).Error)
	return rows
}

func reviews(t *testing.T, db *gorm.DB, documentID int) []models.Review {
	t.Helper()
	var rows []models.Review
	require.NoError(t, db.Where("document_id = ?", documentID).Find(&rows).Error)
	return rows
}

func history(t *testing.T, db *gorm.DB, documentID int) []models.DocumentHistory {
	t.Helper()
	var rows []models.DocumentHistory
	require.NoError(t, db.Where("document_id = ?", documentID).Order("history_id").Find(&rows).Error)
	return rows
}

// startedReviewer walks a reviewer through assignment and start_review so
// tests can focus on submission.
func startedReviewer(t *testing.T, svc *WorkflowService, db *gorm.DB, doc *models.Document, email string, assigner *models.User) *models.User {
	t.Helper()
	reviewer := createUser(t, db, email, models.RoleReviewer)
	_, _, err := svc.AssignReviewers(doc.DocumentID, []int{reviewer.UserID}, assigner)
	require.NoError(t, err)
	_, err = svc.StartReview(doc.DocumentID, reviewer)
	require.NoError(t, err)
	return reviewer
}

func intPtr(v int) *int {
	return &v
}
