package services

import (
	"testing"

	"github.com/Bobomurod2004/UzSWLU/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDocumentStartsAsNew(t *testing.T) {
	svc, db := newTestService(t)
	owner := createUser(t, db, "citizen@uzswlu.uz", models.RoleCitizen)

	doc := createDocument(t, svc, db, owner)
	assert.Equal(t, models.StatusNew, doc.Status)
	assert.Equal(t, owner.UserID, doc.OwnerID)
	assert.True(t, doc.IsActive)

	entries := history(t, db, doc.DocumentID)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].OldStatus)
	assert.Equal(t, models.StatusNew, entries[0].NewStatus)
	require.NotNil(t, entries[0].UserID)
	assert.Equal(t, owner.UserID, *entries[0].UserID)
}

func strPtr(v string) *string {
	return &v
}

func TestUpdateDocumentByOwnerWhileNew(t *testing.T) {
	svc, db := newTestService(t)
	owner := createUser(t, db, "citizen@uzswlu.uz", models.RoleCitizen)
	doc := createDocument(t, svc, db, owner)

	updated, err := svc.UpdateDocument(doc.DocumentID, UpdateDocumentInput{
		Title: strPtr("Annual report, corrected"),
	}, owner)
	require.NoError(t, err)
	assert.Equal(t, "Annual report, corrected", updated.Title)
	assert.Equal(t, models.StatusNew, updated.Status)

	reloaded := reloadDocument(t, db, doc.DocumentID)
	assert.Equal(t, "Annual report, corrected", reloaded.Title)

	entries := history(t, db, doc.DocumentID)
	require.Len(t, entries, 2)
	assert.Equal(t, "Document updated", entries[1].Comment)
	assert.Equal(t, models.StatusNew, entries[1].NewStatus)
}

func TestUpdateDocumentOwnerBlockedPastNew(t *testing.T) {
	svc, db := newTestService(t)
	owner := createUser(t, db, "citizen@uzswlu.uz", models.RoleCitizen)
	secretary := createUser(t, db, "kotib@uzswlu.uz", models.RoleSecretary)
	reviewer := createUser(t, db, "r1@uzswlu.uz", models.RoleReviewer)
	doc := createDocument(t, svc, db, owner)

	_, _, err := svc.AssignReviewers(doc.DocumentID, []int{reviewer.UserID}, secretary)
	require.NoError(t, err)

	_, err = svc.UpdateDocument(doc.DocumentID, UpdateDocumentInput{Title: strPtr("Too late")}, owner)
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, KindOf(err))
	assert.Equal(t, "Annual report", reloadDocument(t, db, doc.DocumentID).Title)

	// Staff may still edit a PENDING document.
	updated, err := svc.UpdateDocument(doc.DocumentID, UpdateDocumentInput{Title: strPtr("Retitled by staff")}, secretary)
	require.NoError(t, err)
	assert.Equal(t, "Retitled by staff", updated.Title)
	assert.Equal(t, models.StatusPending, reloadDocument(t, db, doc.DocumentID).Status)
}

func TestUpdateDocumentDeniedForOutsiders(t *testing.T) {
	svc, db := newTestService(t)
	owner := createUser(t, db, "citizen@uzswlu.uz", models.RoleCitizen)
	other := createUser(t, db, "other@uzswlu.uz", models.RoleCitizen)
	reviewer := createUser(t, db, "r1@uzswlu.uz", models.RoleReviewer)
	doc := createDocument(t, svc, db, owner)

	for _, actor := range []*models.User{other, reviewer} {
		_, err := svc.UpdateDocument(doc.DocumentID, UpdateDocumentInput{Title: strPtr("Hijacked")}, actor)
		require.Error(t, err, "actor %s", actor.Email)
		assert.Equal(t, KindInvalidRole, KindOf(err))
	}
	assert.Equal(t, "Annual report", reloadDocument(t, db, doc.DocumentID).Title)
}

func TestUpdateDocumentValidatesCategory(t *testing.T) {
	svc, db := newTestService(t)
	owner := createUser(t, db, "citizen@uzswlu.uz", models.RoleCitizen)
	doc := createDocument(t, svc, db, owner)

	_, err := svc.UpdateDocument(doc.DocumentID, UpdateDocumentInput{CategoryID: intPtr(4242)}, owner)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	second := createCategory(t, db)
	updated, err := svc.UpdateDocument(doc.DocumentID, UpdateDocumentInput{CategoryID: intPtr(second.CategoryID)}, owner)
	require.NoError(t, err)
	assert.Equal(t, second.CategoryID, updated.CategoryID)
}

func TestDeleteDocumentByOwnerWhileNew(t *testing.T) {
	svc, db := newTestService(t)
	owner := createUser(t, db, "citizen@uzswlu.uz", models.RoleCitizen)
	doc := createDocument(t, svc, db, owner)

	require.NoError(t, svc.DeleteDocument(doc.DocumentID, owner))

	// Tombstoned, not removed.
	reloaded := reloadDocument(t, db, doc.DocumentID)
	assert.False(t, reloaded.IsActive)
	assert.NotNil(t, reloaded.DeletedAt)

	// Gone from the workflow's point of view.
	_, err := svc.GetDocument(doc.DocumentID, owner)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDeleteDocumentOwnerBlockedPastNew(t *testing.T) {
	svc, db := newTestService(t)
	owner := createUser(t, db, "citizen@uzswlu.uz", models.RoleCitizen)
	manager := createUser(t, db, "rais@uzswlu.uz", models.RoleManager)
	reviewer := createUser(t, db, "r1@uzswlu.uz", models.RoleReviewer)
	doc := createDocument(t, svc, db, owner)

	_, _, err := svc.AssignReviewers(doc.DocumentID, []int{reviewer.UserID}, manager)
	require.NoError(t, err)

	err = svc.DeleteDocument(doc.DocumentID, owner)
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, KindOf(err))
	assert.True(t, reloadDocument(t, db, doc.DocumentID).IsActive)

	// A manager may still delete it.
	require.NoError(t, svc.DeleteDocument(doc.DocumentID, manager))
	assert.False(t, reloadDocument(t, db, doc.DocumentID).IsActive)
}

func TestDeleteDocumentStrangerDenied(t *testing.T) {
	svc, db := newTestService(t)
	owner := createUser(t, db, "citizen@uzswlu.uz", models.RoleCitizen)
	other := createUser(t, db, "other@uzswlu.uz", models.RoleCitizen)
	doc := createDocument(t, svc, db, owner)

	err := svc.DeleteDocument(doc.DocumentID, other)
	require.Error(t, err)
	assert.Equal(t, KindInvalidRole, KindOf(err))
	assert.True(t, reloadDocument(t, db, doc.DocumentID).IsActive)
}

func TestDocumentVisibilityPerRole(t *testing.T) {
	svc, db := newTestService(t)
	owner := createUser(t, db, "citizen@uzswlu.uz", models.RoleCitizen)
	other := createUser(t, db, "other@uzswlu.uz", models.RoleCitizen)
	secretary := createUser(t, db, "kotib@uzswlu.uz", models.RoleSecretary)
	manager := createUser(t, db, "rais@uzswlu.uz", models.RoleManager)
	assigned := createUser(t, db, "r1@uzswlu.uz", models.RoleReviewer)
	unassigned := createUser(t, db, "r2@uzswlu.uz", models.RoleReviewer)

	doc := createDocument(t, svc, db, owner)
	_, _, err := svc.AssignReviewers(doc.DocumentID, []int{assigned.UserID}, manager)
	require.NoError(t, err)

	for _, actor := range []*models.User{owner, secretary, manager, assigned} {
		got, err := svc.GetDocument(doc.DocumentID, actor)
		require.NoError(t, err, "actor %s", actor.Email)
		assert.Equal(t, doc.DocumentID, got.DocumentID)
	}

	// An unrelated citizen and an unassigned reviewer both get NotFound, not
	// a permission error: the document's existence is not leaked.
	for _, actor := range []*models.User{other, unassigned} {
		_, err := svc.GetDocument(doc.DocumentID, actor)
		require.Error(t, err, "actor %s", actor.Email)
		assert.Equal(t, KindNotFound, KindOf(err))
	}
}

func TestGetDocumentPreloadsRelations(t *testing.T) {
	svc, db := newTestService(t)
	owner := createUser(t, db, "citizen@uzswlu.uz", models.RoleCitizen)
	manager := createUser(t, db, "rais@uzswlu.uz", models.RoleManager)
	doc := createDocument(t, svc, db, owner)
	reviewer := startedReviewer(t, svc, db, doc, "r1@uzswlu.uz", manager)

	_, err := svc.SubmitVerdict(doc.DocumentID, reviewer, SubmitVerdictInput{
		FilePath: "uploads/reviews/r1.pdf",
		Score:    intPtr(77),
	})
	require.NoError(t, err)

	got, err := svc.GetDocument(doc.DocumentID, manager)
	require.NoError(t, err)
	require.NotNil(t, got.Owner)
	assert.Equal(t, owner.Email, got.Owner.Email)
	require.Len(t, got.Assignments, 1)
	require.NotNil(t, got.Assignments[0].Reviewer)
	require.Len(t, got.Reviews, 1)
	assert.NotEmpty(t, got.History)
}

func TestListDocumentsFilters(t *testing.T) {
	svc, db := newTestService(t)
	owner := createUser(t, db, "citizen@uzswlu.uz", models.RoleCitizen)
	manager := createUser(t, db, "rais@uzswlu.uz", models.RoleManager)
	reviewer := createUser(t, db, "r1@uzswlu.uz", models.RoleReviewer)

	docA := createDocument(t, svc, db, owner)
	docB := createDocument(t, svc, db, owner)
	_, _, err := svc.AssignReviewers(docA.DocumentID, []int{reviewer.UserID}, manager)
	require.NoError(t, err)

	all, err := svc.ListDocuments(manager, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := svc.ListDocuments(manager, ListFilter{Status: models.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, docA.DocumentID, pending[0].DocumentID)

	byCategory, err := svc.ListDocuments(manager, ListFilter{CategoryID: docB.CategoryID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, docB.DocumentID, byCategory[0].DocumentID)

	// The reviewer only sees the assigned document.
	mine, err := svc.ListDocuments(reviewer, ListFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, docA.DocumentID, mine[0].DocumentID)
}

func TestStatsScopedToVisibleDocuments(t *testing.T) {
	svc, db := newTestService(t)
	owner := createUser(t, db, "citizen@uzswlu.uz", models.RoleCitizen)
	other := createUser(t, db, "other@uzswlu.uz", models.RoleCitizen)
	manager := createUser(t, db, "rais@uzswlu.uz", models.RoleManager)
	reviewer := createUser(t, db, "r1@uzswlu.uz", models.RoleReviewer)

	mine := createDocument(t, svc, db, owner)
	createDocument(t, svc, db, other)
	_, _, err := svc.AssignReviewers(mine.DocumentID, []int{reviewer.UserID}, manager)
	require.NoError(t, err)

	managerStats, err := svc.Stats(manager)
	require.NoError(t, err)
	assert.EqualValues(t, 2, managerStats.Total)
	assert.EqualValues(t, 1, managerStats.New)
	assert.EqualValues(t, 1, managerStats.Pending)

	ownerStats, err := svc.Stats(owner)
	require.NoError(t, err)
	assert.EqualValues(t, 1, ownerStats.Total)
	assert.EqualValues(t, 1, ownerStats.Pending)

	reviewerStats, err := svc.Stats(reviewer)
	require.NoError(t, err)
	assert.EqualValues(t, 1, reviewerStats.Total)
}

func TestHistoryRecordsEveryTransition(t *testing.T) {
	svc, db := newTestService(t)
	owner := createUser(t, db, "citizen@uzswlu.uz", models.RoleCitizen)
	manager := createUser(t, db, "rais@uzswlu.uz", models.RoleManager)
	doc := createDocument(t, svc, db, owner)
	reviewer := startedReviewer(t, svc, db, doc, "r1@uzswlu.uz", manager)

	_, err := svc.SubmitVerdict(doc.DocumentID, reviewer, SubmitVerdictInput{FilePath: "uploads/reviews/r1.pdf"})
	require.NoError(t, err)
	_, err = svc.Finalize(doc.DocumentID, manager, DecisionApprove, "")
	require.NoError(t, err)

	// created, assigned, started, fully reviewed, approved
	entries := history(t, db, doc.DocumentID)
	require.Len(t, entries, 5)

	statuses := make([]string, 0, len(entries))
	for _, entry := range entries {
		statuses = append(statuses, entry.NewStatus)
	}
	assert.Equal(t, []string{
		models.StatusNew,
		models.StatusPending,
		models.StatusUnderReview,
		models.StatusReviewed,
		models.StatusApproved,
	}, statuses)

	// Each entry chains from the previous status.
	assert.Nil(t, entries[0].OldStatus)
	for i := 1; i < len(entries); i++ {
		require.NotNil(t, entries[i].OldStatus)
		assert.Equal(t, entries[i-1].NewStatus, *entries[i].OldStatus)
	}
}
