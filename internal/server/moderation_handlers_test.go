package server

import (
	"fmt"
	"net/http"
	"testing"

	"starprep/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModerationHandlers(t *testing.T) {
	s, db := newTestServer(t)
	admin := createTestUser(t, db, "admin", true)
	author := createTestUser(t, db, "author", false)

	pending := &models.Question{OwnerID: author.ID, Title: "Awaiting review", IsPublic: true, Status: models.StatusPending}
	require.NoError(t, db.Create(pending).Error)

	var userID uint
	app := newTestApp(s, &userID)
	approvePath := fmt.Sprintf("/api/questions/%d/approve", pending.ID)

	t.Run("non-admin gets 403", func(t *testing.T) {
		userID = author.ID
		resp, _ := doJSON(t, app, http.MethodPost, approvePath, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin approves", func(t *testing.T) {
		userID = admin.ID
		resp, body := doJSON(t, app, http.MethodPost, approvePath, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["changed"])

		var stored models.Question
		require.NoError(t, db.First(&stored, pending.ID).Error)
		assert.Equal(t, models.StatusApproved, stored.Status)
	})

	t.Run("repeat approval is a reported no-op", func(t *testing.T) {
		userID = admin.ID
		resp, body := doJSON(t, app, http.MethodPost, approvePath, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, false, body["changed"])
		assert.Contains(t, body["message"], "already")
	})

	t.Run("deny flips an approved question", func(t *testing.T) {
		userID = admin.ID
		resp, body := doJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/questions/%d/deny", pending.ID), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["changed"])
	})

	t.Run("safe next target is echoed", func(t *testing.T) {
		userID = admin.ID
		resp, body := doJSON(t, app, http.MethodPost, approvePath+"?next=/admin/queue", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "/admin/queue", body["next"])
	})

	t.Run("hostile next target is dropped", func(t *testing.T) {
		userID = admin.ID
		resp, body := doJSON(t, app, http.MethodPost, approvePath+"?next=https://evil.example/phish", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_, hasNext := body["next"]
		assert.False(t, hasNext)
	})

	t.Run("missing question is 404", func(t *testing.T) {
		userID = admin.ID
		resp, _ := doJSON(t, app, http.MethodPost, "/api/questions/9999/approve", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSaveQuestionHandler(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author", false)
	saver := createTestUser(t, db, "saver", false)

	tag := &models.Tag{Name: "Behavioral", Slug: "behavioral", IsPublic: true}
	require.NoError(t, db.Create(tag).Error)
	source := &models.Question{
		OwnerID: author.ID, Title: "Tell me about yourself",
		Body: "The classic opener.", IsPublic: true, Status: models.StatusApproved,
		Tags: []models.Tag{*tag},
	}
	require.NoError(t, db.Create(source).Error)

	userID := saver.ID
	app := newTestApp(s, &userID)
	path := fmt.Sprintf("/api/questions/%d/save", source.ID)

	t.Run("first save creates a private copy", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, path, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, false, body["already_saved"])

		var copies []models.Question
		require.NoError(t, db.Preload("Tags").
			Where("owner_id = ? AND title = ?", saver.ID, source.Title).
			Find(&copies).Error)
		require.Len(t, copies, 1)
		assert.Empty(t, copies[0].Body)
		assert.False(t, copies[0].IsPublic)
		assert.Equal(t, models.StatusApproved, copies[0].Status)
		require.Len(t, copies[0].Tags, 1)
		assert.Equal(t, "Behavioral", copies[0].Tags[0].Name)
	})

	t.Run("second save reports already_saved", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["already_saved"])

		var count int64
		require.NoError(t, db.Model(&models.Question{}).
			Where("owner_id = ? AND title = ?", saver.ID, source.Title).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("safe next target is echoed on save", func(t *testing.T) {
		second := &models.Question{
			OwnerID: author.ID, Title: "Biggest weakness",
			IsPublic: true, Status: models.StatusApproved,
		}
		require.NoError(t, db.Create(second).Error)

		userID = saver.ID
		resp, body := doJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/questions/%d/save?next=/library", second.ID), nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "/library", body["next"])
		result := body["result"].(map[string]interface{})
		assert.Equal(t, false, result["already_saved"])
	})

	t.Run("hostile next target is dropped on save", func(t *testing.T) {
		userID = saver.ID
		resp, body := doJSON(t, app, http.MethodPost, path+"?next=https://evil.example/phish", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_, hasNext := body["next"]
		assert.False(t, hasNext)
		assert.Equal(t, true, body["already_saved"])
	})

	t.Run("author cannot save own question", func(t *testing.T) {
		userID = author.ID
		resp, _ := doJSON(t, app, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
