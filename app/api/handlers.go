package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kolkata-chronicle/newsdesk/app/record"
	"github.com/kolkata-chronicle/newsdesk/app/storage"
)

func NewHandler(store *record.RecordStore, st storage.Store) *Handler {
	return &Handler{
		store:   store,
		storage: st,
	}
}

func (h *Handler) ListArticles(c *gin.Context) {
	var articles []record.Article

	switch {
	case c.Query("status") != "":
		articles = h.store.GetArticlesByStatus(c.Query("status"))
	case c.Query("author") != "":
		authorID, err := strconv.ParseInt(c.Query("author"), 10, 64)
		if err != nil {
			articles = []record.Article{}
		} else {
			articles = h.store.GetArticlesByAuthor(authorID)
		}
	default:
		articles = h.store.GetArticles()
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"total":    len(articles),
	})
}

func (h *Handler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	article, err := h.store.GetArticleByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users := h.store.GetUsers()
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user, err := h.store.GetUserByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) GetUserByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email parameter"})
		return
	}

	user, err := h.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, record.ErrInvalidRecord) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email parameter"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.GetStats())
}

func (h *Handler) GetAuthorStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		// An unparseable author id yields the zero result, like an
		// unknown one
		c.JSON(http.StatusOK, record.AuthorStats{})
		return
	}

	c.JSON(http.StatusOK, h.store.GetAuthorStats(id))
}

func (h *Handler) HealthCheck(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	stats := h.store.GetStats()
	health["articles"] = stats.TotalArticles
	health["authors"] = stats.TotalAuthors

	if keys, bytes, err := h.storage.Stats(); err == nil {
		health["storage"] = map[string]interface{}{
			"keys":  keys,
			"bytes": bytes,
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) CreateArticle(c *gin.Context) {
	var input record.Article
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article payload", "details": err.Error()})
		return
	}

	created, err := h.store.AddArticle(input)
	if err != nil {
		slog.Error("Failed to create article", "error", err)
		h.writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	var updates map[string]json.RawMessage
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update payload", "details": err.Error()})
		return
	}

	if err := h.store.UpdateArticle(id, updates); err != nil {
		slog.Error("Failed to update article", "id", id, "error", err)
		h.writeStoreError(c, err)
		return
	}

	article, err := h.store.GetArticleByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Article vanished after update"})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) UpdateArticleStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status payload", "details": err.Error()})
		return
	}

	if err := h.store.UpdateArticleStatus(id, req.Status); err != nil {
		slog.Error("Failed to update article status", "id", id, "status", req.Status, "error", err)
		h.writeStoreError(c, err)
		return
	}

	article, err := h.store.GetArticleByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Article vanished after update"})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) DeleteArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if err := h.store.DeleteArticle(id); err != nil {
		slog.Error("Failed to delete article", "id", id, "error", err)
		h.writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ExportData(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.ExportData())
}

func (h *Handler) ImportData(c *gin.Context) {
	var snap record.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid import payload", "details": err.Error()})
		return
	}

	if err := h.store.ImportData(snap); err != nil {
		slog.Error("Import failed", "error", err)
		h.writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"articles": len(snap.Articles),
		"users":    len(snap.Users),
	})
}

func (h *Handler) ResetData(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Confirmation required",
			"message": "Send {\"confirm\": true} to erase all data and restore the seed dataset",
		})
		return
	}

	if err := h.store.ClearAllData(); err != nil {
		slog.Error("Reset failed", "error", err)
		h.writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// writeStoreError maps store errors onto HTTP statuses. Persistence
// failures surface as 507 so the front end can tell the user the
// device store is full.
func (h *Handler) writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, record.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, record.ErrInvalidRecord):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record", "details": err.Error()})
	case errors.Is(err, storage.ErrQuotaExceeded):
		c.JSON(http.StatusInsufficientStorage, gin.H{"error": "Storage full", "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
