package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/handlers/dto"
	"github.com/thereayou/microblog/internal/middleware"
	"github.com/thereayou/microblog/internal/models"
	"github.com/thereayou/microblog/internal/search"
)

type PostHandler struct {
	db      *database.Database
	index   search.Index
	perPage int
}

func NewPostHandler(db *database.Database, index search.Index, perPage int) *PostHandler {
	return &PostHandler{db: db, index: index, perPage: perPage}
}

// CreatePost публикует пост и зеркалирует его в поисковый индекс.
// Индекс обновляется только после успешного коммита; его отказ не
// откатывает пост, но возвращается вызывающему.
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.PostPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := &models.Post{
		Body:      req.Body,
		Language:  detectLanguage(req.Body),
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	cs, err := h.db.Write(func(tx *gorm.DB, cs *search.ChangeSet) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		cs.StageInsert(post)
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save post"})
		return
	}

	if err := search.Sync(h.index, cs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to index post"})
		return
	}

	full, err := h.db.GetPost(post.ID.String())
	if err != nil {
		full = post
	}

	c.JSON(http.StatusCreated, formatPostResponse(full))
}

// Feed — лента текущего пользователя: свои посты и посты подписок
func (h *PostHandler) Feed(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)
	page := pageParam(c)

	posts, total, err := h.db.FollowedPosts(userID.String(), page, h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feed"})
		return
	}

	c.JSON(http.StatusOK, paginatedPosts(posts, total, page, h.perPage))
}

// Explore — все посты, новые первыми
func (h *PostHandler) Explore(c *gin.Context) {
	page := pageParam(c)

	posts, total, err := h.db.AllPosts(page, h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}

	c.JSON(http.StatusOK, paginatedPosts(posts, total, page, h.perPage))
}

// UserPosts — посты конкретного пользователя
func (h *PostHandler) UserPosts(c *gin.Context) {
	user, err := h.db.FindUserByUsername(c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	page := pageParam(c)
	posts, total, err := h.db.UserPosts(user.ID.String(), page, h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load posts"})
		return
	}

	c.JSON(http.StatusOK, paginatedPosts(posts, total, page, h.perPage))
}

// Search ищет посты; порядок результата — ранжирование индекса
func (h *PostHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	page := pageParam(c)
	posts, total, err := h.db.SearchPosts(h.index, query, page, h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, paginatedPosts(posts, total, page, h.perPage))
}

// detectLanguage определяет язык поста, пустая строка если ненадёжно
func detectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	code := info.Lang.Iso6391()
	if len(code) > 5 {
		return ""
	}
	return code
}

func pageParam(c *gin.Context) int {
	page := 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return page
}

func paginatedPosts(posts []models.Post, total int64, page, perPage int) gin.H {
	result := make([]gin.H, len(posts))
	for i := range posts {
		result[i] = formatPostResponse(&posts[i])
	}
	return gin.H{
		"posts":    result,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	}
}

// formatPostResponse форматирует ответ для поста
func formatPostResponse(post *models.Post) gin.H {
	response := gin.H{
		"id":         post.ID,
		"user_id":    post.UserID,
		"body":       post.Body,
		"language":   post.Language,
		"created_at": post.CreatedAt,
	}

	// Если загружена информация об авторе
	if post.Author.ID != uuid.Nil {
		response["author"] = gin.H{
			"id":         post.Author.ID,
			"username":   post.Author.Username,
			"avatar_url": post.Author.AvatarURL(128),
		}
	}

	return response
}
