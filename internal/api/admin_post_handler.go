package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/personal-blog-api/internal/config"
	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/repository"
	"github.com/personal-blog-api/internal/service"
	"github.com/rs/zerolog"
)

// postForm describes the post editor: allowed statuses and field limits
var postForm = gin.H{
	"statuses": []models.PostStatus{
		models.PostStatusDraft,
		models.PostStatusPublished,
		models.PostStatusArchived,
	},
	"limits": gin.H{
		"title":            255,
		"slug":             255,
		"excerpt":          500,
		"meta_title":       60,
		"meta_description": 160,
		"featured_image":   255,
	},
	"required": []string{"title", "excerpt", "content", "status"},
}

// AdminPostHandler handles post authoring in the admin panel
type AdminPostHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAdminPostHandler creates a new AdminPostHandler
func NewAdminPostHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AdminPostHandler {
	return &AdminPostHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "admin_posts").Logger(),
	}
}

// Index handles GET /admin/blog-posts?status=&page=
func (h *AdminPostHandler) Index(c *gin.Context) {
	filter := repository.PostFilter{Visibility: repository.Admin}
	if status := c.Query("status"); status != "" {
		if !models.ValidPostStatuses[models.PostStatus(status)] {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": invalidDataMessage,
				"errors":  gin.H{"status": []string{"The selected status is invalid."}},
			})
			return
		}
		filter.Status = models.PostStatus(status)
	}

	page, err := h.services.Posts.List(c.Request.Context(), filter, pageRequest(c, h.cfg.Pagination.AdminPosts))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Create handles GET /admin/blog-posts/create
func (h *AdminPostHandler) Create(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": postForm})
}

// Store handles POST /admin/blog-posts
func (h *AdminPostHandler) Store(c *gin.Context) {
	var in models.PostInput
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.services.Posts.Create(c.Request.Context(), actorFrom(c), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Blog post created successfully.",
		"post":    post,
	})
}

// Show handles GET /admin/blog-posts/:id with every comment regardless of status
func (h *AdminPostHandler) Show(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.services.Posts.Get(c.Request.Context(), strconv.FormatInt(id, 10), repository.Admin)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Edit handles GET /admin/blog-posts/:id/edit
func (h *AdminPostHandler) Edit(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	post, err := h.services.Posts.GetByID(c.Request.Context(), id, repository.Admin)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "form": postForm})
}

// Update handles PUT /admin/blog-posts/:id
func (h *AdminPostHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var in models.PostInput
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.services.Posts.Update(c.Request.Context(), id, &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Blog post updated successfully.",
		"post":    post,
	})
}

// Destroy handles DELETE /admin/blog-posts/:id. Comments go with the post.
func (h *AdminPostHandler) Destroy(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Posts.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog post deleted successfully."})
}
