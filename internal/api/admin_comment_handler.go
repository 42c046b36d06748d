package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/personal-blog-api/internal/config"
	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/service"
	"github.com/rs/zerolog"
)

// AdminCommentHandler handles the moderation queue
type AdminCommentHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAdminCommentHandler creates a new AdminCommentHandler
func NewAdminCommentHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AdminCommentHandler {
	return &AdminCommentHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "admin_comments").Logger(),
	}
}

// Index handles GET /admin/comments?status=&page=. The queue shows pending
// comments unless another status (or "all") is asked for.
func (h *AdminCommentHandler) Index(c *gin.Context) {
	status := c.DefaultQuery("status", string(models.CommentStatusPending))

	page, err := h.services.Comments.ListAll(c.Request.Context(), status,
		pageRequest(c, h.cfg.Pagination.AdminComments))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Show handles GET /admin/comments/:id
func (h *AdminCommentHandler) Show(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.services.Comments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

type moderateRequest struct {
	Status string `json:"status" form:"status"`
}

// moderationStatus reads the requested status from a JSON or form body. A JSON
// status that is not a string is passed on as text so that it fails
// validation like any other unknown status.
func moderationStatus(c *gin.Context) (string, error) {
	if c.ContentType() != binding.MIMEJSON {
		var req moderateRequest
		if err := c.ShouldBind(&req); err != nil {
			return "", err
		}
		return req.Status, nil
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		return "", err
	}
	switch v := body["status"].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Update handles PATCH /admin/comments/:id
func (h *AdminCommentHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	status, err := moderationStatus(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	outcome, err := h.services.Moderation.Moderate(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// Destroy handles DELETE /admin/comments/:id
func (h *AdminCommentHandler) Destroy(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Comments.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully."})
}
