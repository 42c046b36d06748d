package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/personal-blog-api/internal/config"
	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/repository"
	"github.com/personal-blog-api/internal/service"
	"github.com/rs/zerolog"
)

const commentSubmittedMessage = "Your comment has been submitted and is awaiting moderation."

// BlogHandler serves the public site
type BlogHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *BlogHandler {
	return &BlogHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "blog").Logger(),
	}
}

// Index handles GET /
func (h *BlogHandler) Index(c *gin.Context) {
	page, err := h.services.Posts.List(c.Request.Context(),
		repository.PostFilter{Visibility: repository.Public},
		pageRequest(c, h.cfg.Pagination.PublicPosts))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.MapPage(page, (*models.PostSummary).Public))
}

// Show handles GET /blog/:post where :post is a slug
func (h *BlogHandler) Show(c *gin.Context) {
	detail, err := h.services.Posts.GetBySlug(c.Request.Context(), c.Param("post"), repository.Public)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	comments := make([]models.PublicComment, 0, len(detail.Comments))
	for _, comment := range detail.Comments {
		if !comment.IsPublic() {
			continue
		}
		comments = append(comments, comment.Public())
	}
	c.JSON(http.StatusOK, gin.H{
		"post":     detail.Post,
		"author":   detail.Author,
		"comments": comments,
	})
}

// StoreComment handles POST /blog/:post/comments where :post is a post id.
// Accepts JSON or form bodies.
func (h *BlogHandler) StoreComment(c *gin.Context) {
	postID, ok := idParam(c, "post")
	if !ok {
		return
	}

	var in models.CommentInput
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.services.Comments.Submit(c.Request.Context(), postID, &in, c.ClientIP())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": commentSubmittedMessage,
		"comment": comment.Public(),
	})
}
