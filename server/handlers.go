package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"auto_blog_publisher/blog"
	"auto_blog_publisher/generator"
	"auto_blog_publisher/logger"
	"auto_blog_publisher/publisher"
)

const (
	codeValidation = "VALIDATION_ERROR"
	codeInternal   = "INTERNAL_ERROR"
)

// publishReq is a previously generated post plus publish-only options.
type publishReq struct {
	generator.Post
	CoverImageURL string `json:"cover_image_url,omitempty"`
	IsFeatured    bool   `json:"is_featured,omitempty"`
}

type previewReq struct {
	Content string `json:"content"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	s.generate(c, s.svc.Generate)
}

func (s *Server) handleGenerateAndPublish(c *gin.Context) {
	s.generate(c, s.svc.GenerateAndPublish)
}

func (s *Server) generate(c *gin.Context, run func(context.Context, blog.Request) blog.Outcome) {
	var req blog.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	req, err := req.Normalize(blog.Limits{
		MaxTitleLength: s.cfg.Limits.MaxTitleLength,
		MaxNotesLength: s.cfg.Limits.MaxNotesLength,
	})
	if err != nil {
		validationError(c, err)
		return
	}

	c.JSON(http.StatusOK, run(c.Request.Context(), req))
}

func (s *Server) handlePublish(c *gin.Context) {
	var body publishReq
	if err := c.ShouldBindJSON(&body); err != nil {
		validationError(c, err)
		return
	}

	req := blog.PublishRequestFromPost(body.Post)
	req.CoverImageURL = body.CoverImageURL
	req.IsFeatured = body.IsFeatured

	res, err := s.svc.PublishExisting(c.Request.Context(), req)
	var pubErr *blog.PublishError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  res.Message,
			"post_id":  res.PostID,
			"post_url": res.PostURL,
		})
	case errors.Is(err, blog.ErrValidation):
		validationError(c, err)
	case errors.As(err, &pubErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":    false,
			"message":    pubErr.Message,
			"error_code": pubErr.Code,
		})
	default:
		s.log.Error("Error publishing to Hashnode", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":    false,
			"message":    "Publishing failed",
			"error_code": codeInternal,
		})
	}
}

func (s *Server) handlePublicationInfo(c *gin.Context) {
	info, err := s.svc.PublicationInfo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Could not fetch publication information",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "publication": info})
}

func (s *Server) handlePreview(c *gin.Context) {
	var req previewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	html, err := publisher.RenderHTML(req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "render failed", "error_code": codeInternal})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "html": html})
}

func validationError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success":    false,
		"message":    err.Error(),
		"error_code": codeValidation,
	})
}
