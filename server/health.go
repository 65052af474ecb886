package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"app_name": s.cfg.AppName,
		"version":  s.cfg.AppVersion,
		"message":  "Auto Blog Publisher API is running",
	})
}

// handleHealthDetailed also probes Hashnode. Secrets are never echoed.
func (s *Server) handleHealthDetailed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	hashnode := gin.H{"status": "error", "publication": nil}
	if info, err := s.svc.PublicationInfo(ctx); err == nil {
		hashnode = gin.H{"status": "connected", "publication": info.Title}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"app_name": s.cfg.AppName,
		"version":  s.cfg.AppVersion,
		"services": gin.H{"hashnode": hashnode},
		"config": gin.H{
			"llm_provider":     s.cfg.LLM.Provider,
			"llm_model":        s.cfg.LLM.Model,
			"max_title_length": s.cfg.Limits.MaxTitleLength,
			"max_notes_length": s.cfg.Limits.MaxNotesLength,
		},
	})
}
