package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnsphere/assessment-client/internal/session"
	"github.com/learnsphere/assessment-client/internal/utils"
	"github.com/learnsphere/assessment-client/internal/validator"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
}

func NewHandlerManager(manager *session.Manager, v *validator.Validator, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(manager, v, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RequireUser())
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/navigate", hm.sessionHandler.Navigate)
			sessions.PUT("/:id/answers/:question_id", hm.sessionHandler.RecordAnswer)
			sessions.POST("/:id/submit", hm.sessionHandler.Submit)
			sessions.GET("/:id/report", hm.sessionHandler.DownloadReport)
			sessions.DELETE("/:id", hm.sessionHandler.CloseSession)
		}
	}
}

// HealthCheck reports service liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
