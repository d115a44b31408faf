package api

import (
	"boltfit/coaching-app/internal/domain"
	"boltfit/coaching-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	trainerService service.TrainerService,
	scheduleService service.ScheduleService,
	templateService service.TemplateService,
	clientService service.ClientService,
	chatService service.ChatService,
) {
	authHandler := NewAuthHandler(authService)
	trainerHandler := NewTrainerHandler(trainerService, scheduleService)
	templateHandler := NewTemplateHandler(templateService)
	clientHandler := NewClientHandler(clientService)
	chatHandler := NewChatHandler(chatService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Chat (both roles) ---
		chatGroup := protected.Group("/messages")
		{
			chatGroup.POST("", chatHandler.SendMessage)
			chatGroup.GET("/:userId", chatHandler.GetConversation)
			chatGroup.POST("/:userId/read", chatHandler.MarkConversationRead)
		}

		// --- Trainer Routes ---
		trainerGroup := protected.Group("/trainer", RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.POST("/clients", trainerHandler.AddClientByEmail)
			trainerGroup.GET("/clients", trainerHandler.GetManagedClients)
			trainerGroup.GET("/clients/:clientId/plans", trainerHandler.GetPlansForClient)
			trainerGroup.GET("/clients/:clientId/metrics/:type", trainerHandler.GetClientMetricSeries)
			trainerGroup.GET("/clients/:clientId/photos", trainerHandler.GetClientPhotos)

			trainerGroup.POST("/templates", templateHandler.CreateTemplate)
			trainerGroup.GET("/templates", templateHandler.GetTrainerTemplates)
			trainerGroup.PUT("/templates/:templateId", templateHandler.UpdateTemplate)
			trainerGroup.DELETE("/templates/:templateId", templateHandler.DeleteTemplate)

			trainerGroup.POST("/plans", trainerHandler.CreatePlan)
			trainerGroup.PUT("/plans/:planId", trainerHandler.UpdatePlan)
			trainerGroup.DELETE("/plans/:planId", trainerHandler.DeletePlan)

			// Schedule expansion: generating twice without regenerating
			// duplicates sessions; the regenerate endpoint is the normal flow
			// after editing a plan.
			trainerGroup.GET("/plans/:planId/sessions", trainerHandler.GetPlanSessions)
			trainerGroup.POST("/plans/:planId/sessions", trainerHandler.GenerateSessions)
			trainerGroup.POST("/plans/:planId/sessions/regenerate", trainerHandler.RegenerateSessions)
			trainerGroup.GET("/plans/:planId/sessions/preview", trainerHandler.PreviewSessions)
		}

		// --- Client Routes ---
		clientGroup := protected.Group("/client", RoleMiddleware(domain.RoleClient))
		{
			clientGroup.GET("/sessions", clientHandler.GetMySessions)
			clientGroup.PATCH("/sessions/:sessionId/status", clientHandler.SetSessionStatus)

			clientGroup.POST("/metrics", clientHandler.LogMetric)
			clientGroup.GET("/metrics/:type", clientHandler.GetMetricSeries)

			clientGroup.POST("/photos/upload-url", clientHandler.RequestPhotoUpload)
			clientGroup.POST("/photos/confirm", clientHandler.ConfirmPhotoUpload)
		}
	}
}
