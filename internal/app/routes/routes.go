package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/edupath/internal/app/controllers"
	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/middleware"
	"github.com/yigit/edupath/internal/pkg/websocket"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	Wizard       *controllers.WizardController
	Application  *controllers.ApplicationController
	Notification *controllers.NotificationController
	Message      *controllers.MessageController
	Catalog      *controllers.CatalogController
	Agent        *controllers.AgentController
	Student      *controllers.StudentController
	Analytics    *controllers.AnalyticsController
	Contact      *controllers.ContactController
	Document     *controllers.DocumentController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	formLimiter gin.HandlerFunc,
	wsHandler *websocket.Handler,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", formLimiter, c.Auth.Register)
		auth.POST("/login", formLimiter, c.Auth.Login)
	}

	v1.GET("/universities", c.Catalog.ListUniversities)
	v1.GET("/universities/:id", c.Catalog.GetUniversity)
	v1.GET("/programs", c.Catalog.ListPrograms)
	v1.GET("/programs/:id", c.Catalog.GetProgram)
	v1.GET("/countries", c.Catalog.Countries)

	v1.POST("/contact", formLimiter, c.Contact.Submit)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/profile", c.Auth.Profile)
		authenticated.PUT("/auth/profile", c.Auth.UpdateProfile)
		authenticated.PUT("/auth/language", c.Auth.UpdateLanguage)

		authenticated.POST("/documents", c.Document.Upload)

		// Realtime conversation updates
		authenticated.GET("/ws", wsHandler.HandleConnection)

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", c.Notification.List)
			notifications.DELETE("", c.Notification.DeleteAll)
			notifications.GET("/unread-count", c.Notification.UnreadCount)
			notifications.PATCH("/read-all", c.Notification.MarkAllRead)
			notifications.PATCH("/:id/read", c.Notification.MarkRead)
			notifications.PATCH("/:id/important", c.Notification.ToggleImportant)
			notifications.DELETE("/:id", c.Notification.Delete)
		}

		conversations := authenticated.Group("/conversations/:id")
		{
			conversations.GET("/messages", c.Message.List)
			conversations.POST("/messages", c.Message.Send)
			conversations.POST("/read", c.Message.MarkRead)
		}
		authenticated.POST("/messages/attachments", c.Message.UploadAttachment)
		authenticated.DELETE("/messages/:id", c.Message.Delete)

		// Applications: students see their own, staff any
		authenticated.GET("/applications/:id", c.Application.Get)

		student := authenticated.Group("")
		student.Use(authMiddleware.RoleRequired(models.RoleStudent))
		{
			student.POST("/applications", c.Application.Submit)
			student.GET("/applications/mine", c.Application.ListMine)

			wizard := student.Group("/wizard/drafts")
			{
				wizard.POST("", c.Wizard.Start)
				wizard.GET("/:id", c.Wizard.Get)
				wizard.PUT("/:id/steps/:step", c.Wizard.SaveSection)
				wizard.POST("/:id/documents/:kind", c.Wizard.AttachDocument)
				wizard.POST("/:id/next", c.Wizard.Next)
				wizard.POST("/:id/back", c.Wizard.Back)
				wizard.POST("/:id/submit", c.Wizard.Submit)
			}
		}

		// Back-office: agents share read access, writes are admin only
		staff := authenticated.Group("/admin")
		staff.Use(authMiddleware.StaffRequired())
		{
			staff.GET("/applications", c.Application.List)
			staff.GET("/applications/:id", c.Application.Get)
			staff.GET("/students", c.Student.List)
			staff.GET("/students/:id", c.Student.Get)
			staff.GET("/conversations", c.Message.Conversations)
			staff.GET("/analytics", c.Analytics.Dashboard)
		}

		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.PATCH("/applications/:id/status", c.Application.UpdateStatus)
			admin.PATCH("/applications/:id/documents/:name", c.Application.UpdateDocument)
			admin.DELETE("/applications/:id", c.Application.Delete)

			admin.POST("/notifications", c.Notification.Create)

			admin.POST("/universities", c.Catalog.CreateUniversity)
			admin.PUT("/universities/:id", c.Catalog.UpdateUniversity)
			admin.DELETE("/universities/:id", c.Catalog.DeleteUniversity)
			admin.POST("/programs", c.Catalog.CreateProgram)
			admin.PUT("/programs/:id", c.Catalog.UpdateProgram)
			admin.DELETE("/programs/:id", c.Catalog.DeleteProgram)

			admin.GET("/agents", c.Agent.List)
			admin.GET("/agents/:id", c.Agent.Get)
			admin.POST("/agents", c.Agent.Create)
			admin.PUT("/agents/:id", c.Agent.Update)
			admin.DELETE("/agents/:id", c.Agent.Delete)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}
