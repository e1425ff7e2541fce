package routes

import (
	"github.com/Bobomurod2004/UzSWLU/controllers"
	"github.com/Bobomurod2004/UzSWLU/middleware"
	"github.com/Bobomurod2004/UzSWLU/models"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "UzSWLU document review API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", controllers.GetProfile)

			// Categories: everyone reads, only admins manage
			protected.GET("/categories", controllers.GetCategories)
			protected.POST("/categories", middleware.RequireRole(models.RoleSuperAdmin), controllers.CreateCategory)
			protected.PUT("/categories/:id", middleware.RequireRole(models.RoleSuperAdmin), controllers.UpdateCategory)
			protected.DELETE("/categories/:id", middleware.RequireRole(models.RoleSuperAdmin), controllers.DeleteCategory)

			// Documents and the review workflow
			documents := protected.Group("/documents")
			{
				documents.GET("", controllers.GetDocuments)
				documents.GET("/stats", controllers.GetDocumentStats)
				documents.GET("/:id", controllers.GetDocument)
				documents.GET("/:id/history", controllers.GetDocumentHistory)

				// Citizens submit documents; edit and deletion rights are
				// checked in the workflow service (owner while NEW, staff
				// always).
				documents.POST("", middleware.RequireRole(models.RoleCitizen), controllers.CreateDocument)
				documents.PUT("/:id", controllers.UpdateDocument)
				documents.DELETE("/:id", controllers.DeleteDocument)

				// Staff attach reviewers
				documents.POST("/:id/assign",
					middleware.RequireRole(models.RoleManager, models.RoleSecretary),
					controllers.AssignReviewers)

				// Reviewers work their assignments
				documents.POST("/:id/start-review",
					middleware.RequireRole(models.RoleReviewer),
					controllers.StartReview)
				documents.POST("/:id/submit-review",
					middleware.RequireRole(models.RoleReviewer),
					controllers.SubmitReview)

				// The manager issues the final decision
				documents.POST("/:id/finalize",
					middleware.RequireRole(models.RoleManager),
					controllers.FinalizeDocument)
			}
		}
	}
}
