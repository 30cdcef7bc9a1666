package routes

import (
	"jobboard-service/cmd/controllers"
	"jobboard-service/internal/models"

	"github.com/gin-gonic/gin"
)

func JobRoute(api *gin.RouterGroup, h Handlers) {
	jobs := api.Group("/jobs", controllers.Authenticate(h.Gate))

	jobs.GET("/me", h.Auth.Me())
	jobs.POST("/:id/apply", h.Jobs.Apply())
	jobs.POST("/postjob", controllers.RequireRoles(models.RoleAdmin, models.RoleSuperadmin, models.RoleEmployee), h.Jobs.PostJob())
	jobs.GET("/all", controllers.RequireRoles(models.RoleCandidate, models.RoleAdmin, models.RoleEmployee), h.Jobs.ListJobs())

	owners := jobs.Group("", controllers.RequireRoles(models.RoleAdmin, models.RoleEmployee))
	owners.PUT("/:jobId", h.Jobs.UpdateJob())
	owners.DELETE("/:jobId", h.Jobs.DeleteJob())
}
