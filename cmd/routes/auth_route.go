package routes

import (
	"jobboard-service/cmd/controllers"
	"jobboard-service/internal/models"

	"github.com/gin-gonic/gin"
)

func AuthRoute(api *gin.RouterGroup, h Handlers) {
	limited := api.Group("")
	if h.Limiter != nil {
		limited.Use(h.Limiter.Middleware())
	}
	limited.POST("/register/company", h.Auth.RegisterCompany())
	limited.POST("/register/candidate", h.Auth.RegisterCandidate())
	limited.POST("/login", h.Auth.Login())
	limited.POST("/create-superadmin", h.Auth.CreateSuperadmin())

	api.GET("/verify-email/:token", h.Auth.VerifyEmail())
	api.POST("/logout", h.Auth.Logout())

	authed := api.Group("", controllers.Authenticate(h.Gate))

	admin := authed.Group("", controllers.RequireRoles(models.RoleAdmin))
	admin.POST("/register/employee", h.Auth.RegisterEmployee())
	admin.POST("/create/employee", h.Auth.CreateEmployee())
	admin.GET("/company/employees", h.Auth.CompanyEmployees())
	admin.PUT("/employees/:id/approve", h.Auth.ApproveEmployee())
	admin.PUT("/update/employee/:id", h.Auth.UpdateEmployee())
	admin.DELETE("/delete/employee/:id", h.Auth.DeleteEmployee())

	super := authed.Group("", controllers.RequireRoles(models.RoleSuperadmin))
	super.POST("/approve/company/:companyId", h.Auth.ApproveCompany())
	super.POST("/reject/company/:companyId", h.Auth.RejectCompany())
	super.GET("/pending/companies", h.Auth.PendingCompanies())
	super.GET("/approved/companies", h.Auth.ApprovedCompanies())
	super.GET("/admins", h.Auth.Admins())
	super.GET("/all", h.Auth.AllUsers())
	super.PUT("/admins/:adminId", h.Auth.UpdateAdmin())
	super.DELETE("/admins/:adminId", h.Auth.DeleteAdmin())
}
