package controllers

import (
	"net/http"
	"time"

	"jobboard-service/internal/accounts"
	"jobboard-service/internal/auth"
	"jobboard-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AuthController serves registration, login and account administration.
type AuthController struct {
	accounts     *accounts.Service
	gate         *auth.Gate
	cookieMaxAge time.Duration
	secureCookie bool
	// frontendURL receives verify-email redirects; empty means answer JSON
	frontendURL string
}

func NewAuthController(svc *accounts.Service, gate *auth.Gate, cookieMaxAge time.Duration, secureCookie bool, frontendURL string) *AuthController {
	return &AuthController{
		accounts:     svc,
		gate:         gate,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
		frontendURL:  frontendURL,
	}
}

func registrationData(reg *accounts.Registration) map[string]interface{} {
	return map[string]interface{}{"user": reg.User, "emailVerificationLink": reg.VerificationLink}
}

func (a *AuthController) RegisterCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if !bindJSON(c, &req) {
			return
		}
		reg, err := a.accounts.RegisterCompany(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, "Company registered successfully. Please verify your email.", registrationData(reg))
	}
}

func (a *AuthController) RegisterCandidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if !bindJSON(c, &req) {
			return
		}
		reg, err := a.accounts.RegisterCandidate(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, "Candidate registered successfully. Please verify your email to login.", registrationData(reg))
	}
}

func (a *AuthController) RegisterEmployee() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if !bindJSON(c, &req) {
			return
		}
		employee, err := a.accounts.RegisterEmployee(c.Request.Context(), CurrentPrincipal(c).User, req)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, "Employee registered successfully and is pending Company approval.",
			map[string]interface{}{"user": employee})
	}
}

func (a *AuthController) CreateEmployee() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateEmployeeRequest
		if !bindJSON(c, &req) {
			return
		}
		employee, err := a.accounts.CreateEmployee(c.Request.Context(), CurrentPrincipal(c).User, req)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, "Employee created successfully", map[string]interface{}{"employee": employee})
	}
}

func (a *AuthController) CreateSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := a.accounts.BootstrapSuperadmin(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, "Superadmin created successfully", map[string]interface{}{"user": user})
	}
}

// VerifyEmail redirects to the frontend when one is configured.
func (a *AuthController) VerifyEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := a.accounts.VerifyEmail(c.Request.Context(), c.Param("token"))
		if a.frontendURL != "" {
			target := a.frontendURL + "/verify-success"
			if err != nil {
				log.Info().Err(err).Msg("Email verification failed")
				target = a.frontendURL + "/verify-failed"
			}
			c.Redirect(http.StatusFound, target)
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Email verified successfully", map[string]interface{}{"user": user})
	}
}

func (a *AuthController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if !bindJSON(c, &req) {
			return
		}
		result, err := a.accounts.Login(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		a.setTokenCookie(c, result.Token, int(a.cookieMaxAge.Seconds()))
		respond(c, http.StatusOK, "Login successful", map[string]interface{}{
			"token":     result.Token,
			"expiresAt": result.ExpiresAt,
			"user":      result.User,
		})
	}
}

// Logout clears the cookie and revokes the presented session if there is one.
func (a *AuthController) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := TokenFromRequest(c); token != "" {
			if err := a.gate.Revoke(c.Request.Context(), token); err != nil {
				log.Warn().Err(err).Msg("Could not revoke session")
			}
		}
		a.setTokenCookie(c, "", -1)
		respond(c, http.StatusOK, "Logged out successfully", nil)
	}
}

func (a *AuthController) setTokenCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, value, maxAge, "/", "", a.secureCookie, true)
}

// Me returns the authenticated account.
func (a *AuthController) Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, http.StatusOK, "success", map[string]interface{}{"user": CurrentPrincipal(c).View()})
	}
}

func (a *AuthController) ApproveCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		company, err := a.accounts.ApproveCompany(c.Request.Context(), CurrentPrincipal(c).User, c.Param("companyId"))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Company approved successfully", map[string]interface{}{"company": company})
	}
}

func (a *AuthController) RejectCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		company, err := a.accounts.RejectCompany(c.Request.Context(), c.Param("companyId"))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Company rejected", map[string]interface{}{"company": company})
	}
}

func (a *AuthController) ApproveEmployee() gin.HandlerFunc {
	return func(c *gin.Context) {
		employee, err := a.accounts.ApproveEmployee(c.Request.Context(), CurrentPrincipal(c).User, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Employee approved successfully", map[string]interface{}{"employee": employee})
	}
}

func (a *AuthController) UpdateEmployee() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateEmployeeRequest
		if !bindJSON(c, &req) {
			return
		}
		employee, err := a.accounts.UpdateEmployee(c.Request.Context(), CurrentPrincipal(c).User, c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Employee updated successfully", map[string]interface{}{"employee": employee})
	}
}

func (a *AuthController) DeleteEmployee() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.accounts.DeleteEmployee(c.Request.Context(), CurrentPrincipal(c).User, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Employee deleted successfully", nil)
	}
}

func (a *AuthController) CompanyEmployees() gin.HandlerFunc {
	return func(c *gin.Context) {
		employees, err := a.accounts.CompanyEmployees(c.Request.Context(), CurrentPrincipal(c).User)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "success", map[string]interface{}{"employees": employees})
	}
}

func (a *AuthController) UpdateAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateAdminRequest
		if !bindJSON(c, &req) {
			return
		}
		admin, err := a.accounts.UpdateAdmin(c.Request.Context(), c.Param("adminId"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Admin updated successfully.", map[string]interface{}{"admin": admin})
	}
}

func (a *AuthController) DeleteAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.accounts.DeleteAdmin(c.Request.Context(), c.Param("adminId")); err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Admin deleted successfully.", nil)
	}
}

// listUsers adapts one of the account listings to a handler answering under key.
func listUsers(key string, list func(*gin.Context) ([]models.UserView, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := list(c)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "success", map[string]interface{}{key: users})
	}
}

func (a *AuthController) PendingCompanies() gin.HandlerFunc {
	return listUsers("companies", func(c *gin.Context) ([]models.UserView, error) {
		return a.accounts.PendingCompanies(c.Request.Context())
	})
}

func (a *AuthController) ApprovedCompanies() gin.HandlerFunc {
	return listUsers("companies", func(c *gin.Context) ([]models.UserView, error) {
		return a.accounts.ApprovedCompanies(c.Request.Context())
	})
}

func (a *AuthController) Admins() gin.HandlerFunc {
	return listUsers("admins", func(c *gin.Context) ([]models.UserView, error) {
		return a.accounts.Admins(c.Request.Context())
	})
}

func (a *AuthController) AllUsers() gin.HandlerFunc {
	return listUsers("users", func(c *gin.Context) ([]models.UserView, error) {
		return a.accounts.AllUsers(c.Request.Context())
	})
}
