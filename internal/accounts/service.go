// Package accounts implements the account lifecycle: registration on every
// path, email verification, approval, login and the scoped edits one account
// may make to another.
package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jobboard-service/internal/apperrors"
	"jobboard-service/internal/auth"
	"jobboard-service/internal/configs"
	"jobboard-service/internal/mailer"
	"jobboard-service/internal/models"
)

// Registration is what a caller learns after creating an account that still
// has to confirm its email address.
type Registration struct {
	User             models.UserView `json:"user"`
	VerificationLink string          `json:"emailVerificationLink,omitempty"`
}

type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      models.UserView `json:"user"`
}

type Service struct {
	db     configs.Database
	tokens *auth.TokenManager
	hasher *auth.Hasher
	mail   mailer.Mailer

	// publicBaseURL prefixes verification links, e.g. http://localhost:5000
	publicBaseURL string
	// dummyHash keeps unknown-email logins as slow as wrong-password ones.
	dummyHash string
}

func NewService(db configs.Database, tokens *auth.TokenManager, hasher *auth.Hasher, mail mailer.Mailer, publicBaseURL string) *Service {
	s := &Service{
		db:            db,
		tokens:        tokens,
		hasher:        hasher,
		mail:          mail,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
	if h, err := hasher.Hash("not-a-real-password"); err == nil {
		s.dummyHash = h
	}
	return s
}

// VerificationLink is the URL a verification token is consumed at.
func (s *Service) VerificationLink(token string) string {
	return s.publicBaseURL + "/api/verify-email/" + token
}

// RegisterCompany creates a company (admin) account. It stays pending until a
// superadmin approves it and cannot log in before its email is verified.
func (s *Service) RegisterCompany(ctx context.Context, req models.RegisterRequest) (*Registration, error) {
	user, err := s.create(ctx, req, models.RoleAdmin, nil)
	if err != nil {
		return nil, err
	}
	return s.registration(ctx, user)
}

// RegisterCandidate creates an approved candidate that still has to verify its email.
func (s *Service) RegisterCandidate(ctx context.Context, req models.RegisterRequest) (*Registration, error) {
	user, err := s.create(ctx, req, models.RoleCandidate, nil)
	if err != nil {
		return nil, err
	}
	return s.registration(ctx, user)
}

// RegisterEmployee creates a pending employee inside the admin's company. The
// verification link goes to the employee's inbox only, never back to the admin.
func (s *Service) RegisterEmployee(ctx context.Context, admin *models.User, req models.RegisterRequest) (*models.UserView, error) {
	user, err := s.create(ctx, req, models.RoleEmployee, func(u *models.User) {
		u.CompanyId = &admin.Id
	})
	if err != nil {
		return nil, err
	}
	reg, err := s.registration(ctx, user)
	if err != nil {
		return nil, err
	}
	return &reg.User, nil
}

// CreateEmployee creates a ready-to-use employee: approved, verified and
// attached to the admin's company.
func (s *Service) CreateEmployee(ctx context.Context, admin *models.User, req models.CreateEmployeeRequest) (*models.UserView, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	reg := models.RegisterRequest{Name: req.Name, Email: req.Email, Password: req.Password}
	user, err := s.create(ctx, reg, models.RoleEmployee, func(u *models.User) {
		u.Status = models.StatusApproved
		u.EmailVerified = true
		u.CompanyId = &admin.Id
		u.Position = strings.TrimSpace(req.Position)
	})
	if err != nil {
		return nil, err
	}
	v := user.View()
	return &v, nil
}

// BootstrapSuperadmin creates a superadmin. It is open to anyone; only email
// uniqueness stands in the way of a second one.
func (s *Service) BootstrapSuperadmin(ctx context.Context, req models.RegisterRequest) (*models.UserView, error) {
	user, err := s.create(ctx, req, models.RoleSuperadmin, nil)
	if err != nil {
		return nil, err
	}
	log.Warn().Str("email", user.Email).Msg("Superadmin created through the bootstrap endpoint")
	v := user.View()
	return &v, nil
}

func (s *Service) create(ctx context.Context, req models.RegisterRequest, role models.Role, customize func(*models.User)) (*models.User, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	email := models.NormalizeEmail(req.Email)
	_, err := s.db.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperrors.AlreadyExists("Email already registered")
	case !errors.Is(err, configs.ErrNotFound):
		return nil, apperrors.Internal("Error checking existing user", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Error hashing password", err)
	}

	user := models.NewUser(req.Name, email, hash, role)
	if customize != nil {
		customize(&user)
	}
	id, err := s.db.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, configs.ErrDuplicateKey) {
			return nil, apperrors.AlreadyExists("Email already registered")
		}
		return nil, apperrors.Internal("Error storing a user on database", err)
	}
	user.Id = id
	log.Info().Str("user_id", id.Hex()).Str("role", string(role)).Str("status", string(user.Status)).Msg("User created")
	return &user, nil
}

// registration issues the verification token and queues the email. A failed
// dispatch does not undo the registration.
func (s *Service) registration(ctx context.Context, user *models.User) (*Registration, error) {
	link, err := s.issueVerificationLink(user)
	if err != nil {
		return nil, err
	}
	if err := s.mail.Send(ctx, mailer.VerificationEmail(user.Email, user.Name, link)); err != nil {
		log.Warn().Err(err).Str("user_id", user.Id.Hex()).Msg("Could not queue verification email")
	}
	return &Registration{User: user.View(), VerificationLink: link}, nil
}

func (s *Service) issueVerificationLink(user *models.User) (string, error) {
	token, err := s.tokens.IssueVerification(user)
	if err != nil {
		return "", apperrors.Internal("Error issuing verification token", err)
	}
	return s.VerificationLink(token), nil
}

// VerifyEmail consumes a verification token. Replaying a still-valid token
// succeeds again without changing anything.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*models.UserView, error) {
	claims, err := s.tokens.ParseVerification(token)
	if err != nil {
		return nil, apperrors.Unauthenticated("Invalid or expired verification link")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthenticated("Invalid or expired verification link")
	}
	verified := true
	user, err := s.db.UpdateUser(ctx, models.UserScope{Id: id}, models.UserUpdate{EmailVerified: &verified})
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	v := user.View()
	return &v, nil
}

// Login checks credentials, then the email and approval gates, and issues a
// session. Unknown emails and wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.Validation("Email and password are required.")
	}

	user, err := s.db.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, configs.ErrNotFound) {
			s.hasher.Compare(s.dummyHash, req.Password)
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.Internal("Error getting a user from database", err)
	}
	if !s.hasher.Compare(user.Password, req.Password) {
		return nil, apperrors.InvalidCredentials()
	}

	if !user.EmailVerified {
		link, err := s.issueVerificationLink(user)
		if err != nil {
			return nil, err
		}
		return nil, apperrors.Forbidden(apperrors.ReasonEmailNotVerified, "Please verify your email before logging in.").
			With("emailVerified", false).
			With("emailVerificationLink", link)
	}

	if user.Status != models.StatusApproved {
		msg := "Your account is pending approval."
		if user.Role == models.RoleAdmin {
			msg = "Your company registration is pending Super Admin approval."
		}
		if user.Status == models.StatusRejected {
			msg = "Your account registration was rejected."
		}
		return nil, apperrors.Forbidden(apperrors.ReasonAccountNotApproved, msg).With("status", user.Status)
	}

	token, claims, err := s.tokens.IssueSession(user)
	if err != nil {
		return nil, apperrors.Internal("Error issuing session token", err)
	}
	log.Info().Str("user_id", user.Id.Hex()).Str("role", string(user.Role)).Msg("Login successful")
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user.View()}, nil
}

// ApproveCompany approves a company account. Approving an already approved
// company succeeds and keeps its original approver.
func (s *Service) ApproveCompany(ctx context.Context, approver *models.User, companyID string) (*models.UserView, error) {
	return s.approve(ctx, approver, companyID, models.UserScope{Role: models.RoleAdmin}, "Company not found")
}

// ApproveEmployee lets an admin approve a pending employee of their own company.
func (s *Service) ApproveEmployee(ctx context.Context, admin *models.User, employeeID string) (*models.UserView, error) {
	return s.approve(ctx, admin, employeeID,
		models.UserScope{Role: models.RoleEmployee, CompanyId: &admin.Id},
		"Employee not found or not part of your company.")
}

func (s *Service) approve(ctx context.Context, approver *models.User, targetID string, scope models.UserScope, notFoundMsg string) (*models.UserView, error) {
	id, ok := parseID(targetID)
	if !ok {
		return nil, apperrors.NotFound(notFoundMsg)
	}
	scope.Id = id
	scope.NotStatus = models.StatusApproved

	approved := models.StatusApproved
	user, err := s.db.UpdateUser(ctx, scope, models.UserUpdate{Status: &approved, ApprovedBy: &approver.Id})
	if err == nil {
		log.Info().Str("user_id", id.Hex()).Str("approved_by", approver.Id.Hex()).Msg("Account approved")
		v := user.View()
		return &v, nil
	}
	if !errors.Is(err, configs.ErrNotFound) {
		return nil, apperrors.Internal("Error approving account", err)
	}

	// the conditional update matched nothing: the target is missing, out of
	// scope, or already approved
	scope.NotStatus = ""
	user, err = s.db.UpdateUser(ctx, scope, models.UserUpdate{})
	if err != nil {
		return nil, notFoundOr(err, notFoundMsg)
	}
	v := user.View()
	return &v, nil
}

// RejectCompany marks a company registration as rejected.
func (s *Service) RejectCompany(ctx context.Context, companyID string) (*models.UserView, error) {
	id, ok := parseID(companyID)
	if !ok {
		return nil, apperrors.NotFound("Company not found")
	}
	rejected := models.StatusRejected
	user, err := s.db.UpdateUser(ctx, models.UserScope{Id: id, Role: models.RoleAdmin}, models.UserUpdate{Status: &rejected})
	if err != nil {
		return nil, notFoundOr(err, "Company not found")
	}
	v := user.View()
	return &v, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, admin *models.User, employeeID string, req models.UpdateEmployeeRequest) (*models.UserView, error) {
	const notFoundMsg = "Employee not found or not part of your company."
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	id, ok := parseID(employeeID)
	if !ok {
		return nil, apperrors.NotFound(notFoundMsg)
	}

	update := models.UserUpdate{Name: trimmed(req.Name), Position: trimmed(req.Position)}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperrors.Internal("Error hashing password", err)
		}
		update.Password = &hash
	}

	scope := models.UserScope{Id: id, Role: models.RoleEmployee, CompanyId: &admin.Id}
	user, err := s.db.UpdateUser(ctx, scope, update)
	if err != nil {
		return nil, notFoundOr(err, notFoundMsg)
	}
	v := user.View()
	return &v, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, admin *models.User, employeeID string) error {
	const notFoundMsg = "Employee not found or not part of your company."
	id, ok := parseID(employeeID)
	if !ok {
		return apperrors.NotFound(notFoundMsg)
	}
	err := s.db.DeleteUser(ctx, models.UserScope{Id: id, Role: models.RoleEmployee, CompanyId: &admin.Id})
	if err != nil {
		return notFoundOr(err, notFoundMsg)
	}
	log.Info().Str("user_id", id.Hex()).Str("company_id", admin.Id.Hex()).Msg("Employee deleted")
	return nil
}

func (s *Service) UpdateAdmin(ctx context.Context, adminID string, req models.UpdateAdminRequest) (*models.UserView, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	id, ok := parseID(adminID)
	if !ok {
		return nil, apperrors.NotFound("Admin not found.")
	}

	update := models.UserUpdate{Name: trimmed(req.Name)}
	if req.Email != nil {
		email := models.NormalizeEmail(*req.Email)
		update.Email = &email
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperrors.Internal("Error hashing password", err)
		}
		update.Password = &hash
	}

	user, err := s.db.UpdateUser(ctx, models.UserScope{Id: id, Role: models.RoleAdmin}, update)
	if err != nil {
		if errors.Is(err, configs.ErrDuplicateKey) {
			return nil, apperrors.AlreadyExists("Email already registered")
		}
		return nil, notFoundOr(err, "Admin not found.")
	}
	v := user.View()
	return &v, nil
}

// DeleteAdmin removes the admin account only; its employees and jobs stay.
func (s *Service) DeleteAdmin(ctx context.Context, adminID string) error {
	id, ok := parseID(adminID)
	if !ok {
		return apperrors.NotFound("Admin not found or already deleted.")
	}
	if err := s.db.DeleteUser(ctx, models.UserScope{Id: id, Role: models.RoleAdmin}); err != nil {
		return notFoundOr(err, "Admin not found or already deleted.")
	}
	log.Info().Str("user_id", id.Hex()).Msg("Admin deleted")
	return nil
}

func (s *Service) PendingCompanies(ctx context.Context) ([]models.UserView, error) {
	return s.list(ctx, models.UserFilter{Role: models.RoleAdmin, Status: models.StatusPending})
}

func (s *Service) ApprovedCompanies(ctx context.Context) ([]models.UserView, error) {
	return s.list(ctx, models.UserFilter{Role: models.RoleAdmin, Status: models.StatusApproved})
}

// Admins lists approved company accounts.
func (s *Service) Admins(ctx context.Context) ([]models.UserView, error) {
	return s.list(ctx, models.UserFilter{Role: models.RoleAdmin, Status: models.StatusApproved})
}

// AllUsers lists approved accounts other than superadmins.
func (s *Service) AllUsers(ctx context.Context) ([]models.UserView, error) {
	return s.list(ctx, models.UserFilter{ExcludeRole: models.RoleSuperadmin, Status: models.StatusApproved})
}

func (s *Service) CompanyEmployees(ctx context.Context, admin *models.User) ([]models.UserView, error) {
	return s.list(ctx, models.UserFilter{Role: models.RoleEmployee, CompanyId: &admin.Id})
}

func (s *Service) list(ctx context.Context, filter models.UserFilter) ([]models.UserView, error) {
	users, err := s.db.FindUsers(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("There was a problem trying to find users on database", err)
	}
	return models.Views(users), nil
}

func parseID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	return id, err == nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// notFoundOr maps a storage miss to NotFound and anything else to Internal.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, configs.ErrNotFound) {
		return apperrors.NotFound(msg)
	}
	return apperrors.Internal("Error accessing users on database", err)
}
