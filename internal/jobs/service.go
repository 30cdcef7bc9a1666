// Package jobs implements job postings and who may see or change them.
package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jobboard-service/internal/apperrors"
	"jobboard-service/internal/configs"
	"jobboard-service/internal/models"
)

const notFoundMsg = "Job not found or no permission."

type Service struct {
	db configs.Database
}

func NewService(db configs.Database) *Service {
	return &Service{db: db}
}

// Post creates a job owned by the poster.
func (s *Service) Post(ctx context.Context, poster *models.User, req models.PostJobRequest) (*models.Job, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	job := models.Job{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Company:     req.Company,
		Location:    req.Location,
		SalaryRange: req.SalaryRange,
		JobType:     req.JobType,
		PostedBy:    poster.Id,
		PostedAt:    time.Now().UTC(),
		IsActive:    true,
		Applicants:  []primitive.ObjectID{},
	}
	if job.Location == "" {
		job.Location = models.DefaultLocation
	}
	if job.JobType == "" {
		job.JobType = models.JobFullTime
	}

	id, err := s.db.CreateJob(ctx, job)
	if err != nil {
		return nil, apperrors.Internal("Server error while posting job.", err)
	}
	job.Id = id
	log.Info().Str("job_id", id.Hex()).Str("posted_by", poster.Id.Hex()).Msg("Job posted")
	return &job, nil
}

// Apply adds the applicant to the job once. A second application is rejected.
func (s *Service) Apply(ctx context.Context, applicant *models.User, jobID string) error {
	id, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return apperrors.NotFound("Job not found")
	}
	switch err := s.db.AddApplicant(ctx, id, applicant.Id); {
	case err == nil:
		return nil
	case errors.Is(err, configs.ErrNotFound):
		return apperrors.NotFound("Job not found")
	case errors.Is(err, configs.ErrAlreadyPresent):
		return apperrors.AlreadyApplied()
	default:
		return apperrors.Internal("Server error while applying", err)
	}
}

// List returns the active jobs the viewer may see, each with its owner attached.
// Candidates see every active job. An admin sees jobs posted by anyone in their
// company; an employee sees their own jobs and those of their company's admin.
func (s *Service) List(ctx context.Context, viewer *models.User) ([]models.ListedJob, error) {
	filter := models.JobFilter{ActiveOnly: true}

	switch viewer.Role {
	case models.RoleCandidate:
	case models.RoleAdmin:
		members, err := s.db.FindCompanyMemberIDs(ctx, viewer.Id)
		if err != nil {
			return nil, apperrors.Internal("Failed to load jobs", err)
		}
		filter.Owners = append([]primitive.ObjectID{viewer.Id}, members...)
	case models.RoleEmployee:
		if viewer.CompanyId == nil {
			return nil, apperrors.Validation("Company ID not found.")
		}
		filter.Owners = allowedOwners(viewer)
	default:
		return nil, apperrors.Forbidden(apperrors.ReasonInsufficientRole, "Unauthorized role")
	}

	jobs, err := s.db.FindJobs(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("Failed to load jobs", err)
	}
	return s.withOwners(ctx, jobs)
}

func (s *Service) withOwners(ctx context.Context, jobs []*models.Job) ([]models.ListedJob, error) {
	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for _, j := range jobs {
		if !seen[j.PostedBy] {
			seen[j.PostedBy] = true
			ids = append(ids, j.PostedBy)
		}
	}

	owners := map[primitive.ObjectID]*models.User{}
	if len(ids) > 0 {
		users, err := s.db.FindUsers(ctx, models.UserFilter{Ids: ids})
		if err != nil {
			return nil, apperrors.Internal("Failed to load jobs", err)
		}
		for _, u := range users {
			owners[u.Id] = u
		}
	}

	out := make([]models.ListedJob, 0, len(jobs))
	for _, j := range jobs {
		listed := models.ListedJob{Job: *j}
		// owners may have been deleted; their jobs are still listed
		if u, ok := owners[j.PostedBy]; ok {
			sum := u.Summary()
			listed.Owner = &sum
		}
		out = append(out, listed)
	}
	return out, nil
}

// Update changes only the fields present in req on a job the editor may manage.
func (s *Service) Update(ctx context.Context, editor *models.User, jobID string, req models.UpdateJobRequest) (*models.Job, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, apperrors.NotFound(notFoundMsg)
	}
	job, err := s.db.UpdateJob(ctx, models.JobScope{Id: id, Owners: allowedOwners(editor)}, req.Update())
	if err != nil {
		if errors.Is(err, configs.ErrNotFound) {
			return nil, apperrors.NotFound(notFoundMsg)
		}
		return nil, apperrors.Internal("Internal server error.", err)
	}
	return job, nil
}

func (s *Service) Delete(ctx context.Context, editor *models.User, jobID string) error {
	id, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return apperrors.NotFound(notFoundMsg)
	}
	if err := s.db.DeleteJob(ctx, models.JobScope{Id: id, Owners: allowedOwners(editor)}); err != nil {
		if errors.Is(err, configs.ErrNotFound) {
			return apperrors.NotFound(notFoundMsg)
		}
		return apperrors.Internal("Internal server error.", err)
	}
	log.Info().Str("job_id", id.Hex()).Str("deleted_by", editor.Id.Hex()).Msg("Job deleted")
	return nil
}

// allowedOwners is whose jobs a user may manage: their own, plus their
// company admin's when they are an employee.
func allowedOwners(u *models.User) []primitive.ObjectID {
	owners := []primitive.ObjectID{u.Id}
	if u.Role == models.RoleEmployee && u.CompanyId != nil {
		owners = append(owners, *u.CompanyId)
	}
	return owners
}
