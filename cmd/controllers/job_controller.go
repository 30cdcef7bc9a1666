package controllers

import (
	"net/http"

	"jobboard-service/internal/jobs"
	"jobboard-service/internal/models"

	"github.com/gin-gonic/gin"
)

type JobController struct {
	jobs *jobs.Service
}

func NewJobController(svc *jobs.Service) *JobController {
	return &JobController{jobs: svc}
}

func (j *JobController) PostJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PostJobRequest
		if !bindJSON(c, &req) {
			return
		}
		job, err := j.jobs.Post(c.Request.Context(), CurrentPrincipal(c).User, req)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, "Job posted successfully", map[string]interface{}{"job": job})
	}
}

func (j *JobController) Apply() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := j.jobs.Apply(c.Request.Context(), CurrentPrincipal(c).User, c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Applied successfully", nil)
	}
}

func (j *JobController) ListJobs() gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := j.jobs.List(c.Request.Context(), CurrentPrincipal(c).User)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "success", map[string]interface{}{"jobs": list})
	}
}

func (j *JobController) UpdateJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateJobRequest
		if !bindJSON(c, &req) {
			return
		}
		job, err := j.jobs.Update(c.Request.Context(), CurrentPrincipal(c).User, c.Param("jobId"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Job updated successfully.", map[string]interface{}{"job": job})
	}
}

func (j *JobController) DeleteJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := j.jobs.Delete(c.Request.Context(), CurrentPrincipal(c).User, c.Param("jobId")); err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Job deleted successfully.", nil)
	}
}
