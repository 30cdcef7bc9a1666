package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobboard-service/internal/auth"
	"jobboard-service/internal/jobs"
	"jobboard-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// asPrincipal stands in for Authenticate in handler tests.
func asPrincipal(u *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(principalKey, &auth.Principal{User: u})
		c.Next()
	}
}

func TestListJobsDatabaseError(t *testing.T) {
	mockDB := &MockDB{
		FindJobsFunc: func(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
			return nil, errors.New("cursor killed")
		},
	}
	cand := &models.User{Id: primitive.NewObjectID(), Role: models.RoleCandidate}

	router := gin.New()
	router.GET("/jobs/all", asPrincipal(cand), NewJobController(jobs.NewService(mockDB)).ListJobs())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/jobs/all", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	body := decode(t, resp)
	assert.Equal(t, "Failed to load jobs", body.Message)
	assert.Equal(t, "internal", body.Data["error"])
}

func TestListJobsReturnsEmptyList(t *testing.T) {
	var seen models.JobFilter
	mockDB := &MockDB{
		FindJobsFunc: func(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
			seen = filter
			return []*models.Job{}, nil
		},
	}
	cand := &models.User{Id: primitive.NewObjectID(), Role: models.RoleCandidate}

	router := gin.New()
	router.GET("/jobs/all", asPrincipal(cand), NewJobController(jobs.NewService(mockDB)).ListJobs())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/jobs/all", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, seen.ActiveOnly)
	assert.Nil(t, seen.Owners)
	assert.Equal(t, []interface{}{}, decode(t, resp).Data["jobs"])
}

func TestPostJobRejectsMalformedBody(t *testing.T) {
	admin := &models.User{Id: primitive.NewObjectID(), Role: models.RoleAdmin}
	router := gin.New()
	router.POST("/jobs/postjob", asPrincipal(admin), NewJobController(jobs.NewService(&MockDB{})).PostJob())

	req := httptest.NewRequest(http.MethodPost, "/jobs/postjob", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	payload, _ := json.Marshal(models.PostJobRequest{Title: "Only a title"})
	req = httptest.NewRequest(http.MethodPost, "/jobs/postjob", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	body := decode(t, resp)
	assert.Equal(t, "validation_error", body.Data["error"])
	assert.ElementsMatch(t, []interface{}{"description", "company"}, body.Data["fields"])
}
