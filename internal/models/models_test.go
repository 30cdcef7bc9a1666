package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jobboard-service/internal/apperrors"
)

func TestRoleDefaults(t *testing.T) {
	cases := []struct {
		role     Role
		status   Status
		verified bool
	}{
		{RoleSuperadmin, StatusApproved, true},
		{RoleAdmin, StatusPending, false},
		{RoleEmployee, StatusPending, false},
		{RoleCandidate, StatusApproved, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			u := NewUser("  Jane ", " Jane@Example.COM ", "hash", tc.role)
			assert.Equal(t, tc.status, u.Status)
			assert.Equal(t, tc.verified, u.EmailVerified)
			assert.Equal(t, "Jane", u.Name)
			assert.Equal(t, "jane@example.com", u.Email)
			assert.False(t, u.CreatedAt.IsZero())
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range Roles() {
		assert.True(t, r.Valid())
	}
	assert.False(t, Role("owner").Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, Status("archived").Valid())
}

func TestUserViewRedactsPassword(t *testing.T) {
	company := primitive.NewObjectID()
	u := NewUser("Emp", "emp@example.com", "secret-hash", RoleEmployee)
	u.Id = primitive.NewObjectID()
	u.CompanyId = &company

	v := u.View()
	assert.Equal(t, u.Id.Hex(), v.Id)
	require.NotNil(t, v.CompanyId)
	assert.Equal(t, company.Hex(), *v.CompanyId)
	assert.Nil(t, v.ApprovedBy)
	assert.NotContains(t, []string{v.Name, v.Email, v.Position}, "secret-hash")
}

func TestUserUpdateApply(t *testing.T) {
	u := NewUser("Old", "old@example.com", "h", RoleAdmin)
	assert.True(t, UserUpdate{}.Empty())

	name := "New"
	approved := StatusApproved
	upd := UserUpdate{Name: &name, Status: &approved}
	assert.False(t, upd.Empty())
	upd.Apply(&u)

	assert.Equal(t, "New", u.Name)
	assert.Equal(t, StatusApproved, u.Status)
	assert.Equal(t, "old@example.com", u.Email)
}

func TestJobUpdateAppliesOnlyPresentFields(t *testing.T) {
	job := Job{Title: "Go dev", Location: "Berlin", JobType: JobFullTime, IsActive: true}
	inactive := false
	req := UpdateJobRequest{IsActive: &inactive}
	req.Update().Apply(&job)

	assert.False(t, job.IsActive)
	assert.Equal(t, "Go dev", job.Title)
	assert.Equal(t, "Berlin", job.Location)
	assert.True(t, JobUpdate{}.Empty())
}

func TestHasApplicant(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	job := Job{Applicants: []primitive.ObjectID{a}}
	assert.True(t, job.HasApplicant(a))
	assert.False(t, job.HasApplicant(b))
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := Validate(RegisterRequest{Name: "X", Email: "not-an-email"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	e := apperrors.From(err)
	assert.ElementsMatch(t, []string{"email", "password"}, e.Details["fields"])
}

func TestValidateJobType(t *testing.T) {
	ok := PostJobRequest{Title: "t", Description: "d", Company: "c", JobType: JobContract}
	assert.NoError(t, Validate(ok))

	bad := ok
	bad.JobType = "Freelance"
	assert.True(t, apperrors.Is(Validate(bad), apperrors.KindValidation))

	empty := ""
	assert.Error(t, Validate(UpdateEmployeeRequest{Name: &empty}))
	assert.NoError(t, Validate(UpdateEmployeeRequest{}))
}
