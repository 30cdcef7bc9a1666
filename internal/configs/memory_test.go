package configs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jobboard-service/internal/models"
)

func createUser(t *testing.T, db *MemoryDB, email string, role models.Role, mutate func(*models.User)) primitive.ObjectID {
	t.Helper()
	u := models.NewUser("User", email, "hash", role)
	if mutate != nil {
		mutate(&u)
	}
	id, err := db.CreateUser(context.Background(), u)
	require.NoError(t, err)
	return id
}

func TestMemoryEmailIsUnique(t *testing.T) {
	db := NewMemoryDB()
	createUser(t, db, "a@example.com", models.RoleCandidate, nil)

	_, err := db.CreateUser(context.Background(), models.NewUser("B", "A@Example.com", "h", models.RoleAdmin))
	assert.ErrorIs(t, err, ErrDuplicateKey)

	u, err := db.FindUserByEmail(context.Background(), " A@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCandidate, u.Role)
}

func TestMemoryScopedUpdate(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()
	company := createUser(t, db, "co@example.com", models.RoleAdmin, nil)
	other := primitive.NewObjectID()
	emp := createUser(t, db, "emp@example.com", models.RoleEmployee, func(u *models.User) { u.CompanyId = &company })

	pos := "Lead"
	_, err := db.UpdateUser(ctx, models.UserScope{Id: emp, Role: models.RoleEmployee, CompanyId: &other}, models.UserUpdate{Position: &pos})
	assert.ErrorIs(t, err, ErrNotFound)

	u, err := db.UpdateUser(ctx, models.UserScope{Id: emp, Role: models.RoleEmployee, CompanyId: &company}, models.UserUpdate{Position: &pos})
	require.NoError(t, err)
	assert.Equal(t, "Lead", u.Position)

	approved := models.StatusApproved
	_, err = db.UpdateUser(ctx, models.UserScope{Id: emp, NotStatus: models.StatusPending}, models.UserUpdate{Status: &approved})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateEmailConflict(t *testing.T) {
	db := NewMemoryDB()
	createUser(t, db, "taken@example.com", models.RoleAdmin, nil)
	id := createUser(t, db, "mine@example.com", models.RoleAdmin, nil)

	email := "Taken@example.com"
	_, err := db.UpdateUser(context.Background(), models.UserScope{Id: id}, models.UserUpdate{Email: &email})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestMemoryReturnsCopies(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()
	jobID, err := db.CreateJob(ctx, models.Job{Title: "Go", IsActive: true, PostedBy: primitive.NewObjectID()})
	require.NoError(t, err)

	job, err := db.FindJobByID(ctx, jobID)
	require.NoError(t, err)
	job.Applicants = append(job.Applicants, primitive.NewObjectID())
	job.Title = "changed"

	again, err := db.FindJobByID(ctx, jobID)
	require.NoError(t, err)
	assert.Empty(t, again.Applicants)
	assert.Equal(t, "Go", again.Title)
}

func TestMemoryAddApplicantConcurrently(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()
	jobID, err := db.CreateJob(ctx, models.Job{Title: "Go", IsActive: true})
	require.NoError(t, err)
	applicant := primitive.NewObjectID()

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- db.AddApplicant(ctx, jobID, applicant)
		}()
	}
	wg.Wait()
	close(results)

	ok, dup := 0, 0
	for err := range results {
		switch err {
		case nil:
			ok++
		case ErrAlreadyPresent:
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 9, dup)

	job, err := db.FindJobByID(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{applicant}, job.Applicants)

	assert.ErrorIs(t, db.AddApplicant(ctx, primitive.NewObjectID(), applicant), ErrNotFound)
}

func TestMemoryFindJobsFiltersAndSorts(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	now := time.Now()
	_, _ = db.CreateJob(ctx, models.Job{Title: "old", PostedBy: a, IsActive: true, PostedAt: now.Add(-time.Hour)})
	_, _ = db.CreateJob(ctx, models.Job{Title: "new", PostedBy: a, IsActive: true, PostedAt: now})
	_, _ = db.CreateJob(ctx, models.Job{Title: "closed", PostedBy: a, IsActive: false, PostedAt: now})
	_, _ = db.CreateJob(ctx, models.Job{Title: "other", PostedBy: b, IsActive: true, PostedAt: now})

	jobs, err := db.FindJobs(ctx, models.JobFilter{ActiveOnly: true, Owners: []primitive.ObjectID{a}})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "new", jobs[0].Title)
	assert.Equal(t, "old", jobs[1].Title)

	all, err := db.FindJobs(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := db.FindJobs(ctx, models.JobFilter{Owners: []primitive.ObjectID{}})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryCompanyMembers(t *testing.T) {
	db := NewMemoryDB()
	company := createUser(t, db, "co@example.com", models.RoleAdmin, nil)
	emp := createUser(t, db, "emp@example.com", models.RoleEmployee, func(u *models.User) { u.CompanyId = &company })
	createUser(t, db, "cand@example.com", models.RoleCandidate, nil)

	ids, err := db.FindCompanyMemberIDs(context.Background(), company)
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{company, emp}, ids)
}

func TestMemoryFindUsersFilter(t *testing.T) {
	db := NewMemoryDB()
	createUser(t, db, "super@example.com", models.RoleSuperadmin, nil)
	createUser(t, db, "pending@example.com", models.RoleAdmin, nil)
	createUser(t, db, "cand@example.com", models.RoleCandidate, nil)

	users, err := db.FindUsers(context.Background(), models.UserFilter{ExcludeRole: models.RoleSuperadmin, Status: models.StatusApproved})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "cand@example.com", users[0].Email)
}
