package configs

import (
	"context"
	"sort"
	"sync"

	"jobboard-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryDB is an in-process Database with the same matching rules as MongoDB.
// Every method holds the lock for its whole read-modify-write.
type MemoryDB struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
	jobs  map[primitive.ObjectID]models.Job
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users: map[primitive.ObjectID]models.User{},
		jobs:  map[primitive.ObjectID]models.Job{},
	}
}

func (db *MemoryDB) Ping(context.Context) error { return nil }

func (db *MemoryDB) CreateUser(_ context.Context, user models.User) (primitive.ObjectID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	user.Email = models.NormalizeEmail(user.Email)
	for _, u := range db.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, ErrDuplicateKey
		}
	}
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	db.users[user.Id] = cloneUser(user)
	return user.Id, nil
}

func (db *MemoryDB) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	u, ok := db.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (db *MemoryDB) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	email = models.NormalizeEmail(email)
	for _, u := range db.users {
		if u.Email == email {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (db *MemoryDB) FindUsers(_ context.Context, f models.UserFilter) ([]*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	users := []*models.User{}
	for _, u := range db.users {
		if !matchUser(u, f) {
			continue
		}
		out := cloneUser(u)
		users = append(users, &out)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (db *MemoryDB) FindCompanyMemberIDs(_ context.Context, companyId primitive.ObjectID) ([]primitive.ObjectID, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	ids := []primitive.ObjectID{}
	for id, u := range db.users {
		if id == companyId || (u.CompanyId != nil && *u.CompanyId == companyId) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (db *MemoryDB) UpdateUser(_ context.Context, scope models.UserScope, update models.UserUpdate) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[scope.Id]
	if !ok || !matchUserScope(u, scope) {
		return nil, ErrNotFound
	}
	if update.Email != nil {
		email := models.NormalizeEmail(*update.Email)
		for id, other := range db.users {
			if id != u.Id && other.Email == email {
				return nil, ErrDuplicateKey
			}
		}
	}
	update.Apply(&u)
	db.users[u.Id] = cloneUser(u)
	out := cloneUser(u)
	return &out, nil
}

func (db *MemoryDB) DeleteUser(_ context.Context, scope models.UserScope) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[scope.Id]
	if !ok || !matchUserScope(u, scope) {
		return ErrNotFound
	}
	delete(db.users, u.Id)
	return nil
}

func (db *MemoryDB) CreateJob(_ context.Context, job models.Job) (primitive.ObjectID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if job.Id.IsZero() {
		job.Id = primitive.NewObjectID()
	}
	if job.Applicants == nil {
		job.Applicants = []primitive.ObjectID{}
	}
	db.jobs[job.Id] = cloneJob(job)
	return job.Id, nil
}

func (db *MemoryDB) FindJobByID(_ context.Context, id primitive.ObjectID) (*models.Job, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	j, ok := db.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneJob(j)
	return &out, nil
}

func (db *MemoryDB) FindJobs(_ context.Context, f models.JobFilter) ([]*models.Job, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	jobs := []*models.Job{}
	for _, j := range db.jobs {
		if f.ActiveOnly && !j.IsActive {
			continue
		}
		if f.Owners != nil && !containsID(f.Owners, j.PostedBy) {
			continue
		}
		out := cloneJob(j)
		jobs = append(jobs, &out)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].PostedAt.After(jobs[k].PostedAt) })
	return jobs, nil
}

func (db *MemoryDB) UpdateJob(_ context.Context, scope models.JobScope, update models.JobUpdate) (*models.Job, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	j, ok := db.jobs[scope.Id]
	if !ok || !containsID(scope.Owners, j.PostedBy) {
		return nil, ErrNotFound
	}
	update.Apply(&j)
	db.jobs[j.Id] = cloneJob(j)
	out := cloneJob(j)
	return &out, nil
}

func (db *MemoryDB) DeleteJob(_ context.Context, scope models.JobScope) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	j, ok := db.jobs[scope.Id]
	if !ok || !containsID(scope.Owners, j.PostedBy) {
		return ErrNotFound
	}
	delete(db.jobs, j.Id)
	return nil
}

func (db *MemoryDB) AddApplicant(_ context.Context, jobId, userId primitive.ObjectID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	j, ok := db.jobs[jobId]
	if !ok {
		return ErrNotFound
	}
	if j.HasApplicant(userId) {
		return ErrAlreadyPresent
	}
	j.Applicants = append(j.Applicants, userId)
	db.jobs[jobId] = cloneJob(j)
	return nil
}

func matchUser(u models.User, f models.UserFilter) bool {
	if f.Ids != nil && !containsID(f.Ids, u.Id) {
		return false
	}
	if f.Role != "" {
		if u.Role != f.Role {
			return false
		}
	} else if f.ExcludeRole != "" && u.Role == f.ExcludeRole {
		return false
	}
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	if f.CompanyId != nil && (u.CompanyId == nil || *u.CompanyId != *f.CompanyId) {
		return false
	}
	return true
}

func matchUserScope(u models.User, s models.UserScope) bool {
	if s.Role != "" && u.Role != s.Role {
		return false
	}
	if s.CompanyId != nil && (u.CompanyId == nil || *u.CompanyId != *s.CompanyId) {
		return false
	}
	if s.NotStatus != "" && u.Status == s.NotStatus {
		return false
	}
	return true
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func cloneUser(u models.User) models.User {
	if u.CompanyId != nil {
		id := *u.CompanyId
		u.CompanyId = &id
	}
	if u.ApprovedBy != nil {
		id := *u.ApprovedBy
		u.ApprovedBy = &id
	}
	return u
}

func cloneJob(j models.Job) models.Job {
	j.Applicants = append([]primitive.ObjectID{}, j.Applicants...)
	if j.SalaryRange != nil {
		sr := *j.SalaryRange
		j.SalaryRange = &sr
	}
	return j
}
