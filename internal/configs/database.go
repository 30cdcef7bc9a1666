package configs

import (
	"context"
	"errors"
	"fmt"

	"jobboard-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound       = errors.New("store: not found")
	ErrDuplicateKey   = errors.New("store: duplicate key")
	ErrAlreadyPresent = errors.New("store: already present")
)

// Database interface
type Database interface {
	CreateUser(ctx context.Context, user models.User) (primitive.ObjectID, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	// FindCompanyMemberIDs returns the company owner and every user whose companyId is the company.
	FindCompanyMemberIDs(ctx context.Context, companyId primitive.ObjectID) ([]primitive.ObjectID, error)
	// UpdateUser applies update to the single user matching scope and returns the result.
	UpdateUser(ctx context.Context, scope models.UserScope, update models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, scope models.UserScope) error

	CreateJob(ctx context.Context, job models.Job) (primitive.ObjectID, error)
	FindJobByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error)
	FindJobs(ctx context.Context, filter models.JobFilter) ([]*models.Job, error)
	UpdateJob(ctx context.Context, scope models.JobScope, update models.JobUpdate) (*models.Job, error)
	DeleteJob(ctx context.Context, scope models.JobScope) error
	// AddApplicant inserts userId into the job's applicant set in one atomic step.
	AddApplicant(ctx context.Context, jobId, userId primitive.ObjectID) error

	Ping(ctx context.Context) error
}

// MongoDB implements the Database interface
type MongoDB struct {
	client         *mongo.Client
	userCollection *mongo.Collection
	jobCollection  *mongo.Collection
}

// NewMongoDB creates a new MongoDB instance
func NewMongoDB(client *mongo.Client, database string) *MongoDB {
	return &MongoDB{
		client:         client,
		userCollection: GetCollection(client, database, "users"),
		jobCollection:  GetCollection(client, database, "jobs"),
	}
}

// EnsureIndexes creates the unique email index and the lookup indexes listings rely on.
func (db *MongoDB) EnsureIndexes(ctx context.Context) error {
	_, err := db.userCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "companyId", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	_, err = db.jobCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "postedBy", Value: 1}, {Key: "isActive", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create job indexes: %w", err)
	}
	return nil
}

func (db *MongoDB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, nil)
}

// CreateUser creates a new user in the database
func (db *MongoDB) CreateUser(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	_, err := db.userCollection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicateKey
		}
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", err)
	}
	return user.Id, nil
}

func (db *MongoDB) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return db.findOneUser(ctx, bson.M{"_id": id})
}

func (db *MongoDB) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.findOneUser(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

func (db *MongoDB) findOneUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := db.userCollection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (db *MongoDB) FindUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.userCollection.Find(ctx, userFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*models.User{}
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, &user)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (db *MongoDB) FindCompanyMemberIDs(ctx context.Context, companyId primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"_id": companyId},
		bson.M{"companyId": companyId},
	}}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := db.userCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find company members: %w", err)
	}
	var rows []struct {
		Id primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode company members: %w", err)
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.Id)
	}
	return ids, nil
}

func (db *MongoDB) UpdateUser(ctx context.Context, scope models.UserScope, update models.UserUpdate) (*models.User, error) {
	if update.Empty() {
		return db.findOneUser(ctx, userScopeFilter(scope))
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := db.userCollection.FindOneAndUpdate(ctx, userScopeFilter(scope), bson.M{"$set": userSet(update)}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

func (db *MongoDB) DeleteUser(ctx context.Context, scope models.UserScope) error {
	res, err := db.userCollection.DeleteOne(ctx, userScopeFilter(scope))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *MongoDB) CreateJob(ctx context.Context, job models.Job) (primitive.ObjectID, error) {
	if job.Id.IsZero() {
		job.Id = primitive.NewObjectID()
	}
	// $addToSet needs an array, never null
	if job.Applicants == nil {
		job.Applicants = []primitive.ObjectID{}
	}
	if _, err := db.jobCollection.InsertOne(ctx, job); err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert job: %w", err)
	}
	return job.Id, nil
}

func (db *MongoDB) FindJobByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	var job models.Job
	err := db.jobCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	return &job, nil
}

func (db *MongoDB) FindJobs(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	q := bson.M{}
	if filter.ActiveOnly {
		q["isActive"] = true
	}
	if filter.Owners != nil {
		q["postedBy"] = bson.M{"$in": filter.Owners}
	}
	opts := options.Find().SetSort(bson.D{{Key: "postedAt", Value: -1}})
	cursor, err := db.jobCollection.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	jobs := []*models.Job{}
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	return jobs, nil
}

func (db *MongoDB) UpdateJob(ctx context.Context, scope models.JobScope, update models.JobUpdate) (*models.Job, error) {
	filter := jobScopeFilter(scope)
	var job models.Job
	var err error
	if update.Empty() {
		err = db.jobCollection.FindOne(ctx, filter).Decode(&job)
	} else {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = db.jobCollection.FindOneAndUpdate(ctx, filter, bson.M{"$set": jobSet(update)}, opts).Decode(&job)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return &job, nil
}

func (db *MongoDB) DeleteJob(ctx context.Context, scope models.JobScope) error {
	res, err := db.jobCollection.DeleteOne(ctx, jobScopeFilter(scope))
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *MongoDB) AddApplicant(ctx context.Context, jobId, userId primitive.ObjectID) error {
	res, err := db.jobCollection.UpdateOne(ctx,
		bson.M{"_id": jobId, "applicants": bson.M{"$ne": userId}},
		bson.M{"$addToSet": bson.M{"applicants": userId}},
	)
	if err != nil {
		return fmt.Errorf("add applicant: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	// nothing matched: either the job is gone or the user is already in the set
	n, err := db.jobCollection.CountDocuments(ctx, bson.M{"_id": jobId})
	if err != nil {
		return fmt.Errorf("count job: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrAlreadyPresent
}

func userFilter(f models.UserFilter) bson.M {
	q := bson.M{}
	if f.Ids != nil {
		q["_id"] = bson.M{"$in": f.Ids}
	}
	if f.Role != "" {
		q["role"] = f.Role
	} else if f.ExcludeRole != "" {
		q["role"] = bson.M{"$ne": f.ExcludeRole}
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.CompanyId != nil {
		q["companyId"] = *f.CompanyId
	}
	return q
}

func userScopeFilter(s models.UserScope) bson.M {
	q := bson.M{"_id": s.Id}
	if s.Role != "" {
		q["role"] = s.Role
	}
	if s.CompanyId != nil {
		q["companyId"] = *s.CompanyId
	}
	if s.NotStatus != "" {
		q["status"] = bson.M{"$ne": s.NotStatus}
	}
	return q
}

func userSet(u models.UserUpdate) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.Password != nil {
		set["password"] = *u.Password
	}
	if u.Position != nil {
		set["position"] = *u.Position
	}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.EmailVerified != nil {
		set["emailVerified"] = *u.EmailVerified
	}
	if u.ApprovedBy != nil {
		set["approvedBy"] = *u.ApprovedBy
	}
	return set
}

func jobScopeFilter(s models.JobScope) bson.M {
	return bson.M{"_id": s.Id, "postedBy": bson.M{"$in": s.Owners}}
}

func jobSet(u models.JobUpdate) bson.M {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Company != nil {
		set["company"] = *u.Company
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.SalaryRange != nil {
		set["salaryRange"] = *u.SalaryRange
	}
	if u.JobType != nil {
		set["jobType"] = *u.JobType
	}
	if u.IsActive != nil {
		set["isActive"] = *u.IsActive
	}
	return set
}
