package configs

import (
	"context"
	"testing"

	"jobboard-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserFilter(t *testing.T) {
	company := primitive.NewObjectID()
	ids := []primitive.ObjectID{primitive.NewObjectID()}

	assert.Equal(t, bson.M{}, userFilter(models.UserFilter{}))
	assert.Equal(t, bson.M{"role": models.RoleAdmin, "status": models.StatusApproved},
		userFilter(models.UserFilter{Role: models.RoleAdmin, Status: models.StatusApproved}))
	assert.Equal(t, bson.M{"role": bson.M{"$ne": models.RoleSuperadmin}},
		userFilter(models.UserFilter{ExcludeRole: models.RoleSuperadmin}))
	assert.Equal(t, bson.M{"_id": bson.M{"$in": ids}, "companyId": company, "role": models.RoleEmployee},
		userFilter(models.UserFilter{Ids: ids, CompanyId: &company, Role: models.RoleEmployee}))
}

func TestUserScopeFilter(t *testing.T) {
	id, company := primitive.NewObjectID(), primitive.NewObjectID()

	assert.Equal(t, bson.M{"_id": id}, userScopeFilter(models.UserScope{Id: id}))
	assert.Equal(t, bson.M{
		"_id":       id,
		"role":      models.RoleEmployee,
		"companyId": company,
		"status":    bson.M{"$ne": models.StatusApproved},
	}, userScopeFilter(models.UserScope{Id: id, Role: models.RoleEmployee, CompanyId: &company, NotStatus: models.StatusApproved}))
}

func TestJobScopeFilter(t *testing.T) {
	id := primitive.NewObjectID()
	owners := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	assert.Equal(t, bson.M{"_id": id, "postedBy": bson.M{"$in": owners}},
		jobScopeFilter(models.JobScope{Id: id, Owners: owners}))
}

func TestSetBuildersOnlyTouchGivenFields(t *testing.T) {
	assert.Empty(t, userSet(models.UserUpdate{}))
	assert.Empty(t, jobSet(models.JobUpdate{}))

	name, verified := "Acme", true
	status := models.StatusApproved
	approver := primitive.NewObjectID()
	assert.Equal(t, bson.M{"name": "Acme", "status": models.StatusApproved, "emailVerified": true, "approvedBy": approver},
		userSet(models.UserUpdate{Name: &name, Status: &status, EmailVerified: &verified, ApprovedBy: &approver}))

	title, active := "Go developer", false
	jobType := models.JobFullTime
	assert.Equal(t, bson.M{"title": "Go developer", "jobType": models.JobFullTime, "isActive": false},
		jobSet(models.JobUpdate{Title: &title, JobType: &jobType, IsActive: &active}))
}

func mockStore(mt *mtest.T) *MongoDB {
	return &MongoDB{client: mt.Client, userCollection: mt.Coll, jobCollection: mt.Coll}
}

func TestMongoAddApplicant(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	jobID, userID := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("added", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		require.NoError(mt, mockStore(mt).AddApplicant(context.Background(), jobID, userID))
		assert.Equal(mt, "update", mt.GetStartedEvent().CommandName)
	})

	mt.Run("already applied", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)
		err := mockStore(mt).AddApplicant(context.Background(), jobID, userID)
		assert.ErrorIs(mt, err, ErrAlreadyPresent)
	})

	mt.Run("missing job", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)
		err := mockStore(mt).AddApplicant(context.Background(), jobID, userID)
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoUpdateUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	id := primitive.NewObjectID()
	status := models.StatusApproved
	scope := models.UserScope{Id: id, Role: models.RoleAdmin, NotStatus: models.StatusApproved}

	mt.Run("updated", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Acme"},
			{Key: "role", Value: "admin"},
			{Key: "status", Value: "approved"},
		}}))
		user, err := mockStore(mt).UpdateUser(context.Background(), scope, models.UserUpdate{Status: &status})
		require.NoError(mt, err)
		assert.Equal(mt, id, user.Id)
		assert.Equal(mt, models.StatusApproved, user.Status)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "findAndModify", evt.CommandName)
		notStatus, ok := evt.Command.Lookup("query", "status", "$ne").StringValueOK()
		require.True(mt, ok)
		assert.Equal(mt, "approved", notStatus)
	})

	mt.Run("scope not met", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))
		_, err := mockStore(mt).UpdateUser(context.Background(), scope, models.UserUpdate{Status: &status})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 11000, Name: "DuplicateKey", Message: "E11000 duplicate key error",
		}))
		email := "taken@example.com"
		_, err := mockStore(mt).UpdateUser(context.Background(), models.UserScope{Id: id}, models.UserUpdate{Email: &email})
		assert.ErrorIs(mt, err, ErrDuplicateKey)
	})
}

func TestMongoDeleteJobOutsideScope(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("nothing deleted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		scope := models.JobScope{Id: primitive.NewObjectID(), Owners: []primitive.ObjectID{primitive.NewObjectID()}}
		assert.ErrorIs(mt, mockStore(mt).DeleteJob(context.Background(), scope), ErrNotFound)
	})
}
