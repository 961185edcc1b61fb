package services

import (
	"context"
	"testing"
	"time"

	"github.com/hr-portal/app-employee-data/internal/config"
	"github.com/hr-portal/app-employee-data/internal/logging"
	"github.com/hr-portal/app-employee-data/internal/models"
	"github.com/hr-portal/app-employee-data/internal/redisclient"
	"github.com/hr-portal/app-employee-data/internal/utils"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func skipIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// setupMongoCollection starts a MongoDB container and returns an indexed
// employee collection
func setupMongoCollection(t *testing.T) *mongo.Collection {
	t.Helper()
	skipIntegration(t)
	ctx := context.Background()

	container, err := mongodb.Run(ctx,
		"mongo:7.0",
		mongodb.WithUsername("root"),
		mongodb.WithPassword("password"),
	)
	require.NoError(t, err, "Failed to start MongoDB container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get MongoDB connection string")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err, "Failed to connect to MongoDB")
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	require.NoError(t, client.Ping(ctx, nil), "Failed to ping MongoDB")

	coll := client.Database("hr_test").Collection("employees")
	require.NoError(t, config.EnsureEmployeeIndexes(ctx, coll))
	return coll
}

func setupRedisContainer(t *testing.T) *redisclient.Client {
	t.Helper()
	skipIntegration(t)
	ctx := context.Background()

	container, err := redis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get Redis connection string")
	opts, err := goredis.ParseURL(uri)
	require.NoError(t, err)

	client := goredis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return redisclient.NewClient(client)
}

func TestMongoEmployeeRepository(t *testing.T) {
	coll := setupMongoCollection(t)
	ctx := context.Background()
	repo := NewMongoEmployeeRepository(coll, logging.New(nil))
	doc := models.MustDocumentNumber(testDocument)

	t.Run("save and find", func(t *testing.T) {
		e := savedEmployee(t, repo, testDocument)
		assert.Equal(t, int64(1), e.Version())

		found, err := repo.FindByDocument(ctx, doc)
		require.NoError(t, err)
		assert.Equal(t, e.PersonalInfo().ToData(), found.PersonalInfo().ToData())
		assert.Equal(t, int64(1), found.Version())
		assert.WithinDuration(t, e.CreatedAt(), found.CreatedAt(), time.Millisecond)

		err = repo.Save(ctx, newEmployee(t, testDocument))
		assert.ErrorIs(t, err, models.ErrEmployeeExists)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := repo.FindByDocument(ctx, models.MustDocumentNumber("9999999"))
		assert.ErrorIs(t, err, models.ErrEmployeeNotFound)

		err = repo.Update(ctx, newEmployee(t, "9999999"))
		assert.ErrorIs(t, err, models.ErrEmployeeNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, models.MustDocumentNumber("9999999")), models.ErrEmployeeNotFound)
	})

	t.Run("versioned update", func(t *testing.T) {
		current, err := repo.FindByDocument(ctx, doc)
		require.NoError(t, err)
		stale := current.Clone()

		contact, err := contactData().Build()
		require.NoError(t, err)
		housing, err := housingData().Build()
		require.NoError(t, err)
		vehicle, err := vehicleData().Build()
		require.NoError(t, err)
		dep, err := childData("1122334455").Build()
		require.NoError(t, err)
		current.SetContactInfo(contact)
		current.SetHousingInfo(housing)
		current.SetVehicleInfo(vehicle)
		require.NoError(t, current.AddDependent(dep))

		require.NoError(t, repo.Update(ctx, current))
		assert.Equal(t, int64(2), current.Version())

		err = repo.Update(ctx, stale)
		assert.True(t, utils.IsOptimisticLockError(err))

		stored, err := repo.FindByDocument(ctx, doc)
		require.NoError(t, err)
		assert.True(t, stored.IsComplete())
		assert.Len(t, stored.Dependents(), 1)

		var raw bson.M
		require.NoError(t, coll.FindOne(ctx, bson.M{"document_number": testDocument}).Decode(&raw))
		assert.Equal(t, true, raw["complete"])
		assert.Equal(t, true, raw["has_vehicle"])
	})

	t.Run("queries", func(t *testing.T) {
		data := personalData("2000002")
		data.Department = "Legal"
		require.NoError(t, repo.Save(ctx, mustBuildEmployee(t, data)))

		docs := func(list []*models.Employee, err error) []string {
			require.NoError(t, err)
			out := make([]string, len(list))
			for i, e := range list {
				out[i] = e.Document().String()
			}
			return out
		}

		assert.Equal(t, []string{testDocument, "2000002"}, docs(repo.FindAll(ctx)))
		assert.Equal(t, []string{"2000002"}, docs(repo.FindByDepartment(ctx, "Legal")))
		assert.Equal(t, []string{testDocument, "2000002"}, docs(repo.FindByTitle(ctx, "Analyst")))
		assert.Equal(t, []string{"2000002"}, docs(repo.FindIncomplete(ctx)))
		assert.Equal(t, []string{testDocument}, docs(repo.FindWithVehicle(ctx)))
		assert.Equal(t, []string{testDocument}, docs(repo.FindWithDependents(ctx)))
		assert.Equal(t, []string{testDocument, "2000002"}, docs(repo.FindNotUpdatedSince(ctx, time.Now().Add(time.Minute))))
		assert.Empty(t, docs(repo.FindNotUpdatedSince(ctx, time.Now().AddDate(-1, 0, 0))))

		unique, err := repo.IsDocumentUnique(ctx, models.MustDocumentNumber("2000002"))
		require.NoError(t, err)
		assert.False(t, unique)
	})

	t.Run("orchestrated updates", func(t *testing.T) {
		o := newTestOrchestrator(repo, OrchestratorOptions{MaxRetries: 3})
		result, err := o.ApplyStep(ctx, "2000002", contactData())
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Version)
		assert.Equal(t, 33, result.Progress)

		e, err := o.DeclareConflicts(ctx, "2000002", models.ConflictDeclarationData{
			HasConflict: true,
			Persons:     []models.ConflictPersonData{{FullName: "Carlos Rojas", Relationship: "BROTHER", InterestedParty: "CLIENT"}},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), e.Version())

		stored, err := repo.FindByDocument(ctx, models.MustDocumentNumber("2000002"))
		require.NoError(t, err)
		d, ok := stored.ConflictDeclaration()
		require.True(t, ok)
		assert.Equal(t, "Carlos Rojas", d.Persons()[0].FullName())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, models.MustDocumentNumber("2000002")))
		exists, err := repo.Exists(ctx, models.MustDocumentNumber("2000002"))
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestCachedMongoRepositoryWithRedisLocker(t *testing.T) {
	coll := setupMongoCollection(t)
	client := setupRedisContainer(t)
	ctx := context.Background()

	repo := NewCachedEmployeeRepository(NewMongoEmployeeRepository(coll, logging.New(nil)), client, time.Minute, logging.New(nil))
	locker := NewRedisIdentityLocker(client, 5*time.Second, logging.New(nil))
	o := NewUpdateOrchestrator(repo, locker, OrchestratorOptions{MaxRetries: 3}, logging.New(nil))

	_, err := o.Enroll(ctx, personalData(testDocument))
	require.NoError(t, err)

	for _, payload := range []models.StepPayload{contactData(), housingData(), vehicleData()} {
		_, err := o.ApplyStep(ctx, testDocument, payload)
		require.NoError(t, err)
	}

	e, err := o.GetEmployee(ctx, testDocument)
	require.NoError(t, err)
	assert.True(t, e.IsComplete())
	assert.Equal(t, int64(4), e.Version())

	raw, err := client.Get(ctx, employeeCacheKey(e.Document())).Result()
	require.NoError(t, err)
	assert.Contains(t, raw, `"version":4`)
}

func mustBuildEmployee(t *testing.T, data models.PersonalInfoData) *models.Employee {
	t.Helper()
	personal, err := data.Build()
	require.NoError(t, err)
	e, err := models.NewEmployee(personal)
	require.NoError(t, err)
	return e
}
