package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hr-portal/app-employee-data/internal/logging"
	"github.com/hr-portal/app-employee-data/internal/models"
	"github.com/hr-portal/app-employee-data/internal/observability"
	"github.com/hr-portal/app-employee-data/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoEmployeeRepository stores employees as models.EmployeeData documents
type MongoEmployeeRepository struct {
	collection *mongo.Collection
	logger     *logging.SafeLogger
	now        func() time.Time
}

var _ EmployeeRepository = (*MongoEmployeeRepository)(nil)

// NewMongoEmployeeRepository creates a repository over the given collection
func NewMongoEmployeeRepository(collection *mongo.Collection, logger *logging.SafeLogger) *MongoEmployeeRepository {
	return &MongoEmployeeRepository{
		collection: collection,
		logger:     logger.Named("mongo_employee_repository"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func byDocument(doc models.DocumentNumber) bson.M {
	return bson.M{"document_number": doc.String()}
}

func (r *MongoEmployeeRepository) FindByDocument(ctx context.Context, doc models.DocumentNumber) (*models.Employee, error) {
	ctx, span := utils.TraceDatabaseFind(ctx, r.collection.Name(), "document_number")
	defer span.End()

	var data models.EmployeeData
	err := r.collection.FindOne(ctx, byDocument(doc)).Decode(&data)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observability.DatabaseOperations.WithLabelValues("find", "not_found").Inc()
		return nil, models.ErrEmployeeNotFound
	}
	if err != nil {
		observability.DatabaseOperations.WithLabelValues("find", "error").Inc()
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"operation": "find_one"})
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("find", "success").Inc()

	e, err := data.Build()
	if err != nil {
		r.logger.Error("stored employee failed validation",
			zap.String("document_number", observability.MaskDocument(doc.String())),
			zap.Error(err))
		return nil, fmt.Errorf("failed to rebuild employee: %w", err)
	}
	return e, nil
}

func (r *MongoEmployeeRepository) Save(ctx context.Context, e *models.Employee) error {
	ctx, span := utils.TraceDatabaseUpdate(ctx, r.collection.Name(), "document_number", false)
	defer span.End()

	now := r.now()
	data := e.ToData()
	data.Version = 1
	data.CreatedAt = now
	data.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, data); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			observability.DatabaseOperations.WithLabelValues("insert", "conflict").Inc()
			return models.ErrEmployeeExists
		}
		observability.DatabaseOperations.WithLabelValues("insert", "error").Inc()
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"operation": "insert_one"})
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("insert", "success").Inc()

	e.MarkPersisted(1, now)
	return nil
}

// Update writes every section of e guarded by its version
func (r *MongoEmployeeRepository) Update(ctx context.Context, e *models.Employee) error {
	ctx, span := utils.TraceDatabaseUpdate(ctx, r.collection.Name(), "document_number", false)
	defer span.End()

	data := e.ToData()
	update := bson.M{"$set": bson.M{
		"personal_info": data.PersonalInfo,
		"contact_info":  data.ContactInfo,
		"housing_info":  data.HousingInfo,
		"vehicle_info":  data.VehicleInfo,
		"academic_info": data.AcademicInfo,
		"dependents":    data.Dependents,
		"complete":      data.Complete,
		"has_vehicle":   data.HasVehicle,

		"conflict_declaration": data.ConflictDeclaration,
	}}

	result, err := utils.UpdateWithOptimisticLock(ctx, r.collection, byDocument(e.Document()), update, e.Version())
	switch {
	case errors.Is(err, utils.ErrDocumentNotFound):
		observability.DatabaseOperations.WithLabelValues("update", "not_found").Inc()
		return models.ErrEmployeeNotFound
	case utils.IsOptimisticLockError(err):
		observability.DatabaseOperations.WithLabelValues("update", "conflict").Inc()
		return err
	case err != nil:
		observability.DatabaseOperations.WithLabelValues("update", "error").Inc()
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"operation": "update_one"})
		return err
	}
	observability.DatabaseOperations.WithLabelValues("update", "success").Inc()

	e.MarkPersisted(result.Version, result.UpdatedAt)
	return nil
}

func (r *MongoEmployeeRepository) Delete(ctx context.Context, doc models.DocumentNumber) error {
	result, err := r.collection.DeleteOne(ctx, byDocument(doc))
	if err != nil {
		observability.DatabaseOperations.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if result.DeletedCount == 0 {
		observability.DatabaseOperations.WithLabelValues("delete", "not_found").Inc()
		return models.ErrEmployeeNotFound
	}
	observability.DatabaseOperations.WithLabelValues("delete", "success").Inc()
	return nil
}

func (r *MongoEmployeeRepository) FindAll(ctx context.Context) ([]*models.Employee, error) {
	return r.find(ctx, "all", bson.M{})
}

func (r *MongoEmployeeRepository) FindByDepartment(ctx context.Context, department string) ([]*models.Employee, error) {
	return r.find(ctx, "department", bson.M{"personal_info.department": strings.TrimSpace(department)})
}

func (r *MongoEmployeeRepository) FindByTitle(ctx context.Context, title string) ([]*models.Employee, error) {
	return r.find(ctx, "title", bson.M{"personal_info.job_title": strings.TrimSpace(title)})
}

func (r *MongoEmployeeRepository) FindIncomplete(ctx context.Context) ([]*models.Employee, error) {
	return r.find(ctx, "incomplete", bson.M{"complete": false})
}

func (r *MongoEmployeeRepository) FindWithVehicle(ctx context.Context) ([]*models.Employee, error) {
	return r.find(ctx, "vehicle", bson.M{"has_vehicle": true})
}

func (r *MongoEmployeeRepository) FindWithDependents(ctx context.Context) ([]*models.Employee, error) {
	return r.find(ctx, "dependents", bson.M{"dependents.0": bson.M{"$exists": true}})
}

func (r *MongoEmployeeRepository) FindNotUpdatedSince(ctx context.Context, cutoff time.Time) ([]*models.Employee, error) {
	return r.find(ctx, "not_updated_since", bson.M{"updated_at": bson.M{"$lte": cutoff}})
}

func (r *MongoEmployeeRepository) Exists(ctx context.Context, doc models.DocumentNumber) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, byDocument(doc), options.Count().SetLimit(1))
	if err != nil {
		observability.DatabaseOperations.WithLabelValues("count", "error").Inc()
		return false, fmt.Errorf("failed to count employees: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("count", "success").Inc()
	return count > 0, nil
}

func (r *MongoEmployeeRepository) IsDocumentUnique(ctx context.Context, doc models.DocumentNumber) (bool, error) {
	exists, err := r.Exists(ctx, doc)
	return !exists, err
}

func (r *MongoEmployeeRepository) find(ctx context.Context, name string, filter bson.M) ([]*models.Employee, error) {
	ctx, span := utils.TraceDatabaseFind(ctx, r.collection.Name(), name)
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "document_number", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		observability.DatabaseOperations.WithLabelValues("find_many", "error").Inc()
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"query": name})
		return nil, fmt.Errorf("failed to find employees: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.EmployeeData
	if err := cursor.All(ctx, &rows); err != nil {
		observability.DatabaseOperations.WithLabelValues("find_many", "error").Inc()
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("find_many", "success").Inc()

	employees := make([]*models.Employee, 0, len(rows))
	for _, row := range rows {
		e, err := row.Build()
		if err != nil {
			r.logger.Error("skipping stored employee that failed validation",
				zap.String("document_number", observability.MaskDocument(row.DocumentNumber)),
				zap.Error(err))
			continue
		}
		employees = append(employees, e)
	}
	utils.AddSpanAttribute(span, "db.result_count", len(employees))
	return employees, nil
}
