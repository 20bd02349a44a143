package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	allocerrors "fleetalloc/internal/allocations/errors"
	"fleetalloc/pkg/config"
	mongodb "fleetalloc/pkg/db/mongo"
	"fleetalloc/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const AllocationsCollection = "Allocations"

// withTimeout wraps the context with a timeout unless the caller is
// already inside a transaction: a SessionContext cannot be wrapped
// without breaking transaction semantics, so it is returned unchanged
// with a no-op cancel.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// VehicleCount is one row of the per-vehicle breakdown.
type VehicleCount struct {
	VehicleID string `bson:"_id"`
	Count     int64  `bson:"count"`
}

// EmployeeCount is one row of the per-employee breakdown.
type EmployeeCount struct {
	EmployeeID string `bson:"_id"`
	Count      int64  `bson:"count"`
}

// DateBounds are the observed minimum and maximum active allocation
// dates, used to clamp open-ended report ranges.
type DateBounds struct {
	Min time.Time `bson:"min"`
	Max time.Time `bson:"max"`
}

type AllocationRepository interface {
	Insert(ctx context.Context, allocation *model.Allocation) error
	FindByID(ctx context.Context, id string) (*model.Allocation, error)
	Find(ctx context.Context, filter model.AllocationFilter, limit int, offset int64) ([]*model.Allocation, error)
	Count(ctx context.Context, filter model.AllocationFilter) (int64, error)
	UpdateStatus(ctx context.Context, id string, from, to model.AllocationStatus) (bool, error)
	UpdatePurpose(ctx context.Context, id string, purpose string) error
	IsVehicleFree(ctx context.Context, vehicleID string, date time.Time) (bool, error)
	AllocatedVehicleIDs(ctx context.Context, date time.Time) ([]string, error)
	CountActive(ctx context.Context, from, to time.Time) (int64, error)
	CountByVehicle(ctx context.Context, from, to time.Time) ([]VehicleCount, error)
	CountByEmployee(ctx context.Context, from, to time.Time) ([]EmployeeCount, error)
	ActiveDateBounds(ctx context.Context) (*DateBounds, error)
	ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error
}

type mongoAllocationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	tm         mongodb.TransactionManager
}

func NewMongoAllocationRepository(cfg *config.Config) AllocationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAllocationRepository{
		cfg:        cfg,
		collection: db.Collection(AllocationsCollection),
		tm:         mongodb.NewTransactionManager(cfg.Client.Mongo),
	}
}

// Insert persists a new allocation. The partial unique index on
// (vehicle_id, allocation_date) for active documents turns a lost race
// into a duplicate key error, surfaced as ErrVehicleDayTaken.
func (r *mongoAllocationRepository) Insert(ctx context.Context, allocation *model.Allocation) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	allocation.CreatedAt = now
	allocation.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, allocation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return allocerrors.ErrVehicleDayTaken
		}
		return fmt.Errorf("failed to create allocation: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		allocation.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAllocationRepository) FindByID(ctx context.Context, id string) (*model.Allocation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", allocerrors.ErrInvalidID, id)
	}

	var allocation model.Allocation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&allocation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, allocerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find allocation: %w", err)
	}
	return &allocation, nil
}

func buildQuery(filter model.AllocationFilter) bson.M {
	query := bson.M{}
	if filter.VehicleID != "" {
		query["vehicle_id"] = filter.VehicleID
	}
	if filter.EmployeeID != "" {
		query["employee_id"] = filter.EmployeeID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	dateRange := bson.M{}
	if filter.From != nil {
		dateRange["$gte"] = *filter.From
	}
	if filter.To != nil {
		dateRange["$lte"] = *filter.To
	}
	if len(dateRange) > 0 {
		query["allocation_date"] = dateRange
	}
	return query
}

func (r *mongoAllocationRepository) Find(ctx context.Context, filter model.AllocationFilter, limit int, offset int64) ([]*model.Allocation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "allocation_date", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer cursor.Close(ctx)

	allocations := make([]*model.Allocation, 0)
	if err := cursor.All(ctx, &allocations); err != nil {
		return nil, fmt.Errorf("failed to decode allocations: %w", err)
	}
	return allocations, nil
}

func (r *mongoAllocationRepository) Count(ctx context.Context, filter model.AllocationFilter) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count allocations: %w", err)
	}
	return count, nil
}

// UpdateStatus transitions an allocation from one status to another.
// The filter matches on the current status so concurrent callers cannot
// both observe the transition; false means no document matched, which
// the caller disambiguates by refetching.
func (r *mongoAllocationRepository) UpdateStatus(ctx context.Context, id string, from, to model.AllocationStatus) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", allocerrors.ErrInvalidID, id)
	}

	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "status": from},
		bson.M{"$set": bson.M{
			"status":     to,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update allocation status: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *mongoAllocationRepository) UpdatePurpose(ctx context.Context, id string, purpose string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", allocerrors.ErrInvalidID, id)
	}

	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"purpose":    purpose,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update allocation purpose: %w", err)
	}
	if result.MatchedCount == 0 {
		return allocerrors.ErrNotFound
	}
	return nil
}

func (r *mongoAllocationRepository) IsVehicleFree(ctx context.Context, vehicleID string, date time.Time) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"vehicle_id":      vehicleID,
		"allocation_date": date,
		"status":          model.AllocationActive,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check vehicle availability: %w", err)
	}
	return count == 0, nil
}

// AllocatedVehicleIDs aggregates instead of using Distinct because the
// distinct command is rejected inside multi-document transactions, and
// this query runs under one for snapshot reads.
func (r *mongoAllocationRepository) AllocatedVehicleIDs(ctx context.Context, date time.Time) ([]string, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, allocatedVehiclesPipeline(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list allocated vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		VehicleIDs []string `bson:"vehicle_ids"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode allocated vehicles: %w", err)
	}
	if len(results) == 0 {
		return []string{}, nil
	}
	return results[0].VehicleIDs, nil
}

func allocatedVehiclesPipeline(date time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"allocation_date": date,
			"status":          model.AllocationActive,
		}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "vehicle_ids": bson.M{"$addToSet": "$vehicle_id"}}}},
	}
}

func activeRangeQuery(from, to time.Time) bson.M {
	return bson.M{
		"status":          model.AllocationActive,
		"allocation_date": bson.M{"$gte": from, "$lte": to},
	}
}

func (r *mongoAllocationRepository) CountActive(ctx context.Context, from, to time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, activeRangeQuery(from, to))
	if err != nil {
		return 0, fmt.Errorf("failed to count active allocations: %w", err)
	}
	return count, nil
}

func (r *mongoAllocationRepository) CountByVehicle(ctx context.Context, from, to time.Time) ([]VehicleCount, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: activeRangeQuery(from, to)}},
		{{Key: "$group", Value: bson.M{"_id": "$vehicle_id", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by vehicle: %w", err)
	}
	defer cursor.Close(ctx)

	results := make([]VehicleCount, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode vehicle counts: %w", err)
	}
	return results, nil
}

func (r *mongoAllocationRepository) CountByEmployee(ctx context.Context, from, to time.Time) ([]EmployeeCount, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: activeRangeQuery(from, to)}},
		{{Key: "$group", Value: bson.M{"_id": "$employee_id", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by employee: %w", err)
	}
	defer cursor.Close(ctx)

	results := make([]EmployeeCount, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode employee counts: %w", err)
	}
	return results, nil
}

// ActiveDateBounds returns the earliest and latest active allocation
// dates, or nil when no active allocations exist.
func (r *mongoAllocationRepository) ActiveDateBounds(ctx context.Context) (*DateBounds, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": model.AllocationActive}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"min": bson.M{"$min": "$allocation_date"},
			"max": bson.M{"$max": "$allocation_date"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate date bounds: %w", err)
	}
	defer cursor.Close(ctx)

	var bounds []DateBounds
	if err := cursor.All(ctx, &bounds); err != nil {
		return nil, fmt.Errorf("failed to decode date bounds: %w", err)
	}
	if len(bounds) == 0 {
		return nil, nil
	}
	return &bounds[0], nil
}

func (r *mongoAllocationRepository) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return r.tm.ExecuteTransaction(ctx, fn)
}
