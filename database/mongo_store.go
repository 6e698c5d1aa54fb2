package database

import (
	"bytes"
	"context"
	"errors"
	"reports-api/schemas"
	"reports-api/utils"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoDB server error codes that mean the caller lacks privileges.
const (
	mongoCodeUnauthorized         = 13
	mongoCodeAuthenticationFailed = 18
)

type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{db: client.Database(dbName)}
}

func (s *MongoStore) ListPage(ctx context.Context, collection string, limit, offset int) ([]schemas.Report, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{}, pageOptions(limit, offset))
	if err != nil {
		return nil, classifyMongoError(err, "find reports")
	}
	defer cursor.Close(ctx)

	reports := []schemas.Report{}
	for cursor.Next(ctx) {
		report, err := decodeReport(cursor.Current)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := cursor.Err(); err != nil {
		return nil, classifyMongoError(err, "iterate reports")
	}
	return reports, nil
}

// CreateDocument inserts report. An empty id lets the driver assign an ObjectID.
func (s *MongoStore) CreateDocument(ctx context.Context, collection, id string, report schemas.Report) (*schemas.Report, error) {
	now := time.Now().UTC()

	report.ID = id
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now

	result, err := s.db.Collection(collection).InsertOne(ctx, report)
	if err != nil {
		return nil, classifyMongoError(err, "insert report")
	}
	if oid, ok := result.InsertedID.(bson.ObjectID); ok {
		report.ID = oid.Hex()
	}
	return &report, nil
}

func (s *MongoStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) (*schemas.Report, error) {
	updateOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)
	result := s.db.Collection(collection).FindOneAndUpdate(ctx, idFilter(id), setUpdate(fields), updateOptions)

	raw, err := result.Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, eris.Wrapf(utils.ErrNotFound, "report %s", id)
		}
		return nil, classifyMongoError(err, "update report "+id)
	}

	updated, err := decodeReport(raw)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *MongoStore) DeleteDocument(ctx context.Context, collection, id string) error {
	result, err := s.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return classifyMongoError(err, "delete report "+id)
	}
	if result.DeletedCount == 0 {
		return eris.Wrapf(utils.ErrNotFound, "report %s", id)
	}
	return nil
}

// pageOptions orders by _id so consecutive pages neither overlap nor skip.
func pageOptions(limit, offset int) *options.FindOptionsBuilder {
	return options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
}

// decodeReport reads one stored report. ObjectID keys come back as their hex
// string so ids stay opaque above this package.
func decodeReport(raw bson.Raw) (schemas.Report, error) {
	dec := bson.NewDecoder(bson.NewDocumentReader(bytes.NewReader(raw)))
	dec.ObjectIDAsHexString()

	var report schemas.Report
	if err := dec.Decode(&report); err != nil {
		return schemas.Report{}, eris.Wrap(err, "decode report")
	}
	return report, nil
}

// idFilter matches id stored either as an ObjectID or as a plain string.
func idFilter(id string) bson.D {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.D{{Key: "_id", Value: id}}
	}
	return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{oid, id}}}}}
}

// setUpdate builds a $set with the fields in key order.
func setUpdate(fields map[string]any) bson.D {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	set := bson.D{}
	for _, k := range keys {
		set = append(set, bson.E{Key: k, Value: fields[k]})
	}
	return bson.D{{Key: "$set", Value: set}}
}

func classifyMongoError(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return eris.Wrapf(utils.ErrNotFound, "%s: %v", op, err)
	}

	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) &&
		(serverErr.HasErrorCode(mongoCodeUnauthorized) || serverErr.HasErrorCode(mongoCodeAuthenticationFailed)) {
		return eris.Wrapf(utils.ErrPermission, "%s: %v", op, err)
	}

	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, mongo.ErrClientDisconnected) {
		return eris.Wrapf(utils.ErrConnectivity, "%s: %v", op, err)
	}

	return eris.Wrap(err, op)
}
