package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"math"
	"time"
)

const expensesCollection = "expenses"

// expenseDocument also reads legacy documents, where amount is a double,
// date a BSON datetime and userId an ObjectId (decoded to its hex form).
type expenseDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	Amount      bson.RawValue      `bson:"amount"`
	Date        bson.RawValue      `bson:"date"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

type MongoExpenseRepository struct {
	collection *mongo.Collection
}

func NewMongoExpenseRepository(db *mongo.Database) *MongoExpenseRepository {
	return &MongoExpenseRepository{collection: db.Collection(expensesCollection)}
}

func (r *MongoExpenseRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
	})
	return err
}

func (r *MongoExpenseRepository) Save(ctx context.Context, expense *domain.Expense) error {
	amount, err := amountValue(expense.Amount)
	if err != nil {
		return err
	}
	doc := bson.D{
		{Key: "userId", Value: expense.OwnerID},
		{Key: "title", Value: expense.Title},
		{Key: "description", Value: expense.Description},
		{Key: "category", Value: expense.Category},
		{Key: "amount", Value: amount},
		{Key: "date", Value: expense.OccurredAt},
		{Key: "createdAt", Value: expense.CreatedAt},
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		expense.ID = id.Hex()
	}
	return nil
}

func (r *MongoExpenseRepository) FindByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	id, err := primitive.ObjectIDFromHex(expenseID)
	if err != nil {
		return nil, financeErrors.ErrExpenseNotFound
	}
	var doc expenseDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, financeErrors.ErrExpenseNotFound
	}
	if err != nil {
		return nil, err
	}
	expense := doc.toDomain()
	return &expense, nil
}

func (r *MongoExpenseRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Expense, error) {
	expenses := make([]domain.Expense, 0)
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	err := r.find(ctx, ownerID, opts, func(e domain.Expense) error {
		expenses = append(expenses, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *MongoExpenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	id, err := primitive.ObjectIDFromHex(expense.ID)
	if err != nil {
		return financeErrors.ErrExpenseNotFound
	}
	amount, err := amountValue(expense.Amount)
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":       expense.Title,
		"description": expense.Description,
		"category":    expense.Category,
		"amount":      amount,
		"date":        expense.OccurredAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return financeErrors.ErrExpenseNotFound
	}
	return nil
}

func (r *MongoExpenseRepository) Delete(ctx context.Context, expenseID string) error {
	id, err := primitive.ObjectIDFromHex(expenseID)
	if err != nil {
		return financeErrors.ErrExpenseNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return financeErrors.ErrExpenseNotFound
	}
	return nil
}

func (r *MongoExpenseRepository) FetchRecords(ctx context.Context, ownerID string) ([]domain.Expense, error) {
	var records []domain.Expense
	err := r.StreamRecords(ctx, ownerID, func(e domain.Expense) error {
		records = append(records, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *MongoExpenseRepository) StreamRecords(ctx context.Context, ownerID string, fn func(domain.Expense) error) error {
	return r.find(ctx, ownerID, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}), fn)
}

func (r *MongoExpenseRepository) find(ctx context.Context, ownerID string, opts *options.FindOptions, fn func(domain.Expense) error) error {
	cursor, err := r.collection.Find(ctx, ownerFilter(ownerID), opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc expenseDocument
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		if err := fn(doc.toDomain()); err != nil {
			return err
		}
	}
	return cursor.Err()
}

// ownerFilter matches userId stored either as a string or as an ObjectId.
func ownerFilter(ownerID string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(ownerID); err == nil {
		return bson.M{"userId": bson.M{"$in": bson.A{ownerID, oid}}}
	}
	return bson.M{"userId": ownerID}
}

func (d expenseDocument) toDomain() domain.Expense {
	expense := domain.Expense{
		ID:          d.ID.Hex(),
		OwnerID:     d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		CreatedAt:   d.CreatedAt.UTC(),
	}
	if amount, ok := decodeAmount(d.Amount); ok {
		expense.Amount = amount
	} else {
		expense.MarkAmountUnreadable()
	}
	if d.Date.Type == bson.TypeDateTime {
		expense.OccurredAt = d.Date.Time().UTC()
	}
	return expense
}

func decodeAmount(v bson.RawValue) (decimal.Decimal, bool) {
	switch v.Type {
	case bson.TypeDouble:
		f := v.Double()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(f), true
	case bson.TypeInt32:
		return decimal.NewFromInt32(v.Int32()), true
	case bson.TypeInt64:
		return decimal.NewFromInt(v.Int64()), true
	case bson.TypeDecimal128:
		d, err := decimal.NewFromString(v.Decimal128().String())
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

func amountValue(amount decimal.Decimal) (primitive.Decimal128, error) {
	d, err := primitive.ParseDecimal128(amount.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("amount %s does not fit decimal128: %w", amount.String(), err)
	}
	return d, nil
}
