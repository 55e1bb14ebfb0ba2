package repository

import (
	"context"
	"errors"
	"fmt"
	"user-service/internal/models"
	"user-service/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

// ErrNoUpdatableFields is returned when an update contains nothing but the
// partition key, which is immutable and never rewritten.
var ErrNoUpdatableFields = errors.New("update contains no updatable fields")

type userRepository struct {
	logger    *logrus.Entry
	dynamodb  utils.DynamoDbAPI
	tableName string
}

func NewUserRepository(logger *logrus.Entry, dynamodb utils.DynamoDbAPI, tableName string) utils.UserRepository {
	return &userRepository{
		logger:    logger,
		dynamodb:  dynamodb,
		tableName: tableName,
	}
}

func (r *userRepository) ListUsers(ctx context.Context) ([]models.Record, error) {
	result, err := r.dynamodb.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to scan users from DynamoDB")
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}

	records := make([]models.Record, 0, len(result.Items))
	for _, item := range result.Items {
		records = append(records, models.RecordFromItem(item))
	}

	r.logger.WithField("count", len(records)).Info("Successfully scanned users")
	return records, nil
}

func (r *userRepository) GetUser(ctx context.Context, id string) (models.Record, error) {
	result, err := r.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to get user from DynamoDB")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if result.Item == nil {
		// No user with this id
		return nil, nil
	}

	return models.RecordFromItem(result.Item), nil
}

func (r *userRepository) PutUser(ctx context.Context, record models.Record) (models.Record, error) {
	id, err := record.ID()
	if err != nil {
		return nil, err
	}

	item, err := record.ToItem()
	if err != nil {
		return nil, err
	}

	// Unconditional write: a record sharing the id is overwritten,
	// last write wins.
	_, err = r.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to put user to DynamoDB")
		return nil, fmt.Errorf("failed to put user: %w", err)
	}

	r.logger.WithField("id", id).Info("Successfully put user")
	return record, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (models.Record, error) {
	update := expression.UpdateBuilder{}
	updatable := 0
	for name, value := range fields {
		if name == "id" {
			continue
		}
		update = update.Set(expression.Name(name), expression.Value(value))
		updatable++
	}
	if updatable == 0 {
		return nil, ErrNoUpdatableFields
	}

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	result, err := r.dynamodb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to update user in DynamoDB")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"id":     id,
		"fields": updatable,
	}).Info("Successfully updated user")

	return models.RecordFromItem(result.Attributes), nil
}

func (r *userRepository) DeleteUser(ctx context.Context, id string) (models.Record, error) {
	result, err := r.dynamodb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to delete user from DynamoDB")
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	if result.Attributes == nil {
		// Nothing was deleted
		return nil, nil
	}

	r.logger.WithField("id", id).Info("Successfully deleted user")
	return models.RecordFromItem(result.Attributes), nil
}
