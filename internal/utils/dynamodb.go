package utils

import (
	"context"
	"user-service/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoDbAPI defines the DynamoDB operations needed by our application
type DynamoDbAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// UserRepository defines user-record database operations
type UserRepository interface {
	ListUsers(ctx context.Context) ([]models.Record, error)
	GetUser(ctx context.Context, id string) (models.Record, error)
	PutUser(ctx context.Context, record models.Record) (models.Record, error)
	UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (models.Record, error)
	DeleteUser(ctx context.Context, id string) (models.Record, error)
}
