package models

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Record is a schemaless user record. The only required field is "id",
// the table's partition key; every other field is opaque payload.
type Record map[string]interface{}

var ErrMissingID = errors.New(`record has no string "id" field`)

// ID returns the partition key value of the record.
func (r Record) ID() (string, error) {
	raw, ok := r["id"]
	if !ok {
		return "", ErrMissingID
	}
	id, ok := raw.(string)
	if !ok || id == "" {
		return "", ErrMissingID
	}
	return id, nil
}

// ToItem converts the record into a DynamoDB item.
func (r Record) ToItem() (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(map[string]interface{}(r))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	return item, nil
}

// RecordFromItem converts a DynamoDB item back into a Record. Number
// attributes are kept as strings so arbitrary-precision values survive
// JSON serialization without a lossy float64 round trip.
func RecordFromItem(item map[string]types.AttributeValue) Record {
	record := make(Record, len(item))
	for name, attr := range item {
		record[name] = attributeToValue(attr)
	}
	return record
}

func attributeToValue(attr types.AttributeValue) interface{} {
	switch v := attr.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	case *types.AttributeValueMemberBOOL:
		return v.Value
	case *types.AttributeValueMemberNULL:
		return nil
	case *types.AttributeValueMemberB:
		return base64.StdEncoding.EncodeToString(v.Value)
	case *types.AttributeValueMemberSS:
		values := make([]interface{}, 0, len(v.Value))
		for _, s := range v.Value {
			values = append(values, s)
		}
		return values
	case *types.AttributeValueMemberNS:
		values := make([]interface{}, 0, len(v.Value))
		for _, n := range v.Value {
			values = append(values, n)
		}
		return values
	case *types.AttributeValueMemberL:
		values := make([]interface{}, 0, len(v.Value))
		for _, elem := range v.Value {
			values = append(values, attributeToValue(elem))
		}
		return values
	case *types.AttributeValueMemberM:
		return map[string]interface{}(RecordFromItem(v.Value))
	default:
		return nil
	}
}
