package models

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestRecordID(t *testing.T) {
	t.Run("Present id", func(t *testing.T) {
		record := Record{"id": "42", "name": "A"}

		id, err := record.ID()
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if id != "42" {
			t.Errorf("Expected id '42', got '%s'", id)
		}
	})

	t.Run("Missing id", func(t *testing.T) {
		record := Record{"name": "A"}

		if _, err := record.ID(); err != ErrMissingID {
			t.Errorf("Expected ErrMissingID, got %v", err)
		}
	})

	t.Run("Empty id", func(t *testing.T) {
		record := Record{"id": ""}

		if _, err := record.ID(); err != ErrMissingID {
			t.Errorf("Expected ErrMissingID, got %v", err)
		}
	})

	t.Run("Non-string id", func(t *testing.T) {
		record := Record{"id": 42}

		if _, err := record.ID(); err != ErrMissingID {
			t.Errorf("Expected ErrMissingID, got %v", err)
		}
	})
}

func TestRecordFromItem(t *testing.T) {
	item := map[string]types.AttributeValue{
		"id":     &types.AttributeValueMemberS{Value: "42"},
		"name":   &types.AttributeValueMemberS{Value: "A"},
		"score":  &types.AttributeValueMemberN{Value: "12.5"},
		"active": &types.AttributeValueMemberBOOL{Value: true},
		"note":   &types.AttributeValueMemberNULL{Value: true},
		"address": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"zip": &types.AttributeValueMemberN{Value: "10115"},
		}},
		"tags": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "a"},
			&types.AttributeValueMemberN{Value: "7"},
		}},
	}

	record := RecordFromItem(item)

	if record["id"] != "42" {
		t.Errorf("Expected id '42', got %v", record["id"])
	}
	if record["name"] != "A" {
		t.Errorf("Expected name 'A', got %v", record["name"])
	}

	// Number attributes stay strings so precision is never lost
	if record["score"] != "12.5" {
		t.Errorf("Expected score '12.5', got %v", record["score"])
	}
	if record["active"] != true {
		t.Errorf("Expected active true, got %v", record["active"])
	}
	if record["note"] != nil {
		t.Errorf("Expected note nil, got %v", record["note"])
	}

	address, ok := record["address"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected address to be a map, got %T", record["address"])
	}
	if address["zip"] != "10115" {
		t.Errorf("Expected zip '10115', got %v", address["zip"])
	}

	tags, ok := record["tags"].([]interface{})
	if !ok {
		t.Fatalf("Expected tags to be a list, got %T", record["tags"])
	}
	if len(tags) != 2 || tags[0] != "a" || tags[1] != "7" {
		t.Errorf("Unexpected tags: %v", tags)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	record := Record{"id": "42", "name": "A", "score": 12.5}

	item, err := record.ToItem()
	if err != nil {
		t.Fatalf("Failed to marshal record: %v", err)
	}

	got := RecordFromItem(item)
	if got["id"] != "42" || got["name"] != "A" {
		t.Errorf("Unexpected round trip result: %v", got)
	}
	if got["score"] != "12.5" {
		t.Errorf("Expected score '12.5' after round trip, got %v", got["score"])
	}
}
