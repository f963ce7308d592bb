package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testRecord is the record shape used by the mock adapter.
type testRecord struct {
	ID    string
	Value string
}

// mockAdapter is a scriptable test adapter that records mutations.
type mockAdapter struct {
	existing    map[string]Record
	unresolved  map[string]bool
	insertErr   error
	inserted    []string
	updated     []string
	softDeleted []string
}

func (m *mockAdapter) Name() string { return "mock" }

func (m *mockAdapter) Parse(raw json.RawMessage) (Record, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &MalformedRecordError{Entity: "mock", Field: "body", Reason: "invalid json"}
	}
	id, _ := data["id"].(string)
	value, _ := data["value"].(string)
	if value == "" {
		return nil, &MalformedRecordError{Entity: "mock", Field: "value", Reason: "missing", ExternalID: id}
	}
	if id == "" {
		return nil, &MalformedRecordError{Entity: "mock", Field: "id", Reason: "missing"}
	}
	return &testRecord{ID: id, Value: value}, nil
}

func (m *mockAdapter) ExternalID(rec Record) string {
	return rec.(*testRecord).ID
}

func (m *mockAdapter) FilterReferences(ctx context.Context, tx *gorm.DB, recs []Record) ([]Record, int, error) {
	kept := make([]Record, 0, len(recs))
	dropped := 0
	for _, rec := range recs {
		if m.unresolved[rec.(*testRecord).ID] {
			dropped++
			continue
		}
		kept = append(kept, rec)
	}
	return kept, dropped, nil
}

func (m *mockAdapter) LoadExisting(ctx context.Context, tx *gorm.DB, externalIDs []string) (map[string]Record, error) {
	out := make(map[string]Record)
	for _, id := range externalIDs {
		if rec, ok := m.existing[id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

func (m *mockAdapter) Insert(ctx context.Context, tx *gorm.DB, rec Record) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, rec.(*testRecord).ID)
	return nil
}

func (m *mockAdapter) Equal(existing, incoming Record) bool {
	return existing.(*testRecord).Value == incoming.(*testRecord).Value
}

func (m *mockAdapter) Update(ctx context.Context, tx *gorm.DB, existing, incoming Record) error {
	m.updated = append(m.updated, incoming.(*testRecord).ID)
	return nil
}

func (m *mockAdapter) SoftDelete(ctx context.Context, tx *gorm.DB, externalIDs []string) (int64, error) {
	m.softDeleted = append(m.softDeleted, externalIDs...)
	return int64(len(externalIDs)), nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test db: %v", err)
	}
	return db
}

func rawBatch(items ...string) []json.RawMessage {
	batch := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		batch = append(batch, json.RawMessage(item))
	}
	return batch
}

func TestImport_InsertUpdateUnchanged(t *testing.T) {
	adapter := &mockAdapter{
		existing: map[string]Record{
			"a": &testRecord{ID: "a", Value: "same"},
			"b": &testRecord{ID: "b", Value: "old"},
		},
	}

	summary, err := Import(context.Background(), testDB(t), adapter, rawBatch(
		`{"id": "a", "value": "same"}`,
		`{"id": "b", "value": "new"}`,
		`{"id": "c", "value": "fresh"}`,
	))

	assert.NoError(t, err)
	assert.Equal(t, 3, summary.Received)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Equal(t, []string{"c"}, adapter.inserted)
	assert.Equal(t, []string{"b"}, adapter.updated)
	assert.Empty(t, adapter.softDeleted)
}

func TestImport_MalformedPartitioning(t *testing.T) {
	adapter := &mockAdapter{
		existing: map[string]Record{},
	}

	summary, err := Import(context.Background(), testDB(t), adapter, rawBatch(
		`{"id": "a", "value": "ok"}`,
		`{"id": "gone"}`,   // malformed, recoverable id -> soft delete
		`{"value": "x"}`,   // malformed, no id -> dropped
		`not even json at`, // undecodable -> dropped
	))

	assert.NoError(t, err)
	assert.Equal(t, 4, summary.Received)
	assert.Equal(t, 3, summary.Malformed)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 2, summary.Dropped)
	assert.Equal(t, 1, summary.SoftDeleted)
	assert.Equal(t, []string{"gone"}, adapter.softDeleted)
}

func TestImport_ValidRecordWinsOverMalformed(t *testing.T) {
	adapter := &mockAdapter{existing: map[string]Record{}}

	summary, err := Import(context.Background(), testDB(t), adapter, rawBatch(
		`{"id": "a"}`,                  // malformed with id a
		`{"id": "a", "value": "live"}`, // valid record for the same id
	))

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 0, summary.SoftDeleted)
	assert.Empty(t, adapter.softDeleted)
}

func TestImport_LastWriteWinsWithinBatch(t *testing.T) {
	adapter := &mockAdapter{
		existing: map[string]Record{
			"a": &testRecord{ID: "a", Value: "old"},
		},
	}

	summary, err := Import(context.Background(), testDB(t), adapter, rawBatch(
		`{"id": "a", "value": "first"}`,
		`{"id": "a", "value": "second"}`,
	))

	assert.NoError(t, err)
	// The duplicate collapses to one update carrying the later value.
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 0, summary.Unchanged)
	assert.Equal(t, []string{"a"}, adapter.updated)
}

func TestImport_UnresolvedReferencesDropped(t *testing.T) {
	adapter := &mockAdapter{
		existing:   map[string]Record{},
		unresolved: map[string]bool{"b": true},
	}

	summary, err := Import(context.Background(), testDB(t), adapter, rawBatch(
		`{"id": "a", "value": "ok"}`,
		`{"id": "b", "value": "orphan"}`,
	))

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Dropped)
	assert.Equal(t, []string{"a"}, adapter.inserted)
	// Dropped references never contribute to the delete set.
	assert.Empty(t, adapter.softDeleted)
}

func TestImport_StorageFaultPropagates(t *testing.T) {
	adapter := &mockAdapter{
		existing:  map[string]Record{},
		insertErr: fmt.Errorf("connection lost"),
	}

	summary, err := Import(context.Background(), testDB(t), adapter, rawBatch(
		`{"id": "a", "value": "ok"}`,
	))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection lost")
	assert.Nil(t, summary)
}

func TestImport_EmptyBatch(t *testing.T) {
	adapter := &mockAdapter{existing: map[string]Record{}}

	summary, err := Import(context.Background(), testDB(t), adapter, nil)

	assert.NoError(t, err)
	assert.Equal(t, &Summary{}, summary)
}
