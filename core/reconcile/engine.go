package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"gorm.io/gorm"
)

// Import reconciles one batch of raw external records of a single entity
// kind against persisted state. All storage work happens inside a single
// transaction: on any storage fault the error is returned and nothing from
// the batch survives.
func Import(ctx context.Context, db *gorm.DB, adapter Adapter, batch []json.RawMessage) (*Summary, error) {
	summary := &Summary{Received: len(batch)}

	// Partition the raw batch. Later occurrences of the same external id
	// supersede earlier ones (last-write-wins).
	var order []string
	byID := make(map[string]Record)
	deleteSet := make(map[string]struct{})

	for _, raw := range batch {
		rec, err := adapter.Parse(raw)
		if err != nil {
			summary.Malformed++
			var malformed *MalformedRecordError
			if errors.As(err, &malformed) && malformed.ExternalID != "" {
				deleteSet[malformed.ExternalID] = struct{}{}
			} else {
				summary.Dropped++
			}
			continue
		}

		id := adapter.ExternalID(rec)
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = rec
	}

	// A valid record wins over a malformed one sharing its external id.
	for id := range byID {
		delete(deleteSet, id)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recs := make([]Record, 0, len(order))
		for _, id := range order {
			recs = append(recs, byID[id])
		}

		kept, dropped, err := adapter.FilterReferences(ctx, tx, recs)
		if err != nil {
			return err
		}
		summary.Dropped += dropped

		ids := make([]string, 0, len(kept))
		for _, rec := range kept {
			ids = append(ids, adapter.ExternalID(rec))
		}

		existing := map[string]Record{}
		if len(ids) > 0 {
			existing, err = adapter.LoadExisting(ctx, tx, ids)
			if err != nil {
				return err
			}
		}

		for _, rec := range kept {
			cur, ok := existing[adapter.ExternalID(rec)]
			switch {
			case !ok:
				if err := adapter.Insert(ctx, tx, rec); err != nil {
					return err
				}
				summary.Inserted++
			case adapter.Equal(cur, rec):
				summary.Unchanged++
			default:
				if err := adapter.Update(ctx, tx, cur, rec); err != nil {
					return err
				}
				summary.Updated++
			}
		}

		if len(deleteSet) > 0 {
			deleteIDs := make([]string, 0, len(deleteSet))
			for id := range deleteSet {
				deleteIDs = append(deleteIDs, id)
			}
			// Deterministic order for stable SQL and tests
			sort.Strings(deleteIDs)

			n, err := adapter.SoftDelete(ctx, tx, deleteIDs)
			if err != nil {
				return err
			}
			summary.SoftDeleted = int(n)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}
