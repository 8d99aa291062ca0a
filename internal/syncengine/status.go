package syncengine

import (
	"context"
	"fmt"
	"time"

	"github.com/mertkaraca/folio/internal/models"
)

// syncTolerance absorbs clock skew between the entity update and the
// chunk writes of the sync that followed it.
const syncTolerance = 5 * time.Second

// Status reports per-entity index freshness for one source type:
// missing (no chunks), outdated (entity updated after its chunks, past
// tolerance) or synced. The dashboard lists every entity, eligible or
// not, so an unpublished post simply shows as missing.
func (e *Engine) Status(ctx context.Context, sourceType string) ([]models.SyncStatus, error) {
	policy, err := policyFor(sourceType)
	if err != nil {
		return nil, err
	}

	entities, err := e.content.FindEntitiesByType(ctx, sourceType, false)
	if err != nil {
		return nil, fmt.Errorf("load %s entities: %w", sourceType, err)
	}

	out := make([]models.SyncStatus, 0, len(entities))
	for i := range entities {
		entity := &entities[i]

		status := models.SyncStatus{
			SourceType:      sourceType,
			SourceID:        entity.ID,
			Title:           policy.title(e.resolver.Resolve(entity, "")),
			EntityUpdatedAt: entity.UpdatedAt,
		}

		chunkTime, ok, err := e.vectors.LastChunkUpdate(ctx, sourceType, entity.ID)
		if err != nil {
			return nil, fmt.Errorf("chunk time for %s/%s: %w", sourceType, entity.ID, err)
		}

		switch {
		case !ok:
			status.State = models.SyncStateMissing
		case entity.UpdatedAt.Sub(chunkTime) > syncTolerance:
			status.State = models.SyncStateOutdated
			status.ChunksUpdatedAt = chunkTime
		default:
			status.State = models.SyncStateSynced
			status.ChunksUpdatedAt = chunkTime
		}

		out = append(out, status)
	}
	return out, nil
}
