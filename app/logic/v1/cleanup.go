package v1

import (
	"context"
	"log/slog"

	"github.com/resumid-ai/resumid/app/core"
	"github.com/resumid-ai/resumid/pkg/types"
)

// CleanupLogic garbage collects chunks whose owning entity no longer exists.
// Entity deletes normally take their chunks with them, but a crash between
// the entity delete and the chunk delete, or rows imported from an older
// schema, can leave orphans behind. The cron job sweeps them out.
type CleanupLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewCleanupLogic(ctx context.Context, core *core.Core) *CleanupLogic {
	return &CleanupLogic{
		ctx:  ctx,
		core: core,
	}
}

type cleanupSource struct {
	resumeID   string
	sourceType types.SourceType
	sourceID   string
}

type CleanupReport struct {
	SourcesScanned int
	SourcesRemoved int
}

const cleanupPageSize = 200

// Sweep walks every chunk, groups them by source and removes chunks and
// vectors of sources that no longer resolve to a live entity. Each dangling
// source is removed in its own transaction so one failure does not abort
// the whole sweep.
func (l *CleanupLogic) Sweep() (CleanupReport, error) {
	var report CleanupReport

	seen := make(map[cleanupSource]struct{})
	for page := uint64(1); ; page++ {
		chunks, err := l.core.Store().KnowledgeChunkStore().List(l.ctx, types.GetChunkOptions{}, page, cleanupPageSize)
		if err != nil {
			return report, err
		}
		if len(chunks) == 0 {
			break
		}
		for _, chunk := range chunks {
			seen[cleanupSource{
				resumeID:   chunk.ResumeID,
				sourceType: chunk.SourceType,
				sourceID:   chunk.SourceID,
			}] = struct{}{}
		}
		if len(chunks) < cleanupPageSize {
			break
		}
	}

	knowledge := NewKnowledgeLogic(l.ctx, l.core)
	for src := range seen {
		report.SourcesScanned++
		exists, err := knowledge.sourceExists(src.resumeID, src.sourceType, src.sourceID)
		if err != nil {
			slog.Error("cleanup source check failed",
				slog.String("source_type", src.sourceType.String()),
				slog.String("source_id", src.sourceID),
				slog.String("error", err.Error()))
			continue
		}
		if exists {
			continue
		}

		l.core.Metrics().DanglingChunkInc(src.sourceType.String())
		if err := knowledge.DeleteSourceChunks(src.resumeID, src.sourceType, src.sourceID); err != nil {
			slog.Error("cleanup source delete failed",
				slog.String("source_type", src.sourceType.String()),
				slog.String("source_id", src.sourceID),
				slog.String("error", err.Error()))
			continue
		}
		report.SourcesRemoved++
		slog.Info("removed dangling source chunks",
			slog.String("resume_id", src.resumeID),
			slog.String("source_type", src.sourceType.String()),
			slog.String("source_id", src.sourceID))
	}
	return report, nil
}
