package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dashtutor/internal/skillcache"
)

func replaceUpsert() *options.ReplaceOptions {
	return options.Replace().SetUpsert(true)
}

// ListSkillDocuments scans the entire skills collection for the cache
// build. Flattening of hierarchical documents is the cache's job, not the
// store's.
func (h *Handler) ListSkillDocuments(ctx context.Context) ([]skillcache.SkillDocument, error) {
	opCtx, cancel := h.opContext(ctx)
	defer cancel()

	cur, err := h.skills.Find(opCtx, bson.M{})
	if err != nil {
		return nil, storeErr("list_skill_documents", err)
	}
	defer cur.Close(opCtx)

	var docs []skillcache.SkillDocument
	if err := cur.All(opCtx, &docs); err != nil {
		return nil, storeErr("list_skill_documents", err)
	}
	return docs, nil
}

// ReplaceSkillDocuments writes curriculum documents, used by the seed
// command. Each document is keyed by its subject/grade (hierarchical) or
// skill_id (flat).
func (h *Handler) ReplaceSkillDocuments(ctx context.Context, docs []skillcache.SkillDocument) error {
	for _, doc := range docs {
		filter := bson.M{"skill_id": doc.SkillID}
		if doc.SkillID == "" {
			filter = bson.M{"subject": doc.Subject, "grade_level": doc.GradeLevel}
		}
		opCtx, cancel := h.opContext(ctx)
		_, err := h.skills.ReplaceOne(opCtx, filter, doc, replaceUpsert())
		cancel()
		if err != nil {
			return storeErr("replace_skill_documents", err)
		}
	}
	return nil
}
