package audit

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"workforce/internal/platform/querier"
)

type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

// Record writes one audit event. Best effort: a failed audit write is logged
// and never rolls back the operation that produced it.
func (s *Service) Record(ctx context.Context, tenantID, actorID, action, entityType, entityID, requestID string, before, after any) {
	var beforeJSON, afterJSON []byte
	if before != nil {
		payload, err := json.Marshal(before)
		if err != nil {
			log.Warn().Err(err).Str("action", action).Msg("audit marshal before failed")
			return
		}
		beforeJSON = payload
	}
	if after != nil {
		payload, err := json.Marshal(after)
		if err != nil {
			log.Warn().Err(err).Str("action", action).Msg("audit marshal after failed")
			return
		}
		afterJSON = payload
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (tenant_id, actor_id, action, entity_type, entity_id, before_json, after_json, request_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, tenantID, actorID, action, entityType, entityID, beforeJSON, afterJSON, requestID)
	if err != nil {
		log.Warn().Err(err).Str("action", action).Str("entityId", entityID).Msg("audit write failed")
	}
}
