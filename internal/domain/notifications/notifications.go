package notifications

import (
	"context"

	"github.com/rs/zerolog/log"

	"workforce/internal/platform/querier"
)

type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	ReadAt    any    `json:"readAt,omitempty"`
	CreatedAt any    `json:"createdAt"`
}

type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

// Notify stores an in-app notification. Best effort and off the critical
// path; delivery to email is an external pipeline.
func (s *Service) Notify(ctx context.Context, tenantID, employeeID, ntype, title, body string) {
	if employeeID == "" {
		return
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (tenant_id, employee_id, notif_type, title, body)
    VALUES ($1,$2,$3,$4,$5)
  `, tenantID, employeeID, ntype, title, body)
	if err != nil {
		log.Warn().Err(err).Str("type", ntype).Msg("notification write failed")
	}
}

func (s *Service) List(ctx context.Context, tenantID, employeeID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, notif_type, title, body, read_at, created_at
    FROM notifications
    WHERE tenant_id = $1 AND employee_id = $2
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, tenantID, employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
