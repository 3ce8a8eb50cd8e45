package history

import "time"

// 履歴レスポンス
type EventResponse struct {
	HistoryID    uint64    `json:"history_id"`
	HistoryULID  string    `json:"history_ulid"`
	EntityType   string    `json:"entity_type"`
	EntityCode   string    `json:"entity_code"`
	Action       string    `json:"action"`
	FromStatus   string    `json:"from_status"`
	ToStatus     string    `json:"to_status"`
	PerformedBy  string    `json:"performed_by"`
	Location     *string   `json:"location,omitempty"`
	Condition    *string   `json:"condition,omitempty"`
	CustomerName *string   `json:"customer_name,omitempty"`
	Metadata     *string   `json:"metadata,omitempty"`
	RecordedAt   time.Time `json:"recorded_at"`
}

func toResponse(ev Event) EventResponse {
	resp := EventResponse{
		HistoryID:   ev.HistoryID,
		HistoryULID: ev.HistoryULID,
		EntityType:  ev.EntityType,
		EntityCode:  ev.EntityCode,
		Action:      ev.Action,
		FromStatus:  ev.FromStatus,
		ToStatus:    ev.ToStatus,
		PerformedBy: ev.PerformedBy,
		RecordedAt:  ev.RecordedAt,
	}
	if ev.Location.Valid {
		v := ev.Location.String
		resp.Location = &v
	}
	if ev.Condition.Valid {
		v := ev.Condition.String
		resp.Condition = &v
	}
	if ev.CustomerName.Valid {
		v := ev.CustomerName.String
		resp.CustomerName = &v
	}
	if ev.Metadata.Valid {
		v := ev.Metadata.String
		resp.Metadata = &v
	}
	return resp
}
