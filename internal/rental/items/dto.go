package items

import "time"

// ===== Requests =====

type RegisterItemRequest struct {
	ManagementCode string  `json:"management_code" binding:"required"`
	ProductID      uint64  `json:"product_id" binding:"required"`
	Location       *string `json:"location,omitempty"`
	Condition      *string `json:"condition,omitempty"` // 省略時 good
	Notes          *string `json:"notes,omitempty"`
}

type UpdateItemRequest struct {
	Location       *string `json:"location,omitempty"`
	ConditionNotes *string `json:"condition_notes,omitempty"`
}

// 遷移要求。customer_name は rent/deliver のとき必須。
type ItemActionRequest struct {
	Action       string  `json:"action" binding:"required"`
	Condition    *string `json:"condition,omitempty"`
	Location     *string `json:"location,omitempty"`
	CustomerName *string `json:"customer_name,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	PerformedBy  *string `json:"performed_by,omitempty"`
}

// ===== Responses =====

type ItemResponse struct {
	ItemID          uint64     `json:"item_id"`
	ManagementCode  string     `json:"management_code"`
	ProductID       uint64     `json:"product_id"`
	Status          ItemStatus `json:"status"`
	Condition       ItemCondition `json:"condition"`
	Location        *string    `json:"location,omitempty"`
	CustomerName    *string    `json:"customer_name,omitempty"`
	LoanStartDate   *time.Time `json:"loan_start_date,omitempty"`
	ConditionNotes  *string    `json:"condition_notes,omitempty"`
	TotalRentalDays int        `json:"total_rental_days"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ItemActionResponse struct {
	Item         ItemResponse `json:"item"`
	FromStatus   ItemStatus   `json:"from_status"`
	ToStatus     ItemStatus   `json:"to_status"`
	AuditPending bool         `json:"audit_pending"` // 履歴追記に失敗したら true
}

func toResponse(u *EquipmentUnit) ItemResponse {
	resp := ItemResponse{
		ItemID:          u.ItemID,
		ManagementCode:  u.ManagementCode,
		ProductID:       u.ProductID,
		Status:          u.Status,
		Condition:       u.Condition,
		Location:        nullToPtr(u.Location),
		CustomerName:    nullToPtr(u.CustomerName),
		ConditionNotes:  nullToPtr(u.ConditionNotes),
		TotalRentalDays: u.TotalRentalDays,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if u.LoanStartDate.Valid {
		v := u.LoanStartDate.Time
		resp.LoanStartDate = &v
	}
	return resp
}
