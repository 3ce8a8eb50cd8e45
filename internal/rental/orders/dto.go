package orders

import "time"

// ===== Requests =====

type SubmitOrderLine struct {
	ProductID     uint64 `json:"product_id"`
	Quantity      int    `json:"quantity"`
	NeedsApproval bool   `json:"needs_approval"`
	// 個体指定注文（管理コード直指定）。指定時は quantity=1 固定で
	// 承認をスキップし、その個体を同一トランザクションで reserved に移す。
	ManagementCode *string `json:"management_code,omitempty"`
}

type SubmitOrderRequest struct {
	CustomerName string            `json:"customer_name" binding:"required"`
	AssignedTo   *string           `json:"assigned_to,omitempty"`
	CarriedBy    *string           `json:"carried_by,omitempty"`
	OrderDate    *string           `json:"order_date,omitempty"`    // "2006-01-02"、省略時は当日
	RequiredDate *string           `json:"required_date,omitempty"` // "2006-01-02"
	Lines        []SubmitOrderLine `json:"lines" binding:"required"`
	PerformedBy  *string           `json:"performed_by,omitempty"`
}

type ApprovalRequest struct {
	Decision    string  `json:"decision" binding:"required"` // "approve" | "reject"
	Notes       *string `json:"notes,omitempty"`
	PerformedBy *string `json:"performed_by,omitempty"`
}

type AssignRequest struct {
	ManagementCode string  `json:"management_code" binding:"required"`
	PerformedBy    *string `json:"performed_by,omitempty"`
}

type PerformerRequest struct {
	PerformedBy *string `json:"performed_by,omitempty"`
}

// ===== Responses =====

type LineResponse struct {
	LineID           uint64           `json:"line_id"`
	ProductID        uint64           `json:"product_id"`
	Quantity         int              `json:"quantity"`
	AssignedItemIDs  []*string        `json:"assigned_item_ids"`
	FulfilledCount   int              `json:"fulfilled_count"`
	RemainingCount   int              `json:"remaining_count"`
	ApprovalStatus   ApprovalStatus   `json:"approval_status"`
	ProcessingStatus ProcessingStatus `json:"processing_status"`
}

type OrderResponse struct {
	OrderID       uint64         `json:"order_id"`
	OrderULID     string         `json:"order_ulid"`
	Status        OrderStatus    `json:"status"`
	CustomerName  string         `json:"customer_name"`
	AssignedTo    *string        `json:"assigned_to,omitempty"`
	CarriedBy     *string        `json:"carried_by,omitempty"`
	OrderDate     time.Time      `json:"order_date"`
	RequiredDate  *time.Time     `json:"required_date,omitempty"`
	NeedsApproval bool           `json:"needs_approval"`
	ApprovedBy    *string        `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time     `json:"approved_at,omitempty"`
	ApprovalNotes *string        `json:"approval_notes,omitempty"`
	Lines         []LineResponse `json:"lines"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ミューテーション系の共通レスポンス。履歴追記に失敗したら audit_pending。
type MutationResponse struct {
	Order        OrderResponse `json:"order"`
	AuditPending bool          `json:"audit_pending"`
}

func toLineResponse(l *OrderLine) LineResponse {
	NormalizeSlots(l)
	return LineResponse{
		LineID:           l.LineID,
		ProductID:        l.ProductID,
		Quantity:         l.Quantity,
		AssignedItemIDs:  l.AssignedItemIDs,
		FulfilledCount:   FulfilledCount(l),
		RemainingCount:   RemainingCount(l),
		ApprovalStatus:   l.ApprovalStatus,
		ProcessingStatus: l.ProcessingStatus,
	}
}

func toResponse(o *Order) OrderResponse {
	resp := OrderResponse{
		OrderID:       o.OrderID,
		OrderULID:     o.OrderULID,
		Status:        o.Status,
		CustomerName:  o.CustomerName,
		AssignedTo:    nullToPtr(o.AssignedTo),
		CarriedBy:     nullToPtr(o.CarriedBy),
		OrderDate:     o.OrderDate,
		NeedsApproval: o.NeedsApproval,
		ApprovedBy:    nullToPtr(o.ApprovedBy),
		ApprovalNotes: nullToPtr(o.ApprovalNotes),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.RequiredDate.Valid {
		v := o.RequiredDate.Time
		resp.RequiredDate = &v
	}
	if o.ApprovedAt.Valid {
		v := o.ApprovedAt.Time
		resp.ApprovedAt = &v
	}
	resp.Lines = make([]LineResponse, 0, len(o.Lines))
	for i := range o.Lines {
		resp.Lines = append(resp.Lines, toLineResponse(&o.Lines[i]))
	}
	return resp
}
