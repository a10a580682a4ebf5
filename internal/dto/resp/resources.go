package resp

import v1 "yoladmin/pkg/api/v1"

// PageResp is a backend page plus the numbers a pager needs.
type PageResp[T any] struct {
	Count      int `json:"count"`
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	Results    []T `json:"results"`
}

// NewPage maps every result through fn. page 0 is reported as 1.
func NewPage[S, T any](p *v1.Page[S], page, pageSize int, fn func(S) T) PageResp[T] {
	if page < 1 {
		page = 1
	}
	out := PageResp[T]{
		Count:      p.Count,
		Page:       page,
		TotalPages: p.TotalPages(pageSize),
		Results:    make([]T, 0, len(p.Results)),
	}
	for _, item := range p.Results {
		out.Results = append(out.Results, fn(item))
	}
	return out
}

type OrderItem struct {
	v1.Order
	StatusLabel    string `json:"status_label"`
	OrderTypeLabel string `json:"order_type_label"`
}

func NewOrderItem(o v1.Order) OrderItem {
	return OrderItem{
		Order:          o,
		StatusLabel:    v1.OrderStatusLabel(o.Status),
		OrderTypeLabel: v1.OrderTypeLabel(o.OrderType),
	}
}

type DriverItem struct {
	v1.Driver
	DirectionLabel string `json:"direction_label"`
	ApprovalLabel  string `json:"approval_label"`
}

func NewDriverItem(d v1.Driver) DriverItem {
	return DriverItem{
		Driver:         d,
		DirectionLabel: v1.DirectionLabel(d.Direction),
		ApprovalLabel:  v1.ApprovalLabel(d.IsApproved),
	}
}

type TransactionItem struct {
	v1.PointTransaction
	TypeLabel string `json:"type_label"`
}

func NewTransactionItem(t v1.PointTransaction) TransactionItem {
	return TransactionItem{PointTransaction: t, TypeLabel: v1.TransactionTypeLabel(t.TransactionType)}
}

type PurchaseItem struct {
	v1.PointPurchaseRequest
	StatusLabel string `json:"status_label"`
}

func NewPurchaseItem(p v1.PointPurchaseRequest) PurchaseItem {
	return PurchaseItem{PointPurchaseRequest: p, StatusLabel: v1.PurchaseStatusLabel(p.Status)}
}

// SettingsTabResp backs the admin settings tab: the bot configuration and
// the user list admins are picked from.
type SettingsTabResp struct {
	BotSettings *v1.BotSettings   `json:"bot_settings"`
	Users       PageResp[v1.User] `json:"users"`
}

// Identity keeps results as they are.
func Identity[T any](v T) T { return v }
