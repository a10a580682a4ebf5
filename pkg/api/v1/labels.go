package v1

import "yoladmin/pkg/constraints"

// UnknownLabel is shown for any value the backend sends that we don't know.
const UnknownLabel = "Noma'lum"

var orderStatusLabels = map[string]string{
	constraints.OrderPending:   "Kutilmoqda",
	constraints.OrderAccepted:  "Qabul qilingan",
	constraints.OrderCompleted: "Yakunlangan",
	constraints.OrderCancelled: "Bekor qilingan",
	constraints.OrderRejected:  "Rad etilgan",
}

var orderTypeLabels = map[string]string{
	constraints.OrderTypeTaxi:    "Taksi",
	constraints.OrderTypePackage: "Paket",
	constraints.OrderTypeCargo:   "Yuk",
	constraints.OrderTypePlane:   "Aviabilet",
	constraints.OrderTypeTrain:   "Poyezd",
}

var directionLabels = map[string]string{
	constraints.DirectionTaxi:  "Taksi / Pasilka",
	constraints.DirectionCargo: "Yuk",
}

var transactionTypeLabels = map[string]string{
	constraints.TransactionAdd:      "Qo'shilgan",
	constraints.TransactionSubtract: "Ayirilgan",
	constraints.TransactionDeduct:   "Ayirilgan",
}

var purchaseStatusLabels = map[string]string{
	constraints.PurchasePending:  "Kutilmoqda",
	constraints.PurchaseApproved: "Tasdiqlangan",
	constraints.PurchaseRejected: "Rad etilgan",
}

func label(labels map[string]string, value string) string {
	if l, ok := labels[value]; ok {
		return l
	}
	return UnknownLabel
}

func OrderStatusLabel(status string) string    { return label(orderStatusLabels, status) }
func OrderTypeLabel(orderType string) string   { return label(orderTypeLabels, orderType) }
func DirectionLabel(direction string) string   { return label(directionLabels, direction) }
func TransactionTypeLabel(kind string) string  { return label(transactionTypeLabels, kind) }
func PurchaseStatusLabel(status string) string { return label(purchaseStatusLabels, status) }

// ApprovalLabel renders a driver's approval flag.
func ApprovalLabel(approved bool) string {
	if approved {
		return "Tasdiqlangan"
	}
	return "Kutilmoqda"
}

// KnownOrderStatus reports whether status is one of the fixed enumeration.
func KnownOrderStatus(status string) bool {
	_, ok := orderStatusLabels[status]
	return ok
}
