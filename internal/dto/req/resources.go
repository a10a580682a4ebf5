package req

// IDUri binds the :id path segment of item routes.
type IDUri struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type PageQuery struct {
	Page int `form:"page" binding:"omitempty,min=1"`
}

// DeleteQuery gates destructive actions behind an explicit confirmation.
type DeleteQuery struct {
	Confirm bool `form:"confirm"`
}

type ListUsersQuery struct {
	PageQuery
	Query    string `form:"query"`
	Language string `form:"language"`
}

type ListDriversQuery struct {
	PageQuery
	IsApproved *bool  `form:"is_approved"`
	Direction  string `form:"direction" binding:"omitempty,oneof=taxi cargo"`
	Region     string `form:"region"`
	Search     string `form:"search"`
}

type ListOrdersQuery struct {
	PageQuery
	Status      string `form:"status"`
	OrderType   string `form:"order_type"`
	DateFrom    string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo      string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Search      string `form:"search"`
	OrderNumber string `form:"order_number"`
}

type ListTransactionsQuery struct {
	PageQuery
	DriverID        int64  `form:"driver_id"`
	TransactionType string `form:"transaction_type"`
}

type ListPurchasesQuery struct {
	PageQuery
	Status   string `form:"status"`
	DriverID int64  `form:"driver_id"`
}

// CreateDriverForm carries the text parts of the multipart driver form;
// the four photos are read as files.
type CreateDriverForm struct {
	UserID    int64  `form:"user_id" binding:"required"`
	Direction string `form:"direction" binding:"required,oneof=taxi cargo"`
}

type InviteLinkReq struct {
	GroupID    string `json:"group_id" binding:"required"`
	InviteLink string `json:"invite_link"`
}
