package v1

import "encoding/json"

// User is a Telegram bot user.
type User struct {
	ID          int64   `json:"id"`
	TelegramID  int64   `json:"telegram_id"`
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Language    *string `json:"language"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// CreateUserInput is the payload for POST /users/.
type CreateUserInput struct {
	TelegramID  int64   `json:"telegram_id"`
	FullName    *string `json:"full_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Language    *string `json:"language,omitempty"`
}

type Driver struct {
	ID                    int64   `json:"id"`
	User                  User    `json:"user"`
	PassportPhoto         string  `json:"passport_photo"`
	PassportPhotoURL      *string `json:"passport_photo_url"`
	Direction             string  `json:"direction"`
	DirectionDisplay      string  `json:"direction_display"`
	DriverLicensePhoto    string  `json:"driver_license_photo"`
	DriverLicensePhotoURL *string `json:"driver_license_photo_url"`
	STSPhoto              string  `json:"sts_photo"`
	STSPhotoURL           *string `json:"sts_photo_url"`
	CarPhoto              string  `json:"car_photo"`
	CarPhotoURL           *string `json:"car_photo_url"`
	CarMake               string  `json:"car_make,omitempty"`
	CarYear               int     `json:"car_year,omitempty"`
	CarNumber             string  `json:"car_number,omitempty"`
	IsApproved            bool    `json:"is_approved"`
	Points                int     `json:"points"`
	Rating                float64 `json:"rating"`
	Region                *string `json:"region,omitempty"`
	CarCapacity           *int    `json:"car_capacity,omitempty"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
}

// DriverUpdate is a PATCH /drivers/{id}/ payload; nil fields are not sent.
type DriverUpdate struct {
	IsApproved *bool   `json:"is_approved,omitempty"`
	Direction  *string `json:"direction,omitempty"`
	Points     *int    `json:"points,omitempty"`
	Region     *string `json:"region,omitempty"`
	CarMake    *string `json:"car_make,omitempty"`
	CarNumber  *string `json:"car_number,omitempty"`
}

type Order struct {
	ID               int64    `json:"id"`
	User             User     `json:"user"`
	Driver           *Driver  `json:"driver"`
	ClaimedBy        *Driver  `json:"claimed_by,omitempty"`
	ClaimedAt        *string  `json:"claimed_at,omitempty"`
	OrderType        string   `json:"order_type"`
	OrderTypeDisplay string   `json:"order_type_display"`
	FullName         string   `json:"full_name"`
	PhoneNumber      string   `json:"phone_number"`
	FromCountry      *string  `json:"from_country"`
	FromLocation     *string  `json:"from_location"`
	FromRegion       *string  `json:"from_region"`
	ToCountry        *string  `json:"to_country"`
	ToLocation       *string  `json:"to_location"`
	ToRegion         *string  `json:"to_region"`
	OrderDate        *string  `json:"order_date"`
	NumPassengers    *int     `json:"num_passengers"`
	ItemDescription  *string  `json:"item_description"`
	WeightTons       *float64 `json:"weight_tons"`
	PaymentAmount    *string  `json:"payment_amount"`
	Terms            *string  `json:"terms"`
	Comment          *string  `json:"comment"`
	Status           string   `json:"status"`
	StatusDisplay    string   `json:"status_display"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

// OrderUpdate is a PATCH /orders/{id}/ payload.
type OrderUpdate struct {
	Status  *string `json:"status,omitempty"`
	Comment *string `json:"comment,omitempty"`
	Terms   *string `json:"terms,omitempty"`
}

type PointTransaction struct {
	ID                     int64   `json:"id"`
	Driver                 Driver  `json:"driver"`
	DriverID               int64   `json:"driver_id,omitempty"`
	Amount                 int     `json:"amount"`
	TransactionType        string  `json:"transaction_type"`
	TransactionTypeDisplay string  `json:"transaction_type_display"`
	Reason                 *string `json:"reason"`
	CreatedAt              string  `json:"created_at"`
}

// CreatePointTransactionInput is the payload for POST /point-transactions/.
type CreatePointTransactionInput struct {
	DriverID        int64   `json:"driver_id"`
	Amount          int     `json:"amount"`
	TransactionType string  `json:"transaction_type"`
	Reason          *string `json:"reason,omitempty"`
}

// PointTransactionUpdate is a PATCH /point-transactions/{id}/ payload.
type PointTransactionUpdate struct {
	Amount          *int    `json:"amount,omitempty"`
	TransactionType *string `json:"transaction_type,omitempty"`
	Reason          *string `json:"reason,omitempty"`
}

type BotSettings struct {
	ID                   int64   `json:"id"`
	DriverRequestGroupID string  `json:"driver_request_group_id"`
	TaxiGroupID          string  `json:"taxi_group_id"`
	GruzGroupID          string  `json:"gruz_group_id"`
	AviaGroupID          string  `json:"avia_group_id"`
	PointPurchaseGroupID *string `json:"point_purchase_group_id"`
	DeportCheckGroupID   *string `json:"deport_check_group_id"`
	DeportPrice          *int    `json:"deport_price"`
	AdminUsername        *string `json:"admin_username"`
	Admins               []User  `json:"admins"`
}

// BotSettingsUpdate is a PATCH /bot-settings/ payload. The fields the
// backend allows to be null use Nullable so they can be cleared.
type BotSettingsUpdate struct {
	DriverRequestGroupID *string          `json:"driver_request_group_id,omitempty"`
	TaxiGroupID          *string          `json:"taxi_group_id,omitempty"`
	GruzGroupID          *string          `json:"gruz_group_id,omitempty"`
	AviaGroupID          *string          `json:"avia_group_id,omitempty"`
	PointPurchaseGroupID Nullable[string] `json:"point_purchase_group_id,omitzero"`
	DeportCheckGroupID   Nullable[string] `json:"deport_check_group_id,omitzero"`
	DeportPrice          Nullable[int]    `json:"deport_price,omitzero"`
	AdminUsername        Nullable[string] `json:"admin_username,omitzero"`
	AdminIDs             []int64          `json:"admin_ids,omitempty"`
}

type Country struct {
	ID        int64   `json:"id"`
	Code      string  `json:"code"`
	NameUz    string  `json:"name_uz"`
	NameRu    string  `json:"name_ru"`
	NameCy    *string `json:"name_cy"`
	NameTj    *string `json:"name_tj"`
	NameKz    *string `json:"name_kz"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// CountryInput is used for both POST and PATCH on /countries/.
type CountryInput struct {
	Code   *string `json:"code,omitempty"`
	NameUz *string `json:"name_uz,omitempty"`
	NameRu *string `json:"name_ru,omitempty"`
	NameCy *string `json:"name_cy,omitempty"`
	NameTj *string `json:"name_tj,omitempty"`
	NameKz *string `json:"name_kz,omitempty"`
}

type PointPrice struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Service            string  `json:"service"`
	ServiceDisplay     string  `json:"service_display"`
	PointAmount        int     `json:"point_amount"`
	Price              float64 `json:"price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	OrderNumber        int     `json:"order_number"`
	IsActive           bool    `json:"is_active"`
	IsPopular          bool    `json:"is_popular"`
	Description        *string `json:"description"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
	FinalPrice         float64 `json:"final_price"`
}

// PointPriceInput is used for both POST and PATCH on /point-prices/.
type PointPriceInput struct {
	Name               *string  `json:"name,omitempty"`
	Service            *string  `json:"service,omitempty"`
	PointAmount        *int     `json:"point_amount,omitempty"`
	Price              *float64 `json:"price,omitempty"`
	DiscountPercentage *float64 `json:"discount_percentage,omitempty"`
	OrderNumber        *int     `json:"order_number,omitempty"`
	IsActive           *bool    `json:"is_active,omitempty"`
	IsPopular          *bool    `json:"is_popular,omitempty"`
	Description        *string  `json:"description,omitempty"`
}

type Card struct {
	ID             int64  `json:"id"`
	CardNumber     string `json:"card_number"`
	CardHolderName string `json:"card_holder_name"`
	BankName       string `json:"bank_name"`
	IsActive       bool   `json:"is_active"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// CardInput is used for both POST and PATCH on /cards/.
type CardInput struct {
	CardNumber     *string `json:"card_number,omitempty"`
	CardHolderName *string `json:"card_holder_name,omitempty"`
	BankName       *string `json:"bank_name,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

type PointPurchaseRequest struct {
	ID              int64      `json:"id"`
	Driver          Driver     `json:"driver"`
	PointPrice      PointPrice `json:"point_price"`
	CardNumber      string     `json:"card_number"`
	ReceiptPhoto    string     `json:"receipt_photo,omitempty"`
	ReceiptPhotoURL *string    `json:"receipt_photo_url"`
	Status          string     `json:"status"`
	StatusDisplay   string     `json:"status_display"`
	AdminComment    *string    `json:"admin_comment"`
	CreatedAt       string     `json:"created_at"`
	UpdatedAt       string     `json:"updated_at"`
}

// PointPurchaseRequestUpdate is a PATCH /point-purchase-requests/{id}/ payload.
type PointPurchaseRequestUpdate struct {
	Status       *string `json:"status,omitempty"`
	AdminComment *string `json:"admin_comment,omitempty"`
}

// InviteLinkRequest creates or revokes a Telegram group invite link.
type InviteLinkRequest struct {
	GroupID    string `json:"group_id"`
	InviteLink string `json:"invite_link,omitempty"`
}

type InviteLinkResult struct {
	Success    bool   `json:"success"`
	InviteLink string `json:"invite_link,omitempty"`
	Message    string `json:"message"`
}

// Statistics is passed through untouched; its shape belongs to the backend.
type Statistics map[string]json.RawMessage
