package constraints

// Storage keys of the persisted client state.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeySidebarOpen  = "sidebar_open"
)

// Order statuses as the backend reports them.
const (
	OrderPending   = "pending"
	OrderAccepted  = "accepted"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
	OrderRejected  = "rejected"
)

// Order types.
const (
	OrderTypeTaxi    = "taxi"
	OrderTypePackage = "package"
	OrderTypeCargo   = "cargo"
	OrderTypePlane   = "plane"
	OrderTypeTrain   = "train"
)

// Driver directions.
const (
	DirectionTaxi  = "taxi"
	DirectionCargo = "cargo"
)

// Point transaction types. Older backends answer "deduct" instead of "subtract".
const (
	TransactionAdd      = "add"
	TransactionSubtract = "subtract"
	TransactionDeduct   = "deduct"
)

// Point purchase request statuses.
const (
	PurchasePending  = "pending"
	PurchaseApproved = "approved"
	PurchaseRejected = "rejected"
)

// Point price services.
const (
	ServiceCargo       = "cargo"
	ServiceTaxiPackage = "taxi_package"
)

// Page sizes fixed by the backend per resource.
const (
	PageSizeDefault = 20
	PageSizeDrivers = 10
)
