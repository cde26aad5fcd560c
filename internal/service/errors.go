package service

import "github.com/counterpos/api/internal/apperror"

// Errors returned by the services. Item-level errors are wrapped with the
// offending index, e.g. "items[1]: quantity must be > 0".
var (
	ErrEmptyItems        = apperror.Validation("items are required")
	ErrInvalidOrderType  = apperror.Validation("invalid order_type")
	ErrParcelWithTable   = apperror.Validation("parcel orders cannot be assigned a table")
	ErrInvalidQuantity   = apperror.Validation("quantity must be > 0")
	ErrMenuItemNotFound  = apperror.NotFound("menu item not found")
	ErrOrderNotFound     = apperror.NotFound("order not found")
	ErrOrderBilled       = apperror.Conflict("order is already billed")
	ErrOrderItemNotFound = apperror.NotFound("order item not found")

	ErrInvalidOrderStatus      = apperror.Validation("invalid status")
	ErrInvalidItemStatus       = apperror.Validation("invalid item status")
	ErrBilledViaBillOnly       = apperror.Validation("orders become BILLED only through bill generation")
	ErrOrderStatusConflict     = apperror.Conflict("order status was changed by another request")
	ErrQueueEntryItemMismatch  = apperror.Validation("order item does not match kitchen queue entry")
	ErrQueueEntryOrderMismatch = apperror.Validation("kitchen queue entry belongs to another order")

	ErrTableNotFound      = apperror.NotFound("table not found")
	ErrTableOccupied      = apperror.Conflict("table is occupied by another order")
	ErrTableNumberTaken   = apperror.Conflict("table number already exists")
	ErrTableHasOrder      = apperror.Conflict("table has an active order")
	ErrInvalidTableNumber = apperror.Validation("table_number must be > 0")
	ErrInvalidCapacity    = apperror.Validation("capacity must be > 0")
	ErrInvalidTableStatus = apperror.Validation("invalid table status")

	ErrBillExists           = apperror.Conflict("bill already exists for this order")
	ErrBillNotFound         = apperror.NotFound("bill not found")
	ErrInvalidPaymentStatus = apperror.Validation("invalid payment status")

	ErrNameRequired         = apperror.Validation("name is required")
	ErrInvalidPrice         = apperror.Validation("price must be >= 0")
	ErrInvalidPrepTime      = apperror.Validation("prep_time_minutes must be >= 0")
	ErrCategoryNotFound     = apperror.Validation("category not found")
	ErrAvailabilityRequired = apperror.Validation("is_available is required")
	ErrMenuItemReferenced   = apperror.Conflict("menu item is referenced by existing orders")
)
