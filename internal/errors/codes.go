package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The storefront frontend maps these codes to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed or forged token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token blacklisted after logout
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email on signup

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN" // no access
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Product (PRODUCT_) ====================
	ProductNotFound = "PRODUCT_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartItemNotFound = "CART_ITEM_NOT_FOUND"
	CartEmpty        = "CART_EMPTY"

	// ==================== Order (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderNoItems           = "ORDER_NO_ITEMS"           // nothing to place an order with
	OrderInsufficientStock = "ORDER_INSUFFICIENT_STOCK" // stock ran out before commit
	OrderInvalidSource     = "ORDER_INVALID_SOURCE"     // source must be cart or buy_now

	// ==================== Inventory (INVENTORY_) ====================
	InventoryInvalidMovement = "INVENTORY_INVALID_MOVEMENT" // bad change type or quantity
	InventoryMovementFailed  = "INVENTORY_MOVEMENT_FAILED"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
