package seeder

const (
	// Error messages for seed operations
	ErrFailedToHashPassword = "failed to hash password" // #nosec G101
	ErrFailedToLookup       = "failed to look up existing account"
	ErrFailedToEnsureIndex  = "failed to ensure unique indexes"
	ErrInvalidAccount       = "invalid account"
	ErrAccountExists        = "account already exists"
	ErrFailedToSeed         = "failed to insert account"
)

// Default bootstrap credentials. These are well-known values meant to be
// changed right after the first login.
const (
	DefaultAdminFullName = "Administrator"
	DefaultAdminEmail    = "admin@gmail.com"
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123" // #nosec G101

	DefaultUserFullName = "Default User"
	DefaultUserEmail    = "user@gmail.com"
	DefaultUserUsername = "user"
	DefaultUserPassword = "user123" // #nosec G101
)
