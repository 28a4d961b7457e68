package common

// File permissions for files pagesdrop writes
const (
	// FilePermissionSecure is used for config files
	FilePermissionSecure = 0600

	// DirPermissionSecure is used for directories holding config files
	DirPermissionSecure = 0700
)
