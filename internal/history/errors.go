package history

import "codeberg.org/mutker/thrustctl/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("history_invalid_db_path")
	ErrDisabled      = errors.ErrorCode("history_disabled")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("history_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("history_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("history_schema_migration_failed")
	ErrTransactionFailed      = errors.ErrorCode("history_transaction_failed")

	// Storage Errors
	ErrStorageAccess = errors.ErrorCode("history_storage_access_failed")
	ErrStorageInit   = errors.ErrInitFailed
	ErrStorageClose  = errors.ErrShutdownFailed

	// Record Errors
	ErrInvalidRun = errors.ErrorCode("history_invalid_run")

	// Operation Errors
	ErrOperationTimeout = errors.ErrTimeout
)

func init() {
	errors.Register(map[errors.ErrorCode]string{
		ErrInvalidDBPath:          "History database path is empty",
		ErrDisabled:               "Run history is disabled",
		ErrSchemaInitFailed:       "Failed to initialize history schema",
		ErrSchemaValidationFailed: "Failed to validate history schema",
		ErrSchemaMigrationFailed:  "Failed to migrate history schema",
		ErrTransactionFailed:      "History transaction failed",
		ErrStorageAccess:          "Failed to access history database",
		ErrInvalidRun:             "Invalid run record",
	})
}
