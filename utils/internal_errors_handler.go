package utils

import "fmt"

const (
	REPORTS_INVALID_REQUEST_DATA = iota + 1
	INVALID_CONFIGURATION
	CANNOT_CONNECT_TO_MONGODB
	ERROR_TO_FIND_IN_MONGODB
	ERROR_TO_INSERT_IN_MONGODB
	STORE_PERMISSION_DENIED
	ERROR_TO_READ_BATCH_RUNS
)

func SendInternalError(internalErrorCode int) string {
	return fmt.Sprintf("An internal server error occurred. Please try again later (Code: %d)", internalErrorCode)
}
