package utils

import (
	"encoding/json"
	"net/http"
	"reports-api/schemas"
)

func SendResponse(w http.ResponseWriter, statusCode int, message string, data any, internalErrorCode int) {
	if internalErrorCode != 0 {
		writeJSON(w, statusCode, schemas.ApiResponse{
			Message: SendInternalError(internalErrorCode),
		})
		return
	}

	if (message == "") && (data == nil) {
		w.WriteHeader(statusCode)
		return
	}

	writeJSON(w, statusCode, schemas.ApiResponse{
		Data:    data,
		Message: message,
	})
}

// SendError answers a failed setup step using the error taxonomy.
func SendError(w http.ResponseWriter, err error) {
	SendResponse(w, StatusForError(err), "", nil, InternalCodeForError(err))
}

func SendValidationErrors(w http.ResponseWriter, details []schemas.FieldError) {
	writeJSON(w, http.StatusUnprocessableEntity, schemas.ApiResponse{
		Message: "validation failed",
		Data:    details,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body schemas.ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
