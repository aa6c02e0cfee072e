package dto

// ErrorResponse is the error payload for all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// UploadResponse wraps a successful extraction.
type UploadResponse struct {
	Extracted PatientInfo `json:"extracted"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// DeleteResponse acknowledges a successful delete.
type DeleteResponse struct {
	Message string `json:"message"`
}
