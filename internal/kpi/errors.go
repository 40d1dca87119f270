package kpi

// Error codes returned in ServiceError.Code
const (
	CodeEmptySeries   = "EMPTY_SERIES"
	CodeSourceFailed  = "SOURCE_FAILED"
	CodeUnknownMetric = "UNKNOWN_METRIC"
)

// ServiceError represents a refresh failure that is reported to callers
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
