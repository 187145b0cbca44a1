package serverutils

// Response is the uniform success envelope: {success: true, data}.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ErrorBody is the uniform failure envelope: {success: false, error, details?}.
// Details carries field-level validation messages only; internal causes are
// logged server-side and never serialized here.
type ErrorBody struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func ErrorResponse(code string, message string) ErrorBody {
	return ErrorBody{
		Success: false,
		Error:   message,
		Code:    code,
	}
}

func ErrorResponseWithDetails(code string, message string, details map[string]string) ErrorBody {
	return ErrorBody{
		Success: false,
		Error:   message,
		Code:    code,
		Details: details,
	}
}
