package dto

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// ErrorResponse is the envelope used for every error reply.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

func Fail(message string) ErrorResponse {
	return ErrorResponse{Status: StatusFail, Message: message}
}

func Success(data any) SuccessResponse {
	return SuccessResponse{Status: StatusSuccess, Data: data}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
