package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// FieldError 描述单个字段的校验失败原因。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse 是所有错误响应的统一结构。
type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// RespondJSON 发送JSON响应
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

// RespondError 发送错误响应
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Message: message})
}

// RespondValidation 发送 400 校验错误响应，附带字段级别的原因。
func RespondValidation(w http.ResponseWriter, errs []FieldError) {
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid request data", Errors: errs})
}
