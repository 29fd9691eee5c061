package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes bounds request bodies accepted by DecodeJSON.
const maxBodyBytes = 1 << 20

// DecodeJSON 解析请求体到 dst，失败时返回可直接返回给客户端的字段错误。
func DecodeJSON(r *http.Request, dst any) []FieldError {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return []FieldError{describeDecodeError(err)}
	}
	if dec.More() {
		return []FieldError{{Field: "body", Message: "request body must contain a single JSON object"}}
	}
	return nil
}

func describeDecodeError(err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return FieldError{Field: field, Message: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value)}
	case errors.As(err, &syntaxErr):
		return FieldError{Field: "body", Message: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)}
	case errors.Is(err, io.EOF):
		return FieldError{Field: "body", Message: "request body is required"}
	default:
		return FieldError{Field: "body", Message: "invalid JSON body"}
	}
}
