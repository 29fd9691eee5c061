package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name *string `json:"name"`
}

func decode(body string) (samplePayload, []FieldError) {
	var p samplePayload
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return p, DecodeJSON(req, &p)
}

func TestDecodeJSON(t *testing.T) {
	p, errs := decode(`{"name":"ada"}`)
	require.Empty(t, errs)
	require.NotNil(t, p.Name)
	assert.Equal(t, "ada", *p.Name)
}

func TestDecodeJSONErrors(t *testing.T) {
	cases := map[string]struct {
		body  string
		field string
	}{
		"empty body":    {body: "", field: "body"},
		"syntax":        {body: `{"name":`, field: "body"},
		"wrong type":    {body: `{"name":42}`, field: "name"},
		"not an object": {body: `[1,2]`, field: "body"},
		"trailing data": {body: `{"name":"a"} {"name":"b"}`, field: "body"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, errs := decode(tc.body)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.field, errs[0].Field)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestRespondValidation(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondValidation(rr, []FieldError{{Field: "content", Message: "content is required"}})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Invalid request data","errors":[{"field":"content","message":"content is required"}]}`, rr.Body.String())
}
