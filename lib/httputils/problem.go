package httputils

import (
	"encoding/json"
	"net/http"

	"boscoin.io/governance/lib/errors"
)

const ProblemTypeError = "https://boscoin.io/governance/errors/"

// Problem is the RFC 7807 error body.
type Problem struct {
	Type     string      `json:"type"`
	Title    string      `json:"title"`
	Status   int         `json:"status,omitempty"`
	Detail   string      `json:"detail,omitempty"`
	Instance string      `json:"instance,omitempty"`
	Code     uint        `json:"code,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

func NewStatusProblem(status int) Problem {
	return Problem{Type: "about:blank", Title: http.StatusText(status), Status: status}
}

func NewDetailedStatusProblem(status int, detail string) Problem {
	p := NewStatusProblem(status)
	p.Detail = detail
	return p
}

// NewErrorProblem keeps the code and data of `*errors.Error`; any other
// error hides its message behind the generic server error.
func NewErrorProblem(err error, status int) Problem {
	e, ok := err.(*errors.Error)
	if !ok {
		e = errors.HTTPServerError
	}

	p := Problem{
		Type:   ProblemTypeError + errorCodeString(e.Code),
		Title:  e.Message,
		Status: status,
		Code:   e.Code,
	}
	if len(e.Data) > 0 {
		p.Data = e.Data
	}

	return p
}

func (p Problem) SetInstance(instance string) Problem {
	p.Instance = instance
	return p
}

func (p Problem) SetDetail(detail string) Problem {
	p.Detail = detail
	return p
}

func (p Problem) Serialize() ([]byte, error) {
	return json.Marshal(p)
}

func errorCodeString(code uint) string {
	b, _ := json.Marshal(code)
	return string(b)
}
