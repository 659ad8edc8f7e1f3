package errors

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
)

type Error struct {
	Code    uint                   `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty" rlp:"-"`
}

func (o *Error) Serialize() (b []byte, err error) {
	b, err = json.Marshal(o)
	return
}

func (o *Error) Error() string {
	b, _ := o.Serialize()
	return string(b)
}

// Is reports whether target carries the same code, so a clone with extra
// `Data` still matches the predefined error.
func (o *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || o == nil || t == nil {
		return false
	}

	return o.Code == t.Code
}

func (o *Error) SetData(k string, v interface{}) *Error {
	if o.Data == nil {
		o.Data = map[string]interface{}{}
	}
	o.Data[k] = v

	return o
}

func (o *Error) Clone() *Error {
	var new Error
	new = *o

	new.Data = map[string]interface{}{}
	if o.Data != nil && len(o.Data) > 0 {
		for k, v := range o.Data {
			new.Data[k] = v
		}
	}

	return &new
}

// Wrap clones the error and keeps the reason of `err` in `Data`.
func (o *Error) Wrap(err error) *Error {
	if err == nil {
		return o
	}

	return o.Clone().SetData("error", err.Error())
}

func (o *Error) EncodeRLP(w io.Writer) (err error) {
	if o == nil {
		return rlp.Encode(w, []uint{})
	}

	if o.Data != nil && len(o.Data) > 0 {
		var d [][2]interface{}

		var keys []string
		for k := range o.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			d = append(d, [2]interface{}{k, o.Data[k]})
		}
		if err = rlp.Encode(w, d); err != nil {
			return
		}
	}

	return rlp.Encode(w, struct {
		Code    uint
		Message string
	}{
		Code:    o.Code,
		Message: o.Message,
	})
}

func NewError(code uint, message string) *Error {
	return &Error{Code: code, Message: message, Data: map[string]interface{}{}}
}

// Is is the code-aware counterpart of the standard `errors.Is` for values
// that may not be `*Error`.
func Is(err error, target *Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}

	return e.Is(target)
}
