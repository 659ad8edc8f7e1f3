package common

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const TIMEFORMAT_ISO8601 string = "2006-01-02T15:04:05.000000000Z07:00"

type Serializable interface {
	Serialize() ([]byte, error)
}

func GetENVValue(key, defaultValue string) (v string) {
	var found bool
	if v, found = os.LookupEnv(key); !found {
		return defaultValue
	}

	return
}

func InStringArray(a []string, s string) (index int, found bool) {
	var h string
	for index, h = range a {
		found = h == s
		if found {
			return
		}
	}

	index = -1
	return
}

func EncodeJSONValue(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func DecodeJSONValue(b []byte, v interface{}) error {
	return json.Unmarshal(b, v)
}

// MustUnmarshalJSON is for data which was serialized by this node itself,
// e.g. the on-disk storage. A failure means corrupted storage.
func MustUnmarshalJSON(data []byte, v interface{}) {
	if err := json.Unmarshal(data, v); err != nil {
		panic(err)
	}
}

func MustMarshalJSON(o interface{}) []byte {
	b, _ := json.Marshal(o)
	return b
}

// EncodeUint64Key pads `n` so that lexicographic key order is numeric order.
func EncodeUint64Key(n uint64) string {
	return fmt.Sprintf("%020d", n)
}

func FormatISO8601(t time.Time) string {
	return t.Format(TIMEFORMAT_ISO8601)
}

func NowISO8601() string {
	return FormatISO8601(time.Now())
}

func ParseISO8601(s string) (time.Time, error) {
	return time.Parse(TIMEFORMAT_ISO8601, s)
}
