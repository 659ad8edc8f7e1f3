package common

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"

	"boscoin.io/governance/lib/errors"
)

var (
	maximumBalance    = uint64(MaximumBalance)
	maximumBalanceStr = strconv.FormatUint(maximumBalance, 10)
)

func TestAmount_Invariant(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("exceeds max allowable amount value.")
		}
	}()

	amount := Amount(maximumBalance + 1)
	amount.Invariant()
}

func TestAmount_AddSub(t *testing.T) {
	n, err := Amount(100).Add(Amount(50))
	require.NoError(t, err)
	require.Equal(t, Amount(150), n)

	_, err = MaximumBalance.Add(Amount(1))
	require.Equal(t, errors.MaximumBalanceReached, err)

	n, err = Amount(100).Sub(Amount(100))
	require.NoError(t, err)
	require.Equal(t, Amount(0), n)

	_, err = Amount(100).Sub(Amount(101))
	require.Equal(t, errors.AccountBalanceUnderZero, err)
}

func TestAmount_MultUint64(t *testing.T) {
	w, err := Amount(100).MultUint64(50)
	require.NoError(t, err)
	require.Equal(t, uint64(5000), w)

	w, err = Amount(0).MultUint64(^uint64(0))
	require.NoError(t, err)
	require.Equal(t, uint64(0), w)

	_, err = Amount(3).MultUint64(^uint64(0) / 2)
	require.Equal(t, errors.Overflow, err)
}

func TestAmount_Uint64OutOfRange(t *testing.T) {
	amount, err := AmountFromString(maximumBalanceStr)
	require.NoError(t, err)
	require.Equal(t, maximumBalanceStr, amount.String())

	data, err := amount.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, maximumBalanceStr, string(data)[1:len(data)-1])

	_, err = AmountFromString(strconv.FormatUint(maximumBalance+1, 10))
	require.Equal(t, errors.MaximumBalanceReached, err)
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var v struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "100", "b": 7}`), &v))
	require.Equal(t, Amount(100), v.A)
	require.Equal(t, Amount(7), v.B)

	require.NoError(t, json.Unmarshal([]byte(`{"a": 0, "b": "5"}`), &v))
	require.Equal(t, Amount(0), v.A)
	require.Equal(t, Amount(5), v.B)

	for _, bad := range []string{`{"a": ""}`, `{"a": "\"7"}`, `{"a": -1}`, `{"a": "1.5"}`} {
		require.Error(t, json.Unmarshal([]byte(bad), &v), bad)
	}

	var a Amount
	require.Error(t, a.UnmarshalJSON([]byte(`"`)))
	require.Equal(t, invalidValue, a)
}

func TestAmount_RLPEncoding(t *testing.T) {
	a, err := rlp.EncodeToBytes(Amount(1000))
	require.NoError(t, err)

	b, err := rlp.EncodeToBytes(uint64(1000))
	require.NoError(t, err)
	require.Equal(t, b, a)
}
