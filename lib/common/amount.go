//
// Define the `Amount` type, the unit of value an account holds and locks.
//
// In addition to the `Amount` type, some member functions are defined:
// - `Add` / `Sub` / `MultUint64` do the arithmetic and return an error object
//   instead of wrapping around
// - `MustAdd` / `MustSub` call `Add` / `Sub` and turn any `error` into a `panic`.
//   Those are provided for testing / genesis and should not be used on
//   the operation path.
// - Invariant `panic`s if the instance it's called on violates its invariant
//
package common

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ethereum/go-ethereum/rlp"

	"boscoin.io/governance/lib/errors"
)

const (
	// The maximum possible supply within any network
	MaximumBalance Amount = 1000000000000 * 10000000
	// An invalid value, used to make an instance unusable
	invalidValue = Amount(MaximumBalance + 1)
)

type Amount uint64

// Check this type's invariant, that is, its value is <= MaximumBalance
func (a Amount) Invariant() {
	if a > MaximumBalance {
		// `uint64` is necessary to avoid a recursive call to `String`
		panic(fmt.Errorf("Amount '%d' is higher than the total supply (%d)", uint64(a), uint64(MaximumBalance)))
	}
}

func (a Amount) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, uint64(a))
}

func (a Amount) String() string {
	a.Invariant()
	return strconv.FormatUint(uint64(a), 10)
}

func (a Amount) Add(added Amount) (n Amount, err error) {
	a.Invariant()
	added.Invariant()
	if n = a + added; n > MaximumBalance {
		err = errors.MaximumBalanceReached
	}
	return
}

func (a Amount) MustAdd(added Amount) Amount {
	if v, err := a.Add(added); err != nil {
		panic(err)
	} else {
		return v
	}
}

func (a Amount) Sub(sub Amount) (Amount, error) {
	a.Invariant()
	sub.Invariant()
	if a < sub {
		return invalidValue, errors.AccountBalanceUnderZero
	}
	return a - sub, nil
}

func (a Amount) MustSub(sub Amount) Amount {
	if v, err := a.Sub(sub); err != nil {
		panic(err)
	} else {
		return v
	}
}

// MultUint64 multiplies without the supply cap; the result only has to fit
// in `uint64`. It is used for weights, not balances.
func (a Amount) MultUint64(n uint64) (uint64, error) {
	if n == 0 || a == 0 {
		return 0, nil
	}

	if ^uint64(0)/n < uint64(a) {
		return 0, errors.Overflow
	}

	return uint64(a) * n, nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", a.String())), nil
}

// UnmarshalJSON accepts both a quoted and a bare number. If Unmarshalling
// errors, `a` will have an `invalidValue`.
func (a *Amount) UnmarshalJSON(b []byte) (err error) {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if len(s) < 1 {
		*a = invalidValue
		return errors.InvalidOperation
	}

	if *a, err = AmountFromString(s); err != nil {
		*a = invalidValue
	}
	return
}

func (a Amount) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

func (a *Amount) UnmarshalYAML(unmarshal func(interface{}) error) (err error) {
	var s string
	if err = unmarshal(&s); err != nil {
		return
	}

	*a, err = AmountFromString(s)
	return
}

// Parse an `Amount` from a string input
//
// Returns:
//  A valid `Amount` and a `nil` error, or an invalid amount and an `error`
func AmountFromString(str string) (Amount, error) {
	value, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return invalidValue, err
	}
	if Amount(value) > MaximumBalance {
		return invalidValue, errors.MaximumBalanceReached
	}

	return Amount(value), nil
}

func MustAmountFromString(str string) Amount {
	if value, err := AmountFromString(str); err != nil {
		panic(err)
	} else {
		return value
	}
}
