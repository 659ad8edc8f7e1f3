package operation

import (
	"encoding/json"
	"reflect"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/errors"
)

type OperationType string

const (
	TypeRegisterCA      OperationType = "register-ca"
	TypeRegisterAccount OperationType = "register-account"
	TypeCreateVote      OperationType = "create-vote"
	TypeCastBallot      OperationType = "cast-ballot"
	TypeCastLockVote    OperationType = "cast-lockvote"
	TypeConcludeVote    OperationType = "conclude-vote"
	TypeWithdraw        OperationType = "withdraw"
)

func IsValidOperationType(oType string) bool {
	_, b := common.InStringArray([]string{
		string(TypeRegisterCA),
		string(TypeRegisterAccount),
		string(TypeCreateVote),
		string(TypeCastBallot),
		string(TypeCastLockVote),
		string(TypeConcludeVote),
		string(TypeWithdraw),
	}, oType)
	return b
}

type Operation struct {
	H Header
	B Body
}

func NewOperation(opb Body) (op Operation, err error) {
	var t OperationType
	switch opb.(type) {
	case RegisterCA:
		t = TypeRegisterCA
	case RegisterAccount:
		t = TypeRegisterAccount
	case CreateVote:
		t = TypeCreateVote
	case CastBallot:
		t = TypeCastBallot
	case CastLockVote:
		t = TypeCastLockVote
	case ConcludeVote:
		t = TypeConcludeVote
	case Withdraw:
		t = TypeWithdraw
	default:
		err = errors.UnknownOperationType
		return
	}

	op = Operation{
		H: Header{Type: t},
		B: opb,
	}

	return
}

func MustNewOperation(opb Body) Operation {
	op, err := NewOperation(opb)
	if err != nil {
		panic(err)
	}
	return op
}

type Header struct {
	Type OperationType `json:"type"`
}

type Body interface {
	//
	// Check that this operation is self consistent
	//
	// Storage is not consulted; those checks belong to the engine.
	//
	IsWellFormed(common.Config) error
}

// VoteTargeted is implemented by the operations on an existing vote.
type VoteTargeted interface {
	TargetVote() uint64
}

func (o Operation) IsWellFormed(conf common.Config) (err error) {
	if !IsValidOperationType(string(o.H.Type)) {
		return errors.UnknownOperationType
	}
	if o.B == nil {
		return errors.OperationBodyInsufficient
	}

	return o.B.IsWellFormed(conf)
}

func (o Operation) String() string {
	encoded, _ := json.MarshalIndent(o, "", "  ")

	return string(encoded)
}

type envelop struct {
	H Header
	B interface{}
}

func (o *Operation) UnmarshalJSON(b []byte) (err error) {
	var raw json.RawMessage
	oj := envelop{
		B: &raw,
	}
	if err = json.Unmarshal(b, &oj); err != nil {
		return
	}

	o.H = oj.H

	var body Body
	if body, err = UnmarshalBodyJSON(oj.H.Type, raw); err != nil {
		return
	}
	o.B = body
	return nil
}

func UnmarshalBodyJSON(t OperationType, b []byte) (Body, error) {
	if bi, err := newBodyFromType(t); err != nil {
		return nil, err
	} else if err = json.Unmarshal(b, bi); err != nil {
		return nil, err
	} else {
		// No other way to go from interface-to-pointer to interface-to-value
		// because values within interfaces are not addressable
		return reflect.ValueOf(bi).Elem().Interface().(Body), nil
	}
}

// Returns: A pointer to a body with a type matching `ty`
func newBodyFromType(ty OperationType) (interface{}, error) {
	switch ty {
	case TypeRegisterCA:
		return &RegisterCA{}, nil
	case TypeRegisterAccount:
		return &RegisterAccount{}, nil
	case TypeCreateVote:
		return &CreateVote{}, nil
	case TypeCastBallot:
		return &CastBallot{}, nil
	case TypeCastLockVote:
		return &CastLockVote{}, nil
	case TypeConcludeVote:
		return &ConcludeVote{}, nil
	case TypeWithdraw:
		return &Withdraw{}, nil
	default:
		return nil, errors.UnknownOperationType
	}
}
