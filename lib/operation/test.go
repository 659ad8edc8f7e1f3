package operation

import (
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/vote"
)

func MakeTestCreateVote(t vote.Type, duration common.Height) Operation {
	return MustNewOperation(NewCreateVote(t, duration, []byte("showme"), nil))
}

func MakeTestCastBallot(id uint64, choice vote.Choice) Operation {
	return MustNewOperation(NewCastBallot(id, choice))
}
