package resource

const (
	APIVersionV1 = "/v1"
	APIPrefix    = "/api"

	URLNode                = APIPrefix + APIVersionV1 + "/"
	URLTransactions        = APIPrefix + APIVersionV1 + "/transactions"
	URLTransactionByHash   = APIPrefix + APIVersionV1 + "/transactions/{id}"
	URLVotes               = APIPrefix + APIVersionV1 + "/votes"
	URLVote                = APIPrefix + APIVersionV1 + "/votes/{id}"
	URLVoteResult          = APIPrefix + APIVersionV1 + "/votes/{id}/result"
	URLVoteBallots         = APIPrefix + APIVersionV1 + "/votes/{id}/ballots"
	URLVoteLocks           = APIPrefix + APIVersionV1 + "/votes/{id}/locks"
	URLAccounts            = APIPrefix + APIVersionV1 + "/accounts/{id}"
	URLAccountVotes        = APIPrefix + APIVersionV1 + "/accounts/{id}/votes"
	URLAccountTransactions = APIPrefix + APIVersionV1 + "/accounts/{id}/transactions"
	URLAccountAuthorities  = APIPrefix + APIVersionV1 + "/accounts/{id}/cas"
	URLAuthorities         = APIPrefix + APIVersionV1 + "/cas"
	URLAuthority           = APIPrefix + APIVersionV1 + "/cas/{id}"
	URLAuthorityAccounts   = APIPrefix + APIVersionV1 + "/cas/{id}/accounts"
	URLBlocks              = APIPrefix + APIVersionV1 + "/blocks/{id}"
	URLEvents              = APIPrefix + APIVersionV1 + "/events"
)
