package errors

// storage and encoding
var (
	StorageRecordDoesNotExist  = NewError(100, "record does not exist in storage")
	StorageRecordAlreadyExists = NewError(101, "record already exists in storage")
	StorageCoreError           = NewError(102, "storage error")
	StorageTransactionFailed   = NewError(103, "storage transaction failed")
	NotImplemented             = NewError(104, "not implemented")
	EncodingFailed             = NewError(105, "failed to encode value")
)

// identity and envelope
var (
	Unsigned                    = NewError(110, "operation must be signed by an account")
	BadPublicAddress            = NewError(111, "failed to parse public address")
	SignatureVerificationFailed = NewError(112, "signature verification failed")
	InvalidOperation            = NewError(113, "invalid operation")
	UnknownOperationType        = NewError(114, "unknown operation type")
	OperationBodyInsufficient   = NewError(115, "operation body insufficient")
	InvalidHash                 = NewError(116, "invalid hash")
	InvalidChoice               = NewError(117, "invalid ballot choice")
	InvalidVoteType             = NewError(118, "invalid vote type")
)

// certificate registry
var (
	AlreadyExists     = NewError(120, "certificate authority hash is already registered")
	NotFound          = NewError(121, "record not found")
	AlreadyBound      = NewError(122, "account is already registered for this certificate authority")
	CertificateReused = NewError(123, "certificate is already bound to another account")
	Overflow          = NewError(124, "arithmetic overflow")
)

// vote lifecycle
var (
	PayloadTooLarge     = NewError(130, "vote payload is too large")
	UnknownCA           = NewError(131, "no certificate authority at the given index")
	SelfVote            = NewError(132, "creator cannot vote on own vote")
	Expired             = NewError(133, "vote has already expired")
	NotYetExpired       = NewError(134, "vote has not expired yet")
	WrongVoteKind       = NewError(135, "operation does not match vote type")
	AlreadyVotedThisWay = NewError(136, "account already voted this way")
	NotEligible         = NewError(137, "account is not registered for the required certificate authority")
	LockTooShort        = NewError(138, "lock duration must outlive the vote")
	AlreadyLocked       = NewError(139, "account already locked on this vote")
	InsufficientFunds   = NewError(140, "deposit exceeds available balance")
	AlreadyConcluded    = NewError(141, "vote has already concluded")
	VoteNotConcluded    = NewError(142, "vote has not concluded yet")
	NoLock              = NewError(143, "no lock deposit for this account on this vote")
	LockPeriodActive    = NewError(144, "lock period is not over yet")
)

// ledger
var (
	AccountDoesNotExist     = NewError(150, "account does not exist")
	AccountAlreadyExists    = NewError(151, "account already exists")
	MaximumBalanceReached   = NewError(152, "monetary amount would be greater than the total supply of coins")
	AccountBalanceUnderZero = NewError(153, "account balance would go under zero")
	HoldDoesNotExist        = NewError(154, "hold does not exist")
)

// node
var (
	BlockNotFound            = NewError(160, "block not found")
	TransactionNotFound      = NewError(161, "transaction not found")
	TransactionAlreadyExists = NewError(162, "transaction already exists")
	TransactionPoolFull      = NewError(163, "transaction pool is full")
	InvalidGenesis           = NewError(164, "invalid genesis")
	HTTPServerError          = NewError(165, "Internal Server Error")
	BadRequestParameter      = NewError(166, "bad request parameter")
	TooManyRequests          = NewError(167, "too many requests")
)
