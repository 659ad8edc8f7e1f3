package metrics

const (
	Namespace           = "governance"
	GovernanceSubsystem = "governance"
	BlockSubsystem      = "block"
	TxPoolSubsystem     = "txpool"
	APISubsystem        = "api"
)
