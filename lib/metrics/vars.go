package metrics

var (
	Governance = NopGovernanceMetrics()
	Block      = NopBlockMetrics()
	TxPool     = NopTxPoolMetrics()
	API        = NopAPIMetrics()
)
