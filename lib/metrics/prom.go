package metrics

// InitPrometheusMetrics replaces the nop metrics by the prometheus ones,
// served by the default registry.
func InitPrometheusMetrics() {
	Version = PromVersion()
	Governance = PromGovernanceMetrics()
	Block = PromBlockMetrics()
	TxPool = PromTxPoolMetrics()
	API = PromAPIMetrics()

	SetVersion()
}
