// Provide test utilities for the common package
package common

// Initialize a new config object for unittests
func NewTestConfig() Config {
	p := NewConfig([]byte("governance-unittest"))
	p.BlockTime = 0

	return p
}
