package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/keypair"
	"boscoin.io/governance/lib/errors"
)

func errorString(err error) string {
	if e, ok := err.(*errors.Error); ok {
		if len(e.Data) < 1 {
			return e.Message
		}
		return fmt.Sprintf("%s; %v", e.Message, e.Data)
	}

	return err.Error()
}

// PrintFlagsError issues a message on stderr, prints the usage and exits
// with an error code.
func PrintFlagsError(cmd *cobra.Command, flagName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid '%s'; %s\n\n", flagName, errorString(err))
	}

	cmd.Help()

	os.Exit(1)
}

func PrintError(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n\n", errorString(err))
	}

	cmd.Help()

	os.Exit(1)
}

// ParseAmountFromString parses `input` as an amount. Commas (','), dots
// ('.') and underscores ('_') are digit separators and skipped.
func ParseAmountFromString(input string) (common.Amount, error) {
	amountStr := strings.Replace(input, ",", "", -1)
	amountStr = strings.Replace(amountStr, ".", "", -1)
	amountStr = strings.Replace(amountStr, "_", "", -1)
	return common.AmountFromString(amountStr)
}

// ParseSecretSeed accepts only a secret seed, never a public address.
func ParseSecretSeed(s string) (*keypair.Full, error) {
	kp, err := keypair.Parse(s)
	if err != nil {
		return nil, err
	}

	full, ok := kp.(*keypair.Full)
	if !ok {
		return nil, fmt.Errorf("provided key is an address, not a secret seed")
	}

	return full, nil
}

// ParseAddress accepts only a public address, never a secret seed.
func ParseAddress(s string) (string, error) {
	if !keypair.IsAddress(s) {
		return "", fmt.Errorf("%q is not a public address", s)
	}

	return s, nil
}
