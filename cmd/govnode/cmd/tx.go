package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/btcsuite/btcutil/base58"
	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/governance/cmd/govnode/common"
	"boscoin.io/governance/lib/client"
	"boscoin.io/governance/lib/common"
	"boscoin.io/governance/lib/common/keypair"
	"boscoin.io/governance/lib/operation"
	"boscoin.io/governance/lib/transaction"
	"boscoin.io/governance/lib/vote"
)

var (
	flagNodeURL    string = common.GetENVValue("GOV_NODE", fmt.Sprintf("http://127.0.0.1:%d", defaultPort))
	flagTxNetwork  string = common.GetENVValue("GOV_NETWORK_ID", "")
	flagNonce      uint64
	flagDryRun     bool
	flagTxFormat   string = "prettyjson"
	flagPayload    string
	flagRequiredCA int64 = -1
	flagCAHash     string
	flagSignature  string
)

var txCmd *cobra.Command

// txBuilder parses the positional arguments after the secret seed into an
// operation body.
type txBuilder func(args []string) (operation.Body, error)

func init() {
	txCmd = &cobra.Command{
		Use:   "tx",
		Short: "Sign and submit governance transactions",
		Run: func(c *cobra.Command, args []string) {
			if len(args) < 1 {
				c.Usage()
			}
		},
	}

	txCmd.PersistentFlags().StringVar(&flagNodeURL, "node", flagNodeURL, "node url to submit to")
	txCmd.PersistentFlags().StringVar(&flagTxNetwork, "network-id", flagTxNetwork, "network id; asked to the node when empty")
	txCmd.PersistentFlags().Uint64Var(&flagNonce, "nonce", 0, "transaction nonce; current time when 0")
	txCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "print the signed transaction without submitting")
	txCmd.PersistentFlags().StringVar(&flagTxFormat, "format", flagTxFormat, "format={json, prettyjson, yaml}")

	createVoteCmd := newTxCommand(
		"create-vote <secret seed> <plain|lock> <duration>",
		"Create a vote open for <duration> blocks",
		2,
		buildCreateVote,
	)
	createVoteCmd.Flags().StringVar(&flagPayload, "payload", "", "vote payload")
	createVoteCmd.Flags().Int64Var(&flagRequiredCA, "required-ca", flagRequiredCA, "index of the authority voters must be registered to; -1 for none")

	registerCACmd := newTxCommand(
		"register-ca <secret seed> <ca data>",
		"Register a certificate authority",
		1,
		buildRegisterCA,
	)
	registerCACmd.Flags().StringVar(&flagCAHash, "ca-hash", "", "authority hash; hash of <ca data> when empty")

	registerAccountCmd := newTxCommand(
		"register-account <secret seed> <ca hash> <certificate>",
		"Bind the account to an authority with a certificate",
		2,
		nil,
	)
	registerAccountCmd.Flags().StringVar(&flagSignature, "signature", "", "base58 certificate signature; signed by the account when empty")

	txCmd.AddCommand(
		createVoteCmd,
		newTxCommand(
			"ballot <secret seed> <vote id> <aye|nay>",
			"Cast a ballot on a plain vote",
			2,
			buildCastBallot,
		),
		newTxCommand(
			"lockvote <secret seed> <vote id> <aye|nay> <deposit> <duration>",
			"Cast a ballot on a lock vote, locking <deposit> for <duration> blocks",
			4,
			buildCastLockVote,
		),
		newTxCommand(
			"conclude <secret seed> <vote id>",
			"Conclude an expired vote",
			1,
			buildConcludeVote,
		),
		newTxCommand(
			"withdraw <secret seed> <vote id>",
			"Withdraw the unlocked deposit of a lock vote",
			1,
			buildWithdraw,
		),
		registerCACmd,
		registerAccountCmd,
		txStatusCmd,
	)

	rootCmd.AddCommand(txCmd)
}

func newTxCommand(use, short string, nargs int, build txBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs + 1),
		Run: func(c *cobra.Command, args []string) {
			kp, err := cmdcommon.ParseSecretSeed(args[0])
			if err != nil {
				cmdcommon.PrintFlagsError(c, "<secret seed>", err)
			}

			encode, err := cmdcommon.GetEncoder(flagTxFormat)
			if err != nil {
				cmdcommon.PrintFlagsError(c, "--format", err)
			}

			cl := client.NewClient(flagNodeURL)
			defer cl.Close()

			networkID := flagTxNetwork
			if len(networkID) < 1 {
				info, err := cl.LoadNodeInfo()
				if err != nil {
					cmdcommon.PrintError(c, err)
				}
				networkID = info.NetworkID
			}

			// register-account signs with the network id
			builder := build
			if builder == nil {
				builder = func(args []string) (operation.Body, error) {
					return buildRegisterAccount(kp, []byte(networkID), args)
				}
			}

			body, err := builder(args[1:])
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			tx, err := makeTransaction(kp, []byte(networkID), flagNonce, body)
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			if flagDryRun {
				if err := encode(tx, os.Stdout); err != nil {
					cmdcommon.PrintError(c, err)
				}
				return
			}

			post, err := cl.SubmitTransaction(tx)
			if err != nil {
				cmdcommon.PrintError(c, err)
			}
			if err := encode(post, os.Stdout); err != nil {
				cmdcommon.PrintError(c, err)
			}
		},
	}
}

var txStatusCmd = &cobra.Command{
	Use:   "status <transaction hash>",
	Short: "Show the receipt of a transaction",
	Args:  cobra.ExactArgs(1),
	Run: func(c *cobra.Command, args []string) {
		cl := client.NewClient(flagNodeURL)
		defer cl.Close()

		tx, err := cl.LoadTransaction(args[0])
		if err != nil {
			cmdcommon.PrintError(c, err)
		}
		printResource(c, flagTxFormat, tx)
	},
}

// makeTransaction signs a transaction of `body` by `kp`. A zero `nonce`
// is replaced by the current time in nanoseconds.
func makeTransaction(kp *keypair.Full, networkID []byte, nonce uint64, body operation.Body) (tx transaction.Transaction, err error) {
	op, err := operation.NewOperation(body)
	if err != nil {
		return
	}

	if nonce == 0 {
		nonce = uint64(time.Now().UnixNano())
	}

	tx = transaction.NewTransaction(kp.Address(), nonce, op)
	tx.Sign(kp, networkID)

	return
}

func parseVoteID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid vote id, %q: %v", s, err)
	}

	return id, nil
}

func parseDuration(s string) (common.Height, error) {
	d, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration, %q: %v", s, err)
	}

	return common.Height(d), nil
}

func buildCreateVote(args []string) (operation.Body, error) {
	voteType, err := vote.ParseType(args[0])
	if err != nil {
		return nil, err
	}

	duration, err := parseDuration(args[1])
	if err != nil {
		return nil, err
	}

	var requiredCA *uint64
	if flagRequiredCA >= 0 {
		index := uint64(flagRequiredCA)
		requiredCA = &index
	}

	return operation.NewCreateVote(voteType, duration, []byte(flagPayload), requiredCA), nil
}

func buildCastBallot(args []string) (operation.Body, error) {
	id, err := parseVoteID(args[0])
	if err != nil {
		return nil, err
	}

	choice, err := vote.ParseChoice(args[1])
	if err != nil {
		return nil, err
	}

	return operation.NewCastBallot(id, choice), nil
}

func buildCastLockVote(args []string) (operation.Body, error) {
	id, err := parseVoteID(args[0])
	if err != nil {
		return nil, err
	}

	choice, err := vote.ParseChoice(args[1])
	if err != nil {
		return nil, err
	}

	deposit, err := cmdcommon.ParseAmountFromString(args[2])
	if err != nil {
		return nil, err
	}

	duration, err := parseDuration(args[3])
	if err != nil {
		return nil, err
	}

	return operation.NewCastLockVote(id, choice, deposit, duration), nil
}

func buildConcludeVote(args []string) (operation.Body, error) {
	id, err := parseVoteID(args[0])
	if err != nil {
		return nil, err
	}

	return operation.NewConcludeVote(id), nil
}

func buildWithdraw(args []string) (operation.Body, error) {
	id, err := parseVoteID(args[0])
	if err != nil {
		return nil, err
	}

	return operation.NewWithdraw(id), nil
}

func buildRegisterCA(args []string) (operation.Body, error) {
	data := []byte(args[0])

	caHash := common.MakeHash(data)
	if len(flagCAHash) > 0 {
		var err error
		if caHash, err = common.ParseHash(flagCAHash); err != nil {
			return nil, err
		}
	}

	return operation.NewRegisterCA(caHash, data), nil
}

// buildRegisterAccount hashes the certificate text; without --signature the
// account signs the certificate hash itself.
func buildRegisterAccount(kp *keypair.Full, networkID []byte, args []string) (operation.Body, error) {
	caHash, err := common.ParseHash(args[0])
	if err != nil {
		return nil, err
	}

	cert := common.MakeHash([]byte(args[1]))

	var signature []byte
	if len(flagSignature) > 0 {
		if signature = base58.Decode(flagSignature); len(signature) < 1 {
			return nil, fmt.Errorf("invalid base58 signature, %q", flagSignature)
		}
	} else if signature, err = keypair.MakeSignature(kp, networkID, cert.String()); err != nil {
		return nil, err
	}

	return operation.NewRegisterAccount(caHash, cert, signature), nil
}
