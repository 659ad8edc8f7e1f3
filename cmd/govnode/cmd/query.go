package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	cmdcommon "boscoin.io/governance/cmd/govnode/common"
	"boscoin.io/governance/lib/client"
)

var (
	flagQueryFormat  string = "prettyjson"
	flagQueryCursor  string
	flagQueryLimit   uint64
	flagQueryReverse bool
	flagQueryChoice  string
	flagEventTypes   []string
	flagEventVote    string
	flagEventAccount string
)

var queryCmd *cobra.Command

func init() {
	queryCmd = &cobra.Command{
		Use:   "query",
		Short: "Query the governance state of a node",
		Run: func(c *cobra.Command, args []string) {
			if len(args) < 1 {
				c.Usage()
			}
		},
	}

	queryCmd.PersistentFlags().StringVar(&flagNodeURL, "node", flagNodeURL, "node url to query")
	queryCmd.PersistentFlags().StringVar(&flagQueryFormat, "format", flagQueryFormat, "format={json, prettyjson, yaml}")

	votesCmd := newQueryCommand("votes", "List votes", 0, func(cl *client.Client, args []string) (interface{}, error) {
		return cl.LoadVotes(pageQueries()...)
	})
	ballotsCmd := newQueryCommand("ballots <vote id>", "List ballots of a vote", 1, func(cl *client.Client, args []string) (interface{}, error) {
		id, err := parseVoteID(args[0])
		if err != nil {
			return nil, err
		}
		queries := pageQueries()
		if len(flagQueryChoice) > 0 {
			queries = append(queries, client.Q{Key: client.QueryChoice, Value: flagQueryChoice})
		}
		return cl.LoadBallots(id, queries...)
	})
	ballotsCmd.Flags().StringVar(&flagQueryChoice, "choice", "", "aye or nay; both when empty")
	locksCmd := newQueryCommand("locks <vote id>", "List lock deposits of a vote", 1, func(cl *client.Client, args []string) (interface{}, error) {
		id, err := parseVoteID(args[0])
		if err != nil {
			return nil, err
		}
		return cl.LoadLockDeposits(id, pageQueries()...)
	})
	accountVotesCmd := newQueryCommand("account-votes <address>", "List votes created by an account", 1, func(cl *client.Client, args []string) (interface{}, error) {
		address, err := cmdcommon.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		return cl.LoadVotesByAccount(address, pageQueries()...)
	})
	casCmd := newQueryCommand("cas", "List certificate authorities", 0, func(cl *client.Client, args []string) (interface{}, error) {
		return cl.LoadAuthorities(pageQueries()...)
	})
	for _, c := range []*cobra.Command{votesCmd, ballotsCmd, locksCmd, accountVotesCmd, casCmd} {
		c.Flags().StringVar(&flagQueryCursor, "cursor", "", "page cursor")
		c.Flags().Uint64Var(&flagQueryLimit, "limit", 0, "page size")
		c.Flags().BoolVar(&flagQueryReverse, "reverse", false, "reverse order")
	}

	queryCmd.AddCommand(
		newQueryCommand("node", "Show node information", 0, func(cl *client.Client, args []string) (interface{}, error) {
			return cl.LoadNodeInfo()
		}),
		newQueryCommand("vote <vote id>", "Show a vote", 1, func(cl *client.Client, args []string) (interface{}, error) {
			id, err := parseVoteID(args[0])
			if err != nil {
				return nil, err
			}
			return cl.LoadVote(id)
		}),
		newQueryCommand("result <vote id>", "Show the tally of a concluded vote", 1, func(cl *client.Client, args []string) (interface{}, error) {
			id, err := parseVoteID(args[0])
			if err != nil {
				return nil, err
			}
			return cl.LoadVoteResult(id)
		}),
		newQueryCommand("account <address>", "Show an account", 1, func(cl *client.Client, args []string) (interface{}, error) {
			address, err := cmdcommon.ParseAddress(args[0])
			if err != nil {
				return nil, err
			}
			return cl.LoadAccount(address)
		}),
		newQueryCommand("ca <index>", "Show a certificate authority", 1, func(cl *client.Client, args []string) (interface{}, error) {
			index, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return nil, err
			}
			return cl.LoadAuthority(index)
		}),
		newQueryCommand("block <height or hash>", "Show a block", 1, func(cl *client.Client, args []string) (interface{}, error) {
			return cl.LoadBlock(args[0])
		}),
		votesCmd,
		ballotsCmd,
		locksCmd,
		accountVotesCmd,
		casCmd,
	)

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Watch governance events until interrupted",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			encode, err := cmdcommon.GetEncoder(flagQueryFormat)
			if err != nil {
				cmdcommon.PrintFlagsError(c, "--format", err)
			}

			cl := client.NewClient(flagNodeURL)
			defer cl.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			go func() {
				cmdcommon.Interrupt(ctx.Done())
				cancel()
			}()

			err = cl.StreamEvents(ctx, func(e client.Event) {
				encode(e, os.Stdout)
			}, eventQueries()...)
			if err != nil {
				cmdcommon.PrintError(c, err)
			}
		},
	}
	eventsCmd.Flags().StringSliceVar(&flagEventTypes, "type", nil, "event types to watch; every type when empty")
	eventsCmd.Flags().StringVar(&flagEventVote, "vote", "", "watch the events of this vote id only")
	eventsCmd.Flags().StringVar(&flagEventAccount, "account", "", "watch the events of this account only")

	queryCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(queryCmd)
}

func newQueryCommand(use, short string, nargs int, load func(*client.Client, []string) (interface{}, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		Run: func(c *cobra.Command, args []string) {
			cl := client.NewClient(flagNodeURL)
			defer cl.Close()

			v, err := load(cl, args)
			if err != nil {
				cmdcommon.PrintError(c, err)
			}
			printResource(c, flagQueryFormat, v)
		},
	}
}

func printResource(c *cobra.Command, format string, v interface{}) {
	encode, err := cmdcommon.GetEncoder(format)
	if err != nil {
		cmdcommon.PrintFlagsError(c, "--format", err)
	}
	if err := encode(v, os.Stdout); err != nil {
		cmdcommon.PrintError(c, err)
	}
}

func pageQueries() (queries []client.Q) {
	if len(flagQueryCursor) > 0 {
		queries = append(queries, client.Q{Key: client.QueryCursor, Value: flagQueryCursor})
	}
	if flagQueryLimit > 0 {
		queries = append(queries, client.Q{Key: client.QueryLimit, Value: strconv.FormatUint(flagQueryLimit, 10)})
	}
	if flagQueryReverse {
		queries = append(queries, client.Q{Key: client.QueryReverse, Value: "true"})
	}

	return
}

func eventQueries() (queries []client.Q) {
	for _, t := range flagEventTypes {
		queries = append(queries, client.Q{Key: client.QueryType, Value: t})
	}
	if len(flagEventVote) > 0 {
		queries = append(queries, client.Q{Key: client.QueryVote, Value: flagEventVote})
	}
	if len(flagEventAccount) > 0 {
		queries = append(queries, client.Q{Key: client.QueryAccount, Value: flagEventAccount})
	}

	return
}
