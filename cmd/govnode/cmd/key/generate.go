package key

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"boscoin.io/governance/cmd/govnode/common"
	"boscoin.io/governance/lib/common/keypair"
)

var (
	GenerateCmd *cobra.Command

	flagParse  bool
	flagFormat string
)

type KeyPair struct {
	Seed       string `json:"seed" yaml:"seed"`
	Address    string `json:"address" yaml:"address"`
	Passphrase string `json:"passphrase,omitempty" yaml:"passphrase,omitempty"`
}

var defaultTemplate = template.Must(template.New("").Parse(`   Secret Seed: {{ .Seed }}
Public Address: {{ .Address }}{{ if .Passphrase }}
    Passphrase: "{{ .Passphrase }}"{{ end }}
`))

func defaultEncode(v interface{}, w io.Writer) error {
	return defaultTemplate.Execute(w, v)
}

func onelineEncode(v interface{}, w io.Writer) error {
	kp := v.(KeyPair)
	_, err := fmt.Fprintf(w, "%s %s\n", kp.Seed, kp.Address)
	return err
}

var encoders = map[string]common.Encode{
	"json":       common.DefaultEncodes["json"],
	"prettyjson": common.DefaultEncodes["prettyjson"],
	"yaml":       common.DefaultEncodes["yaml"],
	"default":    defaultEncode,
	"oneline":    onelineEncode,
}

func init() {
	GenerateCmd = &cobra.Command{
		Use:   "generate [<passphrase> | --parse <secret seed>]",
		Short: "Generate keypair",
		Long: `Generate a random keypair. With <passphrase> the keypair is derived
from it, and with --parse the address of <secret seed> is printed.`,
		Run: func(c *cobra.Command, args []string) {
			input := strings.TrimSpace(strings.Join(args, " "))
			if flagParse && len(input) == 0 {
				common.PrintFlagsError(c, "--parse", errors.New("--parse needs <secret seed>"))
			}

			encode, found := encoders[flagFormat]
			if !found {
				common.PrintFlagsError(c, "--format", fmt.Errorf("%q not recognized", flagFormat))
			}

			kp, err := GenerateKP(input, flagParse)
			if err != nil {
				common.PrintFlagsError(c, "<input>", err)
			}

			out := KeyPair{Seed: kp.Seed(), Address: kp.Address()}
			if !flagParse {
				out.Passphrase = input
			}

			if err := encode(out, os.Stdout); err != nil {
				common.PrintError(c, err)
			}
		},
	}

	GenerateCmd.Flags().BoolVar(&flagParse, "parse", false, "parse secret seed")
	GenerateCmd.Flags().StringVar(&flagFormat, "format", "default", "format={default, json, oneline, prettyjson, yaml}")
}

// GenerateKP makes a random keypair from empty input, parses `input` when
// `fromSeed` and otherwise derives the keypair from the passphrase.
func GenerateKP(input string, fromSeed bool) (*keypair.Full, error) {
	if len(input) == 0 {
		return keypair.RandomCanFail()
	}

	if fromSeed {
		full, err := common.ParseSecretSeed(input)
		if err != nil {
			return nil, fmt.Errorf("failed to parse secret seed: %v", err)
		}
		return full, nil
	}

	return keypair.Master(input).(*keypair.Full), nil
}
