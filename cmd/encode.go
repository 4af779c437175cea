package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsphweid/remitok/remi"
	"github.com/jsphweid/remitok/score"
	"github.com/jsphweid/remitok/util"
)

var (
	encodeOut      string
	encodeStrict   bool
	encodeNoChords bool
	encodeDescribe bool
)

func init() {
	encodeCmd.Flags().StringVarP(&encodeOut, "out", "o", "", "output token file")
	encodeCmd.Flags().BoolVar(&encodeStrict, "strict", false, "fail on files without time signature or notes")
	encodeCmd.Flags().BoolVar(&encodeNoChords, "no-chords", false, "skip chord extraction")
	encodeCmd.Flags().BoolVar(&encodeDescribe, "describe", false, "emit the bar-level description stream instead of tokens")
	rootCmd.AddCommand(encodeCmd)
}

var encodeCmd = &cobra.Command{
	Use:   "encode <file.mid>",
	Short: "Tokenizes a MIDI file",
	Long:  `Tokenizes a MIDI file into a REMI+ token sequence, one token per line.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return encode(args[0])
	},
}

func encode(path string) error {
	sc, err := score.Load(path, encodeStrict)
	if err != nil {
		return err
	}
	enc, err := remi.NewEncoder(sc, !encodeNoChords, encodeStrict)
	if err != nil {
		return err
	}

	var tokens []string
	if encodeDescribe {
		tokens, err = enc.Description(remi.DescribeOptions{})
	} else {
		tokens, err = enc.Tokens()
	}
	if err != nil {
		return err
	}

	out := encodeOut
	if out == "" {
		out = uuid.New().String() + ".remi"
	}
	if err := util.WriteLines(out, tokens); err != nil {
		return err
	}
	fmt.Printf("Wrote %v tokens to %v\n", len(tokens), out)
	return nil
}
