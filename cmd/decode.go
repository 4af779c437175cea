package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/remitok/remi"
	"github.com/jsphweid/remitok/util"
)

var (
	decodeOut string
	decodeBPM float64
)

func init() {
	decodeCmd.Flags().StringVarP(&decodeOut, "out", "o", "", "output MIDI file")
	decodeCmd.Flags().Float64Var(&decodeBPM, "bpm", 120, "tempo before the stream declares one")
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <file.remi>",
	Short: "Decodes a token file back to MIDI",
	Long:  `Decodes a REMI+ token file (one token per line) back to a MIDI file.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decode(args[0])
	},
}

func decode(path string) error {
	tokens, err := util.ReadLines(path)
	if err != nil {
		return err
	}

	res := remi.Decode(tokens, &remi.DecodeOptions{BPM: decodeBPM})

	out := decodeOut
	if out == "" {
		out = strings.TrimSuffix(path, ".remi") + ".mid"
	}
	if err := res.ToSMF().WriteFile(out); err != nil {
		return err
	}
	fmt.Printf("Decoded %v of %v notes to %v\n", res.NotesAdmitted, res.NotesTotal, out)
	return nil
}
