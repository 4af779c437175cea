package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/remitok/chord"
	"github.com/jsphweid/remitok/score"
)

func init() {
	rootCmd.AddCommand(chordsCmd)
}

var chordsCmd = &cobra.Command{
	Use:   "chords <file.mid>",
	Short: "Prints recognized chord segments",
	Long:  `Prints the chord segments recognized in a MIDI file, one per line.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := score.Load(args[0], false)
		if err != nil {
			return err
		}
		for _, c := range chord.Extract(sc) {
			fmt.Printf("%v\t%v\t%v\n", c.StartTick, c.EndTick, c.Label)
		}
		return nil
	},
}
