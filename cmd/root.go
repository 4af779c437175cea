package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "remitok",
	Short: "REMI+ tokenizer for MIDI scores",
	Long:  `Converts multi-track MIDI scores to REMI+ token sequences and back.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
