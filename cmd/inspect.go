package cmd

import (
	"fmt"

	"github.com/jsphweid/progstudio/chord"
	"github.com/jsphweid/progstudio/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Inspects a MIDI file",
	Long:  `Prints every note of a MIDI file with its start time and duration in seconds.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, err := midi.ReadFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, n := range notes {
			fmt.Fprintf(out, "%6.2fs %-4s %3d for %.2fs\n", n.Start, chord.PitchName(n.Pitch), n.Pitch, n.Duration)
		}
		fmt.Fprintf(out, "%d notes\n", len(notes))
		return nil
	},
}
