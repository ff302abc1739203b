package cmd

import (
	"fmt"
	"time"

	"github.com/hako/durafmt"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates a progression",
	Long:  `Generates a progression in the selected key and scale and prints it with insights.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newStudio(nil)
		if err != nil {
			return err
		}
		p, err := s.Generate(templateFlag)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printProgression(out, p)
		beat := time.Duration(float64(time.Minute) / cfg.TempoBPM)
		fmt.Fprintf(out, "Plays for %s at %.0f BPM\n", durafmt.Parse(beat*time.Duration(len(p.Chords))), cfg.TempoBPM)
		return nil
	},
}
