package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/progstudio/db"
	"github.com/jsphweid/progstudio/progression"
	"github.com/jsphweid/progstudio/theory"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Resolves every template in every key and scale and prints the chords, how often each ending resolves and how often it leaves tension.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := db.LoadLibrary(cfg)
		if err != nil {
			return err
		}
		if templateFlag != "" {
			t, ok := lib.Find(templateFlag)
			if !ok {
				return fmt.Errorf("unknown template %q", templateFlag)
			}
			lib = theory.Library{t}
		}
		return report(cmd.OutOrStdout(), lib)
	},
}

type endingsReport struct {
	resolution int
	tension    int
}

func report(w io.Writer, lib theory.Library) error {
	endings := make(map[string]*endingsReport)
	for _, t := range lib {
		fmt.Fprintf(w, "%s %v\n", t.Name, t.Degrees)
		r := &endingsReport{}
		endings[t.Name] = r
		for _, scale := range theory.Scales {
			for k := theory.Key(0); k < theory.NumKeys; k++ {
				p, err := progression.GenerateFrom(k, scale, t)
				if err != nil {
					return err
				}
				if progression.Ending(p) == "tension" {
					r.tension++
				} else {
					r.resolution++
				}
				fmt.Fprintf(w, "  %-3s %-6s %s\n", k, scale, p)
			}
		}
	}

	fmt.Fprintln(w)
	for _, t := range lib {
		r := endings[t.Name]
		fmt.Fprintf(w, "%-12s resolution: %2d tension: %2d\n", t.Name, r.resolution, r.tension)
	}
	return nil
}
