package cmd

import (
	"fmt"

	"github.com/jsphweid/progstudio/db"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Lists progression templates",
	Long:  `Lists the progression templates, from TEMPLATES_TABLE when configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := db.LoadLibrary(cfg)
		if err != nil {
			return err
		}
		for _, t := range lib {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %v\n", t.Name, t.Degrees)
		}
		return nil
	},
}
