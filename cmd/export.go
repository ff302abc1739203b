package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/progstudio/chord"
	"github.com/jsphweid/progstudio/constants"
	"github.com/jsphweid/progstudio/midi"
	"github.com/jsphweid/progstudio/model"
	"github.com/spf13/cobra"
)

var (
	outFlag    string
	chordsFlag []string
)

func init() {
	exportCmd.Flags().StringVarP(&outFlag, "out", "o", "", "output path (defaults to EXPORT_DIR/"+constants.ExportFilename+")")
	exportCmd.Flags().StringSliceVar(&chordsFlag, "chords", nil, "export these chords instead of generating, e.g. C,Am,F,G")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exports a progression as a MIDI file",
	Long:  `Generates a progression (or takes --chords) and writes it as a Standard MIDI File, one second per chord.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var chords []model.ChordSymbol
		if len(chordsFlag) > 0 {
			parsed, err := chord.ParseSymbols(chordsFlag)
			if err != nil {
				return err
			}
			chords = parsed
		} else {
			s, err := newStudio(nil)
			if err != nil {
				return err
			}
			p, err := s.Generate(templateFlag)
			if err != nil {
				return err
			}
			printProgression(cmd.OutOrStdout(), p)
			chords = p.Chords
		}

		path := outFlag
		if path == "" {
			path = filepath.Join(cfg.ExportDir, constants.ExportFilename)
		}
		size, err := midi.WriteFile(path, chords)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", path, humanize.Bytes(uint64(size)))
		return nil
	},
}
