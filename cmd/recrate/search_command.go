package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recrate/internal/config"
	"recrate/internal/filter"
	"recrate/internal/library"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var filters filterFlags
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "search [track-id ...]",
		Short: "List library tracks matching the given filters",
		Long: "Search resolves the filter flags against the library database and prints\n" +
			"the matching tracks. Positional track ids select exactly those tracks and\n" +
			"ignore all other filters. With no filters at all, every track matches.",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseOutputMode(outputFlag)
			if err != nil {
				return err
			}
			set, err := filters.criteria(args)
			if err != nil {
				return err
			}

			return ctx.withLibrary(func(cfg *config.Config, store *library.Store) error {
				tracks, err := filter.Resolve(cmd.Context(), store, set)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				switch mode {
				case outputIDs:
					printTrackIDs(out, tracks)
				case outputSilent:
				default:
					if len(tracks) == 0 {
						fmt.Fprintln(out, "No tracks matched")
						return nil
					}
					printTrackTable(out, tracks)
					fmt.Fprintf(out, "%d tracks\n", len(tracks))
				}
				return nil
			})
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "normal", "Output mode: normal, ids, or silent")
	return cmd
}
