package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recrate/internal/config"
	"recrate/internal/library"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Library database utilities",
	}

	libraryCmd.AddCommand(newLibraryInitCommand())
	libraryCmd.AddCommand(newLibraryStatsCommand(ctx))

	return libraryCmd
}

func newLibraryInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "init <path>",
		Short:       "Create an empty library database",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			store, err := library.Initialize(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "Created empty library database at %s\n", path)
			return nil
		},
	}
}

func newLibraryStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show track counts per format",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(cfg *config.Config, store *library.Store) error {
				tracks, err := store.ListTracks(cmd.Context())
				if err != nil {
					return err
				}

				counts := make(map[string]int)
				order := []string{}
				for _, t := range tracks {
					name := formatName(t)
					if _, seen := counts[name]; !seen {
						order = append(order, name)
					}
					counts[name]++
				}

				out := cmd.OutOrStdout()
				if len(tracks) == 0 {
					fmt.Fprintln(out, "Library is empty")
					return nil
				}
				rows := make([][]string, 0, len(order))
				for _, name := range order {
					rows = append(rows, []string{name, fmt.Sprintf("%d", counts[name])})
				}
				fmt.Fprintln(out, renderTable([]string{"Format", "Tracks"}, rows, 2))
				fmt.Fprintf(out, "%d tracks total\n", len(tracks))
				return nil
			})
		},
	}
}
