package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"recrate/internal/config"
	"recrate/internal/convert"
	"recrate/internal/filter"
	"recrate/internal/format"
	"recrate/internal/library"
	"recrate/internal/logging"
	"recrate/internal/preflight"
	"recrate/internal/services"
	"recrate/internal/services/ffmpeg"
)

// stdinIsTerminal is overridable in tests, where stdin is never a tty.
var stdinIsTerminal = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var filters filterFlags
	var (
		toFlag        string
		outputFlag    string
		dryRun        bool
		assumeYes     bool
		interactive   bool
		deleteFlag    bool
		keepFlag      bool
		overwriteFlag bool
	)

	cmd := &cobra.Command{
		Use:   "convert [track-id ...]",
		Short: "Re-encode matching tracks into another format",
		Long: "Convert resolves the filter flags, plans one conversion per matching track,\n" +
			"transcodes with ffmpeg, and commits path and format updates to the library\n" +
			"database in a single transaction. Originals of lossless targets are deleted\n" +
			"after the commit by default; --keep or --delete overrides the default.",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseOutputMode(outputFlag)
			if err != nil {
				return err
			}
			if mode != outputNormal && !assumeYes && !dryRun {
				return services.Wrap(services.ErrConfiguration, "convert", "output",
					fmt.Sprintf("--output %s suppresses the confirmation prompt; add --yes or --dry-run", mode), nil)
			}
			if deleteFlag && keepFlag {
				return services.Wrap(services.ErrConfiguration, "convert", "flags",
					"--delete and --keep are mutually exclusive", nil)
			}

			target, err := format.Parse(toFlag)
			if err != nil {
				return err
			}
			set, err := filters.criteria(args)
			if err != nil {
				return err
			}

			opts := convert.Options{
				Overwrite:   overwriteFlag,
				Interactive: interactive,
			}
			switch {
			case deleteFlag:
				opts.Delete = convert.DeleteAlways
			case keepFlag:
				opts.Delete = convert.DeleteNever
			}

			if !dryRun && !assumeYes && !stdinIsTerminal() {
				return services.Wrap(services.ErrPrecondition, "convert", "prompt",
					"stdin is not a terminal; add --yes to run unattended", nil)
			}

			run := ctx.withLockedLibrary
			if dryRun {
				run = ctx.withLibrary
			}
			return run(func(cfg *config.Config, store *library.Store) error {
				return runConvert(cmd, cfg, store, set, target, opts, convertRun{
					mode:      mode,
					dryRun:    dryRun,
					assumeYes: assumeYes,
				})
			})
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVar(&toFlag, "to", "", "Target format: aiff, flac, wav, alac, or mp3")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "normal", "Output mode: normal, ids, or silent")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan only; touch nothing")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the batch confirmation prompt")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Confirm each file before converting it")
	cmd.Flags().BoolVar(&deleteFlag, "delete", false, "Delete originals after the database commit")
	cmd.Flags().BoolVar(&keepFlag, "keep", false, "Keep originals regardless of target format")
	cmd.Flags().BoolVar(&overwriteFlag, "overwrite", false, "Re-encode even when the target file already exists")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

type convertRun struct {
	mode      outputMode
	dryRun    bool
	assumeYes bool
}

func runConvert(cmd *cobra.Command, cfg *config.Config, store *library.Store, set filter.Set, target format.Format, opts convert.Options, run convertRun) error {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		logger = logging.Discard()
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	reporter := out
	if run.mode != outputNormal {
		reporter = errOut
	}

	tracks, err := filter.Resolve(cmd.Context(), store, set)
	if err != nil {
		return err
	}

	// One shared reader for every prompt in this run; separate readers would
	// lose answers buffered ahead by an earlier prompt.
	input := bufio.NewReader(cmd.InOrStdin())

	orchestratorOpts := []convert.OrchestratorOption{
		convert.WithPreflight(preflight.Gate(cfg)),
		convert.WithLogger(logger),
	}
	if opts.Interactive {
		orchestratorOpts = append(orchestratorOpts, convert.WithConfirmer(promptPerFile(input, reporter, target)))
	}
	orchestrator := convert.New(
		store,
		ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.FFmpegBinary())),
		cfg.FFprobeBinary(),
		orchestratorOpts...,
	)

	batch, err := orchestrator.Plan(cmd.Context(), tracks, target, opts)
	if err != nil {
		return err
	}

	if run.dryRun {
		switch run.mode {
		case outputNormal:
			printBatchTable(out, batch)
		case outputIDs:
			printPlannedIDs(out, batch)
		}
		printBatchSummary(reporter, batch)
		return nil
	}

	convertible := batch.Convertible()
	if len(convertible) == 0 {
		printBatchSummary(reporter, batch)
		return nil
	}

	if !run.assumeYes {
		if run.mode == outputNormal {
			printBatchTable(out, batch)
		}
		ok, err := promptYesNo(input, reporter,
			fmt.Sprintf("Convert %d tracks to %s?", len(convertible), target))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(reporter, "Aborted; nothing changed")
			return nil
		}
	}

	execErr := orchestrator.Execute(cmd.Context(), batch, opts)
	if execErr != nil && !errors.Is(execErr, convert.ErrQuit) {
		return execErr
	}

	staged := store.Pending()
	if staged == 0 {
		orchestrator.Discard(batch)
		printBatchSummary(reporter, batch)
		return nil
	}

	if errors.Is(execErr, convert.ErrQuit) && !run.assumeYes {
		ok, err := promptYesNo(input, reporter,
			fmt.Sprintf("Stopped early with %d tracks already converted; commit them?", staged))
		if err != nil {
			return err
		}
		if !ok {
			orchestrator.Discard(batch)
			fmt.Fprintln(reporter, "Discarded converted files; database unchanged")
			return nil
		}
	}

	deletions := len(batch.StagedDeletions())
	if err := orchestrator.Commit(cmd.Context(), batch); err != nil {
		return err
	}
	fmt.Fprintf(reporter, "Committed %d database updates", staged)
	if deletions > 0 {
		fmt.Fprintf(reporter, "; deleted %d originals", deletions)
	}
	fmt.Fprintln(reporter)

	if run.mode == outputIDs {
		printConvertedIDs(out, batch)
	}
	printBatchSummary(reporter, batch)
	return nil
}

func printPlannedIDs(out io.Writer, batch *convert.Batch) {
	var ids []string
	for _, entry := range batch.Convertible() {
		ids = append(ids, strconv.FormatInt(entry.Track.ID, 10))
	}
	fmt.Fprintln(out, strings.Join(ids, " "))
}

func printConvertedIDs(out io.Writer, batch *convert.Batch) {
	var ids []string
	for _, e := range batch.Entries {
		if e.Converted {
			ids = append(ids, strconv.FormatInt(e.Track.ID, 10))
		}
	}
	fmt.Fprintln(out, strings.Join(ids, " "))
}

// promptYesNo asks a single y/N question; anything but y or yes declines.
func promptYesNo(in *bufio.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := readAnswer(in)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// promptPerFile builds the interactive confirmer. Answering q stops the
// batch between tracks.
func promptPerFile(in *bufio.Reader, out io.Writer, target format.Format) convert.Confirmer {
	return func(track library.Track, targetPath string) (bool, error) {
		fmt.Fprintf(out, "Convert %q (%s) to %s? [y/N/q] ", track.Title, formatName(track), target)
		answer, err := readAnswer(in)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "q", "quit":
			return false, convert.ErrQuit
		default:
			return false, nil
		}
	}
}

func readAnswer(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
