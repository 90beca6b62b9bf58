package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"recrate/internal/convert"
	"recrate/internal/library"
	"recrate/internal/services"
)

type outputMode string

const (
	outputNormal outputMode = "normal"
	outputIDs    outputMode = "ids"
	outputSilent outputMode = "silent"
)

func parseOutputMode(value string) (outputMode, error) {
	switch outputMode(strings.ToLower(strings.TrimSpace(value))) {
	case outputNormal, "":
		return outputNormal, nil
	case outputIDs:
		return outputIDs, nil
	case outputSilent:
		return outputSilent, nil
	default:
		return "", services.Wrap(services.ErrConfiguration, "output", "parse",
			fmt.Sprintf("unknown output mode %q (expected normal, ids, or silent)", value), nil)
	}
}

func printTrackTable(out io.Writer, tracks []library.Track) {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Artist,
			t.Album,
			formatName(t),
			formatBitRate(t.BitRate),
			formatSize(t.FileSize),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Title", "Artist", "Album", "Format", "Bitrate", "Size"},
		rows, 1, 6, 7,
	))
}

func printTrackIDs(out io.Writer, tracks []library.Track) {
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, strconv.FormatInt(t.ID, 10))
	}
	fmt.Fprintln(out, strings.Join(ids, " "))
}

func printBatchTable(out io.Writer, batch *convert.Batch) {
	rows := make([][]string, 0, len(batch.Entries))
	for _, e := range batch.Entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.Track.ID, 10),
			e.Track.Title,
			formatName(e.Track),
			string(batch.Target),
			string(e.Action),
			e.Detail,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Title", "From", "To", "Action", "Detail"},
		rows, 1,
	))
}

func printBatchSummary(out io.Writer, batch *convert.Batch) {
	c := batch.Counts()
	parts := []string{fmt.Sprintf("%d to convert", c.Convert)}
	converted := 0
	for _, e := range batch.Entries {
		if e.Converted {
			converted++
		}
	}
	if converted > 0 {
		parts[0] = fmt.Sprintf("%d converted", converted)
	}
	parts = append(parts,
		fmt.Sprintf("%d exist", c.SkipExists),
		fmt.Sprintf("%d unsupported", c.SkipUnsupported),
		fmt.Sprintf("%d failed", c.Errors),
	)
	if c.Declined > 0 {
		parts = append(parts, fmt.Sprintf("%d declined", c.Declined))
	}
	fmt.Fprintf(out, "Summary: %s\n", strings.Join(parts, ", "))
}

func formatName(t library.Track) string {
	if f, ok := t.Format(); ok {
		return string(f)
	}
	return fmt.Sprintf("unknown(%d)", t.FileType)
}

func formatBitRate(kbps int) string {
	if kbps <= 0 {
		return ""
	}
	return fmt.Sprintf("%d kbps", kbps)
}

func formatSize(bytes int64) string {
	switch {
	case bytes <= 0:
		return ""
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KiB", float64(bytes)/1024)
	case bytes < 1024*1024*1024:
		return fmt.Sprintf("%.1f MiB", float64(bytes)/(1024*1024))
	default:
		return fmt.Sprintf("%.2f GiB", float64(bytes)/(1024*1024*1024))
	}
}
