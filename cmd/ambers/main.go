// Command ambers dumps SPSS system-file metadata to stdout: file-level
// properties, a preview of declared variables, missing-value specs,
// value-label previews, document notes, and multiple-response sets.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/albertxli/ambers"
	"github.com/albertxli/ambers/dict"
)

// variablePreviewCount bounds how many variables the dump command
// prints in full; files commonly declare hundreds of variables and a
// terminal dump isn't the place to show all of them.
const variablePreviewCount = 10

// valueLabelPreviewCount bounds how many entries of one variable's
// value-label map are printed.
const valueLabelPreviewCount = 5

var verbose bool

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ambers",
		Short: "Inspect SPSS (.sav/.zsav) system files",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable diagnostic logging to stderr")
	root.AddCommand(newDumpCmd())

	return root
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dump <path>",
		Short:         "Print metadata for a SAV/ZSAV file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}

	return cmd
}

func newLogger() zerolog.Logger {
	level := zerolog.Disabled
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

func runDump(path string) error {
	log := newLogger()
	start := time.Now()

	log.Debug().Str("path", path).Msg("opening file")
	meta, err := ambers.ReadMetadata(context.Background(), path)
	if err != nil {
		return err
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("metadata resolved")

	printFileSummary(meta)
	printVariablePreview(meta)
	printMissingSpecs(meta)
	printValueLabelPreviews(meta)
	printNotes(meta)
	printMrSets(meta)

	log.Debug().Dur("total", time.Since(start)).Msg("dump complete")

	return nil
}

func printFileSummary(meta *dict.Metadata) {
	fmt.Printf("file label:       %s\n", meta.FileLabel)
	fmt.Printf("encoding:         %s\n", meta.FileEncoding)
	fmt.Printf("compression:      %s\n", meta.Compression)
	fmt.Printf("format:           %s\n", meta.FileFormat)
	fmt.Printf("created:          %s\n", meta.CreationTime)
	fmt.Printf("columns:          %d\n", meta.NumberColumns)
	if meta.NumberRows != nil {
		fmt.Printf("rows:             %d\n", *meta.NumberRows)
	} else {
		fmt.Printf("rows:             unknown\n")
	}
	if meta.WeightVariable != nil {
		fmt.Printf("weight variable:  %s\n", *meta.WeightVariable)
	}
	fmt.Println()
}

func printVariablePreview(meta *dict.Metadata) {
	fmt.Printf("variables (showing up to %d of %d):\n", variablePreviewCount, len(meta.VariableNames))
	n := len(meta.VariableNames)
	if n > variablePreviewCount {
		n = variablePreviewCount
	}
	for _, name := range meta.VariableNames[:n] {
		label := meta.VariableLabels[name]
		sType := meta.SpssVariableTypes[name]
		goType := meta.GoVariableTypes[name]
		measure := meta.VariableMeasure[name]
		width := meta.VariableDisplayWidth[name]
		fmt.Printf("  %-8s  %-6s -> %-10s measure=%-8s width=%-4d %s\n",
			name, sType, goType, measure, width, label)
	}
	fmt.Println()
}

func printMissingSpecs(meta *dict.Metadata) {
	names := sortedKeys(meta.VariableMissing)
	if len(names) == 0 {
		return
	}
	fmt.Println("missing-value specs:")
	for _, name := range names {
		for _, spec := range meta.VariableMissing[name] {
			fmt.Printf("  %-8s  %s\n", name, describeMissingSpec(spec))
		}
	}
	fmt.Println()
}

func describeMissingSpec(spec dict.MissingSpec) string {
	switch spec.Kind {
	case dict.SpecValue:
		return fmt.Sprintf("value=%g", spec.Value)
	case dict.SpecRange:
		return fmt.Sprintf("range=[%g,%g]", spec.Lo, spec.Hi)
	case dict.SpecStringValue:
		return fmt.Sprintf("value=%q", spec.Str)
	default:
		return "unknown"
	}
}

func printValueLabelPreviews(meta *dict.Metadata) {
	names := sortedKeys(meta.VariableValueLabels)
	if len(names) == 0 {
		return
	}
	fmt.Println("value labels (preview):")
	for _, name := range names {
		labels := meta.VariableValueLabels[name]
		fmt.Printf("  %s (%d total):\n", name, labels.Len())

		entries := labels.Entries()
		if len(entries) > valueLabelPreviewCount {
			entries = entries[:valueLabelPreviewCount]
		}
		for _, e := range entries {
			fmt.Printf("    %s = %s\n", e.Key, e.Value)
		}
	}
	fmt.Println()
}

func printNotes(meta *dict.Metadata) {
	if len(meta.Notes) == 0 {
		return
	}
	fmt.Println("document notes:")
	for _, note := range meta.Notes {
		fmt.Printf("  %s\n", note)
	}
	fmt.Println()
}

func printMrSets(meta *dict.Metadata) {
	entries := meta.MrSets.Entries()
	if len(entries) == 0 {
		return
	}
	fmt.Println("multiple-response sets:")
	for _, e := range entries {
		set := e.Value
		fmt.Printf("  %-12s type=%-12s vars=%v\n", set.Name, describeMrType(set.Type), set.Variables)
	}
	fmt.Println()
}

func describeMrType(t dict.MrType) string {
	if t == dict.MrMultipleCategory {
		return "category"
	}

	return "dichotomy"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
