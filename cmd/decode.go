package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/verdie-g/nettrace"
	"github.com/verdie-g/nettrace/utils"
)

var summaryFlag bool

var decodeCmd = &cobra.Command{
	Use: "decode [nettrace-file]",
	Short: `Decode a NetTrace/EventPipe trace file (.nettrace files only)
The tool decodes the trace and prints a summary including:
- Event count and wall-clock time range
- Distinct resolved method count
- Optional per-(provider, event name) histogram with --summary`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".nettrace"}, false),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		if _, err := os.Stat(filename); os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", filename)
		}

		// Check file extension (warning only)
		if ext := filepath.Ext(filename); ext != ".nettrace" {
			fmt.Printf("Warning: File extension '%s' is not '.nettrace', but proceeding anyway...\n", ext)
		}

		return runDecode(filename)
	},
}

func init() {
	decodeCmd.Flags().BoolVar(&summaryFlag, "summary", false, "print a (provider, event name) histogram")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	var bytesRead int64
	trace, err := nettrace.Decode(context.Background(), f, nettrace.WithProgressSink(func(n int64, eventsRead int) {
		bytesRead = n
		fmt.Printf("\r  %s / %s read, %d events", utils.MemorySize(bytesRead), utils.MemorySize(info.Size()), eventsRead)
	}))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("decoding %s: %w", filename, err)
	}

	start, end := trace.TimeRange()
	fmt.Printf("Events:   %d\n", len(trace.Events))
	fmt.Printf("Duration: %s (%s to %s)\n", utils.FormatDuration(trace.Duration()), start.Format("15:04:05.000"), end.Format("15:04:05.000"))
	fmt.Printf("Methods:  %d resolved\n", countResolvedMethods(trace))
	fmt.Printf("Stacks:   %d distinct\n", len(trace.Stacks))

	if summaryFlag {
		printEventHistogram(trace)
	}

	return nil
}

func countResolvedMethods(t *nettrace.Trace) int {
	seen := make(map[string]bool)
	for _, s := range t.Stacks {
		for _, frame := range s.Frames {
			if frame.IsUnresolved() {
				continue
			}
			seen[frame.Namespace+"."+frame.Name] = true
		}
	}
	return len(seen)
}

type histogramEntry struct {
	provider string
	event    string
	count    int
}

func printEventHistogram(t *nettrace.Trace) {
	counts := make(map[[2]string]int)
	for _, ev := range t.Events {
		if ev.Metadata == nil {
			continue
		}
		counts[[2]string{ev.Metadata.ProviderName, ev.Metadata.EventName}]++
	}

	entries := make([]histogramEntry, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, histogramEntry{provider: k[0], event: k[1], count: c})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].count > entries[j].count })

	fmt.Println()
	fmt.Println("Provider / Event                                          Count")
	for _, e := range entries {
		fmt.Printf("%-50s %8d\n", e.provider+"/"+e.event, e.count)
	}
}
