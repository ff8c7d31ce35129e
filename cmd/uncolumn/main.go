package main

import (
	"fmt"
	"os"

	"github.com/PeteDiMarco/misc-tools/internal/columns"
	"github.com/PeteDiMarco/misc-tools/internal/fileutil"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: uncolumn [options]\n\n")
		fmt.Fprintf(os.Stderr, "Takes a stream containing columns of text and returns a single column.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample (in Vim):\n")
		fmt.Fprintf(os.Stderr, "     :8,19 ! uncolumn -c 30,60\n")
		fmt.Fprintf(os.Stderr, "will take lines 8 through 19 and pass them to uncolumn. \"-c 30,60\" means\n")
		fmt.Fprintf(os.Stderr, "there are 3 columns in the text: the first starts at position 1, the\n")
		fmt.Fprintf(os.Stderr, "second at position 30, and the third at position 60. uncolumn returns the\n")
		fmt.Fprintf(os.Stderr, "first column followed by the second followed by the third.\n")
	}

	columnsFlag := pflag.StringP("columns", "c", "", "Start position of text columns separated by commas. Counts from 1.")
	inputFlag := pflag.StringP("input", "i", "", "Input file. Defaults to stdin.")
	outputFlag := pflag.StringP("output", "o", "", "Output file. Defaults to stdout.")
	tabsizeFlag := pflag.IntP("tabsize", "t", 8, "Tab character width.")
	forceFlag := pflag.BoolP("force", "f", false, "Force overwrite of output file.")
	debugFlag := pflag.BoolP("debug", "D", false, "Enable debugging mode.")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message.")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if *debugFlag {
		logger.SetLevel(log.DebugLevel)
	}

	starts, err := columns.ParseStarts(*columnsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		pflag.Usage()
		os.Exit(1)
	}
	logger.Debug("parsed column starts", "starts", starts)

	in, err := fileutil.OpenInput(*inputFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to open input file.")
		pflag.Usage()
		os.Exit(1)
	}
	defer fileutil.CloseQuietly(in)

	// Unlike otc, refuse an existing output file outright instead of asking.
	outPath := *outputFlag
	if outPath != "" && outPath != "-" && !*forceFlag {
		if _, err := os.Stat(fileutil.ExpandTilde(outPath)); err == nil {
			fmt.Fprintln(os.Stderr, "Unable to open output file.")
			pflag.Usage()
			os.Exit(1)
		}
	}
	out, err := fileutil.OpenOutput(outPath, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to open output file.")
		pflag.Usage()
		os.Exit(1)
	}
	defer fileutil.CloseQuietly(out)

	if err := columns.Reflow(in, out, starts, *tabsizeFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
