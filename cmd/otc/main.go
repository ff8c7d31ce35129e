package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/PeteDiMarco/misc-tools/internal/cipher"
	"github.com/PeteDiMarco/misc-tools/internal/fileutil"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: otc [options]\n\n")
		fmt.Fprintf(os.Stderr, "Performs a one-time cipher on a file.\n\n")
		fmt.Fprintf(os.Stderr, "A binary file is encrypted into a text file of integers, one per line,\n")
		fmt.Fprintf(os.Stderr, "using a very large binary file as a map. Each integer is the index of one\n")
		fmt.Fprintf(os.Stderr, "byte in the map. Decryption reads the integers back and looks each one up\n")
		fmt.Fprintf(os.Stderr, "in the same map. The map is read locally or fetched from a URL, given on\n")
		fmt.Fprintf(os.Stderr, "the command line or (preferably) entered interactively like a password.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
	}

	inputFlag := pflag.StringP("input", "i", "", "Name of the file to read. Assumes STDIN if not supplied.")
	outputFlag := pflag.StringP("output", "o", "", "Name of the file to write. Assumes STDOUT if not supplied.")
	mapFlag := pflag.StringP("map", "m", "", "Name of map file or URL. Prompts interactively if not supplied.")
	encryptFlag := pflag.BoolP("encrypt", "e", false, "Encrypt file or input stream.")
	decryptFlag := pflag.BoolP("decrypt", "d", false, "Decrypt file or input stream.")
	testmapFlag := pflag.BoolP("testmap", "t", false, "Tests suitability of map file (coverage, size).")
	forceFlag := pflag.BoolP("force", "f", false, "Force overwrite of the output file.")
	strictFlag := pflag.BoolP("strict", "s", false, "Encrypt mode only: Require all indexes are unique.")
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

	modes := 0
	for _, on := range []bool{*encryptFlag, *decryptFlag, *testmapFlag} {
		if on {
			modes++
		}
	}
	if modes != 1 {
		fmt.Println("One, and only one, of the following must be specified:")
		fmt.Println("\t--encrypt, --decrypt, or --testmap")
		pflag.Usage()
		os.Exit(1)
	}

	mapArg := *mapFlag
	if mapArg == "" {
		fmt.Print("Enter a URL or path to a file to serve as a map: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "Error: no map given.")
			os.Exit(1)
		}
		mapArg = strings.TrimSpace(line)
	}

	m, err := cipher.LoadMap(mapArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	if *testmapFlag {
		a, err := cipher.Assess(m)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("The smallest number of instances of a byte is %d.\n", a.Min)
		return
	}

	in, err := fileutil.OpenInput(*inputFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer fileutil.CloseQuietly(in)

	out, err := fileutil.OpenOutput(*outputFlag, *forceFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer fileutil.CloseQuietly(out)

	if *decryptFlag {
		err = cipher.Decrypt(in, out, m, logger)
	} else {
		err = cipher.Encrypt(in, out, m, *strictFlag, logger)
	}
	if err != nil {
		if errors.Is(err, cipher.ErrMapTooSimple) {
			fmt.Printf("ERROR: Map file %q is too small to use with --strict.\n", mapArg)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
