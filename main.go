package main

import (
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/Digital-Shane/symmirror/internal/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]

	configs := map[string]cmd.CommandConfig{
		"ui":     cmd.UICommand,
		"sync":   cmd.SyncCommand,
		"status": cmd.StatusCommand,
	}
	helpKeywords := []string{"help", "--help", "-h"}

	// Handle help command
	if slices.Contains(helpKeywords, command) {
		printUsage()
		return
	}

	cfg, ok := configs[command]
	if !ok {
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	// Parse flags for the command
	flags := flag.NewFlagSet(command, flag.ExitOnError)
	flags.StringVar(&cfg.StorePath, "store", cmd.DefaultStorePath(), "Mapping store file")
	flags.StringVar(&cfg.InRoot, "in", "", "Input root whose subdirectories are mirrored")
	flags.StringVar(&cfg.OutRoot, "out", "", "Output root receiving the symlink trees")
	flags.StringVar(&cfg.LogFile, "log-file", "", "Write logs to this file")
	flags.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
	flags.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	flags.BoolVar(&cfg.InstantMode, "i", false, "Run without the interactive UI")
	flags.BoolVar(&cfg.InstantMode, "instant", false, "Run without the interactive UI")

	// Parse remaining arguments after the command
	if err := flags.Parse(os.Args[2:]); err != nil {
		fmt.Printf("Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if err := cmd.RunCommand(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("symmirror - Mirror media directories as renamed symlink trees\n\n")
	fmt.Printf("Usage:\n")
	fmt.Printf("  symmirror ui      Browse input directories and edit their mappings\n")
	fmt.Printf("  symmirror sync    Rebuild every stored mapping under the output root\n")
	fmt.Printf("  symmirror status  List stored mappings and their outputs\n")
	fmt.Printf("  symmirror help    Show this help message\n\n")
	fmt.Printf("Options:\n")
	fmt.Printf("  -store FILE          Mapping store (default $%s or ./symmirror.yaml)\n", cmd.StoreEnv)
	fmt.Printf("  -in DIR              Input root (ui)\n")
	fmt.Printf("  -out DIR             Output root (ui, sync)\n")
	fmt.Printf("  -log-file FILE       Write logs to FILE\n")
	fmt.Printf("  -metrics-file FILE   Write Prometheus textfile metrics on exit\n")
	fmt.Printf("  -v                   Verbose logging\n")
	fmt.Printf("  -i, --instant        Sync without the progress UI\n")
}
