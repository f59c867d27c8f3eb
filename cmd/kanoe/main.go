package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/KanoeWallet/Kanoe/internal/di"
	"github.com/KanoeWallet/Kanoe/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "c", "config/config.yaml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "d", false, "mirror logs to the console")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "kanoe: %s\n", err)
		os.Exit(1)
	}
}
