// scenedump prints the scene graph of a 3D asset without opening a window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/wireview/internal/importer"
	"github.com/Faultbox/wireview/internal/logger"
	"github.com/Faultbox/wireview/pkg/scene"
)

func main() {
	detail := flag.Bool("detail", false, "List every vertex, face, normal and texture coordinate")
	verbose := flag.Bool("v", false, "Log import progress to stdout")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(1)
	}

	if *verbose {
		if err := logger.Init("debug", ""); err != nil {
			fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	mode := scene.PrintSummary
	if *detail {
		mode = scene.PrintDetail
	}

	os.Exit(dump(flag.Arg(0), mode))
}

func dump(path string, mode scene.PrintMode) int {
	s, err := importer.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, importer.ErrFileUnreadable) {
			return 2
		}
		return 1
	}

	if err := scene.Fprint(os.Stdout, s, mode); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `scenedump - print the scene graph of a glTF asset

Usage:
  scenedump [-detail] [-v] <file.gltf|file.glb>

Examples:
  scenedump models/dog3.glb
  scenedump -detail models/cube.gltf`)
}
