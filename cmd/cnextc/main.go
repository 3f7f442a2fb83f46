// Command cnextc is the C-Next transpiler's CLI entry point. Argument
// parsing structure is intentionally thin — a direct `flag` wrapper over
// pkg/pipeline, not a feature surface of its own, per SPEC_FULL.md.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jlaustill/cnext/pkg/pipeline"
	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "clean" {
		runClean(os.Args[2:])
		return
	}
	runBuild(os.Args[1:])
}

func runBuild(args []string) {
	fs := flag.NewFlagSet("cnextc", flag.ExitOnError)
	outDir := fs.String("out", "build", "directory for generated .c/.cpp files")
	headerOutDir := fs.String("header-out", "", "directory for generated .h files (defaults to -out)")
	dumpSymbols := fs.Bool("dump-symbols", false, "print the merged project symbol table as YAML and exit")
	fs.Parse(args)

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	p := pipeline.New(pipeline.Options{
		InputDirs:    inputs,
		OutDir:       *outDir,
		HeaderOutDir: *headerOutDir,
	})

	results, err := p.Run()
	if err != nil {
		log.Fatalf("cnextc: %s", err.Error())
	}

	if *dumpSymbols {
		data, err := p.DumpSymbols()
		if err != nil {
			log.Fatalf("cnextc: dumping symbols: %s", err.Error())
		}
		fmt.Println(string(data))
		return
	}

	if err := p.WriteAll(results); err != nil {
		log.Fatalf("cnextc: %s", err.Error())
	}
	log.Infof("cnextc: wrote %d file(s) to %s", len(results), *outDir)
}

func runClean(args []string) {
	fs := flag.NewFlagSet("cnextc clean", flag.ExitOnError)
	outDir := fs.String("out", "build", "output directory to clean")
	fs.Parse(args)

	if err := pipeline.Clean(*outDir); err != nil {
		log.Fatalf("cnextc clean: %s", err.Error())
	}
	log.Infof("cnextc clean: removed generated files under %s", *outDir)
}
