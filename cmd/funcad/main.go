package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/teris-io/cli"

	"github.com/andrewdelmar/funcad/pkg/docset"
	"github.com/andrewdelmar/funcad/pkg/eval"
	"github.com/andrewdelmar/funcad/pkg/fqpath"
	"github.com/andrewdelmar/funcad/pkg/manifest"
)

func entryRootDir(entryFile string) (string, fqpath.FQPath, bool) {
	return fqpath.FromEntryFile(entryFile)
}

var Description = strings.ReplaceAll(`
funcad evaluates a single function of a FuncCAD program and prints its
resulting value: a scalar number, or a diagnostic summary of the solid a
CSG expression produced. Imports are resolved relative to the entry
file's directory.
`, "\n", " ")

var Funcad = cli.New(Description).
	WithArg(cli.NewArg("entry", "The entry (.fc) document to evaluate")).
	WithArg(cli.NewArg("function", "The function in the entry document to evaluate").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("tolerance", "Geometric fuzz factor passed to the solid kernel").
		WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Println("ERROR: an entry .fc file is required, use --help")
		return -1
	}

	root, _, ok := entryRootDir(args[0])
	if !ok {
		fmt.Println("ERROR: entry point is not a file")
		return -1
	}

	man, err := manifest.Load(root)
	if err != nil {
		fmt.Printf("ERROR: unable to load funcad.yaml: %s\n", err)
		return -1
	}

	funcName := man.EffectiveEntry("main")
	if len(args) > 1 && args[1] != "" {
		funcName = args[1]
	}

	tolerance := man.EffectiveTolerance()
	if raw, ok := options["tolerance"]; ok {
		parsed, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			fmt.Printf("ERROR: invalid --tolerance %q: %s\n", raw, perr)
			return -1
		}
		tolerance = parsed
	}

	docs, perr := docset.ParseAllFiles(args[0])
	if perr != nil {
		fmt.Printf("ERROR: unable to load program: %s\n", perr)
		return -1
	}

	_, entryPath, _ := entryRootDir(args[0])
	cache := eval.New(docs, tolerance)

	val, everr := cache.EvalFunctionByName(entryPath, funcName)
	if everr != nil {
		fmt.Printf("ERROR: %s\n", everr)
		return -1
	}

	fmt.Println(val)
	return 0
}

func main() { os.Exit(Funcad.Run(os.Args, os.Stdout)) }
