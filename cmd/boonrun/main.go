// Command boonrun runs one of the hand-built example programs in
// examples/ to quiescence and prints every top-level variable's final
// value, the same kind of throwaway runnable demo
// _examples/bittoy-rule/example/*.go provides for its rule chains.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"

	"github.com/BoonLang/boon-sub002/ast"
	"github.com/BoonLang/boon-sub002/compiler"
	"github.com/BoonLang/boon-sub002/examples"
	"github.com/BoonLang/boon-sub002/graph"
)

var scenarios = map[string]func() *ast.Program{
	"counter":       examples.BuildCounter,
	"fibonacci":     examples.BuildFibonacci,
	"filter_count":  examples.BuildFilterCount,
	"append_clear":  examples.BuildAppendClear,
	"route_change":  examples.BuildRouteChange,
	"text_template": examples.BuildTextTemplate,
}

func main() {
	name := flag.String("scenario", "counter", "scenario to run (see -list)")
	list := flag.Bool("list", false, "list available scenarios and exit")
	flag.Parse()

	if *list {
		printScenarios()
		return
	}

	build, ok := scenarios[*name]
	if !ok {
		color.Red("unknown scenario %q", *name)
		printScenarios()
		os.Exit(1)
	}

	arena := graph.NewArena()
	prog, err := compiler.CompileProgram(arena, build())
	if err != nil {
		color.Red("compile error: %v", err)
		os.Exit(1)
	}

	loop, err := examples.Build(prog)
	if err != nil {
		color.Red("run error: %v", err)
		os.Exit(1)
	}

	names := make([]string, 0, len(prog.Vars))
	for n := range prog.Vars {
		names = append(names, n)
	}
	sort.Strings(names)

	bold := color.New(color.Bold)
	for _, n := range names {
		v, ok := loop.CurrentValue(prog.Vars[n])
		if !ok {
			continue
		}
		bold.Printf("%s", n)
		fmt.Printf(" = %s\n", v.Display(nil, nil))
	}
}

func printScenarios() {
	names := make([]string, 0, len(scenarios))
	for n := range scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	color.Cyan("available scenarios:")
	for _, n := range names {
		fmt.Printf("  %s\n", n)
	}
}
