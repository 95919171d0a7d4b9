// cmodtool is a CLI utility for inspecting and converting cmod models.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/Faultbox/cmodfix/pkg/cmod"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "meshes", "ls":
		cmdMeshes(args)
	case "convert":
		cmdConvert(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cmodtool - cmod model utility

Usage:
  cmodtool <command> [options]

Commands:
  info <file.cmod>                   Show model summary
  meshes <file.cmod>                 List meshes with layout and groups
  convert [-b] <in.cmod> <out.cmod>  Rewrite a model as ASCII or binary (-b)

Examples:
  cmodtool info ship.cmod
  cmodtool meshes ship.cmod
  cmodtool convert -b ship.cmod ship_bin.cmod`)
}

func loadOrExit(path string) *cmod.Model {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	model, err := cmod.LoadModel(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
		os.Exit(1)
	}
	return model
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cmodtool info <file.cmod>")
		os.Exit(1)
	}

	model := loadOrExit(args[0])
	stats, indices := primitiveStats(model)

	fmt.Printf("Model:     %s\n", args[0])
	fmt.Printf("Materials: %d\n", len(model.Materials))
	fmt.Printf("Meshes:    %d\n", len(model.Meshes))
	fmt.Printf("Vertices:  %d\n", model.VertexCount())
	fmt.Printf("Indices:   %d\n", indices)
	fmt.Println()
	fmt.Println("Groups by type:")

	for _, s := range stats {
		fmt.Printf("  %-10s %d\n", s.prim, s.count)
	}
}

type primStat struct {
	prim  cmod.PrimitiveGroupType
	count int
}

// primitiveStats counts groups per primitive type, most frequent first,
// and the total number of indices.
func primitiveStats(model *cmod.Model) ([]primStat, int) {
	primCount := make(map[cmod.PrimitiveGroupType]int)
	indices := 0
	for _, m := range model.Meshes {
		for _, g := range m.Groups() {
			primCount[g.Prim]++
			indices += len(g.Indices)
		}
	}

	var stats []primStat
	for prim, count := range primCount {
		stats = append(stats, primStat{prim, count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].prim < stats[j].prim
	})
	return stats, indices
}

func cmdMeshes(args []string) {
	fs := flag.NewFlagSet("meshes", flag.ExitOnError)
	groups := fs.Bool("g", false, "List every primitive group")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cmodtool meshes [-g] <file.cmod>")
		os.Exit(1)
	}

	model := loadOrExit(fs.Arg(0))
	for i, m := range model.Meshes {
		desc := m.VertexDescription()
		fmt.Printf("mesh %d: %d vertices, stride %d, %d groups\n", i, m.VertexCount(), desc.Stride, len(m.Groups()))
		for _, a := range desc.Attributes {
			fmt.Printf("  %-10s %-4s @%d\n", a.Semantic, a.Format, a.Offset)
		}
		if *groups {
			for g, group := range m.Groups() {
				fmt.Printf("  group %d: %s material %d, %d indices\n", g, group.Prim, group.MaterialIndex, len(group.Indices))
			}
		}
	}
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	binary := fs.Bool("b", false, "Write the binary container")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: cmodtool convert [-b] <in.cmod> <out.cmod>")
		os.Exit(1)
	}

	model := loadOrExit(fs.Arg(0))

	format := cmod.FormatASCII
	if *binary {
		format = cmod.FormatBinary
	}

	out, err := os.Create(fs.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmod.SaveModel(out, model, format); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", fs.Arg(1), err)
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing %s: %v\n", fs.Arg(1), err)
		os.Exit(1)
	}

	fmt.Printf("Converted: %s -> %s (%s)\n", fs.Arg(0), fs.Arg(1), format)
}
