// meshinfo is a CLI utility for inspecting mesh topology and spatial queries
// without opening the viewer.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/Faultbox/meshforge/internal/mesh"
	"github.com/Faultbox/meshforge/internal/mesh/primitive"
	"github.com/Faultbox/meshforge/internal/mesh/query"
	"github.com/Faultbox/meshforge/internal/mesh/spatial"
	"github.com/Faultbox/meshforge/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "stats":
		cmdStats(args)
	case "loop":
		cmdLoop(args)
	case "ring":
		cmdRing(args)
	case "pick":
		cmdPick(args)
	case "weights":
		cmdWeights(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshinfo - mesh topology and spatial query inspector

Usage:
  meshinfo <command> [options]

Commands:
  stats   -shape <grid|cube|tube>        Topology and BVH statistics
  loop    -shape <...> <a> <b>           Edge loop from seed edge (a,b)
  ring    -shape <...> <a> <b>           Edge ring from seed edge (a,b)
  pick    -shape <...> <x> <y> <z>       Cast a straight-down ray from (x,y,z)
  weights -shape <...> -radius R <v...>  Soft-selection weights around pins

Examples:
  meshinfo stats -shape tube
  meshinfo loop -shape grid 0 1
  meshinfo pick -shape cube 0.2 5 0.1
  meshinfo weights -shape grid -radius 2 12`)
}

// shapeFlag registers the -shape flag on a FlagSet and resolves it to a mesh.
func shapeFlag(fs *flag.FlagSet) func() *mesh.Mesh {
	name := fs.String("shape", "grid", "Test shape: grid, cube, or tube")
	return func() *mesh.Mesh {
		switch *name {
		case "grid":
			return primitive.Grid(4, 4, 1)
		case "cube":
			return primitive.Cube(1)
		case "tube":
			return primitive.Tube(12, 4, 1, 4)
		default:
			fmt.Fprintf(os.Stderr, "Unknown shape: %s\n", *name)
			os.Exit(1)
			return nil
		}
	}
}

func intArg(fs *flag.FlagSet, i int, what string) int {
	v, err := strconv.Atoi(fs.Arg(i))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad %s %q: %v\n", what, fs.Arg(i), err)
		os.Exit(1)
	}
	return v
}

func floatArg(fs *flag.FlagSet, i int, what string) float32 {
	v, err := strconv.ParseFloat(fs.Arg(i), 32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad %s %q: %v\n", what, fs.Arg(i), err)
		os.Exit(1)
	}
	return float32(v)
}

func cmdStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	shape := shapeFlag(fs)
	fs.Parse(args)

	m := shape()
	e := query.New(m, nil)
	g := e.Topology()
	b := e.BVH()

	quads, tris, polys := 0, 0, 0
	for _, f := range m.Faces {
		switch f.Kind() {
		case mesh.Quad:
			quads++
		case mesh.Triangle:
			tris++
		default:
			polys++
		}
	}

	fmt.Printf("Vertices:     %d\n", m.VertexCount())
	fmt.Printf("Faces:        %d (%d quads, %d tris, %d ngons)\n", len(m.Faces), quads, tris, polys)
	fmt.Printf("Edges:        %d unique, %d half-edges\n", g.UniqueEdgeCount(), len(g.Edges))
	fmt.Printf("Boundary:     %d half-edges\n", g.BoundaryCount())

	leaves, maxFaces := b.LeafStats()
	fmt.Printf("BVH depth:    %d\n", b.Depth())
	fmt.Printf("BVH leaves:   %d (largest holds %d faces)\n", leaves, maxFaces)

	min, max := m.Bounds()
	fmt.Printf("Bounds:       (%.2f %.2f %.2f) .. (%.2f %.2f %.2f)\n",
		min.X, min.Y, min.Z, max.X, max.Y, max.Z)
}

func cmdLoop(args []string) {
	fs := flag.NewFlagSet("loop", flag.ExitOnError)
	shape := shapeFlag(fs)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshinfo loop -shape <grid|cube|tube> <a> <b>")
		os.Exit(1)
	}
	a, b := intArg(fs, 0, "vertex"), intArg(fs, 1, "vertex")

	e := query.New(shape(), nil)
	printEdges("Edge loop", e.EdgeLoop(a, b))
	fmt.Printf("Vertex loop: %v\n", e.VertexLoop(a, b))
}

func cmdRing(args []string) {
	fs := flag.NewFlagSet("ring", flag.ExitOnError)
	shape := shapeFlag(fs)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshinfo ring -shape <grid|cube|tube> <a> <b>")
		os.Exit(1)
	}
	a, b := intArg(fs, 0, "vertex"), intArg(fs, 1, "vertex")

	e := query.New(shape(), nil)
	printEdges("Edge ring", e.EdgeRing(a, b))
}

func printEdges(label string, edges []mesh.Edge) {
	fmt.Printf("%s (%d edges):", label, len(edges))
	for _, e := range edges {
		fmt.Printf(" (%d,%d)", e.A, e.B)
	}
	fmt.Println()
}

func cmdPick(args []string) {
	fs := flag.NewFlagSet("pick", flag.ExitOnError)
	shape := shapeFlag(fs)
	tol := fs.Float64("tol", 0.25, "Vertex pick tolerance (0 = always report nearest)")
	fs.Parse(args)

	if fs.NArg() < 3 {
		fmt.Fprintln(os.Stderr, "Usage: meshinfo pick -shape <grid|cube|tube> <x> <y> <z>")
		os.Exit(1)
	}
	origin := math.Vec3{
		X: floatArg(fs, 0, "coordinate"),
		Y: floatArg(fs, 1, "coordinate"),
		Z: floatArg(fs, 2, "coordinate"),
	}

	e := query.New(shape(), nil)
	hit := e.Pick(spatial.Ray{Origin: origin, Direction: math.Vec3{Y: -1}}, float32(*tol))
	if hit == nil {
		fmt.Println("No hit")
		return
	}

	fmt.Printf("Face:     %d\n", hit.Face)
	fmt.Printf("Distance: %.4f\n", hit.Distance)
	fmt.Printf("Point:    (%.3f %.3f %.3f)\n", hit.Position.X, hit.Position.Y, hit.Position.Z)
	fmt.Printf("Edge:     (%d,%d)\n", hit.Edge.A, hit.Edge.B)
	if hit.Vertex >= 0 {
		fmt.Printf("Vertex:   %d\n", hit.Vertex)
	} else {
		fmt.Println("Vertex:   none within tolerance")
	}
}

func cmdWeights(args []string) {
	fs := flag.NewFlagSet("weights", flag.ExitOnError)
	shape := shapeFlag(fs)
	radius := fs.Float64("radius", 2.0, "Falloff radius")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshinfo weights -shape <grid|cube|tube> -radius R <vertex...>")
		os.Exit(1)
	}

	var pinned []int
	for i := 0; i < fs.NArg(); i++ {
		pinned = append(pinned, intArg(fs, i, "vertex"))
	}

	e := query.New(shape(), nil)
	w := e.SoftSelection(pinned, float32(*radius))

	shown := 0
	for v, weight := range w {
		if weight == 0 {
			continue
		}
		fmt.Printf("  vertex %-4d %.4f\n", v, weight)
		shown++
	}
	fmt.Fprintf(os.Stderr, "(%d of %d vertices inside the falloff)\n", shown, len(w))
}
