package readers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/tetremesh/tetrahedra/c3t3"
	"gonum.org/v1/gonum/spatial/r3"
)

// MeshData is the content of a mesh file: points, tetrahedra with their subdomain, and the tagged
// triangles and lines that become surface patches and feature curves of the complex
type MeshData struct {
	FormatVersion string
	IsBinary      bool
	DataSize      int
	PhysicalNames map[int]string // Physical tag -> name

	Points     []r3.Vec
	Tets       [][4]int
	Subdomains []int
	Triangles  [][4]int // a, b, c, patch
	Lines      [][3]int // a, b, curve

	nodeIndex map[int]int // Gmsh node ID -> point index
}

func NewMeshData() *MeshData {
	return &MeshData{
		PhysicalNames: make(map[int]string),
		nodeIndex:     make(map[int]int),
	}
}

// Build creates the complex and applies the triangle and line tags
func (md *MeshData) Build(opts ...c3t3.BuildOption) (cx *c3t3.Complex, err error) {
	if cx, err = c3t3.NewComplex(md.Points, md.Tets, md.Subdomains, opts...); err != nil {
		return
	}
	for _, tri := range md.Triangles {
		if err = cx.AddSurfaceTriangle(tri[0], tri[1], tri[2], tri[3]); err != nil {
			return
		}
	}
	for _, l := range md.Lines {
		if err = cx.AddFeatureEdge(l[0], l[1], l[2]); err != nil {
			return
		}
	}
	return
}

// ReadGmsh22 reads a Gmsh MSH file format version 2.2
func ReadGmsh22(filename string) (*MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseGmsh22(file)
}

// ParseGmsh22 reads the ASCII Gmsh 2.2 format. Tetrahedra take their physical tag as subdomain, 1 when untagged.
// Triangles and lines with a nonzero physical tag become surface patches and feature curves.
func ParseGmsh22(r io.Reader) (*MeshData, error) {
	scanner := bufio.NewScanner(r)
	md := NewMeshData()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "$MeshFormat":
			if err := readMeshFormat22(scanner, md); err != nil {
				return nil, err
			}
			if md.IsBinary {
				return nil, fmt.Errorf("binary Gmsh files are not supported")
			}

		case "$PhysicalNames":
			if err := readPhysicalNames(scanner, md); err != nil {
				return nil, err
			}

		case "$Nodes":
			if err := readNodes22(scanner, md); err != nil {
				return nil, err
			}

		case "$Elements":
			if err := readElements22(scanner, md); err != nil {
				return nil, err
			}

		case "$Periodic", "$NodeData", "$ElementData", "$ElementNodeData":
			// Skip sections without meaning for the complex
			endMarker := "$End" + line[1:]
			for scanner.Scan() {
				if strings.TrimSpace(scanner.Text()) == endMarker {
					break
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %v", err)
	}
	return md, nil
}

// readMeshFormat22 reads the MeshFormat section
func readMeshFormat22(scanner *bufio.Scanner, md *MeshData) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in MeshFormat")
	}

	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line")
	}

	md.FormatVersion = parts[0]
	fileType, _ := strconv.Atoi(parts[1])
	md.IsBinary = fileType == 1
	md.DataSize, _ = strconv.Atoi(parts[2])

	skipTo(scanner, "$EndMeshFormat")
	return nil
}

func readPhysicalNames(scanner *bufio.Scanner, md *MeshData) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in PhysicalNames")
	}

	numNames, _ := strconv.Atoi(strings.TrimSpace(scanner.Text()))

	for i := 0; i < numNames; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading physical names")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) >= 3 {
			tag, _ := strconv.Atoi(parts[1])
			name := strings.Trim(parts[2], "\"")

			// Join remaining parts if name contains spaces
			for j := 3; j < len(parts); j++ {
				name += " " + strings.Trim(parts[j], "\"")
			}
			md.PhysicalNames[tag] = name
		}
	}

	skipTo(scanner, "$EndPhysicalNames")
	return nil
}

func readNodes22(scanner *bufio.Scanner, md *MeshData) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Nodes")
	}

	numNodes, _ := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	md.Points = make([]r3.Vec, 0, numNodes)

	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading nodes")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			return fmt.Errorf("invalid node line: %s", scanner.Text())
		}

		nodeID, err := strconv.Atoi(parts[0])
		if err != nil {
			return fmt.Errorf("invalid node ID %q: %v", parts[0], err)
		}
		var xyz [3]float64
		for j := range xyz {
			if xyz[j], err = strconv.ParseFloat(parts[1+j], 64); err != nil {
				return fmt.Errorf("node %d: %v", nodeID, err)
			}
		}
		if _, dup := md.nodeIndex[nodeID]; dup {
			return fmt.Errorf("duplicate node ID %d", nodeID)
		}
		md.nodeIndex[nodeID] = len(md.Points)
		md.Points = append(md.Points, r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	}

	skipTo(scanner, "$EndNodes")
	return nil
}

// gmshSimplex22 describes the element types read, higher order elements contribute their corner nodes
type gmshSimplex22 struct {
	dimension, corners, nodes int
}

var gmshElementType22 = map[int]gmshSimplex22{
	1:  {1, 2, 2},  // 2-node line
	2:  {2, 3, 3},  // 3-node triangle
	4:  {3, 4, 4},  // 4-node tetrahedron
	8:  {1, 2, 3},  // 3-node line
	9:  {2, 3, 6},  // 6-node triangle
	11: {3, 4, 10}, // 10-node tetrahedron
	15: {0, 1, 1},  // 1-node point
	20: {2, 3, 9},  // 9-node triangle
	21: {2, 3, 10}, // 10-node triangle
	26: {1, 2, 4},  // 4-node line
	29: {3, 4, 20}, // 20-node tetrahedron
}

// gmshVolumeTypes22 are the 3D elements that are not tetrahedra
var gmshVolumeTypes22 = map[int]string{
	5: "hexahedron", 6: "prism", 7: "pyramid", 12: "hexahedron", 13: "prism", 14: "pyramid",
	17: "hexahedron", 18: "prism", 19: "pyramid",
}

func readElements22(scanner *bufio.Scanner, md *MeshData) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Elements")
	}

	numElements, _ := strconv.Atoi(strings.TrimSpace(scanner.Text()))

	for i := 0; i < numElements; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading elements")
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 {
			return fmt.Errorf("invalid element line")
		}

		elemID, _ := strconv.Atoi(parts[0])
		elemType, _ := strconv.Atoi(parts[1])
		numTags, _ := strconv.Atoi(parts[2])

		if len(parts) < 3+numTags {
			return fmt.Errorf("invalid element tags")
		}

		// The first tag is the physical group
		var physicalTag int
		hasTag := numTags > 0
		if hasTag {
			physicalTag, _ = strconv.Atoi(parts[3])
		}

		if name, ok := gmshVolumeTypes22[elemType]; ok {
			return fmt.Errorf("element %d: %s elements are not supported, the mesh must be tetrahedral", elemID, name)
		}
		etype, ok := gmshElementType22[elemType]
		if !ok || etype.dimension == 0 {
			continue
		}

		nodeStart := 3 + numTags
		if len(parts) < nodeStart+etype.nodes {
			return fmt.Errorf("element %d: expected %d nodes, got %d",
				elemID, etype.nodes, len(parts)-nodeStart)
		}

		var corners [4]int
		for j := 0; j < etype.corners; j++ {
			nodeID, _ := strconv.Atoi(parts[nodeStart+j])
			idx, found := md.nodeIndex[nodeID]
			if !found {
				return fmt.Errorf("element %d references unknown node %d", elemID, nodeID)
			}
			corners[j] = idx
		}

		switch etype.dimension {
		case 3:
			sd := 1
			if hasTag {
				sd = physicalTag
			}
			md.Tets = append(md.Tets, corners)
			md.Subdomains = append(md.Subdomains, sd)
		case 2:
			if physicalTag != 0 {
				md.Triangles = append(md.Triangles, [4]int{corners[0], corners[1], corners[2], physicalTag})
			}
		case 1:
			if physicalTag != 0 {
				md.Lines = append(md.Lines, [3]int{corners[0], corners[1], physicalTag})
			}
		}
	}

	skipTo(scanner, "$EndElements")
	return nil
}

func skipTo(scanner *bufio.Scanner, marker string) {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == marker {
			break
		}
	}
}
