/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/notargets/tetremesh/tetrahedra/c3t3"
	"github.com/notargets/tetremesh/tetrahedra/readers"
	"github.com/spf13/cobra"
)

// LatticeCmd represents the lattice command
var LatticeCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Write a jittered two material cube lattice mesh",
	Long: `
Writes a Gmsh 2.2 mesh of the cube [0,n]^3 split into n^3 unit cubes of six tetrahedra each.
Interior vertices are jittered, the cubes with x < n/2 are subdomain 1 and the rest subdomain 2.

tetremesh lattice -n 8 -o cube.msh`,
	Run: func(cmd *cobra.Command, args []string) {
		ml := &ModelLattice{}
		ml.N, _ = cmd.Flags().GetInt("n")
		ml.Jitter, _ = cmd.Flags().GetFloat64("jitter")
		ml.Seed, _ = cmd.Flags().GetInt64("seed")
		ml.TagInterfaces, _ = cmd.Flags().GetBool("tagInterfaces")
		ml.OutputFile, _ = cmd.Flags().GetString("output")
		if err := RunLattice(ml); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

type ModelLattice struct {
	N             int // Cubes per side
	Jitter        float64
	Seed          int64
	TagInterfaces bool
	OutputFile    string
}

func init() {
	rootCmd.AddCommand(LatticeCmd)
	LatticeCmd.Flags().IntP("n", "n", 4, "number of cubes per side")
	LatticeCmd.Flags().Float64("jitter", 0.05, "maximum displacement of interior vertices, in units of the cube side")
	LatticeCmd.Flags().Int64("seed", 1, "random seed of the jitter")
	LatticeCmd.Flags().Bool("tagInterfaces", true, "write the facets between subdomains as surface triangles")
	LatticeCmd.Flags().StringP("output", "o", "", "Gmsh 2.2 (.msh) file to write")
}

func RunLattice(ml *ModelLattice) (err error) {
	if len(ml.OutputFile) == 0 {
		return fmt.Errorf("must supply an output file (-o, --output)")
	}
	if ml.N < 1 {
		return fmt.Errorf("lattice size must be positive, got %d", ml.N)
	}
	f := c3t3.KuhnLattice(ml.N, ml.Jitter, ml.Seed)
	cx, err := f.Build()
	if err != nil {
		return
	}
	if ml.TagInterfaces {
		cx.TagSubdomainInterfaces()
	}
	fmt.Printf("Lattice %d^3: %d vertices, %d cells, %d surface facets\n",
		ml.N, cx.NumberOfVertices(), cx.NumberOfCells(), cx.NumberOfFacetsInComplex())
	return readers.WriteGmsh22File(ml.OutputFile, cx)
}
