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
	"log"
	"os"

	"github.com/notargets/tetremesh/InputParameters"
	"github.com/notargets/tetremesh/tetrahedra/flip"
	"github.com/notargets/tetremesh/tetrahedra/readers"
	"github.com/notargets/tetremesh/utils"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Model3D struct {
	GridFile   string
	ICFile     string
	OutputFile string
	Profile    bool
	ProfileDir string
	Verbose    bool
	// Overrides of the input file, zero values keep the file's setting
	Criterion         string
	Passes            int
	ProtectBoundaries bool
}

const exampleFlipFile = `
########################################
Title: "Flip Test Case"
Criterion: MinAngle # Can be "AverageAngle"
ProtectBoundaries: false
MaxPasses: 3
SelectedSubdomains: [] # Empty selects every subdomain
CheckValidity: false
TagInterfaces: true # Tag the facets between subdomains as surface patches
########################################
`

// FlipCmd represents the flip command
var FlipCmd = &cobra.Command{
	Use:   "flip",
	Short: "Flip the edges of a tetrahedral mesh to improve its dihedral angles",
	Long: `
Reads a Gmsh 2.2 tetrahedral mesh, where the physical tag of each tetrahedron is its subdomain,
tagged triangles are surface patches and tagged lines are feature curves. Runs flip passes
over the complex and writes the result as Gmsh 2.2.

tetremesh flip -F mesh.msh -I flip.yaml -o flipped.msh`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		m3d := &Model3D{}
		if m3d.GridFile, err = cmd.Flags().GetString("gridFile"); err != nil {
			panic(err)
		}
		if m3d.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		m3d.OutputFile, _ = cmd.Flags().GetString("output")
		m3d.Criterion, _ = cmd.Flags().GetString("criterion")
		m3d.Passes, _ = cmd.Flags().GetInt("passes")
		m3d.ProtectBoundaries, _ = cmd.Flags().GetBool("protectBoundaries")
		m3d.Profile, _ = cmd.Flags().GetBool("profile")
		m3d.ProfileDir, _ = cmd.Flags().GetString("profileDir")
		m3d.Verbose = viper.GetBool("verbose")
		fp, err := processInput(m3d)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		fp.Print()
		stats, err := RunFlip(m3d, fp)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		stats.Print()
	},
}

func processInput(m3d *Model3D) (fp *InputParameters.FlipParameters, err error) {
	if len(m3d.GridFile) == 0 {
		err = fmt.Errorf("must supply a grid file (-F, --gridFile) in .msh (Gmsh 2.2) format")
		return
	}
	fp = InputParameters.NewFlipParameters()
	if len(m3d.ICFile) == 0 {
		fmt.Printf("No input parameters file (-I, --inputConditionsFile), using defaults. Example File:%s\n",
			exampleFlipFile)
	} else {
		var data []byte
		if data, err = os.ReadFile(m3d.ICFile); err != nil {
			return nil, err
		}
		if err = fp.Parse(data); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", m3d.ICFile, err)
		}
	}
	if m3d.Criterion != "" {
		fp.Criterion = m3d.Criterion
	}
	if m3d.Passes > 0 {
		fp.MaxPasses = m3d.Passes
	}
	fp.ProtectBoundaries = fp.ProtectBoundaries || m3d.ProtectBoundaries
	fp.Verbose = fp.Verbose || m3d.Verbose
	return
}

func init() {
	rootCmd.AddCommand(FlipCmd)
	FlipCmd.Flags().StringP("gridFile", "F", "", "Grid file to read in Gmsh 2.2 (.msh) format")
	FlipCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Criterion\n\t- MaxPasses\n\t- SelectedSubdomains")
	FlipCmd.Flags().StringP("output", "o", "", "Gmsh 2.2 (.msh) file to write the flipped mesh to")
	FlipCmd.Flags().StringP("criterion", "c", "", "overrides the input file criterion: MinAngle or AverageAngle")
	FlipCmd.Flags().IntP("passes", "p", 0, "overrides the input file maximum number of passes")
	FlipCmd.Flags().Bool("protectBoundaries", false, "skip the flips of surface and hull edges")
	FlipCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
	FlipCmd.Flags().String("profileDir", ".", "directory of the CPU profile")
}

// RunFlip reads the grid file, flips the complex and writes the output file when one is given
func RunFlip(m3d *Model3D, fp *InputParameters.FlipParameters) (stats *flip.Stats, err error) {
	if m3d.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(m3d.ProfileDir), profile.Quiet).Stop()
	}
	md, err := readers.ReadMeshFile(m3d.GridFile)
	if err != nil {
		return
	}
	cx, err := md.Build()
	if err != nil {
		return nil, fmt.Errorf("building complex from %s: %w", m3d.GridFile, err)
	}
	if fp.Verbose {
		log.Printf("Read %s: %d vertices, %d cells, %d surface facets, %d feature edges",
			m3d.GridFile, cx.NumberOfVertices(), cx.NumberOfCells(),
			cx.NumberOfFacetsInComplex(), cx.NumberOfEdgesInComplex())
		log.Printf("Subdomain volumes %v", cx.SubdomainVolumes())
		log.Printf("Memory after reading: %v", utils.ReadMemUsage())
	}
	if stats, err = flip.Run(cx, fp); err != nil {
		return
	}
	if fp.Verbose {
		log.Printf("Subdomain volumes %v", cx.SubdomainVolumes())
		log.Printf("Memory after flipping: %v", utils.ReadMemUsage())
	}
	if len(m3d.OutputFile) != 0 {
		if err = readers.WriteGmsh22File(m3d.OutputFile, cx); err != nil {
			return
		}
		if fp.Verbose {
			log.Printf("Wrote %s", m3d.OutputFile)
		}
	}
	return
}
