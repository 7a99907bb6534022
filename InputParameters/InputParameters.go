package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type FlipParameters struct {
	Title              string `yaml:"Title"`
	Criterion          string `yaml:"Criterion"`         // MinAngle or AverageAngle
	ProtectBoundaries  bool   `yaml:"ProtectBoundaries"` // Skip the surface flips of the boundary pass
	MaxPasses          int    `yaml:"MaxPasses"`
	SelectedSubdomains []int  `yaml:"SelectedSubdomains"` // Empty selects every subdomain of the complex
	CheckValidity      bool   `yaml:"CheckValidity"`
	TagInterfaces      bool   `yaml:"TagInterfaces"`
	Verbose            bool   `yaml:"Verbose"`
}

func NewFlipParameters() *FlipParameters {
	return &FlipParameters{
		Title:     "Flip",
		Criterion: "MinAngle",
		MaxPasses: 1,
	}
}

func (fp *FlipParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, fp)
}

func (fp *FlipParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", fp.Title)
	fmt.Printf("[%s]\t\t= Criterion\n", fp.Criterion)
	fmt.Printf("[%v]\t\t\t= Protect Boundaries\n", fp.ProtectBoundaries)
	fmt.Printf("[%d]\t\t\t\t= Max Passes\n", fp.MaxPasses)
	fmt.Printf("[%v]\t\t\t= Check Validity\n", fp.CheckValidity)
	fmt.Printf("[%v]\t\t\t= Tag Interfaces\n", fp.TagInterfaces)
	sds := make([]int, len(fp.SelectedSubdomains))
	copy(sds, fp.SelectedSubdomains)
	sort.Ints(sds)
	if len(sds) == 0 {
		fmt.Printf("[all]\t\t\t= Selected Subdomains\n")
	} else {
		fmt.Printf("%v\t\t\t= Selected Subdomains\n", sds)
	}
}
