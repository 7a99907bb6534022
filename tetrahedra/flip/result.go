package flip

import (
	"errors"
	"fmt"
	"strings"
)

// Result is the outcome of a flip attempt
type Result uint8

const (
	ValidFlip Result = iota
	NotFlippable
	NoBestConfiguration
	InvalidCell
	InvalidVertex
	InvalidOrientation
)

var resultNames = map[Result]string{
	ValidFlip:           "VALID_FLIP",
	NotFlippable:        "NOT_FLIPPABLE",
	NoBestConfiguration: "NO_BEST_CONFIGURATION",
	InvalidCell:         "INVALID_CELL",
	InvalidVertex:       "INVALID_VERTEX",
	InvalidOrientation:  "INVALID_ORIENTATION",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Result(%d)", r)
}

// IsFatal is true for the post commit consistency failures, which abort a pass
func (r Result) IsFatal() bool {
	return r == InvalidCell || r == InvalidVertex || r == InvalidOrientation
}

type Criterion uint8

const (
	MinAngleBased Criterion = iota
	AverageAngleBased
	ValenceBased
	ValenceMinDHBased
)

var criterionNames = map[Criterion]string{
	MinAngleBased:     "MinAngle",
	AverageAngleBased: "AverageAngle",
	ValenceBased:      "Valence",
	ValenceMinDHBased: "ValenceMinDH",
}

func (c Criterion) String() string {
	if name, ok := criterionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Criterion(%d)", c)
}

func ParseCriterion(label string) (c Criterion, err error) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(label))
	key = strings.TrimSuffix(key, "based")
	for crit, name := range criterionNames {
		if strings.ToLower(name) == key {
			return crit, nil
		}
	}
	err = fmt.Errorf("unknown flip criterion %q, have MinAngle, AverageAngle, Valence, ValenceMinDH", label)
	return
}

var (
	// ErrConsistency wraps every fatal result: a committed rewrite left the mesh invalid
	ErrConsistency = errors.New("mesh consistency failure after flip")
	// ErrCriterionNotImplemented is returned for the valence based criteria, which have no scoring defined
	ErrCriterionNotImplemented = errors.New("flip criterion not implemented")
)
