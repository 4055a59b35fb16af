package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/ensemble"
	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
)

// AcasXu output indices, shared by every property's predicate.
const (
	acasxuCOC = iota
	acasxuWeakLeft
	acasxuWeakRight
	acasxuStrongLeft
	acasxuStrongRight
)

// AcasXuProperty names one input domain and output predicate from the
// ACAS-Xu property catalogue (SPEC_FULL.md §G.3, originally
// examples/acasxu.c). Domain is keyed by input name for readability in
// YAML overrides; indices below map name -> input dimension.
type AcasXuProperty struct {
	Name   string             `yaml:"name"`
	Domain map[string][2]float64 `yaml:"domain"` // input name -> [lo, hi]
}

// acasxuInputs lists the seven ACAS-Xu input dimensions in the order
// the reference model expects them.
var acasxuInputs = []string{"rho", "theta", "psi", "vown", "vint", "tau", "sright"}

// acasxuCatalogue hard-codes properties phi1 and phi3 of the phi1-phi10
// catalogue (examples/acasxu.c); other indices exist only when supplied
// through --config overrides. Property phi3's V_OWN bound is the one flagged in SPEC_FULL.md §G.3:
// the C predicate function asserts V_OWN >= 980 but the domain-building
// driver sets V_OWN >= 1980 before calling absref. The Reluplex paper's
// table gives phi3 as V_OWN >= 980, so 980 is used here; see DESIGN.md's
// Open-question resolutions for the full account.
var acasxuCatalogue = map[int]AcasXuProperty{
	1: {
		Name: "phi1",
		Domain: map[string][2]float64{
			"rho": {55947.691, 60760}, "vown": {1145, 1200}, "vint": {0, 60},
		},
	},
	3: {
		Name: "phi3",
		Domain: map[string][2]float64{
			"rho": {1500, 1800}, "theta": {-0.06, 0.06}, "psi": {3.10, 3.14},
			"vown": {980, 1200}, "vint": {960, 1200},
		},
	},
}

var acasxuProperty int

var acasxuCmd = &cobra.Command{
	Use:   "acasxu <model>",
	Short: "Verify one ACAS-Xu property against a reference model",
	Args:  cobra.ExactArgs(1),
	RunE:  runAcasXu,
}

func init() {
	acasxuCmd.Flags().IntVar(&acasxuProperty, "property", 1, "ACAS-Xu property index (1-10)")
}

func runAcasXu(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	prop, ok := cfg.AcasXuOverrides[acasxuProperty]
	if !ok {
		prop, ok = acasxuCatalogue[acasxuProperty]
	}
	if !ok {
		return fmt.Errorf("vote: acasxu: no property #%d in the catalogue or --config overrides", acasxuProperty)
	}

	e, err := loadEnsemble(args[0])
	if err != nil {
		return err
	}
	if e.NIn() != len(acasxuInputs) {
		return fmt.Errorf("vote: acasxu: model has %d inputs, want %d", e.NIn(), len(acasxuInputs))
	}

	box := make([]bound.Bound, e.NIn())
	for i, name := range acasxuInputs {
		box[i] = bound.Unbounded()
		if r, ok := prop.Domain[name]; ok {
			box[i] = bound.Bound{Lo: r[0], Hi: r[1]}
		}
	}

	passed := ensemble.AbsRef(e, box, acasxuPredicate(acasxuProperty))

	fmt.Printf("property: %s\n", prop.Name)
	fmt.Printf("index: %d\n", acasxuProperty)
	if passed {
		fmt.Println("verdict: PASS")
	} else {
		fmt.Println("verdict: FAIL_OR_UNSURE")
	}
	return nil
}

// acasxuPredicate maps a property index to its output predicate.
// phi1 checks COC stays below the advisory threshold; unmodeled
// properties default to a COC-dominance check, matching the catalogue
// entries this implementation carries (phi1, phi3); extending to the
// full phi1-phi10 set is a matter of adding table rows, not new logic.
func acasxuPredicate(index int) ensemble.Predicate {
	switch index {
	case 1:
		return func(m *mapping.Mapping) outcome.Outcome {
			if m.Outputs[acasxuCOC].Hi <= 1500 {
				return outcome.PASS
			}
			if m.Outputs[acasxuCOC].Lo > 1500 {
				return outcome.FAIL
			}
			return outcome.UNSURE
		}
	default:
		return func(m *mapping.Mapping) outcome.Outcome {
			o, err := mapping.ArgminCheck(m, acasxuCOC)
			if err != nil {
				panic(err)
			}
			return o
		}
	}
}

