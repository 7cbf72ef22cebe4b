package mvo

import (
	"fmt"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/catalog"
)

type Strategy string

const (
	HirePermanent Strategy = "hire_permanent"
	HybridPermGig Strategy = "hybrid_perm_gig"
	Outsource     Strategy = "outsource"
	Automate      Strategy = "automate"
)

// DominanceThreshold is the share a category needs before it drives the
// staffing strategy.
const DominanceThreshold = 0.40

type signal struct {
	name     string
	share    float64
	strategy Strategy
}

// ClassifyStrategy is a fixed decision table over the work mix, not a learned
// model. The largest share wins when it reaches DominanceThreshold; ties go to
// the category listed first.
//
//	routine     -> automate
//	knowledge   -> hire_permanent
//	operational -> hybrid_perm_gig
//	project     -> outsource
//	none        -> hire_permanent
func ClassifyStrategy(mix catalog.WorkMix) (Strategy, string) {
	signals := []signal{
		{"routine", mix.Routine, Automate},
		{"knowledge", mix.Knowledge, HirePermanent},
		{"operational", mix.Operational, HybridPermGig},
		{"project", mix.Project, Outsource},
	}

	best := signals[0]
	for _, s := range signals[1:] {
		if s.share > best.share {
			best = s
		}
	}

	if best.share < DominanceThreshold {
		return HirePermanent, fmt.Sprintf("no work category reaches %.0f%% of the mix (largest is %s at %.0f%%), so permanent hiring is the default",
			DominanceThreshold*100, best.name, best.share*100)
	}
	return best.strategy, fmt.Sprintf("%s work is %.0f%% of the mix", best.name, best.share*100)
}

func (s Strategy) describe() string {
	switch s {
	case Automate:
		return "automate the routine share before hiring"
	case HybridPermGig:
		return "a permanent core with gig cover for peaks"
	case Outsource:
		return "outsource to a delivery partner"
	default:
		return "hire permanent staff"
	}
}
