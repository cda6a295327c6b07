package flows

import (
	"github.com/akhror/zavodbot/core/flow"
)

// BuildRegistry assembles the complete step registry: the home step,
// every form and the triggers shared across forms by field name.
// Registration happens once at startup; any duplicate step id is
// reported here instead of silently overwritten.
func BuildRegistry(deps *Deps) (*flow.Registry[*Deps], error) {
	reg := flow.NewRegistry[*Deps]()

	if err := reg.Register(StepHome, homePrompt); err != nil {
		return nil, err
	}
	reg.BindStep(StepHome,
		flow.Trigger[*Deps]{
			Kind:    flow.KindCallback,
			Pattern: activityProductionRe,
			Next:    StepProductionBranch,
			Push:    true,
		},
		flow.Trigger[*Deps]{
			Kind:    flow.KindCallback,
			Pattern: activitySalesRe,
			Next:    StepSalesBranch,
			Push:    true,
		},
	)

	builders := []func(*flow.Registry[*Deps], *Deps) error{
		registerProduction,
		registerSales,
		registerStats,
		registerSalary,
	}
	for _, build := range builders {
		if err := build(reg, deps); err != nil {
			return nil, err
		}
	}

	// Calendar month paging works the same on every date step.
	reg.Bind("date", flow.CalendarNav[*Deps]())

	return reg, nil
}
