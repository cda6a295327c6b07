package flows

import "github.com/akhror/zavodbot/core/flow"

// Step ids. The terminal segment names the field a step captures, so
// generic triggers can be shared across forms by name while each form
// keeps its own navigation.
const (
	StepHome flow.StepID = "activity"

	StepProductionBranch   flow.StepID = "production:branch_id"
	StepProductionDate     flow.StepID = "production:date"
	StepProductionProduct  flow.StepID = "production:product_id"
	StepProductionQuantity flow.StepID = "production:quantity"
	StepProductionCement   flow.StepID = "production:used_cement_amount"
	StepProductionWorkers  flow.StepID = "production:workers"
	StepProductionSave     flow.StepID = "production:save"

	StepSalesBranch   flow.StepID = "sales:branch_id"
	StepSalesDate     flow.StepID = "sales:date"
	StepSalesProduct  flow.StepID = "sales:product_id"
	StepSalesQuantity flow.StepID = "sales:quantity"
	StepSalesPrice    flow.StepID = "sales:price"
	StepSalesSave     flow.StepID = "sales:save"

	StepStatsKind   flow.StepID = "stats:stat_kind"
	StepStatsPeriod flow.StepID = "stats:stat_period"

	StepSalaryBranch flow.StepID = "salary:branch_id"
	StepSalaryPeriod flow.StepID = "salary:period"
)
