package flows

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/akhror/zavodbot/core/flow"
	tghelpers "github.com/akhror/zavodbot/core/telegram/helpers"
	"github.com/akhror/zavodbot/storage"

	tele "gopkg.in/telebot.v4"
)

var (
	branchRe  = regexp.MustCompile(`^branch_(\d+)$`)
	productRe = regexp.MustCompile(`^product_(\d+)$`)
	workerRe  = regexp.MustCompile(`^worker_(\d+)$`)
	saveRe    = regexp.MustCompile(`^save$`)
	readyRe   = regexp.MustCompile(`^ready$`)
)

func registerProduction(reg *flow.Registry[*Deps], deps *Deps) error {
	steps := map[flow.StepID]flow.Renderer[*Deps]{
		StepProductionBranch:   branchPrompt,
		StepProductionDate:     datePrompt,
		StepProductionProduct:  productPrompt,
		StepProductionQuantity: quantityPrompt,
		StepProductionCement:   cementPrompt,
		StepProductionWorkers:  workersPrompt,
		StepProductionSave:     productionSavePrompt,
	}
	for id, render := range steps {
		if err := reg.Register(id, render); err != nil {
			return err
		}
	}

	reg.BindStep(StepProductionBranch, flow.CaptureIntCallback[*Deps](
		branchRe, func(f *flow.Form, v int64) { f.BranchID = v },
		StepProductionDate, true,
	))
	reg.BindStep(StepProductionDate, flow.CaptureDate[*Deps](
		func(f *flow.Form, d time.Time) { f.Date = d },
		StepProductionProduct, true, noFutureDates(deps),
	))
	reg.BindStep(StepProductionProduct, flow.CaptureIntCallback[*Deps](
		productRe, func(f *flow.Form, v int64) { f.ProductID = v },
		StepProductionQuantity, true,
	))
	reg.BindStep(StepProductionQuantity, flow.CaptureIntMessage[*Deps](
		func(f *flow.Form, v int64) { f.Quantity = v },
		StepProductionCement, true,
	))
	reg.BindStep(StepProductionCement, flow.CaptureFloatMessage[*Deps](
		func(f *flow.Form, v float64) { f.UsedCement = v },
		StepProductionWorkers, true,
	))
	reg.BindStep(StepProductionWorkers,
		workerToggleTrigger(),
		flow.Trigger[*Deps]{
			Kind:    flow.KindCallback,
			Pattern: readyRe,
			Next:    StepProductionSave,
			Push:    true,
		},
	)
	reg.BindStep(StepProductionSave, flow.Trigger[*Deps]{
		Kind:    flow.KindCallback,
		Pattern: saveRe,
		Handle:  saveProduction,
	})
	return nil
}

// workerToggleTrigger flips one employee's presence and redraws the
// attendance keyboard in place.
func workerToggleTrigger() flow.Trigger[*Deps] {
	return flow.Trigger[*Deps]{
		Kind:     flow.KindCallback,
		Pattern:  workerRe,
		Rerender: true,
		Handle: func(_ context.Context, _ *Deps, _ tele.Context, s *flow.Session, input string) error {
			m := workerRe.FindStringSubmatch(input)
			if len(m) < 2 {
				return &flow.NoticeError{Notice: msgInvalidResponse}
			}
			id, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return &flow.NoticeError{Notice: msgInvalidResponse}
			}
			s.Form.Workers = toggleID(s.Form.Workers, id)
			return nil
		},
	}
}

// saveProduction persists the record with attendance, notifies the
// admin and ends the conversation.
func saveProduction(ctx context.Context, deps *Deps, c tele.Context, s *flow.Session, _ string) error {
	rec := &storage.ProductionRecord{
		BranchID:         s.Form.BranchID,
		ProductID:        s.Form.ProductID,
		Date:             s.Form.Date,
		Quantity:         s.Form.Quantity,
		UsedCementAmount: s.Form.UsedCement,
	}
	if _, err := deps.Production.Create(ctx, rec, s.Form.Workers); err != nil {
		return err
	}

	if summary, err := productionSummary(ctx, deps, &s.Form); err == nil {
		notifyAdmin(ctx, deps, c, summary)
	}

	s.Reset(StepHome)
	return tghelpers.SendHTML(c, msgSaved)
}

func toggleID(ids []int64, id int64) []int64 {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return append(ids, id)
}
