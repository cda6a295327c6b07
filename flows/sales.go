package flows

import (
	"context"
	"regexp"
	"time"

	"github.com/akhror/zavodbot/core/flow"
	tghelpers "github.com/akhror/zavodbot/core/telegram/helpers"
	"github.com/akhror/zavodbot/storage"

	tele "gopkg.in/telebot.v4"
)

var addProductRe = regexp.MustCompile(`^add_product$`)

func registerSales(reg *flow.Registry[*Deps], deps *Deps) error {
	steps := map[flow.StepID]flow.Renderer[*Deps]{
		StepSalesBranch:   branchPrompt,
		StepSalesDate:     datePrompt,
		StepSalesProduct:  productPrompt,
		StepSalesQuantity: quantityPrompt,
		StepSalesPrice:    pricePrompt,
		StepSalesSave:     salesSavePrompt,
	}
	for id, render := range steps {
		if err := reg.Register(id, render); err != nil {
			return err
		}
	}

	reg.BindStep(StepSalesBranch, flow.CaptureIntCallback[*Deps](
		branchRe, func(f *flow.Form, v int64) { f.BranchID = v },
		StepSalesDate, true,
	))
	reg.BindStep(StepSalesDate, flow.CaptureDate[*Deps](
		func(f *flow.Form, d time.Time) { f.Date = d },
		StepSalesProduct, true, noFutureDates(deps),
	))
	reg.BindStep(StepSalesProduct, flow.CaptureIntCallback[*Deps](
		productRe, func(f *flow.Form, v int64) { f.ProductID = v },
		StepSalesQuantity, true,
	))
	reg.BindStep(StepSalesQuantity, flow.CaptureIntMessage[*Deps](
		func(f *flow.Form, v int64) { f.Quantity = v },
		StepSalesPrice, true,
	))
	reg.BindStep(StepSalesPrice, flow.CaptureIntMessage[*Deps](
		func(f *flow.Form, v int64) { f.Price = v },
		StepSalesSave, true,
	))
	reg.BindStep(StepSalesSave,
		flow.Trigger[*Deps]{
			Kind:    flow.KindCallback,
			Pattern: addProductRe,
			Next:    StepSalesProduct,
			Push:    true,
			Handle:  stashLineItem,
		},
		flow.Trigger[*Deps]{
			Kind:    flow.KindCallback,
			Pattern: saveRe,
			Handle:  saveSales,
		},
	)
	return nil
}

// stashLineItem moves the in-progress product line into the item list
// so product selection can start over for the next line. Branch and
// date stay as they are.
func stashLineItem(_ context.Context, _ *Deps, _ tele.Context, s *flow.Session, _ string) error {
	s.Form.Items = append(s.Form.Items, flow.OrderItem{
		ProductID: s.Form.ProductID,
		Quantity:  s.Form.Quantity,
		Price:     s.Form.Price,
	})
	s.Form.ProductID = 0
	s.Form.Quantity = 0
	s.Form.Price = 0
	return nil
}

// saveSales persists every accumulated line plus the in-progress one in
// a single transaction, notifies the admin and ends the conversation.
func saveSales(ctx context.Context, deps *Deps, c tele.Context, s *flow.Session, _ string) error {
	lines := append(append([]flow.OrderItem{}, s.Form.Items...), flow.OrderItem{
		ProductID: s.Form.ProductID,
		Quantity:  s.Form.Quantity,
		Price:     s.Form.Price,
	})

	orders := make([]storage.SalesOrder, 0, len(lines))
	for _, line := range lines {
		orders = append(orders, storage.SalesOrder{
			BranchID:  s.Form.BranchID,
			ProductID: line.ProductID,
			Date:      s.Form.Date,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}
	if err := deps.Orders.Create(ctx, orders); err != nil {
		return err
	}

	if summary, err := salesSummary(ctx, deps, &s.Form); err == nil {
		notifyAdmin(ctx, deps, c, summary)
	}

	s.Reset(StepHome)
	return tghelpers.SendHTML(c, msgSaved)
}
