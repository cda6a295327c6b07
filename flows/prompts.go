package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akhror/zavodbot/core/flow"
	"github.com/akhror/zavodbot/core/logger"
	"github.com/akhror/zavodbot/core/telegram/calendar"
	"github.com/akhror/zavodbot/core/telegram/keyboard"
	"github.com/akhror/zavodbot/storage"
)

func homePrompt(ctx context.Context, deps *Deps, s *flow.Session) (flow.Prompt, error) {
	user, err := deps.Authorize(ctx, logger.UserIDFrom(ctx))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return flow.Prompt{Text: msgAccessDenied, EditInPlace: true}, nil
		}
		return flow.Prompt{}, err
	}

	markup := keyboard.InlineRows([]keyboard.InlineBtn{
		{Text: btnProduction, Data: "activity_production"},
		{Text: btnSales, Data: "activity_sales"},
	})
	return flow.Prompt{
		Text:        fmt.Sprintf(msgWelcome, user.FirstName),
		Markup:      markup,
		EditInPlace: true,
	}, nil
}

func branchPrompt(ctx context.Context, deps *Deps, _ *flow.Session) (flow.Prompt, error) {
	branches, err := deps.Branches.All(ctx)
	if err != nil {
		return flow.Prompt{}, err
	}

	buttons := make([]keyboard.InlineBtn, 0, len(branches))
	for _, b := range branches {
		buttons = append(buttons, keyboard.InlineBtn{
			Text: b.Name,
			Data: fmt.Sprintf("branch_%d", b.ID),
		})
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, 2)
	return flow.Prompt{
		Text:        msgChooseBranch,
		Markup:      keyboard.WithBackRow(markup, btnBack),
		EditInPlace: true,
	}, nil
}

func datePrompt(_ context.Context, deps *Deps, s *flow.Session) (flow.Prompt, error) {
	year, month := s.Form.CalYear, s.Form.CalMonth
	if year == 0 {
		now := deps.NowOrWallClock()
		year, month = now.Year(), now.Month()
		s.Form.CalYear, s.Form.CalMonth = year, month
	}
	markup := calendar.Markup(year, month)
	return flow.Prompt{
		Text:        msgChooseDate,
		Markup:      keyboard.WithBackRow(markup, btnBack),
		EditInPlace: true,
	}, nil
}

func productPrompt(ctx context.Context, deps *Deps, s *flow.Session) (flow.Prompt, error) {
	branchName := ""
	branch, err := deps.Branches.GetByID(ctx, s.Form.BranchID)
	switch {
	case err == nil:
		branchName = branch.Name
	case errors.Is(err, storage.ErrNotFound):
		// Render with a blank heading rather than failing the step.
	default:
		return flow.Prompt{}, err
	}

	products, err := deps.Branches.Products(ctx, s.Form.BranchID)
	if err != nil {
		return flow.Prompt{}, err
	}

	buttons := make([]keyboard.InlineBtn, 0, len(products))
	for _, p := range products {
		buttons = append(buttons, keyboard.InlineBtn{
			Text: p.Name,
			Data: fmt.Sprintf("product_%d", p.ID),
		})
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, 2)
	return flow.Prompt{
		Text:        fmt.Sprintf(msgChooseProduct, branchName),
		Markup:      keyboard.WithBackRow(markup, btnBack),
		EditInPlace: true,
	}, nil
}

func quantityPrompt(ctx context.Context, deps *Deps, s *flow.Session) (flow.Prompt, error) {
	name, err := productName(ctx, deps, s.Form.ProductID)
	if err != nil {
		return flow.Prompt{}, err
	}
	return flow.Prompt{
		Text:        fmt.Sprintf(msgEnterQuantity, name),
		Markup:      keyboard.WithBackRow(nil, btnBack),
		EditInPlace: true,
	}, nil
}

func pricePrompt(ctx context.Context, deps *Deps, s *flow.Session) (flow.Prompt, error) {
	name, err := productName(ctx, deps, s.Form.ProductID)
	if err != nil {
		return flow.Prompt{}, err
	}
	return flow.Prompt{
		Text:        fmt.Sprintf(msgEnterPrice, name),
		Markup:      keyboard.WithBackRow(nil, btnBack),
		EditInPlace: true,
	}, nil
}

func cementPrompt(_ context.Context, _ *Deps, _ *flow.Session) (flow.Prompt, error) {
	return flow.Prompt{
		Text:        msgEnterCement,
		Markup:      keyboard.WithBackRow(nil, btnBack),
		EditInPlace: true,
	}, nil
}

func workersPrompt(ctx context.Context, deps *Deps, s *flow.Session) (flow.Prompt, error) {
	employees, err := deps.Employees.ByBranch(ctx, s.Form.BranchID)
	if err != nil {
		return flow.Prompt{}, err
	}

	// Everyone starts marked present; toggles flip membership.
	if s.Form.Workers == nil {
		s.Form.Workers = make([]int64, 0, len(employees))
		for _, e := range employees {
			s.Form.Workers = append(s.Form.Workers, e.ID)
		}
	}

	buttons := make([]keyboard.InlineBtn, 0, len(employees))
	for _, e := range employees {
		label := e.FirstName
		if containsID(s.Form.Workers, e.ID) {
			label = "✅ " + label
		}
		buttons = append(buttons, keyboard.InlineBtn{
			Text: label,
			Data: fmt.Sprintf("worker_%d", e.ID),
		})
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, 2)
	markup.InlineKeyboard = append(markup.InlineKeyboard,
		keyboard.InlineRow(keyboard.InlineBtn{Text: btnReady, Data: "ready"}))
	return flow.Prompt{
		Text:        msgChooseWorkers,
		Markup:      keyboard.WithBackRow(markup, btnBack),
		EditInPlace: true,
	}, nil
}

func productionSavePrompt(ctx context.Context, deps *Deps, s *flow.Session) (flow.Prompt, error) {
	summary, err := productionSummary(ctx, deps, &s.Form)
	if err != nil {
		return flow.Prompt{}, err
	}
	markup := keyboard.InlineRows([]keyboard.InlineBtn{{Text: btnSave, Data: "save"}})
	return flow.Prompt{
		Text:        summary,
		Markup:      keyboard.WithBackRow(markup, btnBack),
		EditInPlace: true,
	}, nil
}

func salesSavePrompt(ctx context.Context, deps *Deps, s *flow.Session) (flow.Prompt, error) {
	summary, err := salesSummary(ctx, deps, &s.Form)
	if err != nil {
		return flow.Prompt{}, err
	}
	markup := keyboard.InlineRows(
		[]keyboard.InlineBtn{{Text: btnSave, Data: "save"}},
		[]keyboard.InlineBtn{{Text: btnAddProduct, Data: "add_product"}},
	)
	return flow.Prompt{
		Text:        summary,
		Markup:      keyboard.WithBackRow(markup, btnBack),
		EditInPlace: true,
	}, nil
}

func statsKindPrompt(_ context.Context, _ *Deps, _ *flow.Session) (flow.Prompt, error) {
	markup := keyboard.InlineRows([]keyboard.InlineBtn{
		{Text: btnProduction, Data: "activity_production"},
		{Text: btnSales, Data: "activity_sales"},
	})
	return flow.Prompt{
		Text:        msgChooseStatKind,
		Markup:      keyboard.WithBackRow(markup, btnBack),
		EditInPlace: true,
	}, nil
}

func statsPeriodPrompt(_ context.Context, _ *Deps, _ *flow.Session) (flow.Prompt, error) {
	markup := keyboard.InlineRows([]keyboard.InlineBtn{
		{Text: btnWeekly, Data: "period_weekly"},
		{Text: btnMonthly, Data: "period_monthly"},
		{Text: btnAllTime, Data: "period_all"},
	})
	return flow.Prompt{
		Text:        msgChoosePeriod,
		Markup:      keyboard.WithBackRow(markup, btnBack),
		EditInPlace: true,
	}, nil
}

func salaryPeriodPrompt(_ context.Context, _ *Deps, _ *flow.Session) (flow.Prompt, error) {
	buttons := make([]keyboard.InlineBtn, 0, len(monthButtons))
	for i, name := range monthButtons {
		buttons = append(buttons, keyboard.InlineBtn{
			Text: name,
			Data: fmt.Sprintf("month_%d", i+1),
		})
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, 3)
	return flow.Prompt{
		Text:        msgChooseMonth,
		Markup:      keyboard.WithBackRow(markup, btnBack),
		EditInPlace: true,
	}, nil
}

func productName(ctx context.Context, deps *Deps, id int64) (string, error) {
	product, err := deps.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return product.Name, nil
}

func productionSummary(ctx context.Context, deps *Deps, f *flow.Form) (string, error) {
	branchName := lookupBranchName(ctx, deps, f.BranchID)
	name, err := productName(ctx, deps, f.ProductID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("<b>Ishlab chiqarish</b>\n")
	fmt.Fprintf(&b, "Filial: %s\n", branchName)
	fmt.Fprintf(&b, "Sana: %s\n", f.Date.Format("02.01.2006"))
	fmt.Fprintf(&b, "Mahsulot: %s\n", name)
	fmt.Fprintf(&b, "Miqdor: %d dona\n", f.Quantity)
	fmt.Fprintf(&b, "Sement: %.2f tonna\n", f.UsedCement)
	fmt.Fprintf(&b, "Ishchilar: %d kishi", len(f.Workers))
	return b.String(), nil
}

func salesSummary(ctx context.Context, deps *Deps, f *flow.Form) (string, error) {
	branchName := lookupBranchName(ctx, deps, f.BranchID)

	var b strings.Builder
	b.WriteString("<b>Sotuv</b>\n")
	fmt.Fprintf(&b, "Filial: %s\n", branchName)
	fmt.Fprintf(&b, "Sana: %s\n", f.Date.Format("02.01.2006"))

	var total int64
	items := append(append([]flow.OrderItem{}, f.Items...), flow.OrderItem{
		ProductID: f.ProductID,
		Quantity:  f.Quantity,
		Price:     f.Price,
	})
	for i, item := range items {
		name, err := productName(ctx, deps, item.ProductID)
		if err != nil {
			return "", err
		}
		amount := item.Quantity * item.Price
		total += amount
		fmt.Fprintf(&b, "%d. %s: %d x %d = %d so'm\n", i+1, name, item.Quantity, item.Price, amount)
	}
	fmt.Fprintf(&b, "<b>Jami: %d so'm</b>", total)
	return b.String(), nil
}

func lookupBranchName(ctx context.Context, deps *Deps, id int64) string {
	branch, err := deps.Branches.GetByID(ctx, id)
	if err != nil {
		return ""
	}
	return branch.Name
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func noFutureDates(deps *Deps) func(time.Time) error {
	return func(day time.Time) error {
		// Calendar payloads decode to UTC midnight, so compare calendar
		// dates of the local clock rather than truncated instants.
		now := deps.NowOrWallClock()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if day.After(today) {
			return &flow.NoticeError{Notice: msgFutureDate}
		}
		return nil
	}
}
