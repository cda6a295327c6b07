package flows

import (
	"context"
	"fmt"
	"regexp"

	"github.com/akhror/zavodbot/accounting"
	"github.com/akhror/zavodbot/core/flow"
	tghelpers "github.com/akhror/zavodbot/core/telegram/helpers"
	"github.com/akhror/zavodbot/report"

	tele "gopkg.in/telebot.v4"
)

var (
	activityRe           = regexp.MustCompile(`^activity_(production|sales)$`)
	activityProductionRe = regexp.MustCompile(`^activity_production$`)
	activitySalesRe      = regexp.MustCompile(`^activity_sales$`)
	periodRe             = regexp.MustCompile(`^period_(weekly|monthly|all)$`)
)

func registerStats(reg *flow.Registry[*Deps], _ *Deps) error {
	if err := reg.Register(StepStatsKind, statsKindPrompt); err != nil {
		return err
	}
	if err := reg.Register(StepStatsPeriod, statsPeriodPrompt); err != nil {
		return err
	}

	reg.BindStep(StepStatsKind, flow.Trigger[*Deps]{
		Kind:    flow.KindCallback,
		Pattern: activityRe,
		Next:    StepStatsPeriod,
		Push:    true,
		Handle:  captureActivity,
	})
	reg.BindStep(StepStatsPeriod, flow.Trigger[*Deps]{
		Kind:    flow.KindCallback,
		Pattern: periodRe,
		Handle:  runStatReport,
	})
	return nil
}

func captureActivity(_ context.Context, _ *Deps, _ tele.Context, s *flow.Session, input string) error {
	m := activityRe.FindStringSubmatch(input)
	if len(m) < 2 {
		return &flow.NoticeError{Notice: msgInvalidResponse}
	}
	s.Form.Activity = m[1]
	return nil
}

// runStatReport resolves the chosen period, aggregates the chosen
// activity and sends the rendered PDF. The "preparing" notice is
// removed once the document is out.
func runStatReport(ctx context.Context, deps *Deps, c tele.Context, s *flow.Session, input string) error {
	m := periodRe.FindStringSubmatch(input)
	if len(m) < 2 {
		return &flow.NoticeError{Notice: msgInvalidResponse}
	}
	period := accounting.Period(m[1])
	now := deps.NowOrWallClock()
	from, to, err := period.Resolve(now)
	if err != nil {
		return err
	}

	preparing, _ := c.Bot().Send(c.Recipient(), msgPreparingReport)

	var table report.Table
	var empty bool
	switch s.Form.Activity {
	case "sales":
		rows, err := deps.Orders.Stat(ctx, from, to)
		if err != nil {
			return err
		}
		empty = len(rows) == 0
		table = report.Table{
			Title:   fmt.Sprintf("Sotuv hisoboti %s - %s", from.Format("02.01.2006"), to.Format("02.01.2006")),
			Headers: []string{"Mahsulot", "Soni", "Summa (so'm)"},
			Widths:  []float64{3, 1, 2},
		}
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{r.Name, fmt.Sprintf("%d", r.TotalCount), fmt.Sprintf("%d", r.TotalAmount)})
		}
	default:
		rows, err := deps.Production.Stat(ctx, from, to)
		if err != nil {
			return err
		}
		empty = len(rows) == 0
		table = report.Table{
			Title:   fmt.Sprintf("Ishlab chiqarish hisoboti %s - %s", from.Format("02.01.2006"), to.Format("02.01.2006")),
			Headers: []string{"Mahsulot", "Soni", "Sement (t)"},
			Widths:  []float64{3, 1, 1},
		}
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{r.Name, fmt.Sprintf("%d", r.TotalCount), fmt.Sprintf("%.2f", r.UsedCementAmount)})
		}
	}

	defer func() {
		if preparing != nil {
			_ = c.Bot().Delete(preparing)
		}
	}()

	if empty {
		s.Reset(StepHome)
		return tghelpers.SendHTML(c, msgNoRecords)
	}

	base := fmt.Sprintf("%s_stat_%s", s.Form.Activity, now.Format("2006-01-02_150405"))
	pdfPath, pngPath, err := report.Render(deps.MediaDir, base, table)
	if err != nil {
		return err
	}
	if err := sendReport(c, pdfPath, pngPath, table.Title); err != nil {
		return err
	}

	s.Reset(StepHome)
	return nil
}
