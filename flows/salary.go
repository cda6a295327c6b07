package flows

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/akhror/zavodbot/accounting"
	"github.com/akhror/zavodbot/core/flow"
	tghelpers "github.com/akhror/zavodbot/core/telegram/helpers"
	"github.com/akhror/zavodbot/report"

	tele "gopkg.in/telebot.v4"
)

var monthRe = regexp.MustCompile(`^month_(\d{1,2})$`)

func registerSalary(reg *flow.Registry[*Deps], _ *Deps) error {
	if err := reg.Register(StepSalaryBranch, branchPrompt); err != nil {
		return err
	}
	if err := reg.Register(StepSalaryPeriod, salaryPeriodPrompt); err != nil {
		return err
	}

	reg.BindStep(StepSalaryBranch, flow.CaptureIntCallback[*Deps](
		branchRe, func(f *flow.Form, v int64) { f.BranchID = v },
		StepSalaryPeriod, true,
	))
	reg.BindStep(StepSalaryPeriod, flow.Trigger[*Deps]{
		Kind:    flow.KindCallback,
		Pattern: monthRe,
		Handle:  runSalaryReport,
	})
	return nil
}

// runSalaryReport computes per-worker wage shares for the chosen month
// and sends a detailed breakdown plus a totals summary as PDFs.
func runSalaryReport(ctx context.Context, deps *Deps, c tele.Context, s *flow.Session, input string) error {
	m := monthRe.FindStringSubmatch(input)
	if len(m) < 2 {
		return &flow.NoticeError{Notice: msgInvalidResponse}
	}
	monthNum, err := strconv.Atoi(m[1])
	if err != nil || monthNum < 1 || monthNum > 12 {
		return &flow.NoticeError{Notice: msgInvalidResponse}
	}

	now := deps.NowOrWallClock()
	from, to := accounting.MonthRange(time.Month(monthNum), now)

	rows, err := deps.Production.FilterByPeriod(ctx, s.Form.BranchID, from, to)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		s.Reset(StepHome)
		return tghelpers.SendHTML(c, msgNoRecords)
	}

	preparing, _ := c.Bot().Send(c.Recipient(), msgPreparingReport)
	defer func() {
		if preparing != nil {
			_ = c.Bot().Delete(preparing)
		}
	}()

	days := make([]accounting.WorkDay, 0, len(rows))
	for _, r := range rows {
		days = append(days, accounting.WorkDay{
			Date:        r.Date,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			PaymentRate: r.PaymentRate,
			Workers:     r.Workers,
		})
	}
	details, summary := accounting.CalculateSalary(days)

	monthName := monthButtons[monthNum-1]
	detailTable := report.Table{
		Title:   fmt.Sprintf("Oylik hisobot (%s %d)", monthName, from.Year()),
		Headers: []string{"Sana", "Mahsulot", "Soni", "Narx", "Ishchilar", "Ulush"},
		Widths:  []float64{2, 3, 1, 1.5, 4, 2},
	}
	for _, d := range details {
		detailTable.Rows = append(detailTable.Rows, []string{
			d.Date.Format("02.01"),
			d.ProductName,
			fmt.Sprintf("%d", d.Quantity),
			fmt.Sprintf("%.0f", d.PaymentRate),
			strings.Join(d.Workers, ", "),
			fmt.Sprintf("%.0f", d.Share),
		})
	}

	summaryTable := report.Table{
		Title:   fmt.Sprintf("Oylik jami (%s %d)", monthName, from.Year()),
		Headers: []string{"Ishchi", "Oylik (so'm)"},
		Widths:  []float64{2, 1},
	}
	for _, w := range summary.Workers {
		summaryTable.Rows = append(summaryTable.Rows, []string{w.Name, fmt.Sprintf("%.0f", w.Total)})
	}
	summaryTable.Rows = append(summaryTable.Rows, []string{"Jami", fmt.Sprintf("%.0f", summary.Total)})

	stamp := now.Format("2006-01-02_150405")
	detailPDF, detailPNG, err := report.Render(deps.MediaDir, "salary_detail_"+stamp, detailTable)
	if err != nil {
		return err
	}
	summaryPDF, summaryPNG, err := report.Render(deps.MediaDir, "salary_summary_"+stamp, summaryTable)
	if err != nil {
		return err
	}

	if err := sendReport(c, detailPDF, detailPNG, detailTable.Title); err != nil {
		return err
	}
	if err := sendReport(c, summaryPDF, summaryPNG, summaryTable.Title); err != nil {
		return err
	}

	s.Reset(StepHome)
	return nil
}
