package flows

import (
	"context"
	"fmt"

	tghelpers "github.com/akhror/zavodbot/core/telegram/helpers"
	"github.com/akhror/zavodbot/report"
	"github.com/akhror/zavodbot/storage"

	tele "gopkg.in/telebot.v4"
)

// InventoryReport sends the current stock balance per product: all-time
// produced minus all-time sold.
func InventoryReport(ctx context.Context, deps *Deps, c tele.Context) error {
	products, err := deps.Products.All(ctx)
	if err != nil {
		return err
	}
	produced, err := deps.Production.ProducedTotals(ctx)
	if err != nil {
		return err
	}
	sold, err := deps.Orders.SoldTotals(ctx)
	if err != nil {
		return err
	}

	rows := make([]storage.InventoryRow, 0, len(products))
	for _, p := range products {
		row := storage.InventoryRow{
			Name:     p.Name,
			Produced: produced[p.ID],
			Sold:     sold[p.ID],
		}
		row.Balance = row.Produced - row.Sold
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return tghelpers.SendHTML(c, msgNoRecords)
	}

	now := deps.NowOrWallClock()
	table := report.Table{
		Title:   "Ombor qoldig'i " + now.Format("02.01.2006"),
		Headers: []string{"Mahsulot", "Ishlab chiqarilgan", "Sotilgan", "Qoldiq"},
		Widths:  []float64{3, 2, 2, 2},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Name,
			fmt.Sprintf("%d", r.Produced),
			fmt.Sprintf("%d", r.Sold),
			fmt.Sprintf("%d", r.Balance),
		})
	}

	pdfPath, pngPath, err := report.Render(deps.MediaDir, "inventory_"+now.Format("2006-01-02_150405"), table)
	if err != nil {
		return err
	}
	return sendReport(c, pdfPath, pngPath, table.Title)
}
