package accounting

import (
	"math"
	"sort"
	"time"
)

// WorkDay is the salary input for one production record: what was made,
// at what rate, and who was present.
type WorkDay struct {
	Date        time.Time
	ProductName string
	Quantity    int64
	PaymentRate float64
	Workers     []string
}

// Detail is one row of the per-record salary breakdown.
type Detail struct {
	Date        time.Time
	ProductName string
	Quantity    int64
	PaymentRate float64
	Workers     []string
	Payment     float64
	Share       float64
}

// WorkerTotal is one worker's accumulated earnings over the period.
type WorkerTotal struct {
	Name  string
	Total float64
}

// Summary is the aggregated salary outcome for a period.
type Summary struct {
	Workers []WorkerTotal
	Total   float64
}

// CalculateSalary shares each day's wage pool (rate times quantity)
// equally among the workers present that day. Days without workers
// contribute nothing. Totals are rounded to the nearest thousand.
func CalculateSalary(days []WorkDay) ([]Detail, Summary) {
	details := make([]Detail, 0, len(days))
	totals := make(map[string]float64)

	for _, day := range days {
		payment := day.PaymentRate * float64(day.Quantity)
		detail := Detail{
			Date:        day.Date,
			ProductName: day.ProductName,
			Quantity:    day.Quantity,
			PaymentRate: day.PaymentRate,
			Workers:     day.Workers,
			Payment:     payment,
		}
		if len(day.Workers) > 0 {
			detail.Share = payment / float64(len(day.Workers))
			for _, name := range day.Workers {
				totals[name] += detail.Share
			}
		}
		details = append(details, detail)
	}

	summary := Summary{Workers: make([]WorkerTotal, 0, len(totals))}
	for name, total := range totals {
		rounded := RoundToThousand(total)
		summary.Workers = append(summary.Workers, WorkerTotal{Name: name, Total: rounded})
		summary.Total += rounded
	}
	sort.Slice(summary.Workers, func(i, j int) bool {
		return summary.Workers[i].Name < summary.Workers[j].Name
	})

	return details, summary
}

// RoundToThousand rounds to the nearest thousand, halves up.
func RoundToThousand(v float64) float64 {
	return math.Round(v/1000) * 1000
}
