package flows

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhror/zavodbot/core/flow"
	"github.com/akhror/zavodbot/core/logger"
	"github.com/akhror/zavodbot/storage"

	tele "gopkg.in/telebot.v4"
)

// --- fakes -----------------------------------------------------------------

type fakeContext struct {
	tele.Context
	callback *tele.Callback
	sent     []interface{}
	edited   []interface{}
}

func (c *fakeContext) Callback() *tele.Callback { return c.callback }

func (c *fakeContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *fakeContext) Edit(what interface{}, _ ...interface{}) error {
	c.edited = append(c.edited, what)
	return nil
}

func (c *fakeContext) lastText(t *testing.T) string {
	t.Helper()
	all := append(append([]interface{}{}, c.sent...), c.edited...)
	require.NotEmpty(t, all)
	text, ok := all[len(all)-1].(string)
	require.True(t, ok)
	return text
}

type fakeUsers struct{ users map[int64]*storage.User }

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*storage.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

type fakeBranches struct {
	branches []storage.Branch
	products map[int64][]storage.Product
}

func (f *fakeBranches) All(context.Context) ([]storage.Branch, error) { return f.branches, nil }

func (f *fakeBranches) GetByID(_ context.Context, id int64) (*storage.Branch, error) {
	for i := range f.branches {
		if f.branches[i].ID == id {
			return &f.branches[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeBranches) Products(_ context.Context, branchID int64) ([]storage.Product, error) {
	return f.products[branchID], nil
}

type fakeProducts struct{ products []storage.Product }

func (f *fakeProducts) All(context.Context) ([]storage.Product, error) { return f.products, nil }

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*storage.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

type fakeEmployees struct{ employees []storage.Employee }

func (f *fakeEmployees) ByBranch(context.Context, int64) ([]storage.Employee, error) {
	return f.employees, nil
}

type fakeProduction struct {
	created    []storage.ProductionRecord
	attendance [][]int64
	salaryRows []storage.SalaryRow
	produced   map[int64]int64
}

func (f *fakeProduction) Create(_ context.Context, rec *storage.ProductionRecord, present []int64) (int64, error) {
	f.created = append(f.created, *rec)
	f.attendance = append(f.attendance, append([]int64{}, present...))
	return int64(len(f.created)), nil
}

func (f *fakeProduction) Stat(context.Context, time.Time, time.Time) ([]storage.ProductionStatRow, error) {
	return nil, nil
}

func (f *fakeProduction) FilterByPeriod(context.Context, int64, time.Time, time.Time) ([]storage.SalaryRow, error) {
	return f.salaryRows, nil
}

func (f *fakeProduction) ProducedTotals(context.Context) (map[int64]int64, error) {
	return f.produced, nil
}

type fakeOrders struct {
	created [][]storage.SalesOrder
	sold    map[int64]int64
}

func (f *fakeOrders) Create(_ context.Context, items []storage.SalesOrder) error {
	f.created = append(f.created, append([]storage.SalesOrder{}, items...))
	return nil
}

func (f *fakeOrders) Stat(context.Context, time.Time, time.Time) ([]storage.SalesStatRow, error) {
	return nil, nil
}

func (f *fakeOrders) SoldTotals(context.Context) (map[int64]int64, error) {
	return f.sold, nil
}

// --- harness ---------------------------------------------------------------

type harness struct {
	deps       *Deps
	disp       *flow.Dispatcher[*Deps]
	production *fakeProduction
	orders     *fakeOrders
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	production := &fakeProduction{}
	orders := &fakeOrders{}
	deps := &Deps{
		Users: &fakeUsers{users: map[int64]*storage.User{
			100: {ID: 100, FirstName: "Akbar"},
		}},
		Branches: &fakeBranches{
			branches: []storage.Branch{{ID: 1, Name: "Yunusobod"}, {ID: 2, Name: "Chilonzor"}},
			products: map[int64][]storage.Product{
				1: {{ID: 10, Name: "Blok 20x20x40"}, {ID: 11, Name: "Lenta 30"}},
			},
		},
		Products: &fakeProducts{products: []storage.Product{
			{ID: 10, Name: "Blok 20x20x40"},
			{ID: 11, Name: "Lenta 30"},
		}},
		Employees: &fakeEmployees{employees: []storage.Employee{
			{ID: 1, FirstName: "Anvar"},
			{ID: 2, FirstName: "Bekzod"},
			{ID: 3, FirstName: "Davron"},
		}},
		Production: production,
		Orders:     orders,
		MediaDir:   t.TempDir(),
		Now: func() time.Time {
			return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
		},
	}

	reg, err := BuildRegistry(deps)
	require.NoError(t, err)

	return &harness{
		deps:       deps,
		disp:       flow.NewDispatcher(reg, deps, StepHome),
		production: production,
		orders:     orders,
	}
}

func (h *harness) callback(t *testing.T, s *flow.Session, data string) {
	t.Helper()
	c := &fakeContext{callback: &tele.Callback{}}
	require.NoError(t, h.disp.HandleInput(context.Background(), c, s, flow.KindCallback, data))
}

func (h *harness) message(t *testing.T, s *flow.Session, text string) {
	t.Helper()
	c := &fakeContext{}
	require.NoError(t, h.disp.HandleInput(context.Background(), c, s, flow.KindMessage, text))
}

// --- tests -----------------------------------------------------------------

func TestBuildRegistryCoversAllSteps(t *testing.T) {
	h := newHarness(t)
	steps := []flow.StepID{
		StepHome,
		StepProductionBranch, StepProductionDate, StepProductionProduct,
		StepProductionQuantity, StepProductionCement, StepProductionWorkers,
		StepProductionSave,
		StepSalesBranch, StepSalesDate, StepSalesProduct,
		StepSalesQuantity, StepSalesPrice, StepSalesSave,
		StepStatsKind, StepStatsPeriod,
		StepSalaryBranch, StepSalaryPeriod,
	}
	c := &fakeContext{}
	for _, id := range steps {
		var s flow.Session
		s.Form.BranchID = 1
		s.Form.ProductID = 10
		err := h.disp.Goto(contextWithUser(100), c, &s, id, false)
		require.NoError(t, err, "step %s", id)
	}
}

func contextWithUser(userID int64) context.Context {
	return logger.WithUpdateMeta(context.Background(), 1, userID, userID)
}

func TestProductionEndToEnd(t *testing.T) {
	h := newHarness(t)
	var s flow.Session

	h.callback(t, &s, "activity_production")
	assert.Equal(t, StepProductionBranch, s.Current)

	h.callback(t, &s, "branch_1")
	assert.Equal(t, StepProductionDate, s.Current)

	h.callback(t, &s, "cal_day_2025-08-20")
	assert.Equal(t, StepProductionProduct, s.Current)

	h.callback(t, &s, "product_10")
	assert.Equal(t, StepProductionQuantity, s.Current)

	h.message(t, &s, "250")
	assert.Equal(t, StepProductionCement, s.Current)
	assert.Equal(t, int64(250), s.Form.Quantity)

	h.message(t, &s, "3.5")
	assert.Equal(t, StepProductionWorkers, s.Current)
	assert.InDelta(t, 3.5, s.Form.UsedCement, 0.001)
	// Entering the step pre-marked everyone present.
	assert.ElementsMatch(t, []int64{1, 2, 3}, s.Form.Workers)

	h.callback(t, &s, "worker_2")
	assert.ElementsMatch(t, []int64{1, 3}, s.Form.Workers)

	h.callback(t, &s, "ready")
	assert.Equal(t, StepProductionSave, s.Current)

	h.callback(t, &s, "save")
	require.Len(t, h.production.created, 1)
	rec := h.production.created[0]
	assert.Equal(t, int64(1), rec.BranchID)
	assert.Equal(t, int64(10), rec.ProductID)
	assert.Equal(t, time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, int64(250), rec.Quantity)
	assert.InDelta(t, 3.5, rec.UsedCementAmount, 0.001)
	assert.ElementsMatch(t, []int64{1, 3}, h.production.attendance[0])

	// Conversation ended: form cleared, session back at home.
	assert.Equal(t, StepHome, s.Current)
	assert.Empty(t, s.Stack)
	assert.Zero(t, s.Form.BranchID)
}

func TestProductionFutureDateRejected(t *testing.T) {
	h := newHarness(t)
	var s flow.Session

	h.callback(t, &s, "activity_production")
	h.callback(t, &s, "branch_1")

	c := &fakeContext{callback: &tele.Callback{}}
	err := h.disp.HandleInput(context.Background(), c, &s, flow.KindCallback, "cal_day_2025-12-31")
	var notice *flow.NoticeError
	require.ErrorAs(t, err, &notice)
	assert.Equal(t, msgFutureDate, notice.Notice)
	assert.Equal(t, StepProductionDate, s.Current)
	assert.True(t, s.Form.Date.IsZero())
}

func TestTodaySelectableAheadOfUTC(t *testing.T) {
	h := newHarness(t)
	// Early local morning in Tashkent, still the previous day in UTC.
	tashkent := time.FixedZone("UTC+5", 5*60*60)
	h.deps.Now = func() time.Time {
		return time.Date(2025, 9, 1, 1, 0, 0, 0, tashkent)
	}

	var s flow.Session
	h.callback(t, &s, "activity_production")
	h.callback(t, &s, "branch_1")

	h.callback(t, &s, "cal_day_2025-09-01")
	assert.Equal(t, StepProductionProduct, s.Current)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), s.Form.Date)

	// Tomorrow by the local clock is still in the future.
	s.Reset(StepProductionDate)
	c := &fakeContext{callback: &tele.Callback{}}
	err := h.disp.HandleInput(context.Background(), c, &s, flow.KindCallback, "cal_day_2025-09-02")
	var notice *flow.NoticeError
	require.ErrorAs(t, err, &notice)
	assert.Equal(t, msgFutureDate, notice.Notice)
}

func TestSalesMultiItemOrder(t *testing.T) {
	h := newHarness(t)
	var s flow.Session

	h.callback(t, &s, "activity_sales")
	h.callback(t, &s, "branch_1")
	h.callback(t, &s, "cal_day_2025-08-30")
	h.callback(t, &s, "product_10")
	h.message(t, &s, "10")
	h.message(t, &s, "5000")
	assert.Equal(t, StepSalesSave, s.Current)

	h.callback(t, &s, "add_product")
	assert.Equal(t, StepSalesProduct, s.Current)
	require.Len(t, s.Form.Items, 1)
	assert.Equal(t, int64(1), s.Form.BranchID) // branch and date retained

	h.callback(t, &s, "product_11")
	h.message(t, &s, "4")
	h.message(t, &s, "2500")
	assert.Equal(t, StepSalesSave, s.Current)

	h.callback(t, &s, "save")
	require.Len(t, h.orders.created, 1)
	items := h.orders.created[0]
	require.Len(t, items, 2)
	assert.Equal(t, int64(10), items[0].ProductID)
	assert.Equal(t, int64(10), items[0].Quantity)
	assert.Equal(t, int64(5000), items[0].Price)
	assert.Equal(t, int64(11), items[1].ProductID)
	assert.Equal(t, int64(4), items[1].Quantity)
	assert.Equal(t, int64(2500), items[1].Price)
	for _, item := range items {
		assert.Equal(t, int64(1), item.BranchID)
		assert.Equal(t, time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), item.Date)
	}

	assert.Equal(t, StepHome, s.Current)
	assert.Empty(t, s.Form.Items)
}

func TestBackWalksFormBackwards(t *testing.T) {
	h := newHarness(t)
	var s flow.Session
	c := &fakeContext{}

	h.callback(t, &s, "activity_production")
	h.callback(t, &s, "branch_1")
	assert.Equal(t, StepProductionDate, s.Current)

	require.NoError(t, h.disp.Back(context.Background(), c, &s))
	assert.Equal(t, StepProductionBranch, s.Current)

	require.NoError(t, h.disp.Back(context.Background(), c, &s))
	assert.Equal(t, StepHome, s.Current)

	// Back with nothing stacked resets to home.
	require.NoError(t, h.disp.Back(context.Background(), c, &s))
	assert.Equal(t, StepHome, s.Current)
	assert.Empty(t, s.Stack)
}

func TestWorkersPromptMarksPresence(t *testing.T) {
	h := newHarness(t)
	var s flow.Session
	s.Form.BranchID = 1
	s.Form.Workers = []int64{1, 3}

	prompt, err := workersPrompt(context.Background(), h.deps, &s)
	require.NoError(t, err)
	require.NotNil(t, prompt.Markup)

	var labels []string
	for _, row := range prompt.Markup.InlineKeyboard {
		for _, btn := range row {
			labels = append(labels, btn.Text)
		}
	}
	assert.Contains(t, labels, "✅ Anvar")
	assert.Contains(t, labels, "Bekzod")
	assert.Contains(t, labels, "✅ Davron")
	assert.Contains(t, labels, btnReady)
}

func TestSalaryReportNoRecords(t *testing.T) {
	h := newHarness(t)
	var s flow.Session
	s.Reset(StepSalaryPeriod)
	s.Form.BranchID = 1

	c := &fakeContext{callback: &tele.Callback{}}
	require.NoError(t, h.disp.HandleInput(context.Background(), c, &s, flow.KindCallback, "month_8"))
	assert.Equal(t, msgNoRecords, c.lastText(t))
	assert.Equal(t, StepHome, s.Current)
}

func TestAuthorize(t *testing.T) {
	h := newHarness(t)

	user, err := h.deps.Authorize(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "Akbar", user.FirstName)

	_, err = h.deps.Authorize(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = h.deps.Authorize(context.Background(), 0)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHomePrompt(t *testing.T) {
	h := newHarness(t)
	var s flow.Session

	ctx := contextWithUser(100)
	prompt, err := homePrompt(ctx, h.deps, &s)
	require.NoError(t, err)
	assert.Contains(t, prompt.Text, "Akbar")
	require.NotNil(t, prompt.Markup)

	prompt, err = homePrompt(contextWithUser(999), h.deps, &s)
	require.NoError(t, err)
	assert.Equal(t, msgAccessDenied, prompt.Text)
	assert.Nil(t, prompt.Markup)
}
