package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"dukapos/internal/dto"
	"dukapos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decEq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

func testLogger() zerolog.Logger { return zerolog.Nop() }

// ---- products ----

type stubProducts struct {
	mu       sync.Mutex
	items    map[uuid.UUID]*model.Product
	failDecr error // injected DecrementStockClamped failure
	decrRuns int
}

func newStubProducts(products ...*model.Product) *stubProducts {
	s := &stubProducts{items: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		s.items[p.ID] = p
	}
	return s
}

func (s *stubProducts) Create(_ context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.items[p.ID] = p
	return nil
}

func (s *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProducts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Product
	for _, id := range ids {
		if p, ok := s.items[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubProducts) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Product
	for _, p := range s.items {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (s *stubProducts) ListLowStock(_ context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Product
	for _, p := range s.items {
		if p.LowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubProducts) Update(_ context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[p.ID] = p
	return nil
}

func (s *stubProducts) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *stubProducts) AdjustStock(_ context.Context, id uuid.UUID, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	p.StockQuantity += delta
	return p.StockQuantity, nil
}

func (s *stubProducts) DecrementStockClamped(_ context.Context, id uuid.UUID, qty int) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decrRuns++
	if s.failDecr != nil {
		return 0, 0, s.failDecr
	}
	p, ok := s.items[id]
	if !ok {
		return 0, 0, gorm.ErrRecordNotFound
	}
	before := p.StockQuantity
	applied := qty
	if applied > before {
		applied = before
	}
	p.StockQuantity = before - applied
	return before, applied, nil
}

func (s *stubProducts) DB() *gorm.DB { return nil }

func (s *stubProducts) stock(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id].StockQuantity
}

// ---- sales ----

type stubSales struct {
	mu       sync.Mutex
	sales    map[uuid.UUID]*model.Sale
	items    map[uuid.UUID][]model.SaleItem // by sale ID
	products *stubProducts                  // for COGS in SumByShift
	failCreateItems error
}

func newStubSales(products *stubProducts) *stubSales {
	return &stubSales{
		sales:    make(map[uuid.UUID]*model.Sale),
		items:    make(map[uuid.UUID][]model.SaleItem),
		products: products,
	}
}

func (s *stubSales) Create(_ context.Context, sale *model.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	cp := *sale
	cp.Items = nil
	s.sales[sale.ID] = &cp
	return nil
}

func (s *stubSales) CreateItems(_ context.Context, items []model.SaleItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateItems != nil {
		return s.failCreateItems
	}
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		s.items[item.SaleID] = append(s.items[item.SaleID], item)
	}
	return nil
}

func (s *stubSales) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *sale
	cp.Items = append([]model.SaleItem(nil), s.items[id]...)
	return &cp, nil
}

func (s *stubSales) ListByShift(_ context.Context, shiftID uuid.UUID) ([]model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Sale
	for id, sale := range s.sales {
		if sale.ShiftID == shiftID {
			cp := *sale
			cp.Items = append([]model.SaleItem(nil), s.items[id]...)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (s *stubSales) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Sale
	for _, sale := range s.sales {
		out = append(out, *sale)
	}
	return out, int64(len(out)), nil
}

func (s *stubSales) ListNeedsReconciliation(_ context.Context, limit int) ([]model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Sale
	for _, sale := range s.sales {
		if sale.Status == model.SaleNeedsReconciliation && len(out) < limit {
			out = append(out, *sale)
		}
	}
	return out, nil
}

func (s *stubSales) UpdateSettlement(_ context.Context, id uuid.UUID, state, status string, attempts int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sale.SettlementState = state
	sale.Status = status
	sale.SettlementAttempts = attempts
	return nil
}

func (s *stubSales) SumByShift(_ context.Context, shiftID uuid.UUID) (*dto.ShiftTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	totals := &dto.ShiftTotals{
		TotalSales: decimal.Zero, TotalCash: decimal.Zero, TotalCard: decimal.Zero,
		TotalMpesa: decimal.Zero, TotalCOGS: decimal.Zero,
	}
	for id, sale := range s.sales {
		if sale.ShiftID != shiftID || sale.Status != model.SaleCompleted {
			continue
		}
		totals.TotalSales = totals.TotalSales.Add(sale.TotalAmount)
		switch sale.PaymentMethod {
		case model.PaymentCash:
			totals.TotalCash = totals.TotalCash.Add(sale.TotalAmount)
		case model.PaymentCard:
			totals.TotalCard = totals.TotalCard.Add(sale.TotalAmount)
		case model.PaymentMpesa:
			totals.TotalMpesa = totals.TotalMpesa.Add(sale.TotalAmount)
		}
		for _, item := range s.items[id] {
			if p, ok := s.products.items[item.ProductID]; ok {
				qty := decimal.NewFromInt(int64(item.Quantity))
				totals.TotalCOGS = totals.TotalCOGS.Add(p.CostPrice.Mul(qty))
			}
		}
	}
	return totals, nil
}

func (s *stubSales) DeleteItems(_ context.Context, saleID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, saleID)
	return nil
}

func (s *stubSales) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sales, id)
	return nil
}

func (s *stubSales) DB() *gorm.DB { return nil }

// ---- shifts ----

type stubShifts struct {
	mu     sync.Mutex
	shifts map[uuid.UUID]*model.Shift
}

func newStubShifts() *stubShifts {
	return &stubShifts{shifts: make(map[uuid.UUID]*model.Shift)}
}

func (s *stubShifts) Create(_ context.Context, shift *model.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.shifts {
		if !existing.Closed {
			return gorm.ErrDuplicatedKey
		}
	}
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	shift.TotalSales = decimal.Zero
	shift.TotalCash = decimal.Zero
	shift.TotalCard = decimal.Zero
	shift.TotalMpesa = decimal.Zero
	shift.TotalExpenses = decimal.Zero
	shift.TotalCOGS = decimal.Zero
	cp := *shift
	s.shifts[shift.ID] = &cp
	return nil
}

func (s *stubShifts) FindByID(_ context.Context, id uuid.UUID) (*model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shift, ok := s.shifts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *shift
	return &cp, nil
}

func (s *stubShifts) FindOpen(_ context.Context) (*model.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, shift := range s.shifts {
		if !shift.Closed {
			cp := *shift
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubShifts) Update(_ context.Context, shift *model.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *shift
	s.shifts[shift.ID] = &cp
	return nil
}

func (s *stubShifts) ApplySaleTotals(_ context.Context, id uuid.UUID, bucket string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	shift, ok := s.shifts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	shift.TotalSales = shift.TotalSales.Add(amount)
	switch bucket {
	case "total_cash":
		shift.TotalCash = shift.TotalCash.Add(amount)
	case "total_card":
		shift.TotalCard = shift.TotalCard.Add(amount)
	case "total_mpesa":
		shift.TotalMpesa = shift.TotalMpesa.Add(amount)
	}
	return nil
}

func (s *stubShifts) ListClosed(_ context.Context, _ dto.ShiftFilter) ([]model.Shift, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Shift
	for _, shift := range s.shifts {
		if shift.Closed {
			out = append(out, *shift)
		}
	}
	return out, int64(len(out)), nil
}

// ---- stock movements ----

type stubMovements struct {
	mu      sync.Mutex
	entries []model.StockMovement
}

func newStubMovements() *stubMovements { return &stubMovements{} }

func (s *stubMovements) Create(_ context.Context, m *model.StockMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.entries = append(s.entries, *m)
	return nil
}

func (s *stubMovements) ExistsForReference(_ context.Context, referenceID, productID uuid.UUID, movementType string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.entries {
		if m.ReferenceID != nil && *m.ReferenceID == referenceID &&
			m.ProductID == productID && m.Type == movementType {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubMovements) ListByReference(_ context.Context, referenceID uuid.UUID, movementType string) ([]model.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StockMovement
	for _, m := range s.entries {
		if m.ReferenceID != nil && *m.ReferenceID == referenceID && m.Type == movementType {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMovements) List(_ context.Context, _ dto.StockMovementFilter) ([]model.StockMovement, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]model.StockMovement(nil), s.entries...)
	return out, int64(len(out)), nil
}

func (s *stubMovements) ofType(movementType string) []model.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StockMovement
	for _, m := range s.entries {
		if m.Type == movementType {
			out = append(out, m)
		}
	}
	return out
}

// ---- expenses ----

type stubExpenses struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*model.Expense
}

func newStubExpenses() *stubExpenses {
	return &stubExpenses{entries: make(map[uuid.UUID]*model.Expense)}
}

func (s *stubExpenses) Create(_ context.Context, e *model.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	s.entries[e.ID] = &cp
	return nil
}

func (s *stubExpenses) FindByID(_ context.Context, id uuid.UUID) (*model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *stubExpenses) ListByShift(_ context.Context, shiftID uuid.UUID) ([]model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Expense
	for _, e := range s.entries {
		if e.ShiftID == shiftID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *stubExpenses) ListByRange(_ context.Context, _, _ time.Time) ([]model.Expense, error) {
	return nil, nil
}

func (s *stubExpenses) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *stubExpenses) SumByShift(_ context.Context, shiftID uuid.UUID) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, e := range s.entries {
		if e.ShiftID == shiftID {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// ---- settings ----

type stubSettings struct {
	mu  sync.Mutex
	cfg model.Settings
}

func newStubSettings() *stubSettings {
	return &stubSettings{cfg: model.Settings{
		ID:                  uuid.New(),
		StoreName:           "Test Duka",
		TaxRate:             decimal.Zero,
		Currency:            "KES",
		ShiftAutoRotate:     true,
		AllowPriceBelowBase: true,
	}}
}

func (s *stubSettings) Get(_ context.Context) (*model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.cfg
	return &cp, nil
}

func (s *stubSettings) Update(_ context.Context, cfg *model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = *cfg
	return nil
}

// ---- queue ----

type queuedJob struct {
	queue   string
	payload interface{}
}

type stubQueue struct {
	mu   sync.Mutex
	jobs []queuedJob
}

func newStubQueue() *stubQueue { return &stubQueue{} }

func (s *stubQueue) Enqueue(_ context.Context, queue string, payload interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, queuedJob{queue: queue, payload: payload})
	return nil
}

func (s *stubQueue) onQueue(queue string) []queuedJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []queuedJob
	for _, j := range s.jobs {
		if j.queue == queue {
			out = append(out, j)
		}
	}
	return out
}
