package service

import (
	"context"
	"time"

	"dukapos/internal/dto"
	"dukapos/internal/repository"

	"github.com/rs/zerolog"
)

// ExcelWriter renders tabular report rows into a spreadsheet and returns the
// file bytes.
type ExcelWriter interface {
	SalesWorkbook(report *dto.SalesReport) ([]byte, error)
}

type ReportService struct {
	reports repository.ReportRepository
	excel   ExcelWriter
	loc     *time.Location
	log     zerolog.Logger
}

func NewReportService(reports repository.ReportRepository, excel ExcelWriter, loc *time.Location, log zerolog.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		excel:   excel,
		loc:     loc,
		log:     log.With().Str("component", "report_service").Logger(),
	}
}

func (s *ReportService) Sales(ctx context.Context, filter dto.ReportFilter) (*dto.SalesReport, error) {
	from, to, err := s.parseRange(filter)
	if err != nil {
		return nil, err
	}

	totals, count, err := s.reports.SalesTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	top, err := s.reports.TopProducts(ctx, from, to, 10)
	if err != nil {
		return nil, err
	}
	daily, err := s.reports.DailyTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &dto.SalesReport{
		From:        filter.From,
		To:          filter.To,
		TotalSales:  totals.TotalSales,
		TotalCash:   totals.TotalCash,
		TotalCard:   totals.TotalCard,
		TotalMpesa:  totals.TotalMpesa,
		SaleCount:   count,
		TopProducts: top,
		DailyTotals: daily,
	}, nil
}

// Profit reports net profit for a range: sales minus expenses minus cost of
// goods sold.
func (s *ReportService) Profit(ctx context.Context, filter dto.ReportFilter) (*dto.ProfitReport, error) {
	from, to, err := s.parseRange(filter)
	if err != nil {
		return nil, err
	}

	totals, _, err := s.reports.SalesTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.reports.ExpenseTotal(ctx, from, to)
	if err != nil {
		return nil, err
	}
	cogs, err := s.reports.COGS(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &dto.ProfitReport{
		From:          filter.From,
		To:            filter.To,
		TotalSales:    totals.TotalSales,
		TotalExpenses: expenses,
		TotalCOGS:     cogs,
		NetProfit:     totals.TotalSales.Sub(expenses).Sub(cogs),
	}, nil
}

// Expenses breaks down spending by category over a range.
func (s *ReportService) Expenses(ctx context.Context, filter dto.ReportFilter) (*dto.ExpenseReport, error) {
	from, to, err := s.parseRange(filter)
	if err != nil {
		return nil, err
	}

	total, err := s.reports.ExpenseTotal(ctx, from, to)
	if err != nil {
		return nil, err
	}
	categories, err := s.reports.ExpensesByCategory(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &dto.ExpenseReport{
		From:       filter.From,
		To:         filter.To,
		Total:      total,
		Categories: categories,
	}, nil
}

func (s *ReportService) Valuation(ctx context.Context) (*dto.ValuationReport, error) {
	return s.reports.Valuation(ctx)
}

// SalesExport renders the sales report as an Excel workbook.
func (s *ReportService) SalesExport(ctx context.Context, filter dto.ReportFilter) ([]byte, error) {
	report, err := s.Sales(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.excel.SalesWorkbook(report)
}

// parseRange interprets the from/to dates as whole business days in the
// store's timezone.
func (s *ReportService) parseRange(filter dto.ReportFilter) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation("2006-01-02", filter.From, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.ParseInLocation("2006-01-02", filter.To, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to.Add(24*time.Hour - time.Nanosecond), nil
}
