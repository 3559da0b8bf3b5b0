package reports

import (
	"sort"
	"strconv"

	"loancli/pkg/contracts/domain"
)

// PortfolioOverview is the ungrouped portfolio totals report.
type PortfolioOverview struct {
	TotalLoans      int
	UniqueCustomers int
	TotalPrincipal  float64
	AvgLoanAmount   float64
	AvgInterestRate float64
	AvgCreditScore  float64
	DefaultedLoans  int
	DefaultRate     float64
}

// BuildPortfolioOverview computes portfolio-level totals and averages.
func BuildPortfolioOverview(records []domain.LoanRecord) PortfolioOverview {
	overview := PortfolioOverview{TotalLoans: len(records)}

	customers := make(map[string]struct{})
	var amountSum, rateSum, scoreSum float64
	for _, record := range records {
		customers[record.CustomerID] = struct{}{}
		amountSum += record.LoanAmount
		rateSum += record.InterestRate
		scoreSum += record.CreditScore
		if domain.IsDefaulted(record.LoanStatus) {
			overview.DefaultedLoans++
		}
	}

	overview.UniqueCustomers = len(customers)
	overview.TotalPrincipal = amountSum
	overview.AvgLoanAmount = average(amountSum, len(records))
	overview.AvgInterestRate = average(rateSum, len(records))
	overview.AvgCreditScore = average(scoreSum, len(records))
	overview.DefaultRate = percentOf(overview.DefaultedLoans, len(records))

	return overview
}

// Table renders the overview as a metric/value table.
func (o PortfolioOverview) Table() Table {
	return Table{
		Name:    "portfolio_overview",
		Title:   "Portfolio Overview",
		Columns: []string{"metric", "value"},
		Rows: [][]string{
			{"total_loans", formatCount(o.TotalLoans)},
			{"unique_customers", formatCount(o.UniqueCustomers)},
			{"total_principal", formatAmount(o.TotalPrincipal)},
			{"avg_loan_amount", formatAmount(o.AvgLoanAmount)},
			{"avg_interest_rate", formatRate(o.AvgInterestRate)},
			{"avg_credit_score", formatScore(o.AvgCreditScore)},
			{"defaulted_loans", formatCount(o.DefaultedLoans)},
			{"default_rate_pct", formatPercent(o.DefaultRate)},
		},
	}
}

// StatusDistributionRow is one loan status with its share of the portfolio.
type StatusDistributionRow struct {
	Status        string
	TotalLoans    int
	ShareOfLoans  float64
	TotalAmount   float64
	AvgLoanAmount float64
}

// BuildStatusDistribution groups by loan status, ordered by loan count
// descending (status ascending on ties).
func BuildStatusDistribution(records []domain.LoanRecord) []StatusDistributionRow {
	type acc struct {
		count  int
		amount float64
	}
	groups := make(map[string]*acc)
	for _, record := range records {
		group, ok := groups[record.LoanStatus]
		if !ok {
			group = &acc{}
			groups[record.LoanStatus] = group
		}
		group.count++
		group.amount += record.LoanAmount
	}

	rows := make([]StatusDistributionRow, 0, len(groups))
	for status, group := range groups {
		rows = append(rows, StatusDistributionRow{
			Status:        status,
			TotalLoans:    group.count,
			ShareOfLoans:  percentOf(group.count, len(records)),
			TotalAmount:   group.amount,
			AvgLoanAmount: average(group.amount, group.count),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalLoans != rows[j].TotalLoans {
			return rows[i].TotalLoans > rows[j].TotalLoans
		}
		return rows[i].Status < rows[j].Status
	})
	return rows
}

// StatusDistributionTable renders the status distribution report.
func StatusDistributionTable(rows []StatusDistributionRow) Table {
	table := Table{
		Name:    "status_distribution",
		Title:   "Loan Status Distribution",
		Columns: []string{"loan_status", "total_loans", "share_pct", "total_amount", "avg_loan_amount"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Status,
			formatCount(row.TotalLoans),
			formatPercent(row.ShareOfLoans),
			formatAmount(row.TotalAmount),
			formatAmount(row.AvgLoanAmount),
		})
	}
	return table
}

// CreditBandRow is one credit band with its performance metrics.
type CreditBandRow struct {
	Band            string
	TotalLoans      int
	AvgLoanAmount   float64
	AvgInterestRate float64
	DefaultedLoans  int
	DefaultRate     float64
}

// BuildCreditBandAnalysis groups by credit band. All five bands appear in
// band order even when empty, so the report shape is stable.
func BuildCreditBandAnalysis(records []domain.LoanRecord) []CreditBandRow {
	type acc struct {
		count     int
		amount    float64
		rate      float64
		defaulted int
	}
	groups := make(map[string]*acc, len(domain.CreditBands))
	for _, band := range domain.CreditBands {
		groups[band] = &acc{}
	}
	for _, record := range records {
		group := groups[domain.CreditBand(record.CreditScore)]
		group.count++
		group.amount += record.LoanAmount
		group.rate += record.InterestRate
		if domain.IsDefaulted(record.LoanStatus) {
			group.defaulted++
		}
	}

	rows := make([]CreditBandRow, 0, len(domain.CreditBands))
	for _, band := range domain.CreditBands {
		group := groups[band]
		rows = append(rows, CreditBandRow{
			Band:            band,
			TotalLoans:      group.count,
			AvgLoanAmount:   average(group.amount, group.count),
			AvgInterestRate: average(group.rate, group.count),
			DefaultedLoans:  group.defaulted,
			DefaultRate:     percentOf(group.defaulted, group.count),
		})
	}
	return rows
}

// CreditBandTable renders the credit band report.
func CreditBandTable(rows []CreditBandRow) Table {
	table := Table{
		Name:    "credit_band_analysis",
		Title:   "Credit Band Analysis",
		Columns: []string{"credit_band", "total_loans", "avg_loan_amount", "avg_interest_rate", "defaulted_loans", "default_rate_pct"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Band,
			formatCount(row.TotalLoans),
			formatAmount(row.AvgLoanAmount),
			formatRate(row.AvgInterestRate),
			formatCount(row.DefaultedLoans),
			formatPercent(row.DefaultRate),
		})
	}
	return table
}

// PurposePerformanceRow is one loan purpose with its performance metrics.
type PurposePerformanceRow struct {
	Purpose        string
	TotalLoans     int
	TotalAmount    float64
	AvgLoanAmount  float64
	DefaultedLoans int
	DefaultRate    float64
}

// BuildPurposePerformance groups by purpose, ordered by loan count
// descending (purpose ascending on ties).
func BuildPurposePerformance(records []domain.LoanRecord) []PurposePerformanceRow {
	type acc struct {
		count     int
		amount    float64
		defaulted int
	}
	groups := make(map[string]*acc)
	for _, record := range records {
		group, ok := groups[record.Purpose]
		if !ok {
			group = &acc{}
			groups[record.Purpose] = group
		}
		group.count++
		group.amount += record.LoanAmount
		if domain.IsDefaulted(record.LoanStatus) {
			group.defaulted++
		}
	}

	rows := make([]PurposePerformanceRow, 0, len(groups))
	for purpose, group := range groups {
		rows = append(rows, PurposePerformanceRow{
			Purpose:        purpose,
			TotalLoans:     group.count,
			TotalAmount:    group.amount,
			AvgLoanAmount:  average(group.amount, group.count),
			DefaultedLoans: group.defaulted,
			DefaultRate:    percentOf(group.defaulted, group.count),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalLoans != rows[j].TotalLoans {
			return rows[i].TotalLoans > rows[j].TotalLoans
		}
		return rows[i].Purpose < rows[j].Purpose
	})
	return rows
}

// PurposePerformanceTable renders the purpose performance report.
func PurposePerformanceTable(rows []PurposePerformanceRow) Table {
	table := Table{
		Name:    "purpose_performance",
		Title:   "Purpose Performance",
		Columns: []string{"purpose", "total_loans", "total_amount", "avg_loan_amount", "defaulted_loans", "default_rate_pct"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Purpose,
			formatCount(row.TotalLoans),
			formatAmount(row.TotalAmount),
			formatAmount(row.AvgLoanAmount),
			formatCount(row.DefaultedLoans),
			formatPercent(row.DefaultRate),
		})
	}
	return table
}

// MonthlyTrendRow is one application month with its volume metrics.
type MonthlyTrendRow struct {
	Month         string // "2006-01"
	TotalLoans    int
	TotalAmount   float64
	AvgLoanAmount float64
}

// BuildMonthlyTrends groups by application year-month, ascending. Records
// without an application date are excluded from this report.
func BuildMonthlyTrends(records []domain.LoanRecord) []MonthlyTrendRow {
	type acc struct {
		count  int
		amount float64
	}
	groups := make(map[string]*acc)
	for _, record := range records {
		if record.ApplicationDate == nil {
			continue
		}
		month := record.ApplicationDate.Format("2006-01")
		group, ok := groups[month]
		if !ok {
			group = &acc{}
			groups[month] = group
		}
		group.count++
		group.amount += record.LoanAmount
	}

	rows := make([]MonthlyTrendRow, 0, len(groups))
	for month, group := range groups {
		rows = append(rows, MonthlyTrendRow{
			Month:         month,
			TotalLoans:    group.count,
			TotalAmount:   group.amount,
			AvgLoanAmount: average(group.amount, group.count),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows
}

// MonthlyTrendTable renders the monthly trends report.
func MonthlyTrendTable(rows []MonthlyTrendRow) Table {
	table := Table{
		Name:    "monthly_trends",
		Title:   "Monthly Application Trends",
		Columns: []string{"month", "total_loans", "total_amount", "avg_loan_amount"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Month,
			formatCount(row.TotalLoans),
			formatAmount(row.TotalAmount),
			formatAmount(row.AvgLoanAmount),
		})
	}
	return table
}

// SegmentRow is one cell of the income/amount segmentation grid.
type SegmentRow struct {
	Segment         string
	TotalLoans      int
	AvgLoanAmount   float64
	AvgInterestRate float64
	DefaultedLoans  int
	DefaultRate     float64
}

// BuildCustomerSegmentation groups records onto the 2x2 grid of annual
// income (>= / < 80000) crossed with loan amount (>= / < 25000). All four
// segments appear in fixed order even when empty.
func BuildCustomerSegmentation(records []domain.LoanRecord) []SegmentRow {
	type acc struct {
		count     int
		amount    float64
		rate      float64
		defaulted int
	}
	groups := make(map[string]*acc, len(domain.CustomerSegments))
	for _, segment := range domain.CustomerSegments {
		groups[segment] = &acc{}
	}
	for _, record := range records {
		group := groups[domain.CustomerSegment(record.AnnualIncome, record.LoanAmount)]
		group.count++
		group.amount += record.LoanAmount
		group.rate += record.InterestRate
		if domain.IsDefaulted(record.LoanStatus) {
			group.defaulted++
		}
	}

	rows := make([]SegmentRow, 0, len(domain.CustomerSegments))
	for _, segment := range domain.CustomerSegments {
		group := groups[segment]
		rows = append(rows, SegmentRow{
			Segment:         segment,
			TotalLoans:      group.count,
			AvgLoanAmount:   average(group.amount, group.count),
			AvgInterestRate: average(group.rate, group.count),
			DefaultedLoans:  group.defaulted,
			DefaultRate:     percentOf(group.defaulted, group.count),
		})
	}
	return rows
}

// SegmentationTable renders the customer segmentation report.
func SegmentationTable(rows []SegmentRow) Table {
	table := Table{
		Name:    "customer_segmentation",
		Title:   "Customer Segmentation",
		Columns: []string{"segment", "total_loans", "avg_loan_amount", "avg_interest_rate", "defaulted_loans", "default_rate_pct"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Segment,
			formatCount(row.TotalLoans),
			formatAmount(row.AvgLoanAmount),
			formatRate(row.AvgInterestRate),
			formatCount(row.DefaultedLoans),
			formatPercent(row.DefaultRate),
		})
	}
	return table
}

// RiskFactorRow is one dominant risk factor with its cohort metrics.
type RiskFactorRow struct {
	Factor         string
	TotalLoans     int
	AvgLoanAmount  float64
	AvgCreditScore float64
	DefaultedLoans int
	DefaultRate    float64
}

// BuildRiskFactorAnalysis selects records with at least one risk condition
// (credit score below 650, debt-to-income above 0.50, or interest rate above
// 8.0) and classifies each by its dominant factor, first match wins. Factors
// appear in classification order; the "Other" arm of the classifier cannot
// be reached through this filter, so it only ever shows up if the filter and
// classifier drift apart.
func BuildRiskFactorAnalysis(records []domain.LoanRecord) []RiskFactorRow {
	type acc struct {
		count     int
		amount    float64
		score     float64
		defaulted int
	}
	groups := make(map[string]*acc)
	for _, record := range records {
		if !record.AtRisk() {
			continue
		}
		factor := record.RiskFactor()
		group, ok := groups[factor]
		if !ok {
			group = &acc{}
			groups[factor] = group
		}
		group.count++
		group.amount += record.LoanAmount
		group.score += record.CreditScore
		if domain.IsDefaulted(record.LoanStatus) {
			group.defaulted++
		}
	}

	var rows []RiskFactorRow
	for _, factor := range domain.RiskFactors {
		group, ok := groups[factor]
		if !ok {
			continue
		}
		rows = append(rows, RiskFactorRow{
			Factor:         factor,
			TotalLoans:     group.count,
			AvgLoanAmount:  average(group.amount, group.count),
			AvgCreditScore: average(group.score, group.count),
			DefaultedLoans: group.defaulted,
			DefaultRate:    percentOf(group.defaulted, group.count),
		})
	}
	return rows
}

// RiskFactorTable renders the risk factor report.
func RiskFactorTable(rows []RiskFactorRow) Table {
	table := Table{
		Name:    "risk_factor_analysis",
		Title:   "Risk Factor Analysis",
		Columns: []string{"risk_factor", "total_loans", "avg_loan_amount", "avg_credit_score", "defaulted_loans", "default_rate_pct"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Factor,
			formatCount(row.TotalLoans),
			formatAmount(row.AvgLoanAmount),
			formatScore(row.AvgCreditScore),
			formatCount(row.DefaultedLoans),
			formatPercent(row.DefaultRate),
		})
	}
	return table
}

// ProfitabilityRow is one loan category under the portfolio loss model.
type ProfitabilityRow struct {
	Category       string
	TotalLoans     int
	TotalPrincipal float64
	TotalInterest  float64
	EstimatedLoss  float64
	NetRevenue     float64
}

// BuildProfitability applies the loss model per loan category: Charged Off
// loses 80% of principal, any late status loses 20%, everything else loses
// nothing. Net revenue is total interest minus estimated loss. A final "All"
// row totals the portfolio.
func BuildProfitability(records []domain.LoanRecord) []ProfitabilityRow {
	type acc struct {
		count     int
		principal float64
		interest  float64
		loss      float64
	}
	groups := make(map[string]*acc, len(domain.LoanCategories))
	for _, category := range domain.LoanCategories {
		groups[category] = &acc{}
	}
	total := &acc{}
	for _, record := range records {
		loss := record.LoanAmount * domain.EstimatedLossRate(record.LoanStatus)
		for _, group := range []*acc{groups[record.LoanCategory], total} {
			if group == nil {
				continue
			}
			group.count++
			group.principal += record.LoanAmount
			group.interest += record.TotalInterest
			group.loss += loss
		}
	}

	rows := make([]ProfitabilityRow, 0, len(domain.LoanCategories)+1)
	build := func(name string, group *acc) ProfitabilityRow {
		return ProfitabilityRow{
			Category:       name,
			TotalLoans:     group.count,
			TotalPrincipal: group.principal,
			TotalInterest:  group.interest,
			EstimatedLoss:  group.loss,
			NetRevenue:     group.interest - group.loss,
		}
	}
	for _, category := range domain.LoanCategories {
		rows = append(rows, build(category, groups[category]))
	}
	rows = append(rows, build("All", total))
	return rows
}

// ProfitabilityTable renders the profitability report.
func ProfitabilityTable(rows []ProfitabilityRow) Table {
	table := Table{
		Name:    "profitability",
		Title:   "Profitability by Loan Category",
		Columns: []string{"loan_category", "total_loans", "total_principal", "total_interest", "estimated_loss", "net_revenue"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Category,
			formatCount(row.TotalLoans),
			formatAmount(row.TotalPrincipal),
			formatAmount(row.TotalInterest),
			formatAmount(row.EstimatedLoss),
			formatAmount(row.NetRevenue),
		})
	}
	return table
}

// TermComparisonRow is one loan term with its performance metrics.
type TermComparisonRow struct {
	TermMonths       int
	TotalLoans       int
	AvgLoanAmount    float64
	AvgInterestRate  float64
	AvgTotalInterest float64
	DefaultedLoans   int
	DefaultRate      float64
}

// BuildTermComparison groups by loan term in months, ascending.
func BuildTermComparison(records []domain.LoanRecord) []TermComparisonRow {
	type acc struct {
		count     int
		amount    float64
		rate      float64
		interest  float64
		defaulted int
	}
	groups := make(map[int]*acc)
	for _, record := range records {
		group, ok := groups[record.LoanTerm]
		if !ok {
			group = &acc{}
			groups[record.LoanTerm] = group
		}
		group.count++
		group.amount += record.LoanAmount
		group.rate += record.InterestRate
		group.interest += record.TotalInterest
		if domain.IsDefaulted(record.LoanStatus) {
			group.defaulted++
		}
	}

	rows := make([]TermComparisonRow, 0, len(groups))
	for term, group := range groups {
		rows = append(rows, TermComparisonRow{
			TermMonths:       term,
			TotalLoans:       group.count,
			AvgLoanAmount:    average(group.amount, group.count),
			AvgInterestRate:  average(group.rate, group.count),
			AvgTotalInterest: average(group.interest, group.count),
			DefaultedLoans:   group.defaulted,
			DefaultRate:      percentOf(group.defaulted, group.count),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TermMonths < rows[j].TermMonths })
	return rows
}

// TermComparisonTable renders the term comparison report.
func TermComparisonTable(rows []TermComparisonRow) Table {
	table := Table{
		Name:    "term_comparison",
		Title:   "Loan Term Comparison",
		Columns: []string{"term_months", "total_loans", "avg_loan_amount", "avg_interest_rate", "avg_total_interest", "defaulted_loans", "default_rate_pct"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(row.TermMonths),
			formatCount(row.TotalLoans),
			formatAmount(row.AvgLoanAmount),
			formatRate(row.AvgInterestRate),
			formatAmount(row.AvgTotalInterest),
			formatCount(row.DefaultedLoans),
			formatPercent(row.DefaultRate),
		})
	}
	return table
}

// TenureImpactRow is one employment-length group with its risk metrics.
type TenureImpactRow struct {
	EmploymentGroup string
	TotalLoans      int
	AvgLoanAmount   float64
	AvgCreditScore  float64
	AvgInterestRate float64
	DefaultedLoans  int
	DefaultRate     float64
}

// BuildTenureImpact groups by employment-length bucket, ordered by tenure
// (0 / 1-2 / 3-5 / 6-10 / 10+), not alphabetically. All groups appear even
// when empty.
func BuildTenureImpact(records []domain.LoanRecord) []TenureImpactRow {
	type acc struct {
		count     int
		amount    float64
		score     float64
		rate      float64
		defaulted int
	}
	groups := make(map[string]*acc, len(domain.EmploymentGroups))
	for _, group := range domain.EmploymentGroups {
		groups[group] = &acc{}
	}
	for _, record := range records {
		group := groups[domain.EmploymentGroup(record.EmploymentLength)]
		group.count++
		group.amount += record.LoanAmount
		group.score += record.CreditScore
		group.rate += record.InterestRate
		if domain.IsDefaulted(record.LoanStatus) {
			group.defaulted++
		}
	}

	rows := make([]TenureImpactRow, 0, len(domain.EmploymentGroups))
	for _, name := range domain.EmploymentGroups {
		group := groups[name]
		rows = append(rows, TenureImpactRow{
			EmploymentGroup: name,
			TotalLoans:      group.count,
			AvgLoanAmount:   average(group.amount, group.count),
			AvgCreditScore:  average(group.score, group.count),
			AvgInterestRate: average(group.rate, group.count),
			DefaultedLoans:  group.defaulted,
			DefaultRate:     percentOf(group.defaulted, group.count),
		})
	}
	return rows
}

// TenureImpactTable renders the tenure impact report.
func TenureImpactTable(rows []TenureImpactRow) Table {
	table := Table{
		Name:    "tenure_impact",
		Title:   "Employment Tenure Impact",
		Columns: []string{"employment_group", "total_loans", "avg_loan_amount", "avg_credit_score", "avg_interest_rate", "defaulted_loans", "default_rate_pct"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.EmploymentGroup,
			formatCount(row.TotalLoans),
			formatAmount(row.AvgLoanAmount),
			formatScore(row.AvgCreditScore),
			formatRate(row.AvgInterestRate),
			formatCount(row.DefaultedLoans),
			formatPercent(row.DefaultRate),
		})
	}
	return table
}

// AllTables runs every report over the snapshot and returns the tables in
// their canonical order. Reports are independent pure reads, so order is a
// presentation choice only.
func AllTables(records []domain.LoanRecord) []Table {
	return []Table{
		BuildPortfolioOverview(records).Table(),
		StatusDistributionTable(BuildStatusDistribution(records)),
		CreditBandTable(BuildCreditBandAnalysis(records)),
		PurposePerformanceTable(BuildPurposePerformance(records)),
		MonthlyTrendTable(BuildMonthlyTrends(records)),
		SegmentationTable(BuildCustomerSegmentation(records)),
		RiskFactorTable(BuildRiskFactorAnalysis(records)),
		ProfitabilityTable(BuildProfitability(records)),
		TermComparisonTable(BuildTermComparison(records)),
		TenureImpactTable(BuildTenureImpact(records)),
	}
}
