package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"craft-cost/core/engine"
)

const (
	ruleLine      = "────────────────────────"
	nameColumn    = 22
	qtyColumn     = 7
	costColumn    = 12
	timeLayout    = "2006-01-02 15:04:05"
	instantText   = "一次性成功"
	reportTitle   = "制作成本报告"
	reportFooter  = "提示：成本基于当前物价计算，成功率系数已应用。"
	fullSuccessPc = 100
)

// RateText describes a success rate the way the report header does
func RateText(rate decimal.Decimal) string {
	if rate.Equal(decimal.NewFromInt(fullSuccessPc)) {
		return instantText
	}
	return rate.String() + "% 成功率"
}

// TextFormatter renders the plain-text cost report
type TextFormatter struct {
	Options Options
}

// Format implements Formatter
func (f *TextFormatter) Format() Format { return FormatText }

// Render implements Formatter
func (f *TextFormatter) Render(w io.Writer, est *engine.Estimate) error {
	return TextReport(w, est, f.Options)
}

// TextReport writes the cost report: a header describing the product and
// the rate, the rounded total, then every material by descending cost.
func TextReport(w io.Writer, est *engine.Estimate, opts Options) error {
	bw := bufio.NewWriter(w)
	p := est.Product
	cur := opts.CurrencyLabel

	fmt.Fprintf(bw, "%s (版本 %s)\n", reportTitle, opts.Variant)
	fmt.Fprintf(bw, "生成时间: %s\n", opts.now().Format(timeLayout))
	fmt.Fprintf(bw, "产品名称: %s\n", LocalizedName(p.Name, opts.Variant))
	fmt.Fprintf(bw, "制作等级: %s\n", p.Level)
	fmt.Fprintf(bw, "制作职业: %s\n", p.Profession)
	fmt.Fprintf(bw, "计算系数: %dx\n", p.Coefficient)
	fmt.Fprintf(bw, "成功率设定: %s\n", RateText(est.SuccessRate))
	fmt.Fprintf(bw, "成功率系数: %sx\n", est.RetryMultiplier.StringFixed(2))
	fmt.Fprintln(bw, ruleLine)
	fmt.Fprintf(bw, "总成本: %s%s\n", est.Total.StringFixed(0), cur)
	fmt.Fprintln(bw, ruleLine)
	fmt.Fprintln(bw, "成本构成明细:")

	for _, e := range est.Breakdown.Sorted() {
		fmt.Fprintf(bw, "%s x%s  %s%s  (%s%%)\n",
			padRight(LocalizedName(e.Name, opts.Variant), nameColumn),
			padLeft(e.Quantity.Round(0).String(), qtyColumn),
			padLeft(e.Cost.StringFixed(0), costColumn),
			cur,
			est.Share(e).StringFixed(1),
		)
	}

	fmt.Fprintf(bw, "\n%s\n", reportFooter)
	return bw.Flush()
}

// ReportFilename names a saved report after the product, coefficient and
// rate, stamped with the generation time in milliseconds.
func ReportFilename(est *engine.Estimate, opts Options) string {
	p := est.Product
	name := fmt.Sprintf("%s_%s_系数%d_%s_%d.txt",
		p.Profession,
		LocalizedName(p.Name, opts.Variant),
		p.Coefficient,
		RateText(est.SuccessRate),
		opts.now().UnixMilli(),
	)
	return strings.NewReplacer("/", "_", "\\", "_", " ", "").Replace(name)
}

// EstimateView is the JSON shape of one estimate
type EstimateView struct {
	ReportID        string          `json:"report_id"`
	GeneratedAt     time.Time       `json:"generated_at"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Level           string          `json:"level"`
	Profession      string          `json:"profession"`
	Coefficient     int64           `json:"coefficient"`
	SuccessRate     decimal.Decimal `json:"success_rate"`
	RetryMultiplier decimal.Decimal `json:"retry_multiplier"`
	Total           decimal.Decimal `json:"total"`
	Breakdown       []BreakdownView `json:"breakdown"`
}

// BreakdownView is one breakdown line with its share of the total
type BreakdownView struct {
	MaterialID string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"qty"`
	Cost       decimal.Decimal `json:"cost"`
	Share      decimal.Decimal `json:"share"`
}

// NewEstimateView flattens an estimate for serialisation
func NewEstimateView(est *engine.Estimate, opts Options) *EstimateView {
	p := est.Product
	v := &EstimateView{
		ReportID:        uuid.NewString(),
		GeneratedAt:     opts.now().UTC(),
		ProductID:       p.ID,
		ProductName:     LocalizedName(p.Name, opts.Variant),
		Level:           p.Level,
		Profession:      p.Profession,
		Coefficient:     p.Coefficient,
		SuccessRate:     est.SuccessRate,
		RetryMultiplier: est.RetryMultiplier,
		Total:           est.Total,
		Breakdown:       []BreakdownView{},
	}
	for _, e := range est.Breakdown.Sorted() {
		v.Breakdown = append(v.Breakdown, BreakdownView{
			MaterialID: e.MaterialID,
			Name:       LocalizedName(e.Name, opts.Variant),
			Quantity:   e.Quantity,
			Cost:       e.Cost,
			Share:      est.Share(e).Round(2),
		})
	}
	return v
}

// JSONFormatter renders an estimate as indented JSON
type JSONFormatter struct {
	Options Options
}

// Format implements Formatter
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render implements Formatter
func (f *JSONFormatter) Render(w io.Writer, est *engine.Estimate) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewEstimateView(est, f.Options))
}
