// Package repo provides clickhouse access for signal datasets
package repo

import (
	"context"
	"fmt"
	"strings"

	"profitscout/internal/modkit/repokit"
	"profitscout/internal/platform/store"
)

// Repo is the query engine surface the resolver needs
type Repo interface {
	// LatestDay returns the newest run date of table; ok is false for an empty table
	LatestDay(ctx context.Context, table string) (day string, ok bool, err error)
	// Signals returns rows for one run date, ordered by the score expression
	Signals(ctx context.Context, p Params) ([]Row, error)
	// Tickers returns distinct tickers for one run date, ordered ascending
	Tickers(ctx context.Context, p TickerParams) ([]string, error)
}

// Params filter a signals query; empty strings disable a filter and Limit 0 means no limit
type Params struct {
	Table          string
	Day            string
	Ticker         string
	OptionType     string
	ExpirationDate string
	Limit          int
}

// TickerParams filter a ticker listing
type TickerParams struct {
	Table      string
	Day        string
	Prefix     string
	OptionType string
	Limit      int
	Offset     int
}

// Row mirrors the selected columns
type Row struct {
	Ticker           string
	RunDate          string
	OptionType       string
	ContractSymbol   string
	ExpirationDate   string
	Strike           float64
	DaysToExpiration int32
	SetupQuality     string
	TrendAligned     uint8
	IVFavorable      uint8
}

type queries struct{ db repokit.Columnar }

// NewCH binds the repo to the clickhouse seam
func NewCH(db repokit.Columnar) Repo {
	if db == nil {
		panic("signals repo requires a non nil clickhouse seam")
	}
	return &queries{db: db}
}

// table names come from the validated policy; they cannot be bound as parameters

func (r *queries) LatestDay(ctx context.Context, table string) (string, bool, error) {
	sql := fmt.Sprintf(`select toString(max(run_date)), count() from %s`, table)
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return "", false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return "", false, rows.Err()
	}
	var (
		day string
		n   uint64
	)
	if err := rows.Scan(&day, &n); err != nil {
		return "", false, err
	}
	if n == 0 {
		return "", false, rows.Err()
	}
	return day, true, rows.Err()
}

func (r *queries) Signals(ctx context.Context, p Params) ([]Row, error) {
	var (
		b    strings.Builder
		args = []any{p.Day}
	)
	fmt.Fprintf(&b, `
select ticker, toString(run_date), option_type, contract_symbol, toString(expiration_date),
       toFloat64(strike), toInt32(days_to_expiration), setup_quality_signal,
       toUInt8(is_trend_aligned), toUInt8(is_iv_favorable)
from %s
where run_date = toDate(?)`, p.Table)
	if p.Ticker != "" {
		b.WriteString("\nand ticker = ?")
		args = append(args, p.Ticker)
	}
	if p.OptionType != "" {
		b.WriteString("\nand option_type = ?")
		args = append(args, p.OptionType)
	}
	if p.ExpirationDate != "" {
		b.WriteString("\nand expiration_date = toDate(?)")
		args = append(args, p.ExpirationDate)
	}
	b.WriteString(`
order by multiIf(lower(setup_quality_signal) = 'high', 3, lower(setup_quality_signal) = 'medium', 2, lower(setup_quality_signal) = 'low', 1, 0) desc,
         toUInt8(is_trend_aligned) desc, toUInt8(is_iv_favorable) desc,
         ticker asc, expiration_date asc, strike asc, contract_symbol asc`)
	if p.Limit > 0 {
		b.WriteString("\nlimit ?")
		args = append(args, p.Limit)
	}

	return store.Many(ctx, r.db, scanRow, b.String(), args...)
}

func scanRow(row store.Row) (Row, error) {
	var rr Row
	err := row.Scan(
		&rr.Ticker, &rr.RunDate, &rr.OptionType, &rr.ContractSymbol, &rr.ExpirationDate,
		&rr.Strike, &rr.DaysToExpiration, &rr.SetupQuality, &rr.TrendAligned, &rr.IVFavorable,
	)
	return rr, err
}

func (r *queries) Tickers(ctx context.Context, p TickerParams) ([]string, error) {
	var (
		b    strings.Builder
		args = []any{p.Day}
	)
	fmt.Fprintf(&b, "select distinct ticker from %s\nwhere run_date = toDate(?)", p.Table)
	if p.Prefix != "" {
		b.WriteString("\nand startsWith(ticker, ?)")
		args = append(args, p.Prefix)
	}
	if p.OptionType != "" {
		b.WriteString("\nand option_type = ?")
		args = append(args, p.OptionType)
	}
	b.WriteString("\norder by ticker asc\nlimit ? offset ?")
	args = append(args, p.Limit, p.Offset)

	return store.Column[string](ctx, r.db, b.String(), args...)
}
