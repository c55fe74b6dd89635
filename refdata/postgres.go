package refdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/meenmo/bondlib/calendar"
	"github.com/meenmo/bondlib/conventions"
	"github.com/meenmo/bondlib/curve"
	"github.com/meenmo/bondlib/daycount"
)

// PostgresStore reads the securities master, the preference aggregates and
// the benchmark curve quotes from Postgres.
//
// Expected tables:
//
//	securities(code, issuer, ticker, coupon_pct, maturity, issue_date,
//	           currency, country, category, day_count, business_day,
//	           frequency, end_of_month)
//	convention_prefs(ticker, day_count, business_day, frequency,
//	                 end_of_month, observations)
//	benchmark_quotes(curve_date, tenor, rate_pct)
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects with the lib/pq driver and pings the server.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// LoadSnapshot reads all three tables into an immutable Snapshot.
func (s *PostgresStore) LoadSnapshot(ctx context.Context, curveDate time.Time) (*Snapshot, error) {
	master, err := s.loadSecurities(ctx)
	if err != nil {
		return nil, fmt.Errorf("load securities: %w", err)
	}
	prefs, err := s.loadPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("load convention prefs: %w", err)
	}
	quotes, err := s.loadCurveQuotes(ctx, curveDate)
	if err != nil {
		return nil, fmt.Errorf("load benchmark quotes: %w", err)
	}
	return NewSnapshot(master, prefs, curveDate, quotes), nil
}

func (s *PostgresStore) loadSecurities(ctx context.Context) (*MapSecurityMaster, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, issuer, ticker, coupon_pct, maturity, issue_date,
		       currency, country, category,
		       day_count, business_day, frequency, end_of_month
		FROM securities`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SecurityRecord
	for rows.Next() {
		var (
			rec       SecurityRecord
			issueDate sql.NullTime
			category  string
			dc, bd    sql.NullString
			freq      sql.NullInt64
			eom       sql.NullBool
		)
		if err := rows.Scan(&rec.Code, &rec.Issuer, &rec.Ticker, &rec.CouponPct,
			&rec.Maturity, &issueDate, &rec.Currency, &rec.Country, &category,
			&dc, &bd, &freq, &eom); err != nil {
			return nil, err
		}
		if issueDate.Valid {
			rec.IssueDate = issueDate.Time
		}
		rec.Category = conventions.Category(category)
		if set, ok := scanConventionSet(dc, bd, freq, eom); ok {
			rec.Conventions = &set
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewMapSecurityMaster(records), nil
}

func (s *PostgresStore) loadPreferences(ctx context.Context) (*MapPreferenceTable, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ticker, day_count, business_day, frequency, end_of_month, observations
		FROM convention_prefs
		WHERE observations > 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []PreferenceRow
	for rows.Next() {
		var (
			row    PreferenceRow
			dc, bd sql.NullString
			freq   sql.NullInt64
			eom    sql.NullBool
		)
		if err := rows.Scan(&row.Ticker, &dc, &bd, &freq, &eom, &row.Observations); err != nil {
			return nil, err
		}
		set, ok := scanConventionSet(dc, bd, freq, eom)
		if !ok {
			continue
		}
		row.Set = set
		prefs = append(prefs, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewMapPreferenceTable(prefs), nil
}

func (s *PostgresStore) loadCurveQuotes(ctx context.Context, curveDate time.Time) ([]curve.Quote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tenor, rate_pct
		FROM benchmark_quotes
		WHERE curve_date = $1
		ORDER BY tenor`, curveDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []curve.Quote
	for rows.Next() {
		var q curve.Quote
		if err := rows.Scan(&q.Tenor, &q.RatePct); err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

func scanConventionSet(dc, bd sql.NullString, freq sql.NullInt64, eom sql.NullBool) (conventions.ConventionSet, bool) {
	if !dc.Valid || !bd.Valid || !freq.Valid {
		return conventions.ConventionSet{}, false
	}
	parsed, err := daycount.Parse(dc.String)
	if err != nil {
		return conventions.ConventionSet{}, false
	}
	set := conventions.ConventionSet{
		DayCount:    parsed,
		BusinessDay: calendar.Convention(bd.String),
		Frequency:   conventions.Frequency(freq.Int64),
	}
	if eom.Valid {
		set.EndOfMonth = eom.Bool
	}
	return set, true
}
