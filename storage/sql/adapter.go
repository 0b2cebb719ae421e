package sql

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"ratesync/storage/types"
)

// freshnessFloor is the last-known date reported for tracked currencies
// that have no persisted rates yet, so their first sighting is kept
const freshnessFloor = "1900-01-01"

const listWorkItemsQuery = `
SELECT d::date AS rate_date,
       replace(s.url_template, '{date}', to_char(d, s.date_format)) AS url
FROM sources s,
     generate_series(
         CASE WHEN $2 THEN $3::date ELSE s.history_start END,
         $4::date,
         interval '1 day'
     ) AS d
WHERE s.id = $1
ORDER BY d`

const listFreshnessQuery = `
SELECT tc.code,
       greatest(
           coalesce(max(r.rate_date), DATE '` + freshnessFloor + `'),
           CASE WHEN $2 THEN $3::date - 1 ELSE DATE '` + freshnessFloor + `' END
       ) AS last_date
FROM tracked_currencies tc
LEFT JOIN exchange_rates r
    ON r.source_id = tc.source_id AND r.currency_code = tc.code
WHERE tc.source_id = $1
GROUP BY tc.code`

const persistRateQuery = `
INSERT INTO exchange_rates (source_id, currency_code, rate_date, nominal, value, fetched_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (source_id, currency_code, rate_date)
DO UPDATE SET nominal    = EXCLUDED.nominal,
              value      = EXCLUDED.value,
              fetched_at = EXCLUDED.fetched_at`

// DB is the minimal pgx query surface the gateway needs.
// Both *pgx.Conn and *pgxpool.Pool satisfy it
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Gateway struct {
	db DB
}

func NewGateway(db DB) *Gateway {
	return &Gateway{
		db: db,
	}
}

func (g *Gateway) ListWorkItems(
	ctx context.Context,
	sourceID int,
	window types.DateWindow,
) ([]types.WorkItem, error) {
	rows, err := g.db.Query(
		ctx,
		listWorkItemsQuery,
		sourceID,
		window.EnforceMin,
		timeToDate(window.Min),
		timeToDate(window.Max),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch work items: %w", err)
	}
	defer rows.Close()

	var items []types.WorkItem

	for rows.Next() {
		var (
			date pgtype.Date
			url  string
		)

		if err := rows.Scan(&date, &url); err != nil {
			return nil, fmt.Errorf("unable to scan work item: %w", err)
		}

		items = append(items, types.WorkItem{
			Date: dateToTime(date),
			URL:  url,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to read work items: %w", err)
	}

	return items, nil
}

func (g *Gateway) ListFreshness(
	ctx context.Context,
	sourceID int,
	window types.DateWindow,
) (types.Freshness, error) {
	rows, err := g.db.Query(
		ctx,
		listFreshnessQuery,
		sourceID,
		window.EnforceMin,
		timeToDate(window.Min),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch freshness list: %w", err)
	}
	defer rows.Close()

	freshness := make(types.Freshness)

	for rows.Next() {
		var (
			code     string
			lastDate pgtype.Date
		)

		if err := rows.Scan(&code, &lastDate); err != nil {
			return nil, fmt.Errorf("unable to scan freshness row: %w", err)
		}

		freshness[code] = dateToTime(lastDate)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to read freshness list: %w", err)
	}

	return freshness, nil
}

func (g *Gateway) PersistRate(ctx context.Context, rate *types.Rate) error {
	_, err := g.db.Exec(
		ctx,
		persistRateQuery,
		rate.SourceID,
		rate.CurrencyCode,
		timeToDate(rate.Date),
		rate.Nominal,
		floatToNumeric(rate.Value),
	)
	if err != nil {
		return fmt.Errorf("unable to persist rate: %w", err)
	}

	return nil
}

// floatToNumeric converts the float value to postgres numeric
func floatToNumeric(value float64) pgtype.Numeric {
	// round to 4dp and store as integer with exponent -4
	i := int64(math.Round(value * 1e4))

	return pgtype.Numeric{
		Int:   big.NewInt(i),
		Exp:   -4,
		Valid: true,
	}
}

// timeToDate converts the time value to a postgres date
func timeToDate(t time.Time) pgtype.Date {
	return pgtype.Date{
		Time:  t.UTC(),
		Valid: true,
	}
}

// dateToTime converts the postgres date value to UTC midnight time
func dateToTime(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}

	y, m, day := d.Time.Date()

	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
