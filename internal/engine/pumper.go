package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"green2/internal/connection"
	"green2/internal/schema"
	"green2/internal/tables"
)

// PumpResult summarizes the rows pumped into a single table.
type PumpResult struct {
	TableName string
	Target    int
	Actual    int
	Status    string
	ErrorMsg  string
}

// Pump inserts count generated members and the common nicknames. Only columns
// existing in the database are filled.
func Pump(ctx context.Context, conn *connection.Connection, gen *Generator, count int, onProgress func()) ([]PumpResult, error) {
	var results []PumpResult

	next, err := maxMembershipNumber(ctx, conn)
	if err != nil {
		return nil, err
	}
	result, err := pumpTable(ctx, conn, tables.Members, count, func(int) ([]value, error) {
		next++
		m, err := gen.Member(next)
		if err != nil {
			return nil, err
		}
		return memberValues(m), nil
	}, onProgress)
	if err != nil {
		return nil, err
	}
	results = append(results, result)

	names := make([]string, 0, len(Nicknames))
	for name := range Nicknames {
		names = append(names, name)
	}
	sort.Strings(names)
	result, err = pumpTable(ctx, conn, tables.Nicknames, len(names), func(attempt int) ([]value, error) {
		name := names[(attempt-1)%len(names)]
		return nicknameValues(name, Nicknames[name]), nil
	}, onProgress)
	if err != nil {
		return nil, err
	}
	return append(results, result), nil
}

// pumpTable inserts rows produced by row until target rows were inserted or
// target*10 attempts were made.
func pumpTable(ctx context.Context, conn *connection.Connection, table schema.Table, target int,
	row func(attempt int) ([]value, error), onProgress func()) (PumpResult, error) {
	result := PumpResult{TableName: table.Name(), Target: target}

	exists, err := conn.TableExists(ctx, table)
	if err != nil {
		return result, err
	}
	if !exists {
		result.Status = "MISSING TABLE"
		result.ErrorMsg = "Table does not exist, run the check command first."
		return result, nil
	}

	live, err := conn.AllColumns(ctx, table)
	if err != nil {
		return result, err
	}
	initialCount, err := countRows(ctx, conn, table.Name())
	if err != nil {
		return result, err
	}

	d := conn.Info().Dialect
	inserted, attempts := 0, 0
	for inserted < target && attempts < target*10 {
		attempts++
		values, err := row(attempts)
		if err != nil {
			return result, err
		}
		columns, literals := restrict(values, live, d.Literal)
		statement, err := d.Insert(table.Name(), columns, literals)
		if err != nil {
			return result, err
		}
		if err := conn.ExecUpdate(ctx, statement); err != nil {
			if attempts <= 3 {
				log.Debug().Err(err).Str("table", table.Name()).Int("attempt", attempts).Str("sql", statement).
					Msg("Insert failed")
			}
			continue
		}
		inserted++
		if onProgress != nil {
			onProgress()
		}
	}

	finalCount, err := countRows(ctx, conn, table.Name())
	if err != nil {
		return result, err
	}
	result.Actual = finalCount - initialCount
	result.Status = "OK"
	if result.Actual < target {
		result.Status = "MISSING DATA"
		switch {
		case inserted == 0 && attempts > 0:
			result.ErrorMsg = "Failed to insert any rows. Check logs for details."
		default:
			result.ErrorMsg = fmt.Sprintf("Only inserted %d out of %d. Duplicate keys?", result.Actual, target)
		}
	}
	return result, nil
}

// restrict drops the values of columns missing in the database.
func restrict(values []value, live []connection.LiveColumn, literal func(schema.ColumnType, string) string) (columns, literals []string) {
	exists := make(map[string]bool, len(live))
	for _, c := range live {
		exists[strings.ToLower(c.Name)] = true
	}
	for _, v := range values {
		if exists[strings.ToLower(v.column)] {
			columns = append(columns, v.column)
			literals = append(literals, literal(v.typ, v.literal))
		}
	}
	return columns, literals
}

// singleValue returns the only value of a one row, one column result.
func singleValue(ctx context.Context, conn *connection.Connection, query string) (string, bool, error) {
	result, err := conn.ExecQuery(ctx, query)
	if err != nil {
		return "", false, err
	}
	if len(result) < 2 || len(result[1]) == 0 || !result[1][0].Valid {
		return "", false, nil
	}
	return strings.TrimSpace(result[1][0].String), true, nil
}

func countRows(ctx context.Context, conn *connection.Connection, table string) (int, error) {
	d := conn.Info().Dialect
	value, ok, err := singleValue(ctx, conn, "SELECT COUNT(*) FROM "+d.QuoteIdentifier(table))
	if err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", table, err)
	}
	if !ok {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func maxMembershipNumber(ctx context.Context, conn *connection.Connection) (int, error) {
	exists, err := conn.ColumnExists(ctx, tables.Members, "Mitgliedsnummer")
	if err != nil || !exists {
		return 0, err
	}
	d := conn.Info().Dialect
	value, ok, err := singleValue(ctx, conn, fmt.Sprintf("SELECT MAX(%s) FROM %s",
		d.QuoteIdentifier("Mitgliedsnummer"), d.QuoteIdentifier(tables.Members.Name())))
	if err != nil {
		return 0, fmt.Errorf("failed to find the highest membership number: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return strconv.Atoi(value)
}

// VerifyInjection counts the rows of every pumped table again.
func VerifyInjection(ctx context.Context, conn *connection.Connection, results []PumpResult) []PumpResult {
	var verifiedResults []PumpResult
	for _, res := range results {
		verified := res
		currentCount, err := countRows(ctx, conn, res.TableName)
		switch {
		case err != nil:
			verified.Status = fmt.Sprintf("VERIFY_FAIL: %v", err)
		case currentCount < res.Target:
			verified.Status = fmt.Sprintf("PARTIAL: %d/%d", currentCount, res.Target)
		default:
			verified.Status = "VERIFIED_OK"
		}
		verified.Actual = currentCount
		verifiedResults = append(verifiedResults, verified)
	}
	return verifiedResults
}

// Clean deletes all rows of the declared tables existing in the database.
func Clean(ctx context.Context, conn *connection.Connection) error {
	d := conn.Info().Dialect
	declared := conn.Tables()
	for i := len(declared) - 1; i >= 0; i-- {
		table := declared[i]
		exists, err := conn.TableExists(ctx, table)
		if err != nil {
			return err
		}
		if !exists {
			log.Debug().Str("table", table.Name()).Msg("Skipping missing table")
			continue
		}
		statement, err := d.ClearTable(table.Name())
		if err != nil {
			return err
		}
		if err := conn.ExecUpdate(ctx, statement); err != nil {
			return fmt.Errorf("failed to clean %s: %w", table.Name(), err)
		}
		log.Info().Str("table", table.Name()).Msg("Cleaned table")
	}
	return nil
}
