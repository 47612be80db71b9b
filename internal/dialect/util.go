package dialect

import (
	"strings"

	"green2/internal/schema"
)

// normalizeType strips parameters and case from a SQL type, e.g. "VARCHAR(255)" becomes "varchar".
func normalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// numericBooleans spells boolean literals as 1 and 0 for DBMS without a boolean literal.
func numericBooleans(typ schema.ColumnType, literal string) string {
	if typ != schema.TypeBoolean {
		return literal
	}
	switch literal {
	case "TRUE":
		return "1"
	case "FALSE":
		return "0"
	default:
		return literal
	}
}
