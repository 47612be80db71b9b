package schema

// ColumnType is the logical type of a column independent of any DBMS.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInteger
	TypeBoolean
	TypeDate
	TypeDouble
)

var columnTypeNames = map[ColumnType]string{
	TypeString:  "String",
	TypeInteger: "Integer",
	TypeBoolean: "Boolean",
	TypeDate:    "Date",
	TypeDouble:  "Double",
}

func (t ColumnType) String() string {
	if name, ok := columnTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ColumnTypes lists every logical type in declaration order.
func ColumnTypes() []ColumnType {
	return []ColumnType{TypeString, TypeInteger, TypeBoolean, TypeDate, TypeDouble}
}

// Keyword is a SQL keyword which may annotate a column definition.
// The numeric order is the order in which keywords are emitted in DDL.
type Keyword int

const (
	KeywordDefault Keyword = iota
	KeywordNotNull
	KeywordPrimaryKey
)

func (k Keyword) String() string {
	switch k {
	case KeywordDefault:
		return "DEFAULT"
	case KeywordNotNull:
		return "NOT_NULL"
	case KeywordPrimaryKey:
		return "PRIMARY_KEY"
	default:
		return "UNKNOWN"
	}
}

// Keywords lists every keyword in emission order.
func Keywords() []Keyword {
	return []Keyword{KeywordDefault, KeywordNotNull, KeywordPrimaryKey}
}
