package connection

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"green2/internal/dialect"
)

func TestParseTabular(t *testing.T) {
	out := "Name\tGeburtstag\tBemerkung\nHuber\t0000-00-00\tNULL\nMaier\t1970-01-02\ta\\tb\n"
	got := parseTabular(out)
	want := [][]sql.NullString{
		{{String: "Name", Valid: true}, {String: "Geburtstag", Valid: true}, {String: "Bemerkung", Valid: true}},
		{{String: "Huber", Valid: true}, {}, {}},
		{{String: "Maier", Valid: true}, {String: "1970-01-02", Valid: true}, {String: "a\tb", Valid: true}},
	}
	assert.Equal(t, want, got)
	assert.Nil(t, parseTabular(""))
}

func TestClientCommand(t *testing.T) {
	binary, command, err := clientCommand(SQLConfig{Dialect: dialect.MySQL, Host: "db", User: "o'neil", Password: "pw", Database: "verein"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", binary)
	assert.Equal(t, `mysql --batch -h 'db' -P 3306 -u 'o'\''neil' -p'pw' 'verein'`, command)

	_, _, err = clientCommand(SQLConfig{Dialect: dialect.Oracle})
	assert.ErrorIs(t, err, ErrUnsupportedDatabase)
}

func TestCharsetDecoder(t *testing.T) {
	dec, err := charsetDecoder("ISO-8859-1")
	require.NoError(t, err)
	require.NotNil(t, dec)
	out, err := dec.Bytes([]byte{'M', 0xfc, 'l', 'l', 'e', 'r'})
	require.NoError(t, err)
	assert.Equal(t, "Müller", string(out))

	_, err = charsetDecoder("no-such-charset")
	assert.Error(t, err)
}
