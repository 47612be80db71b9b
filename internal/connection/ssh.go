package connection

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"green2/internal/dialect"
)

// SSHConfig describes a host which runs the command line client of the DBMS.
// The database itself is addressed by SQL relative to that host.
type SSHConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// Charset of the output of the remote client, UTF-8 if empty.
	Charset string
}

// SSHExecutor runs SQL by piping it into the command line client of the DBMS
// on a remote host.
type SSHExecutor struct {
	client  *ssh.Client
	db      SQLConfig
	decoder *encoding.Decoder
	command string
}

// DialSSH connects to the host described by sshCfg and checks that it provides
// a client for db.Dialect.
func DialSSH(ctx context.Context, sshCfg SSHConfig, db SQLConfig) (*SSHExecutor, error) {
	binary, command, err := clientCommand(db)
	if err != nil {
		return nil, err
	}
	decoder, err := charsetDecoder(sshCfg.Charset)
	if err != nil {
		return nil, err
	}

	if sshCfg.User == "" {
		return nil, errors.New("ssh username is required")
	}
	port := sshCfg.Port
	if port == 0 {
		port = 22
	}
	cfg := &ssh.ClientConfig{
		User:            sshCfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(sshCfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	addr := net.JoinHostPort(sshCfg.Host, strconv.Itoa(port))
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	e := &SSHExecutor{client: client, db: db, decoder: decoder, command: command}
	if _, err := e.run(ctx, "command -v "+binary, ""); err != nil {
		client.Close()
		return nil, fmt.Errorf("%s has no %s client: %w", addr, db.Dialect, ErrUnsupportedDatabase)
	}
	return e, nil
}

func charsetDecoder(charset string) (*encoding.Decoder, error) {
	if charset == "" {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %s: %w", charset, err)
	}
	if enc == nil {
		log.Warn().Str("charset", charset).Msg("Charset has no decoder, reading output unconverted")
		return nil, nil
	}
	return enc.NewDecoder(), nil
}

// clientCommand returns the client binary and the shell command reading SQL
// from stdin and printing tab separated results with a heading line.
func clientCommand(db SQLConfig) (binary, command string, err error) {
	switch db.Dialect {
	case dialect.MySQL:
		return "mysql", fmt.Sprintf("mysql --batch -h %s -P %d -u %s -p%s %s",
			shellQuote(db.Host), db.port(), shellQuote(db.User), shellQuote(db.Password), shellQuote(db.Database)), nil
	case dialect.PostgreSQL:
		return "psql", fmt.Sprintf("PGPASSWORD=%s psql -X -q -A -F \"$(printf '\\t')\" -P footer=off -P null=NULL -h %s -p %d -U %s -d %s",
			shellQuote(db.Password), shellQuote(db.Host), db.port(), shellQuote(db.User), shellQuote(db.Database)), nil
	case dialect.SQLite:
		return "sqlite3", fmt.Sprintf("sqlite3 -batch -header -separator \"$(printf '\\t')\" -nullvalue NULL %s",
			shellQuote(db.Database)), nil
	default:
		return "", "", fmt.Errorf("%s over ssh: %w", db.Dialect, ErrUnsupportedDatabase)
	}
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// run executes command remotely with stdin as input and returns its stdout.
func (e *SSHExecutor) run(ctx context.Context, command, stdin string) ([]byte, error) {
	session, err := e.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open ssh session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdin = strings.NewReader(stdin)
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()
	select {
	case <-ctx.Done():
		session.Close()
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("%w: %s", err, msg)
			}
			return nil, err
		}
	}
	return stdout.Bytes(), nil
}

func (e *SSHExecutor) exec(ctx context.Context, statement string) ([]byte, error) {
	input := strings.TrimSpace(statement)
	if !strings.HasSuffix(input, ";") {
		input += ";"
	}
	out, err := e.run(ctx, e.command, input+"\n")
	if err != nil {
		return nil, &ExecError{SQL: statement, Err: err}
	}
	if e.decoder != nil {
		if out, err = e.decoder.Bytes(out); err != nil {
			return nil, &ExecError{SQL: statement, Err: fmt.Errorf("failed to decode output: %w", err)}
		}
	}
	return out, nil
}

func (e *SSHExecutor) ExecQuery(ctx context.Context, query string) ([][]sql.NullString, error) {
	out, err := e.exec(ctx, query)
	if err != nil {
		return nil, err
	}
	return parseTabular(string(out)), nil
}

func (e *SSHExecutor) ExecUpdate(ctx context.Context, statement string) error {
	_, err := e.exec(ctx, statement)
	return err
}

func (e *SSHExecutor) Close() error {
	return e.client.Close()
}

var batchUnescaper = strings.NewReplacer(`\t`, "\t", `\n`, "\n", `\0`, "\x00", `\\`, `\`)

// parseTabular parses tab separated client output. NULL and the zero date of
// MySQL become SQL NULL.
func parseTabular(out string) [][]sql.NullString {
	var result [][]sql.NullString
	for _, line := range strings.Split(strings.TrimRight(out, "\r\n"), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" && len(result) == 0 {
			continue
		}
		fields := strings.Split(line, "\t")
		row := make([]sql.NullString, len(fields))
		for i, f := range fields {
			if f == "NULL" || f == "0000-00-00" {
				continue
			}
			row[i] = sql.NullString{String: batchUnescaper.Replace(f), Valid: true}
		}
		result = append(result, row)
	}
	return result
}
