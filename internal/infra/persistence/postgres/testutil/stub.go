// Package testutil provides a fake database/sql driver for the postgres store
// tests. It understands only the statements the store issues against its
// state table and keeps bucket payloads in memory.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync/atomic"
)

const (
	upsertPrefix = "INSERT INTO STATE"
	selectPrefix = "SELECT BUCKET, PAYLOAD FROM STATE"
)

var driverSeq atomic.Int64

// StubConn is a single shared connection. Fail* switches make the matching
// driver call return an error.
type StubConn struct {
	// Execs lists every statement passed to ExecContext.
	Execs []string
	// Buckets maps a state bucket to its last upserted payload.
	Buckets map[string][]byte

	FailPing   bool
	FailExec   bool
	FailBegin  bool
	FailCommit bool
	FailSelect bool
	// RowsErr is reported once the selected rows are exhausted.
	RowsErr error
}

// NewStubDB registers a fresh driver and opens a sql.DB on it.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Buckets: make(map[string][]byte)}
	name := fmt.Sprintf("pgstub-%d", driverSeq.Add(1))
	sql.Register(name, stubDriver{conn: conn})
	db, err := sql.Open(name, "")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct{ conn *StubConn }

func (d stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

// Prepare implements driver.Conn. The store never prepares statements.
func (c *StubConn) Prepare(query string) (driver.Stmt, error) {
	return nil, fmt.Errorf("prepare not supported: %s", query)
}

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx implements driver.ConnBeginTx.
func (c *StubConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	if c.FailBegin {
		return nil, errors.New("begin failed")
	}
	return stubTx{conn: c}, nil
}

// Ping implements driver.Pinger.
func (c *StubConn) Ping(context.Context) error {
	if c.FailPing {
		return errors.New("ping failed")
	}
	return nil
}

// ExecContext records the statement and applies bucket upserts.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, errors.New("exec failed")
	}
	if !strings.HasPrefix(normalize(query), upsertPrefix) {
		return driver.RowsAffected(0), nil
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("upsert expects 2 args, got %d", len(args))
	}
	bucket, ok := args[0].Value.(string)
	if !ok {
		return nil, fmt.Errorf("bucket must be a string, got %T", args[0].Value)
	}
	switch payload := args[1].Value.(type) {
	case []byte:
		c.Buckets[bucket] = slices.Clone(payload)
	case string:
		c.Buckets[bucket] = []byte(payload)
	default:
		return nil, fmt.Errorf("payload must be bytes, got %T", payload)
	}
	return driver.RowsAffected(1), nil
}

// QueryContext serves the state table scan, ordered by bucket.
func (c *StubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if !strings.HasPrefix(normalize(query), selectPrefix) {
		return nil, fmt.Errorf("unsupported query: %s", query)
	}
	if c.FailSelect {
		return nil, errors.New("select failed")
	}
	buckets := make([]string, 0, len(c.Buckets))
	for b := range c.Buckets {
		buckets = append(buckets, b)
	}
	slices.Sort(buckets)
	rows := &stubRows{err: c.RowsErr}
	for _, b := range buckets {
		rows.values = append(rows.values, []driver.Value{b, c.Buckets[b]})
	}
	return rows, nil
}

// normalize upper-cases the statement and collapses whitespace.
func normalize(query string) string {
	return strings.ToUpper(strings.Join(strings.Fields(query), " "))
}

type stubTx struct{ conn *StubConn }

func (t stubTx) Commit() error {
	if t.conn.FailCommit {
		return errors.New("commit failed")
	}
	return nil
}

func (stubTx) Rollback() error { return nil }

type stubRows struct {
	values [][]driver.Value
	next   int
	err    error
}

func (*stubRows) Columns() []string { return []string{"bucket", "payload"} }

func (*stubRows) Close() error { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.next == len(r.values) {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	copy(dest, r.values[r.next])
	r.next++
	return nil
}
