// Package localnode is a SQLite backed stand-in for the read API. It applies
// statements the way a validator would, records receipts, and serves them
// over HTTP. It is meant for development and tests.
package localnode

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tableland/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// Node errors.
var (
	ErrDetached         = errors.New("local node is detached")
	ErrAlreadyAttached  = errors.New("local node is already attached")
	ErrTableNotFound    = errors.New("table not found")
	ErrDuplicateTx      = errors.New("transaction already applied")
	ErrNotReadStatement = errors.New("only read statements can be queried")
)

var (
	createPattern = regexp.MustCompile(`(?i)^\s*create\s+table\s+(?:if\s+not\s+exists\s+)?([A-Za-z_][A-Za-z0-9_]*)`)
	readPattern   = regexp.MustCompile(`(?i)^\s*(select|with)\b`)
	systemPattern = regexp.MustCompile(`(?i)\bsystem_`)
)

// Node is a local read API backed by SQLite.
type Node struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	block    int64
	version  string
	logger   *slog.Logger
}

// Option configures a Node.
type Option func(*Node)

// WithVersion sets the binary version reported by the version endpoint.
func WithVersion(v string) Option {
	return func(n *Node) { n.version = v }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Node) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New creates a detached node. Call Attach before use.
func New(opts ...Option) *Node {
	n := &Node{version: "dev", logger: slog.Default()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Attach opens the node's database. An empty dataDir keeps everything in
// memory; otherwise state persists in dataDir/localnode.db.
func (n *Node) Attach(dataDir string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.attached {
		return ErrAlreadyAttached
	}

	dsn := ":memory:"
	if dataDir != "" {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return err
		}
		dsn = filepath.Join(dataDir, "localnode.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}
	// A single connection keeps an in-memory database shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("apply schema: %w", err)
	}
	if err := db.QueryRow(`SELECT COALESCE(MAX(block_number), 0) FROM system_receipts`).Scan(&n.block); err != nil {
		db.Close()
		return fmt.Errorf("read block height: %w", err)
	}

	n.db = db
	n.attached = true
	n.logger.Debug("Local node attached", "dsn", dsn, "block", n.block)
	return nil
}

// Detach closes the database. Detach is idempotent.
func (n *Node) Detach() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.attached {
		return nil
	}
	if err := n.db.Close(); err != nil {
		return err
	}
	n.db = nil
	n.attached = false
	return nil
}

// Apply executes statement as transaction txHash on chainID and records the
// receipt. See Schedule.
func (n *Node) Apply(ctx context.Context, chainID int64, txHash, statement string) (*types.Receipt, error) {
	return n.Schedule(ctx, chainID, txHash, statement, 0)
}

// Schedule executes statement and records its receipt, hiding the receipt
// from the next lag lookups. A create statement gets the next table id on the
// chain and its table is renamed prefix_chainid_id. A statement that fails
// yields an error receipt; the returned error is reserved for node failures.
func (n *Node) Schedule(ctx context.Context, chainID int64, txHash, statement string, lag int) (*types.Receipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.attached {
		return nil, ErrDetached
	}
	hash := strings.ToLower(txHash)

	var count int
	if err := n.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM system_receipts WHERE chain_id = ? AND tx_hash = ?`, chainID, hash,
	).Scan(&count); err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTx, txHash)
	}

	n.block++
	r := &types.Receipt{TransactionHash: hash, ChainID: chainID, BlockNumber: n.block}
	ids, execErr := n.execute(ctx, chainID, statement)
	var errIdx sql.NullInt64
	if execErr != nil {
		idx := 0
		r.Error = execErr.Error()
		r.ErrorEventIdx = &idx
		errIdx = sql.NullInt64{Int64: 0, Valid: true}
	} else {
		r.TableIDs = ids
		if len(ids) > 0 {
			r.TableID = ids[0]
		}
	}

	if _, err := n.db.ExecContext(ctx,
		`INSERT INTO system_receipts (chain_id, tx_hash, block_number, table_ids, error, error_event_idx, lag)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		chainID, hash, r.BlockNumber, strings.Join(r.TableIDs, ","), r.Error, errIdx, max(lag, 0),
	); err != nil {
		return nil, fmt.Errorf("record receipt: %w", err)
	}

	n.logger.Debug("Applied statement", "chain_id", chainID, "tx", hash, "block", r.BlockNumber, "error", r.Error)
	return r, nil
}

// execute runs statement in one SQLite transaction and returns created table ids.
func (n *Node) execute(ctx context.Context, chainID int64, statement string) ([]string, error) {
	if systemPattern.MatchString(statement) {
		return nil, errors.New("system tables cannot be referenced")
	}
	if readPattern.MatchString(statement) {
		return nil, errors.New("read statements cannot be submitted as mutations")
	}

	tx, err := n.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var ids []string
	if loc := createPattern.FindStringSubmatchIndex(statement); loc != nil {
		name := statement[loc[2]:loc[3]]
		prefix := strings.TrimSuffix(name, "_"+strconv.FormatInt(chainID, 10))

		var next int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(table_id), 0) + 1 FROM system_tables WHERE chain_id = ?`, chainID,
		).Scan(&next); err != nil {
			return nil, err
		}
		full := fmt.Sprintf("%s_%d_%d", prefix, chainID, next)
		stmt := statement[:loc[2]] + full + statement[loc[3]:]

		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO system_tables (chain_id, table_id, prefix, name, statement) VALUES (?, ?, ?, ?, ?)`,
			chainID, next, prefix, full, stmt,
		); err != nil {
			return nil, err
		}
		ids = append(ids, strconv.FormatInt(next, 10))
	} else if _, err := tx.ExecContext(ctx, statement); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Receipt returns the receipt for txHash on chainID. It returns
// types.ErrReceiptNotFound for unknown transactions and while the receipt is
// still hidden by its lag.
func (n *Node) Receipt(ctx context.Context, chainID int64, txHash string) (*types.Receipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.attached {
		return nil, ErrDetached
	}
	hash := strings.ToLower(txHash)

	var (
		r      = types.Receipt{TransactionHash: hash, ChainID: chainID}
		ids    string
		errIdx sql.NullInt64
		lag    int
	)
	err := n.db.QueryRowContext(ctx,
		`SELECT block_number, table_ids, error, error_event_idx, lag
		 FROM system_receipts WHERE chain_id = ? AND tx_hash = ?`, chainID, hash,
	).Scan(&r.BlockNumber, &ids, &r.Error, &errIdx, &lag)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s on chain %d", types.ErrReceiptNotFound, txHash, chainID)
	}
	if err != nil {
		return nil, err
	}

	if lag > 0 {
		if _, err := n.db.ExecContext(ctx,
			`UPDATE system_receipts SET lag = lag - 1 WHERE chain_id = ? AND tx_hash = ?`, chainID, hash,
		); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s is not indexed yet", types.ErrReceiptNotFound, txHash)
	}

	if ids != "" {
		r.TableIDs = strings.Split(ids, ",")
		r.TableID = r.TableIDs[0]
	}
	if errIdx.Valid {
		idx := int(errIdx.Int64)
		r.ErrorEventIdx = &idx
	}
	return &r, nil
}

// Query runs a read statement and returns rows as column-keyed objects.
func (n *Node) Query(ctx context.Context, statement string) ([]map[string]any, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if !n.attached {
		return nil, ErrDetached
	}
	if !readPattern.MatchString(statement) || systemPattern.MatchString(statement) {
		return nil, ErrNotReadStatement
	}

	rows, err := n.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := []map[string]any{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Table describes a created table.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Column is one column of a table.
type Column struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Constraints []string `json:"constraints,omitempty"`
}

// Table returns the schema of tableID on chainID.
func (n *Node) Table(ctx context.Context, chainID int64, tableID string) (*Table, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if !n.attached {
		return nil, ErrDetached
	}

	t := &Table{}
	err := n.db.QueryRowContext(ctx,
		`SELECT name FROM system_tables WHERE chain_id = ? AND table_id = ?`, chainID, tableID,
	).Scan(&t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s on chain %d", ErrTableNotFound, tableID, chainID)
	}
	if err != nil {
		return nil, err
	}

	// The name comes from system_tables and matches [A-Za-z0-9_]+.
	rows, err := n.db.QueryContext(ctx, `SELECT name, type, "notnull", pk FROM pragma_table_info(?)`, t.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			col     Column
			notNull bool
			pk      int
		)
		if err := rows.Scan(&col.Name, &col.Type, &notNull, &pk); err != nil {
			return nil, err
		}
		col.Type = strings.ToLower(col.Type)
		if pk > 0 {
			col.Constraints = append(col.Constraints, "primary key")
		}
		if notNull {
			col.Constraints = append(col.Constraints, "not null")
		}
		t.Columns = append(t.Columns, col)
	}
	return t, rows.Err()
}
