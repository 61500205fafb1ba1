// Package store persists key bindings in SQLite.
//
// A binding is addressed by board, keymap layer and key position. Both the
// text form and the firmware wire value are stored; reads decode the wire
// value and check it against the text so a row that no longer round-trips
// is reported instead of silently used.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/keyconfig/internal/keyboard/keycode"

	_ "modernc.org/sqlite"
)

// Store errors.
var (
	// ErrNotFound indicates no binding at the given address.
	ErrNotFound = errors.New("binding not found")

	// ErrInvalidBinding indicates an address that cannot be stored.
	ErrInvalidBinding = errors.New("invalid binding")

	// ErrCorrupt indicates a stored row whose text and wire forms disagree.
	ErrCorrupt = errors.New("corrupt binding")
)

const schemaVersion = "1"

// Binding is one stored key binding.
type Binding struct {
	Board     string          `json:"board" yaml:"board"`
	Layer     int             `json:"layer" yaml:"layer"`
	Position  string          `json:"position" yaml:"position"`
	Keycode   keycode.Keycode `json:"-" yaml:"-"`
	Text      string          `json:"keycode" yaml:"keycode"`
	Wire      uint16          `json:"wire" yaml:"wire"`
	UpdatedAt time.Time       `json:"updatedAt" yaml:"updatedAt"`
}

// Store is a binding database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps pragmas and transactions on the same handle.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", strings.TrimSuffix(p, ";"), err)
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS bindings (
			board TEXT NOT NULL,
			layer INTEGER NOT NULL,
			position TEXT NOT NULL,
			keycode TEXT NOT NULL,
			wire INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY(board, layer, position)
		);`,
		`INSERT OR IGNORE INTO meta(k, v) VALUES('schema_version', '` + schemaVersion + `');`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}

	var v string
	if err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = 'schema_version'`).Scan(&v); err != nil {
		return err
	}
	if v != schemaVersion {
		return fmt.Errorf("unsupported schema version %q", v)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func checkAddress(board string, layer int, position string) error {
	if strings.TrimSpace(board) == "" {
		return fmt.Errorf("%w: empty board", ErrInvalidBinding)
	}
	if layer < 0 || layer >= keycode.NumLayers {
		return fmt.Errorf("%w: layer %d not in [0, %d)", ErrInvalidBinding, layer, keycode.NumLayers)
	}
	if strings.TrimSpace(position) == "" {
		return fmt.Errorf("%w: empty position", ErrInvalidBinding)
	}
	return nil
}

// Put stores k at the address, replacing any existing binding. Keycodes that
// have no wire encoding are rejected with the keycode package error.
func (s *Store) Put(ctx context.Context, board string, layer int, position string, k keycode.Keycode) (Binding, error) {
	if err := checkAddress(board, layer, position); err != nil {
		return Binding{}, err
	}
	wire, err := keycode.Encode(k)
	if err != nil {
		return Binding{}, err
	}

	b := Binding{
		Board:     board,
		Layer:     layer,
		Position:  position,
		Keycode:   k,
		Text:      k.String(),
		Wire:      wire,
		UpdatedAt: time.UnixMilli(s.now().UnixMilli()),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bindings(board, layer, position, keycode, wire, updated_at_unixms)
		VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(board, layer, position) DO UPDATE SET
			keycode = excluded.keycode,
			wire = excluded.wire,
			updated_at_unixms = excluded.updated_at_unixms`,
		b.Board, b.Layer, b.Position, b.Text, int64(b.Wire), b.UpdatedAt.UnixMilli())
	if err != nil {
		return Binding{}, fmt.Errorf("put binding: %w", err)
	}
	return b, nil
}

// Get returns the binding at the address.
func (s *Store) Get(ctx context.Context, board string, layer int, position string) (Binding, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT board, layer, position, keycode, wire, updated_at_unixms
		FROM bindings WHERE board = ? AND layer = ? AND position = ?`,
		board, layer, position)

	b, err := scanBinding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Binding{}, fmt.Errorf("%w: %s/%d/%s", ErrNotFound, board, layer, position)
	}
	return b, err
}

// List returns the bindings of board ordered by layer and position, or of
// every board when board is empty.
func (s *Store) List(ctx context.Context, board string) ([]Binding, error) {
	query := `SELECT board, layer, position, keycode, wire, updated_at_unixms FROM bindings`
	var args []any
	if board != "" {
		query += ` WHERE board = ?`
		args = append(args, board)
	}
	query += ` ORDER BY board, layer, position`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bindings: %w", err)
	}
	defer rows.Close()

	var out []Binding
	for rows.Next() {
		b, err := scanBinding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Delete removes the binding at the address.
func (s *Store) Delete(ctx context.Context, board string, layer int, position string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM bindings WHERE board = ? AND layer = ? AND position = ?`,
		board, layer, position)
	if err != nil {
		return fmt.Errorf("delete binding: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%d/%s", ErrNotFound, board, layer, position)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBinding(row scanner) (Binding, error) {
	var (
		b    Binding
		wire int64
		ms   int64
	)
	if err := row.Scan(&b.Board, &b.Layer, &b.Position, &b.Text, &wire, &ms); err != nil {
		return Binding{}, err
	}
	if wire < 0 || wire > 0xffff {
		return Binding{}, fmt.Errorf("%w: wire value %d", ErrCorrupt, wire)
	}
	b.Wire = uint16(wire)
	b.UpdatedAt = time.UnixMilli(ms)

	decoded, err := keycode.Decode(b.Wire)
	if err != nil {
		return Binding{}, fmt.Errorf("%w: %s/%d/%s: %v", ErrCorrupt, b.Board, b.Layer, b.Position, err)
	}
	if decoded.String() != b.Text {
		return Binding{}, fmt.Errorf("%w: %s/%d/%s: stored %q, wire decodes to %q",
			ErrCorrupt, b.Board, b.Layer, b.Position, b.Text, decoded)
	}
	b.Keycode = decoded
	return b, nil
}
