package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SchemaSQL creates the cart table. Prices are stored as decimal strings so
// they round-trip exactly.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS cart_lines (
  user_name   VARCHAR NOT NULL,
  item_id     VARCHAR NOT NULL,
  item_name   VARCHAR NOT NULL,
  category    VARCHAR,
  unit_price  VARCHAR NOT NULL,
  quantity    INTEGER NOT NULL,
  added_at    TIMESTAMP NOT NULL,
  PRIMARY KEY(user_name, item_id)
);
`

// CartLine is one item in a user's cart.
type CartLine struct {
	UserName  string
	ItemID    string
	ItemName  string
	Category  string
	UnitPrice decimal.Decimal
	Quantity  int
	AddedAt   time.Time
}

// Total is UnitPrice times Quantity.
func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartRepository persists cart lines.
type CartRepository interface {
	// Migrate creates or updates the database schema.
	Migrate(ctx context.Context) error
	// AddLine inserts the line or increments the quantity of an existing one.
	AddLine(ctx context.Context, line CartLine) (CartLine, error)
	// Lines returns the user's cart in insertion order.
	Lines(ctx context.Context, user string) ([]CartLine, error)
	// Clear removes every line of the user's cart.
	Clear(ctx context.Context, user string) error
}

// Repo is the DuckDB CartRepository.
type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db, now: time.Now}
}

func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, SchemaSQL)
	return err
}

func (r *Repo) AddLine(ctx context.Context, line CartLine) (CartLine, error) {
	if line.UserName == "" || line.ItemID == "" {
		return CartLine{}, fmt.Errorf("cart line needs user and item id")
	}
	if line.Quantity <= 0 {
		line.Quantity = 1
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return CartLine{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var qty int
	err = tx.QueryRowContext(ctx,
		`SELECT quantity FROM cart_lines WHERE user_name = ? AND item_id = ?`,
		line.UserName, line.ItemID,
	).Scan(&qty)

	switch {
	case err == nil:
		line.Quantity += qty
		_, err = tx.ExecContext(ctx, `
			UPDATE cart_lines
			SET quantity = ?, item_name = ?, category = ?, unit_price = ?
			WHERE user_name = ? AND item_id = ?
		`, line.Quantity, line.ItemName, nullEmpty(line.Category), line.UnitPrice.String(), line.UserName, line.ItemID)
	case errors.Is(err, sql.ErrNoRows):
		line.AddedAt = r.now().UTC()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO cart_lines(user_name, item_id, item_name, category, unit_price, quantity, added_at)
			VALUES (?,?,?,?,?,?,?)
		`, line.UserName, line.ItemID, line.ItemName, nullEmpty(line.Category), line.UnitPrice.String(), line.Quantity, line.AddedAt)
	}
	if err != nil {
		return CartLine{}, fmt.Errorf("add cart line: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return CartLine{}, fmt.Errorf("commit cart line: %w", err)
	}
	return line, nil
}

func (r *Repo) Lines(ctx context.Context, user string) ([]CartLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_name, item_id, item_name, category, unit_price, quantity, added_at
		FROM cart_lines
		WHERE user_name = ?
		ORDER BY added_at, item_id
	`, user)
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}
	defer rows.Close()

	var lines []CartLine
	for rows.Next() {
		var (
			l        CartLine
			category sql.NullString
			price    string
		)
		if err := rows.Scan(&l.UserName, &l.ItemID, &l.ItemName, &category, &price, &l.Quantity, &l.AddedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		l.Category = category.String
		if l.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price for %s: %w", l.ItemID, err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *Repo) Clear(ctx context.Context, user string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE user_name = ?`, user)
	return err
}

func nullEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
