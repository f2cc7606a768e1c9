package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hostelbooking/internal/apperror"
	"hostelbooking/internal/listing"
	"hostelbooking/pkg/db"
)

const columns = `id, reference, booking_id, method, status, amount::text, notes, paid_at, created_at, updated_at`

var SortColumns = map[string]string{
	"createdAt": "created_at",
	"paidAt":    "paid_at",
	"amount":    "amount",
	"status":    "status",
	"method":    "method",
	"reference": "reference",
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Payment, error) {
	return scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM payments WHERE id = $1`, id))
}

func (r *Repository) ListByBooking(ctx context.Context, bookingID string) ([]Payment, error) {
	const q = `SELECT ` + columns + ` FROM payments WHERE booking_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Payment{}
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repository) List(ctx context.Context, f Filter, p listing.Params) ([]Payment, int64, error) {
	where, args := f.where()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order, err := p.SafeOrderClause(SortColumns, "createdAt")
	if err != nil {
		return nil, 0, err
	}
	q := `SELECT ` + columns + ` FROM payments` + where + ` ` + order +
		` LIMIT ` + strconv.Itoa(p.Limit()) + ` OFFSET ` + strconv.Itoa(p.Offset())

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Payment{}
	for rows.Next() {
		pm, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *pm)
	}
	return out, total, rows.Err()
}

func (f Filter) where() (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.BookingID != "" {
		add("booking_id = ?", f.BookingID)
	}
	if f.Status != "" {
		add("status = ?", string(f.Status))
	}
	if f.Method != "" {
		add("method = ?", string(f.Method))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		add("reference ILIKE ?", listing.ContainsPattern(s))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Payment, error) {
	return scan(tx.QueryRow(ctx, `SELECT `+columns+` FROM payments WHERE id = $1 FOR UPDATE`, id))
}

func Insert(ctx context.Context, tx pgx.Tx, p *Payment) error {
	const q = `
INSERT INTO payments (id, reference, booking_id, method, status, amount, notes, paid_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := tx.Exec(ctx, q,
		p.ID, p.Reference, p.BookingID, string(p.Method), string(p.Status),
		p.Amount.StringFixed(2), p.Notes, p.PaidAt, p.CreatedAt, p.UpdatedAt,
	)
	return mapWriteErr(err, p)
}

// Update rewrites a payment. paid_at is COALESCEd so a stored timestamp can
// never be cleared by a write.
func Update(ctx context.Context, tx pgx.Tx, p *Payment) error {
	const q = `
UPDATE payments
SET reference = $2, method = $3, status = $4, amount = $5, notes = $6,
    paid_at = COALESCE(paid_at, $7), updated_at = $8
WHERE id = $1
`
	tag, err := tx.Exec(ctx, q,
		p.ID, p.Reference, string(p.Method), string(p.Status), p.Amount.StringFixed(2), p.Notes,
		p.PaidAt, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr(err, p)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func Delete(ctx context.Context, tx pgx.Tx, id string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func scan(row pgx.Row) (*Payment, error) {
	var p Payment
	var method, status, amount string
	if err := row.Scan(&p.ID, &p.Reference, &p.BookingID, &method, &status, &amount, &p.Notes, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	p.Method = Method(method)
	p.Status = Status(status)

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("payment %s amount %q: %w", p.ID, amount, err)
	}
	p.Amount = amt
	return &p, nil
}

func mapWriteErr(err error, p *Payment) error {
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: payment reference %s already exists", apperror.ErrConflict, p.Reference)
	}
	if db.IsForeignKeyViolation(err) {
		return &apperror.ReferentialError{Entity: "booking", ID: p.BookingID}
	}
	return err
}
