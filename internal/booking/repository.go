package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hostelbooking/internal/apperror"
	"hostelbooking/internal/listing"
	"hostelbooking/pkg/db"
)

const columns = `
id, reference, full_name, email, phone, gender, age, id_number, location, occupation,
room_number, room_type, hostel_name, check_in, check_out, duration, nights,
amount::text, payment_method, payment_number, notes, status, payment_id, created_at, updated_at
`

// SortColumns whitelists sort_by keys for listings.
var SortColumns = map[string]string{
	"createdAt":  "created_at",
	"checkIn":    "check_in",
	"checkOut":   "check_out",
	"amount":     "amount",
	"fullName":   "full_name",
	"roomNumber": "room_number",
	"status":     "status",
	"reference":  "reference",
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	q := `SELECT ` + columns + ` FROM bookings WHERE id = $1`
	return scan(r.db.QueryRow(ctx, q, id))
}

func (r *Repository) List(ctx context.Context, f Filter, p listing.Params) ([]Booking, int64, error) {
	where, args := f.where()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order, err := p.SafeOrderClause(SortColumns, "createdAt")
	if err != nil {
		return nil, 0, err
	}
	q := `SELECT ` + columns + ` FROM bookings` + where + ` ` + order +
		` LIMIT ` + strconv.Itoa(p.Limit()) + ` OFFSET ` + strconv.Itoa(p.Offset())

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Booking{}
	for rows.Next() {
		b, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *b)
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

	if f.Status != "" {
		add("status = ?", string(f.Status))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		add("(full_name ILIKE ? OR reference ILIKE ? OR room_number ILIKE ? OR email ILIKE ? OR phone ILIKE ?)", listing.ContainsPattern(s))
	}
	if h := strings.TrimSpace(f.HostelName); h != "" {
		add("hostel_name ILIKE ?", listing.EscapeLike(h))
	}
	if f.From != nil {
		add("check_in >= ?", *f.From)
	}
	if f.To != nil {
		add("check_in < ?", *f.To)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Booking, error) {
	q := `SELECT ` + columns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return scan(tx.QueryRow(ctx, q, id))
}

func Exists(ctx context.Context, tx pgx.Tx, id string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`
	var ok bool
	err := tx.QueryRow(ctx, q, id).Scan(&ok)
	return ok, err
}

func Insert(ctx context.Context, tx pgx.Tx, b *Booking) error {
	const q = `
INSERT INTO bookings (
  id, reference, full_name, email, phone, gender, age, id_number, location, occupation,
  room_number, room_type, hostel_name, check_in, check_out, duration, nights,
  amount, payment_method, payment_number, notes, status, payment_id, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
          $18, $19, $20, $21, $22, $23, $24, $25)
`
	_, err := tx.Exec(ctx, q,
		b.ID, b.Reference, b.FullName, b.Email, b.Phone, string(b.Gender), b.Age, b.IDNumber, b.Location, b.Occupation,
		b.RoomNumber, b.RoomType, b.HostelName, b.CheckIn, b.CheckOut, b.Duration, b.Nights,
		b.Amount.StringFixed(2), b.PaymentMethod, b.PaymentNumber, b.Notes, string(b.Status), b.PaymentID, b.CreatedAt, b.UpdatedAt,
	)
	return mapWriteErr(err, b.Reference)
}

func Update(ctx context.Context, tx pgx.Tx, b *Booking) error {
	const q = `
UPDATE bookings SET
  reference = $2, full_name = $3, email = $4, phone = $5, gender = $6, age = $7, id_number = $8,
  location = $9, occupation = $10, room_number = $11, room_type = $12, hostel_name = $13,
  check_in = $14, check_out = $15, duration = $16, nights = $17, amount = $18,
  payment_method = $19, payment_number = $20, notes = $21, status = $22, payment_id = $23,
  updated_at = $24
WHERE id = $1
`
	tag, err := tx.Exec(ctx, q,
		b.ID, b.Reference, b.FullName, b.Email, b.Phone, string(b.Gender), b.Age, b.IDNumber,
		b.Location, b.Occupation, b.RoomNumber, b.RoomType, b.HostelName,
		b.CheckIn, b.CheckOut, b.Duration, b.Nights, b.Amount.StringFixed(2),
		b.PaymentMethod, b.PaymentNumber, b.Notes, string(b.Status), b.PaymentID,
		b.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr(err, b.Reference)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

// SetPayment writes only the payment link, stamping updated_at with the
// caller's clock so the returned booking matches the row.
func SetPayment(ctx context.Context, tx pgx.Tx, bookingID string, paymentID *string, at time.Time) error {
	const q = `UPDATE bookings SET payment_id = $2, updated_at = $3 WHERE id = $1`
	tag, err := tx.Exec(ctx, q, bookingID, paymentID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func Delete(ctx context.Context, tx pgx.Tx, id string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func scan(row pgx.Row) (*Booking, error) {
	var b Booking
	var gender, status, amount string
	if err := row.Scan(
		&b.ID, &b.Reference, &b.FullName, &b.Email, &b.Phone, &gender, &b.Age, &b.IDNumber, &b.Location, &b.Occupation,
		&b.RoomNumber, &b.RoomType, &b.HostelName, &b.CheckIn, &b.CheckOut, &b.Duration, &b.Nights,
		&amount, &b.PaymentMethod, &b.PaymentNumber, &b.Notes, &status, &b.PaymentID, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	b.Gender = Gender(gender)
	b.Status = Status(status)

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("booking %s amount %q: %w", b.ID, amount, err)
	}
	b.Amount = amt
	return &b, nil
}

func mapWriteErr(err error, ref string) error {
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: booking reference %s already exists", apperror.ErrConflict, ref)
	}
	return err
}
