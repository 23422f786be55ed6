package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"

	"hotel_booking/internal/domain"
)

const errDuplicateEntry = 1062

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
func valID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}
func valDate(d domain.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Time
}
func valJSON(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	return string(b), nil
}

func mapErr(err error) error {
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) && me.Number == errDuplicateEntry {
		return fmt.Errorf("%w: %s", domain.ErrConflict, me.Message)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

var _ domain.Store = (*Repo)(nil)

// MySQL reports changed rows, not matched rows, so a no-op UPDATE looks like
// a miss. exists disambiguates.
func (r *Repo) exists(ctx context.Context, table string, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *Repo) checkUpdated(ctx context.Context, res sql.Result, table string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	ok, err := r.exists(ctx, table, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---- hotels ----

type rowScanner interface{ Scan(dest ...any) error }

func scanHotel(s rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var desc, image, loc sql.NullString
	var amenities []byte
	if err := s.Scan(&h.ID, &h.Name, &desc, &h.Price, &image, &loc, &h.Rating, &amenities, &h.AvailableRooms); err != nil {
		return domain.Hotel{}, err
	}
	h.Description, h.Image, h.Location = desc.String, image.String, loc.String
	_ = json.Unmarshal(amenities, &h.Amenities)
	if h.Amenities == nil {
		h.Amenities = []string{}
	}
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, selectHotelCols+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, selectHotelCols+" WHERE id = ?", id))
	if err != nil {
		return domain.Hotel{}, mapErr(err)
	}
	return h, nil
}

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	amen, err := valJSON(h.Amenities)
	if err != nil {
		return domain.Hotel{}, err
	}
	res, err := r.db.ExecContext(ctx, upsertHotelSQL,
		valID(h.ID), h.Name, valStr(h.Description), h.Price, valStr(h.Image),
		valStr(h.Location), h.Rating, amen, h.AvailableRooms,
	)
	if err != nil {
		return domain.Hotel{}, mapErr(err)
	}
	if h.ID == 0 {
		if h.ID, err = res.LastInsertId(); err != nil {
			return domain.Hotel{}, err
		}
	}
	return r.GetHotel(ctx, h.ID)
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	amen, err := valJSON(h.Amenities)
	if err != nil {
		return domain.Hotel{}, err
	}
	res, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, valStr(h.Description), h.Price, valStr(h.Image), valStr(h.Location),
		h.Rating, amen, h.AvailableRooms, h.ID,
	)
	if err != nil {
		return domain.Hotel{}, mapErr(err)
	}
	if err := r.checkUpdated(ctx, res, "hotels", h.ID); err != nil {
		return domain.Hotel{}, err
	}
	return r.GetHotel(ctx, h.ID)
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "hotels", id)
}

// ---- users ----

func scanUser(s rowScanner) (domain.User, error) {
	var u domain.User
	var role string
	var status sql.NullString
	var created, last sql.NullTime
	if err := s.Scan(&u.ID, &u.Email, &u.Name, &role, &status, &u.PasswordHash, &created, &last); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	if status.Valid && status.String != "" {
		st := domain.UserStatus(status.String)
		u.Status = &st
	}
	if created.Valid {
		t := created.Time.UTC()
		u.CreatedAt = &t
	}
	if last.Valid {
		t := last.Time.UTC()
		u.LastLogin = &t
	}
	return u, nil
}

func statusArg(s *domain.UserStatus) any {
	if s == nil {
		return nil
	}
	return string(*s)
}

func (r *Repo) ListUsers(ctx context.Context, q domain.UserQuery) ([]domain.User, error) {
	query, args := selectUserCols, []any{}
	if q.Email != nil {
		query += " WHERE email = ?"
		args = append(args, *q.Email)
	}
	rows, err := r.db.QueryContext(ctx, query+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserCols+" WHERE id = ?", id))
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return u, nil
}

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if u.ID == 0 {
		res, err := r.db.ExecContext(ctx, insertUserSQL,
			u.Email, u.Name, string(u.Role), statusArg(u.Status), u.PasswordHash,
			valTime(u.CreatedAt), valTime(u.LastLogin),
		)
		if err != nil {
			return domain.User{}, mapErr(err)
		}
		if u.ID, err = res.LastInsertId(); err != nil {
			return domain.User{}, err
		}
		return r.GetUser(ctx, u.ID)
	}
	if _, err := r.db.ExecContext(ctx, upsertUserSQL,
		u.ID, u.Email, u.Name, string(u.Role), statusArg(u.Status), u.PasswordHash,
		valTime(u.CreatedAt), valTime(u.LastLogin),
	); err != nil {
		return domain.User{}, mapErr(err)
	}
	return r.GetUser(ctx, u.ID)
}

func (r *Repo) UpdateUser(ctx context.Context, u domain.User) (domain.User, error) {
	res, err := r.db.ExecContext(ctx, updateUserSQL,
		u.Email, u.Name, string(u.Role), statusArg(u.Status), u.PasswordHash,
		valTime(u.LastLogin), u.ID,
	)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	if err := r.checkUpdated(ctx, res, "users", u.ID); err != nil {
		return domain.User{}, err
	}
	return r.GetUser(ctx, u.ID)
}

func (r *Repo) DeleteUser(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "users", id)
}

// ---- bookings ----

func scanBooking(s rowScanner) (domain.Booking, error) {
	var b domain.Booking
	var checkIn, checkOut time.Time
	var created sql.NullTime
	var requests, roomType, payment sql.NullString
	var status string
	var guests []byte
	if err := s.Scan(
		&b.ID, &b.UserID, &b.HotelID, &checkIn, &checkOut, &b.TotalPrice, &b.GuestCount,
		&requests, &status, &created, &roomType, &payment, &guests,
	); err != nil {
		return domain.Booking{}, err
	}
	b.CheckIn, b.CheckOut = domain.DateOf(checkIn), domain.DateOf(checkOut)
	if created.Valid {
		b.CreatedAt = domain.DateOf(created.Time)
	}
	b.SpecialRequests, b.RoomType = requests.String, roomType.String
	b.Status = domain.BookingStatus(status)
	b.PaymentStatus = domain.PaymentStatus(payment.String)
	if len(guests) > 0 {
		var g domain.GuestDetails
		if err := json.Unmarshal(guests, &g); err == nil {
			b.GuestDetails = &g
		}
	}
	return b, nil
}

func (r *Repo) ListBookings(ctx context.Context, q domain.BookingQuery) ([]domain.Booking, error) {
	query, args := selectBookingCols+" WHERE 1=1", []any{}
	if q.UserID != nil {
		query += " AND user_id = ?"
		args = append(args, *q.UserID)
	}
	if q.HotelID != nil {
		query += " AND hotel_id = ?"
		args = append(args, *q.HotelID)
	}
	rows, err := r.db.QueryContext(ctx, query+" ORDER BY check_in, id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, selectBookingCols+" WHERE id = ?", id))
	if err != nil {
		return domain.Booking{}, mapErr(err)
	}
	return b, nil
}

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	guests, err := valJSON(b.GuestDetails)
	if err != nil {
		return domain.Booking{}, err
	}
	res, err := r.db.ExecContext(ctx, upsertBookingSQL,
		valID(b.ID), b.UserID, b.HotelID, b.CheckIn.Time, b.CheckOut.Time, b.TotalPrice,
		b.GuestCount, valStr(b.SpecialRequests), string(b.Status), valDate(b.CreatedAt),
		valStr(b.RoomType), valStr(string(b.PaymentStatus)), guests,
	)
	if err != nil {
		return domain.Booking{}, mapErr(err)
	}
	if b.ID == 0 {
		if b.ID, err = res.LastInsertId(); err != nil {
			return domain.Booking{}, err
		}
	}
	return r.GetBooking(ctx, b.ID)
}

func (r *Repo) UpdateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	guests, err := valJSON(b.GuestDetails)
	if err != nil {
		return domain.Booking{}, err
	}
	res, err := r.db.ExecContext(ctx, updateBookingSQL,
		b.UserID, b.HotelID, b.CheckIn.Time, b.CheckOut.Time, b.TotalPrice, b.GuestCount,
		valStr(b.SpecialRequests), string(b.Status), valStr(b.RoomType),
		valStr(string(b.PaymentStatus)), guests, b.ID,
	)
	if err != nil {
		return domain.Booking{}, mapErr(err)
	}
	if err := r.checkUpdated(ctx, res, "bookings", b.ID); err != nil {
		return domain.Booking{}, err
	}
	return r.GetBooking(ctx, b.ID)
}

func (r *Repo) DeleteBooking(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "bookings", id)
}
