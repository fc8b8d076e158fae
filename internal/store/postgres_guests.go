package store

import (
	"context"

	"restaurant-order-services/internal/models"

	"github.com/jackc/pgx/v5"
)

const reservationColumns = `id, customer_name, customer_email, customer_phone, number_of_guests,
	reservation_date, reservation_time, status, special_requests, created_at`

func scanReservation(row pgx.Row) (models.Reservation, error) {
	var r models.Reservation
	var status string
	if err := row.Scan(
		&r.ID, &r.CustomerName, &r.CustomerEmail, &r.CustomerPhone, &r.NumberOfGuests,
		&r.ReservationDate, &r.ReservationTime, &status, &r.SpecialRequests, &r.CreatedAt,
	); err != nil {
		return models.Reservation{}, mapError(err)
	}
	r.Status = models.ReservationStatus(status)
	return r, nil
}

func (q *Queries) InsertReservation(ctx context.Context, reservation models.Reservation) (models.Reservation, error) {
	row := q.db.QueryRow(ctx, `
		insert into reservations (
			customer_name, customer_email, customer_phone, number_of_guests,
			reservation_date, reservation_time, status, special_requests, created_at
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		returning `+reservationColumns,
		reservation.CustomerName, reservation.CustomerEmail, reservation.CustomerPhone, reservation.NumberOfGuests,
		reservation.ReservationDate, reservation.ReservationTime, string(reservation.Status),
		reservation.SpecialRequests, reservation.CreatedAt,
	)
	return scanReservation(row)
}

func (q *Queries) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	rows, err := q.db.Query(ctx, `
		select `+reservationColumns+` from reservations
		order by reservation_date asc, reservation_time asc, id asc
	`)
	return collect(rows, err, scanReservation)
}

func (q *Queries) UpdateReservationStatus(ctx context.Context, id int64, status models.ReservationStatus) (bool, error) {
	return affected(q.db.Exec(ctx, `update reservations set status = $2 where id = $1`, id, string(status)))
}

const feedbackColumns = `id, order_id, user_id, rating, comment, food_quality, service_quality,
	ambience, cleanliness, is_anonymous, created_at`

func scanFeedback(row pgx.Row) (models.Feedback, error) {
	var f models.Feedback
	if err := row.Scan(
		&f.ID, &f.OrderID, &f.UserID, &f.Rating, &f.Comment, &f.FoodQuality, &f.ServiceQuality,
		&f.Ambience, &f.Cleanliness, &f.IsAnonymous, &f.CreatedAt,
	); err != nil {
		return models.Feedback{}, mapError(err)
	}
	return f, nil
}

func (q *Queries) InsertFeedback(ctx context.Context, feedback models.Feedback) (models.Feedback, error) {
	row := q.db.QueryRow(ctx, `
		insert into feedback (
			order_id, user_id, rating, comment, food_quality, service_quality,
			ambience, cleanliness, is_anonymous, created_at
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		returning `+feedbackColumns,
		feedback.OrderID, feedback.UserID, feedback.Rating, feedback.Comment, feedback.FoodQuality,
		feedback.ServiceQuality, feedback.Ambience, feedback.Cleanliness, feedback.IsAnonymous, feedback.CreatedAt,
	)
	return scanFeedback(row)
}

func (q *Queries) ListFeedback(ctx context.Context, orderID *int64, limit int) ([]models.Feedback, error) {
	sql := `select ` + feedbackColumns + ` from feedback where ($1::bigint is null or order_id = $1) order by created_at desc, id desc`
	args := []any{orderID}
	if limit > 0 {
		sql += ` limit $2`
		args = append(args, limit)
	}
	rows, err := q.db.Query(ctx, sql, args...)
	return collect(rows, err, scanFeedback)
}

const userColumns = `id, username, email, password_hash, role, is_active, created_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt); err != nil {
		return models.User{}, mapError(err)
	}
	u.Role = models.UserRole(role)
	return u, nil
}

func (q *Queries) InsertUser(ctx context.Context, user models.User) (models.User, error) {
	row := q.db.QueryRow(ctx, `
		insert into users (username, email, password_hash, role, is_active, created_at)
		values ($1,$2,$3,$4,$5,$6)
		returning `+userColumns,
		user.Username, user.Email, user.PasswordHash, string(user.Role), user.IsActive, user.CreatedAt,
	)
	return scanUser(row)
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(q.db.QueryRow(ctx, `select `+userColumns+` from users where lower(email) = lower($1)`, email))
}
