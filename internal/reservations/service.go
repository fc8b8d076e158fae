package reservations

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/store"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Service struct {
	Store store.Store
	Now   func() time.Time
}

func NewService(s store.Store) *Service {
	return &Service{Store: s, Now: func() time.Time { return time.Now().UTC() }}
}

type CreateInput struct {
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	CustomerPhone   string  `json:"customerPhone"`
	NumberOfGuests  int32   `json:"numberOfGuests"`
	ReservationDate string  `json:"reservationDate"`
	ReservationTime string  `json:"reservationTime"`
	SpecialRequests *string `json:"specialRequests"`
}

func (in *CreateInput) normalize() error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.ReservationDate = strings.TrimSpace(in.ReservationDate)
	in.ReservationTime = strings.TrimSpace(in.ReservationTime)

	if in.CustomerName == "" {
		return apperror.Validation("customerName is required")
	}
	if in.CustomerEmail == "" && in.CustomerPhone == "" {
		return apperror.Validation("customerEmail or customerPhone is required")
	}
	if in.CustomerEmail != "" {
		if _, err := mail.ParseAddress(in.CustomerEmail); err != nil {
			return apperror.Validation("customerEmail is invalid")
		}
	}
	if in.NumberOfGuests <= 0 {
		return apperror.Validation("numberOfGuests must be positive")
	}
	if _, err := time.Parse(dateLayout, in.ReservationDate); err != nil {
		return apperror.Validation("reservationDate must use YYYY-MM-DD")
	}
	if _, err := time.Parse(timeLayout, in.ReservationTime); err != nil {
		return apperror.Validation("reservationTime must use HH:MM")
	}
	return nil
}

// Create books a table request. New reservations always start PENDING.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.Reservation, error) {
	if err := in.normalize(); err != nil {
		return models.Reservation{}, err
	}
	reservation, err := s.Store.InsertReservation(ctx, models.Reservation{
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		NumberOfGuests:  in.NumberOfGuests,
		ReservationDate: in.ReservationDate,
		ReservationTime: in.ReservationTime,
		Status:          models.ReservationPending,
		SpecialRequests: in.SpecialRequests,
		CreatedAt:       s.Now(),
	})
	if err != nil {
		return models.Reservation{}, apperror.Unexpected(err)
	}
	return reservation, nil
}

func (s *Service) List(ctx context.Context) ([]models.Reservation, error) {
	list, err := s.Store.ListReservations(ctx)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return list, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status models.ReservationStatus) error {
	if !status.Valid() {
		return apperror.Validation("Invalid reservation status")
	}
	ok, err := s.Store.UpdateReservationStatus(ctx, id, status)
	if err != nil {
		return apperror.Unexpected(err)
	}
	if !ok {
		return apperror.NotFound("Reservation not found")
	}
	return nil
}
