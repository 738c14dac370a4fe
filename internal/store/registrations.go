package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aarambh-bootcamp/registration-api/internal/models"
	"gorm.io/gorm"
)

var (
	ErrRegistrationClosed = errors.New("registration is currently closed")
	ErrCapacityFull       = errors.New("registration is full, all seats are taken")
	ErrDuplicateEmail     = errors.New("this email is already registered")
	ErrNotFound           = errors.New("registration not found")
	ErrInvalidStatus      = errors.New("invalid status value")
)

// RegistrationStore persists accepted submissions.
type RegistrationStore struct {
	db *gorm.DB
}

func NewRegistrationStore(db *gorm.DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

// Create inserts a registration, re-checking the capacity gate inside the
// same transaction as the insert so two concurrent submissions cannot both
// take the last seat. Email uniqueness is enforced by the database index,
// not a pre-check.
func (s *RegistrationStore) Create(ctx context.Context, answers map[string]any, email *string, open bool, maxParticipants int) (*models.Registration, error) {
	if !open {
		return nil, ErrRegistrationClosed
	}

	reg := models.Registration{
		Email:        email,
		Answers:      answers,
		Status:       models.StatusPending,
		RegisteredAt: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The duplicate check runs before the capacity check so an
		// already-registered email is reported as a duplicate even when the
		// event has since filled up. The unique index remains the backstop.
		if email != nil {
			var existing int64
			if err := tx.Model(&models.Registration{}).
				Where("email = ?", *email).
				Count(&existing).Error; err != nil {
				return fmt.Errorf("check email: %w", err)
			}
			if existing > 0 {
				return ErrDuplicateEmail
			}
		}
		if maxParticipants > 0 {
			var count int64
			if err := tx.Model(&models.Registration{}).
				Where("status <> ?", models.StatusCancelled).
				Count(&count).Error; err != nil {
				return fmt.Errorf("count registrations: %w", err)
			}
			if count >= int64(maxParticipants) {
				return ErrCapacityFull
			}
		}
		if err := tx.Create(&reg).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("insert registration: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListOptions filters and paginates the admin listing. Fields matches
// answer values by schema field name.
type ListOptions struct {
	Page   int
	Limit  int
	Status models.RegistrationStatus
	Fields map[string]string
}

// List returns a page of registrations, newest first, plus the total count
// for the filter.
func (s *RegistrationStore) List(ctx context.Context, opts ListOptions) ([]models.Registration, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}

	q := s.db.WithContext(ctx).Model(&models.Registration{})
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}
	for name, value := range opts.Fields {
		q = q.Where("json_extract(answers, ?) = ?", "$."+name, value)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count registrations: %w", err)
	}

	var regs []models.Registration
	err := q.Order("registered_at DESC").
		Offset((opts.Page - 1) * opts.Limit).
		Limit(opts.Limit).
		Find(&regs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return regs, total, nil
}

func (s *RegistrationStore) Get(ctx context.Context, id uint) (*models.Registration, error) {
	var reg models.Registration
	err := s.db.WithContext(ctx).First(&reg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// UpdateStatus moves a registration to any of the three states. No
// transition graph beyond the enum itself.
func (s *RegistrationStore) UpdateStatus(ctx context.Context, id uint, status models.RegistrationStatus) (*models.Registration, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	reg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(reg).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return reg, nil
}

func (s *RegistrationStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Unscoped().Delete(&models.Registration{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// EmailExists reports whether a registration with the given email exists.
func (s *RegistrationStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Registration{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// ActiveCount is the number of seats currently taken. Cancelled
// registrations free their seat.
func (s *RegistrationStore) ActiveCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Registration{}).
		Where("status <> ?", models.StatusCancelled).
		Count(&count).Error
	return count, err
}

// Stats summarizes registrations for the admin dashboard.
type Stats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
}

func (s *RegistrationStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	counts := []struct {
		status models.RegistrationStatus
		dest   *int64
	}{
		{models.StatusPending, &stats.Pending},
		{models.StatusConfirmed, &stats.Confirmed},
		{models.StatusCancelled, &stats.Cancelled},
	}
	for _, c := range counts {
		if err := s.db.WithContext(ctx).Model(&models.Registration{}).
			Where("status = ?", c.status).
			Count(c.dest).Error; err != nil {
			return Stats{}, err
		}
	}
	stats.Total = stats.Pending + stats.Confirmed + stats.Cancelled
	return stats, nil
}

// CapacityStatus is the block both the public form and the validation path
// consult before accepting a submission.
type CapacityStatus struct {
	RegistrationOpen bool `json:"registrationOpen"`
	IsFull           bool `json:"isFull"`
	RemainingSeats   int  `json:"remainingSeats"`
	MaxParticipants  int  `json:"maxParticipants"`
}

// Capacity derives the status block from the configured limit and the
// current seat count.
func Capacity(info models.SiteInfo, taken int64) CapacityStatus {
	remaining := info.MaxParticipants - int(taken)
	if remaining < 0 {
		remaining = 0
	}
	return CapacityStatus{
		RegistrationOpen: info.RegistrationOpen,
		IsFull:           info.MaxParticipants > 0 && remaining == 0,
		RemainingSeats:   remaining,
		MaxParticipants:  info.MaxParticipants,
	}
}
