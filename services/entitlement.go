package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"course-payments/db"
	"course-payments/errors"
	"course-payments/logger"
	"course-payments/models"
)

const storeTimeout = 5 * time.Second

// EntitlementStore is the keyed read/write store for course entitlements.
// GrantIfAbsent must be atomic per key: under concurrent confirmations for the
// same (uid, courseID) at most one write wins, and the loser sees applied=false
// with no error.
type EntitlementStore interface {
	Get(ctx context.Context, uid, courseID string) (*models.Entitlement, error)
	GrantIfAbsent(ctx context.Context, ent models.Entitlement) (applied bool, err error)
	List(ctx context.Context) ([]models.Entitlement, error)
}

// PostgresEntitlementStore persists entitlements via the shared db handle. The
// conditional insert rides the (user_id, course_id) primary key, so the
// check-and-write is a single statement and safe across service instances.
type PostgresEntitlementStore struct{}

func NewEntitlementStore() *PostgresEntitlementStore {
	return &PostgresEntitlementStore{}
}

func (s *PostgresEntitlementStore) Get(ctx context.Context, uid, courseID string) (*models.Entitlement, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var ent models.Entitlement
	var orderID sql.NullString

	err := db.DB.QueryRowContext(ctx,
		`SELECT user_id, course_id, paid, payment_id, order_id, source, verified_at
		 FROM entitlements WHERE user_id = $1 AND course_id = $2`,
		uid, courseID,
	).Scan(&ent.UserID, &ent.CourseID, &ent.Paid, &ent.PaymentID, &orderID, &ent.Source, &ent.VerifiedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStoreError("error reading entitlement", err)
	}

	ent.OrderID = orderID.String
	return &ent, nil
}

func (s *PostgresEntitlementStore) GrantIfAbsent(ctx context.Context, ent models.Entitlement) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if ent.VerifiedAt.IsZero() {
		ent.VerifiedAt = time.Now().UTC()
	}

	var orderID interface{}
	if ent.OrderID != "" {
		orderID = ent.OrderID
	}

	result, err := db.DB.ExecContext(ctx,
		`INSERT INTO entitlements (user_id, course_id, paid, payment_id, order_id, source, verified_at)
		 VALUES ($1, $2, TRUE, $3, $4, $5, $6)
		 ON CONFLICT (user_id, course_id) DO NOTHING`,
		ent.UserID, ent.CourseID, ent.PaymentID, orderID, ent.Source, ent.VerifiedAt)
	if err != nil {
		return false, errors.NewStoreError("error writing entitlement", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewStoreError("error checking entitlement write", err)
	}

	if rows == 0 {
		// Already paid. A different payment id here means a duplicate purchase
		// attempt; we log it and keep the first record untouched.
		existing, getErr := s.Get(ctx, ent.UserID, ent.CourseID)
		if getErr == nil && existing != nil && existing.PaymentID != ent.PaymentID {
			logger.Warn("Entitlement already granted for uid=%s course=%s with payment %s, ignoring conflicting payment %s",
				ent.UserID, ent.CourseID, existing.PaymentID, ent.PaymentID)
		}
		return false, nil
	}

	return true, nil
}

func (s *PostgresEntitlementStore) List(ctx context.Context) ([]models.Entitlement, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	rows, err := db.DB.QueryContext(ctx,
		`SELECT user_id, course_id, paid, payment_id, order_id, source, verified_at
		 FROM entitlements ORDER BY verified_at`)
	if err != nil {
		return nil, errors.NewStoreError("error listing entitlements", err)
	}
	defer rows.Close()

	var ents []models.Entitlement
	for rows.Next() {
		var ent models.Entitlement
		var orderID sql.NullString
		if err := rows.Scan(&ent.UserID, &ent.CourseID, &ent.Paid, &ent.PaymentID, &orderID, &ent.Source, &ent.VerifiedAt); err != nil {
			return nil, errors.NewStoreError("error scanning entitlement", err)
		}
		ent.OrderID = orderID.String
		ents = append(ents, ent)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError("error listing entitlements", err)
	}

	return ents, nil
}

// MemoryEntitlementStore is an in-process store with the same first-write-wins
// contract, used in tests and for single-instance runs without Postgres.
type MemoryEntitlementStore struct {
	mu   sync.Mutex
	ents map[[2]string]models.Entitlement
}

func NewMemoryEntitlementStore() *MemoryEntitlementStore {
	return &MemoryEntitlementStore{ents: make(map[[2]string]models.Entitlement)}
}

func (s *MemoryEntitlementStore) Get(ctx context.Context, uid, courseID string) (*models.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.ents[[2]string{uid, courseID}]
	if !ok {
		return nil, nil
	}
	return &ent, nil
}

func (s *MemoryEntitlementStore) GrantIfAbsent(ctx context.Context, ent models.Entitlement) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]string{ent.UserID, ent.CourseID}
	if _, ok := s.ents[key]; ok {
		return false, nil
	}

	if ent.VerifiedAt.IsZero() {
		ent.VerifiedAt = time.Now().UTC()
	}
	ent.Paid = true
	s.ents[key] = ent
	return true, nil
}

func (s *MemoryEntitlementStore) List(ctx context.Context) ([]models.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ents := make([]models.Entitlement, 0, len(s.ents))
	for _, ent := range s.ents {
		ents = append(ents, ent)
	}
	return ents, nil
}
