package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinetix/booking-backend/internal/model"
)

// PaymentRepo provides persistence for payments. Exactly one payment
// exists per reservation group; the unique keys uq_payment_group and
// uq_payment_merchant_txn enforce the one-to-one link and the global
// uniqueness of merchant transaction ids at commit time.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts a payment within the scope of an existing
// transaction and populates the generated ID and timestamps. Two
// duplicate-key outcomes are distinguished: a collision on the
// merchant transaction id surfaces as ErrMerchantTxnIDCollision (a
// generator defect, fatal, never retried silently), and a second
// payment for the same group surfaces as ErrPaymentExists.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments
	           (reservation_group_id, merchant_txn_id, expected_amount_cents, status,
	            buyer_name, buyer_phone, buyer_email)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		p.ReservationGroupID, p.MerchantTxnID, p.ExpectedAmountCents, p.Status,
		p.Buyer.Name, p.Buyer.Phone, p.Buyer.Email,
	)
	if err != nil {
		if isDuplicateKey(err, "uq_payment_merchant_txn") {
			return ErrMerchantTxnIDCollision
		}
		if isDuplicateKey(err, "uq_payment_group") {
			return ErrPaymentExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM payments WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func scanPayment(scan func(dest ...interface{}) error) (*model.Payment, error) {
	var p model.Payment
	err := scan(
		&p.ID, &p.ReservationGroupID, &p.MerchantTxnID, &p.ExpectedAmountCents, &p.Status,
		&p.Buyer.Name, &p.Buyer.Phone, &p.Buyer.Email, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByMerchantTxnIDForUpdateTx loads a payment by its merchant
// transaction id with a row lock, serializing concurrent completion
// attempts for the same payment. Returns ErrPaymentNotFound when the
// id is unknown.
func (r *PaymentRepo) GetByMerchantTxnIDForUpdateTx(ctx context.Context, tx *sql.Tx, merchantTxnID string) (*model.Payment, error) {
	const q = `SELECT id, reservation_group_id, merchant_txn_id, expected_amount_cents, status,
	                  buyer_name, buyer_phone, buyer_email, created_at, updated_at
	           FROM payments WHERE merchant_txn_id = ? FOR UPDATE`
	row := tx.QueryRowContext(ctx, q, merchantTxnID)
	return scanPayment(row.Scan)
}

// GetByGroupTx loads the payment belonging to a reservation group
// within a transaction.
func (r *PaymentRepo) GetByGroupTx(ctx context.Context, tx *sql.Tx, groupID uint64) (*model.Payment, error) {
	const q = `SELECT id, reservation_group_id, merchant_txn_id, expected_amount_cents, status,
	                  buyer_name, buyer_phone, buyer_email, created_at, updated_at
	           FROM payments WHERE reservation_group_id = ?`
	row := tx.QueryRowContext(ctx, q, groupID)
	return scanPayment(row.Scan)
}

// UpdateStatusTx transitions a payment to the given status.
func (r *PaymentRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.PaymentStatus) error {
	const q = `UPDATE payments SET status = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, id)
	return err
}
