package model

import "time"

// PaymentStatus enumerates the states of a payment record.  READY means
// the payment is awaiting gateway confirmation; COMPLETED and the two
// failure states are terminal except for CANCELLED which follows a
// booking cancellation.
type PaymentStatus string

const (
	PaymentReady              PaymentStatus = "READY"
	PaymentCompleted          PaymentStatus = "COMPLETED"
	PaymentFailed             PaymentStatus = "FAILED"
	PaymentFailedVerification PaymentStatus = "FAILED_VERIFICATION"
	PaymentCancelled          PaymentStatus = "CANCELLED"
)

// Payment holds the pending charge for exactly one reservation group.
// The merchant transaction id is the externally visible correlation key
// the payment gateway reports back with; the expected amount is
// computed once at booking time and verified, never regenerated, when
// the gateway confirms.  This struct corresponds to a row in the
// `payments` table.
//
// Fields:
//  ID                  – primary key identifier.
//  ReservationGroupID  – owning reservation group (unique, one-to-one).
//  MerchantTxnID       – globally unique gateway correlation key.
//  ExpectedAmountCents – charge amount derived from seat pricing.
//  Status              – payment state.
//  Buyer               – buyer contact details copied from the user.
//  CreatedAt           – creation timestamp.
//  UpdatedAt           – last update timestamp.
type Payment struct {
	ID                  uint64        // payments.id
	ReservationGroupID  uint64        // payments.reservation_group_id
	MerchantTxnID       string        // payments.merchant_txn_id
	ExpectedAmountCents uint64        // payments.expected_amount_cents
	Status              PaymentStatus // payments.status
	Buyer               BuyerInfo     // payments.buyer_name / buyer_phone / buyer_email
	CreatedAt           time.Time     // payments.created_at
	UpdatedAt           time.Time     // payments.updated_at
}
