// Package queue defines message payloads exchanged over the message broker
// along with the publisher and the background consumer.
package queue

// BookingConfirmedEvent is published when a payment passes verification and
// its reservation group becomes PAID. It carries enough information for
// downstream consumers to log, notify, or trigger analytics without querying
// the primary database.
type BookingConfirmedEvent struct {
	ReservationGroupID uint64   `json:"reservation_group_id"`
	UserID             uint64   `json:"user_id"`
	ScreeningID        uint64   `json:"screening_id"`
	MovieTitle         string   `json:"movie_title"`
	TheaterName        string   `json:"theater_name"`
	StartsAt           string   `json:"starts_at"`
	SeatLabels         []string `json:"seats"`
	AmountCents        uint64   `json:"amount_cents"`
	MerchantTxnID      string   `json:"merchant_txn_id"`
	ConfirmedAt        string   `json:"confirmed_at"`
}
