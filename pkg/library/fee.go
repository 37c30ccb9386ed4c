package library

import "time"

const (
	DefaultGraceDays = 10
	DefaultFeePerDay = 1
)

// FeePolicy prices a loan by whole days past the grace period. Partial days
// are not charged.
type FeePolicy struct {
	GraceDays int
	PerDay    int
}

func DefaultFeePolicy() FeePolicy {
	return FeePolicy{GraceDays: DefaultGraceDays, PerDay: DefaultFeePerDay}
}

func (p FeePolicy) OverdueDays(borrowed, returned time.Time) int {
	days := int(returned.UTC().Sub(borrowed.UTC()) / (24 * time.Hour))
	overdue := days - p.GraceDays
	if overdue < 0 {
		return 0
	}
	return overdue
}

func (p FeePolicy) LateFee(borrowed, returned time.Time) int {
	return p.OverdueDays(borrowed, returned) * p.PerDay
}
