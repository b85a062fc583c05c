package types

// Effect is the outcome of a single upsert decision.
type Effect int

const (
	// Inserted means a new company document was created.
	Inserted Effect = iota
	// Appended means a new quarter was pushed onto an existing company.
	Appended
	// Skipped means the (company, quarter) pair already exists; nothing
	// was written. An idempotent no-op, not a failure.
	Skipped
	// EstimateUpdated means only the estimates field of an existing
	// quarter was set in place.
	EstimateUpdated
)

func (e Effect) String() string {
	switch e {
	case Inserted:
		return "inserted"
	case Appended:
		return "appended"
	case Skipped:
		return "skipped"
	case EstimateUpdated:
		return "estimate_updated"
	default:
		return "unknown"
	}
}
