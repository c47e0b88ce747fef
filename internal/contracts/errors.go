package contracts

import "errors"

// Error taxonomy shared by every layer. Wrap with %w so errors.Is keeps working.
var (
	// ErrIntegrity: duplicate primary key or orphan snapshot; the transaction was rolled back
	ErrIntegrity = errors.New("integrity error")

	// ErrNotFound: no company matched, or the ticker has no snapshot
	ErrNotFound = errors.New("not found")

	// ErrInvalidSelection: selection index outside the match list
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrParse: a parameter failed boundary validation; nothing was written
	ErrParse = errors.New("parse error")

	// ErrUnknownMetric: ranking metric is not one of ND/EBITDA, ROE, ROA
	ErrUnknownMetric = errors.New("unknown metric")
)

// Outcome is the distinguishable kind of a use case result
type Outcome string

// Use case outcomes
const (
	OutcomeSuccess          Outcome = "success"
	OutcomeNotFound         Outcome = "not_found"
	OutcomeInvalidSelection Outcome = "invalid_selection"
	OutcomeIntegrity        Outcome = "integrity_error"
	OutcomeParse            Outcome = "parse_error"
	OutcomeUnknownMetric    Outcome = "unknown_metric"
	OutcomeError            Outcome = "error"
)

// Classify maps an error returned by a use case to its outcome
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrInvalidSelection):
		return OutcomeInvalidSelection
	case errors.Is(err, ErrIntegrity):
		return OutcomeIntegrity
	case errors.Is(err, ErrParse):
		return OutcomeParse
	case errors.Is(err, ErrUnknownMetric):
		return OutcomeUnknownMetric
	default:
		return OutcomeError
	}
}
