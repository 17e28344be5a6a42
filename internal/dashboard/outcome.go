package dashboard

// Outcome is the result of one user trigger.
type Outcome int

const (
	// OutcomeIdle means nothing was requested.
	OutcomeIdle Outcome = iota
	OutcomeRendered
	// OutcomeRejected means input validation failed before any network call.
	OutcomeRejected
	OutcomeNotFound
	OutcomeFailed
	// OutcomeLocationFailed means the locator could not produce a position.
	OutcomeLocationFailed
	// OutcomeSuperseded means a newer trigger was issued before this one finished.
	OutcomeSuperseded
	// OutcomeNeedsLocation means there is nothing to refetch and the caller
	// should supply a position.
	OutcomeNeedsLocation
)

var outcomeNames = [...]string{
	OutcomeIdle:           "idle",
	OutcomeRendered:       "rendered",
	OutcomeRejected:       "rejected",
	OutcomeNotFound:       "not_found",
	OutcomeFailed:         "failed",
	OutcomeLocationFailed: "location_failed",
	OutcomeSuperseded:     "superseded",
	OutcomeNeedsLocation:  "needs_location",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}
