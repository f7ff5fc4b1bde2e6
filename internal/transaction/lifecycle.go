package transaction

// ApplyStep sets step to done on r and derives the new status.
//
// Marking a step done on a planned record moves it to in progress. When every step is done the
// record completes, unless retained funds have no holder attached, in which case r is left
// untouched and ErrHolderRequired is returned.
func ApplyStep(r *Record, step Step, done bool) error {
	if !step.Valid() {
		return validationf("unknown step %q", step)
	}

	if r.Status == StatusCancelled {
		return validationf("transaction is cancelled")
	}

	prev := r.Steps
	next := prev.With(step, done)

	completes := next.All() && r.Status != StatusComplete
	if completes && r.RequiresHolder() {
		return ErrHolderRequired
	}

	r.Steps = next

	if done && !prev.Get(step) && r.Status == StatusPlanned {
		r.Status = StatusInProgress
	}

	if completes {
		r.Status = StatusComplete
	}

	return nil
}

// Cancel moves a non-terminal record to cancelled.
func Cancel(r *Record) error {
	if r.Status.Terminal() {
		return validationf("cannot cancel a %s transaction", r.Status)
	}

	r.Status = StatusCancelled

	return nil
}

// OverrideStatus assigns s regardless of the progress steps.
func OverrideStatus(r *Record, s Status) error {
	if !s.Valid() {
		return validationf("unknown status %q", s)
	}

	r.Status = s

	return nil
}
