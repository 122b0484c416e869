package retry

// Action is a function to be performed in a retriable manner.
type Action func() error

// Retry executes the provided action until it succeeds or one of the
// strategies refuses another attempt. The number of attempts made is
// returned alongside the last error.
//
// Strategies are evaluated in order, so strategies that sleep should be
// specified last.
func Retry(action Action, strategies ...Strategy) (uint, error) {
	for attempt := uint(1); ; attempt++ {
		err := action()
		if err == nil {
			return attempt, nil
		}

		for _, s := range strategies {
			if !s(attempt, err) {
				return attempt, err
			}
		}
	}
}
