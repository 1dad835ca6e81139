package upload

import "time"

// Complete is the value reported once the request has resolved successfully.
const Complete = 100

// ProgressFunc receives progress percentages.
type ProgressFunc func(percent int)

// Estimator simulates upload progress while a request is outstanding. The
// numbers are cosmetic: they are not derived from transferred bytes.
type Estimator struct {
	Step     int
	Cap      int
	Interval time.Duration
}

func DefaultEstimator() Estimator {
	return Estimator{Step: 5, Cap: 90, Interval: 100 * time.Millisecond}
}

// At returns the estimate after elapsed time.
func (e Estimator) At(elapsed time.Duration) int {
	if e.Interval <= 0 || elapsed < 0 {
		return 0
	}
	percent := int(elapsed/e.Interval) * e.Step
	if percent > e.Cap {
		return e.capped()
	}
	return percent
}

// capped is the highest value the ramp can report.
func (e Estimator) capped() int {
	if e.Step <= 0 {
		return 0
	}
	return e.Cap - e.Cap%e.Step
}

// run reports increasing estimates every Interval until done is closed.
// Values never exceed Cap and the ramp goes quiet once Cap is reached.
func (e Estimator) run(done <-chan struct{}, report ProgressFunc) {
	if e.Interval <= 0 || e.Step <= 0 {
		<-done
		return
	}

	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()

	progress := 0
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			progress += e.Step
			if progress <= e.Cap {
				report(progress)
			}
		}
	}
}
