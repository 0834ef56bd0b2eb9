package recall

// The obligation ledger is a view over the recall's distributor list.
// Totals are recomputed by full summation instead of incremental counters so
// a replayed or partially applied update cannot leave the aggregate total
// out of step with its parts.

// TotalDistributed sums the units handed to every distributor. Fixed at
// initiation time.
func TotalDistributed(obligations []Obligation) int64 {
	var total int64
	for _, o := range obligations {
		total += o.QuantityDistributed
	}
	return total
}

// TotalReturned sums the units returned so far across all obligations.
func TotalReturned(obligations []Obligation) int64 {
	var total int64
	for _, o := range obligations {
		total += o.QuantityReturned
	}
	return total
}

// AllSettled reports whether every obligation has been acknowledged or fully
// returned. Drives the automatic advance to RETURNS_IN_PROGRESS.
func AllSettled(obligations []Obligation) bool {
	for _, o := range obligations {
		if o.Status != ObligationAcknowledged && o.Status != ObligationReturned {
			return false
		}
	}
	return true
}

// RecomputeReturns refreshes the recall-level returned total from its
// obligations.
func (r *Recall) RecomputeReturns() {
	r.TotalQuantityReturned = TotalReturned(r.Distributors)
}

// ReturnsComplete reports whether aggregate quantities reconcile, which is
// the sole guard on closing a recall.
func (r *Recall) ReturnsComplete() bool {
	return r.TotalQuantityReturned >= r.TotalQuantityDistributed
}
