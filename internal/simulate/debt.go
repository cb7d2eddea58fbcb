package simulate

import "github.com/talgya/citysim/internal/worldmodel"

// dailyDebtInterest computes one day's interest accrual on a balance at
// the given basis-point APR, ported from original_source's
// ComputeDailyDebtInterest: ceil(balance * aprBasisPoints / (10000*365)).
func dailyDebtInterest(balance, aprBasisPoints int64) int64 {
	if balance <= 0 || aprBasisPoints <= 0 {
		return 0
	}
	num := balance * aprBasisPoints
	den := int64(10000 * 365)
	return (num + den - 1) / den
}

// applyDebtService accrues interest, applies the scheduled payment (forcing
// full payoff in a debt's final day), and removes retired entries in
// place. It returns the total cash paid out across all debts, ported from
// original_source's ApplyDebtService.
func applyDebtService(w *worldmodel.World) int {
	paid := 0
	kept := w.Debts[:0]
	for _, d := range w.Debts {
		if d.Retired() {
			continue
		}

		interest := dailyDebtInterest(int64(d.Balance), int64(d.APRBasisPoints))
		owed := int64(d.Balance) + interest

		payment := int64(d.DailyPayment)
		if d.DaysLeft <= 1 || payment > owed {
			payment = owed
		}

		paid += int(payment)
		d.Balance = int32(owed - payment)
		d.DaysLeft--

		if !d.Retired() {
			kept = append(kept, d)
		}
	}
	w.Debts = kept
	return paid
}
