package worldmodel

// DebtItem is an amortized municipal bond. Issuance is an
// external API concern (not in scope); the kernel only amortizes,
// services, and retires existing entries.
type DebtItem struct {
	Balance        int32
	DailyPayment   int32
	APRBasisPoints int32
	DaysLeft       int32
}

// Retired reports whether this debt item should be removed: balance paid
// off or its term expired.
func (d DebtItem) Retired() bool {
	return d.Balance <= 0 || d.DaysLeft <= 0
}
