package accounting

import (
	"fmt"

	"github.com/crmsuite/crm_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountPlaces is the scale all monetary amounts are rounded to on ingest.
const AmountPlaces = 2

// Epsilon is the tolerance for balance comparisons. Entries whose debit and
// credit totals differ by this much or more are rejected as unbalanced.
var Epsilon = decimal.New(5, -3) // 0.005

// Normalize rounds an amount to the standard monetary scale.
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// SignedAmount returns the signed effect of a debit/credit pair on an account
// of the given type.
// Debits increase debit-normal accounts (ASSET, EXPENSE); credits increase
// credit-normal accounts (LIABILITY, EQUITY, INCOME).
func SignedAmount(debit, credit decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	if !domain.ValidAccountType(accountType) {
		return decimal.Zero, fmt.Errorf("unknown account type %q", accountType)
	}
	if accountType.IsDebitNormal() {
		return debit.Sub(credit), nil
	}
	return credit.Sub(debit), nil
}

// ValidateLine checks a single journal line: amounts must be non-negative and
// at most one side may be non-zero. Lines with both sides zero are legal here;
// the posting engine drops them before the minimum-line check.
func ValidateLine(line domain.JournalLine) error {
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("line amounts must be non-negative for account %s", line.AccountID)
	}
	if line.Debit.IsPositive() && line.Credit.IsPositive() {
		return fmt.Errorf("line for account %s has both debit and credit amounts", line.AccountID)
	}
	return nil
}

// EffectiveLines returns the lines that carry an amount, dropping zero-zero
// no-op lines. Line validity must be checked separately via ValidateLine.
func EffectiveLines(lines []domain.JournalLine) []domain.JournalLine {
	effective := make([]domain.JournalLine, 0, len(lines))
	for _, l := range lines {
		if l.Debit.IsZero() && l.Credit.IsZero() {
			continue
		}
		effective = append(effective, l)
	}
	return effective
}

// ValidateEntryBalance checks that the debit and credit totals of the lines
// agree within Epsilon. It assumes per-line validation has already run.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range lines {
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}

	if totalDebit.Sub(totalCredit).Abs().GreaterThanOrEqual(Epsilon) {
		return fmt.Errorf("entry does not balance: debits total %s, credits total %s",
			totalDebit.String(), totalCredit.String())
	}
	return nil
}

// BalancedWithinEpsilon reports whether two totals agree within Epsilon.
// Used by the reporting engine's integrity checks.
func BalancedWithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Epsilon)
}
