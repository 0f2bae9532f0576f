package output

import (
	"fmt"
	"strings"

	"github.com/rpgo/lifesim/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	initialState = "Initial State"
	normalYear   = "Normal Year"
)

// RenderEvents joins a record's descriptors into the human-readable events
// string. Year 0 is always "Initial State"; a year with nothing to report is
// "Normal Year".
func RenderEvents(r domain.YearlyRecord) string {
	if r.Year == 0 {
		return initialState
	}
	if !r.HasEvents() {
		return normalYear
	}
	parts := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		parts = append(parts, DescribeEvent(e))
	}
	return strings.Join(parts, ", ")
}

// DescribeEvent renders one descriptor.
func DescribeEvent(e domain.EventDescriptor) string {
	switch e.Kind {
	case domain.EventBlackSwan:
		return fmt.Sprintf("🌪️ BLACK SWAN! Savings & Income Hit! (%sL)", signed(e.Amount))
	case domain.EventJobLoss:
		return describeJobLoss(e)
	case domain.EventMarketCrash:
		return describeMarketCrash(e)
	case domain.EventMedical:
		return fmt.Sprintf("🏥 Medical Emergency (%sL)", signed(e.Amount))
	case domain.EventDivorce:
		return fmt.Sprintf("💔 Divorce. Savings %sL", signed(e.Amount))
	case domain.EventFamilyExpense:
		return fmt.Sprintf("👨‍👩‍👧‍👦 Family Expense (%sL)", signed(e.Amount))
	case domain.EventMarriage:
		if e.Subject == "self" || e.Subject == "" {
			return fmt.Sprintf("💒 Marriage (%sL)", signed(e.Amount))
		}
		return fmt.Sprintf("💒 %s Marriage (%sL)", title(e.Subject), signed(e.Amount))
	case domain.EventChildBorn:
		return fmt.Sprintf("👶 %s Born (%sL)", title(e.Subject), signed(e.Amount))
	case domain.EventEducation:
		return fmt.Sprintf("🎓 %s Edu. (%sL)", title(e.Subject), signed(e.Amount))
	case domain.EventBusiness:
		switch {
		case e.Subject == "insufficient_capital":
			return "💸 Wanted Business Venture, Insufficient Capital"
		case e.Success:
			return fmt.Sprintf("📈 Business Success! Invested %sL, Returned %sL", e.Basis.StringFixed(2), e.Basis.Add(e.Amount).StringFixed(2))
		default:
			return fmt.Sprintf("📉 Business Failed. Invested %sL, Lost %sL", e.Basis.StringFixed(2), e.Amount.Neg().StringFixed(2))
		}
	case domain.EventInheritance:
		return fmt.Sprintf("💰 Inheritance Received! (%sL)", signed(e.Amount))
	case domain.EventCareer:
		return fmt.Sprintf("🚀 Career Advancement! New Income: %sL", e.Amount.StringFixed(2))
	case domain.EventRetirement:
		return "🌴 Retired: Income set to 0."
	case domain.EventDebtIncurred:
		return fmt.Sprintf("🆘 Incurred Debt: %sL. Total Debt: %sL", e.Amount.StringFixed(2), e.Basis.StringFixed(2))
	case domain.EventDebtRepaid:
		return fmt.Sprintf("💰 Paid Off Debt: %sL. Remaining Debt: %sL", e.Amount.StringFixed(2), e.Basis.StringFixed(2))
	}
	return string(e.Kind)
}

func describeJobLoss(e domain.EventDescriptor) string {
	switch e.Phase {
	case domain.PhaseTriggered:
		return fmt.Sprintf("🧨 Job Loss Started (%d months)", e.Months)
	case domain.PhaseResolved:
		return fmt.Sprintf("📈 Job Fully Recovered. Income: %sL", e.Amount.StringFixed(2))
	}
	if e.Months > 0 {
		if e.Amount.IsPositive() {
			return fmt.Sprintf("💸 Job Ended. New salary %sL. Recovery: %d yrs.", e.Amount.StringFixed(2), e.Years)
		}
		return fmt.Sprintf("🧨 Job Loss Ongoing (%d months out)", e.Months)
	}
	return fmt.Sprintf("📈 Job Recovery. Income: %sL. %d yrs left.", e.Amount.StringFixed(2), e.Years)
}

func describeMarketCrash(e domain.EventDescriptor) string {
	switch e.Phase {
	case domain.PhaseTriggered:
		return fmt.Sprintf("📉 Market Crash! Equity returns %s%%. Recovery: %d yrs.", e.Rate.Mul(decimal.NewFromInt(100)).StringFixed(0), e.Years)
	case domain.PhaseResolved:
		return "📈 Market Fully Recovered"
	}
	return fmt.Sprintf("📉 Market Recovery Ongoing (%d yrs left)", e.Years)
}

func signed(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}

func title(subject string) string {
	if subject == "" {
		return "Child"
	}
	return strings.ToUpper(subject[:1]) + subject[1:]
}
