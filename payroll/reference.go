package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common reference prefixes.
const (
	PrefixLeaveRequest = "LR"
	PrefixLoan         = "LN"
	PrefixPayrollRun   = "PR"
	PrefixPayslip      = "PS"
)

// FormatReferenceNumber builds a sequential reference "PREFIX-YYYY-NNNNN".
// The sequence is zero-padded to five digits and grows past that.
func FormatReferenceNumber(prefix string, date time.Time, seq int) string {
	return fmt.Sprintf("%s-%04d-%05d", strings.ToUpper(prefix), date.Year(), seq)
}

// NewReferenceNumber builds a unique, non-sequential reference
// "PREFIX-YYYYMMDD-XXXXXXXX" from a random UUID.
func NewReferenceNumber(prefix string, date time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", strings.ToUpper(prefix), date.Format("20060102"), suffix)
}
