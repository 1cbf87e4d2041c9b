package extract

import (
	"fmt"
	"strings"

	"github.com/ledgermate/ledgermate/internal/model"
)

// Problem describes one field-level validation failure.
type Problem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Field, p.Message)
}

// Validate checks an extracted record against per-kind rules. A nil return
// means the record is usable as-is.
func Validate(r *model.TransactionRecord, kind model.RecordKind) []Problem {
	var problems []Problem

	if r == nil {
		return []Problem{{Field: "record", Message: "nothing extracted"}}
	}

	if r.Amount.IsZero() || r.Amount.IsNegative() {
		problems = append(problems, Problem{Field: "amount", Message: "missing or not a positive number"})
	}

	switch kind {
	case model.KindExpense:
		if len(strings.TrimSpace(r.Store)) < 3 {
			problems = append(problems, Problem{Field: "store", Message: "store name too short"})
		}
	case model.KindRevenue:
		if len(strings.TrimSpace(r.Store)) < 3 {
			problems = append(problems, Problem{Field: "source", Message: "payment source too short"})
		}
	case model.KindBill:
		if len(strings.TrimSpace(r.Store)) < 3 {
			problems = append(problems, Problem{Field: "payee", Message: "payee name too short"})
		}
	}

	if r.Date.IsZero() {
		problems = append(problems, Problem{Field: "date", Message: "date could not be parsed"})
	}

	return problems
}

// ValidateJobName applies the descriptive-field rule for job and quote
// names.
func ValidateJobName(name string) []Problem {
	if len(strings.TrimSpace(name)) < 3 {
		return []Problem{{Field: "job", Message: "job name too short"}}
	}
	return nil
}
