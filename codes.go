package ach

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gitexel/ach-file/date"
)

// TransactionCode identifies the account type and the direction of an entry.
type TransactionCode int

// Accepted transaction codes. Zero-dollar remittance codes (x4, x9) are not
// part of the set.
const (
	CheckingReturnCredit  TransactionCode = 21
	CheckingCredit        TransactionCode = 22
	CheckingPrenoteCredit TransactionCode = 23
	CheckingReturnDebit   TransactionCode = 26
	CheckingDebit         TransactionCode = 27
	CheckingPrenoteDebit  TransactionCode = 28
	SavingsReturnCredit   TransactionCode = 31
	SavingsCredit         TransactionCode = 32
	SavingsPrenoteCredit  TransactionCode = 33
	SavingsReturnDebit    TransactionCode = 36
	SavingsDebit          TransactionCode = 37
	SavingsPrenoteDebit   TransactionCode = 38
	GLReturnCredit        TransactionCode = 41
	GLCredit              TransactionCode = 42
	GLPrenoteCredit       TransactionCode = 43
	GLReturnDebit         TransactionCode = 46
	GLDebit               TransactionCode = 47
	GLPrenoteDebit        TransactionCode = 48
	LoanReturnCredit      TransactionCode = 51
	LoanCredit            TransactionCode = 52
	LoanPrenoteCredit     TransactionCode = 53
	LoanDebit             TransactionCode = 55
)

var transactionCodeNames = map[TransactionCode]string{
	CheckingReturnCredit:  "CHECKING_RETURN_CREDIT",
	CheckingCredit:        "CHECKING_CREDIT",
	CheckingPrenoteCredit: "CHECKING_PRENOTE_CREDIT",
	CheckingReturnDebit:   "CHECKING_RETURN_DEBIT",
	CheckingDebit:         "CHECKING_DEBIT",
	CheckingPrenoteDebit:  "CHECKING_PRENOTE_DEBIT",
	SavingsReturnCredit:   "SAVINGS_RETURN_CREDIT",
	SavingsCredit:         "SAVINGS_CREDIT",
	SavingsPrenoteCredit:  "SAVINGS_PRENOTE_CREDIT",
	SavingsReturnDebit:    "SAVINGS_RETURN_DEBIT",
	SavingsDebit:          "SAVINGS_DEBIT",
	SavingsPrenoteDebit:   "SAVINGS_PRENOTE_DEBIT",
	GLReturnCredit:        "GL_RETURN_CREDIT",
	GLCredit:              "GL_CREDIT",
	GLPrenoteCredit:       "GL_PRENOTE_CREDIT",
	GLReturnDebit:         "GL_RETURN_DEBIT",
	GLDebit:               "GL_DEBIT",
	GLPrenoteDebit:        "GL_PRENOTE_DEBIT",
	LoanReturnCredit:      "LOAN_RETURN_CREDIT",
	LoanCredit:            "LOAN_CREDIT",
	LoanPrenoteCredit:     "LOAN_PRENOTE_CREDIT",
	LoanDebit:             "LOAN_DEBIT",
}

func (c TransactionCode) String() string {
	if n, ok := transactionCodeNames[c]; ok {
		return n
	}
	return strconv.Itoa(int(c))
}

// IsCredit reports whether entries with this code credit the receiver.
func (c TransactionCode) IsCredit() bool { d := int(c) % 10; return d >= 1 && d <= 4 }

// IsDebit reports whether entries with this code debit the receiver.
func (c TransactionCode) IsDebit() bool { d := int(c) % 10; return d >= 5 }

// IsPrenote reports whether the code is a zero-amount prenotification.
func (c TransactionCode) IsPrenote() bool { d := int(c) % 10; return d == 3 || d == 8 }

// ParseTransactionCode accepts a TransactionCode, an integer, a digit string
// or a symbolic name such as "CHECKING_CREDIT".
func ParseTransactionCode(v any) (TransactionCode, error) {
	if c, ok := v.(TransactionCode); ok {
		v = int(c)
	}
	return parseCode(v, transactionCodeNames)
}

// ServiceClassCode tells whether a batch carries credits, debits or both.
type ServiceClassCode int

const (
	MixedDebitsAndCredits ServiceClassCode = 200
	CreditsOnly           ServiceClassCode = 220
	DebitsOnly            ServiceClassCode = 225
	AccountingAdvices     ServiceClassCode = 280
)

var serviceClassNames = map[ServiceClassCode]string{
	MixedDebitsAndCredits: "MIXED_DEBITS_AND_CREDITS",
	CreditsOnly:           "CREDITS_ONLY",
	DebitsOnly:            "DEBITS_ONLY",
	AccountingAdvices:     "ACCOUNTING_ADVICES",
}

func (c ServiceClassCode) String() string {
	if n, ok := serviceClassNames[c]; ok {
		return n
	}
	return strconv.Itoa(int(c))
}

// ParseServiceClassCode accepts the same input forms as ParseTransactionCode.
func ParseServiceClassCode(v any) (ServiceClassCode, error) {
	if c, ok := v.(ServiceClassCode); ok {
		v = int(c)
	}
	return parseCode(v, serviceClassNames)
}

// parseCode resolves v against a closed set of integer codes.
func parseCode[T ~int](v any, names map[T]string) (T, error) {
	var n int
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		for c, name := range names {
			if strings.EqualFold(s, name) {
				return c, nil
			}
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnknownCode, x)
		}
		n = i
	default:
		i, ok := asInt(v)
		if !ok {
			return 0, fmt.Errorf("%w: %T", ErrUnsupported, v)
		}
		n = int(i)
	}
	c := T(n)
	if _, ok := names[c]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCode, n)
	}
	return c, nil
}

// EntryClass is the three letter standard entry class (SEC) code of a batch.
type EntryClass string

const (
	PPD EntryClass = "PPD" // prearranged payment and deposit
	CCD EntryClass = "CCD" // corporate credit or debit
	CTX EntryClass = "CTX" // corporate trade exchange
	WEB EntryClass = "WEB" // internet initiated
	TEL EntryClass = "TEL" // telephone initiated
	ARC EntryClass = "ARC" // accounts receivable check
	BOC EntryClass = "BOC" // back office conversion
	POP EntryClass = "POP" // point of purchase
	RCK EntryClass = "RCK" // re-presented check
	CIE EntryClass = "CIE" // customer initiated
)

var entryClasses = []EntryClass{PPD, CCD, CTX, WEB, TEL, ARC, BOC, POP, RCK, CIE}

// ParseEntryClass accepts an EntryClass or its case-insensitive string form.
func ParseEntryClass(v any) (EntryClass, error) {
	var s string
	switch x := v.(type) {
	case EntryClass:
		s = string(x)
	case string:
		s = x
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, c := range entryClasses {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCode, s)
}

// AutoDate is a date input resolved against the builder clock at render time.
type AutoDate int

const (
	AutoToday AutoDate = iota + 1
	AutoTomorrow
	AutoNextBusinessDay
)

var autoDateNames = map[AutoDate]string{
	AutoToday:           "TODAY",
	AutoTomorrow:        "TOMORROW",
	AutoNextBusinessDay: "NEXT_BUSINESS_DAY",
}

func (a AutoDate) String() string { return autoDateNames[a] }

// ParseAutoDate recognizes the symbolic names TODAY, TOMORROW and
// NEXT_BUSINESS_DAY.
func ParseAutoDate(s string) (AutoDate, bool) {
	for a, name := range autoDateNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return a, true
		}
	}
	return 0, false
}

// Resolve returns the instant a stands for, keeping the clock time of day.
func (a AutoDate) Resolve(c date.Clock) time.Time {
	now := c.Now()
	switch a {
	case AutoTomorrow:
		return now.AddDate(0, 0, 1)
	case AutoNextBusinessDay:
		next := date.FromTime(now).AddBusinessDays(1)
		return time.Date(next.Year(), next.Month(), next.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location())
	default:
		return now
	}
}
