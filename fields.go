package ach

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gitexel/ach-file/date"
	"github.com/goccy/go-json"
)

// FieldType validates and formats the values of one kind of fixed-width field.
//
// Format turns a caller value into exactly width characters. Value is the
// reverse: it checks a fixed-width slice read from a file and returns the
// caller-facing value, which Format maps back to the same slice.
type FieldType interface {
	Name() string
	Format(v any, width int) (string, error)
	Value(s string) (string, error)
}

// Field types shipped with the standard schema.
var (
	NumericType         FieldType = Numeric{}
	AlphanumericType    FieldType = Alphanumeric{}
	AccountNumberType   FieldType = AccountNumber{}
	RoutingNumberType   FieldType = RoutingNumber{}
	DateType            FieldType = DateField{}
	TimeType            FieldType = TimeField{}
	TransactionCodeType FieldType = TransactionCodeField{}
	ServiceClassType    FieldType = ServiceClassField{}
	EntryClassType      FieldType = EntryClassField{}
)

var fieldTypes = []FieldType{
	NumericType, AlphanumericType, AccountNumberType, RoutingNumberType,
	DateType, TimeType, TransactionCodeType, ServiceClassType, EntryClassType,
}

// FieldTypeByName returns the shipped field type registered under name.
func FieldTypeByName(name string) (FieldType, error) {
	for _, t := range fieldTypes {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unknown field type %q", name)
}

// Numeric is a right-justified, zero-padded, digits-only field.
type Numeric struct{}

func (Numeric) Name() string { return "numeric" }

func (Numeric) Format(v any, width int) (string, error) {
	var s string
	switch x := v.(type) {
	case Amount:
		if x.IsNegative() {
			return "", fmt.Errorf("%w: negative amount %v", ErrNotNumeric, x)
		}
		s = strconv.FormatInt(x.Cents(), 10)
	case string:
		s = strings.TrimSpace(x)
		if s == "" {
			s = "0"
		}
	default:
		i, ok := asInt(v)
		if !ok {
			return "", fmt.Errorf("%w: %T", ErrUnsupported, v)
		}
		if i < 0 {
			return "", fmt.Errorf("%w: negative value %d", ErrNotNumeric, i)
		}
		s = strconv.FormatInt(i, 10)
	}
	if !isDigits(s) {
		return "", ErrNotNumeric
	}
	if len(s) > width {
		return "", fmt.Errorf("%w: %d digits in %d", ErrTooLong, len(s), width)
	}
	return padLeft(s, width, '0'), nil
}

func (Numeric) Value(s string) (string, error) {
	if !isDigits(s) {
		return "", ErrNotNumeric
	}
	return s, nil
}

// Alphanumeric is a left-justified, space-padded field of printable ASCII.
type Alphanumeric struct{}

func (Alphanumeric) Name() string { return "alphanumeric" }

func (Alphanumeric) Format(v any, width int) (string, error) {
	s, err := asText(v)
	if err != nil {
		return "", err
	}
	if !isPrintable(s) {
		return "", ErrNotPrintable
	}
	if len(s) > width {
		return "", fmt.Errorf("%w: %d characters in %d", ErrTooLong, len(s), width)
	}
	return padRight(s, width, ' '), nil
}

func (Alphanumeric) Value(s string) (string, error) {
	if !isPrintable(s) {
		return "", ErrNotPrintable
	}
	return strings.TrimRight(s, " "), nil
}

// AccountNumber is a left-justified, space-padded field of digits.
type AccountNumber struct{}

func (AccountNumber) Name() string { return "account_number" }

func (AccountNumber) Format(v any, width int) (string, error) {
	s, err := asText(v)
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return "", ErrNotNumeric
	}
	if len(s) > width {
		return "", fmt.Errorf("%w: %d digits in %d", ErrTooLong, len(s), width)
	}
	return padRight(s, width, ' '), nil
}

func (AccountNumber) Value(s string) (string, error) {
	v := strings.TrimRight(s, " ")
	if !isDigits(v) {
		return "", ErrNotNumeric
	}
	return v, nil
}

// RoutingNumber is a nine digit ABA routing number with a valid check digit,
// right-justified and space padded when the field is wider than nine.
type RoutingNumber struct{}

func (RoutingNumber) Name() string { return "routing_number" }

func (RoutingNumber) Format(v any, width int) (string, error) {
	var s string
	if i, ok := asInt(v); ok {
		s = fmt.Sprintf("%09d", i)
	} else {
		t, err := asText(v)
		if err != nil {
			return "", err
		}
		s = strings.TrimSpace(t)
	}
	if err := CheckRoutingNumber(s); err != nil {
		return "", err
	}
	if len(s) > width {
		return "", fmt.Errorf("%w: %d digits in %d", ErrTooLong, len(s), width)
	}
	return padLeft(s, width, ' '), nil
}

func (RoutingNumber) Value(s string) (string, error) {
	v := strings.TrimLeft(s, " ")
	if err := CheckRoutingNumber(v); err != nil {
		return "", err
	}
	return v, nil
}

// CheckRoutingNumber verifies a nine digit ABA routing number.
func CheckRoutingNumber(s string) error {
	if len(s) != 9 || !isDigits(s) {
		return fmt.Errorf("%w: routing number must be 9 digits, got %q", ErrNotNumeric, s)
	}
	weights := [9]int{3, 7, 1, 3, 7, 1, 3, 7, 1}
	sum := 0
	for i := range s {
		sum += int(s[i]-'0') * weights[i]
	}
	if sum%10 != 0 {
		return fmt.Errorf("%w: %s", ErrCheckDigit, s)
	}
	return nil
}

// DateField is a YYMMDD calendar date.
type DateField struct{}

func (DateField) Name() string { return "date" }

func (DateField) Format(v any, width int) (string, error) {
	var s string
	switch x := v.(type) {
	case date.Date:
		s = x.Compact()
	case time.Time:
		s = x.Format(date.CompactFormat)
	case string:
		if _, err := date.ParseCompact(x); err == nil {
			s = x
			break
		}
		d, err := date.Parse(x)
		if err != nil {
			return "", fmt.Errorf("%w: %q is neither YYMMDD nor YYYY-MM-DD", ErrBadDate, x)
		}
		s = d.Compact()
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
	if len(s) != width {
		return "", fmt.Errorf("%w: date in a %d wide field", ErrTooLong, width)
	}
	return s, nil
}

func (DateField) Value(s string) (string, error) {
	if _, err := date.ParseCompact(s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadDate, err)
	}
	return s, nil
}

// TimeField is an HHMM time of day. A blank value leaves the field empty.
type TimeField struct{}

func (TimeField) Name() string { return "time" }

func (t TimeField) Format(v any, width int) (string, error) {
	var s string
	switch x := v.(type) {
	case time.Time:
		s = x.Format("1504")
	case string:
		if strings.TrimSpace(x) == "" {
			return strings.Repeat(" ", width), nil
		}
		if _, err := t.Value(x); err != nil {
			return "", err
		}
		s = x
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
	if len(s) != width {
		return "", fmt.Errorf("%w: time in a %d wide field", ErrTooLong, width)
	}
	return s, nil
}

func (TimeField) Value(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	if _, err := time.Parse("1504", s); err != nil || len(s) != 4 {
		return "", fmt.Errorf("%w: %q is not HHMM", ErrBadDate, s)
	}
	return s, nil
}

// TransactionCodeField holds a two digit TransactionCode.
type TransactionCodeField struct{}

func (TransactionCodeField) Name() string { return "transaction_code" }

func (TransactionCodeField) Format(v any, width int) (string, error) {
	c, err := ParseTransactionCode(v)
	if err != nil {
		return "", err
	}
	return padLeft(strconv.Itoa(int(c)), width, '0'), nil
}

func (TransactionCodeField) Value(s string) (string, error) {
	if !isDigits(s) {
		return "", ErrNotNumeric
	}
	if _, err := ParseTransactionCode(s); err != nil {
		return "", err
	}
	return s, nil
}

// ServiceClassField holds a three digit ServiceClassCode.
type ServiceClassField struct{}

func (ServiceClassField) Name() string { return "service_class_code" }

func (ServiceClassField) Format(v any, width int) (string, error) {
	c, err := ParseServiceClassCode(v)
	if err != nil {
		return "", err
	}
	return padLeft(strconv.Itoa(int(c)), width, '0'), nil
}

func (ServiceClassField) Value(s string) (string, error) {
	if !isDigits(s) {
		return "", ErrNotNumeric
	}
	if _, err := ParseServiceClassCode(s); err != nil {
		return "", err
	}
	return s, nil
}

// EntryClassField holds a three letter EntryClass.
type EntryClassField struct{}

func (EntryClassField) Name() string { return "entry_class" }

func (EntryClassField) Format(v any, width int) (string, error) {
	c, err := ParseEntryClass(v)
	if err != nil {
		return "", err
	}
	if len(c) > width {
		return "", ErrTooLong
	}
	return padRight(string(c), width, ' '), nil
}

func (EntryClassField) Value(s string) (string, error) {
	c, err := ParseEntryClass(s)
	if err != nil {
		return "", err
	}
	return string(c), nil
}

// asInt converts the integer-like inputs accepted by numeric fields.
func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float64:
		if x != math.Trunc(x) || math.Abs(x) > 1<<53 {
			return 0, false
		}
		return int64(x), true
	case json.Number:
		i, err := x.Int64()
		return i, err == nil
	}
	return 0, false
}

// asText converts the inputs accepted by text fields.
func asText(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case json.Number:
		return x.String(), nil
	}
	if i, ok := asInt(v); ok {
		return strconv.FormatInt(i, 10), nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupported, v)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// padLeft pads a string on the left to reach the specified length.
func padLeft(s string, length int, pad byte) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(string(pad), length-len(s)) + s
}

// padRight pads a string on the right to reach the specified length.
func padRight(s string, length int, pad byte) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(string(pad), length-len(s))
}
