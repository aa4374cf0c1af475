package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ConflictKind is the storage adapter's verdict on a failed insert. Raw driver
// errors are mapped to a kind once, at the repository boundary.
type ConflictKind int

const (
	ConflictNone ConflictKind = iota
	ConflictDuplicate
	ConflictValidation
	ConflictUnknown
)

func (k ConflictKind) String() string {
	switch k {
	case ConflictNone:
		return "none"
	case ConflictDuplicate:
		return "duplicate"
	case ConflictValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// StoreError carries a classified insert failure. Error() returns the driver's
// message unchanged.
type StoreError struct {
	Kind ConflictKind
	Err  error
}

func (e *StoreError) Error() string {
	if e == nil || e.Err == nil {
		return "store error"
	}
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// Target names the collection a write went to.
type Target string

const (
	TargetCategory Target = "category"
	TargetLimit    Target = "limit"
)

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeDuplicate
	OutcomeHardFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeDuplicate:
		return "duplicate_warning"
	case OutcomeHardFailure:
		return "hard_failure"
	default:
		return "invalid"
	}
}

// WriteOutcome is the classified result of one insert attempt. It only lives for
// the duration of a submission.
type WriteOutcome struct {
	Kind     OutcomeKind
	Payload  any
	Message  string
	Conflict ConflictKind
}

const genericFailureMessage = "unexpected store response"

// MarshalJSON renders the success payload as-is and a duplicate as {"warning": ...}.
func (o WriteOutcome) MarshalJSON() ([]byte, error) {
	switch o.Kind {
	case OutcomeSuccess:
		return json.Marshal(o.Payload)
	case OutcomeDuplicate:
		return json.Marshal(map[string]string{"warning": o.Message})
	default:
		return json.Marshal(map[string]string{"error": o.Message})
	}
}

func (o WriteOutcome) Proceeds() bool {
	return o.Kind == OutcomeSuccess || o.Kind == OutcomeDuplicate
}

// DuplicateMessage is the warning shown when a row for key already exists.
func DuplicateMessage(target Target, key string) string {
	if target == TargetLimit {
		return fmt.Sprintf("Limit already exists for domain '%s'", key)
	}
	return fmt.Sprintf("Category already exists for pattern '%s'", key)
}

// ClassifyOutcome turns a raw insert result into a WriteOutcome. key is the
// conflicting identifier named in duplicate warnings.
func ClassifyOutcome(target Target, key string, payload any, err error) (out WriteOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = WriteOutcome{Kind: OutcomeHardFailure, Message: genericFailureMessage, Conflict: ConflictUnknown}
		}
	}()

	if err == nil {
		if isNil(payload) {
			return WriteOutcome{Kind: OutcomeHardFailure, Message: genericFailureMessage, Conflict: ConflictUnknown}
		}
		return WriteOutcome{Kind: OutcomeSuccess, Payload: payload}
	}

	kind := ConflictUnknown
	var se *StoreError
	if errors.As(err, &se) {
		kind = se.Kind
	} else if strings.Contains(strings.ToLower(err.Error()), "duplicate key") {
		// Untyped errors from collaborators that bypass the repository adapter.
		kind = ConflictDuplicate
	}
	if kind == ConflictDuplicate {
		return WriteOutcome{Kind: OutcomeDuplicate, Message: DuplicateMessage(target, key), Conflict: kind}
	}
	if kind == ConflictNone {
		kind = ConflictUnknown
	}
	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		msg = genericFailureMessage
	}
	return WriteOutcome{Kind: OutcomeHardFailure, Message: msg, Conflict: kind}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// StoreFailure aborts a submission. Message is the store's text, verbatim.
type StoreFailure struct {
	Target   Target
	Conflict ConflictKind
	Message  string
}

func (e *StoreFailure) Error() string { return e.Message }

// FailureFrom converts a hard-failure outcome into the error returned to callers.
func FailureFrom(target Target, o WriteOutcome) *StoreFailure {
	return &StoreFailure{Target: target, Conflict: o.Conflict, Message: o.Message}
}

// CombinedResult is returned when both writes proceeded. Each side reports either
// the inserted row or a duplicate warning.
type CombinedResult struct {
	Success        bool         `json:"success"`
	CategoryResult WriteOutcome `json:"category_result"`
	LimitResult    WriteOutcome `json:"limit_result"`
}
