package core

// # Error Codes Reference
//
// This file maps technical errors to user-friendly messages with a code
// that users can quote to support staff.
//
// # Persistence Errors (DB001-DB099)
//
//	DB001 - Duplicate: an employee with this value already exists
//	        Patterns: "duplicate key", "23505"
//	DB002 - Missing required value: a required column was left empty
//	        Patterns: "null value in column", "23502"
//	DB003 - Unreachable: the data service could not be reached
//	        Patterns: "connection refused", "no such host"
//	DB004 - Timeout: the data service did not answer in time
//	        Patterns: "timeout", "context deadline exceeded"
//	DB005 - Permission: the access key may not perform this operation
//	        Patterns: "permission denied", "row-level security", "jwt"
//
// # Employee Errors (EMP001-EMP099)
//
//	EMP001 - Not found: no single employee matches the identifier
//	         Patterns: "cannot coerce the result to a single json object"
//	EMP003 - Invalid identifier
//	         Patterns: "invalid employee id"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date     Patterns: "invalid date"
//	VAL002 - Invalid number   Patterns: "invalid number"
//	VAL003 - Invalid body     Patterns: "invalid request body"
//
// # Postal Code Errors (CEP001-CEP099)
//
//	CEP001 - Wrong length     Patterns: "postal code must contain 8 digits"
//	CEP002 - Not found        Patterns: "postal code not found"
//	CEP003 - Lookup failed    Patterns: "postal code lookup failed"
//
// # Other
//
//	RATE001 - Rate limited    Patterns: "rate limit"
//	ERR000  - Unknown error (fallback)
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins. When nothing matches, the error's kind picks a generic message
// (ERR001-ERR003) before falling back to ERR000.

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/employees/internal/apperr"
	"github.com/JonMunkholm/employees/internal/store"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Order matters: specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// Persistence
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "An employee with this value already exists",
			Action:  "Check the CPF and e-mail for duplicates",
			Code:    "DB001",
		},
	},
	{
		pattern: "23505",
		msg: UserMessage{
			Message: "An employee with this value already exists",
			Action:  "Check the CPF and e-mail for duplicates",
			Code:    "DB001",
		},
	},
	{
		pattern: "null value in column",
		msg: UserMessage{
			Message: "A required field is empty",
			Action:  "Fill in all required fields",
			Code:    "DB002",
		},
	},
	{
		pattern: "23502",
		msg: UserMessage{
			Message: "A required field is empty",
			Action:  "Fill in all required fields",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the data service",
			Action:  "Please try again in a few moments",
			Code:    "DB003",
		},
	},
	{
		pattern: "no such host",
		msg: UserMessage{
			Message: "Unable to reach the data service",
			Action:  "Check the service URL configuration",
			Code:    "DB003",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "Operation not allowed",
			Action:  "Check the access key permissions",
			Code:    "DB005",
		},
	},
	{
		pattern: "row-level security",
		msg: UserMessage{
			Message: "Operation not allowed",
			Action:  "Check the table's row-level security policies",
			Code:    "DB005",
		},
	},
	{
		pattern: "jwt",
		msg: UserMessage{
			Message: "Operation not allowed",
			Action:  "Check the access key",
			Code:    "DB005",
		},
	},

	// Employees
	{
		pattern: strings.ToLower(store.NotSingleMessage),
		msg: UserMessage{
			Message: "Employee not found",
			Action:  "The employee may have been removed. Reload the list",
			Code:    "EMP001",
		},
	},
	{
		pattern: "invalid employee id",
		msg: UserMessage{
			Message: "Invalid employee identifier",
			Action:  "Use the links in the employee list",
			Code:    "EMP003",
		},
	},

	// Validation
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date format",
			Action:  "Use DD/MM/YYYY or YYYY-MM-DD",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Invalid number format",
			Action:  "Use a value such as 3500,00",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Send a JSON object with the employee fields",
			Code:    "VAL003",
		},
	},

	// Postal codes
	{
		pattern: "postal code must contain 8 digits",
		msg: UserMessage{
			Message: "The CEP must have 8 digits",
			Action:  "Type the CEP as 00000-000",
			Code:    "CEP001",
		},
	},
	{
		pattern: "postal code not found",
		msg: UserMessage{
			Message: "CEP not found",
			Action:  "Check the number or fill in the address manually",
			Code:    "CEP002",
		},
	},
	{
		pattern: "postal code lookup failed",
		msg: UserMessage{
			Message: "The CEP service is unavailable",
			Action:  "Fill in the address manually or try again later",
			Code:    "CEP003",
		},
	},

	// Timeouts come after the specific patterns above
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// kindMessages are used when no pattern matches but the error was classified.
var kindMessages = map[apperr.Kind]UserMessage{
	apperr.Validation: {
		Message: "Some of the information is invalid",
		Action:  "Review the form and try again",
		Code:    "ERR001",
	},
	apperr.Transport: {
		Message: "The remote service returned an error",
		Action:  "Please try again in a few moments",
		Code:    "ERR002",
	},
	apperr.NotFound: {
		Message: "The requested record was not found",
		Action:  "Reload the page and try again",
		Code:    "ERR003",
	},
}

// defaultMessage is returned when nothing matches (ERR000). Support staff
// should check the logs for the original technical error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(errors.New("duplicate key value violates unique constraint"))
//	// msg.Code == "DB001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	return MapMessage(err.Error(), apperr.KindOf(err))
}

// MapMessage is MapError for a failure already folded into a Result.
func MapMessage(text string, kind apperr.Kind) UserMessage {
	errStr := strings.ToLower(text)

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	if msg, ok := kindMessages[kind]; ok {
		return msg
	}
	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a specific pattern, as opposed
// to a kind fallback or ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	code := MapError(err).Code
	if code == defaultMessage.Code {
		return false
	}
	for _, m := range kindMessages {
		if m.Code == code {
			return false
		}
	}
	return true
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
