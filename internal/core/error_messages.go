package core

// error_messages.go maps technical pipeline errors to coded messages for the
// CLI run summary and the status server.
//
// Codes are grouped by the stage that failed:
//
//	EXT001-EXT099  extraction (workbook, sheet, download)
//	SCH001-SCH099  schema checks before loading
//	DB001-DB099    database connectivity and constraints
//	LOAD001-099    load transaction
//	CFG001-CFG099  configuration
//	RUN001-RUN099  run control (cancellation, timeouts, overlap)
//	ERR000         no pattern matched; check the logs for the original error
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Extraction
	{
		pattern: "sheet not found",
		msg: UserMessage{
			Message: "The workbook has no worksheet at the configured index",
			Action:  "Check the sheet order in the farm workbook",
			Code:    "EXT001",
		},
	},
	{
		pattern: "no spreadsheet source",
		msg: UserMessage{
			Message: "No spreadsheet source is configured",
			Action:  "Set SOURCE_WORKBOOK, SPREADSHEET_ID or SOURCE_CSV_DIR",
			Code:    "EXT002",
		},
	},
	{
		pattern: "download workbook",
		msg: UserMessage{
			Message: "The remote workbook could not be downloaded",
			Action:  "Check the spreadsheet ID, sharing settings and access token",
			Code:    "EXT003",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "The workbook could not be opened",
			Action:  "Make sure the file exists and is a valid .xlsx workbook",
			Code:    "EXT004",
		},
	},
	{
		pattern: "read csv",
		msg: UserMessage{
			Message: "A CSV export could not be read",
			Action:  "Re-export the sheet as comma-separated UTF-8",
			Code:    "EXT005",
		},
	},

	// Schema
	{
		pattern: "missing expected columns",
		msg: UserMessage{
			Message: "The sheet is missing columns the database table needs",
			Action:  "Check the sheet headers against the dataset definition",
			Code:    "SCH001",
		},
	},
	{
		pattern: "mistyped columns",
		msg: UserMessage{
			Message: "A column was not cleaned to the type the table expects",
			Action:  "Add the column to the dataset's cleaning roles",
			Code:    "SCH002",
		},
	},
	{
		pattern: "unknown dataset",
		msg: UserMessage{
			Message: "Unknown dataset",
			Action:  "Run 'fishetl datasets' to list the configured datasets",
			Code:    "SCH003",
		},
	},

	// Database
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this key already exists",
			Action:  "Clear the target table or remove duplicate rows from the sheet",
			Code:    "DB001",
		},
	},
	{
		pattern: "does not exist",
		msg: UserMessage{
			Message: "The target table does not exist",
			Action:  "Run 'fishetl migrate' to create the tables",
			Code:    "DB002",
		},
	},
	{
		pattern: "no such table",
		msg: UserMessage{
			Message: "The target table does not exist",
			Action:  "Run 'fishetl migrate' to create the tables",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},

	// Load
	{
		pattern: "copy into",
		msg: UserMessage{
			Message: "Bulk copy into the target table failed",
			Action:  "Nothing was inserted; check the logs and re-run the dataset",
			Code:    "LOAD001",
		},
	},
	{
		pattern: "insert batch",
		msg: UserMessage{
			Message: "Inserting rows into the target table failed",
			Action:  "Nothing was inserted; check the logs and re-run the dataset",
			Code:    "LOAD002",
		},
	},
	{
		pattern: "commit",
		msg: UserMessage{
			Message: "The load transaction could not be committed",
			Action:  "Nothing was inserted; re-run the dataset",
			Code:    "LOAD003",
		},
	},

	// Configuration
	{
		pattern: "validation failed",
		msg: UserMessage{
			Message: "The configuration is invalid",
			Action:  "Fix the listed environment variables",
			Code:    "CFG001",
		},
	},

	// Run control
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The run was cancelled",
			Action:  "Start a new run when ready",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The dataset took too long",
			Action:  "Raise DATASET_TIMEOUT or check the source and database",
			Code:    "RUN002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "RUN002",
		},
	},
	{
		pattern: "run already in progress",
		msg: UserMessage{
			Message: "A run is already in progress",
			Action:  "Wait for it to finish and check /api/runs",
			Code:    "RUN003",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether an error matches a known pattern rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
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
