package errors

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDeepErrorFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      *DeepError
		wantErr  string
		wantUser string
	}{
		{
			name:     "what only",
			err:      &DeepError{What: "something broke"},
			wantErr:  "something broke",
			wantUser: "Error: something broke",
		},
		{
			name:     "what and why",
			err:      &DeepError{What: "something broke", Why: "bad input"},
			wantErr:  "something broke: bad input",
			wantUser: "Error: something broke\n\nWhy: bad input",
		},
		{
			name: "full error",
			err: &DeepError{
				What: "something broke",
				Why:  "bad input",
				Fix:  "try again",
			},
			wantErr:  "something broke: bad input",
			wantUser: "Error: something broke\n\nWhy: bad input\n\nFix: try again",
		},
		{
			name: "with cause",
			err: &DeepError{
				What:  "something broke",
				Cause: errors.New("underlying error"),
			},
			wantErr:  "something broke: underlying error",
			wantUser: "Error: something broke",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantErr {
				t.Errorf("Error() = %q, want %q", got, tt.wantErr)
			}
			if got := tt.err.UserMessage(); got != tt.wantUser {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestDeepErrorJSON(t *testing.T) {
	err := &DeepError{
		Code:  CodeTasksConflict,
		What:  "user-specified task list is not empty",
		Why:   "Task list \"custom\" already has 2 live task(s)",
		Fix:   "Re-run with --force",
		Cause: errors.New("existing records"),
	}

	data, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("MarshalJSON failed: %v", marshalErr)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if result["code"] != string(CodeTasksConflict) {
		t.Errorf("code = %v, want %v", result["code"], CodeTasksConflict)
	}
	if result["cause"] != "existing records" {
		t.Errorf("cause = %v, want %q", result["cause"], "existing records")
	}
}

func TestDeepErrorIs(t *testing.T) {
	err := ErrNoTaskList()
	if !errors.Is(err, &DeepError{Code: CodeNoTaskList}) {
		t.Error("errors.Is should match on code")
	}
	if errors.Is(err, &DeepError{Code: CodeTasksConflict}) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestDeepErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrWriteFailed("write task record", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		code Code
		want Category
	}{
		{CodeInputInvalid, CategoryValidation},
		{CodeStateCorrupted, CategoryCorruption},
		{CodeTasksConflict, CategoryConflict},
		{CodeNoTaskList, CategoryMissing},
		{CodeWriteFailed, CategoryIO},
		{Code("BOGUS"), CategoryUnknown},
	}
	for _, tt := range tests {
		e := &DeepError{Code: tt.code}
		if got := e.Category(); got != tt.want {
			t.Errorf("Category(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
