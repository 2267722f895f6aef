// Copyright 2025 Schooldesk Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

const (
	// MinGrade and MaxGrade bound the grades the school serves.
	MinGrade = 1
	MaxGrade = 12
)

// ValidateNewUser validates a NewUser according to domain rules.
//
// Validation rules:
//   - Username must not be empty
//   - Password must not be empty
//
// Username uniqueness is NOT validated here: the stores accept duplicate
// usernames and lookups resolve to the oldest match.
func ValidateNewUser(input NewUser) error {
	if input.Username == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUser, ErrEmptyUsername)
	}
	if input.Password == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUser, ErrEmptyPassword)
	}
	return nil
}

// ValidateNewStudent validates a NewStudent according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Code must not be empty
//   - Grade must be within [MinGrade, MaxGrade]
//
// NOT validated (optional by design):
//   - Phone (records without a phone are allowed)
//   - Notes (nil is the normal state)
func ValidateNewStudent(input NewStudent) error {
	if input.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidStudent, ErrEmptyName)
	}
	if input.Code == "" {
		return fmt.Errorf("%w: %w", ErrInvalidStudent, ErrEmptyCode)
	}
	if input.Grade < MinGrade || input.Grade > MaxGrade {
		return fmt.Errorf("%w: %w", ErrInvalidStudent, ErrInvalidGrade)
	}
	return nil
}

// ValidateNewMessage validates a NewMessage according to domain rules.
//
// Validation rules:
//   - Body must not be empty
//   - TargetGrade, when set, must be within [MinGrade, MaxGrade]
func ValidateNewMessage(input NewMessage) error {
	if input.Body == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyBody)
	}
	if input.TargetGrade != nil && (*input.TargetGrade < MinGrade || *input.TargetGrade > MaxGrade) {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrInvalidGrade)
	}
	return nil
}

// ValidateStatus validates a message status value.
// Any non-empty status is accepted; the named constants are the values the
// delivery pipeline assigns, but callers may record their own.
func ValidateStatus(status MessageStatus) error {
	if status == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyStatus)
	}
	return nil
}
