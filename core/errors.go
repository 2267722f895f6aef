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

import "errors"

// Domain validation errors
var (
	// ErrInvalidUser indicates a NewUser failed validation.
	ErrInvalidUser = errors.New("invalid user")

	// ErrInvalidStudent indicates a NewStudent failed validation.
	ErrInvalidStudent = errors.New("invalid student")

	// ErrInvalidMessage indicates a NewMessage failed validation.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrEmptyUsername indicates the Username field is empty.
	ErrEmptyUsername = errors.New("username cannot be empty")

	// ErrEmptyPassword indicates the Password field is empty.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrEmptyName indicates the student Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyCode indicates the student Code field is empty.
	ErrEmptyCode = errors.New("student code cannot be empty")

	// ErrInvalidGrade indicates a grade outside the supported range.
	ErrInvalidGrade = errors.New("grade must be between 1 and 12")

	// ErrEmptyBody indicates the message Body field is empty.
	ErrEmptyBody = errors.New("message body cannot be empty")

	// ErrEmptyStatus indicates an empty message status value.
	ErrEmptyStatus = errors.New("status cannot be empty")
)
