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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/schooldesk/schooldesk"
	"github.com/schooldesk/schooldesk/core"
	"github.com/schooldesk/schooldesk/storage"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "schooldesk",
		Usage: "Administer the school-management record store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:  "student",
				Usage: "Manage student records",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Create a student record",
						Action: studentAddCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "code", Usage: "External student code", Required: true},
							&cli.StringFlag{Name: "name", Usage: "Full name", Required: true},
							&cli.IntFlag{Name: "grade", Usage: "Grade (1-12)", Required: true},
							&cli.StringFlag{Name: "phone", Usage: "Contact phone"},
							&cli.StringFlag{Name: "notes", Usage: "Free-text notes"},
						},
					},
					{
						Name:   "list",
						Usage:  "List students, optionally one grade",
						Action: studentListCommand,
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "grade", Usage: "Only this grade"},
						},
					},
					{
						Name:   "show",
						Usage:  "Show a student by ID",
						Action: studentShowCommand,
						Flags: []cli.Flag{
							&cli.Int64Flag{Name: "id", Usage: "Student ID", Required: true},
						},
					},
					{
						Name:   "update",
						Usage:  "Update the supplied fields of a student",
						Action: studentUpdateCommand,
						Flags: []cli.Flag{
							&cli.Int64Flag{Name: "id", Usage: "Student ID", Required: true},
							&cli.StringFlag{Name: "code", Usage: "External student code"},
							&cli.StringFlag{Name: "name", Usage: "Full name"},
							&cli.IntFlag{Name: "grade", Usage: "Grade (1-12)"},
							&cli.StringFlag{Name: "phone", Usage: "Contact phone"},
							&cli.StringFlag{Name: "notes", Usage: "Free-text notes"},
						},
					},
					{
						Name:   "delete",
						Usage:  "Delete a student by ID",
						Action: studentDeleteCommand,
						Flags: []cli.Flag{
							&cli.Int64Flag{Name: "id", Usage: "Student ID", Required: true},
						},
					},
					{
						Name:      "search",
						Usage:     "Search students by name, code, phone, or notes",
						ArgsUsage: "<query>",
						Action:    studentSearchCommand,
					},
				},
			},
			{
				Name:  "message",
				Usage: "Manage announcement messages",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Create a pending message",
						Action: messageAddCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "body", Usage: "Message body", Required: true},
							&cli.IntFlag{Name: "grade", Usage: "Target grade (omit for all grades)"},
						},
					},
					{
						Name:   "list",
						Usage:  "List messages",
						Action: messageListCommand,
					},
					{
						Name:   "status",
						Usage:  "Set the status of a message",
						Action: messageStatusCommand,
						Flags: []cli.Flag{
							&cli.Int64Flag{Name: "id", Usage: "Message ID", Required: true},
							&cli.StringFlag{Name: "status", Usage: "New status (e.g. sent, failed)", Required: true},
						},
					},
				},
			},
			{
				Name:  "user",
				Usage: "Manage user accounts",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Create a user with a hashed password",
						Action: userAddCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "username", Usage: "Login name", Required: true},
							&cli.StringFlag{Name: "password", Usage: "Plaintext password to hash", Required: true},
						},
					},
					{
						Name:   "show",
						Usage:  "Show a user by ID or username",
						Action: userShowCommand,
						Flags: []cli.Flag{
							&cli.Int64Flag{Name: "id", Usage: "User ID"},
							&cli.StringFlag{Name: "username", Usage: "Login name"},
						},
					},
				},
			},
		},
	}
}

// openStore builds the active store from the environment. A .env file in
// the working directory is honored when present.
func openStore(ctx context.Context) (storage.Store, error) {
	_ = godotenv.Load()
	store, err := schooldesk.Open(ctx, schooldesk.ConfigFromEnv())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func studentAddCommand(c *cli.Context) error {
	ctx := context.Background()

	input := core.NewStudent{
		Code:  c.String("code"),
		Name:  c.String("name"),
		Grade: c.Int("grade"),
		Phone: c.String("phone"),
	}
	if c.IsSet("notes") {
		notes := c.String("notes")
		input.Notes = &notes
	}
	if err := core.ValidateNewStudent(input); err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	student, err := store.CreateStudent(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return printJSON(student)
}

func studentListCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	var students []*core.Student
	if c.IsSet("grade") {
		students, err = store.GetStudentsByGrade(ctx, c.Int("grade"))
	} else {
		students, err = store.GetStudents(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list students: %w", err)
	}
	return printJSON(students)
}

func studentShowCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	student, err := store.GetStudent(ctx, c.Int64("id"))
	if err != nil {
		return err
	}
	return printJSON(student)
}

func studentUpdateCommand(c *cli.Context) error {
	ctx := context.Background()

	var patch core.StudentPatch
	if c.IsSet("code") {
		code := c.String("code")
		patch.Code = &code
	}
	if c.IsSet("name") {
		name := c.String("name")
		patch.Name = &name
	}
	if c.IsSet("grade") {
		grade := c.Int("grade")
		if grade < core.MinGrade || grade > core.MaxGrade {
			return core.ErrInvalidGrade
		}
		patch.Grade = &grade
	}
	if c.IsSet("phone") {
		phone := c.String("phone")
		patch.Phone = &phone
	}
	if c.IsSet("notes") {
		notes := c.String("notes")
		patch.Notes = &notes
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	student, err := store.UpdateStudent(ctx, c.Int64("id"), patch)
	if err != nil {
		return err
	}
	return printJSON(student)
}

func studentDeleteCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	deleted, err := store.DeleteStudent(ctx, c.Int64("id"))
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if !deleted {
		return storage.ErrNotFound
	}
	fmt.Println("deleted")
	return nil
}

func studentSearchCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	students, err := store.SearchStudents(ctx, c.Args().First())
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return printJSON(students)
}

func messageAddCommand(c *cli.Context) error {
	ctx := context.Background()

	input := core.NewMessage{Body: c.String("body")}
	if c.IsSet("grade") {
		grade := c.Int("grade")
		input.TargetGrade = &grade
	}
	if err := core.ValidateNewMessage(input); err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	message, err := store.CreateMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return printJSON(message)
}

func messageListCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	messages, err := store.GetMessages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list messages: %w", err)
	}
	return printJSON(messages)
}

func messageStatusCommand(c *cli.Context) error {
	ctx := context.Background()

	status := core.MessageStatus(c.String("status"))
	if err := core.ValidateStatus(status); err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	message, err := store.UpdateMessageStatus(ctx, c.Int64("id"), status)
	if err != nil {
		return err
	}
	return printJSON(message)
}

func userAddCommand(c *cli.Context) error {
	ctx := context.Background()

	input := core.NewUser{
		Username: c.String("username"),
		Password: c.String("password"),
	}
	if err := core.ValidateNewUser(input); err != nil {
		return err
	}
	hash, err := core.HashPassword(input.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	input.Password = hash

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	user, err := store.CreateUser(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return printJSON(user)
}

func userShowCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	var user *core.User
	switch {
	case c.IsSet("id"):
		user, err = store.GetUser(ctx, c.Int64("id"))
	case c.IsSet("username"):
		user, err = store.GetUserByUsername(ctx, c.String("username"))
	default:
		return fmt.Errorf("either --id or --username is required")
	}
	if err != nil {
		return err
	}
	return printJSON(user)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
