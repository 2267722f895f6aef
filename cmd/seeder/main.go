// Seeder fills the active store with demo data: a roster of students, a
// handful of announcement messages, and one admin user. Intended for local
// development against either backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"

	"github.com/schooldesk/schooldesk"
	"github.com/schooldesk/schooldesk/core"
	"github.com/schooldesk/schooldesk/storage"
)

var firstNames = []string{
	"Ann", "Ben", "Clara", "Daniel", "Elif", "Farid", "Greta", "Hugo",
	"Iris", "Jonas", "Katya", "Liam", "Mina", "Noah", "Olga", "Pavel",
	"Quinn", "Rosa", "Samir", "Tessa", "Umar", "Vera", "Wendy", "Yusuf",
}

var lastNames = []string{
	"Adler", "Bergman", "Castillo", "Dimitrov", "Eriksen", "Fontaine",
	"Gruber", "Haddad", "Ivanova", "Jansen", "Kowalski", "Lindqvist",
	"Moreau", "Novak", "Okafor", "Petrova", "Quispe", "Rossi", "Sato",
	"Tanaka", "Ueda", "Vasquez", "Weber", "Zhang",
}

var noteSamples = []string{
	"allergic to peanuts",
	"picked up by grandmother on Fridays",
	"needs front-row seating",
	"excused from swimming this term",
}

var messageBodies = []string{
	"Reminder: parent-teacher meetings next Thursday.",
	"The science fair moves to the main hall.",
	"Please return library books before the holidays.",
	"Bus route 4 is suspended tomorrow.",
}

var (
	count   = flag.Int("count", 50, "number of students to seed")
	workers = flag.Int("workers", 8, "number of concurrent workers")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// seedStudents creates n students through a bounded worker pool. Failures
// are logged and counted, not fatal: a partial seed is still useful.
func seedStudents(ctx context.Context, store storage.Store, n, poolSize int) int {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		slog.Error("failed to create worker pool", "err", err)
		return 0
	}
	defer pool.Release()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		seeded int
	)
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			input := core.NewStudent{
				Code:  fmt.Sprintf("S%04d", i+1),
				Name:  firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))],
				Grade: core.MinGrade + rand.Intn(core.MaxGrade-core.MinGrade+1),
				Phone: fmt.Sprintf("555-%04d", rand.Intn(10000)),
			}
			if rand.Intn(4) == 0 {
				notes := noteSamples[rand.Intn(len(noteSamples))]
				input.Notes = &notes
			}

			if _, err := store.CreateStudent(ctx, input); err != nil {
				slog.Error("failed to seed student", "code", input.Code, "err", err)
				return
			}
			mu.Lock()
			seeded++
			mu.Unlock()
		}); err != nil {
			wg.Done()
			slog.Error("failed to submit seed task", "err", err)
		}
	}
	wg.Wait()
	return seeded
}

func seedMessages(ctx context.Context, store storage.Store) int {
	seeded := 0
	for i, body := range messageBodies {
		input := core.NewMessage{Body: body}
		if i%2 == 0 {
			grade := core.MinGrade + rand.Intn(core.MaxGrade-core.MinGrade+1)
			input.TargetGrade = &grade
		}
		if _, err := store.CreateMessage(ctx, input); err != nil {
			slog.Error("failed to seed message", "err", err)
			continue
		}
		seeded++
	}
	return seeded
}

func seedAdmin(ctx context.Context, store storage.Store) error {
	hash, err := core.HashPassword("admin")
	if err != nil {
		return err
	}
	_, err = store.CreateUser(ctx, core.NewUser{Username: "admin", Password: hash})
	return err
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	store, err := schooldesk.Open(ctx, schooldesk.ConfigFromEnv())
	if err != nil {
		slog.Error("failed to open store", "err", err)
		os.Exit(1)
	}
	defer store.Close(ctx)

	students := seedStudents(ctx, store, *count, *workers)
	messages := seedMessages(ctx, store)
	if err := seedAdmin(ctx, store); err != nil {
		slog.Error("failed to seed admin user", "err", err)
	}

	slog.Info("seeding complete", "students", students, "messages", messages)
}
