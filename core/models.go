package core

import "time"

// User is an account that can sign in to the application.
// Users are immutable once created; the store assigns the ID.
type User struct {
	ID       int64  `json:"id" bson:"id"`
	Username string `json:"username" bson:"username"`
	// Password carries opaque credential data, normally a bcrypt hash
	// produced by HashPassword. Stores never interpret it.
	Password string `json:"-" bson:"password"`
}

// NewUser is the input for creating a User.
type NewUser struct {
	Username string
	Password string
}

// Student represents an enrolled student.
// ID and CreatedAt are assigned by the store and never change afterwards.
type Student struct {
	ID        int64     `json:"id" bson:"id"`
	Code      string    `json:"code" bson:"code"` // external student code
	Name      string    `json:"name" bson:"name"`
	Grade     int       `json:"grade" bson:"grade"`
	Phone     string    `json:"phone" bson:"phone"`
	Notes     *string   `json:"notes" bson:"notes"` // nil when no notes were recorded
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Clone returns a deep copy of the student.
func (s *Student) Clone() *Student {
	c := *s
	if s.Notes != nil {
		notes := *s.Notes
		c.Notes = &notes
	}
	return &c
}

// NewStudent is the input for creating a Student.
type NewStudent struct {
	Code  string
	Name  string
	Grade int
	Phone string
	Notes *string
}

// StudentPatch is a partial update for a Student.
// Nil fields are left unchanged; ID and CreatedAt can never be patched.
type StudentPatch struct {
	Code  *string
	Name  *string
	Grade *int
	Phone *string
	Notes *string
}

// IsZero reports whether the patch changes nothing.
func (p StudentPatch) IsZero() bool {
	return p.Code == nil && p.Name == nil && p.Grade == nil && p.Phone == nil && p.Notes == nil
}

// MessageStatus tracks the delivery state of a Message.
type MessageStatus string

const (
	// StatusPending is the status every message is created with.
	StatusPending MessageStatus = "pending"
	// StatusSent marks a message that has been delivered.
	StatusSent MessageStatus = "sent"
	// StatusFailed marks a message whose delivery failed.
	StatusFailed MessageStatus = "failed"
)

// Message is an announcement addressed to one grade or to the whole school.
// Status is the only field that may change after creation.
type Message struct {
	ID          int64         `json:"id" bson:"id"`
	Body        string        `json:"body" bson:"body"`
	TargetGrade *int          `json:"targetGrade" bson:"targetGrade"` // nil means all grades
	Status      MessageStatus `json:"status" bson:"status"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	c := *m
	if m.TargetGrade != nil {
		grade := *m.TargetGrade
		c.TargetGrade = &grade
	}
	return &c
}

// NewMessage is the input for creating a Message.
type NewMessage struct {
	Body        string
	TargetGrade *int
}
