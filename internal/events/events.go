package events

import (
	"context"
	"time"
)

// Event topic constants
const (
	TopicSchemaImported  = "qrscout.schema.imported"
	TopicSchemaExported  = "qrscout.schema.exported"
	TopicFieldUpdated    = "qrscout.field.updated"
	TopicFormReset       = "qrscout.form.reset"
	TopicRecordSubmitted = "qrscout.record.submitted"

	// TopicAll matches every qrscout topic.
	TopicAll = "qrscout.>"
)

// Event types

type SchemaImported struct {
	SessionID  string    `json:"session_id"`
	Title      string    `json:"title,omitempty"`
	Sections   int       `json:"sections"`
	Fields     int       `json:"fields"`
	ImportedAt time.Time `json:"imported_at"`
}

type SchemaExported struct {
	SessionID string `json:"session_id"`
	FileName  string `json:"file_name"`
	Bytes     int    `json:"bytes"`
}

type FieldUpdated struct {
	SessionID string `json:"session_id"`
	Section   string `json:"section"`
	Code      string `json:"code"`
	Value     string `json:"value"` // record form of the new value
}

type FormReset struct {
	SessionID string `json:"session_id"`
	Policy    string `json:"policy"`
}

type RecordSubmitted struct {
	SessionID   string    `json:"session_id"`
	Title       string    `json:"title,omitempty"`
	Header      string    `json:"header"`
	Record      string    `json:"record"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
