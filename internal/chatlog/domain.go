// Package chatlog defines the durable transcript of the WhatsApp
// conversation. Every inbound customer message and every outbound reply is
// appended as an immutable row, which gives two things:
//
//  1. Support and audit: the full exchange with a customer can be read back
//     by phone number, in order, independent of the session store's TTL.
//
//  2. Trace correlation: each row carries the trace and span ids that were
//     active when it was written, so a transcript row links straight to the
//     distributed trace for that webhook delivery.
package chatlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Direction tells which side of the conversation produced the message.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Message is a single row in the chat_messages table.
type Message struct {
	// Phone is the customer's number in E.164 form, the key the transcript
	// is read back by.
	Phone string

	Direction Direction

	// Body is the message text as sent or received, unmodified.
	Body string

	// TraceID and SpanID identify the OpenTelemetry span active when the
	// row was written. Empty when no span was recording (unit tests, or a
	// process running without an exporter).
	TraceID string
	SpanID  string

	CreatedAt time.Time
}

// NewMessage builds a transcript row stamped with the current time and the
// trace identifiers carried by ctx, when a valid span is present.
func NewMessage(ctx context.Context, phone string, direction Direction, body string) *Message {
	m := &Message{
		Phone:     phone,
		Direction: direction,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		m.TraceID = sc.TraceID().String()
		m.SpanID = sc.SpanID().String()
	}
	return m
}
