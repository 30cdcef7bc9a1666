// Package mailer delivers outbound email. Delivery is best effort: callers hand
// messages to Async and never wait for or see the outcome.
package mailer

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Message struct {
	To      string `json:"to"`
	Name    string `json:"name,omitempty"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
	// Link is the action the email asks for, e.g. the verification URL.
	Link string `json:"link,omitempty"`
	Kind string `json:"kind"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes the message to the log instead of sending it.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Str("link", msg.Link).
		Msg("Simulated email sent")
	return nil
}

// Async hands every message to the wrapped mailer on its own goroutine.
type Async struct {
	next    Mailer
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsync(next Mailer, timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Async{next: next, timeout: timeout}
}

// Send returns immediately; failures are only logged.
func (a *Async) Send(_ context.Context, msg Message) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.next.Send(ctx, msg); err != nil {
			log.Warn().Err(err).Str("to", msg.To).Str("kind", msg.Kind).Msg("Email dispatch failed")
		}
	}()
	return nil
}

// Wait blocks until every dispatch started by Send has finished, or ctx is done.
// Call it before closing the wrapped mailer.
func (a *Async) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// VerificationEmail builds the message asking a new account to confirm its address.
func VerificationEmail(to, name, link string) Message {
	return Message{
		To:      to,
		Name:    name,
		Kind:    "email_verification",
		Subject: "Verify your email address",
		Link:    link,
		Text:    fmt.Sprintf("Hi %s,\n\nConfirm your email address by opening this link within 24 hours:\n%s\n", name, link),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Confirm your email address by opening this link within 24 hours:</p><p><a href="%s">Verify email</a></p>`,
			html.EscapeString(name), html.EscapeString(link)),
	}
}
