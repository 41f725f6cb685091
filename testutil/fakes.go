package testutil

import (
	"context"
	"sync"

	"bistro-boss/utils"
)

// RecordingNotifier keeps every queued email
type RecordingNotifier struct {
	mu     sync.Mutex
	Emails []utils.Email
}

func (n *RecordingNotifier) Enqueue(email utils.Email) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Emails = append(n.Emails, email)
	return nil
}

func (n *RecordingNotifier) Sent() []utils.Email {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]utils.Email(nil), n.Emails...)
}

// FakePayments records the requested amounts and returns a fixed secret
type FakePayments struct {
	mu      sync.Mutex
	Amounts []int64
	Secret  string
	Err     error
}

func (p *FakePayments) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return "", p.Err
	}
	p.Amounts = append(p.Amounts, amount)
	return p.Secret, nil
}
