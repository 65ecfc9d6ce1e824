// Package gate asks for the operator passphrase before privileged actions.
//
// The gate is a speed-bump against accidental edits on a shared till, not an
// access-control boundary: anyone with access to the store can change the
// data directly.
package gate

import (
	"sync"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassphrase is used when no passphrase is configured.
const DefaultPassphrase = "1234"

var (
	// ErrIncorrectCredential is returned when the passphrase does not match.
	ErrIncorrectCredential = errors.New("incorrect passphrase")
	// ErrNotPending is returned when verifying an action that already ran or
	// was cancelled.
	ErrNotPending = errors.New("action is not pending")
)

// Gate verifies passphrases against a bcrypt hash.
type Gate struct {
	hash []byte
}

// New creates a Gate from a bcrypt hash.
func New(hash []byte) (*Gate, error) {
	if _, err := bcrypt.Cost(hash); err != nil {
		return nil, errors.Wrap(err, "parse passphrase hash")
	}
	return &Gate{hash: hash}, nil
}

// FromPassphrase hashes a plain passphrase and creates a Gate for it.
func FromPassphrase(passphrase string, cost int) (*Gate, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), cost)
	if err != nil {
		return nil, errors.Wrap(err, "hash passphrase")
	}
	return &Gate{hash: hash}, nil
}

// Check returns ErrIncorrectCredential unless passphrase matches.
func (g *Gate) Check(passphrase string) error {
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(passphrase)); err != nil {
		return ErrIncorrectCredential
	}
	return nil
}

// Require defers action until the passphrase is verified.
func (g *Gate) Require(name string, action func() error) *Pending {
	return &Pending{gate: g, name: name, action: action}
}

// Pending is a privileged action waiting for the passphrase. A wrong
// passphrase leaves it pending so the prompt can be shown again.
type Pending struct {
	gate   *Gate
	name   string
	action func() error

	mu   sync.Mutex
	done bool
}

// Name identifies the action for prompts and logs.
func (p *Pending) Name() string {
	return p.name
}

// Verify runs the action if passphrase matches. The action runs at most once.
func (p *Pending) Verify(passphrase string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return ErrNotPending
	}
	if err := p.gate.Check(passphrase); err != nil {
		return err
	}
	p.done = true
	return p.action()
}

// Cancel discards the action without running it.
func (p *Pending) Cancel() {
	p.mu.Lock()
	p.done = true
	p.mu.Unlock()
}
