// Package lifecycle holds the allowed status transitions of every entity that
// carries a status column. Services check a transition here before writing it.
package lifecycle

import (
	"fmt"
	"sort"

	"rentalhub/internal/models"
	apperrors "rentalhub/pkg/errors"
)

// Machine is a named transition table.
type Machine struct {
	name  string
	edges map[string][]string
}

func newMachine(name string, edges map[string][]string) *Machine {
	return &Machine{name: name, edges: edges}
}

func (m *Machine) Name() string {
	return m.name
}

// Known reports whether state belongs to this machine.
func (m *Machine) Known(state string) bool {
	if _, ok := m.edges[state]; ok {
		return true
	}
	for _, targets := range m.edges {
		for _, t := range targets {
			if t == state {
				return true
			}
		}
	}
	return false
}

// Can reports whether from -> to is allowed.
func (m *Machine) Can(from, to string) bool {
	for _, t := range m.edges[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Next lists the states reachable from state, sorted.
func (m *Machine) Next(state string) []string {
	next := append([]string(nil), m.edges[state]...)
	sort.Strings(next)
	return next
}

// Transition validates from -> to. Unknown target states are a 400, forbidden
// moves a 409 wrapping ErrInvalidTransition.
func (m *Machine) Transition(from, to string) error {
	if !m.Known(to) {
		return apperrors.BadRequest(fmt.Sprintf("unknown %s status %q", m.name, to))
	}
	if !m.Can(from, to) {
		return &apperrors.AppError{
			Code:    apperrors.CodeConflict,
			Message: fmt.Sprintf("%s status cannot change from %s to %s", m.name, from, to),
			Details: map[string]interface{}{"from": from, "to": to, "allowed": m.Next(from)},
			Err:     apperrors.ErrInvalidTransition,
		}
	}
	return nil
}

var (
	Account = newMachine("account", map[string][]string{
		models.AccountStatusPending:     {models.AccountStatusActive, models.AccountStatusInactive, models.AccountStatusBlacklisted},
		models.AccountStatusActive:      {models.AccountStatusInactive, models.AccountStatusSuspended, models.AccountStatusBlacklisted},
		models.AccountStatusInactive:    {models.AccountStatusActive, models.AccountStatusBlacklisted},
		models.AccountStatusSuspended:   {models.AccountStatusActive, models.AccountStatusBlacklisted},
		models.AccountStatusBlacklisted: nil,
	})

	Verification = newMachine("verification", map[string][]string{
		models.VerificationUnverified: {models.VerificationPending},
		models.VerificationPending:    {models.VerificationVerified, models.VerificationRejected},
		models.VerificationRejected:   {models.VerificationPending},
		models.VerificationVerified:   {models.VerificationUnverified},
	})

	Document = newMachine("document", map[string][]string{
		models.DocumentPending:  {models.DocumentApproved, models.DocumentRejected},
		models.DocumentRejected: {models.DocumentPending},
		models.DocumentApproved: nil,
	})

	Reference = newMachine("reference", map[string][]string{
		models.ReferencePending:   {models.ReferenceContacted, models.ReferenceVerified, models.ReferenceFailed},
		models.ReferenceContacted: {models.ReferenceVerified, models.ReferenceFailed},
		models.ReferenceFailed:    {models.ReferencePending},
		models.ReferenceVerified:  nil,
	})

	Booking = newMachine("booking", map[string][]string{
		models.BookingPending:   {models.BookingConfirmed, models.BookingRejected, models.BookingCancelled},
		models.BookingConfirmed: {models.BookingCompleted, models.BookingCancelled},
		models.BookingRejected:  nil,
		models.BookingCancelled: nil,
		models.BookingCompleted: nil,
	})

	Payment = newMachine("payment", map[string][]string{
		models.PaymentPending:   {models.PaymentCompleted, models.PaymentFailed},
		models.PaymentCompleted: {models.PaymentRefunded},
		models.PaymentFailed:    {models.PaymentPending},
		models.PaymentRefunded:  nil,
	})
)
