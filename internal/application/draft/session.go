// Package draft holds the in-progress member form state for the admin
// UI: a create or edit session whose end date and payment status react
// to start-date and plan changes.
package draft

import (
	"time"

	"revive/internal/adapters/photo"
	"revive/internal/domain/member"

	"github.com/google/uuid"
)

// Session modes.
const (
	ModeCreate = "create"
	ModeEdit   = "edit"
)

// loadState guards a freshly hydrated edit session against clobbering
// the stored end date before the admin touches anything.
type loadState int

const (
	stateDirty loadState = iota
	stateJustLoaded
)

// Session is one member form in progress.
type Session struct {
	mode  string
	state loadState
	m     member.Member
	now   func() time.Time
}

// NewCreateSession starts a blank form with the default plan and status.
// PRE: now is non-nil
// POST: Draft has no dates; derivation starts once a start date is set
func NewCreateSession(now func() time.Time) *Session {
	return &Session{
		mode:  ModeCreate,
		state: stateDirty,
		now:   now,
		m: member.Member{
			MembershipType: member.PlanMonthly,
			PaymentStatus:  member.StatusUnpaid,
		},
	}
}

// NewEditSession hydrates a form from a stored member. The stored end
// date and payment status survive hydration untouched; the first change
// to the start date or plan recomputes them.
// PRE: stored is a persisted member; now is non-nil
// POST: Draft equals stored minus the photo blob
func NewEditSession(stored member.Member, now func() time.Time) *Session {
	s := &Session{
		mode:  ModeEdit,
		state: stateJustLoaded,
		now:   now,
		m:     stored,
	}
	s.m.Photo = nil
	// Hydration fires the same recompute a field change would; the
	// just-loaded guard absorbs it so the stored dates stay put.
	s.recompute()
	return s
}

// Mode reports whether this session creates or edits a member.
func (s *Session) Mode() string { return s.mode }

// Draft returns the current form state.
func (s *Session) Draft() member.Member { return s.m }

func (s *Session) SetName(name string)      { s.m.Name = name }
func (s *Session) SetEmail(email string)    { s.m.Email = email }
func (s *Session) SetPhone(phone string)    { s.m.Phone = phone }
func (s *Session) SetWeight(weight float64) { s.m.Weight = weight }

// SetEndDate overrides the derived end date. The override holds until
// the next start-date or plan change.
func (s *Session) SetEndDate(d member.Date) {
	s.m.EndDate = d
	s.m.PaymentStatus = member.ComputePaymentStatus(d, s.now())
}

// SetPaymentStatus overrides the derived payment status.
func (s *Session) SetPaymentStatus(status string) { s.m.PaymentStatus = status }

// SetStartDate changes the start date and rederives the end date and
// payment status.
func (s *Session) SetStartDate(d member.Date) {
	s.m.StartDate = d
	s.recompute()
}

// SetPlan changes the membership plan and rederives the end date and
// payment status.
func (s *Session) SetPlan(plan string) {
	s.m.MembershipType = plan
	s.recompute()
}

// AttachPhoto stores a downscaled copy of the uploaded photo on the draft.
func (s *Session) AttachPhoto(data []byte) error {
	stored, err := photo.Shrink(data)
	if err != nil {
		return err
	}
	s.m.Photo = stored
	return nil
}

// recompute rederives the end date and payment status from the start
// date and plan. The first call on a just-loaded edit session is a
// no-op beyond consuming the guard.
func (s *Session) recompute() {
	if s.state == stateJustLoaded {
		s.state = stateDirty
		return
	}
	if s.m.StartDate.IsZero() {
		return
	}
	s.m.EndDate = member.ComputeEndDate(s.m.StartDate, s.m.MembershipType)
	s.m.PaymentStatus = member.ComputePaymentStatus(s.m.EndDate, s.now())
}

// Reset discards the draft and returns the session to a blank create
// form.
func (s *Session) Reset() {
	*s = *NewCreateSession(s.now)
}

// Submit validates the draft and returns the member to persist. Create
// sessions get a generated ID.
// POST: Returned member passes domain validation
func (s *Session) Submit() (member.Member, error) {
	m := s.m
	if s.mode == ModeCreate && m.ID == "" {
		m.ID = uuid.New().String()
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}
	return m, nil
}
