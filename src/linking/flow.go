package linking

import (
	"errors"
	"sync"
	"time"

	"etax-gateway/src/directory"
	"etax-gateway/src/models"
)

type State string

const (
	StateSelectingBank State = "selecting_bank"
	StateBankSelected  State = "bank_selected"
	StateSubmitting    State = "submitting"
	StateSubmitSuccess State = "submit_success"
	StateSubmitError   State = "submit_error"
)

var (
	ErrInvalidTransition = errors.New("linking: action not allowed in current state")
	ErrSubmitInFlight    = errors.New("linking: a submission is already in flight")
)

// ValidationError carries field-scoped messages for a draft that failed the
// pre-submission gate. It never reaches the network layer.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "linking: draft failed validation"
}

// Session is one user's pass through the link-flow state machine. All
// methods are safe for concurrent use; at most one submission is in flight
// per session.
type Session struct {
	mu sync.Mutex

	ID     string
	UserID int64

	state      State
	bankID     string
	accType    models.AccountType
	draft      Draft
	lastError  string
	submitting bool
	updatedAt  time.Time
}

func newSession(id string, userID int64) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		state:     StateSelectingBank,
		accType:   models.AccountTypeOld,
		updatedAt: time.Now(),
	}
}

// SelectBank moves selecting_bank -> bank_selected and clears any stale
// bank-field error from a prior attempt.
func (s *Session) SelectBank(bankID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSelectingBank {
		return ErrInvalidTransition
	}
	if bankID == "" {
		return &ValidationError{Fields: FieldErrors{"bank_id": "Vui lòng chọn ngân hàng"}}
	}

	s.bankID = bankID
	s.state = StateBankSelected
	s.lastError = ""
	s.touch()
	return nil
}

// Reselect is the "choose a different bank" action: back to selecting_bank,
// discarding the in-progress field values.
func (s *Session) Reselect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateBankSelected && s.state != StateSubmitSuccess && s.state != StateSubmitError {
		return ErrInvalidTransition
	}
	if s.submitting {
		return ErrSubmitInFlight
	}

	s.bankID = ""
	s.draft = Draft{}
	s.accType = models.AccountTypeOld
	s.state = StateSelectingBank
	s.lastError = ""
	s.touch()
	return nil
}

// DraftUpdate applies partial edits; nil fields are left untouched. A type
// switch is a same-state transition that only changes which fields the
// validator considers required.
type DraftUpdate struct {
	Type              *models.AccountType `json:"type"`
	AccountNumber     *string             `json:"account_number"`
	AccountName       *string             `json:"account_name"`
	Username          *string             `json:"username"`
	Password          *string             `json:"password"`
	Phone             *string             `json:"phone"`
	Branch            *string             `json:"branch"`
	AccountHolderName *string             `json:"account_holder_name"`
}

func (s *Session) UpdateDraft(update DraftUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateBankSelected && s.state != StateSubmitError {
		return ErrInvalidTransition
	}

	if update.Type != nil {
		if !update.Type.Valid() {
			return &ValidationError{Fields: FieldErrors{"type": "Vui lòng chọn loại liên kết"}}
		}
		s.accType = *update.Type
	}
	if update.AccountNumber != nil {
		s.draft.AccountNumber = *update.AccountNumber
	}
	if update.AccountName != nil {
		s.draft.AccountName = *update.AccountName
	}
	if update.Username != nil {
		s.draft.Username = *update.Username
	}
	if update.Password != nil {
		s.draft.Password = *update.Password
	}
	if update.Phone != nil {
		s.draft.Phone = *update.Phone
	}
	if update.Branch != nil {
		s.draft.Branch = *update.Branch
	}
	if update.AccountHolderName != nil {
		s.draft.AccountHolderName = *update.AccountHolderName
	}

	// Editing after a failed attempt resumes the form; the error outcome
	// stays visible through last_error until the next submission.
	s.state = StateBankSelected
	s.touch()
	return nil
}

// beginSubmit runs the freeze gate: state and in-flight checks, the
// validation engine, and the stale-selection check against the current
// directory snapshot. On success the draft is frozen into the wire payload
// and the session enters submitting.
func (s *Session) beginSubmit(banks []models.Bank) (models.LinkRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return models.LinkRequest{}, ErrSubmitInFlight
	}
	// A failed attempt may be retried as-is.
	if s.state != StateBankSelected && s.state != StateSubmitError {
		return models.LinkRequest{}, ErrInvalidTransition
	}

	errs := ValidateDraft(s.accType, s.draft)
	if !directory.Contains(banks, s.bankID) {
		if errs == nil {
			errs = FieldErrors{}
		}
		errs["bank_id"] = "Ngân hàng không còn được hỗ trợ"
	}
	if len(errs) > 0 {
		return models.LinkRequest{}, &ValidationError{Fields: errs}
	}

	s.submitting = true
	s.state = StateSubmitting
	s.touch()
	return BuildRequest(s.bankID, s.accType, s.draft), nil
}

// finishSuccess resets the draft to initial values; the client moves on to
// the linked-accounts list.
func (s *Session) finishSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitting = false
	s.state = StateSubmitSuccess
	s.draft = Draft{}
	s.lastError = ""
	s.touch()
}

// finishError enters submit_error with the draft intact so the user can
// correct and resubmit.
func (s *Session) finishError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitting = false
	s.state = StateSubmitError
	s.lastError = message
	s.touch()
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

func (s *Session) expired(ttl time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.updatedAt) > ttl
}

// View is the JSON rendering of a session. The password never leaves the
// server.
type View struct {
	ID        string             `json:"id"`
	State     State              `json:"state"`
	BankID    string             `json:"bank_id,omitempty"`
	Type      models.AccountType `json:"type"`
	Draft     Draft              `json:"draft"`
	LastError string             `json:"last_error,omitempty"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		ID:        s.ID,
		State:     s.state,
		BankID:    s.bankID,
		Type:      s.accType,
		Draft:     s.draft,
		LastError: s.lastError,
	}
}

func (s *Session) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
