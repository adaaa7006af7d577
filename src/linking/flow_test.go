package linking

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"etax-gateway/src/models"
)

func TestSessionInitialState(t *testing.T) {
	sess := newSession("s1", 42)

	view := sess.View()
	assert.Equal(t, StateSelectingBank, view.State)
	assert.Equal(t, models.AccountTypeOld, view.Type)
	assert.Empty(t, view.BankID)
}

func TestSelectBankTransition(t *testing.T) {
	sess := newSession("s1", 42)

	err := sess.SelectBank("tpbank")
	assert.NoError(t, err)
	assert.Equal(t, StateBankSelected, sess.CurrentState())
	assert.Equal(t, "tpbank", sess.View().BankID)

	// Selecting again without going back is not a valid transition.
	err = sess.SelectBank("ocb")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSelectBankRequiresID(t *testing.T) {
	sess := newSession("s1", 42)

	err := sess.SelectBank("")
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "bank_id")
	assert.Equal(t, StateSelectingBank, sess.CurrentState())
}

func TestReselectDiscardsDraft(t *testing.T) {
	sess := newSession("s1", 42)
	assert.NoError(t, sess.SelectBank("tpbank"))

	number := "123456"
	newType := models.AccountTypeNew
	assert.NoError(t, sess.UpdateDraft(DraftUpdate{AccountNumber: &number, Type: &newType}))

	assert.NoError(t, sess.Reselect())

	view := sess.View()
	assert.Equal(t, StateSelectingBank, view.State)
	assert.Empty(t, view.BankID)
	assert.Empty(t, view.Draft.AccountNumber)
	assert.Equal(t, models.AccountTypeOld, view.Type)
}

func TestReselectNotAllowedBeforeSelection(t *testing.T) {
	sess := newSession("s1", 42)
	assert.ErrorIs(t, sess.Reselect(), ErrInvalidTransition)
}

func TestUpdateDraftOnlyWhileBankSelected(t *testing.T) {
	sess := newSession("s1", 42)

	number := "123456"
	assert.ErrorIs(t, sess.UpdateDraft(DraftUpdate{AccountNumber: &number}), ErrInvalidTransition)

	assert.NoError(t, sess.SelectBank("tpbank"))
	assert.NoError(t, sess.UpdateDraft(DraftUpdate{AccountNumber: &number}))
	assert.Equal(t, "123456", sess.View().Draft.AccountNumber)
}

func TestUpdateDraftTypeSwitchKeepsValues(t *testing.T) {
	sess := newSession("s1", 42)
	assert.NoError(t, sess.SelectBank("tpbank"))

	number := "123456"
	assert.NoError(t, sess.UpdateDraft(DraftUpdate{AccountNumber: &number}))

	newType := models.AccountTypeNew
	assert.NoError(t, sess.UpdateDraft(DraftUpdate{Type: &newType}))

	view := sess.View()
	assert.Equal(t, StateBankSelected, view.State)
	assert.Equal(t, models.AccountTypeNew, view.Type)
	assert.Equal(t, "123456", view.Draft.AccountNumber)
}

func TestUpdateDraftRejectsUnknownType(t *testing.T) {
	sess := newSession("s1", 42)
	assert.NoError(t, sess.SelectBank("tpbank"))

	badType := models.AccountType(9)
	err := sess.UpdateDraft(DraftUpdate{Type: &badType})
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "type")
}

func TestReselectAfterFailedSubmit(t *testing.T) {
	sess := newSession("s1", 42)
	assert.NoError(t, sess.SelectBank("tpbank"))
	sess.finishError("Không thể liên kết ngân hàng")
	assert.Equal(t, StateSubmitError, sess.CurrentState())

	assert.NoError(t, sess.Reselect())
	assert.Equal(t, StateSelectingBank, sess.CurrentState())
	assert.Empty(t, sess.View().LastError)
}

func TestStoreScopesSessionsToOwner(t *testing.T) {
	store := NewStore(time.Minute)

	sess := store.Create(42)

	got, ok := store.Get(sess.ID, 42)
	assert.True(t, ok)
	assert.Equal(t, sess.ID, got.ID)

	_, ok = store.Get(sess.ID, 7)
	assert.False(t, ok)

	_, ok = store.Get("missing", 42)
	assert.False(t, ok)
}

func TestStoreGetConcurrentWithDraftUpdates(t *testing.T) {
	store := NewStore(time.Minute)
	sess := store.Create(42)
	assert.NoError(t, sess.SelectBank("tpbank"))

	// A session-view poll racing a field edit; the expiry check must not
	// read the session's clock unlocked.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		number := "123456"
		for i := 0; i < 500; i++ {
			assert.NoError(t, sess.UpdateDraft(DraftUpdate{AccountNumber: &number}))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_, ok := store.Get(sess.ID, 42)
			assert.True(t, ok)
		}
	}()
	wg.Wait()
}

func TestStoreExpiresSessions(t *testing.T) {
	store := NewStore(10 * time.Millisecond)

	sess := store.Create(42)
	time.Sleep(25 * time.Millisecond)

	_, ok := store.Get(sess.ID, 42)
	assert.False(t, ok)
}
