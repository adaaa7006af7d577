package linking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"etax-gateway/src/models"
	"etax-gateway/src/taxcore"
)

type submitterStub struct {
	mu     sync.Mutex
	calls  int
	gotReq models.LinkRequest
	result *taxcore.AddBankResult
	err    error
	block  chan struct{}
}

func (s *submitterStub) AddBank(ctx context.Context, token string, req models.LinkRequest) (*taxcore.AddBankResult, error) {
	s.mu.Lock()
	s.calls++
	s.gotReq = req
	s.mu.Unlock()
	if s.block != nil {
		<-s.block
	}
	return s.result, s.err
}

func (s *submitterStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type directoryStub struct {
	mu          sync.Mutex
	banks       []models.Bank
	banksErr    error
	invalidated []int64
}

func (d *directoryStub) Banks(ctx context.Context, token string) ([]models.Bank, error) {
	return d.banks, d.banksErr
}

func (d *directoryStub) InvalidateLinkedAccounts(userID int64) {
	d.mu.Lock()
	d.invalidated = append(d.invalidated, userID)
	d.mu.Unlock()
}

func testDirectory() *directoryStub {
	return &directoryStub{banks: []models.Bank{
		{ID: "tpbank", Name: "Ngân hàng Tiên Phong", ShortName: "TPBank", Recommended: true},
		{ID: "ocb", Name: "Ngân hàng Phương Đông", ShortName: "OCB"},
	}}
}

func readySession(t *testing.T) *Session {
	t.Helper()
	sess := newSession("s1", 42)
	assert.NoError(t, sess.SelectBank("tpbank"))
	number := "123456"
	assert.NoError(t, sess.UpdateDraft(DraftUpdate{AccountNumber: &number}))
	return sess
}

func TestSubmitSuccess(t *testing.T) {
	core := &submitterStub{result: &taxcore.AddBankResult{Message: "Liên kết tài khoản thành công"}}
	dir := testDirectory()
	coordinator := NewCoordinator(core, dir)

	sess := readySession(t)

	result, err := coordinator.Submit(context.Background(), "token", sess)
	assert.NoError(t, err)
	assert.Equal(t, "Liên kết tài khoản thành công", result.Message)
	assert.Equal(t, 1, core.callCount())

	assert.Equal(t, "tpbank", core.gotReq.BankID)
	assert.Equal(t, models.AccountTypeOld, core.gotReq.Type)
	assert.Equal(t, "123456", core.gotReq.NumberAccount)

	view := sess.View()
	assert.Equal(t, StateSubmitSuccess, view.State)
	assert.Empty(t, view.Draft.AccountNumber, "draft must reset after success")

	assert.Equal(t, []int64{42}, dir.invalidated, "cache invalidation must follow the success response")
}

func TestSubmitRemoteErrorKeepsDraft(t *testing.T) {
	core := &submitterStub{err: &taxcore.RemoteError{StatusCode: 400, Message: "Tài khoản không hợp lệ"}}
	dir := testDirectory()
	coordinator := NewCoordinator(core, dir)

	sess := readySession(t)

	_, err := coordinator.Submit(context.Background(), "token", sess)
	var remote *taxcore.RemoteError
	assert.ErrorAs(t, err, &remote)

	view := sess.View()
	assert.Equal(t, StateSubmitError, view.State, "failed outcome must be visible as submit_error")
	assert.Equal(t, "123456", view.Draft.AccountNumber, "draft must remain populated")
	assert.Equal(t, "Tài khoản không hợp lệ", view.LastError, "remote message shown verbatim")

	assert.Empty(t, dir.invalidated, "no invalidation on failure")
}

func TestSubmitRetryAfterError(t *testing.T) {
	core := &submitterStub{err: &taxcore.RemoteError{StatusCode: 400, Message: "Tài khoản không hợp lệ"}}
	dir := testDirectory()
	coordinator := NewCoordinator(core, dir)

	sess := readySession(t)

	_, err := coordinator.Submit(context.Background(), "token", sess)
	assert.Error(t, err)
	assert.Equal(t, StateSubmitError, sess.CurrentState())

	// Correcting a field resumes the form.
	number := "654321"
	assert.NoError(t, sess.UpdateDraft(DraftUpdate{AccountNumber: &number}))
	assert.Equal(t, StateBankSelected, sess.CurrentState())

	core.mu.Lock()
	core.err = nil
	core.result = &taxcore.AddBankResult{Message: "ok"}
	core.mu.Unlock()

	result, err := coordinator.Submit(context.Background(), "token", sess)
	assert.NoError(t, err)
	assert.Equal(t, "ok", result.Message)
	assert.Equal(t, StateSubmitSuccess, sess.CurrentState())
}

func TestSubmitRetryWithoutEdit(t *testing.T) {
	core := &submitterStub{err: &taxcore.NetworkError{Err: errors.New("connection refused")}}
	coordinator := NewCoordinator(core, testDirectory())

	sess := readySession(t)

	_, err := coordinator.Submit(context.Background(), "token", sess)
	assert.Error(t, err)

	// A transient failure may be resubmitted as-is.
	core.mu.Lock()
	core.err = nil
	core.result = &taxcore.AddBankResult{}
	core.mu.Unlock()

	_, err = coordinator.Submit(context.Background(), "token", sess)
	assert.NoError(t, err)
	assert.Equal(t, 2, core.callCount())
}

func TestSubmitNetworkErrorUsesFallbackMessage(t *testing.T) {
	core := &submitterStub{err: &taxcore.NetworkError{Err: errors.New("connection refused")}}
	coordinator := NewCoordinator(core, testDirectory())

	sess := readySession(t)

	_, err := coordinator.Submit(context.Background(), "token", sess)
	var network *taxcore.NetworkError
	assert.ErrorAs(t, err, &network)
	assert.Equal(t, FallbackErrorMessage, sess.View().LastError)
}

func TestSubmitBlockedByValidation(t *testing.T) {
	core := &submitterStub{}
	coordinator := NewCoordinator(core, testDirectory())

	sess := newSession("s1", 42)
	assert.NoError(t, sess.SelectBank("tpbank"))

	_, err := coordinator.Submit(context.Background(), "token", sess)
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "account_number")
	assert.Equal(t, 0, core.callCount(), "validation errors must never reach the network")
	assert.Equal(t, StateBankSelected, sess.CurrentState())
}

func TestSubmitRejectsStaleBankSelection(t *testing.T) {
	core := &submitterStub{}
	dir := &directoryStub{banks: []models.Bank{{ID: "ocb", Name: "OCB", ShortName: "OCB"}}}
	coordinator := NewCoordinator(core, dir)

	sess := readySession(t) // selected tpbank, no longer in the directory

	_, err := coordinator.Submit(context.Background(), "token", sess)
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "bank_id")
	assert.Equal(t, 0, core.callCount())
}

func TestSubmitDirectoryFailurePropagates(t *testing.T) {
	core := &submitterStub{}
	dir := &directoryStub{banksErr: &taxcore.NetworkError{Err: errors.New("connection refused")}}
	coordinator := NewCoordinator(core, dir)

	sess := readySession(t)

	_, err := coordinator.Submit(context.Background(), "token", sess)
	var network *taxcore.NetworkError
	assert.ErrorAs(t, err, &network)
	assert.Equal(t, 0, core.callCount())
}

func TestSubmitSingleFlight(t *testing.T) {
	core := &submitterStub{
		result: &taxcore.AddBankResult{},
		block:  make(chan struct{}),
	}
	coordinator := NewCoordinator(core, testDirectory())

	sess := readySession(t)

	firstDone := make(chan error, 1)
	go func() {
		_, err := coordinator.Submit(context.Background(), "token", sess)
		firstDone <- err
	}()

	// Wait for the first submission to reach the upstream call.
	deadline := time.Now().Add(time.Second)
	for core.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 1, core.callCount())

	_, err := coordinator.Submit(context.Background(), "token", sess)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(core.block)
	assert.NoError(t, <-firstDone)
	assert.Equal(t, 1, core.callCount(), "exactly one network call per accepted submission")
}
