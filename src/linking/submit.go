package linking

import (
	"context"
	"errors"

	"etax-gateway/src/models"
	"etax-gateway/src/taxcore"
)

// FallbackErrorMessage is shown when the upstream rejects a submission
// without supplying a message of its own.
const FallbackErrorMessage = "Không thể liên kết ngân hàng"

type linkSubmitter interface {
	AddBank(ctx context.Context, token string, req models.LinkRequest) (*taxcore.AddBankResult, error)
}

type bankDirectory interface {
	Banks(ctx context.Context, token string) ([]models.Bank, error)
	InvalidateLinkedAccounts(userID int64)
}

// Coordinator owns the single network call of the workflow. It trusts no
// caller-side guards: the in-flight flag lives on the session, not on a
// disabled button.
type Coordinator struct {
	core      linkSubmitter
	directory bankDirectory
}

func NewCoordinator(core linkSubmitter, dir bankDirectory) *Coordinator {
	return &Coordinator{core: core, directory: dir}
}

type SubmitResult struct {
	Message string `json:"message,omitempty"`
}

// Submit validates and freezes the session's draft, issues exactly one
// upstream call, and applies the result to the state machine. On success the
// linked-accounts cache is invalidated only after the response is observed;
// on failure the draft stays intact and the session enters submit_error.
func (c *Coordinator) Submit(ctx context.Context, token string, sess *Session) (*SubmitResult, error) {
	banks, err := c.directory.Banks(ctx, token)
	if err != nil {
		return nil, err
	}

	req, err := sess.beginSubmit(banks)
	if err != nil {
		return nil, err
	}

	result, err := c.core.AddBank(ctx, token, req)
	if err != nil {
		sess.finishError(UserMessage(err))
		return nil, err
	}

	c.directory.InvalidateLinkedAccounts(sess.UserID)
	sess.finishSuccess()
	return &SubmitResult{Message: result.Message}, nil
}

// UserMessage maps a submission error to what the user should see: the
// remote message verbatim when present, the localized fallback otherwise.
func UserMessage(err error) string {
	var remote *taxcore.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return FallbackErrorMessage
}
