package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "unreachable", KindUnreachable.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "server_error", KindServerError.String())
	assert.Equal(t, "cancelled", KindCancelled.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestErrorWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("load topics: %w", &Error{Kind: KindServerError, Message: "server error", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrServerError)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindServerError, KindOf(err))
}

func TestIsCancelledPlainContextError(t *testing.T) {
	assert.True(t, IsCancelled(context.Canceled))
	assert.True(t, IsCancelled(fmt.Errorf("wrapped: %w", context.Canceled)))
	assert.False(t, IsCancelled(nil))
	assert.False(t, IsCancelled(errors.New("other")))
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, KindNotFound, classifyStatus(404, nil).Kind)
	assert.Equal(t, KindServerError, classifyStatus(500, nil).Kind)
	assert.Equal(t, KindServerError, classifyStatus(503, nil).Kind)
	assert.Equal(t, KindUnknown, classifyStatus(401, nil).Kind)

	err := classifyStatus(422, []byte(`{"detail":[{"loc":["query","q"],"msg":"field required"}]}`))
	assert.Equal(t, "field required", err.Message)
}

func TestUserMessageFallsBackToError(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Equal(t, "Data not found.", UserMessage(&Error{Kind: KindNotFound}))
	assert.Equal(t, "HTTP 418: teapot", UserMessage(&Error{Kind: KindUnknown, Message: "HTTP 418: teapot"}))
}
