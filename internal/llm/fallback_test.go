package llm

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLocalFallbackUsesRemote(t *testing.T) {
	log, hook := test.NewNullLogger()
	got, remote := WithLocalFallback(context.Background(), log, "analyze",
		func(context.Context) (int, error) { return 7, nil },
		func() int { return 1 },
	)
	assert.Equal(t, 7, got)
	assert.True(t, remote)
	assert.Empty(t, hook.AllEntries())
}

func TestWithLocalFallbackRecovers(t *testing.T) {
	log, hook := test.NewNullLogger()
	got, remote := WithLocalFallback(context.Background(), log, "extract",
		func(context.Context) (string, error) {
			return "", &EngineError{Code: CodeRateLimited, Message: "HTTP 429", StatusCode: 429}
		},
		func() string { return "local" },
	)
	assert.Equal(t, "local", got)
	assert.False(t, remote)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "extract", entry.Data["operation"])
	assert.Equal(t, CodeRateLimited, entry.Data["code"])
}

func TestWithLocalFallbackNilLogger(t *testing.T) {
	got, remote := WithLocalFallback(context.Background(), nil, "x",
		func(context.Context) (int, error) { return 0, ErrAPIKeyRequired },
		func() int { return 3 },
	)
	assert.Equal(t, 3, got)
	assert.False(t, remote)
}
