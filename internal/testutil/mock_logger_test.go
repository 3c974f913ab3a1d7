package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SakuraScope/internal/testutil"
)

func TestMockLogger_RecordsAndClears(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)
	v, ok := messages[0].Field("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareRecord(t *testing.T) {
	logger := testutil.NewMockLogger()
	child := logger.Named("sakura").Named("batch").With(logging.ASIN("B01"))

	child.Warn("item skipped")
	logger.Warn("root warning")

	assert.Equal(t, 2, logger.Count("warn"))
	found := logger.Find("warn", "skipped")
	require.Len(t, found, 1)
	assert.Equal(t, "sakura.batch", found[0].Logger)
	asin, ok := found[0].Field("asin")
	assert.True(t, ok)
	assert.Equal(t, "B01", asin)
}

func TestMockLogger_ImplementsLogger(t *testing.T) {
	var l logging.Logger = testutil.NewMockLogger()
	assert.NoError(t, l.Sync())
}

//Personal.AI order the ending
