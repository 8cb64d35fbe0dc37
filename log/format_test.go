// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sink []byte

func BenchmarkPrettyInt64Logfmt(b *testing.B) {
	buf := make([]byte, 100)
	b.ReportAllocs()
	for b.Loop() {
		sink = appendInt64(buf, rand.Int64()) //#nosec G404
	}
}

func TestAppendNumbers(t *testing.T) {
	assert.Equal(t, "99999", string(appendUint64(nil, 99999, false)))
	assert.Equal(t, "1,000,000", string(appendUint64(nil, 1000000, false)))
	assert.Equal(t, "-1,234,567", string(appendInt64(nil, -1234567)))
}

func allLevels() *slog.LevelVar {
	var level slog.LevelVar
	level.Set(LevelTrace)
	return &level
}

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(NewTerminalHandler(&buf, allLevels(), false))
	l.Info("stake recorded", "amount", 5000, "holder", "0xabc")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "INFO ["))
	assert.Contains(t, out, "stake recorded")
	assert.Contains(t, out, "amount=5000")
	assert.Contains(t, out, "holder=0xabc")
}

func TestTerminalHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(LevelWarn)
	l := NewLogger(NewTerminalHandler(&buf, &level, false))

	l.Debug("hidden")
	assert.Empty(t, buf.String())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(JSONHandler(&buf, allLevels()))
	l.Debug("reward", "value", uint256.NewInt(18666))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "debug", rec["lvl"])
	assert.Equal(t, "reward", rec["msg"])
	assert.Equal(t, "18666", rec["value"])
}

func TestWithContextFollowsRoot(t *testing.T) {
	pkgLogger := WithContext("pkg", "test")

	old := Root()
	defer SetDefault(old)

	var buf bytes.Buffer
	SetDefault(NewLogger(JSONHandler(&buf, allLevels())))
	pkgLogger.Info("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "test", rec["pkg"])
	assert.Equal(t, "hello", rec["msg"])
}

func TestRootDiscardsUntilSet(t *testing.T) {
	old := Root()
	defer SetDefault(old)

	SetDefault(NewLogger(discardHandler{}))
	assert.False(t, Root().Enabled(context.Background(), LevelCrit))
	assert.NotPanics(t, func() { Root().With("pkg", "test").Error("dropped") })
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(LegacyLevelCrit))
	assert.Equal(t, LevelInfo, FromLegacyLevel(LegacyLevelInfo))
	assert.Equal(t, LevelTrace, FromLegacyLevel(99))
	assert.Equal(t, LevelCrit, FromLegacyLevel(-1))

	lvl, ok := ParseLevel("warn")
	assert.True(t, ok)
	assert.Equal(t, "warn", LevelString(lvl))
	_, ok = ParseLevel("loud")
	assert.False(t, ok)
}
