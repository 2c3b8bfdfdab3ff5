package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out))

	text := out.String()
	// 7 engines to build after 2 on hand; 28 valves needed, 15 on hand
	assert.Contains(t, text, "ENGINE")
	assert.Contains(t, text, "Ref: WO: MARS-001")
	assert.Regexp(t, `VALVE\s+13\s+Purchase`, text)
	// 2 * 6 * 1.05 * 42.50 + 12000 + 4 * 310
	assert.Contains(t, text, "Rolled-up engine cost: 13775.50")
	assert.Contains(t, text, "completed: 5 requirements")
	assert.Contains(t, text, "MRP analysis complete!")
}
