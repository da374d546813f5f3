package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumCommand(t *testing.T) {
	var out bytes.Buffer
	sumCmd.SetOut(&out)
	sumCmd.SetArgs(nil)

	require.NoError(t, sumCmd.RunE(sumCmd, []string{"100"}))
	assert.Contains(t, out.String(), "formula")
	assert.Contains(t, out.String(), "5050")
	assert.Equal(t, 3, bytes.Count(out.Bytes(), []byte("5050")))

	out.Reset()
	require.NoError(t, sumCmd.RunE(sumCmd, []string{"1000000"}))
	assert.Contains(t, out.String(), "skipped")

	assert.Error(t, sumCmd.RunE(sumCmd, []string{"ten"}))
}
