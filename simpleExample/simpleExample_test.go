package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hjkoskel/pm1006"
)

func TestEnvOr(t *testing.T) {
	t.Setenv("PM1006_TEST_VALUE", "x")
	assert.Equal(t, "x", envOr("PM1006_TEST_VALUE", "y"))
	assert.Equal(t, "y", envOr("PM1006_TEST_MISSING", "y"))
}

func TestRootCommandFlags(t *testing.T) {
	t.Setenv("PM1006_SERIAL", "/dev/ttyUSB7")
	cmd := newRootCommand(context.Background())
	f := cmd.Flags().Lookup("serial")
	require.NotNil(t, f)
	assert.Equal(t, "/dev/ttyUSB7", f.DefValue)
	assert.Equal(t, "none", cmd.Flags().Lookup("env").DefValue)
	assert.Equal(t, "15ms", cmd.Flags().Lookup("byte-delay").DefValue)
	assert.Equal(t, "2s", cmd.Flags().Lookup("env-interval").DefValue)
}

func TestPrintResultsForwards(t *testing.T) {
	results := make(chan pm1006.Averages, 2)
	forward := make(chan pm1006.Averages, 1)
	results <- pm1006.Averages{PM25: 5}
	results <- pm1006.Averages{PM25: 6} //dropped, forward full
	close(results)
	printResults(results, forward)
	require.Len(t, forward, 1)
	assert.Equal(t, uint16(5), (<-forward).PM25)
}
