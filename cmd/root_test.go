package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlagOverrides(t *testing.T) {
	// A fresh flag set bound to the same package variables the run command
	// uses, so Changed reflects only what this test sets.
	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flags.Int64Var(&seed, "seed", 1000, "")
	flags.IntVar(&batchSize, "batch-size", 8, "")
	flags.BoolVar(&normalize, "normalize", false, "")
	flags.StringVar(&outputDir, "output", "outputs", "")
	t.Cleanup(func() {
		seed, batchSize, normalize, outputDir = 1000, 8, false, "outputs"
	})

	require.NoError(t, flags.Set("seed", "42"))
	require.NoError(t, flags.Set("normalize", "true"))

	spec := &CampaignSpec{Seed: 7, BatchSize: 16, Normalize: false, Output: "from-file"}
	applyFlagOverrides(flags, spec)

	assert.Equal(t, int64(42), spec.Seed, "explicit flag wins over the file value")
	assert.True(t, spec.Normalize)
	assert.Equal(t, 16, spec.BatchSize, "unset flags leave file values alone")
	assert.Equal(t, "from-file", spec.Output)
}
