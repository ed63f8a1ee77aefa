// Package derive computes per-gene exon/intron structure from OR
// annotation records.
package derive

// DefaultFragmentSpan is the maximum assembly-fragment length in the
// reference data, used to linearize fragment-local coordinates.
const DefaultFragmentSpan = 200000

// Config holds the constants the deriver needs. It replaces the ambient
// globals of the original analysis with an explicit value passed in.
type Config struct {
	// FragmentSpan is the fixed span used to place consecutive fragments
	// on one continuous coordinate axis.
	FragmentSpan int64
}

// DefaultConfig returns the configuration matching the reference data.
func DefaultConfig() Config {
	return Config{FragmentSpan: DefaultFragmentSpan}
}
