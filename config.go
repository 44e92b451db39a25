package tiered

import "fmt"

// Validate reports whether c, after defaulting, describes a usable
// configuration. Unlike the teacher's verifyOrWriteConfig, there is no
// cross-run file to reconcile against: the backing medium is scratch
// (§6, "no cross-run format"), so there is nothing to load or persist
// here, only the supplied values to check.
func (c Config) Validate() error {
	if c.LocalCapacity < 0 {
		return fmt.Errorf("tiered: local capacity must be >= 0, got %d", c.LocalCapacity)
	}
	return nil
}
