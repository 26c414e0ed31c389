package cache

import "time"

// Cache TTLs per pipeline stage. Trees change rarely but invalidate by
// content hash anyway, so long TTLs are safe; artifacts are cheapest to
// recompute and expire first.
const (
	TTLTree     = 30 * 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)
