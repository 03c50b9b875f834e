package secondary

import "context"

// BoardMetadata is the read-mostly catalogue of a board.
type BoardMetadata struct {
	Board      *BoardRecord      `json:"board"`
	States     []*StateRecord    `json:"states"`
	Priorities []*PriorityRecord `json:"priorities"`
	Estimates  []*EstimateRecord `json:"estimates"`
	Labels     []*LabelRecord    `json:"labels"`
	Sprints    []*SprintRecord   `json:"sprints"`
	Members    []*MemberRecord   `json:"members"`
}

// BoardMetadataCache caches BoardMetadata per board.
// Implementations treat backend failures as cache misses.
type BoardMetadataCache interface {
	// Get returns the cached metadata and whether it was found.
	Get(ctx context.Context, boardID string) (*BoardMetadata, bool)

	// Set stores metadata for the board.
	Set(ctx context.Context, boardID string, meta *BoardMetadata)

	// Invalidate drops the entry for the board.
	Invalidate(ctx context.Context, boardID string)
}
