package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/prompt"
)

// ListFragmentsInput contains parameters for the ListFragments operation.
type ListFragmentsInput struct {
	IncludeMarkers bool
}

// ListFragmentsOutput contains the result of the ListFragments operation.
type ListFragmentsOutput struct {
	Fragments []prompt.Prompt `json:"fragments"`
	Total     int             `json:"total"`
}

// ListFragments returns every stored fragment in insertion order.
func ListFragments(ctx context.Context, database *sql.DB, cfg *config.Config, input ListFragmentsInput) (*ListFragmentsOutput, error) {
	eng, err := loadEngine(database, cfg)
	if err != nil {
		return nil, err
	}

	all := eng.Prompts().All()
	fragments := make([]prompt.Prompt, 0, len(all))
	for _, p := range all {
		if p.Marker && !input.IncludeMarkers {
			continue
		}
		fragments = append(fragments, p)
	}

	return &ListFragmentsOutput{
		Fragments: fragments,
		Total:     len(fragments),
	}, nil
}
