package ops

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/errors"
	"github.com/hpungsan/loom/internal/prompt"
)

// UpsertFragmentInput contains parameters for the UpsertFragment operation.
type UpsertFragmentInput struct {
	Identifier        string // empty: create with a generated identifier
	Name              string
	Role              string // default: "system"
	Content           string
	InjectionPosition int
	InjectionDepth    int
	InjectionOrder    int
	InjectionTrigger  []string
	ForbidOverrides   bool
}

// UpsertFragmentOutput contains the result of the UpsertFragment operation.
type UpsertFragmentOutput struct {
	Identifier string `json:"identifier"`
	Created    bool   `json:"created"`
}

// UpsertFragment creates or edits a prompt fragment. Markers and
// deny-listed identifiers reject edits; marker and system flags of an
// existing fragment cannot be changed from here.
func UpsertFragment(ctx context.Context, database *sql.DB, cfg *config.Config, input UpsertFragmentInput) (*UpsertFragmentOutput, error) {
	role := strings.TrimSpace(input.Role)
	switch prompt.Role(role) {
	case "", prompt.RoleSystem, prompt.RoleUser, prompt.RoleAssistant:
	default:
		return nil, errors.NewInvalidRequest("role must be one of: system, user, assistant")
	}

	position := prompt.InjectionPosition(input.InjectionPosition)
	if position != prompt.PositionRelative && position != prompt.PositionAbsolute {
		return nil, errors.NewInvalidRequest("injection_position must be 0 (relative) or 1 (absolute)")
	}

	triggers := make([]prompt.GenerationType, 0, len(input.InjectionTrigger))
	for _, raw := range input.InjectionTrigger {
		t := prompt.NormalizeGenerationType(raw)
		if !prompt.KnownGenerationType(t) {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown generation type %q in injection_trigger", raw))
		}
		triggers = append(triggers, t)
	}
	if len(triggers) == 0 {
		triggers = nil
	}

	eng, err := loadEngine(database, cfg)
	if err != nil {
		return nil, err
	}
	store := eng.Prompts()

	p := prompt.Prompt{
		Identifier:        strings.TrimSpace(input.Identifier),
		Name:              input.Name,
		Role:              prompt.Role(role),
		Content:           input.Content,
		InjectionPosition: position,
		InjectionDepth:    input.InjectionDepth,
		InjectionOrder:    input.InjectionOrder,
		InjectionTrigger:  triggers,
		ForbidOverrides:   input.ForbidOverrides,
	}

	created := true
	if p.Identifier != "" {
		if existing, ok := store.Get(p.Identifier); ok {
			if !prompt.IsEditAllowed(existing, store.Policy()) {
				return nil, errors.NewProtectedPrompt(p.Identifier, "edited")
			}
			// Structural flags survive the edit.
			p.Marker = existing.Marker
			p.SystemPrompt = existing.SystemPrompt
			created = false
		}
	}

	identifier := store.Upsert(p)
	eng.Sanitize()

	if err := saveEngine(database, eng); err != nil {
		return nil, err
	}

	return &UpsertFragmentOutput{
		Identifier: identifier,
		Created:    created,
	}, nil
}
