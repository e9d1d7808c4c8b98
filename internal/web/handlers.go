package web

import (
	"database/sql"
	"net/http"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleCompose handles GET /compose — preview the composed prompt sequence.
func (h *Handlers) HandleCompose(w http.ResponseWriter, r *http.Request) {
	scopeID := r.URL.Query().Get("scope")
	genType := r.URL.Query().Get("type")

	result, err := ops.Tokens(r.Context(), h.db, h.cfg, ops.TokensInput{
		ScopeID:        scopeID,
		GenerationType: genType,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	messages := make([]composedMessage, len(result.Messages))
	for i, m := range result.Messages {
		messages[i] = composedMessage{Message: m}
		if !m.Marker && m.Content != "" {
			messages[i].RenderedHTML = renderMarkdown(m.Content)
		}
	}

	h.renderer.renderPage(w, r, "compose", ComposePageData{
		PageData: PageData{
			Title:   "Composed Prompt",
			Version: h.renderer.version,
			Nav:     "compose",
		},
		ScopeID:        result.ScopeID,
		GenerationType: genType,
		Messages:       messages,
		Total:          result.Total,
	})
}

// HandleFragments handles GET /fragments — the order list with fragment metadata.
func (h *Handlers) HandleFragments(w http.ResponseWriter, r *http.Request) {
	scopeID := r.URL.Query().Get("scope")

	result, err := ops.ShowOrder(r.Context(), h.db, h.cfg, ops.ShowOrderInput{
		ScopeID: scopeID,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "fragments", FragmentsPageData{
		PageData: PageData{
			Title:   "Fragments",
			Version: h.renderer.version,
			Nav:     "fragments",
		},
		Rows:    result.Rows,
		ScopeID: result.ScopeID,
	})
}

// HandlePresets handles GET /presets — stored preset names.
func (h *Handlers) HandlePresets(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListPresets(r.Context(), h.db, h.cfg, ops.ListPresetsInput{})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "presets", PresetsPageData{
		PageData: PageData{
			Title:   "Presets",
			Version: h.renderer.version,
			Nav:     "presets",
		},
		Names: result.Names,
	})
}
