package steps

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/integrations"
	"github.com/yungbote/howscary-backend/internal/platform/ai"
	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

const (
	processConcurrency = 4
	pickCandidateLimit = 5
	manualReasoning    = "Manually triggered by moderator"
)

var namespaceOrder = []string{
	types.NamespaceTMDB,
	types.NamespaceGoogleBooks,
	types.NamespaceMusicBrainz,
	types.NamespaceWikipedia,
}

var reFirstInt = regexp.MustCompile(`\d+`)

type ProcessIntegrationsDeps struct {
	Log      *logger.Logger
	Registry *integrations.Registry
	// Optional: selects between encyclopedia candidates.
	AI ai.Generator
}

type ProcessIntegrationsOutput struct {
	Enrichment types.Enrichment
	// Applied lists the namespaces that received data, in storage order.
	Applied []string
}

// ProcessIntegrations resolves every selection concurrently. A failing or
// panicking provider leaves its namespace empty and never affects the others.
func ProcessIntegrations(ctx context.Context, deps ProcessIntegrationsDeps, c types.Candidate, selections []integrations.Selection) ProcessIntegrationsOutput {
	ctx, span := tracer.Start(ctx, "wiki.process_integrations")
	defer span.End()

	var (
		mu      sync.Mutex
		out     ProcessIntegrationsOutput
		applied = map[string]bool{}
	)
	g := new(errgroup.Group)
	g.SetLimit(processConcurrency)
	for _, sel := range selections {
		sel := sel
		h, ok := deps.Registry.Handler(sel.Key)
		if !ok {
			deps.Log.Info("No processor for integration", "integration", sel.Key, "entity", c.ID)
			continue
		}
		g.Go(func() error {
			data := resolveSelection(ctx, deps, c, sel, h)
			if data == nil || h.Namespace == "" {
				return nil
			}
			mu.Lock()
			out.Enrichment.Merge(h.Namespace, *data)
			applied[h.Namespace] = true
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, ns := range namespaceOrder {
		if applied[ns] {
			out.Applied = append(out.Applied, ns)
		}
	}
	return out
}

// ProcessManualIntegration runs one provider for a moderator, bypassing the selector.
func ProcessManualIntegration(ctx context.Context, deps ProcessIntegrationsDeps, c types.Candidate, key, id string) (ProcessIntegrationsOutput, error) {
	if _, ok := deps.Registry.Get(key); !ok {
		return ProcessIntegrationsOutput{}, fmt.Errorf("%w: %s", types.ErrUnknownIntegration, key)
	}
	if _, ok := deps.Registry.Handler(key); !ok {
		return ProcessIntegrationsOutput{}, fmt.Errorf("%w: %s has no processor", types.ErrUnknownIntegration, key)
	}
	hints := integrations.ManualIDHints(key, id, integrations.Hints{ArticleTitle: c.Name})
	sel := integrations.Selection{
		Key:        key,
		Confidence: 1.0,
		Reasoning:  manualReasoning,
		Hints:      &hints,
	}
	return ProcessIntegrations(ctx, deps, c, []integrations.Selection{sel}), nil
}

func resolveSelection(ctx context.Context, deps ProcessIntegrationsDeps, c types.Candidate, sel integrations.Selection, h integrations.Handler) (data *types.Enrichment) {
	log := deps.Log.With("integration", sel.Key, "entity", c.ID)
	stage := "start"
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Integration panic", "stage", stage, "panic", rec)
			data = nil
		}
	}()

	var hints integrations.Hints
	if sel.Hints != nil {
		hints = *sel.Hints
	}

	if h.IDHint != nil && h.ResolveByID != nil {
		if id := strings.TrimSpace(h.IDHint(hints)); id != "" {
			stage = "resolve_by_id"
			res, err := h.ResolveByID(ctx, id)
			if err != nil {
				log.Warn("Integration lookup failed", "stage", stage, "id", id, "error", err)
			} else if res != nil {
				return res
			}
		}
	}

	if h.Candidates != nil && deps.AI != nil && strings.TrimSpace(c.Description) != "" {
		stage = "pick_candidate"
		if res := pickCandidate(ctx, deps, log, c, hints, h); res != nil {
			return res
		}
	}

	if h.ResolveByTitle == nil {
		return nil
	}
	stage = "resolve_by_title"
	title := c.Name
	if q := strings.TrimSpace(hints.SearchQuery); q != "" {
		title = q
	}
	res, err := h.ResolveByTitle(ctx, title, integrations.Supplement(hints, c.SearchText()))
	if err != nil {
		log.Warn("Integration lookup failed", "stage", stage, "title", title, "error", err)
		return nil
	}
	if res == nil {
		log.Debug("Integration found no match", "stage", stage, "title", title)
	}
	return res
}

// pickCandidate lets the model choose between several articles. It returns nil
// to signal that the caller should fall back to title resolution.
func pickCandidate(ctx context.Context, deps ProcessIntegrationsDeps, log *logger.Logger, c types.Candidate, hints integrations.Hints, h integrations.Handler) *types.Enrichment {
	query := c.Name
	if hints.ArticleTitle != "" {
		query = hints.ArticleTitle
	}
	options, err := h.Candidates(ctx, query, pickCandidateLimit)
	if err != nil {
		log.Warn("Candidate search failed", "query", query, "error", err)
		return nil
	}
	switch len(options) {
	case 0:
		return nil
	case 1:
		return &options[0].Data
	}
	titles := make([]string, len(options))
	extracts := make([]string, len(options))
	for i, o := range options {
		titles[i] = o.Title
		extracts[i] = o.Extract
	}
	system, user := promptPickArticle(c, titles, extracts)
	text, err := deps.AI.GenerateText(ctx, system, user)
	if err != nil {
		log.Warn("Candidate pick failed", "error", err)
		return nil
	}
	n, err := strconv.Atoi(reFirstInt.FindString(text))
	if err != nil || n < 1 || n > len(options) {
		log.Warn("Candidate pick out of range", "answer", strings.TrimSpace(text))
		return nil
	}
	return &options[n-1].Data
}
