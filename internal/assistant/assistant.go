// Package assistant answers shopper questions through an external text-generation model.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"abs-store/internal/domain"
)

// ErrNotConfigured is returned by generators that have no credentials
var ErrNotConfigured = errors.New("assistant not configured")

// Request is a single generation call
type Request struct {
	Prompt      string
	Temperature float32
	// Recommendations asks for a JSON array of {suggestion, reason} objects
	Recommendations bool
}

// Generator produces text for a prompt
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Recommendation is one suggested item or category
type Recommendation struct {
	Suggestion string `json:"suggestion"`
	Reason     string `json:"reason"`
}

// ContactSource supplies the services list quoted to the model
type ContactSource interface {
	Contact() domain.ContactInfo
}

// Config describes the shop to the model and holds the reply fallbacks
type Config struct {
	ShopName    string
	Location    string
	Language    string
	Temperature float32

	FallbackNotConfigured string
	FallbackUnavailable   string
	FallbackNoAnswer      string
}

// Gateway wraps a Generator so that callers always get a reply
type Gateway struct {
	generator Generator
	contacts  ContactSource
	cfg       Config
	logger    *zap.Logger
}

// NewGateway creates a Gateway. A nil generator means no credentials were configured.
func NewGateway(generator Generator, contacts ContactSource, cfg Config, logger *zap.Logger) *Gateway {
	return &Gateway{
		generator: generator,
		contacts:  contacts,
		cfg:       cfg,
		logger:    logger,
	}
}

// Ask returns the model's reply to query, or a fixed fallback on any failure
func (g *Gateway) Ask(ctx context.Context, query string) string {
	if g.generator == nil {
		return g.cfg.FallbackNotConfigured
	}

	reply, err := g.generator.Generate(ctx, Request{
		Prompt:      g.askPrompt(query),
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return g.cfg.FallbackNotConfigured
		}
		g.logger.Error("Assistant request failed", zap.Error(err))
		return g.cfg.FallbackUnavailable
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		g.logger.Warn("Assistant returned an empty reply")
		return g.cfg.FallbackNoAnswer
	}
	return reply
}

// Recommend asks for three suggestions matching interests. Failures yield an empty list.
func (g *Gateway) Recommend(ctx context.Context, interests string) []Recommendation {
	recs := []Recommendation{}
	if g.generator == nil {
		return recs
	}

	raw, err := g.generator.Generate(ctx, Request{
		Prompt:          g.recommendPrompt(interests),
		Temperature:     g.cfg.Temperature,
		Recommendations: true,
	})
	if err != nil {
		g.logger.Error("Assistant recommendations failed", zap.Error(err))
		return recs
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return recs
	}
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		g.logger.Warn("Assistant recommendations were not valid JSON", zap.Error(err))
		return []Recommendation{}
	}
	if recs == nil {
		recs = []Recommendation{}
	}
	return recs
}

func (g *Gateway) askPrompt(query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert sales assistant for %q.\n", g.cfg.ShopName)
	fmt.Fprintf(&b, "Location: %s.\n", g.cfg.Location)
	fmt.Fprintf(&b, "We sell: %s.\n", sellsLine())
	fmt.Fprintf(&b, "We provide: %s.\n", g.servicesLine())
	fmt.Fprintf(&b, "User query: %s\n", query)
	fmt.Fprintf(&b, "Response language: %s.\n", g.cfg.Language)
	b.WriteString("Provide a helpful, concise, and friendly response.")
	return b.String()
}

func (g *Gateway) recommendPrompt(interests string) string {
	return fmt.Sprintf("Suggest 3 categories or items for a user interested in: %s. Return JSON array in %s.",
		interests, g.cfg.Language)
}

func sellsLine() string {
	names := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		if c == domain.CategoryServices {
			continue
		}
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// servicesLine flattens the admin-edited services list into one line
func (g *Gateway) servicesLine() string {
	if g.contacts != nil {
		var lines []string
		for _, line := range strings.Split(g.contacts.Contact().ServicesProvided, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			return strings.Join(lines, "; ")
		}
	}
	return "Computer repair, Windows setup, Hardware servicing"
}
