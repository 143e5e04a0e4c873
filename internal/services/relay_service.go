// Package services – RelayService
//
// This file implements the RelayService, which turns one user utterance into
// one assistant reply. A single deterministic override is checked first: the
// Polish "who created/made you" phrasings are answered with a fixed literal
// and never leave the process. Everything else is forwarded verbatim to the
// configured completion provider as a single-turn request, and the provider's
// first choice is returned unmodified.
//
// There is no retry, no timeout override, and no streaming; a slow provider
// holds the originating request open. Provider failures propagate to the
// caller unwrapped in meaning: the handler maps them all to one generic
// relay failure.
//
// Observability: Relay is OpenTelemetry-instrumented; the span records
// whether the override short-circuited the provider call.
package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zurekai/zurekai/internal/ai"
	"github.com/zurekai/zurekai/internal/domain"
)

// creatorReply is the fixed literal returned for creator questions.
const creatorReply = "Stworzył mnie Żurek. Jestem jego autorskim projektem AI!"

// creatorTokens short-circuit the provider on a plain substring match.
var creatorTokens = []string{"twórca", "tworca", "autor", "creator"}

// creatorVerbs pair with "kto"/"who" to catch the question forms
// ("kto stworzył ciebie", "kto cię zrobił", "who created you").
var creatorVerbs = []string{"stworzył", "stworzyl", "zrobił", "zrobil", "created", "made"}

// RelayService forwards user text to the completion provider.
type RelayService struct {
	// Provider performs the outbound completion call.
	Provider ai.Provider
}

// NewRelayService constructs a RelayService bound to the given provider.
func NewRelayService(p ai.Provider) *RelayService {
	return &RelayService{Provider: p}
}

// Relay answers a single user text. The creator-override is evaluated before
// any network I/O; when it matches, the provider is not contacted at all.
func (s *RelayService) Relay(ctx context.Context, text string) (string, error) {
	tr := otel.Tracer("services/RelayService")
	ctx, span := tr.Start(ctx, "Relay",
		trace.WithAttributes(attribute.Int("text.len", len(text))),
	)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}

	if isCreatorQuestion(text) {
		span.SetAttributes(attribute.Bool("relay.override", true))
		return creatorReply, nil
	}
	span.SetAttributes(attribute.Bool("relay.override", false))

	return s.Provider.Chat(ctx, []ai.Message{
		{Role: domain.RoleUser, Content: text},
	})
}

// isCreatorQuestion reports whether text asks who created the assistant.
// Matching is case-insensitive and substring-based: either an interrogative
// ("kto"/"who") combined with a creation verb, or one of the bare
// creator/author tokens.
func isCreatorQuestion(text string) bool {
	t := strings.ToLower(text)

	if strings.Contains(t, "kto") || strings.Contains(t, "who") {
		for _, v := range creatorVerbs {
			if strings.Contains(t, v) {
				return true
			}
		}
	}
	for _, tok := range creatorTokens {
		if strings.Contains(t, tok) {
			return true
		}
	}
	return false
}
