package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"estate-core/internal/domain/entity"
)

// Fixed user-facing fallbacks.
const (
	noDataResponse = "I couldn't find any properties that match your criteria. " +
		"Could you please provide more details or adjust your requirements?"
	clarifyResponse  = "Could you tell me a bit more about what you're looking for?"
	refusalResponse  = "I can only help with real estate questions. What kind of property are you looking for?"
	answerInArabic   = "أجب باللغة العربية فقط."
	answerInEnglish  = "Answer in English."
	promptHistoryLen = 6
)

var arabicPattern = regexp.MustCompile(`[\x{0600}-\x{06FF}]`)

// IsArabic reports whether the message contains Arabic-range characters.
func IsArabic(message string) bool {
	return arabicPattern.MatchString(message)
}

// BuildSystemPrompt assembles the generation prompt: language directive,
// ranked grounding context as human-readable lines, and a bounded slice of
// prior turns. The no-fabrication rule is part of the prompt, but the
// orchestrator also enforces it by never generating without grounding.
func BuildSystemPrompt(items []entity.RetrievalItem, history []entity.ConversationTurn, arabic bool) string {
	language := answerInEnglish
	if arabic {
		language = answerInArabic
	}

	var sb strings.Builder
	sb.WriteString("You are a helpful real estate assistant. Answer strictly based on the property listings and conversation history below.\n\n")
	sb.WriteString(language)
	sb.WriteString("\n\nProperty Listings:\n")
	sb.WriteString(ContextLines(items))
	sb.WriteString("\n\nConversation History:\n")
	sb.WriteString(historyLines(history))
	sb.WriteString("\n\nRules:\n")
	sb.WriteString("- Be conversational and friendly\n")
	sb.WriteString("- Stay on real estate; if the user diverts, redirect them back without addressing the off-topic query\n")
	sb.WriteString("- Use bullet points for property listings in the same format as above\n")
	sb.WriteString("- Honor numerical filters\n")
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- If no listing is relevant to the user query, say \"" + noDataResponse + "\" and nothing else\n")
	sb.WriteString("- Never fabricate properties or details; use only the listings provided\n")
	sb.WriteString("- Exclude any * or **")
	return sb.String()
}

// ContextLines serializes grounding items, one line each, ranked order kept.
func ContextLines(items []entity.RetrievalItem) string {
	if len(items) == 0 {
		return "(none)"
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if item.Kind == entity.ItemKindDocChunk {
			lines = append(lines, fmt.Sprintf("- %s", item.Content))
			continue
		}
		availability := "Available"
		if !item.Available {
			availability = "Not available"
		}
		lines = append(lines, fmt.Sprintf("- %s (%s) in %s: %.0f QAR, %d BR, %d Bath, %.0f sqm. %s",
			item.Title, availability, item.Location, item.Price,
			item.Bedrooms, item.Bathrooms, item.AreaSqm, item.Description))
	}
	return strings.Join(lines, "\n")
}

func historyLines(history []entity.ConversationTurn) string {
	if len(history) > promptHistoryLen {
		history = history[len(history)-promptHistoryLen:]
	}
	if len(history) == 0 {
		return "(none)"
	}
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, fmt.Sprintf("User: %s\nAssistant: %s", turn.UserMessage, turn.AssistantMessage))
	}
	return strings.Join(lines, "\n\n")
}
