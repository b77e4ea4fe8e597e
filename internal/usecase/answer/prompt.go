package answer

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
	"github.com/kailas-cloud/helpdesk/internal/domain/language"
)

const systemPrompt = `You are a helpful support assistant. Your task is to provide a clear, complete, and natural-language answer based on the knowledge base.
- Use only the provided context.
- Answer strictly in %[1]s.
- Do not include any thinking, reasoning or explanation tags like <think>, [thinking], etc.
- Do not say "Based on the information", "Thinking", etc.
- If the answer is long, return the full text.
- Do not shorten or summarize unless necessary.`

const userPrompt = `Question: %[1]s

Instructions:
- Provide a full, detailed, and natural-sounding answer in %[2]s.
- Do not add disclaimers like 'Based on the information' or 'I think'.
- Just answer directly and completely.

Available context:
%[3]s`

func buildSystemPrompt(lang language.Language) string {
	return fmt.Sprintf(systemPrompt, lang.Name())
}

func buildUserPrompt(question string, lang language.Language, candidates []kb.Scored) string {
	var b strings.Builder
	for i := range candidates {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] Q: %s\nA: %s", i+1,
			candidates[i].Question(lang), candidates[i].Answer(lang))
	}
	return fmt.Sprintf(userPrompt, question, lang.Name(), b.String())
}
