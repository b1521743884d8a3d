package llm

import (
	"fmt"
	"strings"
)

// languageInstruction tells the model which language to answer in.
func languageInstruction(language string) string {
	if language == "th" {
		return "Respond in Thai."
	}
	return "Respond in English."
}

// summaryPrompt builds the user prompt for a one-shot summarization.
func summaryPrompt(req SummaryRequest) string {
	var b strings.Builder
	b.WriteString("Please provide a comprehensive summary of the following content.\n\n")

	if req.ExcludeCode {
		b.WriteString("IMPORTANT: Exclude all technical code blocks, snippets, or implementation details. Focus only on the conceptual discussion and outcomes.\n")
	} else {
		b.WriteString("Include relevant code concepts if they are central to the discussion.\n")
	}
	if req.FocusKeywords != "" {
		fmt.Fprintf(&b, "ADDITIONAL FOCUS: Prioritize information related to: %s\n", req.FocusKeywords)
	}
	b.WriteString(languageInstruction(req.Language))
	b.WriteString("\n\nCONTENT TO SUMMARIZE:\n---\n")
	b.WriteString(req.Context)
	b.WriteString("\n---\n")
	return b.String()
}

// chatSystemPrompt builds the system instruction that grounds a follow-up
// conversation in the analyzed context.
func chatSystemPrompt(g Grounding) string {
	codeRule := "You may provide code snippets if requested and present in the context."
	if g.ExcludeCode {
		codeRule = "If the user asks for code, explain the logic but do not provide the actual code blocks as per their 'Exclude Code' preference."
	}

	var b strings.Builder
	b.WriteString("You are an expert context analyzer. You are helping the user understand a document or chat log they have provided.\n\n")
	b.WriteString("CONTEXT PROVIDED BY USER:\n---\n")
	b.WriteString(g.Context)
	b.WriteString("\n---\n\n")
	b.WriteString("RULES:\n")
	b.WriteString("1. Answer questions strictly based on the provided context.\n")
	fmt.Fprintf(&b, "2. %s\n", codeRule)
	b.WriteString("3. If the answer is not in the context, state that clearly.\n")
	b.WriteString("4. Be concise and professional.\n")
	fmt.Fprintf(&b, "5. %s\n", languageInstruction(g.Language))
	return b.String()
}

// recapPrompt builds the prompt for summarizing a conversation thread.
func recapPrompt(turns []Turn, language string) string {
	var b strings.Builder
	b.WriteString("Summarize the following conversation between a user and an assistant. ")
	b.WriteString("Capture the questions asked, the answers given, and any conclusions reached. ")
	b.WriteString(languageInstruction(language))
	b.WriteString("\n\nCONVERSATION:\n---\n")
	for _, t := range turns {
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(t.Role), t.Content)
	}
	b.WriteString("---\n")
	return b.String()
}
