package agent

import (
	"fmt"
	"strings"
)

const intentPromptTemplate = `You are Herald, a smart assistant. Analyse the user's message and decide
which tool to use.

%s
Rules:
1. Analyse the user's intent.
2. Pick ONE suitable tool, or "none" when no tool is needed.
3. Extract the needed parameters from the message.
4. Return ONLY valid JSON, no extra text.

Response format:
` + "```json" + `
{
  "tool": "tool_name",
  "parameters": {"param1": "value1"},
  "reasoning": "why this tool was chosen"
}
` + "```" + `

When no tool is needed (plain conversation):
` + "```json" + `
{"tool": "none", "parameters": {}, "reasoning": "the user just wants to chat"}
` + "```" + `

Examples:

User: "do I have any unread mail?"
` + "```json" + `
{"tool": "check_email", "parameters": {}, "reasoning": "the user asks about mail"}
` + "```" + `

User: "show me today's news"
` + "```json" + `
{"tool": "get_news_digest", "parameters": {"digest_type": "brief"}, "reasoning": "the user wants news"}
` + "```" + `

User: "find information about llama 3.3"
` + "```json" + `
{"tool": "web_search", "parameters": {"query": "llama 3.3"}, "reasoning": "needs a web search"}
` + "```" + `

User: "hi, how are you?"
` + "```json" + `
{"tool": "none", "parameters": {}, "reasoning": "plain greeting"}
` + "```" + `

User: "add the channel bbcnews"
` + "```json" + `
{"tool": "add_channel", "parameters": {"channel_username": "bbcnews"}, "reasoning": "the user wants a new channel monitored"}
` + "```" + `

User: "remove the channel @meduzalive"
` + "```json" + `
{"tool": "remove_channel", "parameters": {"channel_username": "@meduzalive"}, "reasoning": "the user wants a channel removed"}
` + "```" + `

User message: "%s"

Your answer (JSON only):`

const paraphrasePromptTemplate = `The user asked: "%s"

I performed the action and got this result:

%s

Answer the user naturally using this result. Be brief and helpful.`

// renderCatalogue formats the tool set for the intent prompt, preserving
// registration order.
func renderCatalogue(tools []Descriptor) string {
	var b strings.Builder
	b.WriteString("Available tools:\n\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "**%s**\n", t.Name)
		fmt.Fprintf(&b, "Description: %s\n", t.Description)
		b.WriteString("Parameters:\n")
		for _, p := range t.Params {
			marker := "(optional)"
			if p.Required {
				marker = "(required)"
			}
			fmt.Fprintf(&b, "  - %s %s: %s\n", p.Name, marker, p.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}
