package llm

import (
	"fmt"

	"github.com/FileLanderScaner/ANALYZER/internal/models"
)

// ChatTurn - одно сообщение из истории диалога
type ChatTurn struct {
	Sender  string `json:"sender" jsonschema:"enum=user,enum=ai"`
	Message string `json:"message"`
}

type AssistantRequest struct {
	UserMessage         string        `json:"userMessage" jsonschema:"description=The user's question"`
	ConversationHistory []ChatTurn    `json:"conversationHistory,omitempty"`
	Locale              models.Locale `json:"locale,omitempty"`
}

type AssistantResponse struct {
	AIResponse string `json:"aiResponse" jsonschema:"description=The assistant's answer"`
}

// maxHistoryTurns bounds how much conversation is replayed into the prompt.
const maxHistoryTurns = 10

func BuildAssistantPrompt(req *AssistantRequest) string {
	prompt := "You are a helpful cybersecurity assistant for a vulnerability analysis platform. " +
		"Answer questions about security concepts, findings and remediation. Refuse to help with attacks against systems the user does not own.\n\n"

	history := req.ConversationHistory
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	if len(history) > 0 {
		prompt += "Conversation so far:\n"
		for _, turn := range history {
			prompt += fmt.Sprintf("%s: %s\n", turn.Sender, turn.Message)
		}
		prompt += "\n"
	}

	prompt += fmt.Sprintf("User: %s\n\n", req.UserMessage)
	prompt += "Return a JSON object with a single \"aiResponse\" field.\n"
	prompt += languageInstruction(req.Locale)
	return prompt
}
