package models

const (
	// NoAnswerSentence is the exact fallback the model is instructed to emit
	// when the retrieved context does not contain the answer.
	NoAnswerSentence = "Answer not found in provided documents."

	EmptyQueryMessage = "Please enter a question."
	NotReadyMessage   = "The knowledge base has not been built yet. Run with -build first."
	ApologyMessage    = "Sorry, something went wrong while answering. Please try again."

	ThinkTag = `(?s)<think>.*?</think>`
)

var (
	AnswerPromptTemplate = `You are an AI assistant for %s.

Use the given context to answer the question.
If the answer is not in the context, say:
"%s"

Context:
%s

Question:
%s

Answer:
`
)
