package constant

const (
	// RouterPrompt classifies a question into one of the three answer routes.
	// The model must answer with JSON only.
	RouterPrompt = `You are an expert at routing a user question to the most appropriate source.

Available routes:
1. 'vectorstore' - For questions about machine learning concepts such as: agents, prompt engineering, and adversarial attacks.
2. 'direct_llm' - For generic questions, small talk, greetings, simple math, basic conversations, or questions that don't require external knowledge.
3. 'web_search' - For specific factual questions, current events, or topics not covered by the vectorstore that require external information.

Choose 'direct_llm' for casual conversation and simple queries that can be answered directly without needing external sources.

Question: %s

Output MUST be valid JSON: {"datasource": "vectorstore" | "web_search" | "direct_llm"}`

	// GraderPrompt asks for a binary relevance verdict on one retrieved document.
	GraderPrompt = `You are a grader assessing the relevance of a retrieved document to a user question.
If the document contains keywords or semantic meaning related to the question, grade it as relevant.
This is not a stringent test, the goal is to filter out clearly erroneous retrievals.

Retrieved document:
%s

User question: %s

Output MUST be valid JSON: {"score": "yes" | "no"}`

	// GeneratorPrompt produces the grounded answer from accumulated context.
	GeneratorPrompt = `You are an assistant for question-answering tasks. Use the following pieces of retrieved context to answer the question. If you don't know the answer, just say that you don't know. Keep the answer concise.

Context:
%s

Question: %s

Answer:`

	// DirectAnswerSystemPrompt is used for questions that need no external context.
	DirectAnswerSystemPrompt = `You are a helpful AI assistant. Answer the user's question directly and conversationally. Keep responses concise and friendly.`

	// SummarySystemPrompt compresses older conversation turns into a rolling summary.
	SummarySystemPrompt = `You are tasked with creating a concise summary of a conversation between a human and an AI assistant.
Focus on:
- Key topics discussed
- Important questions asked
- Main insights or information provided
- Any specific examples or technical details mentioned

Keep the summary informative but concise (2-3 sentences per major topic).`
)
