package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

// Document kinds, used to pick the processing pipeline and target directory.
const (
	DocumentKindPDF   = "pdf"
	DocumentKindVideo = "video"
)

// Client-facing status strings. Last write wins; the authoritative signal
// is the session's processing flag, these are informational only.
const (
	StatusReady            = "Ready"
	StatusProcessingFile   = "Processing your file..."
	StatusFileProcessed    = "File processed successfully. You can now ask questions."
	StatusGeneratingAnswer = "Generating answer..."
	StatusAnswerGenerated  = "Answer generated successfully."

	StatusErrorProcessingPDFFmt   = "Error processing PDF: %v"
	StatusErrorProcessingVideoFmt = "Error processing video: %v"
	StatusErrorGeneratingFmt      = "Error generating answer: %v"
)

// AnswerErrorChatFmt is appended to the transcript itself when answer
// generation fails, so the user sees the failure without polling status.
const AnswerErrorChatFmt = "Sorry, I encountered an error while processing your question: %v"

// AnswerPromptFmt embeds the full extracted document text and the user's
// question. The HTML instruction is deliberate: the client renders the
// assistant message as markup.
const AnswerPromptFmt = `Act as if you are a chatbot and based on the following content, please answer the user's question.

Content:
%s

Question: %s

Make sure and NEVER forget to provide a detailed answer in HTML format with proper formatting.
Use headings, paragraphs, bullet points, and bold text (using <b></b>) where appropriate.`

// VideoExtensions is the accepted video container allow-list. PDF is the
// only accepted document extension.
var VideoExtensions = map[string]bool{
	"mp4": true,
	"mov": true,
	"avi": true,
	"mkv": true,
}
