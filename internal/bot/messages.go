package bot

import (
	"fmt"
	"strings"

	"github.com/hyperjump/kiku/internal/extract"
)

// Fixed user-facing messages. Raw diagnostics from extraction libraries or
// the completion service never appear here; they are logged instead.
const (
	msgUnsupportedFormat = "Sorry, I only support %s files."

	msgUploadSuccess = "Success! I've processed '%s'. You can now ask me questions about its content. Send a reset to upload a new document."

	msgUploadTruncated = "Warning: the document is very long. Context has been truncated to %d characters. "

	msgExtractionFailed = "Could not extract text from '%s'. The file might be empty, corrupted, or password-protected."

	msgUnexpectedError = "An unexpected error occurred while processing your file."

	msgOnboarding = "Hello! I am your document assistant. Please upload a file (%s) to start."

	msgReset = "Your document context has been cleared. You can now upload a new file."

	msgNothingToReset = "You don't have an active document to reset. Please upload one first."

	msgStatusLoaded = "You have a document loaded: '%s' (%d characters)."

	msgStatusEmpty = "No document is currently loaded."

	msgAINotConfigured = "The AI service is not configured. Please contact the administrator."

	msgAIRateLimited = "I'm currently experiencing high demand or have reached my usage limit with the AI service. Please try again later."

	msgAIAuthError = "There seems to be an issue with the AI service configuration. Please contact the administrator."

	msgAIBlocked = "My response was blocked. Reason: %s. This can happen if the query or document content triggers a safety filter."

	msgAIEmpty = "I received an empty response from the AI. Please try rephrasing your question."

	msgAIUnknownError = "Sorry, an unexpected error occurred while trying to process your request with the AI service. Please try again."
)

// supportedList renders the supported extensions for user-facing messages,
// e.g. ".pdf, .epub, .txt".
func supportedList() string {
	return strings.Join(extract.SupportedExtensions, ", ")
}

func unsupportedFormatMessage() string {
	return fmt.Sprintf(msgUnsupportedFormat, supportedList())
}

func onboardingMessage() string {
	return fmt.Sprintf(msgOnboarding, supportedList())
}
