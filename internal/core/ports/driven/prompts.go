package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the built-in default
	// or an error if none exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptAcademicRewrite rewrites student text in an academic register.
	// The template expects three %s placeholders: context block, style, text.
	PromptAcademicRewrite = "academic_rewrite"

	// PromptContextBlock wraps retrieved chunks for splicing into a prompt.
	// The template expects one %s placeholder for the joined chunks.
	PromptContextBlock = "context_block"
)
