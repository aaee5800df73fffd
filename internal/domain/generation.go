package domain

// GenerateOptions tune a single text generation call. Zero values fall
// back to the provider defaults.
type GenerateOptions struct {
	Model       string
	System      string
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}
