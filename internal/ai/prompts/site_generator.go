package prompts

// SystemPrompt frames every generation call.
const SystemPrompt = "You are a website generator. You answer with a single JSON object and nothing else."

// GetSiteGenerationPrompt returns the generation template; the user's request
// fills the single %s verb.
func GetSiteGenerationPrompt() string {
	return `You are a website generator. Generate HTML and CSS code based on this request: %s

Your response must be a valid JSON object with exactly this structure:
{
  "html": "<html><head><title>Generated Page</title></head><body>... your generated HTML here ...</body></html>",
  "css": "/* your generated CSS here */"
}

Important:
- The response must be ONLY the JSON object, nothing else
- The HTML must be a complete page with html, head, and body tags
- All quotes must be properly escaped
- The CSS must be valid CSS rules`
}
