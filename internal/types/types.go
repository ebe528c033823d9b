package types

// WebsiteCode is the markup/styles/script triple a session is building.
type WebsiteCode struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// GeneratedFile is one file produced from a session's document, e.g. on export.
type GeneratedFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Files splits the document into the two files a save produces.
func (c WebsiteCode) Files() []GeneratedFile {
	return []GeneratedFile{
		{Filename: "index.html", ContentType: "text/html", Content: c.HTML},
		{Filename: "styles.css", ContentType: "text/css", Content: c.CSS},
	}
}

// Role identifies the author of a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one ConversationLog entry.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// EntryKind classifies console transcript lines.
type EntryKind string

const (
	EntryInput  EntryKind = "input"
	EntryOutput EntryKind = "output"
	EntryError  EntryKind = "error"
)

// Entry is one console transcript line.
type Entry struct {
	Kind EntryKind `json:"kind"`
	Text string    `json:"text"`
}
