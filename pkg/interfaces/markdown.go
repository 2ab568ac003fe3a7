package interfaces

// MarkdownRenderer converts guide Markdown bodies into HTML.
type MarkdownRenderer interface {
	Render(markdown []byte) ([]byte, error)
}

// RenderOptions customises Markdown rendering. Option names stay readable for
// configuration unmarshalling and CLI flags.
type RenderOptions struct {
	Extensions []string `yaml:"extensions" json:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps" json:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode" json:"safe_mode"`
}
