package extractor

// DefaultKeywords is the reference skill list, also offered for manual selection.
var DefaultKeywords = []string{
	"JavaScript", "TypeScript", "Python", "Java", "C#", "React", "Vue", "Angular",
	"Node.js", "Express", "Django", "Spring Boot", ".NET", "MongoDB", "PostgreSQL",
	"MySQL", "Redis", "AWS", "Azure", "Docker", "Kubernetes", "Git",
}

// Keywords returns a copy of DefaultKeywords.
func Keywords() []string {
	out := make([]string, len(DefaultKeywords))
	copy(out, DefaultKeywords)
	return out
}
