package quiz

import (
	"fmt"
	"sort"
	"strings"
)

// Question asks the learner to perform the sign for Prompt.
type Question struct {
	// Prompt is what the learner sees, e.g. "3".
	Prompt string `yaml:"prompt" json:"prompt"`

	// Answer is the expected sign label sent to the recognizer.
	Answer string `yaml:"answer" json:"answer"`
}

// QuestionSet is a named, ordered list of questions.
type QuestionSet struct {
	Name      string     `yaml:"name" json:"name"`
	Title     string     `yaml:"title" json:"title"`
	Questions []Question `yaml:"questions" json:"questions"`
}

// Len returns the number of questions.
func (s QuestionSet) Len() int { return len(s.Questions) }

// Validate checks that every question has a prompt and an answer.
func (s QuestionSet) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("question set has no name")
	}
	for i, q := range s.Questions {
		if strings.TrimSpace(q.Prompt) == "" || strings.TrimSpace(q.Answer) == "" {
			return fmt.Errorf("question set %q: question %d needs a prompt and an answer", s.Name, i+1)
		}
	}
	return nil
}

// Numbers is the built-in set: digits 1 through 5.
func Numbers() QuestionSet {
	return QuestionSet{
		Name:  "numbers",
		Title: "Numbers 1-5",
		Questions: []Question{
			{Prompt: "1", Answer: "one"},
			{Prompt: "2", Answer: "two"},
			{Prompt: "3", Answer: "three"},
			{Prompt: "4", Answer: "four"},
			{Prompt: "5", Answer: "five"},
		},
	}
}

// Catalog holds the question sets available to learners.
type Catalog struct {
	sets map[string]QuestionSet
}

// NewCatalog returns a catalog with the built-in sets plus extra.
// Extra sets replace built-in sets with the same name.
func NewCatalog(extra ...QuestionSet) (*Catalog, error) {
	c := &Catalog{sets: map[string]QuestionSet{}}
	builtin := Numbers()
	c.sets[builtin.Name] = builtin

	for _, s := range extra {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if s.Title == "" {
			s.Title = s.Name
		}
		c.sets[s.Name] = s
	}
	return c, nil
}

// Get looks up a set by name.
func (c *Catalog) Get(name string) (QuestionSet, bool) {
	s, ok := c.sets[name]
	return s, ok
}

// Sets returns all sets sorted by name.
func (c *Catalog) Sets() []QuestionSet {
	out := make([]QuestionSet, 0, len(c.sets))
	for _, s := range c.sets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Labels returns every distinct answer across the catalog, sorted.
func (c *Catalog) Labels() []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range c.sets {
		for _, q := range s.Questions {
			key := strings.ToLower(q.Answer)
			if !seen[key] {
				seen[key] = true
				out = append(out, q.Answer)
			}
		}
	}
	sort.Strings(out)
	return out
}
