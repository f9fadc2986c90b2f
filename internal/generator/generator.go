// Package generator defines the content generation capability behind the AI
// assistant endpoints.
//
// The handlers depend only on the Generator interface, so the canned
// implementation can later be swapped for a real model integration without
// touching the rest of the service.
package generator

import "context"

// Generator produces assistant text for a biography project. Params carries
// the free-form request payload; implementations may ignore it.
type Generator interface {
	Outline(ctx context.Context, params map[string]string) (string, error)

	Content(ctx context.Context, params map[string]string) (string, error)

	InterviewQuestions(ctx context.Context, params map[string]string) (string, error)
}

const cannedOutline = `{
	"title": "Biography Outline",
	"chapters": [
		{"chapter_number": 1, "title": "Early Years", "summary": "Family background, birthplace, and childhood memories"},
		{"chapter_number": 2, "title": "Education", "summary": "School years, formative teachers, and growing up"},
		{"chapter_number": 3, "title": "Career", "summary": "Working life and professional development"},
		{"chapter_number": 4, "title": "Turning Points", "summary": "The major crossroads and decisions of a lifetime"},
		{"chapter_number": 5, "title": "Achievements", "summary": "Accomplishments and their impact on others"},
		{"chapter_number": 6, "title": "Later Life", "summary": "Retirement years and reflections on a life lived"}
	]
}`

const cannedContent = "This is sample biography content produced by the assistant. " +
	"A full implementation will call the language model API here to draft " +
	"polished narrative text from the subject's notes and interview answers."

const cannedInterviewQuestions = `[
	"Can you tell me about your childhood and family background?",
	"Who influenced you most while you were growing up?",
	"What was the most important turning point in your life?",
	"How did you keep going through difficult times?",
	"What do you consider your greatest achievement?",
	"What advice would you like to pass on to the next generation?"
]`

// Canned is a Generator returning fixed sample text regardless of input.
// It stands in until a real model client is wired up.
type Canned struct{}

// NewCanned creates the stub generator.
func NewCanned() *Canned {
	return &Canned{}
}

// Outline returns a fixed six-chapter outline as a JSON document.
func (g *Canned) Outline(ctx context.Context, params map[string]string) (string, error) {
	return cannedOutline, nil
}

// Content returns a fixed sample paragraph.
func (g *Canned) Content(ctx context.Context, params map[string]string) (string, error) {
	return cannedContent, nil
}

// InterviewQuestions returns a fixed JSON array of six questions.
func (g *Canned) InterviewQuestions(ctx context.Context, params map[string]string) (string, error) {
	return cannedInterviewQuestions, nil
}
