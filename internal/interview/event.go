package interview

// EventKind enumerates the inputs accepted from the UI.
type EventKind int

const (
	EventStart EventKind = iota
	EventUploadText
	EventContinueManually
	EventAnswer
	EventToggleTechnology
	EventContinueWithTechStack
)

var eventNames = map[EventKind]string{
	EventStart:                 "start",
	EventUploadText:            "upload_text",
	EventContinueManually:      "continue_manually",
	EventAnswer:                "answer",
	EventToggleTechnology:      "toggle_technology",
	EventContinueWithTechStack: "continue_with_tech_stack",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is a single UI input. Text carries the answer, the resume text or the
// technology name depending on Kind.
type Event struct {
	Kind EventKind
	Text string
}

func Start() Event { return Event{Kind: EventStart} }

func UploadText(text string) Event { return Event{Kind: EventUploadText, Text: text} }

func ContinueManually() Event { return Event{Kind: EventContinueManually} }

func Answer(text string) Event { return Event{Kind: EventAnswer, Text: text} }

func ToggleTechnology(tech string) Event { return Event{Kind: EventToggleTechnology, Text: tech} }

func ContinueWithTechStack() Event { return Event{Kind: EventContinueWithTechStack} }
