package questionbank

var defaultEntries = []Entry{
	{
		Technology: "JavaScript",
		Questions: []string{
			"Explain the difference between let, const, and var in JavaScript.",
			"What is event delegation and why is it useful?",
			"How do closures work in JavaScript? Provide an example.",
		},
	},
	{
		Technology: "TypeScript",
		Questions: []string{
			"What are the benefits of using TypeScript over JavaScript?",
			"Explain the difference between interface and type in TypeScript.",
			"How do you handle generic types in TypeScript?",
		},
	},
	{
		Technology: "Python",
		Questions: []string{
			"What is the difference between a list and a tuple in Python?",
			"Explain how Python's GIL (Global Interpreter Lock) works.",
			"What are decorators in Python and how do you use them?",
		},
	},
	{
		Technology: "React",
		Questions: []string{
			"Explain the difference between functional and class components.",
			"What are React hooks and why were they introduced?",
			"How do you optimize React component performance?",
		},
	},
	{
		Technology: "Node.js",
		Questions: []string{
			"Explain the event loop in Node.js.",
			"What is the difference between require() and import in Node.js?",
			"How do you handle asynchronous operations in Node.js?",
		},
	},
}

// Default returns the reference question bank.
func Default() *Bank {
	return MustNew(defaultEntries)
}
