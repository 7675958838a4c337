package candidate

// TechStack is an ordered set of technology names.
// Insertion order is preserved and every name appears at most once.
// Methods never modify the receiver; they return a new stack.
type TechStack []string

// Contains reports whether tech is part of the stack.
func (s TechStack) Contains(tech string) bool {
	return s.Index(tech) >= 0
}

// Index returns the position of tech or -1.
func (s TechStack) Index(tech string) int {
	for i, t := range s {
		if t == tech {
			return i
		}
	}
	return -1
}

// Add appends tech to the end unless it is already present.
func (s TechStack) Add(tech string) TechStack {
	if tech == "" || s.Contains(tech) {
		return s.Clone()
	}
	out := make(TechStack, 0, len(s)+1)
	out = append(out, s...)
	return append(out, tech)
}

// Remove drops tech keeping the order of the remaining entries.
func (s TechStack) Remove(tech string) TechStack {
	out := make(TechStack, 0, len(s))
	for _, t := range s {
		if t != tech {
			out = append(out, t)
		}
	}
	return out
}

// Toggle removes tech when present and appends it otherwise.
func (s TechStack) Toggle(tech string) TechStack {
	if s.Contains(tech) {
		return s.Remove(tech)
	}
	return s.Add(tech)
}

// Clone returns an independent copy.
func (s TechStack) Clone() TechStack {
	if s == nil {
		return nil
	}
	out := make(TechStack, len(s))
	copy(out, s)
	return out
}

// Len returns the number of technologies.
func (s TechStack) Len() int {
	return len(s)
}
