// internal/status/classifier.go
package status

import "strings"

// Classifier maps raw FileOperationStatus strings to a Class.
// Success values are firmware-specific, so both sets come from configuration.
// Immutable after construction.
type Classifier struct {
	success map[string]struct{}
	pending map[string]struct{}
}

// NewClassifier builds a classifier. Nil sets fall back to the defaults.
// Matching is case-insensitive and ignores surrounding whitespace.
func NewClassifier(success, pending []string) *Classifier {
	if success == nil {
		success = DefaultSuccess
	}
	if pending == nil {
		pending = DefaultPending
	}

	c := &Classifier{
		success: make(map[string]struct{}, len(success)),
		pending: make(map[string]struct{}, len(pending)),
	}
	for _, s := range success {
		c.success[normalize(s)] = struct{}{}
	}
	for _, s := range pending {
		c.pending[normalize(s)] = struct{}{}
	}
	return c
}

// Default returns a classifier over DefaultSuccess and DefaultPending.
func Default() *Classifier {
	return NewClassifier(nil, nil)
}

// Classify interprets one raw status value.
// Success wins if a value is listed in both sets.
func (c *Classifier) Classify(raw string) Class {
	k := normalize(raw)
	if _, ok := c.success[k]; ok {
		return Success
	}
	if _, ok := c.pending[k]; ok {
		return Pending
	}
	return Failed
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
