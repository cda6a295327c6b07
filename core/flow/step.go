package flow

import "strings"

// Separator splits the form name from the field name in a StepID.
const Separator = ":"

// StepID identifies a step, conventionally "Form:field". Steps outside
// any form (such as the home step) use a bare name.
type StepID string

// Name returns the terminal segment of the step id. Input triggers are
// resolved by this name, so steps of different forms that share a field
// name also share trigger handling.
func (s StepID) Name() string {
	id := string(s)
	if i := strings.LastIndex(id, Separator); i >= 0 {
		return id[i+len(Separator):]
	}
	return id
}

// Form returns the form segment of the step id, or "" for bare steps.
func (s StepID) Form() string {
	id := string(s)
	if i := strings.Index(id, Separator); i >= 0 {
		return id[:i]
	}
	return ""
}
