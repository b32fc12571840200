/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ledger

// DefaultHistoryDepth is how many prior ledgers undo can restore.
const DefaultHistoryDepth = 10

// Change is one undoable step: the ledger as it was before the step and a
// short description of what the step did.
type Change struct {
	Label  string
	Before Ledger
}

// History is a bounded stack of changes. Like Ledger it is a value: Push and
// Pop return a new History.
type History struct {
	changes []Change
	depth   int
}

// NewHistory returns an empty history keeping at most depth changes.
func NewHistory(depth int) History {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return History{depth: depth}
}

// Push records before as the most recent change, evicting the oldest when
// full.
func (h History) Push(label string, before Ledger) History {
	if h.depth <= 0 {
		h.depth = DefaultHistoryDepth
	}
	start := 0
	if len(h.changes) >= h.depth {
		start = len(h.changes) - h.depth + 1
	}
	next := make([]Change, 0, h.depth)
	next = append(next, h.changes[start:]...)
	next = append(next, Change{Label: label, Before: before})
	return History{changes: next, depth: h.depth}
}

// Pop returns the most recent change and the history without it.
func (h History) Pop() (Change, History, bool) {
	if len(h.changes) == 0 {
		return Change{}, h, false
	}
	last := len(h.changes) - 1
	rest := append([]Change(nil), h.changes[:last]...)
	return h.changes[last], History{changes: rest, depth: h.depth}, true
}

// Len returns the number of changes available to undo.
func (h History) Len() int {
	return len(h.changes)
}

// Snapshots returns the prior ledgers oldest first.
func (h History) Snapshots() []Ledger {
	out := make([]Ledger, 0, len(h.changes))
	for _, c := range h.changes {
		out = append(out, c.Before)
	}
	return out
}

// Labels returns the change descriptions, most recent first.
func (h History) Labels() []string {
	out := make([]string, 0, len(h.changes))
	for i := len(h.changes) - 1; i >= 0; i-- {
		out = append(out, h.changes[i].Label)
	}
	return out
}
