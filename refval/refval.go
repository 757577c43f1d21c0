// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package refval parses "key=value key=value ..." open-strings into a
// linked list of reference/value pairs, the configuration grammar shared
// by IOChannel's open-string scheme and SerializeUtility's CLI options.
package refval

import (
	"fmt"
	"strings"
)

// Node is one reference=value pair. Insertion is always at the head of
// the list, so later Push calls shadow earlier ones on lookup.
type Node struct {
	Reference string
	Value     string
	next      *Node
}

// List is a singly linked list of Nodes, head-insertion, linear lookup.
type List struct {
	head *Node
}

// Push inserts a new reference=value pair at the head of the list.
func (l *List) Push(reference, value string) {
	l.head = &Node{Reference: reference, Value: value, next: l.head}
}

// Find returns the value of the first node matching ref, scanning from
// the head (i.e. the most recently pushed value wins).
func (l *List) Find(ref string) (string, bool) {
	for n := l.head; n != nil; n = n.next {
		if n.Reference == ref {
			return n.Value, true
		}
	}
	return "", false
}

// Len reports the number of nodes currently in the list.
func (l *List) Len() int {
	n := 0
	for c := l.head; c != nil; c = c.next {
		n++
	}
	return n
}

// Clear empties the list. The garbage collector reclaims the nodes; there
// is no explicit destroy step as in the C original.
func (l *List) Clear() {
	l.head = nil
}

// Each calls fn for every node, head to tail.
func (l *List) Each(fn func(reference, value string)) {
	for n := l.head; n != nil; n = n.next {
		fn(n.Reference, n.Value)
	}
}

// Parse parses an open-string of space-separated key=value tokens into a
// List. Values may be single- or double-quoted to preserve embedded
// spaces; '\\' escapes the following character inside a quoted value.
// Unquoted values end at the next whitespace. Keys are matched
// case-insensitively by callers (Find does not itself lower-case; use
// strings.EqualFold at the call site, or pre-lower-case both sides).
//
// The first token may be a bare "Scheme://path" with no '=' — it is
// stored under the synthetic reference "stream" so callers can still
// retrieve it via Find("stream").
func Parse(s string) (*List, error) {
	l := &List{}
	toks, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	// Insert in order, but Push prepends; reverse so Find still returns
	// the left-most (first) definition of a duplicate key if no later
	// Push call happened to override it — match C semantics: first match
	// wins walking from the head, and the head ends up being the last
	// parsed token here because we Push in order. To make first token
	// win (stream=... convention typically appears first and should not
	// be shadowed) we push in reverse order.
	for i := len(toks) - 1; i >= 0; i-- {
		l.Push(toks[i].ref, toks[i].value)
	}
	return l, nil
}

type token struct {
	ref   string
	value string
}

func tokenize(s string) ([]token, error) {
	var toks []token
	i, n := 0, len(s)
	first := true
	for i < n {
		for i < n && isSpace(s[i]) {
			i++
		}
		if i >= n {
			break
		}
		start := i
		for i < n && !isSpace(s[i]) && s[i] != '=' {
			i++
		}
		key := s[start:i]
		if i < n && s[i] == '=' {
			i++
			value, consumed, err := parseValue(s[i:])
			if err != nil {
				return nil, err
			}
			i += consumed
			toks = append(toks, token{ref: key, value: value})
		} else {
			// No '=' found: bare scheme token, e.g. "File://foo" as the
			// first token.
			if !first {
				return nil, fmt.Errorf("refval: bad open-string token %q: missing '='", key)
			}
			toks = append(toks, token{ref: "stream", value: key})
		}
		first = false
	}
	return toks, nil
}

func parseValue(s string) (value string, consumed int, err error) {
	if len(s) == 0 {
		return "", 0, nil
	}
	if s[0] == '"' || s[0] == '\'' {
		quote := s[0]
		var b strings.Builder
		i := 1
		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				b.WriteByte(s[i+1])
				i += 2
				continue
			}
			if c == quote {
				i++
				return b.String(), i, nil
			}
			b.WriteByte(c)
			i++
		}
		return "", 0, fmt.Errorf("refval: unterminated quoted value starting at %q", s)
	}
	i := 0
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return s[:i], i, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
