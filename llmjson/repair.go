// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llmjson

import "strings"

const jsonSpace = " \n\r\t"

var literalWords = []string{"true", "false", "null"}

type token int

const (
	tokNone token = iota
	tokOpen
	tokComma
	tokColon
	tokKey
	tokValue
)

type repairer struct {
	src   string
	out   []byte
	stack []byte
	last  token
	done  bool
}

// Repair rewrites s into syntactically valid JSON where it can. It is a single
// string-aware pass over s; input that is already valid JSON is returned unchanged.
//
// Fixes applied:
//   - raw control characters inside strings are escaped
//   - a stray `": "` prefix before a string value is dropped
//   - missing commas between values and missing colons after keys are inserted
//   - unquoted object keys are quoted
//   - leading, duplicated and trailing commas are dropped
//   - a closer that does not match the innermost container closes the containers above its opener,
//     a closer without any opener is dropped
//   - at the end of input open strings and containers are closed in stack order
func Repair(s string) string {
	r := &repairer{src: s, out: make([]byte, 0, len(s)+16)}
	r.run()
	return string(r.out)
}

func (r *repairer) run() {
	s := r.src
	inString := false
	isKey := false
	escaped := false
	stringStart := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				r.out = append(r.out, c)
				escaped = false
			case c == '\\':
				r.out = append(r.out, c)
				escaped = true
			case c == '"':
				r.out = append(r.out, c)
				inString = false
				if isKey {
					r.last = tokKey
				} else {
					r.last = tokValue
					if len(r.stack) == 0 {
						r.done = true
					}
				}
			case c == '\n':
				r.out = append(r.out, '\\', 'n')
			case c == '\r':
				r.out = append(r.out, '\\', 'r')
			case c == '\t':
				r.out = append(r.out, '\\', 't')
			case c < 0x20:
			default:
				r.out = append(r.out, c)
			}
			continue
		}
		if r.done {
			// trailing whitespace of a complete value is kept, anything else after it is dropped
			if strings.TrimLeft(s[i:], jsonSpace) == "" {
				r.out = append(r.out, s[i:]...)
			}
			break
		}

		switch c {
		case ' ', '\n', '\r', '\t':
			r.out = append(r.out, c)
		case '{', '[':
			r.beforeValue()
			r.out = append(r.out, c)
			r.stack = append(r.stack, c)
			r.last = tokOpen
		case '}', ']':
			r.close(c)
		case ',':
			r.comma()
		case ':':
			if r.last == tokKey {
				r.out = append(r.out, c)
				r.last = tokColon
			}
		case '"':
			isKey = r.beforeString()
			if !isKey && r.last == tokColon {
				if j, ok := r.strayColonPrefix(i); ok {
					i = j
				}
			}
			stringStart = len(r.out)
			r.out = append(r.out, '"')
			inString = true
		default:
			if !isLiteralByte(c) {
				continue
			}
			j := i
			for j < len(s) && isLiteralByte(s[j]) {
				j++
			}
			r.literal(s[i:j], j == len(s))
			i = j - 1
		}
	}

	if inString {
		if escaped {
			r.out = r.out[:len(r.out)-1]
		}
		if len(r.out) == stringStart+1 && isKey {
			r.out = r.out[:stringStart]
		} else {
			r.out = append(r.out, '"')
			if isKey {
				r.last = tokKey
			} else {
				r.last = tokValue
			}
		}
	}
	for len(r.stack) > 0 {
		r.closeTop()
	}
}

func (r *repairer) top() byte {
	if len(r.stack) == 0 {
		return 0
	}
	return r.stack[len(r.stack)-1]
}

func (r *repairer) beforeValue() {
	switch r.last {
	case tokValue:
		if len(r.stack) > 0 {
			r.out = append(r.out, ',')
			r.last = tokComma
		}
	case tokKey:
		r.out = append(r.out, ':')
		r.last = tokColon
	}
}

// beforeString reports whether the string that starts now is an object key.
func (r *repairer) beforeString() bool {
	if r.top() == '{' {
		switch r.last {
		case tokValue:
			r.out = append(r.out, ',')
			r.last = tokComma
			return true
		case tokKey:
			r.out = append(r.out, ':')
			r.last = tokColon
			return false
		case tokColon:
			return false
		default:
			return true
		}
	}
	if r.last == tokValue && len(r.stack) > 0 {
		r.out = append(r.out, ',')
		r.last = tokComma
	}
	return false
}

// strayColonPrefix detects `": "text"` where a value should start and returns
// the index of the quote that really opens the value.
func (r *repairer) strayColonPrefix(i int) (int, bool) {
	s := r.src
	k := i + 1
	if k >= len(s) || s[k] != ':' {
		return 0, false
	}
	k++
	for k < len(s) && (s[k] == ' ' || s[k] == '\t') {
		k++
	}
	if k >= len(s) || s[k] != '"' {
		return 0, false
	}
	// `": "` followed by a delimiter is a legit value
	n := k + 1
	for n < len(s) && (s[n] == ' ' || s[n] == '\t' || s[n] == '\n' || s[n] == '\r') {
		n++
	}
	if n >= len(s) || s[n] == ',' || s[n] == '}' || s[n] == ']' || s[n] == ':' {
		return 0, false
	}
	return k, true
}

func (r *repairer) literal(lit string, atEnd bool) {
	if r.top() == '{' && r.last != tokColon && r.last != tokKey {
		if r.last == tokValue {
			r.out = append(r.out, ',')
		}
		r.out = append(r.out, '"')
		r.out = append(r.out, lit...)
		r.out = append(r.out, '"')
		r.last = tokKey
		return
	}
	r.beforeValue()
	if atEnd {
		lit = completeLiteral(lit)
	}
	r.out = append(r.out, lit...)
	r.last = tokValue
	if len(r.stack) == 0 {
		r.done = true
	}
}

func (r *repairer) comma() {
	switch r.last {
	case tokNone, tokOpen, tokComma:
		return
	case tokColon:
		r.out = append(r.out, "null"...)
	case tokKey:
		r.out = append(r.out, ":null"...)
	}
	if len(r.stack) == 0 {
		return
	}
	r.out = append(r.out, ',')
	r.last = tokComma
}

func (r *repairer) close(c byte) {
	want := byte('{')
	if c == ']' {
		want = '['
	}
	idx := -1
	for k := len(r.stack) - 1; k >= 0; k-- {
		if r.stack[k] == want {
			idx = k
			break
		}
	}
	if idx < 0 {
		return
	}
	for len(r.stack) > idx {
		r.closeTop()
	}
	if len(r.stack) == 0 {
		r.done = true
	}
}

func (r *repairer) closeTop() {
	top := r.top()
	switch r.last {
	case tokComma:
		r.trimTrailingComma()
	case tokColon:
		r.out = append(r.out, "null"...)
	case tokKey:
		r.out = append(r.out, ":null"...)
	}
	if top == '{' {
		r.out = append(r.out, '}')
	} else {
		r.out = append(r.out, ']')
	}
	r.stack = r.stack[:len(r.stack)-1]
	r.last = tokValue
}

func (r *repairer) trimTrailingComma() {
	for k := len(r.out) - 1; k >= 0; k-- {
		switch r.out[k] {
		case ' ', '\n', '\r', '\t':
			continue
		case ',':
			r.out = append(r.out[:k], r.out[k+1:]...)
		}
		return
	}
}

// completeLiteral finishes a true/false/null cut off by the end of input.
func completeLiteral(lit string) string {
	for _, w := range literalWords {
		if len(lit) < len(w) && strings.HasPrefix(w, lit) {
			return w
		}
	}
	return lit
}

func isLiteralByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '.' || c == '-' || c == '+' || c == '_'
}
