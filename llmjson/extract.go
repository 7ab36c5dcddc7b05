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

// Package llmjson turns free-form language model output into JSON documents.
package llmjson

import (
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")

// Extract returns the JSON candidate embedded in raw model output.
// The first fenced block wins, prose before the first container opener is
// dropped, and so is everything after the first balanced top-level value.
func Extract(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, "```") {
		if m := fencedBlock.FindStringSubmatch(s); m != nil && strings.TrimSpace(m[1]) != "" {
			s = strings.TrimSpace(m[1])
		} else {
			s = stripOpenFence(s)
		}
	}
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	s = s[start:]
	if end := valueEnd(s); end > 0 {
		s = s[:end]
	}
	return s
}

// stripOpenFence drops an opening fence that is never closed, together with its language tag.
func stripOpenFence(s string) string {
	idx := strings.Index(s, "```")
	rest := s[idx+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	} else {
		rest = strings.TrimLeft(rest, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	return strings.TrimSpace(strings.ReplaceAll(rest, "```", ""))
}

// valueEnd returns the length of the first balanced container at the start of s, or -1.
func valueEnd(s string) int {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1
			}
			if depth < 0 {
				return -1
			}
		}
	}
	return -1
}
