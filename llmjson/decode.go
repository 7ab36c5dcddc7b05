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

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Stage string

const (
	StageExtract Stage = "extract"
	StageRepair  Stage = "repair"
)

// ParseError is returned when no stage produced a document that decodes into the target.
type ParseError struct {
	Stage Stage
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to decode model output at %s stage: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decode unmarshals raw model output into v, first as extracted and then after Repair.
func Decode(raw string, v interface{}) error {
	candidate := Extract(raw)
	if candidate == "" {
		return &ParseError{Stage: StageExtract, Err: fmt.Errorf("no JSON found in model output")}
	}
	err := json.Unmarshal([]byte(candidate), v)
	if err == nil {
		return nil
	}
	log.Debugf("Model output is not valid JSON (%v), trying to repair", err)

	repaired := Repair(candidate)
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		log.Tracef("Repaired model output: %s", repaired)
		return &ParseError{Stage: StageRepair, Err: err}
	}
	log.Debugf("Model output repaired successfully")
	return nil
}
