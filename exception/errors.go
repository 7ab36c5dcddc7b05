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

package exception

import (
	"fmt"
	"sort"
	"strings"
)

type CustomError struct {
	Status  int                    `json:"status"`
	Code    string                 `json:"code,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Debug   string                 `json:"debug,omitempty"`
}

func (c CustomError) Error() string {
	msg := c.Message
	// longest names first, so $roadmapId is not broken by $roadmap
	keys := make([]string, 0, len(c.Params))
	for k := range c.Params {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	for _, k := range keys {
		msg = strings.ReplaceAll(msg, "$"+k, fmt.Sprintf("%v", c.Params[k]))
	}
	return msg
}

const InvalidURLEscape = "6"
const InvalidURLEscapeMsg = "Failed to unescape parameter $param"

const InvalidParameterValue = "9"
const InvalidParameterValueMsg = "Value '$value' is not allowed for parameter $param"

const BadRequestBody = "10"
const BadRequestBodyMsg = "Failed to decode body"

const RequiredParamsMissing = "15"
const RequiredParamsMissingMsg = "Required parameters are missing: $params"

const InvalidParameter = "16"
const InvalidParameterMsg = "$param is invalid: $reason"

const EntityNotFound = "100"
const EntityNotFoundMsg = "$entity with id $id is not found"

const InvalidRoadmapId = "101"
const InvalidRoadmapIdMsg = "Invalid roadmap ID format"

const NoteNotFound = "102"
const NoteNotFoundMsg = "Note not found"

const TopicNotFound = "103"
const TopicNotFoundMsg = "Topic with id $id is not found in roadmap $roadmapId"

const UserNotFound = "200"
const UserNotFoundMsg = "User not found"

const UserAlreadyExists = "201"
const UserAlreadyExistsMsg = "User already exists with this email"

const InvalidCredentials = "202"
const InvalidCredentialsMsg = "Invalid credentials"

const InvalidOtp = "203"
const InvalidOtpMsg = "Invalid or expired OTP"

const EmailAlreadyVerified = "204"
const EmailAlreadyVerifiedMsg = "Email is already verified"

const WeakPassword = "205"
const WeakPasswordMsg = "Password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number and one special character"

const InsufficientPrivileges = "1900"
const InsufficientPrivilegesMsg = "You don't have enough privileges to perform this operation"

const NotRoadmapOwner = "1901"
const NotRoadmapOwnerMsg = "Not authorized to $action this roadmap"

const ResourcesAlreadyGenerated = "2100"
const ResourcesAlreadyGeneratedMsg = "Resources have already been generated for this topic"

const LLMRateLimited = "3000"
const LLMRateLimitedMsg = "Rate limit reached. Please try again in a few moments."

const LLMRequestFailed = "3001"
const LLMRequestFailedMsg = "Failed to get a response from the language model"

const LLMResponseUnparseable = "3002"
const LLMResponseUnparseableMsg = "Failed to generate $what. Please try again."

const LLMKeysExhausted = "3003"
const LLMKeysExhaustedMsg = "All API keys exhausted"

const ResourceFinderUnavailable = "3100"
const ResourceFinderUnavailableMsg = "Resource finder is not available: $reason"
