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

package service

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/db"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	LISTEN_ADDRESS          = "LISTEN_ADDRESS"
	ORIGIN_ALLOWED          = "ORIGIN_ALLOWED"
	LOG_LEVEL               = "LOG_LEVEL"
	PRODUCTION_MODE         = "PRODUCTION_MODE"
	DB_HOST                 = "DB_HOST"
	DB_PORT                 = "DB_PORT"
	DB_USERNAME             = "DB_USERNAME"
	DB_PASSWORD             = "DB_PASSWORD"
	DB_NAME                 = "DB_NAME"
	DB_SSL_MODE             = "DB_SSL_MODE"
	JWT_SECRET              = "JWT_SECRET"
	JWT_EXPIRE_DAYS         = "JWT_EXPIRE_DAYS"
	LLM_BASE_URL            = "LLM_BASE_URL"
	LLM_MODEL               = "LLM_MODEL"
	LLM_API_KEYS            = "LLM_API_KEYS"
	LLM_MAX_RETRIES         = "LLM_MAX_RETRIES"
	LLM_RATE_LIMIT_DELAY_MS = "LLM_RATE_LIMIT_DELAY_MS"
	ROADMAP_MAX_ATTEMPTS    = "ROADMAP_MAX_ATTEMPTS"
	ROADMAP_RETRY_DELAY_MS  = "ROADMAP_RETRY_DELAY_MS"
	RESOURCE_FINDER_URL     = "RESOURCE_FINDER_URL"
	RESOURCE_FINDER_RPM     = "RESOURCE_FINDER_RPM"
	TECH_MATCHER_URL        = "TECH_MATCHER_URL"
	SENDGRID_API_KEY        = "SENDGRID_API_KEY"
	SENDGRID_FROM_EMAIL     = "SENDGRID_FROM_EMAIL"
	SENDGRID_FROM_NAME      = "SENDGRID_FROM_NAME"
	OLRIC_DISCOVERY_MODE    = "OLRIC_DISCOVERY_MODE"
	OLRIC_REPLICA_COUNT     = "OLRIC_REPLICA_COUNT"
	OLRIC_PEERS             = "OLRIC_PEERS"
	NAMESPACE               = "NAMESPACE"
	EXECUTOR_ID             = "EXECUTOR_ID"
)

type SystemInfoService interface {
	Init() error
	GetListenAddress() string
	GetOriginAllowed() string
	GetLogLevel() string
	IsProductionMode() bool
	GetCredsFromEnv() db.Credentials
	GetJwtSecret() string
	GetJwtExpiration() time.Duration
	GetLLMBaseUrl() string
	GetLLMModel() string
	GetLLMApiKeys() []string
	GetLLMMaxRetries() int
	GetLLMRateLimitDelay() time.Duration
	GetRoadmapMaxAttempts() int
	GetRoadmapRetryDelay() time.Duration
	GetResourceFinderUrl() string
	GetResourceFinderRpm() int
	GetTechMatcherUrl() string
	GetSendgridApiKey() string
	GetSendgridFromEmail() string
	GetSendgridFromName() string
	GetOlricDiscoveryMode() string
	GetOlricReplicaCount() int
	GetOlricPeers() string
	GetNamespace() string
	GetExecutorId() string
}

func NewSystemInfoService() (SystemInfoService, error) {
	s := &systemInfoServiceImpl{
		systemInfoMap: make(map[string]interface{})}
	if err := s.Init(); err != nil {
		log.Error("Failed to read system info: " + err.Error())
		return nil, err
	}
	return s, nil
}

type systemInfoServiceImpl struct {
	systemInfoMap map[string]interface{}
}

func (g systemInfoServiceImpl) Init() error {
	g.setString(LISTEN_ADDRESS, ":8080")
	g.setString(ORIGIN_ALLOWED, "")
	g.setString(LOG_LEVEL, "info")
	g.setBool(PRODUCTION_MODE, false)

	g.setString(DB_HOST, "localhost")
	g.setString(DB_USERNAME, "roadmap")
	g.setString(DB_PASSWORD, "")
	g.setString(DB_NAME, "roadmap")
	g.setString(DB_SSL_MODE, "disable")

	g.setString(LLM_BASE_URL, "https://api.groq.com/openai/v1/")
	g.setString(LLM_MODEL, "llama-3.3-70b-versatile")
	g.setString(RESOURCE_FINDER_URL, "http://localhost:8000")
	g.setString(TECH_MATCHER_URL, "http://localhost:8001")
	g.setString(SENDGRID_API_KEY, "")
	g.setString(SENDGRID_FROM_EMAIL, "noreply@roadmap.local")
	g.setString(SENDGRID_FROM_NAME, "Roadmap")
	g.setString(OLRIC_DISCOVERY_MODE, "local")
	g.setString(OLRIC_PEERS, "")
	g.setString(NAMESPACE, "")
	g.setExecutorId()

	ints := []struct {
		name string
		def  int
	}{
		{DB_PORT, 5432},
		{JWT_EXPIRE_DAYS, 30},
		{LLM_MAX_RETRIES, 3},
		{LLM_RATE_LIMIT_DELAY_MS, 5000},
		{ROADMAP_MAX_ATTEMPTS, 5},
		{ROADMAP_RETRY_DELAY_MS, 2000},
		{RESOURCE_FINDER_RPM, 10},
		{OLRIC_REPLICA_COUNT, 1},
	}
	for _, i := range ints {
		if err := g.setInt(i.name, i.def); err != nil {
			return err
		}
	}

	if err := g.setJwtSecret(); err != nil {
		return err
	}
	return g.setLLMApiKeys()
}

func (g systemInfoServiceImpl) setString(name string, def string) {
	value := os.Getenv(name)
	if value == "" {
		value = def
	}
	g.systemInfoMap[name] = value
}

func (g systemInfoServiceImpl) setBool(name string, def bool) {
	value := def
	if env := os.Getenv(name); env != "" {
		parsed, err := strconv.ParseBool(env)
		if err != nil {
			log.Warnf("Invalid value '%s' for %s, using %v", env, name, def)
		} else {
			value = parsed
		}
	}
	g.systemInfoMap[name] = value
}

func (g systemInfoServiceImpl) setInt(name string, def int) error {
	value := def
	if env := os.Getenv(name); env != "" {
		parsed, err := strconv.Atoi(env)
		if err != nil || parsed < 0 {
			return fmt.Errorf("env %s must be a non-negative integer, got '%s'", name, env)
		}
		value = parsed
	}
	g.systemInfoMap[name] = value
	return nil
}

func (g systemInfoServiceImpl) setJwtSecret() error {
	secret := os.Getenv(JWT_SECRET)
	if secret == "" {
		return fmt.Errorf("env %s is not set", JWT_SECRET)
	}
	g.systemInfoMap[JWT_SECRET] = secret
	return nil
}

func (g systemInfoServiceImpl) setLLMApiKeys() error {
	var keys []string
	for _, k := range strings.Split(os.Getenv(LLM_API_KEYS), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return fmt.Errorf("env %s is not set", LLM_API_KEYS)
	}
	log.Infof("LLM key pool size is %d", len(keys))
	g.systemInfoMap[LLM_API_KEYS] = keys
	return nil
}

func (g systemInfoServiceImpl) setExecutorId() {
	executorId := os.Getenv(EXECUTOR_ID)
	if executorId == "" {
		executorId = uuid.New().String()
	}
	g.systemInfoMap[EXECUTOR_ID] = executorId
}

func (g systemInfoServiceImpl) getString(name string) string {
	return g.systemInfoMap[name].(string)
}

func (g systemInfoServiceImpl) getInt(name string) int {
	return g.systemInfoMap[name].(int)
}

func (g systemInfoServiceImpl) GetListenAddress() string {
	return g.getString(LISTEN_ADDRESS)
}

func (g systemInfoServiceImpl) GetOriginAllowed() string {
	return g.getString(ORIGIN_ALLOWED)
}

func (g systemInfoServiceImpl) GetLogLevel() string {
	return g.getString(LOG_LEVEL)
}

func (g systemInfoServiceImpl) IsProductionMode() bool {
	return g.systemInfoMap[PRODUCTION_MODE].(bool)
}

func (g systemInfoServiceImpl) GetCredsFromEnv() db.Credentials {
	return db.Credentials{
		Host:     g.getString(DB_HOST),
		Port:     g.getInt(DB_PORT),
		Database: g.getString(DB_NAME),
		Username: g.getString(DB_USERNAME),
		Password: g.getString(DB_PASSWORD),
		SSLMode:  g.getString(DB_SSL_MODE),
	}
}

func (g systemInfoServiceImpl) GetJwtSecret() string {
	return g.getString(JWT_SECRET)
}

func (g systemInfoServiceImpl) GetJwtExpiration() time.Duration {
	return time.Duration(g.getInt(JWT_EXPIRE_DAYS)) * 24 * time.Hour
}

func (g systemInfoServiceImpl) GetLLMBaseUrl() string {
	return g.getString(LLM_BASE_URL)
}

func (g systemInfoServiceImpl) GetLLMModel() string {
	return g.getString(LLM_MODEL)
}

func (g systemInfoServiceImpl) GetLLMApiKeys() []string {
	return g.systemInfoMap[LLM_API_KEYS].([]string)
}

func (g systemInfoServiceImpl) GetLLMMaxRetries() int {
	return g.getInt(LLM_MAX_RETRIES)
}

func (g systemInfoServiceImpl) GetLLMRateLimitDelay() time.Duration {
	return time.Duration(g.getInt(LLM_RATE_LIMIT_DELAY_MS)) * time.Millisecond
}

func (g systemInfoServiceImpl) GetRoadmapMaxAttempts() int {
	if n := g.getInt(ROADMAP_MAX_ATTEMPTS); n > 0 {
		return n
	}
	return 1
}

func (g systemInfoServiceImpl) GetRoadmapRetryDelay() time.Duration {
	return time.Duration(g.getInt(ROADMAP_RETRY_DELAY_MS)) * time.Millisecond
}

func (g systemInfoServiceImpl) GetResourceFinderUrl() string {
	return g.getString(RESOURCE_FINDER_URL)
}

func (g systemInfoServiceImpl) GetResourceFinderRpm() int {
	return g.getInt(RESOURCE_FINDER_RPM)
}

func (g systemInfoServiceImpl) GetTechMatcherUrl() string {
	return g.getString(TECH_MATCHER_URL)
}

func (g systemInfoServiceImpl) GetSendgridApiKey() string {
	return g.getString(SENDGRID_API_KEY)
}

func (g systemInfoServiceImpl) GetSendgridFromEmail() string {
	return g.getString(SENDGRID_FROM_EMAIL)
}

func (g systemInfoServiceImpl) GetSendgridFromName() string {
	return g.getString(SENDGRID_FROM_NAME)
}

func (g systemInfoServiceImpl) GetOlricDiscoveryMode() string {
	return g.getString(OLRIC_DISCOVERY_MODE)
}

func (g systemInfoServiceImpl) GetOlricReplicaCount() int {
	return g.getInt(OLRIC_REPLICA_COUNT)
}

func (g systemInfoServiceImpl) GetOlricPeers() string {
	return g.getString(OLRIC_PEERS)
}

func (g systemInfoServiceImpl) GetNamespace() string {
	return g.getString(NAMESPACE)
}

func (g systemInfoServiceImpl) GetExecutorId() string {
	return g.getString(EXECUTOR_ID)
}
