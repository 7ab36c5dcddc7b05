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

package main

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/client"
	"github.com/Netcracker/qubership-roadmap-service/controller"
	"github.com/Netcracker/qubership-roadmap-service/db"
	"github.com/Netcracker/qubership-roadmap-service/repository"
	"github.com/Netcracker/qubership-roadmap-service/resources"
	"github.com/Netcracker/qubership-roadmap-service/security"
	"github.com/Netcracker/qubership-roadmap-service/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

func main() {
	readyChan := make(chan bool)
	systemInfoService, err := service.NewSystemInfoService()
	if err != nil {
		panic(err)
	}
	level, err := log.ParseLevel(systemInfoService.GetLogLevel())
	if err != nil {
		log.Warnf("Unknown log level '%s', using info", systemInfoService.GetLogLevel())
		level = log.InfoLevel
	}
	log.SetLevel(level)

	healthController := controller.NewHealthController(readyChan, systemInfoService)

	cp := db.NewConnectionProvider(systemInfoService.GetCredsFromEnv())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := db.WaitForConnection(ctx, cp, 30); err != nil {
		log.Fatalf("%v", err)
	}
	if err := db.Migrate(ctx, cp, resources.Migrations()); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}
	cancel()

	op, err := client.NewOlricProvider(client.OlricConfig{
		DiscoveryMode: systemInfoService.GetOlricDiscoveryMode(),
		ReplicaCount:  systemInfoService.GetOlricReplicaCount(),
		Namespace:     systemInfoService.GetNamespace(),
		Peers:         systemInfoService.GetOlricPeers(),
	})
	if err != nil {
		log.Fatalf("Failed to create olric provider: %v", err)
	}

	llmClient, err := client.NewOpenaiClient(client.LLMConfig{
		BaseURL:        systemInfoService.GetLLMBaseUrl(),
		Model:          systemInfoService.GetLLMModel(),
		ApiKeys:        systemInfoService.GetLLMApiKeys(),
		MaxRetries:     systemInfoService.GetLLMMaxRetries(),
		RateLimitDelay: systemInfoService.GetLLMRateLimitDelay(),
		Timeout:        2 * time.Minute,
	})
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}
	finderClient := client.NewResourceFinderClient(systemInfoService.GetResourceFinderUrl(), systemInfoService.GetTechMatcherUrl())
	emailClient := client.NewEmailClient(systemInfoService.GetSendgridApiKey(), systemInfoService.GetSendgridFromEmail(),
		systemInfoService.GetSendgridFromName())

	userRepository := repository.NewUserRepository(cp)
	roadmapRepository := repository.NewRoadmapRepository(cp)
	customRoadmapRepository := repository.NewCustomRoadmapRepository(cp)
	noteRepository := repository.NewNoteRepository(cp)
	resourceRepository := repository.NewLearningResourceRepository(cp)
	taskRepository := repository.NewGenerationTaskRepository(cp)

	tokenIssuer, err := security.NewTokenIssuer(systemInfoService.GetJwtSecret(), systemInfoService.GetJwtExpiration())
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}
	if err := security.SetupGoGuardian(userRepository, tokenIssuer); err != nil {
		log.Fatalf("Failed to setup go-guardian: %v", err)
	}

	catalogService, err := service.NewCatalogService(resources.CatalogYaml)
	if err != nil {
		log.Fatalf("%v", err)
	}
	authorizationService := service.NewAuthorizationService()
	authService := service.NewAuthService(userRepository, tokenIssuer, emailClient)
	passwordService := service.NewPasswordService(userRepository, emailClient)
	sessionStore := service.NewSessionStore(op)
	resourceService := service.NewResourceService(resourceRepository, finderClient, systemInfoService.GetResourceFinderRpm())
	roadmapService := service.NewRoadmapService(roadmapRepository, noteRepository, resourceService, authorizationService)
	customRoadmapService := service.NewCustomRoadmapService(customRoadmapRepository)
	noteService := service.NewNoteService(noteRepository)
	statsService := service.NewStatsService(roadmapRepository, customRoadmapRepository, noteRepository)
	generationService := service.NewGenerationService(llmClient, catalogService, sessionStore,
		systemInfoService.GetRoadmapMaxAttempts(), systemInfoService.GetRoadmapRetryDelay())
	generationTaskService := service.NewGenerationTaskService(taskRepository)
	generationEventListener := service.NewGenerationEventListener(op, sessionStore)
	generationTaskProcessor := service.NewGenerationTaskProcessor(taskRepository, generationService, roadmapService,
		generationEventListener, systemInfoService.GetExecutorId())
	cleanupService := service.NewCleanupService(cp, taskRepository, resourceService)

	authController := controller.NewAuthController(authService, systemInfoService)
	passwordController := controller.NewPasswordController(passwordService)
	roadmapController := controller.NewRoadmapController(roadmapService)
	customRoadmapController := controller.NewCustomRoadmapController(customRoadmapService)
	noteController := controller.NewNoteController(noteService)
	resourceController := controller.NewResourceController(resourceService)
	catalogController := controller.NewCatalogController(catalogService)
	generationController := controller.NewGenerationController(generationService, generationTaskService, sessionStore)
	statsController := controller.NewStatsController(statsService)
	llmTuningController := controller.NewLLMTuningController(llmClient, authorizationService)
	cleanupController := controller.NewCleanupController(cleanupService, authorizationService, systemInfoService)

	r := mux.NewRouter().SkipClean(true).UseEncodedPath()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", security.NoSecure(authController.Register)).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", security.NoSecure(authController.Login)).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", security.Secure(authController.GetCurrentUser)).Methods(http.MethodGet)
	api.HandleFunc("/auth/check", security.Secure(authController.CheckAuth)).Methods(http.MethodGet)
	api.HandleFunc("/auth/logout", security.NoSecure(authController.Logout)).Methods(http.MethodGet)

	api.HandleFunc("/password/forgot", security.NoSecure(passwordController.ForgotPassword)).Methods(http.MethodPost)
	api.HandleFunc("/password/verify-otp", security.NoSecure(passwordController.VerifyOtp)).Methods(http.MethodPost)
	api.HandleFunc("/password/reset", security.NoSecure(passwordController.ResetPassword)).Methods(http.MethodPut)
	api.HandleFunc("/password/verify-email", security.Secure(passwordController.SendVerificationEmail)).Methods(http.MethodPost)
	api.HandleFunc("/password/verify-email-otp", security.Secure(passwordController.VerifyEmail)).Methods(http.MethodPost)

	api.HandleFunc("/roadmaps", security.Secure(roadmapController.ListRoadmaps)).Methods(http.MethodGet)
	api.HandleFunc("/roadmaps", security.Secure(roadmapController.CreateRoadmap)).Methods(http.MethodPost)
	api.HandleFunc("/roadmaps/{id}", security.Secure(roadmapController.GetRoadmap)).Methods(http.MethodGet)
	api.HandleFunc("/roadmaps/{id}", security.Secure(roadmapController.UpdateRoadmap)).Methods(http.MethodPut)
	api.HandleFunc("/roadmaps/{id}", security.Secure(roadmapController.DeleteRoadmap)).Methods(http.MethodDelete)
	api.HandleFunc("/roadmaps/{id}/topics", security.Secure(roadmapController.AddTopic)).Methods(http.MethodPost)
	api.HandleFunc("/roadmaps/{id}/topics/{topicId}/progress", security.Secure(roadmapController.UpdateTopicProgress)).Methods(http.MethodPut)
	api.HandleFunc("/roadmaps/{id}/topics/{topicId}/resources/generate", security.Secure(roadmapController.GenerateTopicResources)).Methods(http.MethodPost)
	api.HandleFunc("/roadmaps/{id}/progress", security.Secure(roadmapController.UpdateRoadmapProgress)).Methods(http.MethodPut)
	api.HandleFunc("/roadmaps/{id}/export", security.Secure(roadmapController.ExportRoadmap)).Methods(http.MethodGet)

	api.HandleFunc("/roadmaps/{roadmapId}/notes", security.Secure(noteController.GetNotes)).Methods(http.MethodGet)
	api.HandleFunc("/roadmaps/{roadmapId}/notes", security.Secure(noteController.SaveNote)).Methods(http.MethodPost)
	api.HandleFunc("/roadmaps/{roadmapId}/notes/{videoId}", security.Secure(noteController.DeleteNote)).Methods(http.MethodDelete)

	api.HandleFunc("/custom-roadmaps", security.Secure(customRoadmapController.ListCustomRoadmaps)).Methods(http.MethodGet)
	api.HandleFunc("/custom-roadmaps", security.Secure(customRoadmapController.CreateCustomRoadmap)).Methods(http.MethodPost)
	api.HandleFunc("/custom-roadmaps/{id}", security.Secure(customRoadmapController.GetCustomRoadmap)).Methods(http.MethodGet)
	api.HandleFunc("/custom-roadmaps/{id}", security.Secure(customRoadmapController.UpdateCustomRoadmap)).Methods(http.MethodPut)
	api.HandleFunc("/custom-roadmaps/{id}", security.Secure(customRoadmapController.DeleteCustomRoadmap)).Methods(http.MethodDelete)

	api.HandleFunc("/resources/technology", security.Secure(resourceController.FindForTechnology)).Methods(http.MethodGet)
	api.HandleFunc("/resources/discover", security.Secure(resourceController.Discover)).Methods(http.MethodPost)
	api.HandleFunc("/resources/cache", security.Secure(resourceController.Cache)).Methods(http.MethodPost)
	api.HandleFunc("/resources/cleanup", security.Secure(resourceController.Cleanup)).Methods(http.MethodPost)
	api.HandleFunc("/resources/update-shared", security.Secure(resourceController.UpdateShared)).Methods(http.MethodPost)

	api.HandleFunc("/catalog", security.Secure(catalogController.GetTitles)).Methods(http.MethodGet)
	api.HandleFunc("/catalog/match", security.Secure(catalogController.MatchTopic)).Methods(http.MethodGet)

	api.HandleFunc("/generation/validate", security.Secure(generationController.ValidateTopic)).Methods(http.MethodPost)
	api.HandleFunc("/generation/questions", security.Secure(generationController.GenerateQuestions)).Methods(http.MethodPost)
	api.HandleFunc("/generation/validate-and-questions", security.Secure(generationController.ValidateAndGenerateQuestions)).Methods(http.MethodPost)
	api.HandleFunc("/generation/roadmap", security.Secure(generationController.GenerateRoadmap)).Methods(http.MethodPost)
	api.HandleFunc("/generation/tasks", security.Secure(generationController.CreateGenerationTask)).Methods(http.MethodPost)
	api.HandleFunc("/generation/tasks/{taskId}", security.Secure(generationController.GetGenerationTask)).Methods(http.MethodGet)
	api.HandleFunc("/generation/session", security.Secure(generationController.GetSession)).Methods(http.MethodGet)
	api.HandleFunc("/generation/session", security.Secure(generationController.PutSession)).Methods(http.MethodPut)
	api.HandleFunc("/generation/session", security.Secure(generationController.DeleteSession)).Methods(http.MethodDelete)

	api.HandleFunc("/stats", security.Secure(statsController.GetUserStats)).Methods(http.MethodGet)

	api.HandleFunc("/admin/llm/metrics", security.Secure(llmTuningController.GetMetrics)).Methods(http.MethodGet)
	api.HandleFunc("/admin/llm/model", security.Secure(llmTuningController.UpdateModel)).Methods(http.MethodPut)
	api.HandleFunc("/admin/test-data/{testId}", security.Secure(cleanupController.ClearTestData)).Methods(http.MethodDelete)

	r.HandleFunc("/live", healthController.HandleLiveRequest).Methods(http.MethodGet)
	r.HandleFunc("/ready", healthController.HandleReadyRequest).Methods(http.MethodGet)
	r.HandleFunc("/api/health", healthController.HandleHealthRequest).Methods(http.MethodGet)

	generationEventListener.Start()
	generationTaskProcessor.Start()
	cleanupService.StartPeriodicCleanup()

	log.Infof("Olric cache node is bound to %s", op.GetBindAddr())
	readyChan <- true
	close(readyChan)

	debug.SetGCPercent(30)

	srv := makeServer(systemInfoService, r)
	log.Fatalf("%v", srv.ListenAndServe())
}

func makeServer(systemInfoService service.SystemInfoService, r *mux.Router) *http.Server {
	listenAddr := systemInfoService.GetListenAddress()

	log.Infof("Listen addr = %s", listenAddr)

	var corsOptions []handlers.CORSOption

	corsOptions = append(corsOptions, handlers.AllowedHeaders([]string{"Connection", "Accept-Encoding", "Content-Encoding", "X-Requested-With", "Content-Type", "Authorization"}))

	allowedOrigin := systemInfoService.GetOriginAllowed()
	if allowedOrigin != "" {
		corsOptions = append(corsOptions, handlers.AllowedOrigins([]string{allowedOrigin}))
		corsOptions = append(corsOptions, handlers.AllowCredentials())
	}
	corsOptions = append(corsOptions, handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"}))

	return &http.Server{
		Handler:      handlers.CompressHandler(handlers.CORS(corsOptions...)(r)),
		Addr:         listenAddr,
		WriteTimeout: 600 * time.Second,
		ReadTimeout:  60 * time.Second,
	}
}
