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
	"context"
	"fmt"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/db"
	"github.com/Netcracker/qubership-roadmap-service/entity"
	"github.com/Netcracker/qubership-roadmap-service/repository"
	"github.com/Netcracker/qubership-roadmap-service/utils"
	"github.com/go-pg/pg/v10"
	log "github.com/sirupsen/logrus"
)

const (
	cleanupInterval       = time.Hour
	finishedTaskRetention = 7 * 24 * time.Hour
)

type CleanupService interface {
	ClearTestData(ctx context.Context, testId string) error
	StartPeriodicCleanup()
	RunPeriodicCleanup(ctx context.Context)
}

type cleanupServiceImpl struct {
	cp              db.ConnectionProvider
	taskRepo        repository.GenerationTaskRepository
	resourceService ResourceService
	now             func() time.Time
}

func NewCleanupService(cp db.ConnectionProvider, taskRepo repository.GenerationTaskRepository, resourceService ResourceService) CleanupService {
	return &cleanupServiceImpl{
		cp:              cp,
		taskRepo:        taskRepo,
		resourceService: resourceService,
		now:             time.Now,
	}
}

// ClearTestData removes users whose email contains qs-<testId>.
// Their roadmaps, custom roadmaps and tasks are removed by cascade.
func (s *cleanupServiceImpl) ClearTestData(ctx context.Context, testId string) error {
	emailFilter := "%qs-" + utils.LikeEscaped(testId) + "%"

	log.Debugf("Starting cleanup for testId: %s with filter: %s", testId, emailFilter)

	return s.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		var userIds []string
		err := tx.Model((*entity.User)(nil)).
			Column("id").
			Where("email LIKE ?", emailFilter).
			Select(&userIds)
		if err != nil {
			return fmt.Errorf("failed to find test users: %w", err)
		}

		if len(userIds) == 0 {
			log.Debugf("No users found matching pattern: %s", emailFilter)
			return nil
		}

		log.Debugf("Found %d test users to delete", len(userIds))

		_, err = tx.Model((*entity.Note)(nil)).
			Where("user_id IN (?)", pg.In(userIds)).
			Delete()
		if err != nil {
			return fmt.Errorf("failed to delete roadmap_note records: %w", err)
		}

		_, err = tx.Model((*entity.User)(nil)).
			Where("id IN (?)", pg.In(userIds)).
			Delete()
		if err != nil {
			return fmt.Errorf("failed to delete user_account records: %w", err)
		}

		log.Debugf("Cleanup completed successfully for testId: %s", testId)
		return nil
	})
}

func (s *cleanupServiceImpl) StartPeriodicCleanup() {
	utils.SafeAsync(func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			s.RunPeriodicCleanup(context.Background())
		}
	})
}

func (s *cleanupServiceImpl) RunPeriodicCleanup(ctx context.Context) {
	res, err := s.resourceService.Cleanup(ctx)
	if err != nil {
		log.Errorf("Periodic cleanup of learning resources failed: %s", err)
	} else {
		log.Debugf("Periodic cleanup removed %d expired learning resources", res.DeletedCount)
	}

	deleted, err := s.taskRepo.DeleteFinishedBefore(ctx, s.now().Add(-finishedTaskRetention))
	if err != nil {
		log.Errorf("Periodic cleanup of generation tasks failed: %s", err)
		return
	}
	if deleted > 0 {
		log.Infof("Periodic cleanup removed %d finished generation tasks", deleted)
	}
}
