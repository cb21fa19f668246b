package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

// SystemUserID is recorded as the actor of audit entries written by jobs.
const SystemUserID = "system"

// JobRunner coordinates the maintenance jobs.
type JobRunner struct {
	clubs   db.ClubRepository
	members db.MemberRepository
	index   db.UserClubIndex
	audit   db.AuditRepository
	logger  *zap.Logger
	timeout time.Duration
}

// NewJobRunner creates a JobRunner. Each job run is bounded by timeout.
func NewJobRunner(
	clubs db.ClubRepository,
	members db.MemberRepository,
	index db.UserClubIndex,
	audit db.AuditRepository,
	logger *zap.Logger,
	timeout time.Duration,
) *JobRunner {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &JobRunner{
		clubs:   clubs,
		members: members,
		index:   index,
		audit:   audit,
		logger:  logger,
		timeout: timeout,
	}
}

// ReconcileReport summarises one reconciliation pass.
type ReconcileReport struct {
	Clubs     int
	Corrected []models.CountReconciliation
	Failed    map[string]error
}

// RebuildReport summarises one membership index rebuild.
type RebuildReport struct {
	Users  int
	Failed map[string]error
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			jr.logger.Error("Job panicked", zap.String("job", jobName), zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	start := time.Now()
	jr.logger.Info("Starting job", zap.String("job", jobName))
	if err := jobFunc(ctx); err != nil {
		jr.logger.Error("Job failed", zap.String("job", jobName), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return
	}
	jr.logger.Info("Job completed", zap.String("job", jobName), zap.Duration("elapsed", time.Since(start)))
}

// ReconcileMemberCounts is the cron entry point for ReconcileAll.
func (jr *JobRunner) ReconcileMemberCounts() {
	jr.runWithRecovery("ReconcileMemberCounts", func(ctx context.Context) error {
		_, err := jr.ReconcileAll(ctx)
		return err
	})
}

// RebuildMembershipIndex is the cron entry point for RebuildIndex.
func (jr *JobRunner) RebuildMembershipIndex() {
	jr.runWithRecovery("RebuildMembershipIndex", func(ctx context.Context) error {
		_, err := jr.RebuildIndex(ctx)
		return err
	})
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ReconcileMemberCounts()
	jr.RebuildMembershipIndex()
}

// ReconcileAll recounts the members of every club and corrects drifted
// counters. A failing club is reported and does not stop the pass.
func (jr *JobRunner) ReconcileAll(ctx context.Context) (ReconcileReport, error) {
	report := ReconcileReport{Failed: make(map[string]error)}
	clubIDs, err := jr.clubs.ListIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list clubs: %w", err)
	}
	report.Clubs = len(clubIDs)

	for _, clubID := range clubIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rec, err := jr.clubs.RecountMembers(ctx, clubID)
		if err != nil {
			jr.logger.Warn("Failed to recount members", zap.String("club_id", clubID), zap.Error(err))
			report.Failed[clubID] = err
			continue
		}
		if !rec.Drifted() {
			continue
		}
		report.Corrected = append(report.Corrected, rec)
		jr.logger.Warn("Corrected drifted member count",
			zap.String("club_id", clubID), zap.Int64("before", rec.Before), zap.Int64("after", rec.After))

		entry := models.AuditLog{
			UserID:     SystemUserID,
			Action:     models.AuditCountReconcile,
			TargetType: "CLUB",
			TargetID:   clubID,
			Details: map[string]string{
				"before": fmt.Sprint(rec.Before),
				"after":  fmt.Sprint(rec.After),
			},
		}
		if err := jr.audit.Create(ctx, clubID, entry); err != nil {
			jr.logger.Warn("Failed to create audit log", zap.String("club_id", clubID), zap.Error(err))
		}
	}
	return report, nil
}

// RebuildIndex recomputes the membership index of every user linked to a
// member of any club, and of every user the index still lists, so entries
// left behind by member rows removed elsewhere are dropped too.
func (jr *JobRunner) RebuildIndex(ctx context.Context) (RebuildReport, error) {
	report := RebuildReport{Failed: make(map[string]error)}
	clubIDs, err := jr.clubs.ListIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list clubs: %w", err)
	}

	users := make(map[string]bool)
	for _, clubID := range clubIDs {
		members, err := jr.members.List(ctx, clubID, db.ListOptions{})
		if err != nil {
			return report, fmt.Errorf("failed to list members of club '%s': %w", clubID, err)
		}
		for _, m := range members {
			if uid := m.LinkedUserID(); uid != "" {
				users[uid] = true
			}
		}
	}
	indexed, err := jr.index.IndexedUserIDs(ctx)
	if err != nil {
		return report, err
	}
	for _, uid := range indexed {
		users[uid] = true
	}
	userIDs := make([]string, 0, len(users))
	for uid := range users {
		userIDs = append(userIDs, uid)
	}
	sort.Strings(userIDs)
	report.Users = len(userIDs)

	for _, uid := range userIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := jr.index.RebuildForUser(ctx, uid); err != nil {
			jr.logger.Warn("Failed to rebuild membership index", zap.String("user_id", uid), zap.Error(err))
			report.Failed[uid] = err
		}
	}
	return report, nil
}
