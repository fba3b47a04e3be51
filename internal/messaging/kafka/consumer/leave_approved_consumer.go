package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-absensi/internal/events"
	"go-absensi/internal/report"
	"go-absensi/internal/shared/dateonly"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveLifecycle reacts to leave approvals by sweeping every day of
// the approved range for report-linked absences that now conflict. Days
// already consolidated are left alone; the cleanup is idempotent, so
// at-least-once delivery is safe.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	reportService report.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveApprovedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave_approved event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if event.EventType != events.EventLeaveApproved {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		start, err := dateonly.Parse(event.StartDate)
		if err != nil {
			log.Error("invalid start_date in leave_approved event",
				zap.String("leave_id", event.LeaveID),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		end, err := dateonly.Parse(event.EndDate)
		if err != nil || end.Before(start) {
			log.Error("invalid end_date in leave_approved event",
				zap.String("leave_id", event.LeaveID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		var removed int64
		failed := false
		for day := start; !day.After(end); day = day.Add(24 * time.Hour) {
			n, err := reportService.CleanupLeaveConflicts(ctx, day)
			if err != nil {
				log.Error("cleanup leave conflicts failed",
					zap.String("leave_id", event.LeaveID),
					zap.String("date", dateonly.Format(day)),
					zap.Error(err),
				)
				failed = true
				break
			}
			removed += n
		}
		if failed {
			// Leave uncommitted so the sweep is retried
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("leave approval applied to recorded absences",
			zap.String("leave_id", event.LeaveID),
			zap.String("employee_id", event.EmployeeID),
			zap.Int64("removed", removed),
		)
	}
}
