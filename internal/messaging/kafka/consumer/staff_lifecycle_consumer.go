package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"school-payroll/internal/events"
	"school-payroll/internal/salarystructure"
	salarystructureerrors "school-payroll/internal/salarystructure/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeStaffLifecycle provisions a zero-gross salary structure for
// every newly created employee. The zero template makes the employee
// visible to payroll immediately; administrators fill in the real gross
// before the first generation. An existing structure is never touched,
// replays and concurrent duplicates are skipped.
func ConsumeStaffLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	structureService salarystructure.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.staff_lifecycle")
	log.Info("staff lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("staff lifecycle consumer stopped")
				return
			}
			log.Error("fetch staff lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.StaffCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode staff_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := provisionDefaultStructure(ctx, structureService, event); err != nil {
			log.Error("provision default salary structure failed",
				zap.String("employee_id", event.EmployeeID),
				zap.String("school_id", event.SchoolID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit staff lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("salary structure provisioned from staff_created event",
			zap.String("employee_id", event.EmployeeID),
			zap.String("school_id", event.SchoolID),
		)
	}
}

func provisionDefaultStructure(
	ctx context.Context,
	structureService salarystructure.Service,
	event events.StaffCreatedEvent,
) error {
	// Setup is an upsert, so guard against overwriting a structure an
	// administrator already configured.
	_, err := structureService.Get(ctx, event.SchoolID, event.EmployeeID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, salarystructureerrors.ErrStructureNotFound) {
		return err
	}

	employeeType := event.EmployeeType
	switch employeeType {
	case salarystructure.EmployeeTypeTeacher, salarystructure.EmployeeTypeAdmin, salarystructure.EmployeeTypeOther:
	default:
		employeeType = salarystructure.EmployeeTypeOther
	}

	_, err = structureService.Setup(ctx, event.SchoolID, salarystructure.SetupSalaryStructureRequest{
		EmployeeID:   event.EmployeeID,
		EmployeeType: employeeType,
		MonthlyGross: 0,
	})
	if errors.Is(err, salarystructureerrors.ErrStructureConflict) {
		// Lost the race to a concurrent setup, the row exists either way.
		return nil
	}
	return err
}
