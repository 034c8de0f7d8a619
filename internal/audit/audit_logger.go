package audit

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventTransactionRequested = "TRANSACTION_REQUESTED"
	EventTransactionApproved  = "TRANSACTION_APPROVED"
	EventTransactionCancelled = "TRANSACTION_CANCELLED"
	EventTransactionRejected  = "TRANSACTION_REJECTED"
	EventServiceCreated       = "SERVICE_CREATED"
	EventServiceDeactivated   = "SERVICE_DEACTIVATED"
)

// Logger writes one structured AUDIT line per ledger event.
type Logger struct {
	log *zap.Logger
	now func() time.Time
}

func NewLogger(log *zap.Logger) *Logger {
	return &Logger{
		log: log.Named("audit"),
		now: time.Now,
	}
}

// LogTransfer records a transaction event between two members.
func (a *Logger) LogTransfer(event string, transactionID, from, to uuid.UUID, units int64, actor uuid.UUID) {
	if a == nil {
		return
	}
	a.log.Info("AUDIT",
		zap.String("event_type", event),
		zap.Time("event_time", a.now()),
		zap.String("transaction_id", transactionID.String()),
		zap.String("from_member_id", from.String()),
		zap.String("to_member_id", to.String()),
		zap.Int64("units", units),
		zap.String("actor_id", actor.String()),
	)
}

// LogRejection records a refused request. transactionID is uuid.Nil when the
// request never produced a transaction.
func (a *Logger) LogRejection(transactionID, actor uuid.UUID, err error) {
	if a == nil {
		return
	}
	a.log.Warn("AUDIT",
		zap.String("event_type", EventTransactionRejected),
		zap.Time("event_time", a.now()),
		zap.String("transaction_id", transactionID.String()),
		zap.String("actor_id", actor.String()),
		zap.Error(err),
	)
}

// LogService records a catalog change.
func (a *Logger) LogService(event string, serviceID, owner uuid.UUID, details string) {
	if a == nil {
		return
	}
	a.log.Info("AUDIT",
		zap.String("event_type", event),
		zap.Time("event_time", a.now()),
		zap.String("service_id", serviceID.String()),
		zap.String("actor_id", owner.String()),
		zap.String("details", details),
	)
}
