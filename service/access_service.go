// service/access_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/doorward-io/doorward/actuator"
	"github.com/doorward-io/doorward/audit"
	"github.com/doorward-io/doorward/engine"
	doorward_errors "github.com/doorward-io/doorward/errors"
	logger "github.com/doorward-io/doorward/logging"
	"github.com/doorward-io/doorward/model"
	"github.com/doorward-io/doorward/store"
	"github.com/doorward-io/doorward/util"
)

// PermissionSource supplies the active special permissions for a user.
type PermissionSource interface {
	ActiveForUser(ctx context.Context, subjectUserID string) ([]model.SpecialPermission, error)
}

// ScheduleSource supplies the current global schedule.
type ScheduleSource interface {
	GetGlobalSchedule(ctx context.Context) (model.GlobalSchedule, error)
}

// IAccessService is the correlation engine surface consumed by the HTTP
// layer: submit a request, poll an event, apply an actuator callback.
type IAccessService interface {
	Submit(ctx context.Context, principal model.Principal, location *model.LocationSample) (model.AccessEvent, error)
	Status(ctx context.Context, eventID string) (model.AccessEvent, error)
	HandleActuatorCallback(ctx context.Context, eventID string, outcome actuator.Outcome) (model.AccessEvent, bool, error)
	Sweep(ctx context.Context)
	StartSweeper(ctx context.Context)
}

// AccessConfig carries the engine tunables.
type AccessConfig struct {
	GuardTTL       time.Duration
	CallbackWait   time.Duration
	EventRetention time.Duration
	SweepInterval  time.Duration
	AuthorizedArea model.GeoAuthorizedArea

	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// AccessService owns the lifecycle of AccessEvents: pre-checks, duplicate
// suppression, dispatch to the actuator, and resolution via callback or
// timeout. Timeouts are materialized lazily on Status reads, with the
// periodic sweep as a safety net for events nobody polls; both paths go
// through the same compare-and-swap transition, so a late real callback and
// the timeout can never both win.
type AccessService struct {
	trustGate        *engine.TrustGate
	scheduleResolver *engine.ScheduleResolver
	geofence         *engine.GeofenceValidator
	permissions      PermissionSource
	schedules        ScheduleSource
	events           store.EventStore
	guards           store.GuardStore
	actuatorClient   actuator.Client
	auditService     audit.Service
	eventBus         *util.EventBus
	validationUtil   *util.ValidationUtil
	cfg              AccessConfig
	now              func() time.Time
}

// NewAccessService creates a new instance of AccessService
func NewAccessService(
	permissions PermissionSource,
	schedules ScheduleSource,
	events store.EventStore,
	guards store.GuardStore,
	actuatorClient actuator.Client,
	auditService audit.Service,
	eventBus *util.EventBus,
	validationUtil *util.ValidationUtil,
	cfg AccessConfig,
) *AccessService {
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &AccessService{
		trustGate:        engine.NewTrustGate(),
		scheduleResolver: engine.NewScheduleResolver(),
		geofence:         engine.NewGeofenceValidator(),
		permissions:      permissions,
		schedules:        schedules,
		events:           events,
		guards:           guards,
		actuatorClient:   actuatorClient,
		auditService:     auditService,
		eventBus:         eventBus,
		validationUtil:   validationUtil,
		cfg:              cfg,
		now:              now,
	}
}

// Submit runs the gates in order — trust, then schedule and geofence for
// ordinary users, then the duplicate window — and either returns a terminal
// rejection without ever contacting the actuator, or creates the event,
// approves it, and fires the dispatch in the background. The caller is
// expected to poll Status; Submit never blocks on the actuator.
func (s *AccessService) Submit(ctx context.Context, principal model.Principal, location *model.LocationSample) (model.AccessEvent, error) {
	if principal.UserID == "" || !principal.Role.Valid() {
		return model.AccessEvent{}, doorward_errors.ErrInvalidPrincipal
	}
	if err := s.validationUtil.ValidateLocation(location); err != nil {
		logger.Warn("Rejecting request with malformed location",
			zap.String("subjectUserID", principal.UserID),
			zap.Error(err))
		return model.AccessEvent{}, doorward_errors.ErrInvalidRequestData
	}

	now := s.now()

	if trust := s.trustGate.Authorize(principal); !trust.OK {
		return s.rejectImmediately(ctx, principal, location, now, model.StateRejectedPreActuation, []string{trust.Reason})
	}

	reasons := []string{model.ReasonRoleExempt}
	if !principal.Role.ExemptFromPolicyChecks() {
		scheduleDecision, geoDecision, err := s.runPolicyChecks(ctx, principal, location, now)
		if err != nil {
			return model.AccessEvent{}, err
		}
		// Gate order mirrors the decision pipeline: schedule before geofence.
		if !scheduleDecision.OK {
			return s.rejectImmediately(ctx, principal, location, now, model.StateDeniedBySchedule, []string{scheduleDecision.Reason})
		}
		if !geoDecision.OK {
			return s.rejectImmediately(ctx, principal, location, now, model.StateOutOfArea, []string{geoDecision.Reason})
		}
		reasons = []string{scheduleDecision.Reason, geoDecision.Reason}
	}

	acquired, err := s.guards.TryAcquire(ctx, principal.UserID, s.cfg.GuardTTL)
	if err != nil {
		logger.Error("Duplicate guard acquisition failed",
			zap.String("subjectUserID", principal.UserID),
			zap.Error(err))
		return model.AccessEvent{}, doorward_errors.ErrInternalServer
	}
	if !acquired {
		return s.rejectImmediately(ctx, principal, location, now, model.StateDuplicate, []string{model.ReasonDuplicateRequest})
	}

	event := model.AccessEvent{
		EventID:         uuid.New().String(),
		SubjectUserID:   principal.UserID,
		Role:            principal.Role,
		CreatedAt:       now,
		State:           model.StatePending,
		Location:        location,
		DecisionReasons: reasons,
	}
	if err := s.events.Create(ctx, event); err != nil {
		s.releaseGuard(ctx, principal.UserID)
		logger.Error("Failed to create access event", zap.Error(err))
		return model.AccessEvent{}, doorward_errors.ErrInternalServer
	}

	approved, err := s.events.Transition(ctx, event.EventID, model.StatePending, model.StateApprovedAwaitingActuator, nil, now)
	if err != nil {
		s.releaseGuard(ctx, principal.UserID)
		logger.Error("Failed to approve access event",
			zap.String("eventID", event.EventID),
			zap.Error(err))
		return model.AccessEvent{}, doorward_errors.ErrInternalServer
	}

	logger.Info("Access event approved, dispatching to actuator",
		zap.String("eventID", approved.EventID),
		zap.String("subjectUserID", approved.SubjectUserID))

	// Fire-and-forget: the physical action cannot be cancelled once
	// requested, so the dispatch must not inherit the caller's context.
	go s.dispatch(approved)

	return approved, nil
}

// runPolicyChecks evaluates the schedule and geofence gates in parallel;
// both are read-only.
func (s *AccessService) runPolicyChecks(ctx context.Context, principal model.Principal, location *model.LocationSample, now time.Time) (engine.ScheduleDecision, engine.GeofenceDecision, error) {
	var (
		scheduleDecision engine.ScheduleDecision
		geoDecision      engine.GeofenceDecision
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		schedule, err := s.schedules.GetGlobalSchedule(gctx)
		if err != nil {
			return err
		}
		permissions, err := s.permissions.ActiveForUser(gctx, principal.UserID)
		if err != nil {
			return err
		}
		scheduleDecision = s.scheduleResolver.WithinPolicy(now, schedule, permissions)
		return nil
	})
	g.Go(func() error {
		geoDecision = s.geofence.WithinArea(location, s.cfg.AuthorizedArea)
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("Policy pre-checks failed",
			zap.String("subjectUserID", principal.UserID),
			zap.Error(err))
		return scheduleDecision, geoDecision, doorward_errors.ErrDatabaseOperation
	}
	return scheduleDecision, geoDecision, nil
}

// Status is a pure read with lazy timeout materialization: an event past its
// callback wait bound becomes ActuatorTimeout on the read that observes it.
func (s *AccessService) Status(ctx context.Context, eventID string) (model.AccessEvent, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return model.AccessEvent{}, err
	}

	if event.State == model.StateApprovedAwaitingActuator &&
		event.DispatchedAt != nil &&
		s.now().After(event.DispatchedAt.Add(s.cfg.CallbackWait)) {
		if updated, ok := s.finalize(ctx, eventID, model.StateActuatorTimeout, []string{model.ReasonActuatorNoCallback}); ok {
			return updated, nil
		}
		// Lost the race to a real callback; serve whatever won.
		return s.events.Get(ctx, eventID)
	}

	return event, nil
}

// HandleActuatorCallback applies the actuator's reported outcome. Valid only
// while the event awaits the actuator; any callback for an event already
// terminal is ignored and logged as an anomaly, never re-applied.
func (s *AccessService) HandleActuatorCallback(ctx context.Context, eventID string, outcome actuator.Outcome) (model.AccessEvent, bool, error) {
	if !outcome.Valid() {
		return model.AccessEvent{}, false, doorward_errors.ErrInvalidOutcome
	}

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return model.AccessEvent{}, false, err
	}
	if event.State != model.StateApprovedAwaitingActuator {
		logger.Warn("Ignoring late or duplicate actuator callback",
			zap.String("eventID", eventID),
			zap.String("state", string(event.State)),
			zap.String("outcome", string(outcome)))
		return event, false, nil
	}

	state, reason := mapOutcome(outcome)
	updated, ok := s.finalize(ctx, eventID, state, []string{reason})
	if !ok {
		current, err := s.events.Get(ctx, eventID)
		if err != nil {
			return model.AccessEvent{}, false, err
		}
		logger.Warn("Actuator callback lost transition race",
			zap.String("eventID", eventID),
			zap.String("state", string(current.State)))
		return current, false, nil
	}

	return updated, true, nil
}

// Sweep times out overdue events nobody polled and evicts terminal events
// past retention.
func (s *AccessService) Sweep(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.CallbackWait)
	overdue, err := s.events.AwaitingBefore(ctx, cutoff)
	if err != nil {
		logger.Error("Timeout sweep failed to list overdue events", zap.Error(err))
	}
	for _, event := range overdue {
		s.finalize(ctx, event.EventID, model.StateActuatorTimeout, []string{model.ReasonActuatorNoCallback})
	}

	evicted, err := s.events.EvictTerminalBefore(ctx, s.now().Add(-s.cfg.EventRetention))
	if err != nil {
		logger.Error("Failed to evict expired terminal events", zap.Error(err))
	}
	if evicted > 0 {
		logger.Debug("Evicted expired terminal events", zap.Int("count", evicted))
	}
}

// StartSweeper runs Sweep on a fixed interval until the context is done.
func (s *AccessService) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// dispatch hands the approved event to the actuator. Network-level failures
// were already retried inside the client; exhaustion marks the event as an
// actuator error.
func (s *AccessService) dispatch(event model.AccessEvent) {
	ctx := context.Background()
	cmd := actuator.Command{
		EventID:       event.EventID,
		SubjectUserID: event.SubjectUserID,
		RequestedAt:   event.CreatedAt,
		Location:      event.Location,
	}
	if err := s.actuatorClient.Dispatch(ctx, cmd); err != nil {
		logger.Error("Actuator dispatch exhausted retries",
			zap.String("eventID", event.EventID),
			zap.Error(err))
		s.finalize(ctx, event.EventID, model.StateActuatorError, []string{model.ReasonActuatorUnreachable})
	}
}

// rejectImmediately records a terminal pre-actuation rejection: the event is
// created already terminal, audited, and published, and the actuator is
// never contacted.
func (s *AccessService) rejectImmediately(ctx context.Context, principal model.Principal, location *model.LocationSample, now time.Time, state model.EventState, reasons []string) (model.AccessEvent, error) {
	resolvedAt := now
	event := model.AccessEvent{
		EventID:         uuid.New().String(),
		SubjectUserID:   principal.UserID,
		Role:            principal.Role,
		CreatedAt:       now,
		State:           state,
		Location:        location,
		DecisionReasons: reasons,
		ResolvedAt:      &resolvedAt,
	}
	if err := s.events.Create(ctx, event); err != nil {
		logger.Error("Failed to record rejected access event", zap.Error(err))
		return model.AccessEvent{}, doorward_errors.ErrInternalServer
	}

	logger.Info("Access request rejected",
		zap.String("eventID", event.EventID),
		zap.String("subjectUserID", principal.UserID),
		zap.String("state", string(state)),
		zap.Strings("reasons", reasons))

	s.recordDecision(ctx, event)
	s.eventBus.Publish(ctx, util.EventTerminal, event)
	return event, nil
}

// finalize moves an awaiting event into a terminal state via compare-and-swap.
// Returns ok=false when another writer resolved the event first. On success
// the duplicate guard is released and the terminal record fanned out.
func (s *AccessService) finalize(ctx context.Context, eventID string, state model.EventState, reasons []string) (model.AccessEvent, bool) {
	updated, err := s.events.Transition(ctx, eventID, model.StateApprovedAwaitingActuator, state, reasons, s.now())
	if errors.Is(err, doorward_errors.ErrEventStateConflict) {
		return updated, false
	}
	if err != nil {
		logger.Error("Failed to finalize access event",
			zap.String("eventID", eventID),
			zap.String("state", string(state)),
			zap.Error(err))
		return updated, false
	}

	s.releaseGuard(ctx, updated.SubjectUserID)
	s.recordDecision(ctx, updated)
	s.eventBus.Publish(ctx, util.EventTerminal, updated)

	logger.Info("Access event resolved",
		zap.String("eventID", updated.EventID),
		zap.String("subjectUserID", updated.SubjectUserID),
		zap.String("state", string(updated.State)))
	return updated, true
}

func (s *AccessService) releaseGuard(ctx context.Context, subjectUserID string) {
	if err := s.guards.Release(ctx, subjectUserID); err != nil {
		// The guard TTL bounds the lockout even when the release is lost.
		logger.Warn("Failed to release duplicate guard",
			zap.String("subjectUserID", subjectUserID),
			zap.Error(err))
	}
}

// recordDecision appends the terminal decision to the audit ledger. Audit
// write failures are logged, not returned — a failed audit write must not
// change the caller's decision.
func (s *AccessService) recordDecision(ctx context.Context, event model.AccessEvent) {
	rec := audit.Record{
		Timestamp:     s.now(),
		Action:        audit.ActionAccessDecision,
		SubjectUserID: event.SubjectUserID,
		Role:          string(event.Role),
		EventID:       event.EventID,
		State:         string(event.State),
		Reasons:       event.DecisionReasons,
	}
	if event.Location != nil {
		lat, lon, acc := event.Location.Latitude, event.Location.Longitude, event.Location.AccuracyMeters
		attempts := event.Location.AttemptNumber
		rec.Latitude = &lat
		rec.Longitude = &lon
		rec.AccuracyMeters = &acc
		rec.AttemptNumber = &attempts
	}
	if err := s.auditService.LogRecord(ctx, rec); err != nil {
		logger.Error("Failed to write audit record",
			zap.String("eventID", event.EventID),
			zap.Error(err))
	}
}

func mapOutcome(outcome actuator.Outcome) (model.EventState, string) {
	switch outcome {
	case actuator.OutcomeSuccess:
		return model.StateCorrect, model.ReasonDoorOpened
	case actuator.OutcomeOutOfArea:
		return model.StateOutOfArea, model.ReasonActuatorReportedOutOfArea
	default:
		return model.StateActuatorError, model.ReasonActuatorReportedFailure
	}
}
