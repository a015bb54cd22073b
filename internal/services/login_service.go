package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/bastion/internal/auth"
	"github.com/BradenHooton/bastion/internal/config"
	"github.com/BradenHooton/bastion/internal/geo"
	"github.com/BradenHooton/bastion/internal/models"
	"github.com/BradenHooton/bastion/internal/useragent"
	pkgauth "github.com/BradenHooton/bastion/pkg/auth"
	"github.com/BradenHooton/bastion/pkg/logger"
)

// CredentialRepository defines credential store operations needed by the
// login service
type CredentialRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.CredentialRecord, error)
	Create(ctx context.Context, username, passwordHash string) (*models.CredentialRecord, error)
	Update(ctx context.Context, rec *models.CredentialRecord) error
}

// AuditLogRepository defines audit trail operations needed by the login and
// dashboard services
type AuditLogRepository interface {
	Append(ctx context.Context, event *models.LoginEvent) error
	ScanAll(ctx context.Context) ([]models.LoginEvent, error)
	ScanAllDesc(ctx context.Context) ([]models.LoginEvent, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// LoginAttempt carries the inputs of one login attempt into the policy engine.
type LoginAttempt struct {
	Username  string
	Password  string
	IPAddress string
	UserAgent string
}

// LoginService evaluates login attempts against the adaptive access policy
// and owns every mutation of credential counter and lock state.
type LoginService struct {
	creds       CredentialRepository
	audit       AuditLogRepository
	resolver    geo.Resolver
	notifier    AlertNotifier
	policy      config.PolicyConfig
	timing      *auth.TimingDelay
	locks       *userLocks
	logger      *slog.Logger
	auditLogger *logger.AuditLogger
	now         func() time.Time
}

// NewLoginService creates a new LoginService
func NewLoginService(
	creds CredentialRepository,
	audit AuditLogRepository,
	resolver geo.Resolver,
	notifier AlertNotifier,
	policy config.PolicyConfig,
	timing *auth.TimingDelay,
	slogger *slog.Logger,
	auditLogger *logger.AuditLogger,
) *LoginService {
	return &LoginService{
		creds:       creds,
		audit:       audit,
		resolver:    resolver,
		notifier:    notifier,
		policy:      policy,
		timing:      timing,
		locks:       newUserLocks(),
		logger:      slogger,
		auditLogger: auditLogger,
		now:         time.Now,
	}
}

// AttemptLogin evaluates one login attempt. Checks run in fixed order and
// short-circuit on the first denial:
//
//  1. geographic origin (fail-closed when resolution fails)
//  2. allowed time-of-day window
//  3. username existence
//  4. lockout state, with lazy expiry
//  5. password verification, mutating the failure counter and lock
//
// Every attempt appends exactly one audit event. A denial is a Decision, not
// an error; a non-nil error means infrastructure failed and no decision was
// rendered.
func (s *LoginService) AttemptLogin(ctx context.Context, attempt LoginAttempt) (*models.Decision, error) {
	start := s.now()
	uaFields := useragent.Parse(attempt.UserAgent)

	event := &models.LoginEvent{
		Username:      attempt.Username,
		IPAddress:     attempt.IPAddress,
		Location:      models.LocationUnknown,
		BrowserFamily: uaFields.BrowserFamily,
		DeviceFamily:  uaFields.DeviceFamily,
		OccurredAt:    start,
	}

	// Step 1: geographic origin. Resolution failure is a denial, not an
	// error; an attempt whose origin cannot be established is never allowed.
	country, err := s.resolver.ResolveCountry(ctx, attempt.IPAddress)
	if err != nil {
		s.logger.Warn("origin resolution failed, denying attempt",
			slog.String("ip_address", attempt.IPAddress),
			slog.Any("error", err))
		return s.deny(ctx, event, models.ReasonDeniedGeoRestricted,
			"Access denied: login origin could not be verified.", start)
	}

	if location, lerr := s.resolver.ResolveLocation(ctx, attempt.IPAddress); lerr == nil {
		event.Location = location
	}

	if country != s.policy.AllowedRegion {
		return s.deny(ctx, event, models.ReasonDeniedGeoRestricted,
			"Access denied: logins are not permitted from your region.", start)
	}

	// Step 2: time-of-day window, half-open [start, end) in the policy zone.
	hour := start.In(s.policy.Location).Hour()
	if hour < s.policy.StartHour || hour >= s.policy.EndHour {
		return s.deny(ctx, event, models.ReasonDeniedTimeWindow,
			fmt.Sprintf("Access denied: logins are only permitted between %02d:00 and %02d:00.",
				s.policy.StartHour, s.policy.EndHour), start)
	}

	// Steps 3-5 read and mutate the credential record; serialize per username.
	unlock := s.locks.Lock(attempt.Username)
	defer unlock()

	rec, err := s.creds.GetByUsername(ctx, attempt.Username)
	if errors.Is(err, models.ErrNotFound) {
		return s.deny(ctx, event, models.ReasonDeniedNoSuchUser,
			"Invalid username or password.", start)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credential record: %w", err)
	}

	// Step 4: lockout. An expired lock is cleared lazily here; the cleared
	// state is persisted with whatever outcome step 5 produces.
	lockExpired := false
	if rec.IsLocked {
		if rec.LastFailedLogin == nil || start.Sub(*rec.LastFailedLogin) < s.policy.LockDuration {
			remaining := s.policy.LockDuration
			if rec.LastFailedLogin != nil {
				remaining = s.policy.LockDuration - start.Sub(*rec.LastFailedLogin)
			}
			return s.deny(ctx, event, models.ReasonDeniedLocked,
				fmt.Sprintf("Account locked. Try again in %s.", remaining.Round(time.Second)), start)
		}
		rec.ClearLock()
		lockExpired = true
	}

	// Step 5: password verification.
	if pkgauth.ComparePassword(rec.PasswordHash, attempt.Password) != nil {
		return s.recordFailure(ctx, event, rec, attempt.IPAddress, start)
	}

	// The in-memory record may already be clean after an expired-lock clear,
	// but the store still holds the locked state until this write.
	if lockExpired || rec.FailedAttempts > 0 {
		rec.ClearLock()
		if err := s.creds.Update(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to clear failure counter: %w", err)
		}
	}

	decision := &models.Decision{
		Allowed: true,
		Reason:  models.ReasonSuccess,
		Message: "Login successful.",
	}
	s.record(ctx, event, decision)
	return decision, nil
}

// recordFailure increments the failure counter, trips the lock at the
// configured maximum, and persists before the denial is rendered. If the
// state change cannot be persisted no decision is returned.
func (s *LoginService) recordFailure(ctx context.Context, event *models.LoginEvent, rec *models.CredentialRecord, ipAddress string, start time.Time) (*models.Decision, error) {
	rec.FailedAttempts++
	failedAt := start
	rec.LastFailedLogin = &failedAt

	tripped := false
	if rec.FailedAttempts >= s.policy.MaxAttempts {
		rec.IsLocked = true
		tripped = true
	}

	if err := s.creds.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to record failed attempt: %w", err)
	}

	var message string
	if tripped {
		message = fmt.Sprintf("Invalid username or password. Account locked for %s.",
			s.policy.LockDuration.Round(time.Second))
		s.dispatchLockoutAlert(rec.Username, ipAddress, failedAt)
	} else {
		message = fmt.Sprintf("Invalid username or password. %d attempts remaining.",
			s.policy.MaxAttempts-rec.FailedAttempts)
	}

	return s.deny(ctx, event, models.ReasonDeniedBadPassword, message, start)
}

// dispatchLockoutAlert notifies asynchronously so mail latency never holds up
// the login response or the per-user lock.
func (s *LoginService) dispatchLockoutAlert(username, ipAddress string, lockedAt time.Time) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.notifier.NotifyLockout(ctx, username, ipAddress, lockedAt); err != nil {
			s.logger.Error("lockout notification failed",
				slog.String("username", username),
				slog.Any("error", err))
		}
	}()
}

// deny finalizes a denial: audit, structured log, and response-time padding.
func (s *LoginService) deny(ctx context.Context, event *models.LoginEvent, reason models.ReasonCode, message string, start time.Time) (*models.Decision, error) {
	decision := &models.Decision{Allowed: false, Reason: reason, Message: message}
	s.record(ctx, event, decision)
	s.timing.WaitFrom(start, false)
	return decision, nil
}

// record appends the audit event for a rendered decision. The append is
// eventually consistent with respect to readers; a failed append is logged
// and the decision stands.
func (s *LoginService) record(ctx context.Context, event *models.LoginEvent, decision *models.Decision) {
	event.Status = decision.AuditStatus()
	event.Message = decision.Message

	if err := s.audit.Append(ctx, event); err != nil {
		s.logger.Error("failed to append audit event",
			slog.String("username", event.Username),
			slog.String("status", event.Status),
			slog.Any("error", err))
	}

	auditEvent := logger.AuditEvent{
		EventType: "login_attempt",
		Username:  event.Username,
		IPAddress: event.IPAddress,
		Location:  event.Location,
		Success:   decision.Allowed,
	}
	if !decision.Allowed {
		auditEvent.FailureReason = string(decision.Reason)
	}
	s.auditLogger.LogLoginAttempt(auditEvent)
}

// Register creates a new credential record with a hashed password. The
// existing record is left untouched when the username is already taken.
func (s *LoginService) Register(ctx context.Context, username, password, ipAddress string) (*models.CredentialRecord, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", models.ErrBadRequest)
	}
	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrBadRequest, err)
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	rec, err := s.creds.Create(ctx, username, hash)
	if err != nil {
		return nil, err
	}

	s.auditLogger.LogAccountAction("registration", username, ipAddress, nil)
	return rec, nil
}

// ResetLockout clears the failure counter and lock for a username. It is the
// administrative unlock; the lockout itself only expires lazily during login.
func (s *LoginService) ResetLockout(ctx context.Context, username, actorIP string) error {
	unlock := s.locks.Lock(username)
	defer unlock()

	rec, err := s.creds.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	rec.ClearLock()
	if err := s.creds.Update(ctx, rec); err != nil {
		return fmt.Errorf("failed to reset lockout: %w", err)
	}

	s.auditLogger.LogAccountAction("lockout_reset", username, actorIP, nil)
	return nil
}
