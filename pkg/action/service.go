package action

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-mail/mail"
	"github.com/skroutz/ganetimgr/internal/errdef"
	"github.com/skroutz/ganetimgr/pkg/model"
)

type repositoryInterface interface {
	create(ctx context.Context, action *model.InstanceAction) error
	findByActivationKey(ctx context.Context, activationKey string) (*model.InstanceAction, error)
	claim(ctx context.Context, activationKey string) (bool, error)
	release(ctx context.Context, activationKey string) error
	deleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type backendClient interface {
	ReinstallInstance(ctx context.Context, cluster model.Cluster, instance string) (int, error)
	DestroyInstance(ctx context.Context, cluster model.Cluster, instance string) (int, error)
	RenameInstance(ctx context.Context, cluster model.Cluster, instance, newName string) (int, error)
}

type cacheEvictor interface {
	EvictCluster(clusterSlug string) error
}

type userUpdater interface {
	UpdateEmail(ctx context.Context, id uint, email string) error
}

type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

func NewService(logger *slog.Logger, uiUrl string, validity time.Duration, repository repositoryInterface, backend backendClient, users userUpdater, evictor cacheEvictor, dialer dialer) *Service {
	return &Service{
		logger:     logger,
		uiUrl:      uiUrl,
		validity:   validity,
		repository: repository,
		backend:    backend,
		users:      users,
		evictor:    evictor,
		dialer:     dialer,
		now:        time.Now,
	}
}

// Service issues, resolves and consumes the activation keys gating
// destructive or identity-changing operations. An activation key is usable
// exactly once and only within the validity window measured from creation.
type Service struct {
	logger     *slog.Logger
	uiUrl      string
	validity   time.Duration
	repository repositoryInterface
	backend    backendClient
	users      userUpdater
	evictor    cacheEvictor
	dialer     dialer
	now        func() time.Time
}

// Request records a pending action and mails its confirmation link to the
// requesting user. cluster is nil for email changes.
func (s *Service) Request(ctx context.Context, user *model.User, instance string, cluster *model.Cluster, kind model.ActionKind, value string) (*model.InstanceAction, error) {
	if !kind.Valid() {
		return nil, errdef.NewBadRequest("unknown action kind: %d", kind)
	}
	if kind != model.ActionEmailChange && cluster == nil {
		return nil, errdef.NewBadRequest("action %q requires a cluster", kind)
	}

	activationKey, err := generateActivationKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate activation key: %v", err)
	}

	action := &model.InstanceAction{
		ActivationKey: activationKey,
		UserID:        user.ID,
		User:          user,
		Instance:      instance,
		Action:        kind,
		Value:         value,
	}
	if cluster != nil {
		action.ClusterID = &cluster.ID
		action.Cluster = cluster
	}

	if err := s.sendConfirmationEmail(user, action); err != nil {
		return nil, fmt.Errorf("failed to send confirmation email: %v", err)
	}

	if err := s.repository.create(ctx, action); err != nil {
		return nil, err
	}

	return action, nil
}

// RequestEmailChange is the data-only variant used by the profile flow.
func (s *Service) RequestEmailChange(ctx context.Context, user *model.User, newEmail string) (*model.InstanceAction, error) {
	return s.Request(ctx, user, "", nil, model.ActionEmailChange, newEmail)
}

func (s *Service) sendConfirmationEmail(user *model.User, action *model.InstanceAction) error {
	m := mail.NewMessage()
	m.SetHeader("From", "Ganeti Manager <no-reply@ganetimgr>")
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", fmt.Sprintf("Confirmation required: %s", action.Action))
	link := fmt.Sprintf("%s/actions/%s", s.uiUrl, action.ActivationKey)
	body := fmt.Sprintf("Hello, a %s was requested", action.Action)
	if action.Instance != "" {
		body = fmt.Sprintf("%s for instance %s", body, action.Instance)
	}
	body = fmt.Sprintf("%s.<br/>Please click the link below to confirm. The link is valid once and expires after %d days.<br/>%s", body, int(s.validity.Hours()/24), link)
	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

// Resolve looks an action up without mutating it, for the confirmation page.
func (s *Service) Resolve(ctx context.Context, user *model.User, activationKey string) (*model.InstanceAction, error) {
	action, err := s.repository.findByActivationKey(ctx, normalizeKey(activationKey))
	if err != nil {
		return nil, err
	}

	if err := authorize(user, action); err != nil {
		return nil, err
	}

	return action, nil
}

// authorize restricts a confirmation link to the user it was mailed to.
// Administrators may act on any link.
func authorize(user *model.User, action *model.InstanceAction) error {
	if action.UserID != user.ID && !user.Administrator {
		return errdef.NewForbidden("this confirmation link belongs to another user")
	}
	return nil
}

// IsExpired is a pure function of the creation time and the validity window;
// expiry is never stored.
func (s *Service) IsExpired(action *model.InstanceAction) bool {
	return s.now().Sub(action.CreatedAt) > s.validity
}

// Status reports the confirmation-page state of an action.
func (s *Service) Status(action *model.InstanceAction) string {
	switch {
	case s.IsExpired(action):
		return "expired"
	case action.Activated:
		return "activated"
	default:
		return "pending"
	}
}

// ActivationResult is returned on successful activation. JobID is zero for
// email changes, which involve no backend job.
type ActivationResult struct {
	Action *model.InstanceAction `json:"action"`
	JobID  int                   `json:"jobId,omitempty"`
}

// Activate consumes an activation key and performs the gated operation.
// Expiry wins over prior activation; the claim on the activated flag makes
// the backend call happen at most once even when the same link is confirmed
// concurrently. A backend refusal releases the claim so the link can be
// retried until it expires.
func (s *Service) Activate(ctx context.Context, user *model.User, activationKey string) (ActivationResult, error) {
	activationKey = normalizeKey(activationKey)

	action, err := s.repository.findByActivationKey(ctx, activationKey)
	if err != nil {
		return ActivationResult{}, err
	}

	if err := authorize(user, action); err != nil {
		return ActivationResult{}, err
	}

	if s.IsExpired(action) {
		return ActivationResult{}, errdef.NewGone("activation key has expired")
	}

	claimed, err := s.repository.claim(ctx, activationKey)
	if err != nil {
		return ActivationResult{}, err
	}
	if !claimed {
		return ActivationResult{}, errdef.NewConflict("action has already been activated")
	}

	jobID, err := s.dispatch(ctx, action)
	if err != nil {
		if releaseErr := s.repository.release(ctx, activationKey); releaseErr != nil {
			s.logger.ErrorContext(ctx, "Failed to release claimed action", "activationKey", activationKey, "error", releaseErr)
		}
		return ActivationResult{}, err
	}

	s.logger.InfoContext(ctx, "Action activated", "action", action.Action.String(), "instance", action.Instance, "jobId", jobID)

	action.Activated = true
	return ActivationResult{Action: action, JobID: jobID}, nil
}

func (s *Service) dispatch(ctx context.Context, action *model.InstanceAction) (int, error) {
	switch action.Action {
	case model.ActionReinstall:
		return s.backend.ReinstallInstance(ctx, *action.Cluster, action.Instance)
	case model.ActionDestroy:
		return s.backend.DestroyInstance(ctx, *action.Cluster, action.Instance)
	case model.ActionRename:
		// a rename takes a cluster-wide lock and changes the instance's
		// identity, so the cached views must go before the job is submitted
		if err := s.evictor.EvictCluster(action.Cluster.Slug); err != nil {
			return 0, fmt.Errorf("failed to evict caches for cluster %q: %v", action.Cluster.Slug, err)
		}
		return s.backend.RenameInstance(ctx, *action.Cluster, action.Instance, action.Value)
	case model.ActionEmailChange:
		return 0, s.users.UpdateEmail(ctx, action.UserID, action.Value)
	default:
		return 0, errdef.NewBadRequest("unknown action kind: %d", action.Action)
	}
}

// DeleteExpired prunes expired actions that were never activated.
func (s *Service) DeleteExpired(ctx context.Context) (int64, error) {
	return s.repository.deleteExpired(ctx, s.now().Add(-s.validity))
}

// generateActivationKey returns 40 hex characters of random material; the
// key is unguessable by construction and never derived from its inputs.
func generateActivationKey() (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Inbound keys are normalized before any lookup.
func normalizeKey(activationKey string) string {
	return strings.ToLower(strings.TrimSpace(activationKey))
}
