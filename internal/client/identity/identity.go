// Package identity provisions the process-wide device identity: a single
// id generated at first launch, registered with the backend, and persisted
// for the life of the install.
package identity

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/duabook/duabook/internal/client/repositories/metadata"
	"github.com/duabook/duabook/internal/common"
	"github.com/duabook/duabook/internal/logging"
	"github.com/google/uuid"
)

const registeredKey = "device_registered"

// Registrar is the slice of the remote client needed for device
// registration.
type Registrar interface {
	RegisterDevice(ctx context.Context, deviceID string) error
}

// Provider manages the persisted device id.
type Provider struct {
	meta   metadata.Repository
	remote Registrar
	log    logging.Logger

	now func() time.Time
}

// NewProvider returns a Provider over the given metadata store and remote
// registrar.
func NewProvider(meta metadata.Repository, remote Registrar, log logging.Logger) *Provider {
	return &Provider{meta: meta, remote: remote, log: log, now: time.Now}
}

// EnsureDeviceID returns the stored device id, generating and persisting a
// new one on first launch. Registration with the backend is attempted
// immediately; if the server is unreachable the id is kept locally and
// registration is retried later via EnsureRegistered.
func (p *Provider) EnsureDeviceID(ctx context.Context) (string, error) {
	stored, err := p.meta.Get(ctx, common.DeviceIDKey)
	if err != nil {
		return "", fmt.Errorf("failed to load device id: %w", err)
	}
	if len(stored) > 0 {
		return string(stored), nil
	}

	id := newDeviceID(p.now())
	p.log.Info(ctx, "provisioning new device id", "device_id", id)

	if err := p.meta.Set(ctx, common.DeviceIDKey, []byte(id)); err != nil {
		return "", fmt.Errorf("failed to persist device id: %w", err)
	}

	if err := p.remote.RegisterDevice(ctx, id); err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			p.log.Warn(ctx, "device registration deferred, server unavailable", "device_id", id)
			return id, nil
		}
		return "", fmt.Errorf("failed to register device: %w", err)
	}

	if err := p.meta.Set(ctx, registeredKey, []byte("1")); err != nil {
		return "", fmt.Errorf("failed to persist registration flag: %w", err)
	}
	return id, nil
}

// EnsureRegistered retries a deferred registration. It is a no-op when the
// device is already registered.
func (p *Provider) EnsureRegistered(ctx context.Context) error {
	flag, err := p.meta.Get(ctx, registeredKey)
	if err != nil {
		return fmt.Errorf("failed to load registration flag: %w", err)
	}
	if len(flag) > 0 {
		return nil
	}

	id, err := p.meta.Get(ctx, common.DeviceIDKey)
	if err != nil {
		return fmt.Errorf("failed to load device id: %w", err)
	}
	if len(id) == 0 {
		return common.ErrorNotFound
	}

	if err := p.remote.RegisterDevice(ctx, string(id)); err != nil {
		return err
	}
	return p.meta.Set(ctx, registeredKey, []byte("1"))
}

// newDeviceID mirrors the historical id format: platform, launch
// timestamp in millis, and a short random suffix.
func newDeviceID(now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", runtime.GOOS, now.UnixMilli(), uuid.NewString()[:8])
}
