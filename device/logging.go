package device

import (
	"context"

	"github.com/go-kit/kit/log"
)

// ErrorLoggingDevice logs failing operations against the wrapped
// device; successes pass through silently.
type ErrorLoggingDevice struct {
	Device Device
	Logger log.Logger
}

func (d *ErrorLoggingDevice) Ping(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			d.Logger.Log("method", "Ping", "error", err)
		}
	}()
	return d.Device.Ping(ctx)
}

func (d *ErrorLoggingDevice) Version(ctx context.Context) (v string, err error) {
	defer func() {
		if err != nil {
			d.Logger.Log("method", "Version", "error", err)
		}
	}()
	return d.Device.Version(ctx)
}

func (d *ErrorLoggingDevice) RunningConfig(ctx context.Context) (_ string, err error) {
	defer func() {
		if err != nil {
			// Omit the config text as it could be large
			d.Logger.Log("method", "RunningConfig", "error", err)
		}
	}()
	return d.Device.RunningConfig(ctx)
}

func (d *ErrorLoggingDevice) LoadCandidate(buf []byte) (err error) {
	defer func() {
		if err != nil {
			d.Logger.Log("method", "LoadCandidate", "error", err)
		}
	}()
	return d.Device.LoadCandidate(buf)
}

func (d *ErrorLoggingDevice) LoadCandidateFile(path string) (err error) {
	defer func() {
		if err != nil {
			d.Logger.Log("method", "LoadCandidateFile", "path", path, "error", err)
		}
	}()
	return d.Device.LoadCandidateFile(path)
}

func (d *ErrorLoggingDevice) CompareConfig(ctx context.Context) (_ string, err error) {
	defer func() {
		if err != nil {
			d.Logger.Log("method", "CompareConfig", "error", err)
		}
	}()
	return d.Device.CompareConfig(ctx)
}

func (d *ErrorLoggingDevice) ReplaceConfig(ctx context.Context, opts ReplaceOptions) (err error) {
	defer func() {
		if err != nil {
			d.Logger.Log("method", "ReplaceConfig", "force", opts.Force, "error", err)
		}
	}()
	return d.Device.ReplaceConfig(ctx, opts)
}

func (d *ErrorLoggingDevice) Rollback(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			d.Logger.Log("method", "Rollback", "error", err)
		}
	}()
	return d.Device.Rollback(ctx)
}
