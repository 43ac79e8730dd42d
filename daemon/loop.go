package daemon

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-kit/kit/log"

	"github.com/spotify/pyeos/device"
	pyeosmetrics "github.com/spotify/pyeos/metrics"
)

// Timeout for device operations we're prepared to abandon within one
// sync cycle.
const deviceOpTimeout = 30 * time.Second

type LoopVars struct {
	SyncInterval time.Duration
	// SyncAuto applies the candidate when drift is found, rather
	// than only reporting it.
	SyncAuto bool

	initOnce sync.Once
	syncSoon chan struct{}
}

func (loop *LoopVars) ensureInit() {
	loop.initOnce.Do(func() {
		loop.syncSoon = make(chan struct{}, 1)
	})
}

// Ask for a sync, or if there's one waiting, let that happen.
func (loop *LoopVars) AskForSync() {
	loop.ensureInit()
	select {
	case loop.syncSoon <- struct{}{}:
	default:
	}
}

// Loop runs sync cycles at least every SyncInterval until stop is
// closed. Being told to sync (AskForSync) intervenes, in which case
// the next timed sync is rescheduled.
func (d *Daemon) Loop(stop chan struct{}, wg *sync.WaitGroup, logger log.Logger) {
	defer wg.Done()
	d.ensureInit()

	syncTimer := time.NewTimer(d.SyncInterval)

	// Check every device straight away.
	d.AskForSync()

	for {
		select {
		case <-stop:
			logger.Log("stopping", "true")
			return
		case <-d.syncSoon:
			if !syncTimer.Stop() {
				select {
				case <-syncTimer.C:
				default:
				}
			}
			d.doSync(logger)
			syncTimer.Reset(d.SyncInterval)
		case <-syncTimer.C:
			d.AskForSync()
		}
	}
}

func (d *Daemon) doSync(logger log.Logger) {
	for _, inst := range d.instances {
		started := time.Now()
		err := d.syncInstance(inst, logger)
		syncDuration.With(
			pyeosmetrics.LabelDevice, inst.Name,
			pyeosmetrics.LabelSuccess, fmt.Sprint(err == nil),
		).Observe(time.Since(started).Seconds())
		if err != nil {
			logger.Log("device", inst.Name, "err", err)
		}
	}
}

// syncInstance is one device's share of a sync cycle: reload the
// candidate, measure drift, and (when SyncAuto) apply the candidate.
func (d *Daemon) syncInstance(inst *Instance, logger log.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), deviceOpTimeout)
	defer cancel()

	if err := inst.ReloadCandidate(); err != nil {
		d.noteCheck(inst, "", err, false)
		return err
	}

	diff, err := inst.Device.CompareConfig(ctx)
	if err != nil {
		d.noteCheck(inst, "", err, false)
		return err
	}

	synced := false
	if diff != "" && d.SyncAuto {
		if err := inst.Device.ReplaceConfig(ctx, device.ReplaceOptions{}); err != nil {
			d.noteCheck(inst, diff, err, false)
			return err
		}
		logger.Log("device", inst.Name, "msg", "applied candidate config")
		diff, synced = "", true
	}

	d.noteCheck(inst, diff, nil, synced)

	added, removed := countChanges(diff)
	driftLines.With(pyeosmetrics.LabelDevice, inst.Name, labelDirection, "added").Set(float64(added))
	driftLines.With(pyeosmetrics.LabelDevice, inst.Name, labelDirection, "removed").Set(float64(removed))
	return nil
}

// countChanges counts the marked lines in a diff report, at both
// marker indents; context lines don't count.
func countChanges(diff string) (added, removed int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+ "), strings.HasPrefix(line, "  + "):
			added++
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "  - "):
			removed++
		}
	}
	return added, removed
}
