package daemon

import (
	"os"

	"github.com/pkg/errors"

	"github.com/spotify/pyeos"
	"github.com/spotify/pyeos/device"
)

// Instance is one managed device: the connection to it, and the
// candidate configuration on disk it should be running.
type Instance struct {
	Name          string
	Hostname      string
	CandidatePath string
	Device        device.Device
}

// ReloadCandidate re-reads the candidate file and loads it into the
// device handle. A candidate that won't parse is the operator's to
// fix, and is reported as such.
func (i *Instance) ReloadCandidate() error {
	buf, err := os.ReadFile(i.CandidatePath)
	if err != nil {
		return errors.Wrapf(err, "reading candidate for %s", i.Name)
	}
	if err := i.Device.LoadCandidate(buf); err != nil {
		return &pyeos.UserConfigProblem{BaseError: &pyeos.BaseError{
			Err: errors.Wrapf(err, "parsing candidate for %s", i.Name),
			Help: `The candidate configuration for device ` + i.Name + ` could not be parsed.

Check the indentation in ` + i.CandidatePath + `: sub-commands are
indented three spaces, sub-sub-commands six, and every indented line
needs a command above it to belong to.
`,
		}}
	}
	return nil
}
