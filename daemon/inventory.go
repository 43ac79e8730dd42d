package daemon

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// InventoryDevice is one entry in the device inventory file.
type InventoryDevice struct {
	Name     string `yaml:"name"`
	Hostname string `yaml:"hostname"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSL      bool   `yaml:"ssl"`
	// Candidate is the path of the configuration this device should
	// be running.
	Candidate string `yaml:"candidate"`
}

// Inventory is the agent's device inventory, a YAML file.
type Inventory struct {
	Devices []InventoryDevice `yaml:"devices"`
}

// LoadInventory reads and checks the inventory file.
func LoadInventory(path string) (Inventory, error) {
	var inv Inventory
	buf, err := os.ReadFile(path)
	if err != nil {
		return inv, errors.Wrapf(err, "reading inventory %s", path)
	}
	if err := yaml.Unmarshal(buf, &inv); err != nil {
		return inv, errors.Wrapf(err, "parsing inventory %s", path)
	}

	seen := map[string]bool{}
	for _, d := range inv.Devices {
		switch {
		case d.Name == "":
			return inv, errors.Errorf("inventory %s: device with no name", path)
		case d.Hostname == "":
			return inv, errors.Errorf("inventory %s: device %s has no hostname", path, d.Name)
		case d.Candidate == "":
			return inv, errors.Errorf("inventory %s: device %s has no candidate path", path, d.Name)
		case seen[d.Name]:
			return inv, errors.Errorf("inventory %s: device %s appears twice", path, d.Name)
		}
		seen[d.Name] = true
	}
	return inv, nil
}
