package era

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chaintrack-network/chaintrack/x/timequery"
)

// FileEra is one era entry in an era file.
type FileEra struct {
	FirstSlot  uint64 `yaml:"first_slot"`
	SlotLength string `yaml:"slot_length"`
}

// File is the on-disk shape of an era history.
type File struct {
	Eras        []FileEra `yaml:"eras"`
	HorizonSlot uint64    `yaml:"horizon_slot"`
}

// ParseHistory parses a YAML era file into a validated History.
func ParseHistory(data []byte) (*History, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("era: parse era file: %w", err)
	}

	eras := make([]Summary, 0, len(f.Eras))
	for i, fe := range f.Eras {
		slotLen, err := time.ParseDuration(fe.SlotLength)
		if err != nil {
			return nil, fmt.Errorf("era: era %d: invalid slot_length %q: %w", i, fe.SlotLength, err)
		}
		eras = append(eras, Summary{
			FirstSlot:  timequery.SlotNo(fe.FirstSlot),
			SlotLength: slotLen,
		})
	}

	return NewHistory(eras, timequery.SlotNo(f.HorizonSlot))
}

// LoadHistory reads and parses an era file from disk.
func LoadHistory(path string) (*History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("era: read era file %s: %w", path, err)
	}
	return ParseHistory(data)
}
