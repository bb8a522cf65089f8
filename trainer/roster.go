package trainer

import (
	"github.com/wippyai/rom-export/diag"
	"github.com/wippyai/rom-export/errors"
	"github.com/wippyai/rom-export/narc"
)

// ValidateCounts checks that both archives hold the same number of members.
func ValidateCounts(properties, party int) error {
	if properties != party {
		return errors.CountMismatch(properties, party)
	}
	return nil
}

// DecodeRoster decodes every trainer in ascending index order.
// The first structural violation aborts the roster and no trainers are returned.
func DecodeRoster(properties, party *narc.Archive, sink *diag.Sink) ([]*Trainer, error) {
	if err := ValidateCounts(properties.Len(), party.Len()); err != nil {
		return nil, err
	}

	// every properties record is size-checked before any record is decoded
	for id, blob := range properties.Files {
		if len(blob) != PropertiesSize {
			return nil, errors.SchemaViolation(id, "properties file size %d != %d", len(blob), PropertiesSize)
		}
	}

	trainers := make([]*Trainer, 0, properties.Len())
	for id := range properties.Files {
		t, err := DecodeTrainer(id, properties.File(id), party.File(id), sink)
		if err != nil {
			return nil, err
		}
		trainers = append(trainers, t)
	}
	return trainers, nil
}
