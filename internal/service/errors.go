package service

import (
	"errors"
	"fmt"

	"github.com/filedepot/filedepot/internal/repository"
)

var (
	// ErrDataLoss refuses a bulk removal whose filter carries attributes but
	// no values at all: it names fields yet would constrain nothing useful.
	ErrDataLoss = errors.New("removal filter would cause data loss")

	// ErrDatabaseService wraps failures of the metadata layer that are not
	// one of the known repository kinds, such as transaction management.
	ErrDatabaseService = errors.New("unexpected database service failure")

	// ErrFileStorage wraps storage failures that are not one of the known
	// blob-store kinds.
	ErrFileStorage = errors.New("unexpected file storage failure")
)

// checkRemovalParams guards bulk removal. An empty filter map is refused
// outright; a map whose value lists are all empty is refused as well, since
// the two mistakes reach the caller through different error kinds.
func checkRemovalParams(params repository.Params) error {
	if len(params) == 0 {
		return fmt.Errorf("%w: at least one condition is required to avoid deleting all files", repository.ErrNoConditions)
	}
	for _, values := range params {
		if len(values) > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: every filter value list is empty", ErrDataLoss)
}
