// internal/app/policy/targetpolicy.go
package targetpolicy

import (
	"context"
	"errors"

	"github.com/dalemusser/staffhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrEmptyTarget is returned when a non-"all" targeting mode carries no ids.
// It is caller-correctable and must be surfaced before any persistence.
var ErrEmptyTarget = errors.New("target ids are required unless assigning to everyone")

// ErrBadTargetType is returned for an unknown targeting mode.
var ErrBadTargetType = errors.New(`target type must be "all"|"users"|"departments"|"properties"`)

// SyncDispatchThreshold is the recipient count at or above which
// notification fan-out is handed to the asynchronous bulk path instead of
// inserting rows synchronously. It bounds the size of a single
// synchronous write.
const SyncDispatchThreshold = 10

// Directory resolves group ids to member user ids. In production it is
// backed by the users store; tests supply an in-memory fake.
//
// A department or property with zero members resolves to an empty slice,
// not an error.
type Directory interface {
	// ActiveUserIDs returns the ids of every active user.
	ActiveUserIDs(ctx context.Context) ([]primitive.ObjectID, error)
	// DepartmentMemberIDs returns the ids of active users in the department.
	DepartmentMemberIDs(ctx context.Context, departmentID primitive.ObjectID) ([]primitive.ObjectID, error)
	// PropertyMemberIDs returns the ids of active users at the property.
	PropertyMemberIDs(ctx context.Context, propertyID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// Validate checks a targeting specification before anything is persisted.
func Validate(t models.Target) error {
	if !models.IsValidTargetType(t.Type) {
		return ErrBadTargetType
	}
	if t.Type != models.TargetAll && len(t.IDs) == 0 {
		return ErrEmptyTarget
	}
	return nil
}

// Resolve expands a targeting specification into the concrete, deduplicated
// set of recipient user ids. The result preserves first-seen order, so
// resolving the same target against an unchanged directory is
// deterministic.
//
// Resolve performs no writes; it fails only on directory errors or an
// invalid specification.
func Resolve(ctx context.Context, dir Directory, t models.Target) ([]primitive.ObjectID, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}

	switch t.Type {
	case models.TargetAll:
		ids, err := dir.ActiveUserIDs(ctx)
		if err != nil {
			return nil, err
		}
		return dedupe(ids), nil

	case models.TargetUsers:
		// User ids are already recipient ids; just dedupe.
		return dedupe(t.IDs), nil

	case models.TargetDepartments:
		return expand(ctx, t.IDs, dir.DepartmentMemberIDs)

	case models.TargetProperties:
		return expand(ctx, t.IDs, dir.PropertyMemberIDs)
	}

	return nil, ErrBadTargetType
}

// Rows converts a validated targeting specification into the per-row
// (targetType, targetID) pairs to persist: a single nil-target row for
// "all", otherwise one row per id.
func Rows(t models.Target) []*primitive.ObjectID {
	if t.Type == models.TargetAll {
		return []*primitive.ObjectID{nil}
	}
	out := make([]*primitive.ObjectID, 0, len(t.IDs))
	for i := range t.IDs {
		id := t.IDs[i]
		out = append(out, &id)
	}
	return out
}

// expand unions the member sets of every group id, deduplicated in
// first-seen order. A user in two targeted groups appears exactly once.
func expand(ctx context.Context, groupIDs []primitive.ObjectID, members func(context.Context, primitive.ObjectID) ([]primitive.ObjectID, error)) ([]primitive.ObjectID, error) {
	seen := make(map[primitive.ObjectID]struct{})
	out := make([]primitive.ObjectID, 0)
	for _, gid := range groupIDs {
		ids, err := members(ctx, gid)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
