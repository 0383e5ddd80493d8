package database

import (
	"errors"

	"github.com/lib/pq"
)

func IsSerializedError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "serialization_failure"
	}
	return false
}

// IsUniqueViolation checks if the error is due to a unique violation.
// If one or more specific unique constraints are given as arguments, the
// error must be caused by one of them. If no constraints are given, this
// function returns true for any unique violation.
func IsUniqueViolation(err error, uniqueConstraints ...UniqueConstraint) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code.Name() == "unique_violation" {
			if len(uniqueConstraints) == 0 {
				return true
			}
			for _, uc := range uniqueConstraints {
				if pqErr.Constraint == string(uc) {
					return true
				}
			}
		}
	}

	return false
}

// UniqueConstraint names a unique constraint in the schema.
type UniqueConstraint string

const (
	UniqueUsersEmailKey                        UniqueConstraint = "users_email_key"
	UniqueTeamMembershipsPkey                  UniqueConstraint = "team_memberships_pkey"
	UniqueActionClassesEnvironmentIDNameKey    UniqueConstraint = "action_classes_environment_id_name_key"
	UniqueAttributeClassesEnvironmentIDNameKey UniqueConstraint = "attribute_classes_environment_id_name_key"
	UniqueAttributesClassIDPersonIDKey         UniqueConstraint = "attributes_attribute_class_id_person_id_key"
)
