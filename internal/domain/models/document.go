// internal/domain/models/document.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visibility is the audience-selection mode for a document's read access.
type Visibility string

const (
	VisibilityAllProperties Visibility = "all_properties"
	VisibilityProperty      Visibility = "property"
	VisibilityDepartment    Visibility = "department"
	VisibilityRole          Visibility = "role"
)

// IsValidVisibility reports whether v is one of the four scope modes.
func IsValidVisibility(v Visibility) bool {
	switch v {
	case VisibilityAllProperties, VisibilityProperty, VisibilityDepartment, VisibilityRole:
		return true
	}
	return false
}

// DocumentStatus is the review-workflow state of a knowledge document.
//
// Canonical lifecycle: draft -> pending_review -> published, with rejected
// as the reviewer's "send it back" state (the author re-edits and
// resubmits). Legacy records using "under_review"/"approved" map to
// pending_review/published respectively.
type DocumentStatus string

const (
	DocStatusDraft         DocumentStatus = "draft"
	DocStatusPendingReview DocumentStatus = "pending_review"
	DocStatusPublished     DocumentStatus = "published"
	DocStatusRejected      DocumentStatus = "rejected"
)

// NormalizeDocumentStatus maps legacy status values onto the canonical
// vocabulary. Unknown values pass through unchanged so validation can
// reject them.
func NormalizeDocumentStatus(s DocumentStatus) DocumentStatus {
	switch s {
	case "under_review", "PENDING_REVIEW":
		return DocStatusPendingReview
	case "approved", "PUBLISHED":
		return DocStatusPublished
	case "DRAFT":
		return DocStatusDraft
	}
	return s
}

// Document represents a knowledge-base article with a visibility scope.
//
// Scoping fields pair with Visibility:
//   - all_properties: no scoping fields consulted
//   - property: PropertyID must be set
//   - department: DepartmentID must be set
//   - role: RoleScope must be set (e.g. "admin", "reviewer")
type Document struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"`

	Summary string `bson:"summary,omitempty" json:"summary,omitempty"`
	Content string `bson:"content,omitempty" json:"content,omitempty"` // sanitized HTML

	Category string `bson:"category,omitempty" json:"category,omitempty"`

	Visibility   Visibility          `bson:"visibility" json:"visibility"`
	PropertyID   *primitive.ObjectID `bson:"property_id,omitempty" json:"property_id,omitempty"`
	DepartmentID *primitive.ObjectID `bson:"department_id,omitempty" json:"department_id,omitempty"`
	RoleScope    string              `bson:"role_scope,omitempty" json:"role_scope,omitempty"`

	Status     DocumentStatus `bson:"status" json:"status"`
	ReviewNote string         `bson:"review_note,omitempty" json:"review_note,omitempty"`

	SubmittedAt *time.Time `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`

	ReviewedByID   *primitive.ObjectID `bson:"reviewed_by_id,omitempty" json:"reviewed_by_id,omitempty"`
	ReviewedByName string              `bson:"reviewed_by_name,omitempty" json:"reviewed_by_name,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// VisibleTo reports whether the document's scope admits the given viewer.
// It consults scope only; callers decide separately whether unpublished
// documents should be shown (authors and reviewers see their own drafts).
func (d *Document) VisibleTo(u *User) bool {
	switch d.Visibility {
	case VisibilityAllProperties:
		return true
	case VisibilityProperty:
		return d.PropertyID != nil && u.PropertyID != nil && *d.PropertyID == *u.PropertyID
	case VisibilityDepartment:
		return d.DepartmentID != nil && u.DepartmentID != nil && *d.DepartmentID == *u.DepartmentID
	case VisibilityRole:
		return d.RoleScope != "" && d.RoleScope == u.Role
	}
	return false
}
