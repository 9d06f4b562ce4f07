package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func fullPatch() Patch {
	return Patch{
		Name:      ptr("Renamed"),
		StartDate: ptr(Date(2024, time.January, 3)),
		EndDate:   ptr(Date(2024, time.January, 5)),
		ProjectID: ptr(1),
	}
}

func TestPatch_ValidateRequiredFields(t *testing.T) {
	require.NoError(t, fullPatch().Validate(KindTask))

	p := fullPatch()
	p.Name = ptr("")
	assert.ErrorIs(t, p.Validate(KindTask), ErrValidation)

	p = fullPatch()
	p.StartDate = nil
	assert.ErrorIs(t, p.Validate(KindTask), ErrValidation)

	p = fullPatch()
	p.EndDate = ptr(time.Time{})
	assert.ErrorIs(t, p.Validate(KindTask), ErrValidation)
}

func TestPatch_ProjectRequiredOnlyForTasks(t *testing.T) {
	p := fullPatch()
	p.ProjectID = nil
	assert.ErrorIs(t, p.Validate(KindTask), ErrValidation)
	assert.NoError(t, p.Validate(KindProject))
}

func TestPatch_ValidateInvertedRange(t *testing.T) {
	p := fullPatch()
	p.StartDate = ptr(Date(2024, time.January, 6))
	err := p.Validate(KindProject)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after end date")
}

func TestPatch_ValidateProgress(t *testing.T) {
	p := fullPatch()
	p.Progress = ptr(-1)
	assert.ErrorIs(t, p.Validate(KindTask), ErrValidation)
	p.Progress = ptr(100)
	assert.NoError(t, p.Validate(KindTask))
}

func TestPatch_ApplyToKeepsUnsetFields(t *testing.T) {
	parent := 2
	cur := validTask()
	cur.ParentID = &parent
	cur.Assignee = "ana"
	cur.Progress = 30

	got := fullPatch().ApplyTo(cur)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, Date(2024, time.January, 3), got.StartDate)
	assert.Equal(t, "ana", got.Assignee)
	assert.Equal(t, 30, got.Progress)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, 2, *got.ParentID)

	// cur itself is untouched.
	assert.Equal(t, "Design", cur.Name)
}

func TestPatch_ApplyToTruncatesDates(t *testing.T) {
	p := fullPatch()
	p.StartDate = ptr(time.Date(2024, time.January, 3, 18, 45, 0, 0, time.UTC))

	got := p.ApplyTo(validTask())
	assert.Equal(t, Date(2024, time.January, 3), got.StartDate)
}

func TestPatch_ApplyToProjectIgnoresOwnership(t *testing.T) {
	p := fullPatch()
	p.ProjectID = ptr(9)
	p.ParentID = ptr(3)

	project := Entity{ID: 1, Kind: KindProject, Name: "P", StartDate: Date(2024, 1, 1), EndDate: Date(2024, 2, 1)}
	got := p.ApplyTo(project)
	assert.Equal(t, 0, got.ProjectID)
	assert.Nil(t, got.ParentID)
	assert.NoError(t, got.Validate())
}

func TestRemoteError_MatchesRejected(t *testing.T) {
	err := &RemoteError{Key: TaskKey(3), Payload: "422 locked"}
	assert.ErrorIs(t, err, ErrRemoteRejected)
	assert.Equal(t, "updating task-3: 422 locked", err.Error())

	bare := &RemoteError{Key: ProjectKey(1)}
	assert.Equal(t, "updating project-1: rejected", bare.Error())
}
