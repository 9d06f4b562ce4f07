package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() Entity {
	return Entity{
		ID:        4,
		Kind:      KindTask,
		Name:      "Design",
		StartDate: Date(2024, time.January, 1),
		EndDate:   Date(2024, time.January, 10),
		ProjectID: 1,
	}
}

func TestEntity_ValidateTask(t *testing.T) {
	assert.NoError(t, validTask().Validate())
}

func TestEntity_ValidateSingleDay(t *testing.T) {
	e := validTask()
	e.EndDate = e.StartDate
	assert.NoError(t, e.Validate())
}

func TestEntity_ValidateInvertedRange(t *testing.T) {
	e := validTask()
	e.StartDate = Date(2024, time.February, 1)
	err := e.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "after end date")
}

func TestEntity_ValidateTaskNeedsProject(t *testing.T) {
	e := validTask()
	e.ProjectID = 0
	assert.ErrorIs(t, e.Validate(), ErrValidation)
}

func TestEntity_ValidateSelfParent(t *testing.T) {
	e := validTask()
	e.ParentID = &e.ID
	assert.ErrorIs(t, e.Validate(), ErrValidation)
}

func TestEntity_ValidateProjectHasNoParent(t *testing.T) {
	p := Entity{ID: 1, Kind: KindProject, Name: "P", StartDate: Date(2024, 1, 1), EndDate: Date(2024, 2, 1)}
	require.NoError(t, p.Validate())

	p.ProjectID = 3
	assert.ErrorIs(t, p.Validate(), ErrValidation)
}

func TestEntity_ValidateProgressRange(t *testing.T) {
	e := validTask()
	e.Progress = 101
	assert.ErrorIs(t, e.Validate(), ErrValidation)
}

func TestEntity_CloneDoesNotShareParent(t *testing.T) {
	parent := 2
	e := validTask()
	e.ParentID = &parent

	c := e.Clone()
	*c.ParentID = 9
	assert.Equal(t, 2, *e.ParentID)
	assert.False(t, e.Equal(c))
}

func TestEntity_EqualDereferencesParent(t *testing.T) {
	a, b := validTask(), validTask()
	p1, p2 := 2, 2
	a.ParentID, b.ParentID = &p1, &p2
	assert.True(t, a.Equal(b))

	b.ParentID = nil
	assert.False(t, a.Equal(b))
}

func TestEntity_BarEdges(t *testing.T) {
	task := validTask()
	assert.Equal(t, Date(2024, time.January, 1), task.BarStart())
	assert.Equal(t, Date(2024, time.January, 11).Add(-time.Nanosecond), task.BarEnd())

	project := Entity{Kind: KindProject, StartDate: Date(2024, 1, 1), EndDate: Date(2024, 1, 31)}
	assert.Equal(t, Date(2024, time.January, 31), project.BarEnd())
	assert.Equal(t, 30*24*time.Hour, project.Span())
}

func TestEntity_ParentKey(t *testing.T) {
	e := validTask()
	assert.True(t, e.ParentKey().IsZero())

	parent := 1
	e.ParentID = &parent
	assert.Equal(t, TaskKey(1), e.ParentKey())
	assert.Equal(t, TaskKey(4), e.Key())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.February, 29), d)
	assert.Equal(t, "2024-02-29", FormatDate(d))

	_, err = ParseDate("2023-02-29")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ParseDate("29/02/2024")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDateOf_UsesInstantLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	late := time.Date(2024, time.March, 1, 1, 30, 0, 0, tokyo)
	assert.Equal(t, Date(2024, time.March, 1), DateOf(late))
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestEndOfDay(t *testing.T) {
	noon := time.Date(2024, time.May, 5, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.May, 5, 23, 59, 59, 999999999, time.UTC), EndOfDay(noon))
}
