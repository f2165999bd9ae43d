package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "maker")

	blank := "  "
	p, err := f.projects.Create(ctx, u.ID, CreateProjectInput{
		Title:       "DevLog",
		Description: "A log for devs",
		GithubLink:  &blank,
		Tags:        "React, Node, ,Go",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"React", "Node", "Go"}, p.Tags)
	assert.Nil(t, p.GithubLink)
	assert.Equal(t, u.ID, p.CreatorID)
	assert.Empty(t, p.Likes)

	tests := []struct {
		name  string
		input CreateProjectInput
		field string
	}{
		{"missing title", CreateProjectInput{Description: "d"}, "title"},
		{"missing description", CreateProjectInput{Title: "t"}, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.projects.Create(ctx, u.ID, tt.input)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestProjectService_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "maker")

	p1 := f.project(t, u, "React dashboard", "ui")
	p2 := f.project(t, u, "Portfolio", "react, css")
	f.project(t, u, "Vue app", "vue")

	found, err := f.projects.List(ctx, "react")
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(found))
	for _, p := range found {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{p1.ID, p2.ID}, ids)

	all, err := f.projects.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt), "projects must be newest first")
	}
}

func TestProjectService_OwnershipChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, other := f.user(t, "owner"), f.user(t, "other")
	p := f.project(t, owner, "Mine", "go")

	title := "Stolen"
	_, err := f.projects.Update(ctx, other.ID, p.ID, UpdateProjectInput{Title: &title})
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.ErrorIs(t, f.projects.Delete(ctx, other.ID, p.ID), ErrNotAuthorized)

	title = "Still mine"
	tags := "go, chi"
	updated, err := f.projects.Update(ctx, owner.ID, p.ID, UpdateProjectInput{Title: &title, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "Still mine", updated.Title)
	assert.Equal(t, []string{"go", "chi"}, updated.Tags)
	assert.Equal(t, p.Description, updated.Description)

	require.NoError(t, f.projects.Delete(ctx, owner.ID, p.ID))
	_, err = f.projects.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.projects.Delete(ctx, owner.ID, p.ID), ErrNotFound)
}

func TestProjectService_UpdateRejectsEmptyTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	p := f.project(t, owner, "Mine", "")

	empty := " "
	_, err := f.projects.Update(ctx, owner.ID, p.ID, UpdateProjectInput{Title: &empty})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}
