package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskPhotoStorage_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewDiskPhotoStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "photo_1.jpg", strings.NewReader("jpeg-bytes")))

	data, err := os.ReadFile(filepath.Join(dir, "photo_1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no deben quedar temporales")
}

func TestDiskPhotoStorage_RejectsPaths(t *testing.T) {
	s, err := NewDiskPhotoStorage(t.TempDir())
	require.NoError(t, err)

	err = s.Save(context.Background(), "../evil.jpg", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestSeedReader(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write(BootcampsFile, `[{
		"id": "5d713995-b721-4c2f-9a47-f3fe5f1dd1f8",
		"name": "Devworks Bootcamp",
		"description": "Full stack web development",
		"address": "233 Bay State Rd Boston MA 02215",
		"careers": ["Web Development", "UI/UX"],
		"user": "5c8a1d5b-0190-4b4d-9b69-2d9a5a5b1a01"
	}]`)
	write(CoursesFile, `[{
		"title": "Front End Web Development", "description": "HTML, CSS", "weeks": "8",
		"tuition": 8000, "minimumSkill": "beginner",
		"bootcamp": "5d713995-b721-4c2f-9a47-f3fe5f1dd1f8", "user": "5c8a1d5b-0190-4b4d-9b69-2d9a5a5b1a01"
	}]`)
	write(UsersFile, `[{"name": "Admin", "email": "admin@gmail.com", "role": "admin", "password": "123456"}]`)

	r := NewSeedReader(dir)

	bootcamps, addresses, err := r.Bootcamps()
	require.NoError(t, err)
	require.Len(t, bootcamps, 1)
	assert.Equal(t, "5d713995-b721-4c2f-9a47-f3fe5f1dd1f8", bootcamps[0].ID.String())
	assert.Equal(t, "devworks-bootcamp", bootcamps[0].Slug)
	assert.Equal(t, []string{"233 Bay State Rd Boston MA 02215"}, addresses)

	courses, err := r.Courses()
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, bootcamps[0].ID, courses[0].BootcampID)

	// reviews.json no existe
	reviews, err := r.Reviews()
	require.NoError(t, err)
	assert.Empty(t, reviews)

	users, err := r.Users()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "123456", users[0].Password)
}

func TestSeedReader_InvalidEntity(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ReviewsFile), []byte(`[{"title": "t", "text": "x", "rating": 11}]`), 0o644))

	_, err := NewSeedReader(dir).Reviews()
	assert.Error(t, err)
}

func TestSeedReader_BundledData(t *testing.T) {
	r := NewSeedReader(filepath.Join("..", "..", "..", "..", "..", "_data"))

	users, err := r.Users()
	require.NoError(t, err)
	assert.Len(t, users, 5)

	bootcamps, addresses, err := r.Bootcamps()
	require.NoError(t, err)
	require.Len(t, bootcamps, 2)
	assert.Equal(t, "devworks-bootcamp", bootcamps[0].Slug)
	assert.Equal(t, "233 Bay State Rd Boston MA 02215", addresses[0])

	courses, err := r.Courses()
	require.NoError(t, err)
	assert.Len(t, courses, 3)

	reviews, err := r.Reviews()
	require.NoError(t, err)
	assert.Len(t, reviews, 3)
}
