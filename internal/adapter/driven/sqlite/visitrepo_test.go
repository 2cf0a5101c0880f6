package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
	"github.com/ericfisherdev/placementpanel/internal/domain/port/driven"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestVisitRepo_ListEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVisitRepo(db)

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestVisitRepo_InsertAssignsIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVisitRepo(db)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = fixedClock(created)

	in := []model.VisitRecord{
		{CompanyName: "Acme", DateOfVisit: "2024-03-01", Extra: map[string]string{"Batch": "2024"}},
		{CompanyName: "Globex", VisitType: "Off Campus", ID: "tmp1"},
	}

	out, err := repo.Insert(ctx, in)
	require.NoError(t, err)
	require.Len(t, out, 2)

	for _, rec := range out {
		assert.Len(t, rec.ID, 36)
		assert.True(t, rec.CreatedAt.Equal(created))
		assert.Nil(t, rec.Extra)
	}
	assert.NotEqual(t, "tmp1", out[1].ID)
	assert.Equal(t, "Acme", out[0].CompanyName)
	assert.Equal(t, "Globex", out[1].CompanyName)

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, out[0].ID, listed[0].ID)
	assert.Equal(t, "2024-03-01", listed[0].DateOfVisit)
	assert.Equal(t, "Off Campus", listed[1].VisitType)
}

func TestVisitRepo_ListNewestBatchFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVisitRepo(db)
	ctx := context.Background()

	repo.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	_, err := repo.Insert(ctx, []model.VisitRecord{{CompanyName: "Old"}})
	require.NoError(t, err)

	repo.now = fixedClock(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	_, err = repo.Insert(ctx, []model.VisitRecord{{CompanyName: "New A"}, {CompanyName: "New B"}})
	require.NoError(t, err)

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "New A", listed[0].CompanyName)
	assert.Equal(t, "New B", listed[1].CompanyName)
	assert.Equal(t, "Old", listed[2].CompanyName)
}

func TestVisitRepo_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVisitRepo(db)
	ctx := context.Background()

	out, err := repo.Insert(ctx, []model.VisitRecord{{CompanyName: "Acme", Location: "Pune"}})
	require.NoError(t, err)

	rec := out[0]
	rec.Location = "Mumbai"
	rec.Remark = "rescheduled"
	require.NoError(t, repo.Update(ctx, []model.VisitRecord{rec}))

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Mumbai", listed[0].Location)
	assert.Equal(t, "rescheduled", listed[0].Remark)
	assert.True(t, listed[0].CreatedAt.Equal(rec.CreatedAt))
}

func TestVisitRepo_UpdateUnknownRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVisitRepo(db)
	ctx := context.Background()

	out, err := repo.Insert(ctx, []model.VisitRecord{{CompanyName: "Acme"}})
	require.NoError(t, err)

	changed := out[0]
	changed.CompanyName = "Acme Corp"
	err = repo.Update(ctx, []model.VisitRecord{changed, {ID: "missing-record-id-000", CompanyName: "Ghost"}})
	require.ErrorIs(t, err, driven.ErrRecordNotFound)

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Acme", listed[0].CompanyName)
}

func TestVisitRepo_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVisitRepo(db)
	ctx := context.Background()

	out, err := repo.Insert(ctx, []model.VisitRecord{{CompanyName: "Acme"}})
	require.NoError(t, err)

	existing := out[0]
	existing.Remark = "updated"

	upserted, err := repo.Upsert(ctx, []model.VisitRecord{
		existing,
		{CompanyName: "Initech"},
		{ID: "0190f4b2-0000-7000-8000-000000000001", CompanyName: "Hooli"},
	})
	require.NoError(t, err)
	require.Len(t, upserted, 3)
	assert.Equal(t, existing.ID, upserted[0].ID)
	assert.Equal(t, "updated", upserted[0].Remark)
	assert.Len(t, upserted[1].ID, 36)
	assert.Equal(t, "0190f4b2-0000-7000-8000-000000000001", upserted[2].ID)

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestVisitRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVisitRepo(db)
	ctx := context.Background()

	out, err := repo.Insert(ctx, []model.VisitRecord{{CompanyName: "Acme"}, {CompanyName: "Globex"}})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, out[0].ID))

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Globex", listed[0].CompanyName)

	err = repo.Delete(ctx, out[0].ID)
	assert.ErrorIs(t, err, driven.ErrRecordNotFound)
}

func TestVisitRepo_DeleteAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVisitRepo(db)
	ctx := context.Background()

	_, err := repo.Insert(ctx, []model.VisitRecord{{CompanyName: "A"}, {CompanyName: "B"}, {CompanyName: "C"}})
	require.NoError(t, err)

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestVisitRepo_EmptyBatchesAreNoops(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVisitRepo(db)
	ctx := context.Background()

	out, err := repo.Insert(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	require.NoError(t, repo.Update(ctx, nil))
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"fixed width", "2024-03-01T10:00:00.000000000Z", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"sqlite default", "2024-03-01 10:00:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"rfc3339", "2024-03-01T10:00:00Z", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}

	_, err := parseTime("yesterday")
	assert.Error(t, err)
}
