package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFields_CanonicalOrder(t *testing.T) {
	fields := Fields()
	assert.Len(t, fields, FieldCount())
	assert.Equal(t, FieldVisitType, fields[0])
	assert.Equal(t, FieldRemark, fields[len(fields)-1])

	for i, f := range fields {
		assert.Equal(t, i, f.Index())
		got, ok := FieldAt(i)
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}

	_, ok := FieldAt(FieldCount())
	assert.False(t, ok)
	assert.Equal(t, -1, Field("nope").Index())
}

func TestVisitRecord_GetSet(t *testing.T) {
	var r VisitRecord
	for _, f := range Fields() {
		assert.True(t, r.Set(f, string(f)+"-value"))
	}
	for _, f := range Fields() {
		assert.Equal(t, string(f)+"-value", r.Get(f))
	}

	assert.False(t, r.Set(Field("unknown"), "x"))
	assert.Equal(t, "", r.Get(Field("unknown")))
}

func TestVisitRecord_PersistableDropsExtra(t *testing.T) {
	r := VisitRecord{CompanyName: "Acme", Extra: map[string]string{"round": "2"}}
	p := r.Persistable()
	assert.Nil(t, p.Extra)
	assert.Equal(t, "Acme", p.CompanyName)
	assert.Equal(t, "2", r.Extra["round"], "original keeps its extras")
}

func TestVisitRecord_IsPending(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{id: "", want: true},
		{id: "tmp-3", want: true},
		{id: "123456789012", want: true},
		{id: "1234567890123", want: false},
		{id: "0190f4b2-aaaa-7000-8000-000000000001", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r := VisitRecord{ID: tt.id}
			assert.Equal(t, tt.want, r.IsPending())
		})
	}
}

func TestVisitRecord_CloneIsDeep(t *testing.T) {
	r := VisitRecord{Extra: map[string]string{"round": "2"}}
	c := r.Clone()
	c.Extra["round"] = "3"
	assert.Equal(t, "2", r.Extra["round"])
}

func TestStyleDeclaration_CSS(t *testing.T) {
	assert.Equal(t, "", StyleDeclaration(nil).CSS())

	d := StyleDeclaration{{Name: "--primary", Value: "0 72% 51%"}, {Name: "--ring", Value: "0 72% 51%"}}
	assert.Equal(t, ":root{--primary:0 72% 51%;--ring:0 72% 51%;}", d.CSS())
}

func TestVisitCategoryMatches(t *testing.T) {
	assert.True(t, VisitOnCampus.Matches("On Campus"))
	assert.True(t, VisitOnCampus.Matches("on-campus"))
	assert.True(t, VisitOffCampus.Matches(" OFF CAMPUS "))
	assert.True(t, VisitVirtual.Matches("virtual"))
	assert.False(t, VisitOnCampus.Matches("Off Campus"))
	assert.False(t, VisitVirtual.Matches(""))
}
