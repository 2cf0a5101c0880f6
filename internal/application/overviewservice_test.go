package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/placementpanel/internal/application"
	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

func overviewRecords() []model.VisitRecord {
	return []model.VisitRecord{
		{CompanyName: "Acme", VisitType: "on campus", Location: "Pune", MailID: "hr@acme.example"},
		{CompanyName: " acme ", VisitType: "PPO", Location: "Pune"},
		{CompanyName: "Globex", VisitType: "Virtual", Location: "Delhi"},
		{CompanyName: "Initech", VisitType: "Internship + PPO", Location: ""},
		{CompanyName: "Globex", VisitType: "On Campus", Location: "delhi"},
		{CompanyName: "", VisitType: ""},
	}
}

func TestSummarize(t *testing.T) {
	ov := application.Summarize(overviewRecords())

	assert.Equal(t, 6, ov.TotalVisits)
	assert.Equal(t, 3, ov.UniqueCompanies)
	assert.Equal(t, 2, ov.PPOCount)

	assert.Equal(t, []model.NamedCount{
		{Name: "Acme", Count: 2},
		{Name: "Globex", Count: 2},
		{Name: "Initech", Count: 1},
	}, ov.TopCompanies)

	assert.Equal(t, model.NamedCount{Name: "On Campus", Count: 2}, ov.VisitTypes[0])
	assert.Contains(t, ov.VisitTypes, model.NamedCount{Name: "Ppo", Count: 1})
	assert.Contains(t, ov.VisitTypes, model.NamedCount{Name: "Unknown", Count: 1})

	assert.Equal(t, model.NamedCount{Name: "Pune", Count: 2}, ov.Locations[0])
	assert.Equal(t, model.NamedCount{Name: "Delhi", Count: 2}, ov.Locations[1])
	assert.Contains(t, ov.Locations, model.NamedCount{Name: "Unknown Location", Count: 2})
}

func TestSummarize_TopCompaniesCapped(t *testing.T) {
	var recs []model.VisitRecord
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		recs = append(recs, model.VisitRecord{CompanyName: name})
	}
	recs = append(recs, model.VisitRecord{CompanyName: "G"})

	ov := application.Summarize(recs)
	require.Len(t, ov.TopCompanies, 5)
	assert.Equal(t, "G", ov.TopCompanies[0].Name)
	assert.Equal(t, 7, ov.UniqueCompanies)
}

func TestDirectory(t *testing.T) {
	companies := application.Directory(overviewRecords())
	require.Len(t, companies, 3)

	assert.Equal(t, "Acme", companies[0].Name)
	assert.Equal(t, 2, companies[0].Visits)
	assert.Equal(t, "hr@acme.example", companies[0].MailID)
	assert.Equal(t, "Globex", companies[1].Name)
	assert.Equal(t, "Initech", companies[2].Name)

	filtered := application.FilterCompanies(companies, "DEL")
	require.Len(t, filtered, 1)
	assert.Equal(t, "Globex", filtered[0].Name)

	assert.Len(t, application.FilterCompanies(companies, ""), 3)
}

func TestOverviewService(t *testing.T) {
	store := &mockVisitStore{stored: overviewRecords()}
	svc := application.NewOverviewService(store)

	ov, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, ov.TotalVisits)

	companies, err := svc.Companies(context.Background(), "init")
	require.NoError(t, err)
	require.Len(t, companies, 1)

	store.listErr = errors.New("offline")
	_, err = svc.Overview(context.Background())
	assert.Error(t, err)
	_, err = svc.Companies(context.Background(), "")
	assert.Error(t, err)
}
