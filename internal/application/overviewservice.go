package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
	"github.com/ericfisherdev/placementpanel/internal/domain/port/driven"
)

const topCompanyLimit = 5

// OverviewService derives dashboard statistics and the company directory from
// stored visits. It depends only on the VisitStore port.
type OverviewService struct {
	store driven.VisitStore
}

// NewOverviewService creates a new OverviewService.
func NewOverviewService(store driven.VisitStore) *OverviewService {
	return &OverviewService{store: store}
}

// Overview loads all records and summarises them.
func (s *OverviewService) Overview(ctx context.Context) (model.Overview, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return model.Overview{}, fmt.Errorf("load records for overview: %w: %w", ErrStore, err)
	}
	return Summarize(records), nil
}

// Companies loads all records and returns the company directory filtered by
// a case-insensitive name or location substring.
func (s *OverviewService) Companies(ctx context.Context, search string) ([]model.Company, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records for companies: %w: %w", ErrStore, err)
	}
	return FilterCompanies(Directory(records), search), nil
}

// Summarize computes overview statistics. Company names are compared trimmed
// and case-insensitively; the first spelling seen is reported. A visit counts
// as a PPO when its visit type mentions "ppo".
func Summarize(records []model.VisitRecord) model.Overview {
	ov := model.Overview{TotalVisits: len(records)}

	companies := newCounter()
	types := newCounter()
	locations := newCounter()
	titler := cases.Title(language.English)

	for _, rec := range records {
		if name := strings.TrimSpace(rec.CompanyName); name != "" {
			companies.add(strings.ToLower(name), name)
		}

		vt := strings.TrimSpace(rec.VisitType)
		if strings.Contains(strings.ToLower(vt), "ppo") {
			ov.PPOCount++
		}
		if vt == "" {
			vt = "Unknown"
		}
		types.add(strings.ToLower(vt), titler.String(vt))

		loc := strings.TrimSpace(rec.Location)
		if loc == "" {
			loc = "Unknown Location"
		}
		locations.add(strings.ToLower(loc), loc)
	}

	ov.UniqueCompanies = len(companies.counts)
	ov.TopCompanies = companies.top(topCompanyLimit)
	ov.VisitTypes = types.top(0)
	ov.Locations = locations.top(0)
	return ov
}

// Directory returns one entry per company, keyed by trimmed lowercase name.
// Contact details come from the first record seen for the company.
func Directory(records []model.VisitRecord) []model.Company {
	index := make(map[string]int)
	var out []model.Company

	for _, rec := range records {
		name := strings.TrimSpace(rec.CompanyName)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if i, ok := index[key]; ok {
			out[i].Visits++
			continue
		}
		index[key] = len(out)
		out = append(out, model.Company{
			RecordID:      rec.ID,
			Name:          name,
			Address:       rec.Address,
			Location:      rec.Location,
			ContactPerson: rec.ContactPerson,
			MailID:        rec.MailID,
			ContactNumber: rec.ContactNumber,
			CompanyType:   rec.CompanyType,
			Visits:        1,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// FilterCompanies keeps companies whose name or location contains search.
func FilterCompanies(companies []model.Company, search string) []model.Company {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return companies
	}

	var out []model.Company
	for _, c := range companies {
		if strings.Contains(strings.ToLower(c.Name), search) || strings.Contains(strings.ToLower(c.Location), search) {
			out = append(out, c)
		}
	}
	return out
}

// counter tallies occurrences by key and remembers the first label per key.
type counter struct {
	counts map[string]int
	labels map[string]string
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int), labels: make(map[string]string)}
}

func (c *counter) add(key, label string) {
	if _, ok := c.counts[key]; !ok {
		c.labels[key] = label
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// top returns entries by descending count, ties in first-seen order. A limit
// of zero returns every entry.
func (c *counter) top(limit int) []model.NamedCount {
	out := make([]model.NamedCount, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, model.NamedCount{Name: c.labels[k], Count: c.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
