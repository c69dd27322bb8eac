package domain

import "time"

// Observation is the Single Source of Truth for one (country, date) row of
// the OWID COVID-19 dataset. Every pipeline stage, exporter and API consumer
// works with this structure; no stage mutates an Observation after creation.
//
// Count fields are pointers: nil means the source file had no value for that
// cell, which is semantically distinct from zero. Present values are never
// negative. The derived fields are nil until the cleaning stage computes
// them, and stay nil when their denominator is zero or missing.
type Observation struct {
	// ISOCode is the stable entity code (e.g. "USA", "OWID_WRL" for
	// aggregate rows). Grouping key for the latest-per-country snapshot.
	ISOCode string `json:"iso_code" csv:"iso_code" validate:"required"`

	// Continent is empty for world/continent/income-group aggregate rows.
	// Cleaning drops every row with an empty continent.
	Continent string `json:"continent,omitempty" csv:"continent"`

	// Location is the human-readable entity name used for display and
	// per-country filtering.
	Location string `json:"location" csv:"location" validate:"required"`

	// Date is the observation calendar date (source format 2006-01-02).
	Date time.Time `json:"date" csv:"date" validate:"required"`

	TotalCases            *float64 `json:"total_cases,omitempty" csv:"total_cases"`
	NewCases              *float64 `json:"new_cases,omitempty" csv:"new_cases"`
	TotalDeaths           *float64 `json:"total_deaths,omitempty" csv:"total_deaths"`
	NewDeaths             *float64 `json:"new_deaths,omitempty" csv:"new_deaths"`
	ICUPatients           *float64 `json:"icu_patients,omitempty" csv:"icu_patients"`
	HospPatients          *float64 `json:"hosp_patients,omitempty" csv:"hosp_patients"`
	WeeklyICUAdmissions   *float64 `json:"weekly_icu_admissions,omitempty" csv:"weekly_icu_admissions"`
	Population            *float64 `json:"population,omitempty" csv:"population"`
	PeopleVaccinated      *float64 `json:"people_vaccinated,omitempty" csv:"people_vaccinated"`
	PeopleFullyVaccinated *float64 `json:"people_fully_vaccinated,omitempty" csv:"people_fully_vaccinated"`

	// DeathRate is TotalDeaths/TotalCases. nil when TotalCases is zero or
	// missing; never silently zero.
	DeathRate *float64 `json:"death_rate,omitempty"`

	// PctVaccinated and PctFullyVaccinated are count/Population*100. nil
	// when Population is zero or missing. Values above 100 from
	// inconsistent source data pass through unclamped.
	PctVaccinated      *float64 `json:"pct_vaccinated,omitempty"`
	PctFullyVaccinated *float64 `json:"pct_fully_vaccinated,omitempty"`
}

// HasContinent reports whether this row is a real country/territory row
// rather than a world or continent aggregate.
func (o Observation) HasContinent() bool {
	return o.Continent != ""
}

// Clone returns a deep copy; the copy shares no pointers with the original.
func (o Observation) Clone() Observation {
	c := o
	c.TotalCases = cloneFloat(o.TotalCases)
	c.NewCases = cloneFloat(o.NewCases)
	c.TotalDeaths = cloneFloat(o.TotalDeaths)
	c.NewDeaths = cloneFloat(o.NewDeaths)
	c.ICUPatients = cloneFloat(o.ICUPatients)
	c.HospPatients = cloneFloat(o.HospPatients)
	c.WeeklyICUAdmissions = cloneFloat(o.WeeklyICUAdmissions)
	c.Population = cloneFloat(o.Population)
	c.PeopleVaccinated = cloneFloat(o.PeopleVaccinated)
	c.PeopleFullyVaccinated = cloneFloat(o.PeopleFullyVaccinated)
	c.DeathRate = cloneFloat(o.DeathRate)
	c.PctVaccinated = cloneFloat(o.PctVaccinated)
	c.PctFullyVaccinated = cloneFloat(o.PctFullyVaccinated)
	return c
}

// Float returns a pointer to v. Convenience for building observations in
// cleaning code and tests.
func Float(v float64) *float64 {
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Dataset is an ordered collection of Observations. Insertion order mirrors
// source file order. A Dataset is constructed once per pipeline run and
// treated as immutable afterwards; stages that need to change rows build a
// new Dataset instead.
type Dataset struct {
	Observations []Observation `json:"observations"`
}

// Len returns the number of observations.
func (d Dataset) Len() int {
	return len(d.Observations)
}

// IsEmpty reports whether the dataset holds no observations.
func (d Dataset) IsEmpty() bool {
	return len(d.Observations) == 0
}

// Clone returns a deep copy safe to hand across ownership boundaries.
func (d Dataset) Clone() Dataset {
	if d.Observations == nil {
		return Dataset{}
	}
	out := Dataset{Observations: make([]Observation, len(d.Observations))}
	for i, o := range d.Observations {
		out.Observations[i] = o.Clone()
	}
	return out
}

// FilterLocation returns a new Dataset holding only rows whose Location
// matches name exactly, preserving date order. The result is a deep copy.
func (d Dataset) FilterLocation(name string) Dataset {
	var out Dataset
	for _, o := range d.Observations {
		if o.Location == name {
			out.Observations = append(out.Observations, o.Clone())
		}
	}
	return out
}
