package record

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON decodes a record from the service payload on top of Default.
// Null collections become empty ones, a missing or blank condition field
// takes its default, and every date is normalized to DateLayout.
func (r *HealthRecord) UnmarshalJSON(data []byte) error {
	type wire HealthRecord
	w := wire(Default())
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = HealthRecord(w)

	def := Default().CurrentCondition
	if r.CurrentCondition.Status == "" {
		r.CurrentCondition.Status = def.Status
	}
	if r.CurrentCondition.Severity == "" {
		r.CurrentCondition.Severity = def.Severity
	}
	if r.CurrentCondition.ImprovementStatus == "" {
		r.CurrentCondition.ImprovementStatus = def.ImprovementStatus
	}

	if r.Symptoms == nil {
		r.Symptoms = []Symptom{}
	}
	if r.TreatmentsTried == nil {
		r.TreatmentsTried = []string{}
	}
	if r.MedicalConsultations == nil {
		r.MedicalConsultations = []MedicalConsultation{}
	}
	if r.Updates == nil {
		r.Updates = []Update{}
	}
	return nil
}

func (s *Symptom) UnmarshalJSON(data []byte) error {
	type wire Symptom
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	date, err := ParseDate(w.StartDate)
	if err != nil {
		return fmt.Errorf("symptom %q start date: %w", w.Name, err)
	}
	w.StartDate = date
	*s = Symptom(w)
	return nil
}

func (c *MedicalConsultation) UnmarshalJSON(data []byte) error {
	type wire MedicalConsultation
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	date, err := ParseDate(w.Date)
	if err != nil {
		return fmt.Errorf("consultation with %q date: %w", w.Consultant, err)
	}
	w.Date = date
	if w.FollowUpActions == nil {
		w.FollowUpActions = []string{}
	}
	*c = MedicalConsultation(w)
	return nil
}
