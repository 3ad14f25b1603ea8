package record

// HealthRecord is the document viewed and edited by the summary and section editors.
type HealthRecord struct {
	Description          string                `json:"description"`
	Symptoms             []Symptom             `json:"symptoms"`
	CurrentCondition     CurrentCondition      `json:"currentCondition"`
	TreatmentsTried      []string              `json:"treatmentsTried"`
	MedicalConsultations []MedicalConsultation `json:"medicalConsultations"`
	Updates              []Update              `json:"updates"`
}

// Symptom is a named condition with an onset date.
type Symptom struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"` // Format: YYYY-MM-DD, empty when unset
}

// CurrentCondition summarises where the record stands.
type CurrentCondition struct {
	Status            Status            `json:"status"`
	Severity          Severity          `json:"severity"`
	ImprovementStatus ImprovementStatus `json:"improvementStatus"`
}

// MedicalConsultation is one visit to a consultant.
type MedicalConsultation struct {
	Consultant      string   `json:"consultant"`
	Date            string   `json:"date"` // Format: YYYY-MM-DD
	Diagnosis       string   `json:"diagnosis"`
	FollowUpActions []string `json:"followUpActions"`
}

// Update is a change-log entry. Entries are carried through edits untouched.
type Update struct {
	ID   string `json:"id,omitempty"`
	Date string `json:"date,omitempty"`
	Note string `json:"note,omitempty"`
}

// Default returns the record a session starts with before any fetch completes.
func Default() HealthRecord {
	return HealthRecord{
		Description: "",
		Symptoms:    []Symptom{},
		CurrentCondition: CurrentCondition{
			Status:            StatusOpen,
			Severity:          SeverityMild,
			ImprovementStatus: ImprovementStable,
		},
		TreatmentsTried:      []string{},
		MedicalConsultations: []MedicalConsultation{},
		Updates:              []Update{},
	}
}

// Clone returns a deep copy so callers can mutate it without touching r.
func (r HealthRecord) Clone() HealthRecord {
	out := r
	out.Symptoms = CloneSymptoms(r.Symptoms)
	out.TreatmentsTried = cloneStrings(r.TreatmentsTried)
	out.MedicalConsultations = CloneConsultations(r.MedicalConsultations)
	out.Updates = make([]Update, len(r.Updates))
	copy(out.Updates, r.Updates)
	return out
}

// CloneSymptoms copies a symptom list. A nil list becomes an empty one.
func CloneSymptoms(in []Symptom) []Symptom {
	out := make([]Symptom, len(in))
	copy(out, in)
	return out
}

// CloneConsultations deep-copies a consultation list including follow-up actions.
func CloneConsultations(in []MedicalConsultation) []MedicalConsultation {
	out := make([]MedicalConsultation, len(in))
	for i, c := range in {
		out[i] = c
		out[i].FollowUpActions = cloneStrings(c.FollowUpActions)
	}
	return out
}

// CloneStrings copies a string list. A nil list becomes an empty one.
func CloneStrings(in []string) []string {
	return cloneStrings(in)
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
