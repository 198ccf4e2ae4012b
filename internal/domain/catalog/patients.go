package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Species define las especies soportadas.
type Species string

const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesBird    Species = "bird"
	SpeciesRabbit  Species = "rabbit"
	SpeciesReptile Species = "reptile"
	SpeciesOther   Species = "other"
)

// Sex define el sexo del paciente.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// RecordType: tipos de entrada en la historia clínica.
type RecordType string

const (
	RecordTypeMedicalVisit RecordType = "MEDICAL_VISIT"
	RecordTypeVaccine      RecordType = "VACCINE"
	RecordTypeDeworming    RecordType = "DEWORMING"
	RecordTypeMedication   RecordType = "MEDICATION_PRESCRIBED"
	RecordTypeWeight       RecordType = "WEIGHT_RECORDED"
	RecordTypeSurgery      RecordType = "SURGERY"
	RecordTypeNote         RecordType = "NOTE"
)

var (
	knownSpecies = map[Species]struct{}{
		SpeciesDog: {}, SpeciesCat: {}, SpeciesBird: {}, SpeciesRabbit: {}, SpeciesReptile: {}, SpeciesOther: {},
	}
	knownSex = map[Sex]struct{}{
		SexMale: {}, SexFemale: {}, SexUnknown: {},
	}
	knownRecordTypes = map[RecordType]struct{}{
		RecordTypeMedicalVisit: {}, RecordTypeVaccine: {}, RecordTypeDeworming: {}, RecordTypeMedication: {},
		RecordTypeWeight: {}, RecordTypeSurgery: {}, RecordTypeNote: {},
	}
)

// Los validadores solo miran campos presentes: sirven tanto para create como para PATCH.

func validatePatient(v map[string]any) error {
	if raw, ok := v["species"]; ok {
		s, _ := raw.(string)
		if _, known := knownSpecies[Species(strings.ToLower(strings.TrimSpace(s)))]; !known {
			return fmt.Errorf("%w: unsupported species %q", ErrInvalidInput, s)
		}
	}
	if raw, ok := v["sex"]; ok && raw != nil {
		s, _ := raw.(string)
		if _, known := knownSex[Sex(strings.ToLower(strings.TrimSpace(s)))]; !known {
			return fmt.Errorf("%w: sex must be male, female or unknown", ErrInvalidInput)
		}
	}
	if raw, ok := v["birth_date"]; ok && raw != nil {
		s, _ := raw.(string)
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return fmt.Errorf("%w: birth_date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	return nil
}

func validateAppointment(v map[string]any) error {
	if raw, ok := v["scheduled_at"]; ok {
		s, _ := raw.(string)
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return fmt.Errorf("%w: scheduled_at must be RFC3339", ErrInvalidInput)
		}
	}
	return nil
}

func validateMedicalRecord(v map[string]any) error {
	if raw, ok := v["type"]; ok {
		s, _ := raw.(string)
		if _, known := knownRecordTypes[RecordType(strings.TrimSpace(s))]; !known {
			return fmt.Errorf("%w: unsupported record type %q", ErrInvalidInput, s)
		}
	}
	return nil
}
