package billing

import (
	"time"

	"patient-sync/core/reconcile"
	"patient-sync/core/utils"

	"patient-sync/feature/billing/models"
)

const dateLayout = "2006-01-02"

// NormalizePatient maps one raw external patient record to its internal
// form. It is a pure function: no lookups, no side effects. Required
// fields: firstName, lastName, dateOfBirth (YYYY-MM-DD), externalId.
func NormalizePatient(data map[string]any) (*models.Patient, error) {
	externalID := utils.AsString(data["externalId"])

	firstName, ok := data["firstName"].(string)
	if !ok || firstName == "" {
		return nil, malformedPatient("firstName", "missing or not a string", externalID)
	}

	lastName, ok := data["lastName"].(string)
	if !ok || lastName == "" {
		return nil, malformedPatient("lastName", "missing or not a string", externalID)
	}

	var middleName string
	if raw, present := data["middleName"]; present && raw != nil {
		middleName, ok = raw.(string)
		if !ok {
			return nil, malformedPatient("middleName", "not a string", externalID)
		}
	}

	dobStr, ok := data["dateOfBirth"].(string)
	if !ok {
		return nil, malformedPatient("dateOfBirth", "missing or not a string", externalID)
	}
	dob, err := time.Parse(dateLayout, dobStr)
	if err != nil {
		return nil, malformedPatient("dateOfBirth", "not a YYYY-MM-DD date", externalID)
	}
	// Normalize to a UTC calendar date so persisted and incoming values
	// compare deterministically.
	dob = time.Date(dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)

	if externalID == "" {
		return nil, malformedPatient("externalId", "missing", "")
	}

	return &models.Patient{
		ExternalID:  externalID,
		FirstName:   firstName,
		LastName:    lastName,
		MiddleName:  middleName,
		DateOfBirth: dob,
	}, nil
}

// NormalizePayment maps one raw external payment record to its internal
// form. Required fields: amount (numeric), patientId (integer surrogate
// patient id, quoted or bare), externalId.
func NormalizePayment(data map[string]any) (*models.Payment, error) {
	externalID := utils.AsString(data["externalId"])

	amount, err := utils.AsFloat(data["amount"])
	if err != nil {
		return nil, malformedPayment("amount", err.Error(), externalID)
	}

	patientID, err := utils.AsInt(data["patientId"])
	if err != nil {
		return nil, malformedPayment("patientId", err.Error(), externalID)
	}

	if externalID == "" {
		return nil, malformedPayment("externalId", "missing", "")
	}

	return &models.Payment{
		ExternalID: externalID,
		Amount:     amount,
		PatientID:  patientID,
	}, nil
}

func malformedPatient(field, reason, externalID string) *reconcile.MalformedRecordError {
	return &reconcile.MalformedRecordError{Entity: "patient", Field: field, Reason: reason, ExternalID: externalID}
}

func malformedPayment(field, reason, externalID string) *reconcile.MalformedRecordError {
	return &reconcile.MalformedRecordError{Entity: "payment", Field: field, Reason: reason, ExternalID: externalID}
}
